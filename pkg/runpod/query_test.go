package runpod

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/suite"
	"k8s.io/utils/ptr"
)

type QuerySuite struct {
	suite.Suite
}

func (s *QuerySuite) TestQuery() {
	s.Run("omitted values add nothing", func() {
		q := NewQuery().String("name", "").Strings("gpuTypeId", nil).Bool("includeMachine", nil)
		s.Empty(q.Values())
	})
	s.Run("empty arrays add nothing", func() {
		s.Empty(NewQuery().Strings("dataCenterId", []string{}).Values())
	})
	s.Run("arrays repeat the parameter in order", func() {
		q := NewQuery().String("computeType", "GPU").Strings("gpuTypeId", []string{"A100", "H100"})
		s.Equal("computeType=GPU&gpuTypeId=A100&gpuTypeId=H100", q.Values().Encode())
	})
	s.Run("booleans are serialized", func() {
		q := NewQuery().Bool("includeMachine", ptr.To(true)).Bool("includeNetworkVolume", ptr.To(false))
		s.Equal(url.Values{"includeMachine": {"true"}, "includeNetworkVolume": {"false"}}, q.Values())
	})
}

func (s *QuerySuite) TestPath() {
	s.Equal("/pods", Path("pods"))
	s.Equal("/pods/abc/start", Path("pods", "abc", "start"))
	s.Equal("/ep-1/status/job%2F1", Path("ep-1", "status", "job/1"))
	s.Equal("/templates/a%20b", Path("templates", "a b"))
}

func TestQuery(t *testing.T) {
	suite.Run(t, new(QuerySuite))
}
