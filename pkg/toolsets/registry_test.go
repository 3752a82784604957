package toolsets

import (
	"errors"
	"testing"

	"github.com/runpod/runpod-mcp-server/pkg/api"
	"github.com/stretchr/testify/suite"
)

type RegistrySuite struct {
	suite.Suite
}

func TestRegistry(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func tool(name string) api.ServerTool {
	return api.ServerTool{Tool: api.Tool{Name: name, Description: name + " description"}}
}

func (s *RegistrySuite) TestRegister() {
	r := NewRegistry()
	s.Run("keeps registration order", func() {
		s.Require().NoError(r.Register(tool("list-pods")))
		s.Require().NoError(r.Register(tool("get-pod")))
		s.Equal(2, r.Len())
		all := r.ListAll()
		s.Equal("list-pods", all[0].Tool.Name)
		s.Equal("get-pod", all[1].Tool.Name)
	})
	s.Run("rejects duplicate names", func() {
		err := r.Register(tool("get-pod"))
		var duplicate *api.DuplicateToolError
		s.Require().True(errors.As(err, &duplicate))
		s.Equal("get-pod", duplicate.Name)
		s.Equal(2, r.Len())
	})
}

func (s *RegistrySuite) TestListAllReturnsCopy() {
	r := NewRegistry()
	s.Require().NoError(r.Register(tool("list-pods")))
	all := r.ListAll()
	all[0] = tool("tampered")
	s.Equal("list-pods", r.ListAll()[0].Tool.Name)
}

func (s *RegistrySuite) TestLookup() {
	r := NewRegistry()
	s.Require().NoError(r.Register(tool("list-pods")))
	s.Run("finds registered tools", func() {
		found, ok := r.Lookup("list-pods")
		s.True(ok)
		s.Equal("list-pods description", found.Tool.Description)
	})
	s.Run("reports missing tools", func() {
		_, ok := r.Lookup("missing")
		s.False(ok)
	})
}
