package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/suite"
)

type OutputSuite struct {
	suite.Suite
}

func (s *OutputSuite) TestPrint() {
	s.Run("compacts JSON when requested", func() {
		var buf bytes.Buffer
		Print(&buf, "{\n  \"id\": \"pod-1\"\n}", true)
		s.Equal("{\"id\":\"pod-1\"}\n", buf.String())
	})
	s.Run("keeps pretty text by default", func() {
		var buf bytes.Buffer
		Print(&buf, "{\n  \"id\": \"pod-1\"\n}", false)
		s.Equal("{\n  \"id\": \"pod-1\"\n}\n", buf.String())
	})
	s.Run("non JSON is written as received", func() {
		var buf bytes.Buffer
		Print(&buf, "id: pod-1", true)
		s.Equal("id: pod-1\n", buf.String())
	})
}

func (s *OutputSuite) TestPrintToolList() {
	tools := []ToolInfo{{Name: "list-pods", Description: "List all pods.\nSupports filters."}}
	s.Run("text shows the first description line", func() {
		var buf bytes.Buffer
		PrintToolList(&buf, tools, false)
		s.Equal("- "+colorCyan+"list-pods"+colorReset+": List all pods.\n", buf.String())
	})
	s.Run("json", func() {
		var buf bytes.Buffer
		PrintToolList(&buf, tools, true)
		s.JSONEq(`[{"name":"list-pods","description":"List all pods.\nSupports filters."}]`, buf.String())
	})
	s.Run("empty", func() {
		var buf bytes.Buffer
		PrintToolList(&buf, nil, false)
		s.Equal("No tools available\n", buf.String())
	})
}

func TestOutput(t *testing.T) {
	suite.Run(t, new(OutputSuite))
}
