package endpoints

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type EndpointsSuite struct {
	suite.Suite
}

func TestEndpoints(t *testing.T) {
	suite.Run(t, new(EndpointsSuite))
}

func (s *EndpointsSuite) TestTools() {
	tools := (&Toolset{}).GetTools()
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Tool.Name)
	}
	s.Equal([]string{"list-endpoints", "get-endpoint", "create-endpoint", "update-endpoint", "delete-endpoint"}, names)
	for _, tool := range tools {
		s.Run(tool.Tool.Name, func() {
			s.NotEmpty(tool.Tool.Description, "Expected a description")
			s.NotEmpty(tool.Tool.Annotations.Title, "Expected a title")
			s.Equal("object", tool.Tool.InputSchema.Type)
			s.NotNil(tool.Handler, "Expected a handler")
			s.True(*tool.Tool.Annotations.OpenWorldHint)
			for _, required := range tool.Tool.InputSchema.Required {
				s.Contains(tool.Tool.InputSchema.Properties, required, "Required field must be declared")
			}
		})
	}
}
