package serverless

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type ServerlessSuite struct {
	suite.Suite
}

func TestServerless(t *testing.T) {
	suite.Run(t, new(ServerlessSuite))
}

func (s *ServerlessSuite) TestTools() {
	tools := (&Toolset{}).GetTools()
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Tool.Name)
	}
	s.Equal([]string{"run-endpoint", "runsync-endpoint", "get-job-status", "stream-job", "cancel-job", "retry-job", "endpoint-health", "purge-endpoint-queue"}, names)
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

func (s *ServerlessSuite) TestSchemasAreNotShared() {
	tools := (&Toolset{}).GetTools()
	run, runsync := tools[0].Tool.InputSchema, tools[1].Tool.InputSchema
	s.NotSame(run.Properties["policy"], runsync.Properties["policy"])
	s.NotSame(run.Properties["s3Config"], runsync.Properties["s3Config"])
	s.Equal([]string{"endpointId", "input"}, run.Required)
	s.Equal([]string{"accessId", "accessSecret", "bucketName", "endpointUrl"}, run.Properties["s3Config"].Required)
}
