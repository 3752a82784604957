package mcp

import (
	"bytes"
	"flag"
	"strconv"

	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/stretchr/testify/suite"
	"k8s.io/klog/v2"
	"k8s.io/klog/v2/textlogger"

	"github.com/runpod/runpod-mcp-server/internal/test"
	"github.com/runpod/runpod-mcp-server/pkg/config"
)

const testAPIKey = "rpa_TESTKEY0000000000000000000000"

// BaseMcpSuite serves the MCP server over streamable HTTP against a mock RunPod API
type BaseMcpSuite struct {
	suite.Suite
	*test.McpClient
	mcpServer *Server
	RunPod    *test.RunPodServer
	Cfg       *config.StaticConfig
	logBuffer bytes.Buffer
}

func (s *BaseMcpSuite) SetupTest() {
	s.RunPod = test.NewRunPodServer()
	s.Cfg = config.Default()
	s.Cfg.RestAPIURL = s.RunPod.URL() + "/v1"
	s.Cfg.ServerlessAPIURL = s.RunPod.URL() + "/v2"
}

func (s *BaseMcpSuite) TearDownTest() {
	if s.McpClient != nil {
		s.McpClient.Close()
		s.McpClient = nil
	}
	if s.mcpServer != nil {
		_ = s.mcpServer.Shutdown(s.T().Context())
		s.mcpServer = nil
	}
	if s.RunPod != nil {
		s.RunPod.Close()
	}
	klog.ClearLogger()
}

func (s *BaseMcpSuite) InitMcpClient(options ...transport.StreamableHTTPCOption) {
	var err error
	s.mcpServer, err = NewServer(Configuration{StaticConfig: s.Cfg}, testAPIKey)
	s.Require().NoError(err, "Expected no error creating MCP server")
	s.McpClient = test.NewMcpClient(s.T(), s.mcpServer.ServeHTTP(), options...)
}

// CaptureLogs redirects klog output at the given verbosity into logBuffer
func (s *BaseMcpSuite) CaptureLogs(level int) {
	flags := flag.NewFlagSet("test", flag.ContinueOnError)
	klog.InitFlags(flags)
	s.Require().NoError(flags.Set("v", strconv.Itoa(level)))
	s.logBuffer.Reset()
	logger := textlogger.NewLogger(textlogger.NewConfig(textlogger.Verbosity(level), textlogger.Output(&s.logBuffer)))
	klog.SetLoggerWithOptions(logger)
}
