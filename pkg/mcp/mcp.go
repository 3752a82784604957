package mcp

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"k8s.io/klog/v2"

	"github.com/runpod/runpod-mcp-server/pkg/api"
	"github.com/runpod/runpod-mcp-server/pkg/config"
	"github.com/runpod/runpod-mcp-server/pkg/metrics"
	"github.com/runpod/runpod-mcp-server/pkg/output"
	"github.com/runpod/runpod-mcp-server/pkg/runpod"
	"github.com/runpod/runpod-mcp-server/pkg/toolsets"
	"github.com/runpod/runpod-mcp-server/pkg/version"
)

type Configuration struct {
	*config.StaticConfig
	output   output.Output
	toolsets []api.Toolset
}

func (c *Configuration) Toolsets() []api.Toolset {
	if c.toolsets == nil {
		for _, toolset := range c.StaticConfig.Toolsets {
			if ts := toolsets.ToolsetFromString(toolset); ts != nil {
				c.toolsets = append(c.toolsets, ts)
			}
		}
	}
	return c.toolsets
}

func (c *Configuration) Output() output.Output {
	if c.output == nil {
		c.output = output.FromString(c.StaticConfig.Output)
	}
	if c.output == nil {
		c.output = output.Json
	}
	return c.output
}

func (c *Configuration) isToolApplicable(tool api.ServerTool) bool {
	return CompositeFilter(
		ReadOnlyFilter(c.ReadOnly),
		NonDestructiveFilter(c.DisableDestructive),
		EnabledToolsFilter(c.EnabledTools),
		DisabledToolsFilter(c.DisabledTools),
	)(tool)
}

type Server struct {
	configuration *Configuration
	server        *mcp.Server
	registry      *toolsets.Registry
	dispatcher    *Dispatcher
	metrics       *metrics.Metrics // Metrics collection system
}

// NewServer builds the MCP server exposing the configured toolsets.
// apiKey is the RunPod credential sent as a bearer token with every upstream request.
func NewServer(configuration Configuration, apiKey string) (*Server, error) {
	if err := toolsets.Validate(configuration.StaticConfig.Toolsets); err != nil {
		return nil, err
	}
	timeout, err := configuration.GetRequestTimeout()
	if err != nil {
		return nil, err
	}

	s := &Server{
		configuration: &configuration,
		server: mcp.NewServer(
			&mcp.Implementation{
				Name:       version.BinaryName,
				Title:      version.BinaryName,
				Version:    version.Version,
				WebsiteURL: version.WebsiteURL,
			},
			&mcp.ServerOptions{
				Capabilities: &mcp.ServerCapabilities{
					Tools:   &mcp.ToolCapabilities{ListChanged: false},
					Logging: &mcp.LoggingCapabilities{},
				},
				Instructions: configuration.ServerInstructions,
			}),
		registry: toolsets.NewRegistry(),
	}

	// Initialize metrics system
	metricsInstance, err := metrics.New(metrics.Config{
		TracerName:     version.BinaryName + "/mcp",
		ServiceName:    version.BinaryName,
		ServiceVersion: version.Version,
		Telemetry:      &configuration.Telemetry,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	s.metrics = metricsInstance

	client, err := runpod.NewClient(runpod.Options{
		APIKey:           apiKey,
		RestAPIURL:       configuration.RestAPIURL,
		ServerlessAPIURL: configuration.ServerlessAPIURL,
		Timeout:          timeout,
		Observer:         s.recordUpstreamRequest,
	})
	if err != nil {
		return nil, err
	}

	for _, tool := range s.collectApplicableTools() {
		if err = s.registry.Register(tool); err != nil {
			return nil, err
		}
	}
	s.dispatcher, err = NewDispatcher(s.registry, client, s.configuration.Output())
	if err != nil {
		return nil, err
	}
	for _, tool := range s.registry.ListAll() {
		if err = s.registerTool(tool); err != nil {
			return nil, err
		}
	}
	klog.V(1).Infof("Registered %d tools from toolsets %v", s.registry.Len(), configuration.StaticConfig.Toolsets)

	s.server.AddReceivingMiddleware(sessionInjectionMiddleware)
	s.server.AddReceivingMiddleware(traceContextPropagationMiddleware)
	s.server.AddReceivingMiddleware(tracingMiddleware(version.BinaryName + "/mcp"))
	s.server.AddReceivingMiddleware(toolCallLoggingMiddleware)
	s.server.AddReceivingMiddleware(s.metricsMiddleware())
	return s, nil
}

// collectApplicableTools returns the tools of the configured toolsets that pass the configured filters
func (s *Server) collectApplicableTools() []api.ServerTool {
	tools := make([]api.ServerTool, 0)
	for _, toolset := range s.configuration.Toolsets() {
		for _, tool := range toolset.GetTools() {
			if s.configuration.isToolApplicable(tool) {
				tools = append(tools, tool)
			}
		}
	}
	return tools
}

// registerTool converts and registers a tool with the MCP server
func (s *Server) registerTool(tool api.ServerTool) error {
	goSdkTool, goSdkToolHandler, err := ServerToolToGoSdkTool(s, tool)
	if err != nil {
		return fmt.Errorf("failed to convert tool %s: %w", tool.Tool.Name, err)
	}
	s.server.AddTool(goSdkTool, goSdkToolHandler)
	return nil
}

func (s *Server) recordUpstreamRequest(target runpod.API, method string, statusCode int, duration time.Duration) {
	s.metrics.RecordUpstreamRequest(context.Background(), target.String(), method, statusCode, duration)
}

// metricsMiddleware returns a metrics middleware with access to the server's metrics system
func (s *Server) metricsMiddleware() func(mcp.MethodHandler) mcp.MethodHandler {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			start := time.Now()
			result, err := next(ctx, method, req)
			duration := time.Since(start)

			toolName := method
			recordErr := err
			if method == "tools/call" {
				if params, ok := req.GetParams().(*mcp.CallToolParamsRaw); ok {
					toolName = params.Name
				}
				// error results are counted as failures but still reach the client
				if toolResult, ok := result.(*mcp.CallToolResult); ok && err == nil && toolResult.IsError {
					recordErr = fmt.Errorf("tool %s returned an error result", toolName)
				}
			}

			// Record to all collectors
			s.metrics.RecordToolCall(ctx, toolName, duration, recordErr)

			return result, err
		}
	}
}

// GetMetrics returns the metrics system for use by the HTTP server.
func (s *Server) GetMetrics() *metrics.Metrics {
	return s.metrics
}

// Dispatcher returns the dispatcher that runs the tool calls of this server.
func (s *Server) Dispatcher() *Dispatcher {
	return s.dispatcher
}

func (s *Server) ServeStdio(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.LoggingTransport{Transport: &mcp.StdioTransport{}, Writer: os.Stderr})
}

// Connect serves the MCP protocol over the provided transport, used by in-process clients.
func (s *Server) Connect(ctx context.Context, transport mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, transport, nil)
}

func (s *Server) ServeSse() *mcp.SSEHandler {
	return mcp.NewSSEHandler(func(request *http.Request) *mcp.Server {
		return s.server
	}, &mcp.SSEOptions{})
}

func (s *Server) ServeHTTP() *mcp.StreamableHTTPHandler {
	return mcp.NewStreamableHTTPHandler(func(request *http.Request) *mcp.Server {
		return s.server
	}, &mcp.StreamableHTTPOptions{
		// When Stateless is true, the server will not send notifications to clients
		// and keeps no session state between requests.
		// https://modelcontextprotocol.io/specification/2025-03-26/basic/transports#listening-for-messages-from-the-server
		Stateless: s.configuration.Stateless,
	})
}

// GetEnabledTools returns the names of the registered tools in registration order
func (s *Server) GetEnabledTools() []string {
	names := make([]string, 0, s.registry.Len())
	for _, tool := range s.registry.ListAll() {
		names = append(names, tool.Tool.Name)
	}
	return names
}

// Shutdown gracefully shuts down the server, flushing any pending metrics.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.metrics != nil {
		if err := s.metrics.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown metrics: %w", err)
		}
	}
	return nil
}

func NewTextResult(content string, err error) *mcp.CallToolResult {
	if err != nil {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{
					Text: err.Error(),
				},
			},
		}
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: content,
			},
		},
	}
}
