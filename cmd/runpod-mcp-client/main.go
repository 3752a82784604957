package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/runpod/runpod-mcp-server/cmd/runpod-mcp-client/output"
	"github.com/runpod/runpod-mcp-server/pkg/version"
)

func main() {
	var (
		serverURL string
		authHdr   string
		toolName  string
		toolArgs  string
		jsonOut   bool
		listTools bool
		timeout   time.Duration
	)

	flag.StringVar(&serverURL, "server", getenvDefault("MCP_SERVER", "http://localhost:8080/mcp"), "MCP server URL (e.g. http://host:port/mcp)")
	flag.StringVar(&authHdr, "authorization", os.Getenv("AUTHORIZATION"), "Authorization header value, for servers behind an authenticating proxy")
	flag.StringVar(&toolName, "tool", "", "Tool to call (e.g. list-pods)")
	flag.StringVar(&toolArgs, "args", "{}", `Tool arguments as a JSON object (e.g. '{"podId":"abc"}')`)
	flag.BoolVar(&jsonOut, "json", false, "If true, print JSON output instead of pretty formatting")
	flag.BoolVar(&listTools, "list-tools", false, "List the tools exposed by the server and exit")
	flag.DurationVar(&timeout, "timeout", 60*time.Second, "Overall request timeout")
	flag.Parse()

	if !listTools && strings.TrimSpace(toolName) == "" {
		fmt.Fprintln(os.Stderr, "either --tool or --list-tools is required")
		os.Exit(1)
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(toolArgs), &args); err != nil {
		fmt.Fprintf(os.Stderr, "invalid --args, expected a JSON object: %v\n", err)
		os.Exit(1)
	}

	opts := []transport.StreamableHTTPCOption{
		transport.WithHTTPTimeout(timeout),
	}
	if authHdr != "" {
		opts = append(opts, transport.WithHTTPHeaders(map[string]string{"Authorization": authHdr}))
	}

	client, err := mcpclient.NewStreamableHttpClient(serverURL, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create client: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start client: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = client.Close() }()

	_, err = client.Initialize(ctx, mcp.InitializeRequest{
		Request: mcp.Request{Method: string(mcp.MethodInitialize)},
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			ClientInfo: mcp.Implementation{
				Name:    "runpod-mcp-client",
				Version: version.Version,
			},
			Capabilities: mcp.ClientCapabilities{},
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize client: %v\n", err)
		os.Exit(1)
	}

	if listTools {
		toolsRes, err := client.ListTools(ctx, mcp.ListToolsRequest{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to list tools: %v\n", err)
			os.Exit(1)
		}
		infos := make([]output.ToolInfo, 0, len(toolsRes.Tools))
		for _, t := range toolsRes.Tools {
			infos = append(infos, output.ToolInfo{Name: t.Name, Description: t.Description})
		}
		output.PrintToolList(os.Stdout, infos, jsonOut)
		return
	}

	result, err := client.CallTool(ctx, mcp.CallToolRequest{
		Request: mcp.Request{Method: "tools/call"},
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: args,
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "tool call failed: %v\n", err)
		os.Exit(2)
	}

	if result.IsError {
		fmt.Fprintf(os.Stderr, "error: %s\n", firstText(result))
		os.Exit(3)
	}

	output.Print(os.Stdout, firstText(result), jsonOut)
}

func firstText(r *mcp.CallToolResult) string {
	if r == nil {
		return ""
	}
	for _, c := range r.Content {
		if t, ok := c.(mcp.TextContent); ok {
			return t.Text
		}
	}
	return ""
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
