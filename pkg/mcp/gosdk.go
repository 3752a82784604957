package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"k8s.io/utils/ptr"

	"github.com/runpod/runpod-mcp-server/pkg/api"
)

// ServerToolToGoSdkTool converts an api.ServerTool into its go-sdk definition.
// Calls are routed through the server dispatcher, which validates the arguments first.
func ServerToolToGoSdkTool(s *Server, tool api.ServerTool) (*mcp.Tool, mcp.ToolHandler, error) {
	if tool.Tool.InputSchema == nil {
		return nil, nil, fmt.Errorf("tool %s has no input schema", tool.Tool.Name)
	}
	goSdkTool := &mcp.Tool{
		Name:        tool.Tool.Name,
		Title:       tool.Tool.Annotations.Title,
		Description: tool.Tool.Description,
		Annotations: &mcp.ToolAnnotations{
			Title:           tool.Tool.Annotations.Title,
			ReadOnlyHint:    ptr.Deref(tool.Tool.Annotations.ReadOnlyHint, false),
			DestructiveHint: tool.Tool.Annotations.DestructiveHint,
			IdempotentHint:  ptr.Deref(tool.Tool.Annotations.IdempotentHint, false),
			OpenWorldHint:   tool.Tool.Annotations.OpenWorldHint,
		},
		InputSchema: tool.Tool.InputSchema,
	}
	goSdkHandler := func(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := s.dispatcher.Dispatch(ctx, request.Params.Name, request.Params.Arguments)
		if err != nil {
			return nil, err
		}
		return NewTextResult(result.Content, result.Error), nil
	}
	return goSdkTool, goSdkHandler, nil
}

type ToolCallRequest struct {
	Name      string
	arguments map[string]any
}

var _ api.ToolCallRequest = (*ToolCallRequest)(nil)

func (t *ToolCallRequest) GetArguments() map[string]any {
	return t.arguments
}

// GoSdkToolCallParamsToToolCallRequest decodes the raw arguments of a tools/call request.
// Missing or null arguments decode to an empty map.
func GoSdkToolCallParamsToToolCallRequest(toolCallParams *mcp.CallToolParamsRaw) (*ToolCallRequest, error) {
	arguments, err := decodeArguments(toolCallParams.Arguments)
	if err != nil {
		return &ToolCallRequest{Name: toolCallParams.Name, arguments: map[string]any{}}, err
	}
	return &ToolCallRequest{Name: toolCallParams.Name, arguments: arguments}, nil
}

func decodeArguments(raw json.RawMessage) (map[string]any, error) {
	arguments := map[string]any{}
	if len(raw) == 0 || string(raw) == "null" {
		return arguments, nil
	}
	if err := json.Unmarshal(raw, &arguments); err != nil {
		return map[string]any{}, fmt.Errorf("failed to unmarshal tool call arguments: %w", err)
	}
	if arguments == nil {
		arguments = map[string]any{}
	}
	return arguments, nil
}
