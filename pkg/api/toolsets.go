package api

import (
	"context"
	"net/url"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/runpod/runpod-mcp-server/pkg/output"
	"github.com/runpod/runpod-mcp-server/pkg/runpod"
)

type ServerTool struct {
	Tool    Tool
	Handler ToolHandlerFunc
}

// IsReadOnly reports whether the tool is annotated as not modifying RunPod resources.
func (s *ServerTool) IsReadOnly() bool {
	return s.Tool.Annotations.ReadOnlyHint != nil && *s.Tool.Annotations.ReadOnlyHint
}

// IsDestructive reports whether the tool is annotated as destructive.
// Tools without the hint are considered destructive unless they are read-only.
func (s *ServerTool) IsDestructive() bool {
	if s.IsReadOnly() {
		return false
	}
	return s.Tool.Annotations.DestructiveHint == nil || *s.Tool.Annotations.DestructiveHint
}

type Toolset interface {
	// GetName returns the name of the toolset.
	// Used to identify the toolset in configuration, logs, and command-line arguments.
	// Examples: "pods", "serverless", "templates"
	GetName() string
	// GetDescription returns a human-readable description of the toolset.
	// Will be used to generate documentation and help text.
	GetDescription() string
	GetTools() []ServerTool
}

// RunPodClient issues authenticated requests against one of the RunPod APIs.
type RunPodClient interface {
	Send(ctx context.Context, api runpod.API, method, path string, query url.Values, body any) (*runpod.Response, error)
}

type ToolCallRequest interface {
	GetArguments() map[string]any
}

type ToolCallResult struct {
	// Raw content returned by the tool.
	Content string
	// Error (non-protocol) to send back to the LLM.
	Error error
}

// NewToolCallResult creates a ToolCallResult with text content only.
func NewToolCallResult(content string, err error) *ToolCallResult {
	return &ToolCallResult{
		Content: content,
		Error:   err,
	}
}

type ToolHandlerParams struct {
	context.Context
	ToolCallRequest
	RunPod RunPodClient
	Output output.Output
}

type ToolHandlerFunc func(params ToolHandlerParams) (*ToolCallResult, error)

type Tool struct {
	// The name of the tool.
	// Intended for programmatic or logical use, but used as a display name in past
	// specs or fallback (if title isn't present).
	Name string `json:"name"`
	// A human-readable description of the tool.
	//
	// This can be used by clients to improve the LLM's understanding of available
	// tools. It can be thought of like a "hint" to the model.
	Description string `json:"description,omitempty"`
	// Additional tool information.
	Annotations ToolAnnotations `json:"annotations"`
	// A JSON Schema object defining the expected parameters for the tool.
	InputSchema *jsonschema.Schema `json:"inputSchema,omitempty"`
}

type ToolAnnotations struct {
	// Human-readable title for the tool
	Title string `json:"title,omitempty"`
	// If true, the tool does not modify its environment.
	ReadOnlyHint *bool `json:"readOnlyHint,omitempty"`
	// If true, the tool may perform destructive updates to its environment. If
	// false, the tool performs only additive updates.
	//
	// (This property is meaningful only when ReadOnlyHint == false.)
	DestructiveHint *bool `json:"destructiveHint,omitempty"`
	// If true, calling the tool repeatedly with the same arguments will have no
	// additional effect on its environment.
	//
	// (This property is meaningful only when ReadOnlyHint == false.)
	IdempotentHint *bool `json:"idempotentHint,omitempty"`
	// If true, this tool may interact with an "open world" of external entities. If
	// false, the tool's domain of interaction is closed.
	OpenWorldHint *bool `json:"openWorldHint,omitempty"`
}
