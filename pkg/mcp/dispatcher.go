package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"k8s.io/klog/v2"

	"github.com/runpod/runpod-mcp-server/pkg/api"
	"github.com/runpod/runpod-mcp-server/pkg/mcplog"
	"github.com/runpod/runpod-mcp-server/pkg/output"
	"github.com/runpod/runpod-mcp-server/pkg/toolsets"
)

// Dispatcher validates tool call arguments and invokes the matching tool handler.
type Dispatcher struct {
	registry   *toolsets.Registry
	validators map[string]*argumentValidator
	runpod     api.RunPodClient
	output     output.Output
}

func NewDispatcher(registry *toolsets.Registry, client api.RunPodClient, out output.Output) (*Dispatcher, error) {
	d := &Dispatcher{
		registry:   registry,
		validators: make(map[string]*argumentValidator, registry.Len()),
		runpod:     client,
		output:     out,
	}
	if d.output == nil {
		d.output = output.Json
	}
	for _, tool := range registry.ListAll() {
		validator, err := newArgumentValidator(tool)
		if err != nil {
			return nil, err
		}
		d.validators[tool.Tool.Name] = validator
	}
	return d, nil
}

// Dispatch runs a tool call.
// Unknown tools are reported as an *api.UnknownToolError, every other failure is carried
// in the Error of the returned result so it reaches the client as an error tool result.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, arguments json.RawMessage) (result *api.ToolCallResult, err error) {
	tool, ok := d.registry.Lookup(name)
	if !ok {
		return nil, &api.UnknownToolError{Name: name}
	}
	defer func() {
		if result != nil && result.Error != nil {
			mcplog.SendMCPLog(ctx, mcplog.LevelError, fmt.Sprintf("tool %s failed: %v", name, result.Error))
			mcplog.HandleRunPodError(ctx, result.Error, name)
		}
	}()

	args, err := decodeArguments(arguments)
	if err != nil {
		return api.NewToolCallResult("", &api.InvalidArgumentsError{
			Tool:   name,
			Fields: []api.FieldError{{Field: "arguments", Reason: "must be a JSON object"}},
		}), nil
	}
	if err = d.validators[name].Validate(args); err != nil {
		return api.NewToolCallResult("", err), nil
	}
	return d.invoke(ctx, tool, args), nil
}

func (d *Dispatcher) invoke(ctx context.Context, tool api.ServerTool, args map[string]any) (result *api.ToolCallResult) {
	defer func() {
		if r := recover(); r != nil {
			klog.Errorf("tool %s panicked: %v", tool.Tool.Name, r)
			result = api.NewToolCallResult("", fmt.Errorf("tool %s failed unexpectedly: %v", tool.Tool.Name, r))
		}
	}()
	res, err := tool.Handler(api.ToolHandlerParams{
		Context:         ctx,
		ToolCallRequest: &ToolCallRequest{Name: tool.Tool.Name, arguments: args},
		RunPod:          d.runpod,
		Output:          d.output,
	})
	if err != nil {
		return api.NewToolCallResult("", err)
	}
	if res == nil {
		return api.NewToolCallResult("", fmt.Errorf("tool %s returned no result", tool.Tool.Name))
	}
	return res
}
