// Package ops turns declarative descriptions of RunPod API operations into MCP tools.
package ops

import (
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"k8s.io/utils/ptr"

	"github.com/runpod/runpod-mcp-server/pkg/api"
	"github.com/runpod/runpod-mcp-server/pkg/runpod"
)

// Operation describes a single RunPod HTTP operation exposed as a tool.
//
// Arguments are routed by name: those referenced as {placeholders} in Path fill the
// request path, those listed in Query become query-string filters, and every other
// declared property present in the call is sent in the JSON body of POST and PATCH requests.
type Operation struct {
	Name        string
	Title       string
	Description string
	API         runpod.API
	Method      string
	Path        string
	Properties  map[string]*jsonschema.Schema
	Required    []string
	Query       []string
	ReadOnly    bool
	Destructive bool
	Idempotent  bool
}

// ServerTool builds the tool definition and its handler.
func (o Operation) ServerTool() api.ServerTool {
	properties := o.Properties
	if properties == nil {
		properties = map[string]*jsonschema.Schema{}
	}
	annotations := api.ToolAnnotations{
		Title:           o.Title,
		ReadOnlyHint:    ptr.To(o.ReadOnly),
		DestructiveHint: ptr.To(o.Destructive && !o.ReadOnly),
		IdempotentHint:  ptr.To(o.Idempotent || o.ReadOnly),
		OpenWorldHint:   ptr.To(true),
	}
	return api.ServerTool{
		Tool: api.Tool{
			Name:        o.Name,
			Description: o.Description,
			Annotations: annotations,
			InputSchema: &jsonschema.Schema{
				Type:       "object",
				Properties: properties,
				Required:   o.Required,
			},
		},
		Handler: o.handle,
	}
}

func (o Operation) handle(params api.ToolHandlerParams) (*api.ToolCallResult, error) {
	path, err := o.expandPath(params)
	if err != nil {
		return api.NewToolCallResult("", err), nil
	}
	resp, err := params.RunPod.Send(params.Context, o.API, o.Method, path, o.query(params), o.body(params))
	if err != nil {
		return api.NewToolCallResult("", err), nil
	}
	out, err := params.Output.PrintObj(resp.JSON())
	if err != nil {
		return api.NewToolCallResult("", fmt.Errorf("failed to render RunPod response: %w", err)), nil
	}
	return api.NewToolCallResult(out, nil), nil
}

// pathParams returns the placeholder names of Path in order of appearance.
func (o Operation) pathParams() []string {
	var names []string
	for _, segment := range strings.Split(o.Path, "/") {
		if name, ok := placeholder(segment); ok {
			names = append(names, name)
		}
	}
	return names
}

func placeholder(segment string) (string, bool) {
	if strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") {
		return segment[1 : len(segment)-1], true
	}
	return "", false
}

func (o Operation) expandPath(params api.ToolHandlerParams) (string, error) {
	segments := make([]string, 0)
	for _, segment := range strings.Split(strings.Trim(o.Path, "/"), "/") {
		name, ok := placeholder(segment)
		if !ok {
			segments = append(segments, segment)
			continue
		}
		value, err := api.RequiredString(params, name)
		if err != nil {
			return "", err
		}
		segments = append(segments, value)
	}
	return runpod.Path(segments...), nil
}

func (o Operation) query(params api.ToolHandlerParams) url.Values {
	q := runpod.NewQuery()
	for _, key := range o.Query {
		schema, ok := o.Properties[key]
		if !ok {
			continue
		}
		switch schema.Type {
		case "boolean":
			q.Bool(key, api.OptionalBool(params, key))
		case "array":
			q.Strings(key, api.OptionalStringSlice(params, key))
		default:
			q.String(key, api.OptionalString(params, key, ""))
		}
	}
	return q.Values()
}

// body collects the declared arguments that are neither path nor query parameters.
// Returns nil for operations without body fields or methods that carry no body.
func (o Operation) body(params api.ToolHandlerParams) any {
	if o.Method != http.MethodPost && o.Method != http.MethodPatch {
		return nil
	}
	excluded := append(o.pathParams(), o.Query...)
	args := params.GetArguments()
	var body map[string]any
	for key := range o.Properties {
		if slices.Contains(excluded, key) {
			continue
		}
		if body == nil {
			body = map[string]any{}
		}
		if value, ok := args[key]; ok {
			body[key] = value
		}
	}
	if body == nil {
		return nil
	}
	return body
}
