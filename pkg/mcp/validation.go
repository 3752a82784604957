package mcp

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/runpod/runpod-mcp-server/pkg/api"
)

// argumentValidator checks tool call arguments against the input schema of a tool.
// Each property is resolved once so that enum, item and additional property constraints
// can be enforced by jsonschema-go; presence and primitive types are checked here to
// report precise per-field reasons.
type argumentValidator struct {
	tool     string
	schema   *jsonschema.Schema
	resolved map[string]*jsonschema.Resolved
}

func newArgumentValidator(tool api.ServerTool) (*argumentValidator, error) {
	v := &argumentValidator{
		tool:     tool.Tool.Name,
		schema:   tool.Tool.InputSchema,
		resolved: make(map[string]*jsonschema.Resolved),
	}
	if v.schema == nil {
		return v, nil
	}
	for name, property := range v.schema.Properties {
		resolved, err := property.Resolve(&jsonschema.ResolveOptions{})
		if err != nil {
			return nil, fmt.Errorf("invalid schema for %s.%s: %w", tool.Tool.Name, name, err)
		}
		v.resolved[name] = resolved
	}
	return v, nil
}

// Validate returns an *api.InvalidArgumentsError naming every offending field, or nil.
// Arguments that are not declared in the schema are ignored.
func (v *argumentValidator) Validate(arguments map[string]any) error {
	if v.schema == nil {
		return nil
	}
	fields := checkObject("", v.schema, arguments)
	names := make([]string, 0, len(v.schema.Properties))
	for name := range v.schema.Properties {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		value, ok := arguments[name]
		if !ok || hasFieldError(fields, name) {
			continue
		}
		if err := v.resolved[name].Validate(value); err != nil {
			fields = append(fields, api.FieldError{Field: name, Reason: err.Error()})
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &api.InvalidArgumentsError{Tool: v.tool, Fields: fields}
}

// checkObject reports missing required fields first, in declaration order,
// then type mismatches of the present fields sorted by name.
func checkObject(prefix string, schema *jsonschema.Schema, object map[string]any) []api.FieldError {
	var fields []api.FieldError
	for _, name := range schema.Required {
		if _, ok := object[name]; !ok {
			fields = append(fields, api.FieldError{Field: prefix + name, Reason: "required"})
		}
	}
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		value, ok := object[name]
		if !ok {
			continue
		}
		fields = append(fields, checkValue(prefix+name, schema.Properties[name], value)...)
	}
	return fields
}

func checkValue(field string, schema *jsonschema.Schema, value any) []api.FieldError {
	actual := jsonType(value)
	if schema.Type != "" && schema.Type != actual {
		return []api.FieldError{{Field: field, Reason: fmt.Sprintf("expected %s, got %s", schema.Type, actual)}}
	}
	switch v := value.(type) {
	case map[string]any:
		if len(schema.Properties) > 0 || len(schema.Required) > 0 {
			return checkObject(field+".", schema, v)
		}
	case []any:
		if schema.Items != nil {
			var fields []api.FieldError
			for i, item := range v {
				fields = append(fields, checkValue(fmt.Sprintf("%s[%d]", field, i), schema.Items, item)...)
			}
			return fields
		}
	}
	return nil
}

func jsonType(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int32, int64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func hasFieldError(fields []api.FieldError, name string) bool {
	for _, f := range fields {
		if f.Field == name || strings.HasPrefix(f.Field, name+".") || strings.HasPrefix(f.Field, name+"[") {
			return true
		}
	}
	return false
}
