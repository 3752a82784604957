package api

import (
	"fmt"
	"strings"
)

// StartupError is a fatal condition detected before any tool is registered.
type StartupError struct {
	Message string
}

func (e *StartupError) Error() string {
	return e.Message
}

// UnknownToolError is returned when a tool call names a tool that is not registered.
// It surfaces as a protocol-level fault rather than as a tool result.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

// FieldError describes why a single argument failed validation.
type FieldError struct {
	Field  string
	Reason string
}

func (f FieldError) String() string {
	return f.Field + ": " + f.Reason
}

// InvalidArgumentsError lists every argument of a tool call that failed schema validation.
type InvalidArgumentsError struct {
	Tool   string
	Fields []FieldError
}

func (e *InvalidArgumentsError) Error() string {
	reasons := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		reasons = append(reasons, f.String())
	}
	return fmt.Sprintf("invalid arguments for tool %s: %s", e.Tool, strings.Join(reasons, "; "))
}

// FieldNames returns the names of the offending fields in the order they were reported.
func (e *InvalidArgumentsError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return names
}

// DuplicateToolError is returned when two tools with the same name are registered.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %s is already registered", e.Name)
}
