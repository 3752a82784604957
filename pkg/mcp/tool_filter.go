package mcp

import (
	"slices"

	"github.com/runpod/runpod-mcp-server/pkg/api"
)

// ToolFilter is a function that takes a ServerTool and returns a boolean indicating whether to include the tool
type ToolFilter func(tool api.ServerTool) bool

func CompositeFilter(filters ...ToolFilter) ToolFilter {
	return func(tool api.ServerTool) bool {
		for _, f := range filters {
			if !f(tool) {
				return false
			}
		}

		return true
	}
}

// ReadOnlyFilter keeps only read-only tools when enabled.
func ReadOnlyFilter(readOnly bool) ToolFilter {
	return func(tool api.ServerTool) bool {
		return !readOnly || tool.IsReadOnly()
	}
}

// NonDestructiveFilter drops destructive tools when enabled.
func NonDestructiveFilter(disableDestructive bool) ToolFilter {
	return func(tool api.ServerTool) bool {
		return !disableDestructive || !tool.IsDestructive()
	}
}

// EnabledToolsFilter keeps only the named tools. A nil list keeps every tool.
func EnabledToolsFilter(names []string) ToolFilter {
	return func(tool api.ServerTool) bool {
		return names == nil || slices.Contains(names, tool.Tool.Name)
	}
}

func DisabledToolsFilter(names []string) ToolFilter {
	return func(tool api.ServerTool) bool {
		return !slices.Contains(names, tool.Tool.Name)
	}
}
