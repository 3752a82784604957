package toolsets

import (
	"github.com/runpod/runpod-mcp-server/pkg/api"
)

// Registry holds the tools exposed by a server, keyed by their unique name.
// It is filled once while the server is built and only read afterwards.
type Registry struct {
	tools []api.ServerTool
	index map[string]int
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adds a tool, failing with *api.DuplicateToolError when the name is taken.
func (r *Registry) Register(tool api.ServerTool) error {
	if _, exists := r.index[tool.Tool.Name]; exists {
		return &api.DuplicateToolError{Name: tool.Tool.Name}
	}
	r.index[tool.Tool.Name] = len(r.tools)
	r.tools = append(r.tools, tool)
	return nil
}

// ListAll returns the registered tools in registration order.
func (r *Registry) ListAll() []api.ServerTool {
	return append([]api.ServerTool{}, r.tools...)
}

func (r *Registry) Lookup(name string) (api.ServerTool, bool) {
	i, ok := r.index[name]
	if !ok {
		return api.ServerTool{}, false
	}
	return r.tools[i], true
}

func (r *Registry) Len() int {
	return len(r.tools)
}
