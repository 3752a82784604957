package pods

import (
	"slices"

	"github.com/runpod/runpod-mcp-server/pkg/api"
	"github.com/runpod/runpod-mcp-server/pkg/toolsets"
)

type Toolset struct{}

var _ api.Toolset = (*Toolset)(nil)

func (t *Toolset) GetName() string {
	return "pods"
}

func (t *Toolset) GetDescription() string {
	return "Manage RunPod GPU and CPU Pods (list, inspect, create, update, start, stop, delete)"
}

func (t *Toolset) GetTools() []api.ServerTool {
	return slices.Concat(
		initPods(),
	)
}

func init() {
	toolsets.Register(&Toolset{})
}
