package networkvolumes

import (
	"slices"

	"github.com/runpod/runpod-mcp-server/pkg/api"
	"github.com/runpod/runpod-mcp-server/pkg/toolsets"
)

type Toolset struct{}

var _ api.Toolset = (*Toolset)(nil)

func (t *Toolset) GetName() string {
	return "network-volumes"
}

func (t *Toolset) GetDescription() string {
	return "Manage RunPod network volumes"
}

func (t *Toolset) GetTools() []api.ServerTool {
	return slices.Concat(
		initNetworkVolumes(),
	)
}

func init() {
	toolsets.Register(&Toolset{})
}
