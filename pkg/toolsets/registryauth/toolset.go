package registryauth

import (
	"slices"

	"github.com/runpod/runpod-mcp-server/pkg/api"
	"github.com/runpod/runpod-mcp-server/pkg/toolsets"
)

type Toolset struct{}

var _ api.Toolset = (*Toolset)(nil)

func (t *Toolset) GetName() string {
	return "registry-auth"
}

func (t *Toolset) GetDescription() string {
	return "Manage credentials for private container registries"
}

func (t *Toolset) GetTools() []api.ServerTool {
	return slices.Concat(
		initRegistryAuths(),
	)
}

func init() {
	toolsets.Register(&Toolset{})
}
