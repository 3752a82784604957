package templates

import (
	"slices"

	"github.com/runpod/runpod-mcp-server/pkg/api"
	"github.com/runpod/runpod-mcp-server/pkg/toolsets"
)

type Toolset struct{}

var _ api.Toolset = (*Toolset)(nil)

func (t *Toolset) GetName() string {
	return "templates"
}

func (t *Toolset) GetDescription() string {
	return "Manage RunPod Pod and Serverless templates"
}

func (t *Toolset) GetTools() []api.ServerTool {
	return slices.Concat(
		initTemplates(),
	)
}

func init() {
	toolsets.Register(&Toolset{})
}
