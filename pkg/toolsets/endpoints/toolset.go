package endpoints

import (
	"slices"

	"github.com/runpod/runpod-mcp-server/pkg/api"
	"github.com/runpod/runpod-mcp-server/pkg/toolsets"
)

type Toolset struct{}

var _ api.Toolset = (*Toolset)(nil)

func (t *Toolset) GetName() string {
	return "endpoints"
}

func (t *Toolset) GetDescription() string {
	return "Manage RunPod Serverless endpoints and their autoscaling settings"
}

func (t *Toolset) GetTools() []api.ServerTool {
	return slices.Concat(
		initEndpoints(),
	)
}

func init() {
	toolsets.Register(&Toolset{})
}
