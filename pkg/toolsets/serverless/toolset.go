package serverless

import (
	"slices"

	"github.com/runpod/runpod-mcp-server/pkg/api"
	"github.com/runpod/runpod-mcp-server/pkg/toolsets"
)

type Toolset struct{}

var _ api.Toolset = (*Toolset)(nil)

func (t *Toolset) GetName() string {
	return "serverless"
}

func (t *Toolset) GetDescription() string {
	return "Submit and track jobs on RunPod Serverless endpoints (run, runsync, status, stream, cancel, retry, health, purge queue)"
}

func (t *Toolset) GetTools() []api.ServerTool {
	return slices.Concat(
		initJobs(),
	)
}

func init() {
	toolsets.Register(&Toolset{})
}
