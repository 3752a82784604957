package mcp

import (
	_ "github.com/runpod/runpod-mcp-server/pkg/toolsets/endpoints"
	_ "github.com/runpod/runpod-mcp-server/pkg/toolsets/networkvolumes"
	_ "github.com/runpod/runpod-mcp-server/pkg/toolsets/pods"
	_ "github.com/runpod/runpod-mcp-server/pkg/toolsets/registryauth"
	_ "github.com/runpod/runpod-mcp-server/pkg/toolsets/serverless"
	_ "github.com/runpod/runpod-mcp-server/pkg/toolsets/templates"
)
