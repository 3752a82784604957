package networkvolumes

import (
	"net/http"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/runpod/runpod-mcp-server/pkg/api"
	"github.com/runpod/runpod-mcp-server/pkg/runpod"
	"github.com/runpod/runpod-mcp-server/pkg/toolsets/internal/ops"
)

func initNetworkVolumes() []api.ServerTool {
	return []api.ServerTool{
		ops.Operation{
			Name:        "list-network-volumes",
			Title:       "Network Volumes: List",
			Description: "List the network volumes of the account",
			API:         runpod.REST,
			Method:      http.MethodGet,
			Path:        "/networkvolumes",
			ReadOnly:    true,
		}.ServerTool(),
		ops.Operation{
			Name:        "get-network-volume",
			Title:       "Network Volumes: Get",
			Description: "Get the details of a specific network volume",
			API:         runpod.REST,
			Method:      http.MethodGet,
			Path:        "/networkvolumes/{networkVolumeId}",
			Properties: map[string]*jsonschema.Schema{
				"networkVolumeId": ops.String("ID of the network volume to retrieve"),
			},
			Required: []string{"networkVolumeId"},
			ReadOnly: true,
		}.ServerTool(),
		ops.Operation{
			Name:        "create-network-volume",
			Title:       "Network Volumes: Create",
			Description: "Create a new network volume in a data center",
			API:         runpod.REST,
			Method:      http.MethodPost,
			Path:        "/networkvolumes",
			Properties: map[string]*jsonschema.Schema{
				"name":         ops.String("Name for the network volume"),
				"size":         ops.Number("Size in GB (1-4000)"),
				"dataCenterId": ops.String("Data center ID"),
			},
			Required: []string{"name", "size", "dataCenterId"},
		}.ServerTool(),
		ops.Operation{
			Name:        "update-network-volume",
			Title:       "Network Volumes: Update",
			Description: "Rename or grow a network volume",
			API:         runpod.REST,
			Method:      http.MethodPatch,
			Path:        "/networkvolumes/{networkVolumeId}",
			Properties: map[string]*jsonschema.Schema{
				"networkVolumeId": ops.String("ID of the network volume to update"),
				"name":            ops.String("New name for the network volume"),
				"size":            ops.Number("New size in GB (must be larger than current)"),
			},
			Required:   []string{"networkVolumeId"},
			Idempotent: true,
		}.ServerTool(),
		ops.Operation{
			Name:        "delete-network-volume",
			Title:       "Network Volumes: Delete",
			Description: "Permanently delete a network volume and its data",
			API:         runpod.REST,
			Method:      http.MethodDelete,
			Path:        "/networkvolumes/{networkVolumeId}",
			Properties: map[string]*jsonschema.Schema{
				"networkVolumeId": ops.String("ID of the network volume to delete"),
			},
			Required:    []string{"networkVolumeId"},
			Destructive: true,
			Idempotent:  true,
		}.ServerTool(),
	}
}
