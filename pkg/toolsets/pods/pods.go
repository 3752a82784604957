package pods

import (
	"net/http"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/runpod/runpod-mcp-server/pkg/api"
	"github.com/runpod/runpod-mcp-server/pkg/runpod"
	"github.com/runpod/runpod-mcp-server/pkg/toolsets/internal/ops"
)

func initPods() []api.ServerTool {
	return []api.ServerTool{
		ops.Operation{
			Name:        "list-pods",
			Title:       "Pods: List",
			Description: "List the Pods of the account, optionally filtered by compute type, GPU type, data center or name",
			API:         runpod.REST,
			Method:      http.MethodGet,
			Path:        "/pods",
			Properties: map[string]*jsonschema.Schema{
				"computeType":          ops.Enum("Filter to only GPU or only CPU Pods", "GPU", "CPU"),
				"gpuTypeId":            ops.StringArray("Filter to Pods with any of the listed GPU types"),
				"dataCenterId":         ops.StringArray("Filter to Pods in any of the provided data centers"),
				"name":                 ops.String("Filter to Pods with the provided name"),
				"includeMachine":       ops.Boolean("Include information about the machine"),
				"includeNetworkVolume": ops.Boolean("Include information about attached network volumes"),
			},
			Query:    []string{"computeType", "gpuTypeId", "dataCenterId", "name", "includeMachine", "includeNetworkVolume"},
			ReadOnly: true,
		}.ServerTool(),
		ops.Operation{
			Name:        "get-pod",
			Title:       "Pods: Get",
			Description: "Get the details of a specific Pod",
			API:         runpod.REST,
			Method:      http.MethodGet,
			Path:        "/pods/{podId}",
			Properties: map[string]*jsonschema.Schema{
				"podId":                ops.String("ID of the pod to retrieve"),
				"includeMachine":       ops.Boolean("Include information about the machine"),
				"includeNetworkVolume": ops.Boolean("Include information about attached network volumes"),
			},
			Required: []string{"podId"},
			Query:    []string{"includeMachine", "includeNetworkVolume"},
			ReadOnly: true,
		}.ServerTool(),
		ops.Operation{
			Name:        "create-pod",
			Title:       "Pods: Create",
			Description: "Create a new Pod running the provided container image",
			API:         runpod.REST,
			Method:      http.MethodPost,
			Path:        "/pods",
			Properties: map[string]*jsonschema.Schema{
				"name":              ops.String("Name for the pod"),
				"imageName":         ops.String("Docker image to use"),
				"cloudType":         ops.Enum("SECURE or COMMUNITY cloud", "SECURE", "COMMUNITY"),
				"gpuTypeIds":        ops.StringArray("List of acceptable GPU types"),
				"gpuCount":          ops.Number("Number of GPUs"),
				"containerDiskInGb": ops.Number("Container disk size in GB"),
				"volumeInGb":        ops.Number("Volume size in GB"),
				"volumeMountPath":   ops.String("Path to mount the volume"),
				"ports":             ops.StringArray("Ports to expose (e.g., '8888/http', '22/tcp')"),
				"env":               ops.StringMap("Environment variables"),
				"dataCenterIds":     ops.StringArray("List of data centers"),
			},
			Required: []string{"imageName"},
		}.ServerTool(),
		ops.Operation{
			Name:        "update-pod",
			Title:       "Pods: Update",
			Description: "Update an existing Pod. Only the provided fields are changed",
			API:         runpod.REST,
			Method:      http.MethodPatch,
			Path:        "/pods/{podId}",
			Properties: map[string]*jsonschema.Schema{
				"podId":             ops.String("ID of the pod to update"),
				"name":              ops.String("New name for the pod"),
				"imageName":         ops.String("New Docker image"),
				"containerDiskInGb": ops.Number("New container disk size in GB"),
				"volumeInGb":        ops.Number("New volume size in GB"),
				"volumeMountPath":   ops.String("New path to mount the volume"),
				"ports":             ops.StringArray("New ports to expose"),
				"env":               ops.StringMap("New environment variables"),
			},
			Required:   []string{"podId"},
			Idempotent: true,
		}.ServerTool(),
		ops.Operation{
			Name:        "start-pod",
			Title:       "Pods: Start",
			Description: "Start or resume a stopped Pod",
			API:         runpod.REST,
			Method:      http.MethodPost,
			Path:        "/pods/{podId}/start",
			Properties: map[string]*jsonschema.Schema{
				"podId": ops.String("ID of the pod to start"),
			},
			Required: []string{"podId"},
		}.ServerTool(),
		ops.Operation{
			Name:        "stop-pod",
			Title:       "Pods: Stop",
			Description: "Stop a running Pod",
			API:         runpod.REST,
			Method:      http.MethodPost,
			Path:        "/pods/{podId}/stop",
			Properties: map[string]*jsonschema.Schema{
				"podId": ops.String("ID of the pod to stop"),
			},
			Required: []string{"podId"},
		}.ServerTool(),
		ops.Operation{
			Name:        "delete-pod",
			Title:       "Pods: Delete",
			Description: "Permanently delete a Pod",
			API:         runpod.REST,
			Method:      http.MethodDelete,
			Path:        "/pods/{podId}",
			Properties: map[string]*jsonschema.Schema{
				"podId": ops.String("ID of the pod to delete"),
			},
			Required:    []string{"podId"},
			Destructive: true,
			Idempotent:  true,
		}.ServerTool(),
	}
}
