package endpoints

import (
	"net/http"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/runpod/runpod-mcp-server/pkg/api"
	"github.com/runpod/runpod-mcp-server/pkg/runpod"
	"github.com/runpod/runpod-mcp-server/pkg/toolsets/internal/ops"
)

func initEndpoints() []api.ServerTool {
	return []api.ServerTool{
		ops.Operation{
			Name:        "list-endpoints",
			Title:       "Endpoints: List",
			Description: "List the Serverless endpoints of the account",
			API:         runpod.REST,
			Method:      http.MethodGet,
			Path:        "/endpoints",
			Properties: map[string]*jsonschema.Schema{
				"includeTemplate": ops.Boolean("Include template information"),
				"includeWorkers":  ops.Boolean("Include information about workers"),
			},
			Query:    []string{"includeTemplate", "includeWorkers"},
			ReadOnly: true,
		}.ServerTool(),
		ops.Operation{
			Name:        "get-endpoint",
			Title:       "Endpoints: Get",
			Description: "Get the details of a specific Serverless endpoint",
			API:         runpod.REST,
			Method:      http.MethodGet,
			Path:        "/endpoints/{endpointId}",
			Properties: map[string]*jsonschema.Schema{
				"endpointId":      ops.String("ID of the endpoint to retrieve"),
				"includeTemplate": ops.Boolean("Include template information"),
				"includeWorkers":  ops.Boolean("Include information about workers"),
			},
			Required: []string{"endpointId"},
			Query:    []string{"includeTemplate", "includeWorkers"},
			ReadOnly: true,
		}.ServerTool(),
		ops.Operation{
			Name:        "create-endpoint",
			Title:       "Endpoints: Create",
			Description: "Create a new Serverless endpoint from a template",
			API:         runpod.REST,
			Method:      http.MethodPost,
			Path:        "/endpoints",
			Properties: map[string]*jsonschema.Schema{
				"name":          ops.String("Name for the endpoint"),
				"templateId":    ops.String("Template ID to use"),
				"computeType":   ops.Enum("GPU or CPU endpoint", "GPU", "CPU"),
				"gpuTypeIds":    ops.StringArray("List of acceptable GPU types"),
				"gpuCount":      ops.Number("Number of GPUs per worker"),
				"workersMin":    ops.Number("Minimum number of workers"),
				"workersMax":    ops.Number("Maximum number of workers"),
				"dataCenterIds": ops.StringArray("List of data centers"),
			},
			Required: []string{"templateId"},
		}.ServerTool(),
		ops.Operation{
			Name:        "update-endpoint",
			Title:       "Endpoints: Update",
			Description: "Update the settings of a Serverless endpoint. Only the provided fields are changed",
			API:         runpod.REST,
			Method:      http.MethodPatch,
			Path:        "/endpoints/{endpointId}",
			Properties: map[string]*jsonschema.Schema{
				"endpointId":  ops.String("ID of the endpoint to update"),
				"name":        ops.String("New name for the endpoint"),
				"workersMin":  ops.Number("New minimum number of workers"),
				"workersMax":  ops.Number("New maximum number of workers"),
				"idleTimeout": ops.Number("New idle timeout in seconds"),
				"scalerType":  ops.Enum("Scaler type", "QUEUE_DELAY", "REQUEST_COUNT"),
				"scalerValue": ops.Number("Scaler value"),
			},
			Required:   []string{"endpointId"},
			Idempotent: true,
		}.ServerTool(),
		ops.Operation{
			Name:        "delete-endpoint",
			Title:       "Endpoints: Delete",
			Description: "Permanently delete a Serverless endpoint",
			API:         runpod.REST,
			Method:      http.MethodDelete,
			Path:        "/endpoints/{endpointId}",
			Properties: map[string]*jsonschema.Schema{
				"endpointId": ops.String("ID of the endpoint to delete"),
			},
			Required:    []string{"endpointId"},
			Destructive: true,
			Idempotent:  true,
		}.ServerTool(),
	}
}
