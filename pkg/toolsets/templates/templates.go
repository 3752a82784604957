package templates

import (
	"net/http"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/runpod/runpod-mcp-server/pkg/api"
	"github.com/runpod/runpod-mcp-server/pkg/runpod"
	"github.com/runpod/runpod-mcp-server/pkg/toolsets/internal/ops"
)

func initTemplates() []api.ServerTool {
	return []api.ServerTool{
		ops.Operation{
			Name:        "list-templates",
			Title:       "Templates: List",
			Description: "List the Pod and Serverless templates available to the account",
			API:         runpod.REST,
			Method:      http.MethodGet,
			Path:        "/templates",
			ReadOnly:    true,
		}.ServerTool(),
		ops.Operation{
			Name:        "get-template",
			Title:       "Templates: Get",
			Description: "Get the details of a specific template",
			API:         runpod.REST,
			Method:      http.MethodGet,
			Path:        "/templates/{templateId}",
			Properties: map[string]*jsonschema.Schema{
				"templateId": ops.String("ID of the template to retrieve"),
			},
			Required: []string{"templateId"},
			ReadOnly: true,
		}.ServerTool(),
		ops.Operation{
			Name:        "create-template",
			Title:       "Templates: Create",
			Description: "Create a new template for Pods or Serverless endpoints",
			API:         runpod.REST,
			Method:      http.MethodPost,
			Path:        "/templates",
			Properties: map[string]*jsonschema.Schema{
				"name":              ops.String("Name for the template"),
				"imageName":         ops.String("Docker image to use"),
				"isServerless":      ops.Boolean("Is this a serverless template"),
				"ports":             ops.StringArray("Ports to expose"),
				"dockerEntrypoint":  ops.StringArray("Docker entrypoint commands"),
				"dockerStartCmd":    ops.StringArray("Docker start commands"),
				"env":               ops.StringMap("Environment variables"),
				"containerDiskInGb": ops.Number("Container disk size in GB"),
				"volumeInGb":        ops.Number("Volume size in GB"),
				"volumeMountPath":   ops.String("Path to mount the volume"),
				"readme":            ops.String("README content in markdown format"),
			},
			Required: []string{"name", "imageName"},
		}.ServerTool(),
		ops.Operation{
			Name:        "update-template",
			Title:       "Templates: Update",
			Description: "Update an existing template. Only the provided fields are changed",
			API:         runpod.REST,
			Method:      http.MethodPatch,
			Path:        "/templates/{templateId}",
			Properties: map[string]*jsonschema.Schema{
				"templateId": ops.String("ID of the template to update"),
				"name":       ops.String("New name for the template"),
				"imageName":  ops.String("New Docker image"),
				"ports":      ops.StringArray("New ports to expose"),
				"env":        ops.StringMap("New environment variables"),
				"readme":     ops.String("New README content in markdown format"),
			},
			Required:   []string{"templateId"},
			Idempotent: true,
		}.ServerTool(),
		ops.Operation{
			Name:        "delete-template",
			Title:       "Templates: Delete",
			Description: "Permanently delete a template",
			API:         runpod.REST,
			Method:      http.MethodDelete,
			Path:        "/templates/{templateId}",
			Properties: map[string]*jsonschema.Schema{
				"templateId": ops.String("ID of the template to delete"),
			},
			Required:    []string{"templateId"},
			Destructive: true,
			Idempotent:  true,
		}.ServerTool(),
	}
}
