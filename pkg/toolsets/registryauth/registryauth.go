package registryauth

import (
	"net/http"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/runpod/runpod-mcp-server/pkg/api"
	"github.com/runpod/runpod-mcp-server/pkg/runpod"
	"github.com/runpod/runpod-mcp-server/pkg/toolsets/internal/ops"
)

func initRegistryAuths() []api.ServerTool {
	return []api.ServerTool{
		ops.Operation{
			Name:        "list-container-registry-auths",
			Title:       "Registry Auth: List",
			Description: "List the container registry credentials of the account",
			API:         runpod.REST,
			Method:      http.MethodGet,
			Path:        "/containerregistryauth",
			ReadOnly:    true,
		}.ServerTool(),
		ops.Operation{
			Name:        "get-container-registry-auth",
			Title:       "Registry Auth: Get",
			Description: "Get the details of a specific container registry credential",
			API:         runpod.REST,
			Method:      http.MethodGet,
			Path:        "/containerregistryauth/{containerRegistryAuthId}",
			Properties: map[string]*jsonschema.Schema{
				"containerRegistryAuthId": ops.String("ID of the container registry auth to retrieve"),
			},
			Required: []string{"containerRegistryAuthId"},
			ReadOnly: true,
		}.ServerTool(),
		ops.Operation{
			Name:        "create-container-registry-auth",
			Title:       "Registry Auth: Create",
			Description: "Store credentials used to pull images from a private container registry",
			API:         runpod.REST,
			Method:      http.MethodPost,
			Path:        "/containerregistryauth",
			Properties: map[string]*jsonschema.Schema{
				"name":     ops.String("Name for the container registry auth"),
				"username": ops.String("Registry username"),
				"password": ops.String("Registry password"),
			},
			Required: []string{"name", "username", "password"},
		}.ServerTool(),
		ops.Operation{
			Name:        "delete-container-registry-auth",
			Title:       "Registry Auth: Delete",
			Description: "Permanently delete a container registry credential",
			API:         runpod.REST,
			Method:      http.MethodDelete,
			Path:        "/containerregistryauth/{containerRegistryAuthId}",
			Properties: map[string]*jsonschema.Schema{
				"containerRegistryAuthId": ops.String("ID of the container registry auth to delete"),
			},
			Required:    []string{"containerRegistryAuthId"},
			Destructive: true,
			Idempotent:  true,
		}.ServerTool(),
	}
}
