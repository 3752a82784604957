package serverless

import (
	"net/http"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/runpod/runpod-mcp-server/pkg/api"
	"github.com/runpod/runpod-mcp-server/pkg/runpod"
	"github.com/runpod/runpod-mcp-server/pkg/toolsets/internal/ops"
)

// jobProperties are the body fields shared by run and runsync.
// A new map is built on each call so that tools never share schema instances.
func jobProperties(endpointDescription, webhookDescription string) map[string]*jsonschema.Schema {
	return map[string]*jsonschema.Schema{
		"endpointId": ops.String(endpointDescription),
		"input":      ops.FreeObject("Input payload for the worker handler. The expected fields depend on the deployed model or worker."),
		"webhook":    ops.String(webhookDescription),
		"policy": ops.Object("Execution policy options", map[string]*jsonschema.Schema{
			"executionTimeout": ops.Number("Maximum execution time in milliseconds"),
			"lowPriority":      ops.Boolean("Submit as a low-priority job"),
			"ttl":              ops.Number("Time-to-live for the job result in milliseconds"),
		}),
		"s3Config": ops.Object("S3-compatible storage config for large outputs", map[string]*jsonschema.Schema{
			"accessId":     ops.String("S3 access key ID"),
			"accessSecret": ops.String("S3 secret access key"),
			"bucketName":   ops.String("S3 bucket name"),
			"endpointUrl":  ops.String("S3 endpoint URL"),
		}, "accessId", "accessSecret", "bucketName", "endpointUrl"),
	}
}

func jobProperty(action string) map[string]*jsonschema.Schema {
	return map[string]*jsonschema.Schema{
		"endpointId": ops.String("ID of the Serverless endpoint the job belongs to"),
		"jobId":      ops.String("ID of the job to " + action),
	}
}

func endpointProperty(description string) map[string]*jsonschema.Schema {
	return map[string]*jsonschema.Schema{
		"endpointId": ops.String(description),
	}
}

func initJobs() []api.ServerTool {
	return []api.ServerTool{
		ops.Operation{
			Name:  "run-endpoint",
			Title: "Serverless: Run Job",
			Description: "Submit an asynchronous job to a Serverless endpoint. Returns a job ID immediately. " +
				"Use get-job-status to poll for results. Async results are available for 30 minutes after completion.",
			API:        runpod.Serverless,
			Method:     http.MethodPost,
			Path:       "/{endpointId}/run",
			Properties: jobProperties("ID of the Serverless endpoint to run", "Webhook URL to receive job completion notifications instead of polling"),
			Required:   []string{"endpointId", "input"},
		}.ServerTool(),
		ops.Operation{
			Name:  "runsync-endpoint",
			Title: "Serverless: Run Job Synchronously",
			Description: "Submit a synchronous job to a Serverless endpoint and wait for the result. Best for tasks completing within 90 seconds. " +
				"If processing exceeds 90 seconds, the response returns a job ID to poll with get-job-status. Max payload: 20 MB. " +
				"Results expire after 1 minute (up to 5 minutes with the wait parameter).",
			API:        runpod.Serverless,
			Method:     http.MethodPost,
			Path:       "/{endpointId}/runsync",
			Properties: jobProperties("ID of the Serverless endpoint to run synchronously", "Webhook URL to receive completion notifications"),
			Required:   []string{"endpointId", "input"},
		}.ServerTool(),
		ops.Operation{
			Name:  "get-job-status",
			Title: "Serverless: Get Job Status",
			Description: "Check the status of an asynchronous Serverless job. Returns the current status and output when complete. " +
				"Job statuses: IN_QUEUE, IN_PROGRESS, COMPLETED, FAILED, CANCELLED, TIMED_OUT.",
			API:        runpod.Serverless,
			Method:     http.MethodGet,
			Path:       "/{endpointId}/status/{jobId}",
			Properties: jobProperty("check"),
			Required:   []string{"endpointId", "jobId"},
			ReadOnly:   true,
		}.ServerTool(),
		ops.Operation{
			Name:  "stream-job",
			Title: "Serverless: Stream Job Output",
			Description: "Retrieve incremental streaming results from a Serverless job. " +
				"The worker must support streaming output. Each chunk is up to 1 MB.",
			API:        runpod.Serverless,
			Method:     http.MethodGet,
			Path:       "/{endpointId}/stream/{jobId}",
			Properties: jobProperty("stream results from"),
			Required:   []string{"endpointId", "jobId"},
			ReadOnly:   true,
		}.ServerTool(),
		ops.Operation{
			Name:        "cancel-job",
			Title:       "Serverless: Cancel Job",
			Description: "Cancel a Serverless job that is queued or in progress.",
			API:         runpod.Serverless,
			Method:      http.MethodPost,
			Path:        "/{endpointId}/cancel/{jobId}",
			Properties:  jobProperty("cancel"),
			Required:    []string{"endpointId", "jobId"},
			Destructive: true,
		}.ServerTool(),
		ops.Operation{
			Name:  "retry-job",
			Title: "Serverless: Retry Job",
			Description: "Retry a failed or timed-out Serverless job. Only works for jobs with FAILED or TIMED_OUT status. " +
				"The previous output is removed and the job is requeued.",
			API:        runpod.Serverless,
			Method:     http.MethodPost,
			Path:       "/{endpointId}/retry/{jobId}",
			Properties: jobProperty("retry"),
			Required:   []string{"endpointId", "jobId"},
		}.ServerTool(),
		ops.Operation{
			Name:        "endpoint-health",
			Title:       "Serverless: Endpoint Health",
			Description: "Get the health and operational status of a Serverless endpoint, including worker counts and job statistics.",
			API:         runpod.Serverless,
			Method:      http.MethodGet,
			Path:        "/{endpointId}/health",
			Properties:  endpointProperty("ID of the Serverless endpoint to check health for"),
			Required:    []string{"endpointId"},
			ReadOnly:    true,
		}.ServerTool(),
		ops.Operation{
			Name:  "purge-endpoint-queue",
			Title: "Serverless: Purge Queue",
			Description: "Remove all pending jobs from a Serverless endpoint queue. Only affects queued jobs; in-progress jobs continue running. " +
				"Use this for error recovery or clearing outdated requests.",
			API:         runpod.Serverless,
			Method:      http.MethodPost,
			Path:        "/{endpointId}/purge-queue",
			Properties:  endpointProperty("ID of the Serverless endpoint to purge the queue for"),
			Required:    []string{"endpointId"},
			Destructive: true,
		}.ServerTool(),
	}
}
