package mcplog

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/runpod/runpod-mcp-server/pkg/runpod"
)

// classifyRunPodError maps a RunPod client error to a log level and a hint for the MCP client.
// Returns false for nil errors and for errors that did not come from the RunPod client.
func classifyRunPodError(err error, operation string) (Level, string, bool) {
	if err == nil {
		return 0, "", false
	}
	var remoteErr *runpod.RemoteAPIError
	if errors.As(err, &remoteErr) {
		switch code := remoteErr.StatusCode; {
		case code == http.StatusNotFound:
			return LevelInfo, "Resource not found - it may not exist or may have been deleted", true
		case code == http.StatusUnauthorized:
			return LevelError, "Authentication failed - check the RUNPOD_API_KEY credential", true
		case code == http.StatusForbidden:
			return LevelError, "Permission denied - the API key is not allowed to perform " + operation, true
		case code == http.StatusConflict:
			return LevelWarning, "Resource conflict - it may already exist or be in a transitional state", true
		case code == http.StatusTooManyRequests:
			return LevelWarning, "Rate limited - too many requests to RunPod", true
		case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
			return LevelError, "Invalid request - check parameters for " + operation, true
		case code >= 500:
			return LevelError, fmt.Sprintf("RunPod %s API is unavailable (status %d)", remoteErr.API, code), true
		default:
			return LevelError, fmt.Sprintf("RunPod %s API rejected %s (status %d)", remoteErr.API, operation, code), true
		}
	}
	var transportErr *runpod.TransportError
	if errors.As(err, &transportErr) {
		if errors.Is(err, context.DeadlineExceeded) {
			return LevelError, "Request timeout - RunPod did not answer in time", true
		}
		return LevelError, "RunPod " + transportErr.API.String() + " API is unreachable", true
	}
	return 0, "", false
}

// HandleRunPodError sends an MCP log message describing a failed RunPod request.
// operation should describe the operation (e.g., "list-pods", "run-endpoint").
func HandleRunPodError(ctx context.Context, err error, operation string) {
	if level, message, ok := classifyRunPodError(err, operation); ok {
		SendMCPLog(ctx, level, message)
	}
}
