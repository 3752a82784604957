package metrics

import (
	"context"
	"time"
)

// Collector defines the interface for collecting metrics from various sources.
// Implementations can export metrics to different backends (OTel, Prometheus, in-memory stats, etc.).
type Collector interface {
	// RecordToolCall records metrics for an MCP tool call execution.
	RecordToolCall(ctx context.Context, name string, duration time.Duration, err error)

	// RecordHTTPRequest records metrics for an HTTP request served by the MCP server.
	RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration)

	// RecordUpstreamRequest records metrics for a request sent to one of the RunPod APIs.
	// statusCode is 0 when no response was received.
	RecordUpstreamRequest(ctx context.Context, api, method string, statusCode int, duration time.Duration)
}

// statusClass groups a status code into 2xx, 3xx, 4xx, 5xx or other.
// A zero status code (no response) is reported as "error".
func statusClass(statusCode int) string {
	switch {
	case statusCode == 0:
		return "error"
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	default:
		return "other"
	}
}
