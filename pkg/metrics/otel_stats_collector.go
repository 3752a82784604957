package metrics

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/runpod/runpod-mcp-server/pkg/config"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"k8s.io/klog/v2"
)

const (
	metricToolCalls         = "runpod_mcp.tool.calls"
	metricToolErrors        = "runpod_mcp.tool.errors"
	metricToolDuration      = "runpod_mcp.tool.duration"
	metricHTTPRequests      = "runpod_mcp.http.requests"
	metricUpstreamRequests  = "runpod_mcp.upstream.requests"
	metricUpstreamDurations = "runpod_mcp.upstream.duration"
	metricServerInfo        = "runpod_mcp.server.info"
)

// Statistics represents the aggregated metrics data exposed by the stats endpoint.
type Statistics struct {
	// Tool call metrics
	TotalToolCalls   int64            `json:"total_tool_calls"`
	ToolCallErrors   int64            `json:"tool_call_errors"`
	ToolCallsByName  map[string]int64 `json:"tool_calls_by_name"`
	ToolErrorsByName map[string]int64 `json:"tool_errors_by_name"`

	// HTTP request metrics
	TotalHTTPRequests    int64            `json:"total_http_requests"`
	HTTPRequestsByPath   map[string]int64 `json:"http_requests_by_path"`
	HTTPRequestsByStatus map[string]int64 `json:"http_requests_by_status"`
	HTTPRequestsByMethod map[string]int64 `json:"http_requests_by_method"`

	// RunPod API metrics
	TotalUpstreamRequests    int64            `json:"total_upstream_requests"`
	UpstreamRequestsByAPI    map[string]int64 `json:"upstream_requests_by_api"`
	UpstreamRequestsByStatus map[string]int64 `json:"upstream_requests_by_status"`

	// Uptime
	UptimeSeconds int64 `json:"uptime_seconds"`
	StartTime     int64 `json:"start_time_unix"`
}

func newStatistics(startTime time.Time) *Statistics {
	return &Statistics{
		ToolCallsByName:          make(map[string]int64),
		ToolErrorsByName:         make(map[string]int64),
		HTTPRequestsByPath:       make(map[string]int64),
		HTTPRequestsByStatus:     make(map[string]int64),
		HTTPRequestsByMethod:     make(map[string]int64),
		UpstreamRequestsByAPI:    make(map[string]int64),
		UpstreamRequestsByStatus: make(map[string]int64),
		UptimeSeconds:            int64(time.Since(startTime).Seconds()),
		StartTime:                startTime.Unix(),
	}
}

// OtelStatsCollector collects metrics using OpenTelemetry SDK with ManualReader.
// It provides a simple in-memory stats collector for the /stats endpoint
// and a Prometheus exporter for the /metrics endpoint.
type OtelStatsCollector struct {
	toolCallCounter           metric.Int64Counter
	toolCallErrorCounter      metric.Int64Counter
	toolDurationHistogram     metric.Float64Histogram
	httpRequestCounter        metric.Int64Counter
	upstreamRequestCounter    metric.Int64Counter
	upstreamDurationHistogram metric.Float64Histogram
	serverInfoGauge           metric.Int64Gauge

	provider *sdkmetric.MeterProvider

	// In-memory reader for querying metrics on-demand
	reader *sdkmetric.ManualReader

	prometheusHandler http.Handler

	startTime time.Time
}

// CollectorConfig contains configuration for the OtelStatsCollector.
type CollectorConfig struct {
	MeterName      string
	ServiceName    string
	ServiceVersion string
	// Telemetry is the optional telemetry configuration.
	// OTLP export is only set up when it is enabled.
	Telemetry *config.TelemetryConfig
}

// createMetricsExporter creates an OTLP metrics exporter.
// Returns nil if:
//   - OTEL_METRICS_EXPORTER is set to "none" (env var always takes precedence)
//   - telemetry is not enabled
//
// When nil is returned, metrics will only be collected in-memory for the /stats endpoint.
func createMetricsExporter(ctx context.Context, cfg *config.TelemetryConfig) (sdkmetric.Exporter, error) {
	if strings.ToLower(os.Getenv("OTEL_METRICS_EXPORTER")) == "none" {
		klog.V(2).Info("OTLP metrics export disabled via OTEL_METRICS_EXPORTER=none")
		return nil, nil
	}
	if cfg == nil || !cfg.IsEnabled() {
		return nil, nil
	}

	protocol := strings.ToLower(cfg.GetProtocol())
	endpoint := cfg.GetEndpoint()
	switch protocol {
	case "http/protobuf", "http":
		klog.V(2).Infof("Using HTTP/protobuf OTLP metrics exporter (protocol=%s)", protocol)
		return otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpointURL(endpoint))

	case "grpc", "":
		klog.V(2).Info("Using gRPC OTLP metrics exporter")
		return otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithEndpointURL(endpoint))

	default:
		klog.V(1).Infof("Unknown protocol '%s' for metrics, defaulting to gRPC", protocol)
		return otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithEndpointURL(endpoint))
	}
}

// NewOtelStatsCollector creates a new OtelStatsCollector that only keeps metrics in memory.
func NewOtelStatsCollector(meterName string) (*OtelStatsCollector, error) {
	return NewOtelStatsCollectorWithConfig(CollectorConfig{
		MeterName:      meterName,
		ServiceName:    "runpod-mcp-server",
		ServiceVersion: "unknown",
	})
}

// NewOtelStatsCollectorWithConfig creates a new OtelStatsCollector with full configuration.
func NewOtelStatsCollectorWithConfig(cfg CollectorConfig) (*OtelStatsCollector, error) {
	ctx := context.Background()

	reader := sdkmetric.NewManualReader()

	// Dedicated registry so /metrics only exposes this server's instruments
	promRegistry := promclient.NewRegistry()
	prometheusExporter, err := prometheus.New(
		prometheus.WithRegisterer(promRegistry),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	prometheusHandler := promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})

	opts := []sdkmetric.Option{
		sdkmetric.WithReader(reader),
		sdkmetric.WithReader(prometheusExporter),
	}

	exporter, err := createMetricsExporter(ctx, cfg.Telemetry)
	if err != nil {
		klog.Warningf("Failed to create OTLP metrics exporter, OTLP export disabled: %v", err)
	} else if exporter != nil {
		res, err := resource.New(ctx,
			resource.WithAttributes(
				semconv.ServiceName(cfg.ServiceName),
				semconv.ServiceVersion(cfg.ServiceVersion),
			),
		)
		if err != nil {
			klog.V(1).Infof("Failed to create resource for metrics, using default: %v", err)
		} else {
			opts = append(opts, sdkmetric.WithResource(res))
		}

		periodicReader := sdkmetric.NewPeriodicReader(
			exporter,
			sdkmetric.WithInterval(cfg.Telemetry.GetMetricsExportInterval()),
		)
		opts = append(opts, sdkmetric.WithReader(periodicReader))
		klog.V(1).Info("OTLP metrics export enabled")
	}

	provider := sdkmetric.NewMeterProvider(opts...)
	meter := provider.Meter(cfg.MeterName)

	collector := &OtelStatsCollector{
		provider:          provider,
		reader:            reader,
		prometheusHandler: prometheusHandler,
		startTime:         time.Now(),
	}

	if collector.toolCallCounter, err = meter.Int64Counter(metricToolCalls,
		metric.WithDescription("Total number of MCP tool calls"),
	); err != nil {
		return nil, fmt.Errorf("failed to create tool call counter: %w", err)
	}
	if collector.toolCallErrorCounter, err = meter.Int64Counter(metricToolErrors,
		metric.WithDescription("Total number of MCP tool call errors"),
	); err != nil {
		return nil, fmt.Errorf("failed to create tool error counter: %w", err)
	}
	if collector.toolDurationHistogram, err = meter.Float64Histogram(metricToolDuration,
		metric.WithDescription("Duration of MCP tool calls in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create tool duration histogram: %w", err)
	}
	if collector.httpRequestCounter, err = meter.Int64Counter(metricHTTPRequests,
		metric.WithDescription("Total number of HTTP requests to the MCP server"),
	); err != nil {
		return nil, fmt.Errorf("failed to create HTTP request counter: %w", err)
	}
	if collector.upstreamRequestCounter, err = meter.Int64Counter(metricUpstreamRequests,
		metric.WithDescription("Total number of requests sent to the RunPod APIs"),
	); err != nil {
		return nil, fmt.Errorf("failed to create upstream request counter: %w", err)
	}
	if collector.upstreamDurationHistogram, err = meter.Float64Histogram(metricUpstreamDurations,
		metric.WithDescription("Duration of requests sent to the RunPod APIs in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create upstream duration histogram: %w", err)
	}
	if collector.serverInfoGauge, err = meter.Int64Gauge(metricServerInfo,
		metric.WithDescription("RunPod MCP server version information"),
	); err != nil {
		return nil, fmt.Errorf("failed to create server info gauge: %w", err)
	}

	collector.serverInfoGauge.Record(ctx, 1,
		metric.WithAttributes(
			attribute.String("version", cfg.ServiceVersion),
			attribute.String("go_version", runtime.Version()),
		),
	)

	return collector, nil
}

// Shutdown gracefully shuts down the meter provider, flushing any pending metrics.
func (c *OtelStatsCollector) Shutdown(ctx context.Context) error {
	return c.provider.Shutdown(ctx)
}

// PrometheusHandler returns the HTTP handler for the /metrics endpoint.
func (c *OtelStatsCollector) PrometheusHandler() http.Handler {
	return c.prometheusHandler
}

// RecordToolCall implements the Collector interface.
func (c *OtelStatsCollector) RecordToolCall(ctx context.Context, name string, duration time.Duration, err error) {
	toolNameAttr := metric.WithAttributes(attribute.String("tool.name", name))
	c.toolCallCounter.Add(ctx, 1, toolNameAttr)
	c.toolDurationHistogram.Record(ctx, duration.Seconds(), toolNameAttr)
	if err != nil {
		c.toolCallErrorCounter.Add(ctx, 1, toolNameAttr)
	}
}

// RecordHTTPRequest implements the Collector interface.
func (c *OtelStatsCollector) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, _ time.Duration) {
	c.httpRequestCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
		attribute.String("http.response.status_class", statusClass(statusCode)),
	))
}

// RecordUpstreamRequest implements the Collector interface.
func (c *OtelStatsCollector) RecordUpstreamRequest(ctx context.Context, api, method string, statusCode int, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("runpod.api", api),
		attribute.String("http.request.method", method),
		attribute.String("http.response.status_class", statusClass(statusCode)),
	)
	c.upstreamRequestCounter.Add(ctx, 1, attrs)
	c.upstreamDurationHistogram.Record(ctx, duration.Seconds(), attrs)
}

// GetStats returns a snapshot of current statistics by reading from OTel metrics.
// Thread-safety is handled by the OTel SDK's ManualReader.
func (c *OtelStatsCollector) GetStats() *Statistics {
	stats := newStatistics(c.startTime)
	var rm metricdata.ResourceMetrics
	if err := c.reader.Collect(context.Background(), &rm); err != nil {
		klog.V(1).Infof("Failed to collect metrics for stats endpoint: %v", err)
		return stats
	}
	for _, scopeMetrics := range rm.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			c.processMetric(m, stats)
		}
	}
	return stats
}

// processMetric extracts data from a single metric and updates the statistics.
func (c *OtelStatsCollector) processMetric(m metricdata.Metrics, stats *Statistics) {
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		return
	}
	for _, dp := range sum.DataPoints {
		value := dp.Value
		switch m.Name {
		case metricToolCalls:
			stats.TotalToolCalls += value
			if toolName := c.getAttributeValue(dp.Attributes, "tool.name"); toolName != "" {
				stats.ToolCallsByName[toolName] = value
			}
		case metricToolErrors:
			stats.ToolCallErrors += value
			if toolName := c.getAttributeValue(dp.Attributes, "tool.name"); toolName != "" {
				stats.ToolErrorsByName[toolName] = value
			}
		case metricHTTPRequests:
			stats.TotalHTTPRequests += value
			if method := c.getAttributeValue(dp.Attributes, "http.request.method"); method != "" {
				stats.HTTPRequestsByMethod[method] += value
			}
			if path := c.getAttributeValue(dp.Attributes, "url.path"); path != "" {
				stats.HTTPRequestsByPath[path] += value
			}
			if class := c.getAttributeValue(dp.Attributes, "http.response.status_class"); class != "" {
				stats.HTTPRequestsByStatus[class] += value
			}
		case metricUpstreamRequests:
			stats.TotalUpstreamRequests += value
			if api := c.getAttributeValue(dp.Attributes, "runpod.api"); api != "" {
				stats.UpstreamRequestsByAPI[api] += value
			}
			if class := c.getAttributeValue(dp.Attributes, "http.response.status_class"); class != "" {
				stats.UpstreamRequestsByStatus[class] += value
			}
		}
	}
}

// getAttributeValue extracts a string value from attributes by key.
func (c *OtelStatsCollector) getAttributeValue(attrs attribute.Set, key string) string {
	val, ok := attrs.Value(attribute.Key(key))
	if !ok {
		return ""
	}
	return val.AsString()
}
