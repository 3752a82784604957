package config

import (
	"os"
	"strconv"
	"time"
)

// TelemetryConfig contains OpenTelemetry configuration options.
// Every value can be overridden with the matching standard OTEL_* environment variable.
type TelemetryConfig struct {
	// Enabled explicitly enables or disables telemetry.
	// If nil, telemetry is auto-enabled when an endpoint is configured.
	Enabled *bool `toml:"enabled,omitempty"`
	// Endpoint is the OTLP endpoint URL (e.g., "http://localhost:4317").
	Endpoint string `toml:"endpoint,omitempty"`
	// Protocol specifies the OTLP protocol: "grpc" (default) or "http/protobuf".
	Protocol string `toml:"protocol,omitempty"`
	// TracesSampler is one of "always_on", "always_off", "traceidratio",
	// "parentbased_always_on", "parentbased_always_off", "parentbased_traceidratio".
	TracesSampler string `toml:"traces_sampler,omitempty"`
	// TracesSamplerArg is the sampling ratio for ratio-based samplers (0.0 to 1.0).
	TracesSamplerArg *float64 `toml:"traces_sampler_arg,omitempty"`
	// MetricsExportInterval is how often metrics are pushed to the OTLP endpoint (e.g. "30s").
	MetricsExportInterval string `toml:"metrics_export_interval,omitempty"`
}

const defaultMetricsExportInterval = 30 * time.Second

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// IsEnabled reports whether telemetry should be exported.
// An explicit false always wins; otherwise an endpoint must be available.
func (c *TelemetryConfig) IsEnabled() bool {
	if c.Enabled != nil && !*c.Enabled {
		return false
	}
	return c.GetEndpoint() != ""
}

func (c *TelemetryConfig) GetEndpoint() string {
	return envOr("OTEL_EXPORTER_OTLP_ENDPOINT", c.Endpoint)
}

func (c *TelemetryConfig) GetProtocol() string {
	return envOr("OTEL_EXPORTER_OTLP_PROTOCOL", c.Protocol)
}

func (c *TelemetryConfig) GetTracesSampler() string {
	return envOr("OTEL_TRACES_SAMPLER", c.TracesSampler)
}

// GetTracesSamplerArg returns the sampler argument as a string, empty when unset.
func (c *TelemetryConfig) GetTracesSamplerArg() string {
	configured := ""
	if c.TracesSamplerArg != nil {
		configured = strconv.FormatFloat(*c.TracesSamplerArg, 'f', -1, 64)
	}
	return envOr("OTEL_TRACES_SAMPLER_ARG", configured)
}

// GetMetricsExportInterval honours OTEL_METRIC_EXPORT_INTERVAL (milliseconds) first,
// then the configured duration, then the 30s default.
func (c *TelemetryConfig) GetMetricsExportInterval() time.Duration {
	if v := os.Getenv("OTEL_METRIC_EXPORT_INTERVAL"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	if c.MetricsExportInterval != "" {
		if d, err := time.ParseDuration(c.MetricsExportInterval); err == nil && d > 0 {
			return d
		}
	}
	return defaultMetricsExportInterval
}
