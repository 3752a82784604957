package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"k8s.io/utils/ptr"
)

type TelemetryConfigSuite struct {
	suite.Suite
}

func (s *TelemetryConfigSuite) TestIsEnabled() {
	s.Run("disabled without endpoint", func() {
		s.False((&TelemetryConfig{}).IsEnabled())
	})
	s.Run("auto-enabled with endpoint", func() {
		s.True((&TelemetryConfig{Endpoint: "http://localhost:4317"}).IsEnabled())
	})
	s.Run("explicit false wins over endpoint", func() {
		s.False((&TelemetryConfig{Enabled: ptr.To(false), Endpoint: "http://localhost:4317"}).IsEnabled())
	})
	s.Run("explicit true still needs an endpoint", func() {
		s.False((&TelemetryConfig{Enabled: ptr.To(true)}).IsEnabled())
	})
	s.Run("env endpoint enables", func() {
		s.T().Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://env-endpoint:4317")
		s.True((&TelemetryConfig{}).IsEnabled())
	})
	s.Run("explicit false wins over env endpoint", func() {
		s.T().Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://env-endpoint:4317")
		s.False((&TelemetryConfig{Enabled: ptr.To(false)}).IsEnabled())
	})
}

func (s *TelemetryConfigSuite) TestEnvPrecedence() {
	cfg := &TelemetryConfig{
		Endpoint:         "http://config-endpoint:4317",
		Protocol:         "http/protobuf",
		TracesSampler:    "always_on",
		TracesSamplerArg: ptr.To(0.5),
	}
	s.Run("config values without env", func() {
		s.Equal("http://config-endpoint:4317", cfg.GetEndpoint())
		s.Equal("http/protobuf", cfg.GetProtocol())
		s.Equal("always_on", cfg.GetTracesSampler())
		s.Equal("0.5", cfg.GetTracesSamplerArg())
	})
	s.Run("env values override config", func() {
		s.T().Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://env-endpoint:4317")
		s.T().Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")
		s.T().Setenv("OTEL_TRACES_SAMPLER", "always_off")
		s.T().Setenv("OTEL_TRACES_SAMPLER_ARG", "0.1")
		s.Equal("http://env-endpoint:4317", cfg.GetEndpoint())
		s.Equal("grpc", cfg.GetProtocol())
		s.Equal("always_off", cfg.GetTracesSampler())
		s.Equal("0.1", cfg.GetTracesSamplerArg())
	})
	s.Run("sampler arg formatting", func() {
		s.Equal("", (&TelemetryConfig{}).GetTracesSamplerArg())
		s.Equal("0", (&TelemetryConfig{TracesSamplerArg: ptr.To(0.0)}).GetTracesSamplerArg())
		s.Equal("1", (&TelemetryConfig{TracesSamplerArg: ptr.To(1.0)}).GetTracesSamplerArg())
	})
}

func (s *TelemetryConfigSuite) TestGetMetricsExportInterval() {
	s.Run("defaults to 30s", func() {
		s.Equal(30*time.Second, (&TelemetryConfig{}).GetMetricsExportInterval())
	})
	s.Run("uses configured duration", func() {
		s.Equal(5*time.Second, (&TelemetryConfig{MetricsExportInterval: "5s"}).GetMetricsExportInterval())
	})
	s.Run("ignores invalid configured duration", func() {
		s.Equal(30*time.Second, (&TelemetryConfig{MetricsExportInterval: "soon"}).GetMetricsExportInterval())
	})
	s.Run("env milliseconds override config", func() {
		s.T().Setenv("OTEL_METRIC_EXPORT_INTERVAL", "1500")
		s.Equal(1500*time.Millisecond, (&TelemetryConfig{MetricsExportInterval: "5s"}).GetMetricsExportInterval())
	})
}

func TestTelemetryConfig(t *testing.T) {
	suite.Run(t, new(TelemetryConfigSuite))
}
