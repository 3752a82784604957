package telemetry

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/runpod/runpod-mcp-server/pkg/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"k8s.io/klog/v2"
)

const (
	defaultSampler  = "parentbased_always_on"
	shutdownTimeout = 5 * time.Second
)

var tracingEnabled atomic.Bool

// Enabled reports whether spans are exported for RunPod tool calls and HTTP requests.
func Enabled() bool {
	return tracingEnabled.Load()
}

// samplers maps OTEL_TRACES_SAMPLER values to their SDK sampler.
// The ratio is only meaningful for the traceidratio variants.
var samplers = map[string]func(ratio float64) trace.Sampler{
	"always_on":  func(float64) trace.Sampler { return trace.AlwaysSample() },
	"always_off": func(float64) trace.Sampler { return trace.NeverSample() },
	"traceidratio": func(ratio float64) trace.Sampler {
		return trace.TraceIDRatioBased(ratio)
	},
	"parentbased_always_on": func(float64) trace.Sampler {
		return trace.ParentBased(trace.AlwaysSample())
	},
	"parentbased_always_off": func(float64) trace.Sampler {
		return trace.ParentBased(trace.NeverSample())
	},
	"parentbased_traceidratio": func(ratio float64) trace.Sampler {
		return trace.ParentBased(trace.TraceIDRatioBased(ratio))
	},
}

// spanExporters maps the OTLP protocol names to an exporter constructor.
var spanExporters = map[string]func(ctx context.Context, endpoint string) (trace.SpanExporter, error){
	"grpc": func(ctx context.Context, endpoint string) (trace.SpanExporter, error) {
		return otlptracegrpc.New(ctx, otlptracegrpc.WithEndpointURL(endpoint))
	},
	"http/protobuf": func(ctx context.Context, endpoint string) (trace.SpanExporter, error) {
		return otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	},
}

// InitTracerWithConfig installs a global tracer provider exporting to the configured OTLP collector.
// Tracing stays off when telemetry is not configured or the exporter cannot be built;
// neither case is an error for the server.
// The returned cleanup flushes pending spans and can be called more than once.
func InitTracerWithConfig(cfg *config.TelemetryConfig, serviceName, serviceVersion string) (func(), error) {
	if cfg == nil || !cfg.IsEnabled() {
		klog.V(2).Info("Telemetry not enabled, tracing disabled")
		return func() {}, nil
	}

	tp, err := newTracerProvider(context.Background(), cfg, serviceName, serviceVersion)
	if err != nil {
		klog.V(1).Infof("Tracing disabled: %v", err)
		return func() {}, nil
	}
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	tracingEnabled.Store(true)
	klog.V(1).Infof("OpenTelemetry tracing initialized (endpoint=%s)", cfg.GetEndpoint())

	var once sync.Once
	return func() {
		once.Do(func() {
			tracingEnabled.Store(false)
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				klog.Errorf("Failed to shutdown tracer provider: %v", err)
				return
			}
			klog.V(1).Info("OpenTelemetry tracer provider shutdown complete")
		})
	}, nil
}

func newTracerProvider(ctx context.Context, cfg *config.TelemetryConfig, serviceName, serviceVersion string) (*trace.TracerProvider, error) {
	exporter, err := newSpanExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}
	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return trace.NewTracerProvider(
		trace.WithBatcher(exporter, trace.WithBatchTimeout(shutdownTimeout)),
		trace.WithResource(res),
		trace.WithSampler(newSampler(cfg)),
	), nil
}

// newSampler builds the sampler named by the config, ParentBased(AlwaysSample) when unset or unknown.
func newSampler(cfg *config.TelemetryConfig) trace.Sampler {
	name := strings.ToLower(cfg.GetTracesSampler())
	if name == "" {
		name = defaultSampler
	}
	sampler, ok := samplers[name]
	if !ok {
		klog.V(1).Infof("Unknown traces_sampler '%s', using %s", name, defaultSampler)
		sampler = samplers[defaultSampler]
	}
	return sampler(samplerRatio(cfg.GetTracesSamplerArg()))
}

// samplerRatio parses traces_sampler_arg, anything unparsable or outside [0, 1] means 1.
func samplerRatio(arg string) float64 {
	if arg == "" {
		return 1
	}
	ratio, err := strconv.ParseFloat(arg, 64)
	if err != nil || ratio < 0 || ratio > 1 {
		klog.V(1).Infof("Ignoring traces_sampler_arg '%s', sampling ratio must be within [0, 1]", arg)
		return 1
	}
	return ratio
}

// newSpanExporter picks the OTLP exporter for the configured protocol, gRPC when unset or unknown.
func newSpanExporter(ctx context.Context, cfg *config.TelemetryConfig) (trace.SpanExporter, error) {
	protocol := strings.ToLower(cfg.GetProtocol())
	if protocol == "http" {
		protocol = "http/protobuf"
	}
	newExporter, ok := spanExporters[protocol]
	if !ok {
		if protocol != "" {
			klog.V(1).Infof("Unknown OTLP protocol '%s', using grpc", protocol)
		}
		newExporter = spanExporters["grpc"]
	}
	return newExporter(ctx, cfg.GetEndpoint())
}
