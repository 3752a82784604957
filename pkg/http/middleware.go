package http

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"k8s.io/klog/v2"

	"github.com/runpod/runpod-mcp-server/pkg/telemetry"
)

var httpTracer = otel.Tracer("runpod-mcp-server/http")

// RequestRecorder receives one observation per served HTTP request.
type RequestRecorder interface {
	RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// getClientIP prefers the proxy headers (first X-Forwarded-For entry, then X-Real-IP) over RemoteAddr.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// getHTTPRoute groups unknown paths under a single route to keep span cardinality low.
func getHTTPRoute(path string) string {
	switch path {
	case healthEndpoint, mcpEndpoint, sseEndpoint, sseMessageEndpoint, statsEndpoint, metricsEndpoint:
		return path
	}
	return "/*"
}

func getScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

func requestAttributes(r *http.Request, route string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("http.request.method", r.Method),
		attribute.String("http.route", route),
		attribute.String("url.path", r.URL.Path),
		attribute.String("url.scheme", getScheme(r)),
		attribute.String("server.address", r.Host),
		attribute.String("network.protocol.version", r.Proto),
		attribute.String("client.address", getClientIP(r)),
	}
	// url.query is left out, it may carry secrets
	if ua := r.UserAgent(); ua != "" {
		attrs = append(attrs, attribute.String("user_agent.original", ua))
	}
	if r.ContentLength > 0 {
		attrs = append(attrs, attribute.Int64("http.request.body.size", r.ContentLength))
	}
	return attrs
}

// endSpan marks 5xx responses as span errors; 4xx only get an error.type.
func endSpan(span trace.Span, statusCode int) {
	span.SetAttributes(attribute.Int("http.response.status_code", statusCode))
	switch {
	case statusCode >= 500:
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", statusCode))
		span.SetAttributes(attribute.String("error.type", strconv.Itoa(statusCode)))
	case statusCode >= 400:
		span.SetAttributes(attribute.String("error.type", strconv.Itoa(statusCode)))
	default:
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// RequestMiddleware logs every request, records it with recorder and, when telemetry is enabled,
// wraps it in a server span continuing the trace propagated in the request headers.
// Health checks are neither traced nor recorded.
func RequestMiddleware(next http.Handler, recorder RequestRecorder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == healthEndpoint {
			next.ServeHTTP(w, r)
			return
		}

		var span trace.Span
		if telemetry.Enabled() {
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			route := getHTTPRoute(r.URL.Path)
			ctx, span = httpTracer.Start(ctx, r.Method+" "+route,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(requestAttributes(r, route)...),
			)
			r = r.WithContext(ctx)
		}

		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(lrw, r)
		duration := time.Since(start)

		if span != nil {
			endSpan(span, lrw.statusCode)
		}
		if recorder != nil {
			recorder.RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, lrw.statusCode, duration)
		}
		klog.V(5).Infof("%s %s %d %v", r.Method, r.URL.Path, lrw.statusCode, duration)
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode    int
	headerWritten bool
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	if !lrw.headerWritten {
		lrw.statusCode = code
		lrw.headerWritten = true
		lrw.ResponseWriter.WriteHeader(code)
	}
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	lrw.headerWritten = true
	return lrw.ResponseWriter.Write(b)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (lrw *loggingResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := lrw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}
