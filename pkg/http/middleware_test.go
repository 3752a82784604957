package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/runpod/runpod-mcp-server/pkg/config"
	"github.com/runpod/runpod-mcp-server/pkg/telemetry"
)

type HTTPTraceContextPropagationSuite struct {
	suite.Suite
	cleanupTelemetry func()
}

func (s *HTTPTraceContextPropagationSuite) SetupTest() {
	// Exporter connects lazily, no collector needs to be listening
	cleanup, _ := telemetry.InitTracerWithConfig(&config.TelemetryConfig{Endpoint: "http://localhost:4317"}, "test", "1.0.0")
	s.cleanupTelemetry = cleanup

	// Set up a global text map propagator for tests
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}

func (s *HTTPTraceContextPropagationSuite) TearDownTest() {
	if s.cleanupTelemetry != nil {
		s.cleanupTelemetry()
	}
}

func (s *HTTPTraceContextPropagationSuite) TestRequestMiddlewareExtractsTraceContext() {
	s.Run("extracts trace context from HTTP headers", func() {
		var capturedContext trace.SpanContext
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			capturedContext = trace.SpanContextFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		middleware := RequestMiddleware(handler, nil)

		req := httptest.NewRequest("GET", "/mcp", nil)
		req.Header.Set("traceparent", "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01")
		req.Header.Set("tracestate", "rojo=00f067aa0ba902b7")

		rr := httptest.NewRecorder()
		middleware.ServeHTTP(rr, req)

		s.True(capturedContext.IsValid(), "Expected valid span context")

		// The middleware creates a new child span, so trace ID should match parent but span ID will be different
		expectedTraceID, _ := trace.TraceIDFromHex("0af7651916cd43dd8448eb211c80319c")
		s.Equal(expectedTraceID, capturedContext.TraceID(), "Trace ID should be propagated from parent")

		// Span ID will be different since middleware creates a new span
		parentSpanID, _ := trace.SpanIDFromHex("b7ad6b7169203331")
		s.NotEqual(parentSpanID, capturedContext.SpanID(), "Span ID should be new child span, not parent")
	})

	s.Run("handles requests without trace context", func() {
		var capturedContext trace.SpanContext
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			capturedContext = trace.SpanContextFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		middleware := RequestMiddleware(handler, nil)

		req := httptest.NewRequest("GET", "/mcp", nil)
		rr := httptest.NewRecorder()
		middleware.ServeHTTP(rr, req)

		// Middleware creates a new root span when no parent context exists
		s.True(capturedContext.IsValid(), "Expected valid span context from middleware-created span")
	})

	s.Run("skips trace extraction for healthz endpoint", func() {
		var handlerCalled bool
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
			w.WriteHeader(http.StatusOK)
		})

		middleware := RequestMiddleware(handler, nil)

		req := httptest.NewRequest("GET", "/healthz", nil)
		req.Header.Set("traceparent", "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01")

		rr := httptest.NewRecorder()
		middleware.ServeHTTP(rr, req)

		s.True(handlerCalled, "Handler should be called for healthz")
		s.Equal(http.StatusOK, rr.Code)
	})

	s.Run("propagates context through request chain", func() {
		var innerContext trace.SpanContext
		innerHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			innerContext = trace.SpanContextFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		// Add an intermediate handler
		intermediateHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Verify context is available here too
			spanContext := trace.SpanContextFromContext(r.Context())
			s.True(spanContext.IsValid(), "Context should be valid in intermediate handler")
			innerHandler.ServeHTTP(w, r)
		})

		middleware := RequestMiddleware(intermediateHandler, nil)

		req := httptest.NewRequest("GET", "/mcp", nil)
		req.Header.Set("traceparent", "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01")

		rr := httptest.NewRecorder()
		middleware.ServeHTTP(rr, req)

		// Verify context was propagated all the way through
		s.True(innerContext.IsValid(), "Context should propagate to inner handler")
		expectedTraceID, _ := trace.TraceIDFromHex("0af7651916cd43dd8448eb211c80319c")
		s.Equal(expectedTraceID, innerContext.TraceID())
	})
}

type recordedRequest struct {
	method, path string
	statusCode   int
}

type fakeRecorder struct {
	requests []recordedRequest
}

func (f *fakeRecorder) RecordHTTPRequest(_ context.Context, method, path string, statusCode int, _ time.Duration) {
	f.requests = append(f.requests, recordedRequest{method, path, statusCode})
}

type RequestMiddlewareSuite struct {
	suite.Suite
}

func (s *RequestMiddlewareSuite) TestRecordsRequests() {
	recorder := &fakeRecorder{}
	handler := RequestMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
	}), recorder)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/mcp", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	s.Run("records method, path and first written status", func() {
		s.Require().Len(recorder.requests, 1)
		s.Equal(recordedRequest{http.MethodPost, "/mcp", http.StatusTeapot}, recorder.requests[0])
	})
	s.Run("health checks are not recorded", func() {
		for _, r := range recorder.requests {
			s.NotEqual("/healthz", r.path)
		}
	})
}

func (s *RequestMiddlewareSuite) TestDefaultStatusIsOK() {
	recorder := &fakeRecorder{}
	handler := RequestMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}), recorder)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/stats", nil))
	s.Require().Len(recorder.requests, 1)
	s.Equal(http.StatusOK, recorder.requests[0].statusCode)
}

func (s *RequestMiddlewareSuite) TestGetClientIP() {
	s.Run("first X-Forwarded-For entry", func() {
		req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
		req.Header.Set("X-Forwarded-For", " 10.0.0.1 , 10.0.0.2")
		req.Header.Set("X-Real-IP", "10.0.0.3")
		s.Equal("10.0.0.1", getClientIP(req))
	})
	s.Run("X-Real-IP", func() {
		req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
		req.Header.Set("X-Real-IP", "10.0.0.3")
		s.Equal("10.0.0.3", getClientIP(req))
	})
	s.Run("remote address without port", func() {
		req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
		req.RemoteAddr = "192.168.1.10:51234"
		s.Equal("192.168.1.10", getClientIP(req))
	})
}

func (s *RequestMiddlewareSuite) TestGetHTTPRoute() {
	for _, path := range []string{"/mcp", "/sse", "/message", "/healthz", "/stats", "/metrics"} {
		s.Equal(path, getHTTPRoute(path))
	}
	s.Equal("/*", getHTTPRoute("/pods/abc"))
}

func TestRequestMiddleware(t *testing.T) {
	suite.Run(t, new(RequestMiddlewareSuite))
}

func TestHTTPTraceContextPropagation(t *testing.T) {
	suite.Run(t, new(HTTPTraceContextPropagationSuite))
}
