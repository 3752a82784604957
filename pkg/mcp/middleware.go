package mcp

import (
	"bytes"
	"context"
	"reflect"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"k8s.io/klog/v2"

	"github.com/runpod/runpod-mcp-server/pkg/mcplog"
	"github.com/runpod/runpod-mcp-server/pkg/telemetry"
)

// sessionInjectionMiddleware stores the server session in the context so that
// mcplog can send log notifications to the client that issued the request.
func sessionInjectionMiddleware(next mcp.MethodHandler) mcp.MethodHandler {
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		if session, ok := req.GetSession().(*mcp.ServerSession); ok && session != nil {
			ctx = context.WithValue(ctx, mcplog.MCPSessionContextKey, session)
		}
		return next(ctx, method, req)
	}
}

// traceContextPropagationMiddleware extracts W3C trace context (traceparent, tracestate)
// sent by the client in the request _meta.
func traceContextPropagationMiddleware(next mcp.MethodHandler) mcp.MethodHandler {
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		params := req.GetParams()
		if params == nil || reflect.ValueOf(params).IsNil() {
			return next(ctx, method, req)
		}
		carrier := propagation.MapCarrier{}
		for k, v := range params.GetMeta() {
			if s, ok := v.(string); ok {
				carrier[k] = s
			}
		}
		if len(carrier) > 0 {
			ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)
		}
		return next(ctx, method, req)
	}
}

func tracingMiddleware(tracerName string) mcp.Middleware {
	tracer := otel.Tracer(tracerName)
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			if !telemetry.Enabled() {
				return next(ctx, method, req)
			}
			spanName := method
			attributes := []attribute.KeyValue{attribute.String("mcp.method.name", method)}
			if params, ok := req.GetParams().(*mcp.CallToolParamsRaw); ok {
				spanName = method + " " + params.Name
				attributes = append(attributes, attribute.String("gen_ai.tool.name", params.Name))
			}
			ctx, span := tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindServer), trace.WithAttributes(attributes...))
			defer span.End()
			result, err := next(ctx, method, req)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else if toolResult, ok := result.(*mcp.CallToolResult); ok && toolResult.IsError {
				span.SetStatus(codes.Error, "tool call returned an error result")
			}
			return result, err
		}
	}
}

func toolCallLoggingMiddleware(next mcp.MethodHandler) mcp.MethodHandler {
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		switch params := req.GetParams().(type) {
		case *mcp.CallToolParamsRaw:
			toolCallRequest, _ := GoSdkToolCallParamsToToolCallRequest(params)
			klog.V(5).Infof("mcp tool call: %s(%v)", toolCallRequest.Name, toolCallRequest.GetArguments())
			if req.GetExtra() != nil && req.GetExtra().Header != nil {
				buffer := bytes.NewBuffer(make([]byte, 0))
				if err := req.GetExtra().Header.WriteSubset(buffer, map[string]bool{"Authorization": true, "authorization": true}); err == nil {
					klog.V(7).Infof("mcp tool call headers: %s", buffer)
				}
			}
		}
		return next(ctx, method, req)
	}
}
