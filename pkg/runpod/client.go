package runpod

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/runpod/runpod-mcp-server/pkg/telemetry"
	"github.com/runpod/runpod-mcp-server/pkg/version"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"k8s.io/klog/v2"
)

var tracer = otel.Tracer("runpod-mcp-server/runpod")

// API identifies which RunPod API a request targets.
type API int

const (
	// REST is the resource management API (pods, endpoints, templates, volumes, registry auth).
	REST API = iota
	// Serverless is the job execution API of serverless endpoints.
	Serverless
)

func (a API) String() string {
	switch a {
	case Serverless:
		return "serverless"
	default:
		return "rest"
	}
}

func (a API) errorPrefix() string {
	if a == Serverless {
		return "RunPod Serverless API Error"
	}
	return "RunPod API Error"
}

// Observer is notified once per completed upstream request.
// statusCode is 0 when the request failed before a response was received.
type Observer func(api API, method string, statusCode int, duration time.Duration)

type Options struct {
	APIKey           string
	RestAPIURL       string
	ServerlessAPIURL string
	// Timeout bounds each request, zero means no deadline beyond the caller's context.
	Timeout    time.Duration
	HTTPClient *http.Client
	Observer   Observer
}

type Client struct {
	apiKey     string
	baseURLs   map[API]string
	timeout    time.Duration
	httpClient *http.Client
	observer   Observer
}

func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("RunPod API key is required")
	}
	baseURLs := map[API]string{}
	for api, raw := range map[API]string{REST: opts.RestAPIURL, Serverless: opts.ServerlessAPIURL} {
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid %s API URL %q", api, raw)
		}
		baseURLs[api] = strings.TrimRight(u.String(), "/")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		apiKey:     opts.APIKey,
		baseURLs:   baseURLs,
		timeout:    opts.Timeout,
		httpClient: httpClient,
		observer:   opts.Observer,
	}, nil
}

// Send issues an authenticated request against the given API.
// body is JSON encoded and only sent for POST and PATCH requests.
// A non-2xx response is returned as a *RemoteAPIError, any other failure as a *TransportError.
func (c *Client) Send(ctx context.Context, api API, method, path string, query url.Values, body any) (*Response, error) {
	if method == "" {
		method = http.MethodGet
	}
	requestURL := c.baseURLs[api] + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var span trace.Span
	if telemetry.Enabled() {
		ctx, span = tracer.Start(ctx, fmt.Sprintf("%s %s", method, api),
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("http.request.method", method),
				attribute.String("url.path", path),
				attribute.String("runpod.api", api.String()),
			),
		)
		defer span.End()
	}

	start := time.Now()
	resp, err := c.do(ctx, api, method, requestURL, path, body)
	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	var remoteErr *RemoteAPIError
	if errors.As(err, &remoteErr) {
		statusCode = remoteErr.StatusCode
	}
	if c.observer != nil {
		c.observer(api, method, statusCode, time.Since(start))
	}
	if span != nil {
		if statusCode > 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", statusCode))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
	}
	if err != nil {
		klog.Errorf("RunPod %s request %s %s failed: %v", api, method, path, err)
		return nil, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, api API, method, requestURL, path string, body any) (*Response, error) {
	var reader io.Reader
	if body != nil && (method == http.MethodPost || method == http.MethodPatch) {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, &TransportError{API: api, Method: method, Path: path, Err: fmt.Errorf("failed to encode request body: %w", err)}
		}
		reader = bytes.NewReader(encoded)
	}

	klog.V(4).Infof("RunPod %s API call: %s %s", api, method, path)
	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return nil, &TransportError{API: api, Method: method, Path: path, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("X-Request-Id", uuid.NewString())
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{API: api, Method: method, Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{API: api, Method: method, Path: path, Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RemoteAPIError{API: api, StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        respBody,
	}, nil
}

type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// IsJSON reports whether the response declared a JSON payload.
func (r *Response) IsJSON() bool {
	return strings.Contains(strings.ToLower(r.ContentType), "application/json")
}

// JSON returns the response payload as a JSON document.
// Responses without a JSON payload are summarized as {"success": true, "status": <code>}.
func (r *Response) JSON() json.RawMessage {
	if r.IsJSON() && len(bytes.TrimSpace(r.Body)) > 0 {
		return r.Body
	}
	return json.RawMessage(fmt.Sprintf(`{"success":true,"status":%d}`, r.StatusCode))
}
