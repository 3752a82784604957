package test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
)

// RecordedRequest is a request received by the RunPodServer.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// RunPodServer impersonates both RunPod APIs. Every request is recorded, then offered to the
// registered handlers in order. When no handler writes a response the server replies
// 200 with an empty JSON object.
type RunPodServer struct {
	server   *httptest.Server
	mu       sync.Mutex
	requests []RecordedRequest
	handlers []http.Handler
}

func NewRunPodServer() *RunPodServer {
	s := &RunPodServer{}
	s.server = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	return s
}

func (s *RunPodServer) serveHTTP(w http.ResponseWriter, req *http.Request) {
	body, _ := io.ReadAll(req.Body)
	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method: req.Method,
		Path:   req.URL.EscapedPath(),
		Query:  req.URL.Query(),
		Header: req.Header.Clone(),
		Body:   body,
	})
	handlers := append([]http.Handler{}, s.handlers...)
	s.mu.Unlock()

	sw := &statusWriter{ResponseWriter: w}
	for _, h := range handlers {
		h.ServeHTTP(sw, req)
		if sw.written {
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{}`))
}

// URL is the base URL to configure as both the REST and the serverless API URL.
func (s *RunPodServer) URL() string {
	return s.server.URL
}

func (s *RunPodServer) Close() {
	if s.server != nil {
		s.server.Close()
	}
}

func (s *RunPodServer) Handle(handler http.Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// ResetHandlers removes every handler and forgets the recorded requests.
func (s *RunPodServer) ResetHandlers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = nil
	s.requests = nil
}

func (s *RunPodServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest{}, s.requests...)
}

// LastRequest returns the most recent request, or nil when none was received.
func (s *RunPodServer) LastRequest() *RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	r := s.requests[len(s.requests)-1]
	return &r
}

// Respond registers a handler replying to method and path with the given status, content type and body.
// An empty method or path matches any request.
func (s *RunPodServer) Respond(method, path string, status int, contentType, body string) {
	s.Handle(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if (method != "" && req.Method != method) || (path != "" && req.URL.EscapedPath() != path) {
			return
		}
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

type statusWriter struct {
	http.ResponseWriter
	written bool
}

func (w *statusWriter) WriteHeader(code int) {
	w.written = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.written = true
	return w.ResponseWriter.Write(b)
}
