package runpod

import "fmt"

// RemoteAPIError is a non-2xx response from RunPod. It is never retried.
type RemoteAPIError struct {
	API        API
	StatusCode int
	Body       string
}

func (e *RemoteAPIError) Error() string {
	return fmt.Sprintf("%s: %d - %s", e.API.errorPrefix(), e.StatusCode, e.Body)
}

// TransportError is a failure to build, send or read a request.
type TransportError struct {
	API    API
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("RunPod %s request %s %s failed: %v", e.API, e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
