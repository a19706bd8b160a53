package executor

import "fmt"

// NetworkError means the endpoint could not be reached at the transport
// level (DNS, connect, timeout).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RemoteError means the endpoint answered with a non-success status. Body
// carries the server-provided error payload.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error (status %d): %s", e.StatusCode, e.Body)
}

// ResponseShapeError means the endpoint answered successfully but the body
// did not contain the expected completion fields.
type ResponseShapeError struct {
	Reason string
}

func (e *ResponseShapeError) Error() string {
	return fmt.Sprintf("unexpected response shape: %s", e.Reason)
}
