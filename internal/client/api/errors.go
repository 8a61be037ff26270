package api

import "fmt"

// RequestError is a non-2xx server response or, with Status 0, a network
// failure. Message carries the server's error payload ("detail" field)
// unchanged when it is present.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// DecodeError reports a response body that did not match the expected shape
// for an endpoint. It fails fast at the transport boundary so callers never
// see half-parsed data.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s response: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
