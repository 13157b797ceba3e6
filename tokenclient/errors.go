package tokenclient

import "fmt"

// ValidationError reports a missing required input to Exchange,
// detected before any I/O. The caller must fix the input; retrying
// does not help.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required input: %s", e.Field)
}

// TransportError reports a network or timeout failure reaching the
// token endpoint. The caller may retry with backoff.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "unable to reach token endpoint: " + e.Err.Error()
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError reports a successful HTTP status with a body that is not
// a valid token response.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "unable to decode token response: " + e.Err.Error()
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EndpointError reports an OAuth error returned by the token endpoint,
// typically bad credentials or scope. It is not retried automatically.
type EndpointError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func (e *EndpointError) Error() string {
	switch {
	case e.Code == "":
		return fmt.Sprintf("token endpoint returned status %d", e.StatusCode)
	case e.Description == "":
		return fmt.Sprintf("token endpoint returned %s", e.Code)
	}
	return fmt.Sprintf("token endpoint returned %s: %s", e.Code, e.Description)
}
