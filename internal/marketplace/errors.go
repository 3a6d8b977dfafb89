package marketplace

import (
	"errors"
	"fmt"
)

// Errors returned by Client implementations. Together with StatusError these
// form the closed set of upstream failure kinds; callers match them with
// errors.Is / errors.As.
var (
	// ErrUnavailable is returned on transport failures and timeouts. The
	// upstream was never reached or never answered.
	ErrUnavailable = errors.New("marketplace unavailable")

	// ErrMalformedResponse is returned when a successful response does not
	// contain the expected body shape.
	ErrMalformedResponse = errors.New("malformed marketplace response")
)

// StatusError is returned when the upstream answers with a non-success HTTP
// status.
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("marketplace rejected request (status %d): %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("marketplace rejected request (status %d)", e.StatusCode)
}

// ErrorKind classifies an upstream error for logging and metrics labels.
func ErrorKind(err error) string {
	var statusErr *StatusError
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	case errors.As(err, &statusErr):
		return "rejected"
	default:
		return "other"
	}
}
