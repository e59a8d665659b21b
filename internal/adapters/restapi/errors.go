package restapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/example/outpass/internal/ports/secondary"
)

// APIError is a non-success response from the backend.
// It unwraps to the matching secondary sentinel when one applies.
type APIError struct {
	StatusCode int
	Message    string
	kind       error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned %d", e.StatusCode)
	}
	return fmt.Sprintf("api returned %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

func statusError(status int, message string) error {
	apiErr := &APIError{StatusCode: status, Message: message}
	switch {
	case status == http.StatusNotFound:
		apiErr.kind = secondary.ErrOutpassNotFound
	case status == http.StatusConflict:
		apiErr.kind = secondary.ErrTransitionConflict
	case status == http.StatusBadRequest && isStateMessage(message):
		apiErr.kind = secondary.ErrTransitionConflict
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		apiErr.kind = secondary.ErrUnauthorized
	}
	return apiErr
}

// isStateMessage reports whether a 400 message describes the outpass being
// in the wrong status, which the backend uses for lost transition races.
func isStateMessage(message string) bool {
	m := strings.ToLower(message)
	return strings.Contains(m, "status") || strings.Contains(m, "state")
}
