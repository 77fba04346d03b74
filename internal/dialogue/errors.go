package dialogue

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedTrace marks a response item missing fields its type requires.
	ErrMalformedTrace = errors.New("dialogue: malformed trace")
	// ErrConversationRequired is returned when no conversation id was assigned.
	ErrConversationRequired = errors.New("dialogue: conversation id required")
	// ErrAPIKeyMissing is returned when the client has no API key configured.
	ErrAPIKeyMissing = errors.New("dialogue: api key missing")
)

// APIError is a non-2xx response from the Dialog Manager API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dialogue: unexpected status %d: %s", e.StatusCode, e.Body)
}

func errMissing(field string) error {
	return fmt.Errorf("missing %s", field)
}
