package integrations

import (
	"errors"
	"net/http"

	"github.com/matzehuels/catalogcheck/pkg/cache"
)

var (
	// ErrNotFound is returned when an artifact or document doesn't exist in the repository.
	ErrNotFound = cache.ErrNotFound

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = cache.ErrNetwork

	// ErrMalformed is returned when a response body cannot be decoded.
	ErrMalformed = errors.New("malformed response")
)

// NewHTTPClient creates the HTTP client for repository requests. It sets no
// timeout of its own: every request is bounded by the deadline of its
// context, which the resolver sets per attempt.
func NewHTTPClient() *http.Client {
	return &http.Client{}
}
