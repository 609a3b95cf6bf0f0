package neo

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a non-success feed response.
type ErrorKind int

const (
	KindFailure ErrorKind = iota
	KindRateLimited
	KindForbidden
)

// Sentinels for errors.Is; an *UpstreamError matches the one for its kind.
var (
	ErrUpstream    = errors.New("neo: upstream request failed")
	ErrRateLimited = errors.New("neo: upstream rate limited")
	ErrForbidden   = errors.New("neo: upstream rejected api key")
)

const (
	msgRateLimited = "NASA rate limit hit. Try again shortly or use a personal API key."
	msgForbidden   = "NASA rejected the API key (403). Verify NASA_API_KEY in backend/.env."
	msgFailure     = "NASA API request failed."
)

// UpstreamError is returned when the feed answers with a non-2xx status.
// Message is safe to show to end users.
type UpstreamError struct {
	StatusCode int
	Kind       ErrorKind
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("neo feed status %d: %s", e.StatusCode, e.Message)
}

// Is reports whether target is the sentinel for e's kind.
func (e *UpstreamError) Is(target error) bool {
	switch e.Kind {
	case KindRateLimited:
		return target == ErrRateLimited
	case KindForbidden:
		return target == ErrForbidden
	default:
		return target == ErrUpstream
	}
}

// newUpstreamError maps a status code to its kind and user-facing message.
func newUpstreamError(status int) *UpstreamError {
	switch status {
	case http.StatusTooManyRequests:
		return &UpstreamError{StatusCode: status, Kind: KindRateLimited, Message: msgRateLimited}
	case http.StatusForbidden:
		return &UpstreamError{StatusCode: status, Kind: KindForbidden, Message: msgForbidden}
	default:
		return &UpstreamError{StatusCode: status, Kind: KindFailure, Message: msgFailure}
	}
}
