package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidationError marks malformed caller input. It is the only error class
// that crosses the engine boundary; everything else is rendered into the
// returned text.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError means a provider found no candidate for the query.
type NotFoundError struct {
	Provider string
	Query    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: place not found for query %q", e.Provider, e.Query)
}

// UpstreamError carries the upstream status and message of a failed
// provider call (transport, auth, rate limit, server error).
type UpstreamError struct {
	Provider string
	Status   int // 0 when the request never reached the provider
	Message  string
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Status, e.Message)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Session store errors.
var (
	ErrSessionExists   = errors.New("session already exists")
	ErrSessionNotFound = errors.New("session not found")
)

// ValidatePlaceQuery trims the query and enforces the shared provider
// contract: 2..200 characters after trimming. Bounds count runes, not
// bytes, so multibyte place names are not penalized.
func ValidatePlaceQuery(q string) (string, error) {
	q = strings.TrimSpace(q)
	n := utf8.RuneCountInString(q)
	if n < 2 {
		return "", &ValidationError{Msg: "place query must be at least 2 characters long"}
	}
	if n > 200 {
		return "", &ValidationError{Msg: "place query must be less than 200 characters"}
	}
	return q, nil
}
