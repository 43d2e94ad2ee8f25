package discord

import (
	"errors"
	"fmt"
)

// maxErrorBody is the number of characters of an upstream error body kept in
// an UpstreamError.
const maxErrorBody = 200

var (
	// ErrNotSupported is returned by operations the bot credential cannot
	// perform, regardless of their input.
	ErrNotSupported = errors.New("operation not supported")

	// ErrMalformedResponse is returned when Discord answers a successful
	// status with a body that is not valid JSON.
	ErrMalformedResponse = errors.New("malformed response body")
)

// ConfigError reports a missing or invalid startup setting.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Key, e.Reason)
}

// ValidationError reports an identifier input that is not a snowflake. It is
// raised before any request is made.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %q (expected 17-20 digit snowflake)", e.Field, e.Value)
}

// UpstreamError is a non-success HTTP status returned by Discord. Body holds at
// most the first 200 characters of the raw response.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("discord API error %d: %s", e.Status, e.Body)
}

func newUpstreamError(status int, body []byte) *UpstreamError {
	return &UpstreamError{Status: status, Body: truncate(string(body), maxErrorBody)}
}

// truncate returns the first n characters of s, counted in runes.
func truncate(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
