package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ProviderError describes a failed webhook attempt. Transient marks failures
// a later attempt could plausibly fix (timeouts, 429, 5xx).
type ProviderError struct {
	StatusCode int
	Message    string
	Transient  bool
	Cause      error
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "<nil>"
	}

	parts := []string{"webhook error"}
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		parts = append(parts, msg)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}

	return strings.Join(parts, ": ")
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// IsTransient reports whether err looks recoverable. The dispatcher retries
// every failure regardless and only records this classification.
func IsTransient(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.DeadlineExceeded):
		return true
	case errors.Is(err, context.Canceled):
		return false
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Transient
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// StatusCode extracts the HTTP status of a failed attempt, or 0 when the
// request never produced a response.
func StatusCode(err error) int {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.StatusCode
	}
	return 0
}
