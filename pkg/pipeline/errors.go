package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared by stages, adapters and the CLI exit code mapping.
var (
	ErrConfig        = errors.New("invalid configuration")
	ErrBrowserLaunch = errors.New("failed to launch browser")
	ErrNavigation    = errors.New("navigation failed")
	ErrEmptyContent  = errors.New("page has no content")
	ErrCapture       = errors.New("screenshot capture failed")
	ErrPublish       = errors.New("publish failed")

	// ErrNavigationTimeout also matches ErrNavigation.
	ErrNavigationTimeout = fmt.Errorf("%w: timed out", ErrNavigation)
)

// MissingEnvError is returned when required credentials are absent.
type MissingEnvError struct {
	Platform  string
	Variables []string
}

func (e MissingEnvError) Error() string {
	if len(e.Variables) == 0 {
		return fmt.Sprintf("%s credentials not configured", e.Platform)
	}
	return fmt.Sprintf("%s credentials not configured (missing %s)", e.Platform, strings.Join(e.Variables, ", "))
}

// Unwrap makes MissingEnvError match ErrConfig.
func (e MissingEnvError) Unwrap() error { return ErrConfig }

// APIError is a non-success response from a platform API.
type APIError struct {
	Platform   string
	StatusCode int
	Code       string
	Message    string
	Payload    []byte // raw response body, when there was one
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s API error", e.Platform)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	if e.Code != "" {
		fmt.Fprintf(&b, " [%s]", e.Code)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Unwrap makes APIError match ErrPublish.
func (e *APIError) Unwrap() error { return ErrPublish }
