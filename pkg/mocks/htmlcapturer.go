package mocks

import (
	"context"

	"github.com/user/forecastbot/pkg/ports"
)

// HTMLCapturer is a mock implementation of ports.HTMLCapturer.
type HTMLCapturer struct {
	CaptureHTMLFunc func(ctx context.Context, html string, vp ports.Viewport) ([]byte, error)

	// Track calls for assertions
	Calls []struct {
		HTML     string
		Viewport ports.Viewport
	}
}

// NewHTMLCapturer creates a new mock HTMLCapturer returning a fixed payload.
func NewHTMLCapturer() *HTMLCapturer {
	return &HTMLCapturer{}
}

// CaptureHTML implements ports.HTMLCapturer.
func (m *HTMLCapturer) CaptureHTML(ctx context.Context, html string, vp ports.Viewport) ([]byte, error) {
	m.Calls = append(m.Calls, struct {
		HTML     string
		Viewport ports.Viewport
	}{html, vp})
	if m.CaptureHTMLFunc != nil {
		return m.CaptureHTMLFunc(ctx, html, vp)
	}
	return []byte("story-png"), nil
}

var _ ports.HTMLCapturer = (*HTMLCapturer)(nil)
