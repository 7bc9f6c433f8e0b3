// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/user/forecastbot/pkg/ports"
)

// Browser is a mock implementation of ports.Browser.
// Unset funcs fall back to benign defaults; every call is recorded.
type Browser struct {
	LaunchFunc                 func(ctx context.Context, opts ports.BrowserOptions) error
	SetViewportFunc            func(vp ports.Viewport) error
	AddScriptOnNewDocumentFunc func(script string) error
	NavigateFunc               func(url string, timeout time.Duration) (*ports.NavigationResponse, error)
	EvaluateFunc               func(expression string, out interface{}) error
	SetContentFunc             func(html string) error
	CaptureRegionFunc          func(clip ports.Rect) ([]byte, error)
	CloseFunc                  func() error

	mu            sync.Mutex
	LaunchCalls   []ports.BrowserOptions
	Viewports     []ports.Viewport
	Scripts       []string
	NavigateCalls []string
	Expressions   []string
	Contents      []string
	Clips         []ports.Rect
	CloseCalls    int
}

func (m *Browser) Launch(ctx context.Context, opts ports.BrowserOptions) error {
	m.mu.Lock()
	m.LaunchCalls = append(m.LaunchCalls, opts)
	m.mu.Unlock()
	if m.LaunchFunc != nil {
		return m.LaunchFunc(ctx, opts)
	}
	return nil
}

func (m *Browser) SetViewport(vp ports.Viewport) error {
	m.mu.Lock()
	m.Viewports = append(m.Viewports, vp)
	m.mu.Unlock()
	if m.SetViewportFunc != nil {
		return m.SetViewportFunc(vp)
	}
	return nil
}

func (m *Browser) AddScriptOnNewDocument(script string) error {
	m.mu.Lock()
	m.Scripts = append(m.Scripts, script)
	m.mu.Unlock()
	if m.AddScriptOnNewDocumentFunc != nil {
		return m.AddScriptOnNewDocumentFunc(script)
	}
	return nil
}

func (m *Browser) Navigate(url string, timeout time.Duration) (*ports.NavigationResponse, error) {
	m.mu.Lock()
	m.NavigateCalls = append(m.NavigateCalls, url)
	m.mu.Unlock()
	if m.NavigateFunc != nil {
		return m.NavigateFunc(url, timeout)
	}
	return &ports.NavigationResponse{URL: url, Status: 200, StatusText: "OK"}, nil
}

func (m *Browser) Evaluate(expression string, out interface{}) error {
	m.mu.Lock()
	m.Expressions = append(m.Expressions, expression)
	m.mu.Unlock()
	if m.EvaluateFunc != nil {
		return m.EvaluateFunc(expression, out)
	}
	return nil
}

func (m *Browser) SetContent(html string) error {
	m.mu.Lock()
	m.Contents = append(m.Contents, html)
	m.mu.Unlock()
	if m.SetContentFunc != nil {
		return m.SetContentFunc(html)
	}
	return nil
}

func (m *Browser) CaptureRegion(clip ports.Rect) ([]byte, error) {
	m.mu.Lock()
	m.Clips = append(m.Clips, clip)
	m.mu.Unlock()
	if m.CaptureRegionFunc != nil {
		return m.CaptureRegionFunc(clip)
	}
	return []byte("png"), nil
}

func (m *Browser) Close() error {
	m.mu.Lock()
	m.CloseCalls++
	m.mu.Unlock()
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Ensure Browser implements ports.Browser
var _ ports.Browser = (*Browser)(nil)
