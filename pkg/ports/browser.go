// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
	"time"
)

// Browser abstracts the headless browser page used to render share cards.
// A Browser drives a single page; methods other than Launch operate on the
// context passed to Launch.
type Browser interface {
	// Launch starts the browser with the given options.
	Launch(ctx context.Context, opts BrowserOptions) error

	// SetViewport sets the page viewport in CSS pixels with a device scale factor.
	SetViewport(vp Viewport) error

	// AddScriptOnNewDocument registers a script evaluated before any page script
	// on every subsequent navigation.
	AddScriptOnNewDocument(script string) error

	// Navigate loads url and waits until the network has been idle, bounded by timeout.
	Navigate(url string, timeout time.Duration) (*NavigationResponse, error)

	// Evaluate runs a JavaScript expression and decodes its result into out.
	Evaluate(expression string, out interface{}) error

	// SetContent replaces the current document with html.
	SetContent(html string) error

	// CaptureRegion returns a PNG of the clip rectangle (CSS pixels) rendered
	// at the viewport's device scale factor.
	CaptureRegion(clip Rect) ([]byte, error)

	// Close shuts down the browser. Calling Close more than once is safe.
	Close() error
}

// BrowserOptions configures browser launch settings.
type BrowserOptions struct {
	Headless     bool
	ChromePath   string
	UserAgent    string
	WindowWidth  int
	WindowHeight int
	// AutoInstall downloads a Chromium build when no executable is found.
	AutoInstall bool
}

// Viewport describes the page size in CSS pixels.
type Viewport struct {
	Width             int
	Height            int
	DeviceScaleFactor float64
}

// Rect is a rectangle in CSS pixels.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// NavigationResponse describes the main document response.
type NavigationResponse struct {
	URL        string
	Status     int
	StatusText string
}

// OK reports whether the response status is 2xx. Status 0 (no HTTP
// exchange, e.g. file:// or data: documents) also counts as OK.
func (r *NavigationResponse) OK() bool {
	if r == nil {
		return false
	}
	return r.Status == 0 || (r.Status >= 200 && r.Status <= 299)
}
