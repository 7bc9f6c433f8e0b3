package ports

import "context"

// HTMLCapturer renders an HTML document in a browser and captures it as PNG.
type HTMLCapturer interface {
	// CaptureHTML renders html at the given viewport and captures the full viewport.
	CaptureHTML(ctx context.Context, html string, vp Viewport) ([]byte, error)
}
