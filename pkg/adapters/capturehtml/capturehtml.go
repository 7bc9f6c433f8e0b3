// Package capturehtml provides HTML-to-image capture using a headless browser.
package capturehtml

import (
	"context"
	"fmt"
	"time"

	"github.com/user/forecastbot/pkg/pipeline"
	"github.com/user/forecastbot/pkg/ports"
)

// readyExpression is true once the document, its web fonts and every <img>
// have finished loading.
const readyExpression = `document.readyState === 'complete' &&
	(!document.fonts || document.fonts.status === 'loaded') &&
	Array.from(document.images).every(img => img.complete)`

// Capturer captures HTML as images using a fresh browser per call.
type Capturer struct {
	newBrowser   func() ports.Browser
	opts         ports.BrowserOptions
	readyTimeout time.Duration
	logger       ports.Logger
}

// New creates a new HTML capturer. newBrowser is called once per capture.
func New(newBrowser func() ports.Browser, opts ports.BrowserOptions, readyTimeout time.Duration, logger ports.Logger) *Capturer {
	if readyTimeout <= 0 {
		readyTimeout = 10 * time.Second
	}
	return &Capturer{
		newBrowser:   newBrowser,
		opts:         opts,
		readyTimeout: readyTimeout,
		logger:       logger.WithComponent("capturehtml"),
	}
}

// Ensure Capturer implements ports.HTMLCapturer
var _ ports.HTMLCapturer = (*Capturer)(nil)

// CaptureHTML renders html at vp and captures the whole viewport as PNG.
// The browser is closed on every return path.
func (c *Capturer) CaptureHTML(ctx context.Context, html string, vp ports.Viewport) ([]byte, error) {
	browser := c.newBrowser()
	defer browser.Close()

	if err := browser.Launch(ctx, c.opts); err != nil {
		return nil, fmt.Errorf("%w: %v", pipeline.ErrBrowserLaunch, err)
	}
	if err := browser.SetViewport(vp); err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}
	if err := browser.SetContent(html); err != nil {
		return nil, fmt.Errorf("set content: %w", err)
	}

	ready, err := pipeline.Poll(ctx, 100*time.Millisecond, c.readyTimeout, func() (bool, error) {
		var ok bool
		if err := browser.Evaluate(readyExpression, &ok); err != nil {
			return false, err
		}
		return ok, nil
	})
	if err != nil {
		return nil, fmt.Errorf("wait for document ready: %w", err)
	}
	if !ready {
		c.logger.Warn("Document not ready after %v, capturing anyway", c.readyTimeout)
	}

	data, err := browser.CaptureRegion(ports.Rect{Width: vp.Width, Height: vp.Height})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pipeline.ErrCapture, err)
	}
	return data, nil
}
