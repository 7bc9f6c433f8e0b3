// Package chromebrowser provides a browser implementation using chromedp.
package chromebrowser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/user/forecastbot/pkg/ports"
)

// Browser implements ports.Browser using chromedp.
type Browser struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc

	closeOnce sync.Once
}

// New creates a new Browser.
func New() *Browser {
	return &Browser{}
}

// Launch starts Chrome and opens a blank page.
func (b *Browser) Launch(ctx context.Context, opts ports.BrowserOptions) error {
	chromePath := ResolveChromePath(opts.ChromePath)
	if chromePath == "" && opts.AutoInstall {
		installed, err := InstallChromium()
		if err != nil {
			return fmt.Errorf("install chromium: %w", err)
		}
		chromePath = installed
	}
	if chromePath == "" {
		return fmt.Errorf("chrome not found: please install Chrome/Chromium, set CHROME_PATH environment variable, or use --chrome-path option")
	}

	chromedpOpts := []chromedp.ExecAllocatorOption{
		chromedp.ExecPath(chromePath),
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
	}
	for name, value := range LaunchFlags() {
		chromedpOpts = append(chromedpOpts, chromedp.Flag(name, value))
	}

	if opts.Headless {
		chromedpOpts = append(chromedpOpts, chromedp.Flag("headless", "new"))
	}
	if opts.UserAgent != "" {
		chromedpOpts = append(chromedpOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
		chromedpOpts = append(chromedpOpts, chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight))
	}

	b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(ctx, chromedpOpts...)
	b.ctx, b.cancel = chromedp.NewContext(b.allocCtx)

	// The first Run starts the browser process.
	if err := chromedp.Run(b.ctx, page.Enable()); err != nil {
		b.Close()
		return fmt.Errorf("start chrome: %w", err)
	}

	return nil
}

// LaunchFlags returns the sandbox and resource flags needed to run Chrome in
// containers and CI runners.
func LaunchFlags() map[string]interface{} {
	return map[string]interface{}{
		"no-sandbox":             true,
		"disable-setuid-sandbox": true,
		"disable-dev-shm-usage":  true,
		"disable-gpu":            true,
		"no-zygote":              true,
	}
}

// SetViewport sets the viewport size and device scale factor.
func (b *Browser) SetViewport(vp ports.Viewport) error {
	scale := vp.DeviceScaleFactor
	if scale <= 0 {
		scale = 1
	}
	if err := chromedp.Run(b.ctx,
		emulation.SetDeviceMetricsOverride(int64(vp.Width), int64(vp.Height), scale, false),
	); err != nil {
		return fmt.Errorf("set device metrics: %w", err)
	}
	return nil
}

// AddScriptOnNewDocument registers script for every subsequent document.
func (b *Browser) AddScriptOnNewDocument(script string) error {
	return chromedp.Run(b.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(script).Do(ctx)
		return err
	}))
}

// Navigate loads url, then waits for the main frame's networkIdle lifecycle
// event. Both steps share the timeout.
func (b *Browser) Navigate(url string, timeout time.Duration) (*ports.NavigationResponse, error) {
	ctx, cancel := context.WithTimeout(b.ctx, timeout)
	defer cancel()

	if err := chromedp.Run(ctx, page.SetLifecycleEventsEnabled(true)); err != nil {
		return nil, fmt.Errorf("enable lifecycle events: %w", err)
	}

	mainFrame := cdp.FrameID(chromedp.FromContext(ctx).Target.TargetID)
	idle := make(chan struct{}, 1)
	var (
		mu      sync.Mutex
		started bool
	)

	listenCtx, stopListening := context.WithCancel(ctx)
	defer stopListening()
	chromedp.ListenTarget(listenCtx, func(ev interface{}) {
		e, ok := ev.(*page.EventLifecycleEvent)
		if !ok || e.FrameID != mainFrame {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		switch e.Name {
		case "init":
			started = true
		case "networkIdle":
			if started {
				select {
				case idle <- struct{}{}:
				default:
				}
			}
		}
	})

	resp, err := chromedp.RunResponse(ctx, chromedp.Navigate(url))
	if err != nil {
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}

	select {
	case <-idle:
	case <-ctx.Done():
		return nil, fmt.Errorf("wait for network idle on %s: %w", url, ctx.Err())
	}

	result := &ports.NavigationResponse{URL: url}
	if resp != nil {
		result.URL = resp.URL
		result.Status = int(resp.Status)
		result.StatusText = resp.StatusText
	}
	return result, nil
}

// Evaluate runs a JavaScript expression and decodes its result into out.
func (b *Browser) Evaluate(expression string, out interface{}) error {
	return chromedp.Run(b.ctx, chromedp.Evaluate(expression, out))
}

// SetContent replaces the current document with html.
func (b *Browser) SetContent(html string) error {
	return chromedp.Run(b.ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return fmt.Errorf("get frame tree: %w", err)
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
	)
}

// CaptureRegion captures clip as PNG. The device scale factor set through
// SetViewport determines the output pixel density.
func (b *Browser) CaptureRegion(clip ports.Rect) ([]byte, error) {
	var buf []byte
	err := chromedp.Run(b.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			WithClip(&page.Viewport{
				X:      float64(clip.X),
				Y:      float64(clip.Y),
				Width:  float64(clip.Width),
				Height: float64(clip.Height),
				Scale:  1,
			}).
			WithCaptureBeyondViewport(true).
			WithFromSurface(true).
			Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return buf, nil
}

// Close shuts down the browser.
func (b *Browser) Close() error {
	b.closeOnce.Do(func() {
		if b.cancel != nil {
			b.cancel()
		}

		// Give Chrome a moment to shut down gracefully, then force kill
		time.Sleep(100 * time.Millisecond)

		if b.allocCancel != nil {
			b.allocCancel()
		}
	})
	return nil
}

// Ensure Browser implements ports.Browser
var _ ports.Browser = (*Browser)(nil)
