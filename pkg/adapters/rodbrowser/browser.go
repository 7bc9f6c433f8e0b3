// Package rodbrowser provides a browser implementation using go-rod.
package rodbrowser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/user/forecastbot/pkg/adapters/chromebrowser"
	"github.com/user/forecastbot/pkg/ports"
)

// Browser implements ports.Browser on top of rod. It resolves and installs
// Chrome the same way the chromedp engine does.
type Browser struct {
	ctx      context.Context
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page

	closeOnce sync.Once
}

// New creates a new Browser.
func New() *Browser {
	return &Browser{}
}

// Launch starts Chrome through rod's launcher and opens a blank page.
func (b *Browser) Launch(ctx context.Context, opts ports.BrowserOptions) error {
	chromePath := chromebrowser.ResolveChromePath(opts.ChromePath)
	if chromePath == "" && opts.AutoInstall {
		installed, err := chromebrowser.InstallChromium()
		if err != nil {
			return fmt.Errorf("install chromium: %w", err)
		}
		chromePath = installed
	}

	l := launcher.New().
		Context(ctx).
		Headless(opts.Headless).
		NoSandbox(true).
		Set("disable-setuid-sandbox").
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-first-run").
		Set("no-zygote").
		Set("disable-extensions").
		Set("hide-scrollbars")
	// An empty path lets rod download its own Chromium.
	if chromePath != "" {
		l = l.Bin(chromePath)
	}
	if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
		l = l.Set("window-size", fmt.Sprintf("%d,%d", opts.WindowWidth, opts.WindowHeight))
	}

	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launch chrome: %w", err)
	}
	b.launcher = l
	b.ctx = ctx

	b.browser = rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.browser.Connect(); err != nil {
		b.Close()
		return fmt.Errorf("connect to chrome: %w", err)
	}

	b.page, err = b.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		b.Close()
		return fmt.Errorf("create page: %w", err)
	}

	if opts.UserAgent != "" {
		if err := (proto.NetworkSetUserAgentOverride{UserAgent: opts.UserAgent}).Call(b.page); err != nil {
			b.Close()
			return fmt.Errorf("set user agent: %w", err)
		}
	}

	return nil
}

// SetViewport sets the viewport size and device scale factor.
func (b *Browser) SetViewport(vp ports.Viewport) error {
	scale := vp.DeviceScaleFactor
	if scale <= 0 {
		scale = 1
	}
	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             vp.Width,
		Height:            vp.Height,
		DeviceScaleFactor: scale,
		Mobile:            false,
	}).Call(b.page); err != nil {
		return fmt.Errorf("set device metrics: %w", err)
	}
	return nil
}

// AddScriptOnNewDocument registers script for every subsequent document.
func (b *Browser) AddScriptOnNewDocument(script string) error {
	_, err := b.page.EvalOnNewDocument(script)
	return err
}

// Navigate loads url and waits for network idle. The document response
// status is captured from Network.responseReceived.
func (b *Browser) Navigate(url string, timeout time.Duration) (*ports.NavigationResponse, error) {
	ctx, cancel := context.WithTimeout(b.ctx, timeout)
	defer cancel()

	p := b.page.Context(ctx)
	mainFrame := p.FrameID

	responses := make(chan *proto.NetworkResponse, 1)
	waitResponse := p.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument || (mainFrame != "" && e.FrameID != mainFrame) {
			return false
		}
		select {
		case responses <- e.Response:
		default:
		}
		return true
	})
	go waitResponse()

	waitIdle := p.WaitNavigation(proto.PageLifecycleEventNameNetworkIdle)
	if err := p.Navigate(url); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}
	waitIdle()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("wait for network idle on %s: %w", url, err)
	}

	result := &ports.NavigationResponse{URL: url}
	select {
	case resp := <-responses:
		if resp != nil {
			result.URL = resp.URL
			result.Status = resp.Status
			result.StatusText = resp.StatusText
		}
	default:
	}
	return result, nil
}

// Evaluate runs a JavaScript expression and decodes its result into out.
func (b *Browser) Evaluate(expression string, out interface{}) error {
	res, err := b.page.Eval(`() => (` + expression + `)`)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	if out == nil {
		return nil
	}
	return res.Value.Unmarshal(out)
}

// SetContent replaces the current document with html.
func (b *Browser) SetContent(html string) error {
	if err := b.page.Navigate("about:blank"); err != nil {
		return fmt.Errorf("navigate about:blank: %w", err)
	}
	return b.page.SetDocumentContent(html)
}

// CaptureRegion captures clip as PNG.
func (b *Browser) CaptureRegion(clip ports.Rect) ([]byte, error) {
	res, err := proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
		Clip: &proto.PageViewport{
			X:      float64(clip.X),
			Y:      float64(clip.Y),
			Width:  float64(clip.Width),
			Height: float64(clip.Height),
			Scale:  1,
		},
		FromSurface:           true,
		CaptureBeyondViewport: true,
	}.Call(b.page)
	if err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return res.Data, nil
}

// Close shuts down the browser and its process.
func (b *Browser) Close() error {
	var err error
	b.closeOnce.Do(func() {
		if b.browser != nil {
			err = b.browser.Close()
		}
		if b.launcher != nil {
			b.launcher.Kill()
			b.launcher.Cleanup()
		}
	})
	return err
}

// Ensure Browser implements ports.Browser
var _ ports.Browser = (*Browser)(nil)
