// Package capture implements the adaptive share-card capture stage.
package capture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/user/forecastbot/pkg/pipeline"
	"github.com/user/forecastbot/pkg/ports"
	"github.com/user/forecastbot/pkg/stages/fonts"
	"github.com/user/forecastbot/pkg/stages/layout"
	"github.com/user/forecastbot/pkg/stages/session"
)

const (
	contentExpression = `document.body ? document.body.innerHTML.length : 0`

	heightExpression = `(() => {
	const body = document.body;
	const html = document.documentElement;
	return Math.max(
		body ? body.scrollHeight || 0 : 0,
		body ? body.offsetHeight || 0 : 0,
		html ? html.clientHeight || 0 : 0,
		html ? html.scrollHeight || 0 : 0,
		html ? html.offsetHeight || 0 : 0
	);
})()`
)

// Fitter adjusts the caption block of the loaded page.
type Fitter interface {
	Fit(ctx context.Context, browser ports.Browser, opts pipeline.FitOptions) (*pipeline.FitReport, error)
}

// Stage captures a share card: navigate, settle fonts, optionally fit the
// caption, measure, crop and screenshot.
type Stage struct {
	newBrowser  func() ports.Browser
	browserOpts ports.BrowserOptions
	fonts       *fonts.Prober
	fitter      Fitter
	sink        ports.DebugSink
	logger      ports.Logger
	rootLogger  ports.Logger
}

// New creates a new capture stage. newBrowser is called once per Execute;
// fitter may be nil when no request enables fitting.
func New(newBrowser func() ports.Browser, opts ports.BrowserOptions, prober *fonts.Prober, fitter Fitter, sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		newBrowser:  newBrowser,
		browserOpts: opts,
		fonts:       prober,
		fitter:      fitter,
		sink:        sink,
		logger:      logger.WithComponent("capture"),
		rootLogger:  logger,
	}
}

// Execute runs one capture in its own browser session. The session is
// released before Execute returns.
func (s *Stage) Execute(ctx context.Context, req pipeline.CaptureRequest) (pipeline.CaptureResult, error) {
	opts := s.browserOpts
	opts.WindowWidth = req.Viewport.Width
	opts.WindowHeight = req.Viewport.Height

	return session.With(ctx, s.newBrowser(), opts, s.rootLogger, func(sess *session.Session) (pipeline.CaptureResult, error) {
		return s.capture(ctx, sess.Browser, req)
	})
}

func (s *Stage) capture(ctx context.Context, browser ports.Browser, req pipeline.CaptureRequest) (pipeline.CaptureResult, error) {
	var result pipeline.CaptureResult

	// The font script must be registered before the first navigation.
	s.fonts.Prepare(browser)

	s.logger.Debug("Setting viewport %dx%d @%.1fx", req.Viewport.Width, req.Viewport.Height, req.Viewport.DeviceScaleFactor)
	if err := browser.SetViewport(req.Viewport); err != nil {
		return result, fmt.Errorf("set viewport: %w", err)
	}

	resp, usedFallback, err := s.navigate(ctx, browser, req)
	if err != nil {
		return result, err
	}
	result.UsedFallback = usedFallback
	result.FinalURL = resp.URL

	s.fonts.Settle(ctx, browser)

	var contentLength int
	if err := browser.Evaluate(contentExpression, &contentLength); err != nil {
		return result, fmt.Errorf("check content: %w", err)
	}
	if contentLength <= 0 {
		return result, fmt.Errorf("%w: %s", pipeline.ErrEmptyContent, result.FinalURL)
	}

	if req.Fit != nil && s.fitter != nil {
		report, err := s.fitter.Fit(ctx, browser, *req.Fit)
		if err != nil {
			s.logger.Warn("Text fitting failed, capturing unfitted: %v", err)
		}
		result.Fit = report
		s.saveFitReport(req.Name, report)
	}

	var measured int
	if err := browser.Evaluate(heightExpression, &measured); err != nil {
		s.logger.Warn("Height measurement failed, using default: %v", err)
		measured = 0
	}
	result.ContentHeight = measured

	clip := layout.ComputeClip(pipeline.ClipInput{
		ViewportWidth:  req.Viewport.Width,
		MeasuredHeight: measured,
		MaxHeight:      req.MaxHeight,
		DefaultHeight:  req.DefaultHeight,
	})
	result.Clip = clip.Rect
	result.Capped = clip.Capped
	result.UsedDefault = clip.UsedDefault
	s.logger.Debug("Content height %dpx, clip %dx%d (capped=%t, default=%t)",
		measured, clip.Rect.Width, clip.Rect.Height, clip.Capped, clip.UsedDefault)

	data, err := browser.CaptureRegion(clip.Rect)
	if err != nil {
		return result, fmt.Errorf("%w: %v", pipeline.ErrCapture, err)
	}
	result.Image = data

	if s.sink.Enabled() {
		if err := s.sink.SaveImage(artifactName(req.Name, "capture"), data); err != nil {
			s.logger.Warn("Failed to save debug capture: %v", err)
		}
	}

	return result, nil
}

// navigate loads req.URL, retrying FallbackURL exactly once when the primary
// fails or answers with a non-2xx status.
func (s *Stage) navigate(ctx context.Context, browser ports.Browser, req pipeline.CaptureRequest) (*ports.NavigationResponse, bool, error) {
	s.logger.Debug("Navigating to %s", req.URL)
	resp, err := browser.Navigate(req.URL, req.NavigationTimeout)
	if err == nil && resp.OK() {
		return resp, false, nil
	}
	primaryErr := navigationError(req.URL, resp, err)

	if req.FallbackURL == "" || ctx.Err() != nil {
		return nil, false, primaryErr
	}

	s.logger.Warn("Primary URL failed (%v), trying fallback %s", primaryErr, req.FallbackURL)
	resp, err = browser.Navigate(req.FallbackURL, req.NavigationTimeout)
	if err == nil && resp.OK() {
		return resp, true, nil
	}
	return nil, true, navigationError(req.FallbackURL, resp, err)
}

func navigationError(url string, resp *ports.NavigationResponse, err error) error {
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s: %v", pipeline.ErrNavigationTimeout, url, err)
		}
		return fmt.Errorf("%w: %s: %v", pipeline.ErrNavigation, url, err)
	}
	if resp == nil {
		return fmt.Errorf("%w: %s: no response", pipeline.ErrNavigation, url)
	}
	return fmt.Errorf("%w: %s: HTTP %d %s", pipeline.ErrNavigation, url, resp.Status, resp.StatusText)
}

func (s *Stage) saveFitReport(name string, report *pipeline.FitReport) {
	if report == nil || !s.sink.Enabled() {
		return
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return
	}
	if err := s.sink.SaveJSON(artifactName(name, "fit"), data); err != nil {
		s.logger.Warn("Failed to save fit report: %v", err)
	}
}

func artifactName(name, kind string) string {
	if name == "" {
		return kind
	}
	return name + "-" + kind
}

// Ensure Stage implements pipeline.Stage
var _ pipeline.Stage[pipeline.CaptureRequest, pipeline.CaptureResult] = (*Stage)(nil)
