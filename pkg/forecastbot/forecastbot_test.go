package forecastbot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/user/forecastbot/pkg/adapters/logger"
	"github.com/user/forecastbot/pkg/config"
	"github.com/user/forecastbot/pkg/mocks"
	"github.com/user/forecastbot/pkg/pipeline"
	"github.com/user/forecastbot/pkg/ports"
)

func TestConfigBuilder_Presets(t *testing.T) {
	tests := []struct {
		preset    Preset
		viewport  ports.Viewport
		maxHeight int
		fit       bool
	}{
		{PresetLandscape, ports.Viewport{Width: 1200, Height: 630, DeviceScaleFactor: 2}, 630, true},
		{PresetPortrait, ports.Viewport{Width: 800, Height: 1200, DeviceScaleFactor: 2}, 1200, false},
		{PresetStory, ports.Viewport{Width: 1080, Height: 1920, DeviceScaleFactor: 2}, 1920, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			b, err := NewPresetConfigBuilder(tt.preset)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			req := b.Build()
			if req.Viewport != tt.viewport {
				t.Errorf("expected viewport %+v, got %+v", tt.viewport, req.Viewport)
			}
			if req.MaxHeight != tt.maxHeight || req.DefaultHeight != tt.maxHeight {
				t.Errorf("expected max/default height %d, got %d/%d", tt.maxHeight, req.MaxHeight, req.DefaultHeight)
			}
			if (req.Fit != nil) != tt.fit {
				t.Errorf("expected fit=%v, got %v", tt.fit, req.Fit != nil)
			}
			if req.NavigationTimeout != 30*time.Second {
				t.Errorf("expected 30s navigation timeout, got %v", req.NavigationTimeout)
			}
		})
	}
}

func TestNewPresetConfigBuilder_Unknown(t *testing.T) {
	if _, err := NewPresetConfigBuilder("square"); !errors.Is(err, pipeline.ErrConfig) {
		t.Errorf("expected ErrConfig, got %v", err)
	}
}

func TestConfigBuilder_Chaining(t *testing.T) {
	req := NewPortraitConfigBuilder().
		WithName("telegram").
		WithURL("https://example.com/card").
		WithFallbackURL("https://example.com/fallback").
		WithScale(1).
		WithMaxHeight(1000).
		WithNavigationTimeout(10 * time.Second).
		WithSettleTimeout(0).
		WithDefaultFit().
		Build()

	if req.Name != "telegram" || req.URL != "https://example.com/card" || req.FallbackURL != "https://example.com/fallback" {
		t.Errorf("unexpected request %+v", req)
	}
	if req.Viewport.DeviceScaleFactor != 1 || req.MaxHeight != 1000 {
		t.Errorf("unexpected scale/max height %+v", req)
	}
	if req.NavigationTimeout != 10*time.Second || req.SettleTimeout != 5*time.Second {
		t.Errorf("expected non-positive durations to be ignored, got %v/%v", req.NavigationTimeout, req.SettleTimeout)
	}
	if req.Fit == nil || req.Fit.ContainerHeight != 1200 {
		t.Errorf("expected fit sized to the 1200px viewport, got %+v", req.Fit)
	}
}

func TestConfigBuilder_BuildCopiesFit(t *testing.T) {
	b := NewConfigBuilder()
	first := b.Build()
	first.Fit.SiblingSelectors[0] = ".changed"
	first.Fit.MinWords = 1

	second := b.Build()
	if second.Fit.SiblingSelectors[0] != ".title" || second.Fit.MinWords != 10 {
		t.Error("expected builds to be independent")
	}
}

func TestRenderCaption(t *testing.T) {
	now := time.Date(2026, 10, 18, 23, 30, 0, 0, time.UTC)
	east := time.FixedZone("UTC+8", 8*3600)

	got, err := RenderCaption("Daily – {{.Date}} → {{.Site}}", NewCaptionData(now, time.UTC, "bazigpt.io"))
	if err != nil {
		t.Fatalf("RenderCaption failed: %v", err)
	}
	if got != "Daily – October 18, 2026 → bazigpt.io" {
		t.Errorf("unexpected caption %q", got)
	}

	if got := NewCaptionData(now, east, "").Date; got != "October 19, 2026" {
		t.Errorf("expected date in the configured zone, got %q", got)
	}
}

func TestRenderCaption_Errors(t *testing.T) {
	for _, tmpl := range []string{"{{.Date", "{{.Weather}}"} {
		if _, err := RenderCaption(tmpl, CaptionData{}); !errors.Is(err, pipeline.ErrConfig) {
			t.Errorf("%q: expected ErrConfig, got %v", tmpl, err)
		}
	}
}

func testPublishers() Publishers {
	return Publishers{
		Twitter:       mocks.NewPublisher(ports.PlatformTwitter),
		Telegram:      mocks.NewPublisher(ports.PlatformTelegram),
		Facebook:      mocks.NewPublisher(ports.PlatformFacebook),
		FacebookStory: mocks.NewPublisher(ports.PlatformFacebookStory),
	}
}

func TestBuildTargets(t *testing.T) {
	cfg, err := config.Load("", nil)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Timezone = "UTC"
	cfg.Facebook.Enabled = true
	now := time.Date(2026, 10, 18, 7, 0, 0, 0, time.UTC)

	targets, err := BuildTargets(cfg, cfg.EnabledTargets(), testPublishers(), now)
	if err != nil {
		t.Fatalf("BuildTargets failed: %v", err)
	}
	if len(targets) != 3 {
		t.Fatalf("expected 3 targets, got %d", len(targets))
	}

	tw := targets[0]
	if tw.Name != "twitter" || tw.Capture.Name != "twitter" || tw.Capture.Viewport.Width != 1200 {
		t.Errorf("unexpected twitter target %+v", tw.Capture)
	}
	if tw.Capture.Fit == nil {
		t.Error("expected fitting on the landscape card")
	}
	if !strings.Contains(tw.Caption, "October 18, 2026") || !strings.Contains(tw.Caption, "bazigpt.xyz") {
		t.Errorf("unexpected caption %q", tw.Caption)
	}
	if tw.Story != nil {
		t.Error("twitter has no story")
	}

	fb := targets[2]
	if fb.Capture.Viewport.Width != 800 || fb.Capture.FallbackURL == "" {
		t.Errorf("expected portrait capture with fallback, got %+v", fb.Capture)
	}
	if fb.Story == nil || fb.Story.Platform() != ports.PlatformFacebookStory {
		t.Error("expected story publisher on facebook")
	}
	if !strings.Contains(fb.Caption, "#DailyForecast") {
		t.Errorf("unexpected facebook caption %q", fb.Caption)
	}
}

func TestCaptureRequest_FitOnlyOnTwitter(t *testing.T) {
	cfg := config.Defaults()
	cfg.Telegram.Preset = config.PresetLandscape
	cfg.Facebook.Enabled = true

	tests := []struct {
		name string
		fit  bool
	}{
		{"twitter", true},
		{"telegram", false},
		{"facebook", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := CaptureRequest(tt.name, cfg)
			if err != nil {
				t.Fatalf("CaptureRequest failed: %v", err)
			}
			if (req.Fit != nil) != tt.fit {
				t.Errorf("expected fit=%v, got %+v", tt.fit, req.Fit)
			}
		})
	}
}

func TestCaptureRequest_TelegramPortraitDefault(t *testing.T) {
	cfg, err := config.Load("", nil)
	if err != nil {
		t.Fatal(err)
	}
	req, err := CaptureRequest("telegram", cfg)
	if err != nil {
		t.Fatalf("CaptureRequest failed: %v", err)
	}
	if req.Viewport.Width != 800 || req.MaxHeight != 1200 {
		t.Errorf("expected portrait capture, got %+v", req.Viewport)
	}
	if req.FallbackURL == "" {
		t.Error("expected portrait fallback URL")
	}
	if req.Fit != nil {
		t.Errorf("expected no fitting on telegram, got %+v", req.Fit)
	}
}

func TestBuildTargets_StoryDisabled(t *testing.T) {
	cfg, _ := config.Load("", nil)
	cfg.Story.Enabled = false

	targets, err := BuildTargets(cfg, []string{"facebook"}, testPublishers(), time.Now())
	if err != nil {
		t.Fatalf("BuildTargets failed: %v", err)
	}
	if targets[0].Story != nil {
		t.Error("expected no story publisher")
	}
}

func TestBuildTargets_Errors(t *testing.T) {
	cfg, _ := config.Load("", nil)

	if _, err := BuildTargets(cfg, []string{"mastodon"}, testPublishers(), time.Now()); !errors.Is(err, pipeline.ErrConfig) {
		t.Errorf("expected ErrConfig for unknown target, got %v", err)
	}

	cfg.Twitter.Caption = "{{.Nope}}"
	if _, err := BuildTargets(cfg, []string{"twitter"}, testPublishers(), time.Now()); !errors.Is(err, pipeline.ErrConfig) {
		t.Errorf("expected ErrConfig for bad caption, got %v", err)
	}

	if _, err := BuildTargets(cfg, []string{"telegram"}, Publishers{}, time.Now()); !errors.Is(err, pipeline.ErrConfig) {
		t.Errorf("expected ErrConfig for missing publisher, got %v", err)
	}
}

func TestStoryOptions(t *testing.T) {
	opts := StoryOptions(config.StoryConfig{LogoPath: "logo.png", BrandName: "Example"})
	if opts.LogoPath != "logo.png" || opts.BrandName != "Example" {
		t.Errorf("expected overrides applied, got %+v", opts)
	}
	if opts.CTAMain == "" || opts.Width != 1080 {
		t.Errorf("expected defaults kept, got %+v", opts)
	}
}

func TestVerifier_Verify(t *testing.T) {
	cfg, _ := config.Load("", nil)
	browser := &mocks.Browser{
		NavigateFunc: func(url string, timeout time.Duration) (*ports.NavigationResponse, error) {
			if timeout != VerifyTimeout {
				t.Errorf("expected %v timeout, got %v", VerifyTimeout, timeout)
			}
			if strings.Contains(url, "bazigpt.io") {
				return &ports.NavigationResponse{URL: url, Status: 503, StatusText: "Service Unavailable"}, nil
			}
			return &ports.NavigationResponse{URL: url, Status: 200}, nil
		},
	}
	pubs := testPublishers()
	pubs.Twitter.(*mocks.Publisher).Required = []string{"TWITTER_API_KEY", "TWITTER_API_SECRET"}

	v := NewVerifier(func() ports.Browser { return browser }, ports.BrowserOptions{Headless: true},
		mocks.Credentials{"TWITTER_API_KEY": "k"}, logger.NewNoop())
	checks, err := v.Verify(context.Background(), cfg, []string{"twitter", "telegram"}, pubs)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if len(checks) != 2 {
		t.Fatalf("expected 2 checks, got %d", len(checks))
	}
	if got := checks[0].Missing; len(got) != 1 || got[0] != "TWITTER_API_SECRET" {
		t.Errorf("expected missing secret, got %v", got)
	}
	if checks[0].Status != 200 || checks[0].Err != nil {
		t.Errorf("expected twitter card to load, got %d %v", checks[0].Status, checks[0].Err)
	}
	if checks[1].OK() || !errors.Is(checks[1].Err, pipeline.ErrNavigation) || checks[1].Status != 503 {
		t.Errorf("expected telegram card failure, got %+v", checks[1])
	}
	if len(browser.LaunchCalls) != 1 || browser.CloseCalls != 1 {
		t.Errorf("expected a single browser session, got %d launches %d closes", len(browser.LaunchCalls), browser.CloseCalls)
	}
}

func TestVerifier_LaunchFailure(t *testing.T) {
	cfg, _ := config.Load("", nil)
	browser := &mocks.Browser{
		LaunchFunc: func(context.Context, ports.BrowserOptions) error { return errors.New("no chrome") },
	}
	v := NewVerifier(func() ports.Browser { return browser }, ports.BrowserOptions{}, mocks.Credentials{}, logger.NewNoop())

	checks, err := v.Verify(context.Background(), cfg, []string{"twitter"}, testPublishers())
	if !errors.Is(err, pipeline.ErrBrowserLaunch) {
		t.Errorf("expected ErrBrowserLaunch, got %v", err)
	}
	if len(checks) != 1 {
		t.Errorf("expected credential results even without a browser, got %d", len(checks))
	}
}
