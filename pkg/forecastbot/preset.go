// Package forecastbot provides a high-level API for capturing and publishing
// the daily forecast share card.
package forecastbot

import (
	"fmt"
	"time"

	"github.com/user/forecastbot/pkg/pipeline"
	"github.com/user/forecastbot/pkg/ports"
)

// Preset names a capture frame.
type Preset string

const (
	PresetLandscape Preset = "landscape" // 1200x630, Twitter and Telegram
	PresetPortrait  Preset = "portrait"  // 800x1200 capped, Telegram portrait and Facebook feed
	PresetStory     Preset = "story"     // 1080x1920 story frame
)

// Presets lists every preset name.
func Presets() []Preset {
	return []Preset{PresetLandscape, PresetPortrait, PresetStory}
}

const (
	defaultScale             = 2
	defaultNavigationTimeout = 30 * time.Second
	defaultSettleTimeout     = 5 * time.Second
)

// ConfigBuilder provides a fluent interface for building a capture request.
type ConfigBuilder struct {
	req pipeline.CaptureRequest
}

// NewConfigBuilder creates a ConfigBuilder with landscape preset defaults.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{req: landscapeDefaults()}
}

// NewPortraitConfigBuilder creates a ConfigBuilder with portrait preset defaults.
func NewPortraitConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{req: portraitDefaults()}
}

// NewStoryConfigBuilder creates a ConfigBuilder for a full story frame.
func NewStoryConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{req: storyDefaults()}
}

// NewPresetConfigBuilder creates a ConfigBuilder for a named preset.
func NewPresetConfigBuilder(preset Preset) (*ConfigBuilder, error) {
	switch preset {
	case PresetLandscape:
		return NewConfigBuilder(), nil
	case PresetPortrait:
		return NewPortraitConfigBuilder(), nil
	case PresetStory:
		return NewStoryConfigBuilder(), nil
	default:
		return nil, fmt.Errorf("%w: unknown preset %q", pipeline.ErrConfig, preset)
	}
}

// landscapeDefaults is the 1200x630 card. The caption block is fitted into
// the frame and the capture is always the full viewport height.
func landscapeDefaults() pipeline.CaptureRequest {
	fit := pipeline.DefaultFitOptions()
	return pipeline.CaptureRequest{
		Viewport:          ports.Viewport{Width: 1200, Height: 630, DeviceScaleFactor: defaultScale},
		MaxHeight:         630,
		DefaultHeight:     630,
		NavigationTimeout: defaultNavigationTimeout,
		SettleTimeout:     defaultSettleTimeout,
		Fit:               &fit,
	}
}

// portraitDefaults is the 800x1200 card cropped to its content height.
func portraitDefaults() pipeline.CaptureRequest {
	return pipeline.CaptureRequest{
		Viewport:          ports.Viewport{Width: 800, Height: 1200, DeviceScaleFactor: defaultScale},
		MaxHeight:         1200,
		DefaultHeight:     1200,
		NavigationTimeout: defaultNavigationTimeout,
		SettleTimeout:     defaultSettleTimeout,
	}
}

func storyDefaults() pipeline.CaptureRequest {
	return pipeline.CaptureRequest{
		Viewport:          ports.Viewport{Width: 1080, Height: 1920, DeviceScaleFactor: defaultScale},
		MaxHeight:         1920,
		DefaultHeight:     1920,
		NavigationTimeout: defaultNavigationTimeout,
		SettleTimeout:     defaultSettleTimeout,
	}
}

// Build returns the constructed request.
func (b *ConfigBuilder) Build() pipeline.CaptureRequest {
	req := b.req
	if req.Fit != nil {
		fit := *req.Fit
		fit.SiblingSelectors = append([]string(nil), fit.SiblingSelectors...)
		req.Fit = &fit
	}
	return req
}

// WithName sets the artifact name prefix.
func (b *ConfigBuilder) WithName(name string) *ConfigBuilder {
	b.req.Name = name
	return b
}

// WithURL sets the share card URL.
func (b *ConfigBuilder) WithURL(url string) *ConfigBuilder {
	b.req.URL = url
	return b
}

// WithFallbackURL sets the URL tried once when the primary fails.
// Empty disables the retry.
func (b *ConfigBuilder) WithFallbackURL(url string) *ConfigBuilder {
	b.req.FallbackURL = url
	return b
}

// WithScale sets the device scale factor.
func (b *ConfigBuilder) WithScale(scale float64) *ConfigBuilder {
	b.req.Viewport.DeviceScaleFactor = scale
	return b
}

// WithMaxHeight sets the crop height cap in CSS pixels.
func (b *ConfigBuilder) WithMaxHeight(h int) *ConfigBuilder {
	b.req.MaxHeight = h
	return b
}

// WithNavigationTimeout bounds navigation plus the network-idle wait.
func (b *ConfigBuilder) WithNavigationTimeout(d time.Duration) *ConfigBuilder {
	if d > 0 {
		b.req.NavigationTimeout = d
	}
	return b
}

// WithSettleTimeout bounds font readiness polling.
func (b *ConfigBuilder) WithSettleTimeout(d time.Duration) *ConfigBuilder {
	if d > 0 {
		b.req.SettleTimeout = d
	}
	return b
}

// WithFit enables caption fitting with opts.
func (b *ConfigBuilder) WithFit(opts pipeline.FitOptions) *ConfigBuilder {
	b.req.Fit = &opts
	return b
}

// WithDefaultFit enables caption fitting with the default options, sized to
// the current viewport height.
func (b *ConfigBuilder) WithDefaultFit() *ConfigBuilder {
	opts := pipeline.DefaultFitOptions()
	opts.ContainerHeight = b.req.Viewport.Height
	b.req.Fit = &opts
	return b
}

// WithoutFit disables caption fitting.
func (b *ConfigBuilder) WithoutFit() *ConfigBuilder {
	b.req.Fit = nil
	return b
}
