package forecastbot

import (
	"fmt"
	"time"

	"github.com/user/forecastbot/pkg/adapters/facebook"
	"github.com/user/forecastbot/pkg/adapters/telegram"
	"github.com/user/forecastbot/pkg/adapters/twitter"
	"github.com/user/forecastbot/pkg/config"
	"github.com/user/forecastbot/pkg/orchestrator"
	"github.com/user/forecastbot/pkg/pipeline"
	"github.com/user/forecastbot/pkg/ports"
	"github.com/user/forecastbot/pkg/stages/story"
)

// Publishers holds the publisher used for each platform surface.
type Publishers struct {
	Twitter       ports.Publisher
	Telegram      ports.Publisher
	Facebook      ports.Publisher
	FacebookStory ports.Publisher
}

// DefaultPublishers returns the live API publishers.
func DefaultPublishers(logger ports.Logger) Publishers {
	return Publishers{
		Twitter:       twitter.New(logger),
		Telegram:      telegram.New(logger),
		Facebook:      facebook.NewFeed(logger),
		FacebookStory: facebook.NewStory(logger),
	}
}

func (p Publishers) forTarget(name string) (ports.Publisher, error) {
	var pub ports.Publisher
	switch name {
	case config.TargetTwitter:
		pub = p.Twitter
	case config.TargetTelegram:
		pub = p.Telegram
	case config.TargetFacebook:
		pub = p.Facebook
	default:
		return nil, fmt.Errorf("%w: unknown target %q", pipeline.ErrConfig, name)
	}
	if pub == nil {
		return nil, fmt.Errorf("%w: no publisher for %s", pipeline.ErrConfig, name)
	}
	return pub, nil
}

// CaptureRequest builds the capture request for a configured target.
func CaptureRequest(name string, cfg config.Config) (pipeline.CaptureRequest, error) {
	t, ok := cfg.Target(name)
	if !ok {
		return pipeline.CaptureRequest{}, fmt.Errorf("%w: unknown target %q", pipeline.ErrConfig, name)
	}
	b, err := NewPresetConfigBuilder(Preset(t.Preset))
	if err != nil {
		return pipeline.CaptureRequest{}, err
	}
	b.WithName(name).
		WithURL(t.URL).
		WithFallbackURL(t.FallbackURL).
		WithNavigationTimeout(cfg.NavigationTimeout).
		WithSettleTimeout(cfg.SettleTimeout)
	if t.FitEnabled() {
		b.WithDefaultFit()
	} else {
		b.WithoutFit()
	}
	return b.Build(), nil
}

// BuildTargets turns the named targets into orchestrator targets with
// rendered captions. Facebook gets the story publisher when the story is
// enabled.
func BuildTargets(cfg config.Config, names []string, pubs Publishers, now time.Time) ([]orchestrator.Target, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: timezone: %v", pipeline.ErrConfig, err)
	}

	targets := make([]orchestrator.Target, 0, len(names))
	for _, name := range names {
		t, ok := cfg.Target(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown target %q", pipeline.ErrConfig, name)
		}
		pub, err := pubs.forTarget(name)
		if err != nil {
			return nil, err
		}
		req, err := CaptureRequest(name, cfg)
		if err != nil {
			return nil, err
		}
		caption, err := RenderCaption(t.Caption, NewCaptionData(now, loc, t.Site))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		target := orchestrator.Target{
			Name:      name,
			Capture:   req,
			Caption:   caption,
			Publisher: pub,
		}
		if name == config.TargetFacebook && cfg.Story.Enabled {
			target.Story = pubs.FacebookStory
		}
		targets = append(targets, target)
	}
	return targets, nil
}

// StoryOptions applies the story configuration over the story defaults.
func StoryOptions(cfg config.StoryConfig) story.Options {
	opts := story.DefaultOptions()
	opts.LogoPath = cfg.LogoPath
	opts.FontPath = cfg.FontPath
	if cfg.BrandName != "" {
		opts.BrandName = cfg.BrandName
	}
	if cfg.CTAMain != "" {
		opts.CTAMain = cfg.CTAMain
	}
	if cfg.CTASub != "" {
		opts.CTASub = cfg.CTASub
	}
	if cfg.TapText != "" {
		opts.TapText = cfg.TapText
	}
	return opts
}
