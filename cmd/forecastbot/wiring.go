package main

import (
	"fmt"
	"path/filepath"

	"github.com/user/forecastbot/pkg/adapters/capturehtml"
	"github.com/user/forecastbot/pkg/adapters/chromebrowser"
	"github.com/user/forecastbot/pkg/adapters/filesink"
	"github.com/user/forecastbot/pkg/adapters/ggrenderer"
	"github.com/user/forecastbot/pkg/adapters/nullsink"
	"github.com/user/forecastbot/pkg/adapters/osfilesystem"
	"github.com/user/forecastbot/pkg/adapters/rodbrowser"
	"github.com/user/forecastbot/pkg/config"
	"github.com/user/forecastbot/pkg/forecastbot"
	"github.com/user/forecastbot/pkg/orchestrator"
	"github.com/user/forecastbot/pkg/ports"
	"github.com/user/forecastbot/pkg/stages/capture"
	"github.com/user/forecastbot/pkg/stages/fonts"
	"github.com/user/forecastbot/pkg/stages/session"
	"github.com/user/forecastbot/pkg/stages/story"
	"github.com/user/forecastbot/pkg/stages/textfit"
)

// deps holds the adapters and stages shared by the commands.
type deps struct {
	cfg         config.Config
	log         ports.Logger
	runID       string
	fs          ports.FileSystem
	sink        ports.DebugSink
	newBrowser  func() ports.Browser
	browserOpts ports.BrowserOptions

	capture *capture.Stage
	story   *story.Stage
}

func newDeps(cfg config.Config, log ports.Logger) (*deps, error) {
	rt := &deps{
		cfg:         cfg,
		log:         log,
		runID:       orchestrator.NewRunID(),
		fs:          osfilesystem.New(),
		newBrowser:  browserFactory(cfg.Engine),
		browserOpts: browserOptions(cfg),
	}

	if cfg.Debug {
		dir := filepath.Join(cfg.DebugDir, rt.runID)
		if err := rt.fs.MkdirAll(dir); err != nil {
			return nil, fmt.Errorf("create debug directory: %w", err)
		}
		rt.sink = filesink.New(dir, rt.fs)
		log.Info("Debug artifacts in %s", dir)
	} else {
		rt.sink = nullsink.New()
	}

	prober := fonts.New(fontOptions(cfg), log)
	rt.capture = capture.New(rt.newBrowser, rt.browserOpts, prober, textfit.NewAdjuster(log), rt.sink, log)

	htmlCapturer := capturehtml.New(rt.newBrowser, rt.browserOpts, 0, log)
	rt.story = story.NewStage(htmlCapturer, ggrenderer.New(), rt.fs, rt.sink, log, forecastbot.StoryOptions(cfg.Story))
	return rt, nil
}

func (rt *deps) orchestrator() *orchestrator.Orchestrator {
	return orchestrator.New(rt.capture, rt.story, config.EnvCredentials{}, rt.sink, rt.log)
}

// browserFactory returns a constructor for the configured engine.
func browserFactory(engine string) func() ports.Browser {
	if engine == config.EngineRod {
		return func() ports.Browser { return rodbrowser.New() }
	}
	return func() ports.Browser { return chromebrowser.New() }
}

func browserOptions(cfg config.Config) ports.BrowserOptions {
	opts := session.DefaultOptions()
	opts.Headless = cfg.Headless
	opts.ChromePath = cfg.ChromePath
	opts.AutoInstall = cfg.AutoInstall
	if cfg.UserAgent != "" {
		opts.UserAgent = cfg.UserAgent
	}
	return opts
}

// fontOptions applies the fonts configuration over the defaults.
func fontOptions(cfg config.Config) fonts.Options {
	opts := fonts.DefaultOptions()
	if cfg.Fonts.StylesheetURL != "" {
		opts.StylesheetURL = cfg.Fonts.StylesheetURL
	}
	if cfg.Fonts.FontStack != "" {
		opts.FontStack = cfg.Fonts.FontStack
	}
	if cfg.Fonts.SampleText != "" {
		opts.SampleText = cfg.Fonts.SampleText
	}
	if cfg.SettleTimeout > 0 {
		opts.SettleTimeout = cfg.SettleTimeout
	}
	return opts
}
