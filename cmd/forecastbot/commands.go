package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/forecastbot/pkg/config"
	"github.com/user/forecastbot/pkg/forecastbot"
	"github.com/user/forecastbot/pkg/orchestrator"
	"github.com/user/forecastbot/pkg/pipeline"
	"github.com/user/forecastbot/pkg/summarizer"
)

func publishFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "dry-run", Usage: l10n.T("Capture without publishing")},
		&cli.StringFlag{Name: "summary", Usage: l10n.T("Write a Markdown run summary to this path")},
	}
}

// runCmd publishes to every enabled target.
func runCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: l10n.T("Capture and publish to all enabled targets"),
		Flags: publishFlags(),
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			names := cfg.EnabledTargets()
			if len(names) == 0 {
				newLogger(c).Warn("No targets enabled")
				return nil
			}
			return publish(c, cfg, names)
		},
	}
}

// postCmd publishes to one target, enabled or not.
func postCmd() *cli.Command {
	return &cli.Command{
		Name:      "post",
		Usage:     l10n.T("Capture and publish to a single target"),
		ArgsUsage: "<" + strings.Join(config.TargetNames(), "|") + ">",
		Flags:     publishFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("%w: expected one target, one of %s", pipeline.ErrConfig, strings.Join(config.TargetNames(), ", "))
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			return publish(c, cfg, []string{c.Args().First()})
		},
	}
}

func publish(c *cli.Context, cfg config.Config, names []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if s := c.String("summary"); s != "" {
		cfg.SummaryPath = s
	}

	log := newLogger(c)
	targets, err := forecastbot.BuildTargets(cfg, names, forecastbot.DefaultPublishers(log), time.Now())
	if err != nil {
		return err
	}
	rt, err := newDeps(cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(context.Background(), log)
	defer cancel()

	result, runErr := rt.orchestrator().Run(ctx, targets, orchestrator.Options{
		RunID:  rt.runID,
		DryRun: c.Bool("dry-run"),
	})

	summary := newSummary(result)
	fmt.Fprintln(c.App.Writer, summarizer.NewTableFormatter(summarizer.WithTranslator(l10n.T)).Format(summary))
	markdown := summarizer.NewMarkdownFormatter(summarizer.WithTranslator(l10n.T), summarizer.WithVersion(version))
	if rt.sink.Enabled() {
		if err := rt.sink.SaveText("summary.md", []byte(markdown.Format(summary))); err != nil {
			log.Warn("Failed to write summary: %v", err)
		}
	}
	if cfg.SummaryPath != "" {
		w := summarizer.NewWriter(markdown, rt.fs)
		if err := w.Write(cfg.SummaryPath, summary); err != nil {
			log.Warn("Failed to write summary: %v", err)
		} else {
			log.Info("Summary written to %s", cfg.SummaryPath)
		}
	}
	return runErr
}

// newSummary converts a run result into a summary.
func newSummary(result orchestrator.RunResult) *summarizer.Summary {
	b := summarizer.NewBuilder().WithRun(result.RunID, result.Duration, result.DryRun)
	for _, t := range result.Targets {
		b.AddTarget(summarizer.TargetSummary{
			Name:      t.Name,
			Platform:  string(t.Platform),
			Status:    string(t.Status),
			Secondary: t.Secondary,
			PostID:    t.PostID,
			Permalink: t.Permalink,
			Duration:  t.Duration,
			Error:     t.Message,
		})
	}
	return b.Build()
}

// captureCmd saves a target's share card locally without publishing.
func captureCmd() *cli.Command {
	return &cli.Command{
		Name:      "capture",
		Usage:     l10n.T("Capture a share card to a PNG file"),
		ArgsUsage: "<" + strings.Join(config.TargetNames(), "|") + ">",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: l10n.T("Output PNG file path")},
			&cli.StringFlag{Name: "preset", Aliases: []string{"p"}, Usage: l10n.T("Override the target preset (landscape, portrait, story)")},
			&cli.StringFlag{Name: "url", Usage: l10n.T("Override the share card URL")},
			&cli.StringFlag{Name: "story", Usage: l10n.T("Also render the story frame to this path")},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("%w: expected one target, one of %s", pipeline.ErrConfig, strings.Join(config.TargetNames(), ", "))
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			req, err := captureRequest(c, cfg, c.Args().First())
			if err != nil {
				return err
			}

			log := newLogger(c)
			rt, err := newDeps(cfg, log)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(context.Background(), log)
			defer cancel()

			log.Info("Capturing %s (%s)", req.Name, req.URL)
			captured, err := rt.capture.Execute(ctx, req)
			if err != nil {
				return err
			}
			if err := rt.fs.WriteFile(c.String("output"), captured.Image); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			log.Info("Output saved to %s", c.String("output"))

			if path := c.String("story"); path != "" {
				frame, err := rt.story.Execute(ctx, pipeline.StoryInput{
					Portrait:      captured.Image,
					PortraitScale: req.Viewport.DeviceScaleFactor,
				})
				if err != nil {
					return fmt.Errorf("story: %w", err)
				}
				if err := rt.fs.WriteFile(path, frame.Image); err != nil {
					return fmt.Errorf("write story: %w", err)
				}
				log.Info("Output saved to %s", path)
			}
			return nil
		},
	}
}

func captureRequest(c *cli.Context, cfg config.Config, name string) (pipeline.CaptureRequest, error) {
	if preset := c.String("preset"); preset != "" {
		t, ok := cfg.Target(name)
		if !ok {
			return pipeline.CaptureRequest{}, fmt.Errorf("%w: unknown target %q", pipeline.ErrConfig, name)
		}
		b, err := forecastbot.NewPresetConfigBuilder(forecastbot.Preset(preset))
		if err != nil {
			return pipeline.CaptureRequest{}, err
		}
		b.WithName(name).
			WithURL(t.URL).
			WithFallbackURL(t.FallbackURL).
			WithNavigationTimeout(cfg.NavigationTimeout)
		if t.FitEnabled() {
			b.WithDefaultFit()
		} else {
			b.WithoutFit()
		}
		if u := c.String("url"); u != "" {
			b.WithURL(u).WithFallbackURL("")
		}
		return b.Build(), nil
	}

	req, err := forecastbot.CaptureRequest(name, cfg)
	if err != nil {
		return req, err
	}
	if u := c.String("url"); u != "" {
		req.URL = u
		req.FallbackURL = ""
	}
	return req, nil
}

// verifyCmd checks credentials and share card endpoints without publishing.
func verifyCmd() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: l10n.T("Check credentials and share card endpoints"),
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			names := cfg.EnabledTargets()
			if len(names) == 0 {
				return fmt.Errorf("%w: no targets enabled", pipeline.ErrConfig)
			}

			log := newLogger(c)
			ctx, cancel := signalContext(context.Background(), log)
			defer cancel()

			v := forecastbot.NewVerifier(browserFactory(cfg.Engine), browserOptions(cfg), config.EnvCredentials{}, log)
			checks, err := v.Verify(ctx, cfg, names, forecastbot.DefaultPublishers(log))
			printChecks(c, checks)
			if err != nil {
				return err
			}
			return checksError(checks)
		},
	}
}

func printChecks(c *cli.Context, checks []forecastbot.Check) {
	w := c.App.Writer
	for _, check := range checks {
		mark := "✓"
		if !check.OK() {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %s\n", mark, check.Target)
		if len(check.Missing) > 0 {
			fmt.Fprintf(w, "    %s: %s\n", l10n.T("missing"), strings.Join(check.Missing, ", "))
		}
		if check.Err != nil {
			fmt.Fprintf(w, "    %s: %v\n", check.URL, check.Err)
		} else {
			fmt.Fprintf(w, "    %s: HTTP %d\n", check.URL, check.Status)
		}
	}
}

// checksError returns the first problem found, preferring missing
// credentials so the exit code reports configuration.
func checksError(checks []forecastbot.Check) error {
	for _, check := range checks {
		if len(check.Missing) > 0 {
			return fmt.Errorf("%w: %s: missing %s", pipeline.ErrConfig, check.Target, strings.Join(check.Missing, ", "))
		}
	}
	for _, check := range checks {
		if check.Err != nil {
			return fmt.Errorf("%s: %w", check.Target, check.Err)
		}
	}
	return nil
}

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: l10n.T("Show version information"),
		Action: func(c *cli.Context) error {
			fmt.Fprintln(c.App.Writer, l10n.F("forecastbot version %s", version))
			return nil
		},
	}
}
