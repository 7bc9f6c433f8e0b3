// Package main provides the CLI entry point for forecastbot.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/user/forecastbot/pkg/adapters/logger"
	"github.com/user/forecastbot/pkg/config"
	"github.com/user/forecastbot/pkg/pipeline"
	"github.com/user/forecastbot/pkg/ports"
)

var version = "dev"

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", l10n.T("error"), err)
		os.Exit(exitCode(err))
	}
}

// newApp creates the CLI application with all commands.
func newApp() *cli.App {
	app := &cli.App{
		Name:    "forecastbot",
		Usage:   l10n.T("Capture the daily forecast card and post it to social platforms"),
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, EnvVars: []string{"FORECASTBOT_CONFIG"}, Usage: l10n.T("YAML configuration file")},
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: l10n.T("Environment file loaded before the configuration")},
			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Value: "info", Usage: l10n.T("Log level (debug, info, warn, error)")},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Usage: l10n.T("Suppress all log output")},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: l10n.T("Write debug artifacts")},
			&cli.StringFlag{Name: "debug-dir", Usage: l10n.T("Directory for debug artifacts")},
			&cli.StringFlag{Name: "chrome-path", Usage: l10n.T("Path to Chrome executable (falls back to CHROME_PATH env, then system default)")},
			&cli.StringFlag{Name: "engine", Usage: l10n.T("Browser engine (chromedp or rod)")},
			&cli.BoolFlag{Name: "no-headless", Usage: l10n.T("Run browser in non-headless mode")},
		},
		Before: loadEnvFile,
		Commands: []*cli.Command{
			runCmd(),
			postCmd(),
			captureCmd(),
			verifyCmd(),
			versionCmd(),
		},
	}
	// Errors are returned to main, which maps them to exit codes.
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// loadEnvFile loads the .env file. A missing file is not an error.
func loadEnvFile(c *cli.Context) error {
	path := c.String("env-file")
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: load %s: %v", pipeline.ErrConfig, path, err)
	}
	return nil
}

// loadConfig loads the configuration file and environment, then applies
// global flag overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"), os.LookupEnv)
	if err != nil {
		return cfg, err
	}
	if c.IsSet("engine") {
		cfg.Engine = c.String("engine")
	}
	if c.IsSet("chrome-path") {
		cfg.ChromePath = c.String("chrome-path")
	}
	if c.Bool("no-headless") {
		cfg.Headless = false
	}
	if c.Bool("debug") {
		cfg.Debug = true
	}
	if c.IsSet("debug-dir") {
		cfg.DebugDir = c.String("debug-dir")
	}
	return cfg, nil
}

func newLogger(c *cli.Context) ports.Logger {
	if c.Bool("quiet") {
		return logger.NewNoop()
	}
	return logger.NewConsole(ports.ParseLogLevel(c.String("log-level")))
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext(parent context.Context, log ports.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}
