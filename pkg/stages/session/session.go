// Package session manages the lifetime of the headless browser used by one
// target run.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/user/forecastbot/pkg/pipeline"
	"github.com/user/forecastbot/pkg/ports"
)

// DefaultUserAgent is a desktop Chrome 120 user agent. Some share-card hosts
// serve a reduced layout to headless user agents.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultOptions returns headless launch options with the default user agent.
func DefaultOptions() ports.BrowserOptions {
	return ports.BrowserOptions{
		Headless:  true,
		UserAgent: DefaultUserAgent,
	}
}

// Session is a launched browser owned by a single run.
type Session struct {
	Browser ports.Browser

	logger    ports.Logger
	closeOnce sync.Once
	closeErr  error
}

// Acquire launches browser with opts. Launch failures are wrapped with
// pipeline.ErrBrowserLaunch and are not retried.
func Acquire(ctx context.Context, browser ports.Browser, opts ports.BrowserOptions, logger ports.Logger) (*Session, error) {
	log := logger.WithComponent("browser")
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	if opts.Headless {
		log.Debug("Launching browser in headless mode")
	} else {
		log.Debug("Launching browser in visible mode")
	}
	if err := browser.Launch(ctx, opts); err != nil {
		// Launch may have started a process before failing.
		browser.Close()
		return nil, fmt.Errorf("%w: %v", pipeline.ErrBrowserLaunch, err)
	}

	return &Session{Browser: browser, logger: log}, nil
}

// Close shuts the browser down. Only the first call has an effect.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.Browser.Close()
		s.logger.Debug("Browser closed")
	})
	return s.closeErr
}

// With acquires a session, runs fn and closes the session on every exit
// path, including a panic in fn.
func With[T any](ctx context.Context, browser ports.Browser, opts ports.BrowserOptions, logger ports.Logger, fn func(*Session) (T, error)) (T, error) {
	var zero T
	s, err := Acquire(ctx, browser, opts, logger)
	if err != nil {
		return zero, err
	}
	defer s.Close()

	return fn(s)
}
