package forecastbot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/user/forecastbot/pkg/config"
	"github.com/user/forecastbot/pkg/pipeline"
	"github.com/user/forecastbot/pkg/ports"
	"github.com/user/forecastbot/pkg/stages/session"
)

// VerifyTimeout bounds each endpoint check.
const VerifyTimeout = 10 * time.Second

// Check is the verification outcome for one target.
type Check struct {
	Target  string
	Missing []string // credential keys not set

	URL    string
	Status int   // HTTP status of the share card, 0 when not loaded
	Err    error // endpoint error, nil when the card loaded
}

// OK reports whether credentials are present and the endpoint loaded.
func (c Check) OK() bool {
	return len(c.Missing) == 0 && c.Err == nil
}

// Verifier checks credentials and share card endpoints without publishing.
type Verifier struct {
	newBrowser  func() ports.Browser
	browserOpts ports.BrowserOptions
	credentials ports.CredentialSource
	logger      ports.Logger
}

// NewVerifier creates a Verifier.
func NewVerifier(newBrowser func() ports.Browser, opts ports.BrowserOptions, credentials ports.CredentialSource, logger ports.Logger) *Verifier {
	return &Verifier{
		newBrowser:  newBrowser,
		browserOpts: opts,
		credentials: credentials,
		logger:      logger,
	}
}

// Verify reports missing credentials for each target and loads each target's
// URL once in a single browser session. It returns an error only when the
// browser cannot be launched.
func (v *Verifier) Verify(ctx context.Context, cfg config.Config, names []string, pubs Publishers) ([]Check, error) {
	checks := make([]Check, 0, len(names))
	for _, name := range names {
		check := Check{Target: name}
		if t, ok := cfg.Target(name); ok {
			check.URL = t.URL
		}
		if pub, err := pubs.forTarget(name); err == nil {
			_, err := pipeline.ResolveCredentials(pub.Platform(), v.credentials, pub.RequiredCredentials())
			var missing pipeline.MissingEnvError
			if errors.As(err, &missing) {
				check.Missing = missing.Variables
			}
		}
		checks = append(checks, check)
	}

	_, err := session.With(ctx, v.newBrowser(), v.browserOpts, v.logger, func(s *session.Session) (struct{}, error) {
		for i := range checks {
			if ctx.Err() != nil {
				checks[i].Err = ctx.Err()
				continue
			}
			v.loadURL(s.Browser, &checks[i])
		}
		return struct{}{}, nil
	})
	return checks, err
}

func (v *Verifier) loadURL(browser ports.Browser, check *Check) {
	if check.URL == "" {
		check.Err = fmt.Errorf("%w: no url", pipeline.ErrConfig)
		return
	}
	v.logger.Info("Checking %s", check.URL)
	resp, err := browser.Navigate(check.URL, VerifyTimeout)
	if err != nil {
		check.Err = fmt.Errorf("%w: %v", pipeline.ErrNavigation, err)
		return
	}
	check.Status = resp.Status
	if !resp.OK() {
		check.Err = fmt.Errorf("%w: HTTP %d %s", pipeline.ErrNavigation, resp.Status, resp.StatusText)
	}
}
