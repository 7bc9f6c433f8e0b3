// Package fonts makes sure the share card's CJK web font is loaded before
// the page is measured or captured.
package fonts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/user/forecastbot/pkg/pipeline"
	"github.com/user/forecastbot/pkg/ports"
)

// Options configures font readiness.
type Options struct {
	StylesheetURL string
	FontStack     string
	SampleText    string

	PollInterval  time.Duration
	SettleTimeout time.Duration
}

// DefaultOptions returns the Noto Sans SC setup used by every share card.
func DefaultOptions() Options {
	return Options{
		StylesheetURL: "https://fonts.googleapis.com/css2?family=Noto+Sans+SC:wght@400;700&display=swap",
		FontStack:     `"Noto Sans SC", "Noto Sans CJK SC", "PingFang SC", "Hiragino Sans GB", "Microsoft YaHei", "SimHei", "SimSun", "WenQuanYi Micro Hei", sans-serif`,
		SampleText:    "天地玄黄宇宙洪荒日月盈昃辰宿列张",
		PollInterval:  100 * time.Millisecond,
		SettleTimeout: 5 * time.Second,
	}
}

// Report describes how font settling went.
type Report struct {
	Loaded      bool          // document.fonts reported "loaded" within the bound
	ProbeHeight int           // offsetHeight of the sample glyph probe
	Elapsed     time.Duration
}

// Prober injects the font stylesheet and waits for it to be usable.
type Prober struct {
	opts   Options
	logger ports.Logger
}

// New creates a new Prober.
func New(opts Options, logger ports.Logger) *Prober {
	defaults := DefaultOptions()
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaults.PollInterval
	}
	if opts.SettleTimeout <= 0 {
		opts.SettleTimeout = defaults.SettleTimeout
	}
	if opts.SampleText == "" {
		opts.SampleText = defaults.SampleText
	}
	return &Prober{
		opts:   opts,
		logger: logger.WithComponent("fonts"),
	}
}

// Prepare registers a new-document script that links the web font stylesheet
// and applies the fallback stack to the body. It must run before navigation.
// Failures are logged, not returned.
func (p *Prober) Prepare(browser ports.Browser) {
	if err := browser.AddScriptOnNewDocument(p.injectionScript()); err != nil {
		p.logger.Warn("Font injection failed: %v", err)
	}
}

// Settle polls document.fonts until it reports "loaded", then forces the
// sample glyphs through layout with an off-screen probe. It is best effort
// and never fails the capture.
func (p *Prober) Settle(ctx context.Context, browser ports.Browser) Report {
	start := time.Now()
	var report Report

	loaded, err := pipeline.Poll(ctx, p.opts.PollInterval, p.opts.SettleTimeout, func() (bool, error) {
		var status string
		if err := browser.Evaluate(`document.fonts ? document.fonts.status : 'loaded'`, &status); err != nil {
			return false, err
		}
		return status == "loaded", nil
	})
	if err != nil {
		p.logger.Warn("Font status polling failed: %v", err)
	} else if !loaded {
		p.logger.Warn("Fonts not loaded after %v, continuing", p.opts.SettleTimeout)
	}
	report.Loaded = loaded

	if err := browser.Evaluate(p.probeScript(), &report.ProbeHeight); err != nil {
		p.logger.Warn("Font probe failed: %v", err)
	}

	report.Elapsed = time.Since(start)
	p.logger.Debug("Fonts settled in %v (loaded=%t, probe height %dpx)", report.Elapsed, report.Loaded, report.ProbeHeight)
	return report
}

// injectionScript builds the new-document script. head and body do not exist
// yet when it runs, so the work is deferred to DOMContentLoaded.
func (p *Prober) injectionScript() string {
	return fmt.Sprintf(`(() => {
	const apply = () => {
		if (%[1]s) {
			const link = document.createElement('link');
			link.rel = 'stylesheet';
			link.href = %[1]s;
			document.head.appendChild(link);
		}
		const style = document.createElement('style');
		style.textContent = 'body { font-family: ' + %[2]s + '; }';
		document.head.appendChild(style);
	};
	if (document.readyState === 'loading') {
		document.addEventListener('DOMContentLoaded', apply, { once: true });
	} else {
		apply();
	}
})()`, jsString(p.opts.StylesheetURL), jsString(p.opts.FontStack))
}

// probeScript renders the sample text off-screen, reads its height and
// removes it again.
func (p *Prober) probeScript() string {
	return fmt.Sprintf(`(() => {
	const el = document.createElement('div');
	el.style.position = 'absolute';
	el.style.left = '-9999px';
	el.style.fontFamily = %s;
	el.textContent = %s;
	document.body.appendChild(el);
	const h = el.offsetHeight;
	el.remove();
	return h;
})()`, jsString(p.opts.FontStack), jsString(p.opts.SampleText))
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
