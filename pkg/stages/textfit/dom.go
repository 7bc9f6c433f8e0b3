package textfit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/user/forecastbot/pkg/pipeline"
	"github.com/user/forecastbot/pkg/ports"
)

// DOMBlock is a Block backed by an element in the live page. Every method is
// a single evaluation in the browser.
type DOMBlock struct {
	browser  ports.Browser
	selector string
}

// NewDOMBlock returns a Block for the first element matching selector.
func NewDOMBlock(browser ports.Browser, selector string) *DOMBlock {
	return &DOMBlock{browser: browser, selector: selector}
}

func (d *DOMBlock) element() string {
	return "document.querySelector(" + jsString(d.selector) + ")"
}

func (d *DOMBlock) Overflowing() (bool, error) {
	var over bool
	err := d.browser.Evaluate(fmt.Sprintf(`(() => {
	const el = %s;
	return !!el && el.scrollHeight > el.clientHeight;
})()`, d.element()), &over)
	return over, err
}

func (d *DOMBlock) SetFontSize(px float64) error {
	return d.setStyle("fontSize", jsString(formatFloat(px)+"px"))
}

func (d *DOMBlock) SetLineHeight(multiplier float64) error {
	return d.setStyle("lineHeight", jsString(formatFloat(multiplier)))
}

func (d *DOMBlock) Text() (string, error) {
	var text string
	err := d.browser.Evaluate(fmt.Sprintf(`(() => {
	const el = %s;
	return el ? el.textContent : '';
})()`, d.element()), &text)
	return text, err
}

func (d *DOMBlock) SetText(text string) error {
	var ok bool
	return d.browser.Evaluate(fmt.Sprintf(`(() => {
	const el = %s;
	if (el) el.textContent = %s;
	return true;
})()`, d.element(), jsString(text)), &ok)
}

func (d *DOMBlock) setStyle(property, value string) error {
	var ok bool
	return d.browser.Evaluate(fmt.Sprintf(`(() => {
	const el = %s;
	if (el) el.style.%s = %s;
	return true;
})()`, d.element(), property, value), &ok)
}

// preparation is the outcome of constraining the block to its available height.
type preparation struct {
	Found     bool `json:"found"`
	Available int  `json:"available"`
}

// Adjuster fits the caption block of a rendered page.
type Adjuster struct {
	logger ports.Logger
}

// NewAdjuster creates a new Adjuster.
func NewAdjuster(logger ports.Logger) *Adjuster {
	return &Adjuster{logger: logger.WithComponent("textfit")}
}

// Fit computes the caption's available height from the container and its
// siblings, constrains the block to it and runs the fitting tiers. A page
// without the block or container is left as is.
func (a *Adjuster) Fit(ctx context.Context, browser ports.Browser, opts pipeline.FitOptions) (*pipeline.FitReport, error) {
	report := &pipeline.FitReport{
		FontSize:   opts.FontSize.Start,
		LineHeight: opts.LineHeight.Start,
	}

	var prep preparation
	if err := browser.Evaluate(prepareScript(opts), &prep); err != nil {
		return report, fmt.Errorf("prepare caption block: %w", err)
	}
	if !prep.Found {
		a.logger.Debug("Caption block %s or container %s not found, skipping", opts.BlockSelector, opts.ContainerSelector)
		return report, nil
	}
	report.Applied = true
	report.AvailableHeight = prep.Available

	if err := ctx.Err(); err != nil {
		return report, err
	}

	result, err := Fit(NewDOMBlock(browser, opts.BlockSelector), opts)
	report.FontSize = result.FontSize
	report.LineHeight = result.LineHeight
	report.WordsDropped = result.WordsDropped
	report.Overflowing = result.Overflowing
	if err != nil {
		return report, fmt.Errorf("fit caption block: %w", err)
	}

	a.logger.Debug("Text fitting complete: font %.2fpx, line height %.2f, %d words dropped, available %dpx",
		report.FontSize, report.LineHeight, report.WordsDropped, report.AvailableHeight)
	if report.Overflowing {
		a.logger.Warn("Caption still overflows after fitting")
	}
	return report, nil
}

// prepareScript removes any line clamp on the block and caps it at
// containerHeight minus sibling heights minus the margin allowance.
func prepareScript(opts pipeline.FitOptions) string {
	siblings, _ := json.Marshal(opts.SiblingSelectors)
	if opts.SiblingSelectors == nil {
		siblings = []byte("[]")
	}
	return fmt.Sprintf(`(() => {
	const block = document.querySelector(%s);
	const container = document.querySelector(%s);
	if (!block || !container) return { found: false, available: 0 };
	const siblings = %s.reduce((sum, sel) => {
		const el = document.querySelector(sel);
		return sum + (el ? el.offsetHeight : 0);
	}, 0);
	const available = Math.max(0, %d - siblings - %d);
	block.style.webkitLineClamp = 'none';
	block.style.display = 'block';
	block.style.maxHeight = available + 'px';
	block.style.overflow = 'hidden';
	return { found: true, available: available };
})()`, jsString(opts.BlockSelector), jsString(opts.ContainerSelector), siblings, opts.ContainerHeight, opts.MarginAllowance)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

var _ Block = (*DOMBlock)(nil)
