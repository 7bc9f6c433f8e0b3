package summarizer

import (
	"fmt"
	"time"
)

// Formatter defines the interface for formatting a Summary.
type Formatter interface {
	// Format converts a Summary to a formatted string.
	Format(summary *Summary) string
}

// FormatFunc is a function adapter for the Formatter interface.
type FormatFunc func(summary *Summary) string

// Format implements the Formatter interface.
func (f FormatFunc) Format(summary *Summary) string {
	return f(summary)
}

// Option configures the built-in formatters.
type Option func(*options)

type options struct {
	translate func(string) string
	version   string
}

// WithTranslator translates headings and labels.
func WithTranslator(fn func(string) string) Option {
	return func(o *options) { o.translate = fn }
}

// WithVersion adds the tool version to the output.
func WithVersion(v string) Option {
	return func(o *options) { o.version = v }
}

func newOptions(opts []Option) options {
	o := options{translate: func(s string) string { return s }}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%d ms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1f s", d.Seconds())
}
