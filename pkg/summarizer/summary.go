// Package summarizer provides summary generation for forecast runs.
package summarizer

import "time"

// Summary contains the outcome of one run across all targets.
type Summary struct {
	// Metadata
	GeneratedAt time.Time
	RunID       string
	DryRun      bool
	Duration    time.Duration

	// Per-target outcomes, in run order
	Targets []TargetSummary
}

// TargetSummary is one row of the summary.
type TargetSummary struct {
	Name      string
	Platform  string
	Status    string
	Secondary bool // e.g. the story after a feed post
	PostID    string
	Permalink string
	Duration  time.Duration
	Error     string
}

// Failed counts primary targets whose status is "failed".
func (s *Summary) Failed() int {
	n := 0
	for _, t := range s.Targets {
		if !t.Secondary && t.Status == "failed" {
			n++
		}
	}
	return n
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithRun sets run metadata.
func (b *Builder) WithRun(runID string, duration time.Duration, dryRun bool) *Builder {
	b.summary.RunID = runID
	b.summary.Duration = duration
	b.summary.DryRun = dryRun
	return b
}

// AddTarget appends a target row.
func (b *Builder) AddTarget(target TargetSummary) *Builder {
	b.summary.Targets = append(b.summary.Targets, target)
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
