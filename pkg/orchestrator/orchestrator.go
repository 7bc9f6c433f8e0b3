// Package orchestrator runs capture and publish for each configured target.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/user/forecastbot/pkg/pipeline"
	"github.com/user/forecastbot/pkg/ports"
)

// Status is the outcome of one target step.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped" // dry run: captured but not published
)

// Target is one publishing destination with its own capture.
type Target struct {
	Name      string
	Capture   pipeline.CaptureRequest
	Caption   string
	Publisher ports.Publisher

	// Story, when set, derives a story frame from the capture and posts it
	// after the main publish succeeded. Its failure is reported but does not
	// fail the target.
	Story ports.Publisher
}

// Options control a single run.
type Options struct {
	RunID  string // generated when empty
	DryRun bool   // capture only, never publish
}

// TargetResult records one step of a run.
type TargetResult struct {
	Name      string         `json:"name"`
	Platform  ports.Platform `json:"platform"`
	Status    Status         `json:"status"`
	Secondary bool           `json:"secondary,omitempty"`
	PostID    string         `json:"post_id,omitempty"`
	Permalink string         `json:"permalink,omitempty"`
	Duration  time.Duration  `json:"duration_ns"`

	ContentHeight int  `json:"content_height,omitempty"`
	ClipHeight    int  `json:"clip_height,omitempty"`
	UsedFallback  bool `json:"used_fallback,omitempty"`

	Err     error  `json:"-"`
	Message string `json:"error,omitempty"`
}

// RunResult contains every target outcome of a run for summary generation.
type RunResult struct {
	RunID     string         `json:"run_id"`
	DryRun    bool           `json:"dry_run"`
	StartedAt time.Time      `json:"started_at"`
	Duration  time.Duration  `json:"duration_ns"`
	Targets   []TargetResult `json:"targets"`
}

// Failed counts primary targets that failed.
func (r RunResult) Failed() int {
	n := 0
	for _, t := range r.Targets {
		if !t.Secondary && t.Status == StatusFailed {
			n++
		}
	}
	return n
}

// Primary counts primary targets.
func (r RunResult) Primary() int {
	n := 0
	for _, t := range r.Targets {
		if !t.Secondary {
			n++
		}
	}
	return n
}

// NewRunID returns a sortable run identifier.
func NewRunID() string {
	return ulid.Make().String()
}

// Orchestrator coordinates the capture, story and publish steps.
type Orchestrator struct {
	captureStage pipeline.Stage[pipeline.CaptureRequest, pipeline.CaptureResult]
	storyStage   pipeline.Stage[pipeline.StoryInput, pipeline.StoryResult]
	credentials  ports.CredentialSource
	sink         ports.DebugSink
	logger       ports.Logger
	now          func() time.Time
}

// New creates a new Orchestrator. storyStage may be nil when no target has
// a story publisher.
func New(
	captureStage pipeline.Stage[pipeline.CaptureRequest, pipeline.CaptureResult],
	storyStage pipeline.Stage[pipeline.StoryInput, pipeline.StoryResult],
	credentials ports.CredentialSource,
	sink ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		captureStage: captureStage,
		storyStage:   storyStage,
		credentials:  credentials,
		sink:         sink,
		logger:       logger,
		now:          time.Now,
	}
}

// Run executes targets one after another. A failed target is recorded and
// the next one still runs. The returned error joins every primary failure.
func (o *Orchestrator) Run(ctx context.Context, targets []Target, opts Options) (RunResult, error) {
	result := RunResult{
		RunID:     opts.RunID,
		DryRun:    opts.DryRun,
		StartedAt: o.now(),
	}
	if result.RunID == "" {
		result.RunID = NewRunID()
	}

	o.logger.Info("Starting run %s with %d targets", result.RunID, len(targets))

	var errs []error
	for _, target := range targets {
		var steps []TargetResult
		if err := ctx.Err(); err != nil {
			steps = []TargetResult{o.failed(target.Name, target.Publisher.Platform(), false, err, 0)}
		} else {
			steps = o.runTarget(ctx, target, opts.DryRun)
		}
		for _, step := range steps {
			if !step.Secondary && step.Status == StatusFailed {
				errs = append(errs, fmt.Errorf("%s: %w", step.Name, step.Err))
			}
		}
		result.Targets = append(result.Targets, steps...)
	}
	result.Duration = o.now().Sub(result.StartedAt)

	o.saveRun(result)

	if len(errs) > 0 {
		o.logger.Error("%d of %d targets failed", len(errs), result.Primary())
		return result, fmt.Errorf("%d of %d targets failed: %w", len(errs), result.Primary(), errors.Join(errs...))
	}
	o.logger.Info("Run completed successfully")
	return result, nil
}

func (o *Orchestrator) runTarget(ctx context.Context, target Target, dryRun bool) []TargetResult {
	start := o.now()
	platform := target.Publisher.Platform()
	o.logger.Info("Running target %s", target.Name)

	// Credentials are checked before any browser work.
	if !dryRun {
		if _, err := pipeline.ResolveCredentials(platform, o.credentials, target.Publisher.RequiredCredentials()); err != nil {
			o.logger.Error("Target %s skipped: %s", target.Name, err)
			return []TargetResult{o.failed(target.Name, platform, false, err, o.now().Sub(start))}
		}
	}

	captured, err := o.captureStage.Execute(ctx, target.Capture)
	if err != nil {
		o.logger.Error("Capture for %s failed: %s", target.Name, err)
		return []TargetResult{o.failed(target.Name, platform, false, fmt.Errorf("capture: %w", err), o.now().Sub(start))}
	}
	o.logger.Info("Captured %s: %d bytes, clip height %d", target.Name, len(captured.Image), captured.Clip.Height)

	main := TargetResult{
		Name:          target.Name,
		Platform:      platform,
		ContentHeight: captured.ContentHeight,
		ClipHeight:    captured.Clip.Height,
		UsedFallback:  captured.UsedFallback,
	}

	if dryRun {
		main.Status = StatusSkipped
	} else {
		published, err := target.Publisher.Publish(ctx, ports.PublishRequest{
			Platform:    platform,
			Image:       captured.Image,
			Caption:     target.Caption,
			Credentials: o.credentials,
		})
		if err != nil {
			o.logger.Error("Publishing to %s failed: %s", target.Name, err)
			main.Status = StatusFailed
			main.Err = fmt.Errorf("publish: %w", err)
			main.Message = main.Err.Error()
			main.Duration = o.now().Sub(start)
			return []TargetResult{main}
		}
		main.Status = StatusSucceeded
		main.PostID = published.PostID
		main.Permalink = published.Permalink
		o.logger.Info("Published to %s: %s", target.Name, published.PostID)
	}
	main.Duration = o.now().Sub(start)

	results := []TargetResult{main}
	if target.Story != nil {
		results = append(results, o.runStory(ctx, target, captured, dryRun))
	}
	return results
}

// runStory renders and posts the story frame. Failures are warnings.
func (o *Orchestrator) runStory(ctx context.Context, target Target, captured pipeline.CaptureResult, dryRun bool) TargetResult {
	start := o.now()
	name := target.Name + "-story"
	platform := target.Story.Platform()

	if o.storyStage == nil {
		err := errors.New("story stage not configured")
		o.logger.Warn("Story for %s failed: %s", target.Name, err)
		return o.failed(name, platform, true, err, 0)
	}

	scale := target.Capture.Viewport.DeviceScaleFactor
	if scale <= 0 {
		scale = 1
	}
	story, err := o.storyStage.Execute(ctx, pipeline.StoryInput{Portrait: captured.Image, PortraitScale: scale})
	if err != nil {
		o.logger.Warn("Story for %s failed: %s", target.Name, err)
		return o.failed(name, platform, true, fmt.Errorf("story: %w", err), o.now().Sub(start))
	}

	res := TargetResult{Name: name, Platform: platform, Secondary: true}
	if dryRun {
		res.Status = StatusSkipped
		res.Duration = o.now().Sub(start)
		return res
	}

	published, err := target.Story.Publish(ctx, ports.PublishRequest{
		Platform:    platform,
		Image:       story.Image,
		Credentials: o.credentials,
	})
	if err != nil {
		o.logger.Warn("Story for %s failed: %s", target.Name, err)
		return o.failed(name, platform, true, fmt.Errorf("publish story: %w", err), o.now().Sub(start))
	}
	o.logger.Info("Published story for %s: %s", target.Name, published.PostID)

	res.Status = StatusSucceeded
	res.PostID = published.PostID
	res.Permalink = published.Permalink
	res.Duration = o.now().Sub(start)
	return res
}

func (o *Orchestrator) failed(name string, platform ports.Platform, secondary bool, err error, d time.Duration) TargetResult {
	return TargetResult{
		Name:      name,
		Platform:  platform,
		Status:    StatusFailed,
		Secondary: secondary,
		Duration:  d,
		Err:       err,
		Message:   err.Error(),
	}
}

func (o *Orchestrator) saveRun(result RunResult) {
	if !o.sink.Enabled() {
		return
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		o.logger.Warn("Failed to save run record: %v", err)
		return
	}
	if err := o.sink.SaveJSON("run", data); err != nil {
		o.logger.Warn("Failed to save run record: %v", err)
	}
}
