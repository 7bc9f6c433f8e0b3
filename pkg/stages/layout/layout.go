// Package layout implements the crop rectangle calculation stage.
package layout

import (
	"context"

	"github.com/user/forecastbot/pkg/pipeline"
	"github.com/user/forecastbot/pkg/ports"
)

// FallbackHeight is used when neither the measured nor the configured
// default height is positive.
const FallbackHeight = 1200

// Stage computes the crop rectangle for a capture.
// This is a pure function with no external dependencies.
type Stage struct{}

// NewStage creates a new layout stage.
func NewStage() *Stage {
	return &Stage{}
}

// Execute computes the clip for input.
func (s *Stage) Execute(ctx context.Context, input pipeline.ClipInput) (pipeline.ClipResult, error) {
	return ComputeClip(input), nil
}

// ComputeClip returns the rectangle at the page origin spanning the
// viewport width and min(measured, max) in height.
//
// A measured height of zero or less is replaced by DefaultHeight. The
// result is never taller than MaxHeight (when MaxHeight is positive) and
// never zero.
func ComputeClip(input pipeline.ClipInput) pipeline.ClipResult {
	var result pipeline.ClipResult

	height := input.MeasuredHeight
	if height <= 0 {
		height = input.DefaultHeight
		if height <= 0 {
			height = FallbackHeight
		}
		result.UsedDefault = true
	}

	if input.MaxHeight > 0 && height > input.MaxHeight {
		height = input.MaxHeight
		result.Capped = true
	}

	result.Rect = ports.Rect{
		X:      0,
		Y:      0,
		Width:  input.ViewportWidth,
		Height: height,
	}
	return result
}

// Ensure Stage implements pipeline.Stage
var _ pipeline.Stage[pipeline.ClipInput, pipeline.ClipResult] = (*Stage)(nil)
