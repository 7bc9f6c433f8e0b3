package layout

import (
	"context"
	"testing"

	"github.com/user/forecastbot/pkg/pipeline"
	"github.com/user/forecastbot/pkg/ports"
)

func TestComputeClip(t *testing.T) {
	tests := []struct {
		name        string
		input       pipeline.ClipInput
		want        ports.Rect
		capped      bool
		usedDefault bool
	}{
		{
			name:  "portrait below cap",
			input: pipeline.ClipInput{ViewportWidth: 800, MeasuredHeight: 900, MaxHeight: 1200, DefaultHeight: 1200},
			want:  ports.Rect{Width: 800, Height: 900},
		},
		{
			name:   "portrait above cap",
			input:  pipeline.ClipInput{ViewportWidth: 800, MeasuredHeight: 1500, MaxHeight: 1200, DefaultHeight: 1200},
			want:   ports.Rect{Width: 800, Height: 1200},
			capped: true,
		},
		{
			name:  "exactly at cap",
			input: pipeline.ClipInput{ViewportWidth: 1200, MeasuredHeight: 630, MaxHeight: 630, DefaultHeight: 630},
			want:  ports.Rect{Width: 1200, Height: 630},
		},
		{
			name:        "zero height uses default",
			input:       pipeline.ClipInput{ViewportWidth: 800, MeasuredHeight: 0, MaxHeight: 1200, DefaultHeight: 1200},
			want:        ports.Rect{Width: 800, Height: 1200},
			usedDefault: true,
		},
		{
			name:        "negative height uses default",
			input:       pipeline.ClipInput{ViewportWidth: 800, MeasuredHeight: -5, MaxHeight: 2000, DefaultHeight: 1000},
			want:        ports.Rect{Width: 800, Height: 1000},
			usedDefault: true,
		},
		{
			name:        "default above cap is capped",
			input:       pipeline.ClipInput{ViewportWidth: 1200, MeasuredHeight: 0, MaxHeight: 630, DefaultHeight: 1200},
			want:        ports.Rect{Width: 1200, Height: 630},
			capped:      true,
			usedDefault: true,
		},
		{
			name:        "no default configured",
			input:       pipeline.ClipInput{ViewportWidth: 800, MeasuredHeight: 0},
			want:        ports.Rect{Width: 800, Height: FallbackHeight},
			usedDefault: true,
		},
		{
			name:  "no cap configured",
			input: pipeline.ClipInput{ViewportWidth: 800, MeasuredHeight: 5000, DefaultHeight: 1200},
			want:  ports.Rect{Width: 800, Height: 5000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeClip(tt.input)
			if got.Rect != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got.Rect)
			}
			if got.Capped != tt.capped {
				t.Errorf("capped: expected %t, got %t", tt.capped, got.Capped)
			}
			if got.UsedDefault != tt.usedDefault {
				t.Errorf("usedDefault: expected %t, got %t", tt.usedDefault, got.UsedDefault)
			}
		})
	}
}

func TestComputeClip_NeverZeroNeverAboveMax(t *testing.T) {
	for measured := -100; measured <= 3000; measured += 37 {
		for _, maxHeight := range []int{630, 1200, 1920} {
			got := ComputeClip(pipeline.ClipInput{
				ViewportWidth:  800,
				MeasuredHeight: measured,
				MaxHeight:      maxHeight,
				DefaultHeight:  1200,
			})
			if got.Rect.Height <= 0 {
				t.Fatalf("measured=%d max=%d: zero height", measured, maxHeight)
			}
			if got.Rect.Height > maxHeight {
				t.Fatalf("measured=%d max=%d: height %d above max", measured, maxHeight, got.Rect.Height)
			}
			if got.Rect.X != 0 || got.Rect.Y != 0 {
				t.Fatalf("clip must start at the origin, got %+v", got.Rect)
			}
		}
	}
}

// TestStage_Execute tests the stage wrapper.
func TestStage_Execute(t *testing.T) {
	stage := NewStage()

	result, err := stage.Execute(context.Background(), pipeline.ClipInput{
		ViewportWidth:  800,
		MeasuredHeight: 1500,
		MaxHeight:      1200,
		DefaultHeight:  1200,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Rect.Height != 1200 {
		t.Errorf("expected height 1200, got %d", result.Rect.Height)
	}
}
