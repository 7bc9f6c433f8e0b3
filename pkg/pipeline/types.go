package pipeline

import (
	"time"

	"github.com/user/forecastbot/pkg/ports"
)

// =============================================================================
// Capture
// =============================================================================

// CaptureRequest describes one share-card capture.
type CaptureRequest struct {
	Name        string // artifact name prefix, e.g. "twitter"
	URL         string
	FallbackURL string // retried once when URL fails; empty disables the retry

	Viewport      ports.Viewport
	MaxHeight     int // crop height cap in CSS px
	DefaultHeight int // used when the measured height is not positive

	NavigationTimeout time.Duration // bounds navigation plus the network-idle wait
	SettleTimeout     time.Duration // bounds the font readiness polling

	// Fit enables the caption text fitting pass before measuring.
	Fit *FitOptions
}

// CaptureResult is the outcome of a successful capture.
type CaptureResult struct {
	Image         []byte // PNG
	ContentHeight int    // measured document height in CSS px
	Clip          ports.Rect
	Capped        bool // measured height exceeded MaxHeight
	UsedDefault   bool // measured height was not positive
	UsedFallback  bool
	FinalURL      string
	Fit           *FitReport
}

// =============================================================================
// Clip policy
// =============================================================================

// ClipInput holds the values the crop rectangle is computed from.
type ClipInput struct {
	ViewportWidth  int
	MeasuredHeight int
	MaxHeight      int
	DefaultHeight  int
}

// ClipResult is the crop rectangle and how it was derived.
type ClipResult struct {
	Rect        ports.Rect
	Capped      bool
	UsedDefault bool
}

// =============================================================================
// Text fitting
// =============================================================================

// Tier is a stepped range walked from Start down to Floor.
type Tier struct {
	Start float64
	Floor float64
	Step  float64
}

// FitOptions configures the caption fitting pass.
type FitOptions struct {
	BlockSelector     string
	ContainerSelector string
	SiblingSelectors  []string

	ContainerHeight int // px
	MarginAllowance int // px

	FontSize   Tier // px
	LineHeight Tier // unitless multiplier

	MinWords int
	Ellipsis string
}

// DefaultFitOptions returns the caption fitting defaults for the landscape card.
func DefaultFitOptions() FitOptions {
	return FitOptions{
		BlockSelector:     ".forecast",
		ContainerSelector: ".container",
		SiblingSelectors:  []string{".title", ".date", ".pillar", ".footer"},
		ContainerHeight:   630,
		MarginAllowance:   60,
		FontSize:          Tier{Start: 16, Floor: 12, Step: 0.5},
		LineHeight:        Tier{Start: 1.4, Floor: 1.1, Step: 0.05},
		MinWords:          10,
		Ellipsis:          "...",
	}
}

// FitReport records what the fitting pass changed.
type FitReport struct {
	Applied         bool    `json:"applied"` // false when the block or container was missing
	AvailableHeight int     `json:"available_height"`
	FontSize        float64 `json:"font_size"`
	LineHeight      float64 `json:"line_height"`
	WordsDropped    int     `json:"words_dropped"`
	Overflowing     bool    `json:"overflowing"` // still overflowing after all tiers
}

// =============================================================================
// Story
// =============================================================================

// StoryInput is the portrait capture the story frame is derived from.
type StoryInput struct {
	Portrait      []byte // PNG at the portrait viewport's scale
	PortraitScale float64
}

// StoryResult is the rendered story frame.
type StoryResult struct {
	Image       []byte // PNG
	SubFontSize float64
}
