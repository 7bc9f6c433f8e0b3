// Package story derives the 1080×1920 story frame from a portrait share card.
package story

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/user/forecastbot/pkg/pipeline"
	"github.com/user/forecastbot/pkg/ports"
	"github.com/user/forecastbot/pkg/stages/textfit"
)

// Options configures the story frame.
type Options struct {
	Width  int
	Height int
	Scale  float64

	// The top CropFraction of a CardWidth×CardHeight portrait card is embedded.
	CardWidth    int
	CardHeight   int
	CropFraction float64

	LogoPath  string // optional PNG
	BrandName string
	CTAMain   string
	CTASub    string
	TapText   string

	// CTASub is fitted into SubMaxHeight at 85% of the frame width.
	SubFontSize  pipeline.Tier
	SubMaxHeight float64
	FontPath     string // metrics font; empty uses the built-in face
}

// DefaultOptions returns the daily forecast story layout.
func DefaultOptions() Options {
	return Options{
		Width:        1080,
		Height:       1920,
		Scale:        2,
		CardWidth:    800,
		CardHeight:   1200,
		CropFraction: 0.22,
		BrandName:    "BaziGPT",
		CTAMain:      "🔮 Your Daily Bazi Awaits",
		CTASub:       "Discover how the cosmic energies align today and what it means for you!",
		TapText:      "📖 FULL FORECAST ON OUR PAGE",
		SubFontSize:  pipeline.Tier{Start: 38, Floor: 28, Step: 1},
		SubMaxHeight: 120,
	}
}

// CropHeight returns the embedded card height in CSS px.
func (o Options) CropHeight() int {
	return int(math.Round(float64(o.CardHeight) * o.CropFraction))
}

// Stage composes the story frame.
type Stage struct {
	capturer ports.HTMLCapturer
	renderer ports.Renderer
	fs       ports.FileSystem
	sink     ports.DebugSink
	logger   ports.Logger
	opts     Options
}

// NewStage creates a new story stage.
func NewStage(capturer ports.HTMLCapturer, renderer ports.Renderer, fs ports.FileSystem, sink ports.DebugSink, logger ports.Logger, opts Options) *Stage {
	return &Stage{
		capturer: capturer,
		renderer: renderer,
		fs:       fs,
		sink:     sink,
		logger:   logger.WithComponent("story"),
		opts:     opts,
	}
}

// Execute crops the top of the portrait card, renders it into the story
// template and captures the frame. When the browser capture fails the frame
// is drawn with the raster renderer instead.
func (s *Stage) Execute(ctx context.Context, input pipeline.StoryInput) (pipeline.StoryResult, error) {
	var result pipeline.StoryResult

	header, err := s.cropHeader(input)
	if err != nil {
		return result, err
	}
	headerPNG, err := s.renderer.EncodePNG(header)
	if err != nil {
		return result, fmt.Errorf("encode header: %w", err)
	}

	logo := s.loadLogo()
	subText, subSize := s.fitSubText()
	result.SubFontSize = subSize
	s.logger.Debug("CTA sub-text fitted at %.1fpx", subSize)

	html, err := RenderHTML(TemplateVars{
		Width:       s.opts.Width,
		Height:      s.opts.Height,
		BrandName:   s.opts.BrandName,
		LogoURI:     dataURI(logo),
		ContentURI:  dataURI(headerPNG),
		CTAMain:     s.opts.CTAMain,
		CTASub:      subText,
		SubFontSize: subSize,
		TapText:     s.opts.TapText,
	})
	if err != nil {
		return result, fmt.Errorf("render HTML: %w", err)
	}

	data, err := s.capturer.CaptureHTML(ctx, html, ports.Viewport{
		Width:             s.opts.Width,
		Height:            s.opts.Height,
		DeviceScaleFactor: s.opts.Scale,
	})
	if err != nil {
		if ctx.Err() != nil {
			return result, fmt.Errorf("capture HTML: %w", err)
		}
		s.logger.Warn("Story HTML capture failed, drawing frame directly: %v", err)
		data, err = s.drawFrame(header, logo, subText, subSize)
		if err != nil {
			return result, fmt.Errorf("draw story frame: %w", err)
		}
	}
	result.Image = data

	if s.sink.Enabled() {
		if err := s.sink.SaveImage("facebook-story", data); err != nil {
			s.logger.Warn("Failed to save debug story: %v", err)
		}
	}

	return result, nil
}

// cropHeader returns the top CropHeight CSS px of the portrait card in
// device pixels.
func (s *Stage) cropHeader(input pipeline.StoryInput) (image.Image, error) {
	portrait, err := s.renderer.DecodePNG(input.Portrait)
	if err != nil {
		return nil, fmt.Errorf("decode portrait: %w", err)
	}

	scale := input.PortraitScale
	if scale <= 0 {
		scale = 1
	}
	b := portrait.Bounds()
	r := image.Rect(
		b.Min.X,
		b.Min.Y,
		b.Min.X+int(math.Round(float64(s.opts.CardWidth)*scale)),
		b.Min.Y+int(math.Round(float64(s.opts.CropHeight())*scale)),
	)
	return s.renderer.CropImage(portrait, r), nil
}

// loadLogo returns the logo bytes, or nil when none is configured or it
// cannot be read.
func (s *Stage) loadLogo() []byte {
	if s.opts.LogoPath == "" {
		return nil
	}
	exists, err := s.fs.Exists(s.opts.LogoPath)
	if err != nil || !exists {
		s.logger.Warn("Logo file %s not found, continuing without logo", s.opts.LogoPath)
		return nil
	}
	data, err := s.fs.ReadFile(s.opts.LogoPath)
	if err != nil {
		s.logger.Warn("Failed to read logo %s: %v", s.opts.LogoPath, err)
		return nil
	}
	return data
}

// fitSubText shrinks the CTA sub-text font until it fits SubMaxHeight.
func (s *Stage) fitSubText() (string, float64) {
	block := textfit.NewMetricsBlock(
		s.renderer,
		s.opts.CTASub,
		ports.TextStyle{FontSize: s.opts.SubFontSize.Start, FontPath: s.opts.FontPath},
		float64(s.opts.Width)*0.85,
		s.opts.SubMaxHeight,
		1.0,
	)
	fit, err := textfit.Fit(block, pipeline.FitOptions{
		FontSize:   s.opts.SubFontSize,
		LineHeight: pipeline.Tier{Start: 1.0, Floor: 1.0},
		MinWords:   6,
		Ellipsis:   "...",
	})
	if err != nil {
		s.logger.Warn("CTA fitting failed: %v", err)
		return s.opts.CTASub, s.opts.SubFontSize.Start
	}
	text, _ := block.Text()
	return text, fit.FontSize
}

var _ pipeline.Stage[pipeline.StoryInput, pipeline.StoryResult] = (*Stage)(nil)
