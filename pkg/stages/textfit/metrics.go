package textfit

import (
	"github.com/user/forecastbot/pkg/ports"
)

// MetricsBlock is a Block laid out with font metrics instead of a browser:
// the text is word-wrapped to Width and overflows when
// lines × fontSize × lineHeight exceeds MaxHeight.
type MetricsBlock struct {
	renderer   ports.Renderer
	style      ports.TextStyle
	width      float64
	maxHeight  float64
	lineHeight float64
	text       string
}

// NewMetricsBlock creates a block of the given box size. style.FontSize is
// the initial font size.
func NewMetricsBlock(renderer ports.Renderer, text string, style ports.TextStyle, width, maxHeight, lineHeight float64) *MetricsBlock {
	return &MetricsBlock{
		renderer:   renderer,
		style:      style,
		width:      width,
		maxHeight:  maxHeight,
		lineHeight: lineHeight,
		text:       text,
	}
}

// Lines returns the wrapped lines at the current settings.
func (m *MetricsBlock) Lines() []string {
	return m.renderer.WrapText(m.text, m.style, m.width)
}

// Height returns the laid out height in px.
func (m *MetricsBlock) Height() float64 {
	return float64(len(m.Lines())) * m.style.FontSize * m.lineHeight
}

func (m *MetricsBlock) Overflowing() (bool, error) {
	return m.Height() > m.maxHeight, nil
}

func (m *MetricsBlock) SetFontSize(px float64) error {
	m.style.FontSize = px
	return nil
}

func (m *MetricsBlock) SetLineHeight(multiplier float64) error {
	m.lineHeight = multiplier
	return nil
}

func (m *MetricsBlock) Text() (string, error) {
	return m.text, nil
}

func (m *MetricsBlock) SetText(text string) error {
	m.text = text
	return nil
}

// FontSize returns the current font size.
func (m *MetricsBlock) FontSize() float64 {
	return m.style.FontSize
}

// LineHeight returns the current line height multiplier.
func (m *MetricsBlock) LineHeight() float64 {
	return m.lineHeight
}

var _ Block = (*MetricsBlock)(nil)
