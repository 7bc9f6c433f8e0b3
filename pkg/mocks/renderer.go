package mocks

import (
	"image"
	"image/color"
	"strings"

	"github.com/user/forecastbot/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer.
// WrapText defaults to a fixed-width model: every rune is FontSize*0.5 wide.
type Renderer struct {
	CreateCanvasFunc func(width, height int, bg color.Color) ports.Canvas
	DecodePNGFunc    func(data []byte) (image.Image, error)
	EncodePNGFunc    func(img image.Image) ([]byte, error)
	CropImageFunc    func(img image.Image, r image.Rectangle) image.Image
	WrapTextFunc     func(text string, style ports.TextStyle, maxWidth float64) []string

	Crops []image.Rectangle
}

func (m *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	if m.CreateCanvasFunc != nil {
		return m.CreateCanvasFunc(width, height, bg)
	}
	return &Canvas{width: width, height: height}
}

func (m *Renderer) DecodePNG(data []byte) (image.Image, error) {
	if m.DecodePNGFunc != nil {
		return m.DecodePNGFunc(data)
	}
	return image.NewRGBA(image.Rect(0, 0, 1600, 2400)), nil
}

func (m *Renderer) EncodePNG(img image.Image) ([]byte, error) {
	if m.EncodePNGFunc != nil {
		return m.EncodePNGFunc(img)
	}
	return []byte("encoded"), nil
}

func (m *Renderer) CropImage(img image.Image, r image.Rectangle) image.Image {
	m.Crops = append(m.Crops, r)
	if m.CropImageFunc != nil {
		return m.CropImageFunc(img, r)
	}
	return image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
}

func (m *Renderer) WrapText(text string, style ports.TextStyle, maxWidth float64) []string {
	if m.WrapTextFunc != nil {
		return m.WrapTextFunc(text, style, maxWidth)
	}
	charWidth := style.FontSize * 0.5
	var lines []string
	var line string
	for _, word := range strings.Fields(text) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if line != "" && float64(len([]rune(candidate)))*charWidth > maxWidth {
			lines = append(lines, line)
			line = word
			continue
		}
		line = candidate
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

var _ ports.Renderer = (*Renderer)(nil)

// Canvas is a mock implementation of ports.Canvas.
type Canvas struct {
	width  int
	height int
}

func (m *Canvas) DrawImageScaled(img image.Image, x, y, width, height int) {}

func (m *Canvas) DrawRect(x, y, w, h int, c color.Color) {}

func (m *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {}

func (m *Canvas) MeasureText(text string, style ports.TextStyle) (float64, float64) {
	return float64(len([]rune(text))) * style.FontSize * 0.5, style.FontSize
}

func (m *Canvas) ToImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, m.width, m.height))
}

var _ ports.Canvas = (*Canvas)(nil)
