package ports

import (
	"image"
	"image/color"
)

// Renderer abstracts raster image operations and text metrics.
type Renderer interface {
	// CreateCanvas creates a new drawing canvas with the specified dimensions and background color.
	CreateCanvas(width, height int, bg color.Color) Canvas

	// DecodePNG decodes PNG data.
	DecodePNG(data []byte) (image.Image, error)

	// EncodePNG encodes img as PNG.
	EncodePNG(img image.Image) ([]byte, error)

	// CropImage returns the part of img inside r. r is clamped to the image bounds.
	CropImage(img image.Image, r image.Rectangle) image.Image

	// WrapText breaks text into lines no wider than maxWidth for the given style.
	WrapText(text string, style TextStyle, maxWidth float64) []string
}

// Canvas provides drawing operations.
type Canvas interface {
	DrawImageScaled(img image.Image, x, y, width, height int)
	DrawRect(x, y, w, h int, c color.Color)
	DrawText(text string, x, y int, style TextStyle)
	MeasureText(text string, style TextStyle) (width, height float64)
	ToImage() image.Image
}

// TextStyle defines text rendering properties.
type TextStyle struct {
	FontSize float64
	FontPath string
	Color    color.Color
	Align    TextAlign
}

// TextAlign specifies text alignment.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)
