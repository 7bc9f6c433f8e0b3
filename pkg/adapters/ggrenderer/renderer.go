// Package ggrenderer provides a renderer implementation using the gg library.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"

	"github.com/user/forecastbot/pkg/ports"
)

// Renderer implements ports.Renderer using the gg library.
// Text without a FontPath is set in Go Bold, the closest bundled match to
// the heavy sans-serif used on the story frame.
type Renderer struct {
	mu    sync.Mutex
	faces map[faceKey]font.Face
}

type faceKey struct {
	path string
	size float64
}

// New creates a new Renderer.
func New() *Renderer {
	return &Renderer{faces: make(map[faceKey]font.Face)}
}

// CreateCanvas creates a new drawing canvas.
func (r *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	dc := gg.NewContext(width, height)
	dc.SetColor(bg)
	dc.Clear()
	return &Canvas{dc: dc, renderer: r}
}

// DecodePNG decodes PNG data.
func (r *Renderer) DecodePNG(data []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode PNG: %w", err)
	}
	return img, nil
}

// EncodePNG encodes img as PNG.
func (r *Renderer) EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// CropImage copies the part of img inside rect into a new image anchored at 0,0.
func (r *Renderer) CropImage(img image.Image, rect image.Rectangle) image.Image {
	rect = rect.Intersect(img.Bounds())
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), img, rect.Min, draw.Src)
	return dst
}

// WrapText breaks text into lines no wider than maxWidth.
func (r *Renderer) WrapText(text string, style ports.TextStyle, maxWidth float64) []string {
	dc := gg.NewContext(1, 1)
	if face, err := r.face(style); err == nil {
		dc.SetFontFace(face)
	}
	return dc.WordWrap(text, maxWidth)
}

func (r *Renderer) face(style ports.TextStyle) (font.Face, error) {
	size := style.FontSize
	if size <= 0 {
		size = 12
	}
	key := faceKey{path: style.FontPath, size: size}

	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.faces[key]; ok {
		return f, nil
	}

	var (
		f   font.Face
		err error
	)
	if style.FontPath != "" {
		f, err = gg.LoadFontFace(style.FontPath, size)
	} else {
		f, err = builtinFace(size)
	}
	if err != nil {
		return nil, err
	}
	r.faces[key] = f
	return f, nil
}

func builtinFace(size float64) (font.Face, error) {
	parsed, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse builtin font: %w", err)
	}
	return opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Ensure Renderer implements ports.Renderer
var _ ports.Renderer = (*Renderer)(nil)

// Canvas implements ports.Canvas using gg.Context.
type Canvas struct {
	dc       *gg.Context
	renderer *Renderer
}

// DrawImageScaled draws an image scaled to the specified dimensions.
func (c *Canvas) DrawImageScaled(img image.Image, x, y, width, height int) {
	c.dc.Push()
	defer c.dc.Pop()

	bounds := img.Bounds()
	scaleX := float64(width) / float64(bounds.Dx())
	scaleY := float64(height) / float64(bounds.Dy())

	c.dc.Translate(float64(x), float64(y))
	c.dc.Scale(scaleX, scaleY)
	c.dc.DrawImage(img, 0, 0)
}

// DrawRect draws a filled rectangle.
func (c *Canvas) DrawRect(x, y, w, h int, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	c.dc.Fill()
}

// DrawText draws text vertically centered on y, aligned horizontally on x.
func (c *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	c.applyFace(style)
	if style.Color != nil {
		c.dc.SetColor(style.Color)
	}

	ax := 0.0
	switch style.Align {
	case ports.AlignCenter:
		ax = 0.5
	case ports.AlignRight:
		ax = 1.0
	}

	c.dc.DrawStringAnchored(text, float64(x), float64(y), ax, 0.5)
}

// MeasureText returns the rendered width and height of a single line.
func (c *Canvas) MeasureText(text string, style ports.TextStyle) (float64, float64) {
	c.applyFace(style)
	return c.dc.MeasureString(text)
}

func (c *Canvas) applyFace(style ports.TextStyle) {
	if face, err := c.renderer.face(style); err == nil {
		c.dc.SetFontFace(face)
	}
}

// ToImage returns the canvas as an image.Image.
func (c *Canvas) ToImage() image.Image {
	return c.dc.Image()
}

// Ensure Canvas implements ports.Canvas
var _ ports.Canvas = (*Canvas)(nil)
