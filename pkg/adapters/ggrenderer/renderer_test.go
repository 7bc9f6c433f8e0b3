package ggrenderer

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/user/forecastbot/pkg/ports"
)

func TestRenderer_CreateCanvas(t *testing.T) {
	r := New()

	canvas := r.CreateCanvas(100, 100, color.White)
	if canvas == nil {
		t.Fatal("expected canvas to be created")
	}

	bounds := canvas.ToImage().Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 100 {
		t.Errorf("expected 100x100, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderer_EncodeDecodePNG(t *testing.T) {
	r := New()

	img := image.NewRGBA(image.Rect(0, 0, 30, 30))

	data, err := r.EncodePNG(img)
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}

	decoded, err := r.DecodePNG(data)
	if err != nil {
		t.Fatalf("DecodePNG failed: %v", err)
	}

	bounds := decoded.Bounds()
	if bounds.Dx() != 30 || bounds.Dy() != 30 {
		t.Errorf("expected 30x30, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderer_CropImage(t *testing.T) {
	r := New()

	// Top half red, bottom half blue, like a card header above the body.
	src := image.NewRGBA(image.Rect(0, 0, 1600, 2400))
	for y := 0; y < 2400; y++ {
		for x := 0; x < 1600; x++ {
			if y < 528 {
				src.Set(x, y, color.RGBA{R: 255, A: 255})
			} else {
				src.Set(x, y, color.RGBA{B: 255, A: 255})
			}
		}
	}

	cropped := r.CropImage(src, image.Rect(0, 0, 1600, 528))

	bounds := cropped.Bounds()
	if bounds.Dx() != 1600 || bounds.Dy() != 528 {
		t.Fatalf("expected 1600x528, got %dx%d", bounds.Dx(), bounds.Dy())
	}
	red, _, blue, _ := cropped.At(800, 527).RGBA()
	if red == 0 || blue != 0 {
		t.Error("expected only header pixels in the crop")
	}
}

func TestRenderer_CropImage_ClampsToBounds(t *testing.T) {
	r := New()

	cropped := r.CropImage(image.NewRGBA(image.Rect(0, 0, 100, 80)), image.Rect(0, 0, 200, 200))

	bounds := cropped.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 80 {
		t.Errorf("expected 100x80, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderer_WrapText(t *testing.T) {
	r := New()
	text := "Discover how the cosmic energies align today and what it means for you!"
	style := ports.TextStyle{FontSize: 38}

	wide := r.WrapText(text, style, 10000)
	if len(wide) != 1 {
		t.Errorf("expected a single line at large width, got %d", len(wide))
	}

	narrow := r.WrapText(text, style, 300)
	if len(narrow) < 3 {
		t.Errorf("expected several lines at 300px, got %d", len(narrow))
	}
	if strings.Join(narrow, " ") != text {
		t.Errorf("wrapping must not drop words, got %q", strings.Join(narrow, " "))
	}

	smaller := r.WrapText(text, ports.TextStyle{FontSize: 19}, 300)
	if len(smaller) >= len(narrow) {
		t.Errorf("expected fewer lines at a smaller font size: %d vs %d", len(smaller), len(narrow))
	}
}

func TestCanvas_DrawRect(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(100, 100, color.White)

	canvas.DrawRect(10, 10, 30, 30, color.RGBA{R: 255, A: 255})

	red, green, _, _ := canvas.ToImage().At(20, 20).RGBA()
	if red == 0 || green != 0 {
		t.Error("expected red pixel inside rectangle")
	}
}

func TestCanvas_DrawImageScaled(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(100, 100, color.White)

	small := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			small.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	canvas.DrawImageScaled(small, 10, 10, 40, 40)

	_, green, _, _ := canvas.ToImage().At(45, 45).RGBA()
	if green != 0 {
		t.Error("expected red pixel from scaled image")
	}
}

func TestCanvas_MeasureText(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(10, 10, color.White)

	w16, h16 := canvas.MeasureText("Daily Bazi Forecast", ports.TextStyle{FontSize: 16})
	w32, _ := canvas.MeasureText("Daily Bazi Forecast", ports.TextStyle{FontSize: 32})

	if w16 <= 0 || h16 <= 0 {
		t.Fatalf("expected positive metrics, got %.1fx%.1f", w16, h16)
	}
	if w32 <= w16 {
		t.Errorf("expected wider text at 32px: %.1f vs %.1f", w32, w16)
	}
}

func TestCanvas_DrawText(t *testing.T) {
	r := New()
	canvas := r.CreateCanvas(200, 50, color.White)

	canvas.DrawText("BaziGPT", 100, 25, ports.TextStyle{
		FontSize: 14,
		Color:    color.Black,
		Align:    ports.AlignCenter,
	})

	if canvas.ToImage() == nil {
		t.Error("expected image to be created")
	}
}
