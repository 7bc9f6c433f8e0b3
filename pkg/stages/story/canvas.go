package story

import (
	"image"
	"image/color"

	"github.com/user/forecastbot/pkg/ports"
)

var (
	storyBackground = color.RGBA{0x1a, 0x1a, 0x1a, 0xff}
	storyOrange     = color.RGBA{0xff, 0x8c, 0x00, 0xff}
	storyWhite      = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

// drawFrame rasterizes a flat version of the story layout: brand, header
// card, CTA lines and the tap pill. Positions are CSS px scaled by opts.Scale.
func (s *Stage) drawFrame(header image.Image, logoPNG []byte, subText string, subSize float64) ([]byte, error) {
	k := s.opts.Scale
	if k <= 0 {
		k = 1
	}
	px := func(v float64) int { return int(v * k) }
	w := float64(s.opts.Width)
	h := float64(s.opts.Height)

	canvas := s.renderer.CreateCanvas(px(w), px(h), storyBackground)

	// Brand row, optional logo left of the name.
	brand := ports.TextStyle{FontSize: 48 * k, FontPath: s.opts.FontPath, Color: storyOrange, Align: ports.AlignCenter}
	brandW, _ := canvas.MeasureText(s.opts.BrandName, brand)
	brandX := w / 2
	if logoPNG != nil {
		if logo, err := s.renderer.DecodePNG(logoPNG); err == nil {
			rowW := 100 + 24 + brandW/k
			left := (w - rowW) / 2
			canvas.DrawImageScaled(logo, px(left), px(160), px(100), px(100))
			brandX = left + 124 + brandW/k/2
		}
	}
	canvas.DrawText(s.opts.BrandName, px(brandX), px(210), brand)

	// Header card scaled to 95% of the frame width, capped at 40% height.
	hb := header.Bounds()
	if hb.Dx() > 0 && hb.Dy() > 0 {
		cardW := w * 0.95
		cardH := cardW * float64(hb.Dy()) / float64(hb.Dx())
		if maxH := h * 0.4; cardH > maxH {
			cardW = cardW * maxH / cardH
			cardH = maxH
		}
		canvas.DrawImageScaled(header, px((w-cardW)/2), px(h*0.3), px(cardW), px(cardH))
	}

	y := h * 0.65
	canvas.DrawText(s.opts.CTAMain, px(w/2), px(y), ports.TextStyle{FontSize: 64 * k, FontPath: s.opts.FontPath, Color: storyOrange, Align: ports.AlignCenter})
	y += 64 + 36

	sub := ports.TextStyle{FontSize: subSize * k, FontPath: s.opts.FontPath, Color: storyWhite, Align: ports.AlignCenter}
	for _, line := range s.renderer.WrapText(subText, sub, w*0.85*k) {
		canvas.DrawText(line, px(w/2), px(y), sub)
		y += subSize
	}
	y += 56

	tap := ports.TextStyle{FontSize: 32 * k, FontPath: s.opts.FontPath, Color: storyWhite, Align: ports.AlignCenter}
	tapW, _ := canvas.MeasureText(s.opts.TapText, tap)
	pillW := tapW/k + 160
	canvas.DrawRect(px((w-pillW)/2), px(y), px(pillW), px(96), storyOrange)
	canvas.DrawText(s.opts.TapText, px(w/2), px(y+48), tap)

	return s.renderer.EncodePNG(canvas.ToImage())
}
