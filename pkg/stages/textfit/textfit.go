// Package textfit shrinks a text block until it fits its available height.
//
// The algorithm walks three tiers in order, each only while the block still
// overflows: font size, line height, then trailing-word truncation. It runs
// against any Block, so the same rules apply to the live DOM (DOMBlock) and
// to font metrics (MetricsBlock).
package textfit

import (
	"math"
	"strings"

	"github.com/user/forecastbot/pkg/pipeline"
)

// Block is a text element whose style and content can be adjusted.
type Block interface {
	// Overflowing reports whether the content is taller than the block.
	Overflowing() (bool, error)
	SetFontSize(px float64) error
	SetLineHeight(multiplier float64) error
	Text() (string, error)
	SetText(text string) error
}

// Result is what Fit changed. Values are the last applied ones, or the
// tier start values when a tier was not needed.
type Result struct {
	FontSize     float64
	LineHeight   float64
	WordsDropped int
	Overflowing  bool
}

// Fit runs the tiers against b. A block that already fits is left untouched,
// so running Fit twice changes nothing the second time. Remaining overflow
// is reported, not returned as an error.
func Fit(b Block, opts pipeline.FitOptions) (Result, error) {
	result := Result{
		FontSize:   opts.FontSize.Start,
		LineHeight: opts.LineHeight.Start,
	}

	over, err := b.Overflowing()
	if err != nil || !over {
		return result, err
	}

	// Tier 1: font size
	size := opts.FontSize.Start
	for over && size > opts.FontSize.Floor && opts.FontSize.Step > 0 {
		size = stepDown(size, opts.FontSize.Step, opts.FontSize.Floor)
		if err := b.SetFontSize(size); err != nil {
			return result, err
		}
		result.FontSize = size
		if over, err = b.Overflowing(); err != nil {
			return result, err
		}
	}

	// Tier 2: line height
	lh := opts.LineHeight.Start
	for over && lh > opts.LineHeight.Floor && opts.LineHeight.Step > 0 {
		lh = stepDown(lh, opts.LineHeight.Step, opts.LineHeight.Floor)
		if err := b.SetLineHeight(lh); err != nil {
			return result, err
		}
		result.LineHeight = lh
		if over, err = b.Overflowing(); err != nil {
			return result, err
		}
	}

	// Tier 3: drop trailing words
	if over {
		text, err := b.Text()
		if err != nil {
			return result, err
		}
		// Split on spaces only; line breaks stay inside their word.
		words := strings.Split(strings.TrimSuffix(strings.TrimSpace(text), opts.Ellipsis), " ")
		for over && len(words) > opts.MinWords {
			words = words[:len(words)-1]
			result.WordsDropped++
			if err := b.SetText(strings.Join(words, " ") + opts.Ellipsis); err != nil {
				return result, err
			}
			if over, err = b.Overflowing(); err != nil {
				return result, err
			}
		}
	}

	result.Overflowing = over
	return result, nil
}

// stepDown subtracts step, clamps to floor and rounds to two decimals so
// repeated float steps land exactly on the floor.
func stepDown(v, step, floor float64) float64 {
	v = math.Round((v-step)*100) / 100
	if v < floor {
		return floor
	}
	return v
}
