package render

import (
	"fmt"
	"image/color"

	"github.com/ha1tch/gesture-lock/pkg/lock"
)

// Palette holds the colours used to draw a lock.
type Palette struct {
	Background     color.Color
	Outline        color.Color // untouched node outline
	OutlineTouched color.Color // touched node outline
	Inner          color.Color // dot inside a touched node
	Line           color.Color // path line
	Error          color.Color // touched nodes and line after a mismatch
	Label          color.Color
}

// DefaultPalette returns the standard lock colours.
func DefaultPalette() Palette {
	return Palette{
		Background:     color.RGBA{255, 255, 255, 255},
		Outline:        color.NRGBA{108, 119, 138, 255},
		OutlineTouched: color.NRGBA{25, 66, 103, 255},
		Inner:          color.NRGBA{2, 210, 255, 255},
		Line:           color.NRGBA{2, 210, 255, 127},
		Error:          color.NRGBA{255, 0, 0, 127},
		Label:          color.NRGBA{102, 102, 102, 255},
	}
}

// NodeColors returns the outline and inner dot colours for n.
func (p Palette) NodeColors(n lock.NodeView) (outline, inner color.Color) {
	switch {
	case n.ErrorTint:
		return p.Error, p.Error
	case !n.Touched:
		return p.Outline, p.Inner
	default:
		return p.OutlineTouched, p.Inner
	}
}

// svgColor formats c as an SVG colour and opacity.
func svgColor(c color.Color) (string, float64) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B), float64(n.A) / 255
}
