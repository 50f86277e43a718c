package render

import (
	"fmt"
	"strings"

	"github.com/ha1tch/gesture-lock/pkg/lock"
)

// SVGOptions controls SVG rendering.
type SVGOptions struct {
	Size        int     // width and height in pixels
	CircleWidth float64 // node outline stroke
	LineWidth   float64 // path stroke
	Labels      bool    // draw node identities
	FontSize    int
	Palette     Palette
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Size:        360,
		CircleWidth: 3,
		LineWidth:   6,
		FontSize:    12,
		Palette:     DefaultPalette(),
	}
}

// RenderSVG renders state as an SVG document.
func RenderSVG(state lock.RenderState, opts SVGOptions) (string, error) {
	if state.Width <= 0 || len(state.Nodes) == 0 {
		return "", ErrNoGeometry
	}
	if opts.Size <= 0 {
		opts.Size = DefaultSVGOptions().Size
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 12
	}
	if opts.Palette == (Palette{}) {
		opts.Palette = DefaultPalette()
	}
	pal := opts.Palette
	scale := float64(opts.Size) / state.Width
	mismatch := state.Mismatch()

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		opts.Size, opts.Size, opts.Size, opts.Size))
	bg, bgOpacity := svgColor(pal.Background)
	sb.WriteString(fmt.Sprintf(`  <rect width="100%%" height="100%%" fill="%s" fill-opacity="%.2f"/>`+"\n", bg, bgOpacity))

	for _, n := range state.Nodes {
		cx, cy, r := n.Center.X*scale, n.Center.Y*scale, n.Radius*scale
		outline, inner := pal.NodeColors(n)
		oc, oo := svgColor(outline)
		sb.WriteString(fmt.Sprintf(`  <circle class="node" data-id="%d" cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-opacity="%.2f" stroke-width="%.1f"/>`+"\n",
			n.ID, cx, cy, r, oc, oo, opts.CircleWidth))
		if n.Touched {
			ic, io := svgColor(inner)
			sb.WriteString(fmt.Sprintf(`  <circle class="dot" data-id="%d" cx="%.2f" cy="%.2f" r="%.2f" fill="%s" fill-opacity="%.2f"/>`+"\n",
				n.ID, cx, cy, r/3, ic, io))
		}
		if opts.Labels {
			lc, _ := svgColor(pal.Label)
			sb.WriteString(fmt.Sprintf(`  <text x="%.2f" y="%.2f" font-family="Helvetica, Arial, sans-serif" font-size="%d" text-anchor="middle" fill="%s">%d</text>`+"\n",
				cx, cy+r*1.45, opts.FontSize, lc, n.ID))
		}
	}

	points := append([]lock.Point(nil), state.Trail...)
	if len(points) > 0 && state.Live != nil {
		points = append(points, *state.Live)
	}
	if len(points) > 1 {
		lineColor := pal.Line
		if mismatch {
			lineColor = pal.Error
		}
		lc, lo := svgColor(lineColor)
		coords := make([]string, len(points))
		for i, p := range points {
			coords[i] = fmt.Sprintf("%.2f,%.2f", p.X*scale, p.Y*scale)
		}
		sb.WriteString(fmt.Sprintf(`  <polyline class="path" points="%s" fill="none" stroke="%s" stroke-opacity="%.2f" stroke-width="%.1f" stroke-linecap="round" stroke-linejoin="round"/>`+"\n",
			strings.Join(coords, " "), lc, lo, opts.LineWidth))
	}

	sb.WriteString("</svg>\n")
	return sb.String(), nil
}
