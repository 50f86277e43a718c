// Package render draws lock render states as PNG or SVG images.
package render

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strconv"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ha1tch/gesture-lock/pkg/lock"
)

// ErrNoGeometry is returned when the render state has no laid out grid.
var ErrNoGeometry = errors.New("render: grid not laid out")

// supersample is the factor the image is drawn at before downscaling.
const supersample = 4

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Size        int     // output width and height in pixels
	CircleWidth float64 // node outline stroke in output pixels
	LineWidth   float64 // path stroke in output pixels
	Labels      bool    // draw node identities
	FontSize    float64 // label size in points
	Palette     Palette
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Size:        360,
		CircleWidth: 3,
		LineWidth:   6,
		FontSize:    12,
		Palette:     DefaultPalette(),
	}
}

// renderContext holds the target image and the state-to-pixel scale.
type renderContext struct {
	img   *image.RGBA
	scale float64 // pixels per state unit
	face  font.Face
}

func newRenderContext(img *image.RGBA, scale, fontSize float64) (*renderContext, error) {
	ctx := &renderContext{img: img, scale: scale}
	if fontSize <= 0 {
		return ctx, nil
	}
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	ctx.face, err = opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    fontSize * supersample,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	return ctx, nil
}

func (ctx *renderContext) pt(p lock.Point) (float64, float64) {
	return p.X * ctx.scale, p.Y * ctx.scale
}

// RenderPNG renders state to w as a square PNG.
// Draws at 4x size and downsamples for smoother edges.
func RenderPNG(state lock.RenderState, w io.Writer, opts PNGOptions) error {
	img, err := RenderImage(state, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// RenderImage renders state to an image of opts.Size pixels square.
func RenderImage(state lock.RenderState, opts PNGOptions) (*image.RGBA, error) {
	if state.Width <= 0 || len(state.Nodes) == 0 {
		return nil, ErrNoGeometry
	}
	if opts.Size <= 0 {
		opts.Size = DefaultPNGOptions().Size
	}
	if opts.Palette == (Palette{}) {
		opts.Palette = DefaultPalette()
	}

	large := opts.Size * supersample
	img := image.NewRGBA(image.Rect(0, 0, large, large))
	var fontSize float64
	if opts.Labels {
		fontSize = opts.FontSize
	}
	ctx, err := newRenderContext(img, float64(large)/state.Width, fontSize)
	if err != nil {
		return nil, err
	}

	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Palette.Background), image.Point{}, draw.Src)
	drawNodes(ctx, state, opts)
	drawPath(ctx, state, opts)

	final := image.NewRGBA(image.Rect(0, 0, opts.Size, opts.Size))
	draw.CatmullRom.Scale(final, final.Bounds(), img, img.Bounds(), draw.Over, nil)
	return final, nil
}

// drawNodes draws outlines, inner dots and labels. Translucent parts go
// through an overlay so overlapping strokes do not darken.
func drawNodes(ctx *renderContext, state lock.RenderState, opts PNGOptions) {
	pal := opts.Palette
	stroke := opts.CircleWidth * supersample
	overlay := image.NewRGBA(ctx.img.Bounds())

	for _, n := range state.Nodes {
		cx, cy := ctx.pt(n.Center)
		r := n.Radius * ctx.scale
		outline, inner := pal.NodeColors(n)

		target := ctx.img
		if isTranslucent(outline) {
			target = overlay
		}
		drawCircle(target, cx, cy, r, stroke, outline)
		if n.Touched {
			fillCircle(target, cx, cy, r/3, inner)
		}
	}
	draw.Draw(ctx.img, ctx.img.Bounds(), overlay, image.Point{}, draw.Over)

	if ctx.face == nil {
		return
	}
	for _, n := range state.Nodes {
		cx, cy := ctx.pt(n.Center)
		r := n.Radius * ctx.scale
		drawTextCentered(ctx, int(cx), int(cy+r*1.45), strconv.Itoa(n.ID), pal.Label)
	}
}

// drawPath draws the line through visited nodes and, while tracing, on to
// the live pointer.
func drawPath(ctx *renderContext, state lock.RenderState, opts PNGOptions) {
	points := append([]lock.Point(nil), state.Trail...)
	if len(points) == 0 {
		return
	}
	if state.Live != nil {
		points = append(points, *state.Live)
	}

	c := opts.Palette.Line
	if state.Mismatch() {
		c = opts.Palette.Error
	}
	overlay := image.NewRGBA(ctx.img.Bounds())
	thickness := opts.LineWidth * supersample
	for i := 1; i < len(points); i++ {
		x1, y1 := ctx.pt(points[i-1])
		x2, y2 := ctx.pt(points[i])
		drawLine(overlay, x1, y1, x2, y2, thickness, c)
	}
	draw.Draw(ctx.img, ctx.img.Bounds(), overlay, image.Point{}, draw.Over)
}

func isTranslucent(c color.Color) bool {
	_, _, _, a := c.RGBA()
	return a < 0xffff
}

// drawCircle draws a circle outline of the given thickness.
func drawCircle(img *image.RGBA, cx, cy, r, thickness float64, c color.Color) {
	inner := math.Max(r-thickness/2, 0)
	outer := r + thickness/2
	for y := int(cy - outer); y <= int(cy+outer); y++ {
		for x := int(cx - outer); x <= int(cx+outer); x++ {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			if d >= inner && d <= outer {
				img.Set(x, y, c)
			}
		}
	}
}

// fillCircle fills a disc.
func fillCircle(img *image.RGBA, cx, cy, r float64, c color.Color) {
	for y := int(cy - r); y <= int(cy+r); y++ {
		for x := int(cx - r); x <= int(cx+r); x++ {
			if math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy) <= r {
				img.Set(x, y, c)
			}
		}
	}
}

// drawLine draws a line between two points with the given thickness and
// round caps.
func drawLine(img *image.RGBA, x1, y1, x2, y2, thickness float64, c color.Color) {
	dx := x2 - x1
	dy := y2 - y1
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	if steps < 1 {
		steps = 1
	}

	half := thickness / 2
	for i := 0.0; i <= steps; i++ {
		t := i / steps
		fillCircle(img, x1+dx*t, y1+dy*t, half, c)
	}
}

// drawTextCentered draws text horizontally centred on x with its baseline
// at y.
func drawTextCentered(ctx *renderContext, x, y int, text string, c color.Color) {
	width := font.MeasureString(ctx.face, text).Ceil()
	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: ctx.face,
		Dot:  fixed.Point26_6{X: fixed.I(x - width/2), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
