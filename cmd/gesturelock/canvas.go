package main

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/gesture-lock/pkg/lock"
)

// Styles
var (
	styleOutline        = tcell.StyleDefault.Foreground(tcell.NewRGBColor(108, 119, 138))
	styleOutlineTouched = tcell.StyleDefault.Foreground(tcell.NewRGBColor(25, 66, 103))
	styleInner          = tcell.StyleDefault.Foreground(tcell.NewRGBColor(2, 210, 255)).Bold(true)
	styleLine           = tcell.StyleDefault.Foreground(tcell.NewRGBColor(2, 160, 200))
	styleError          = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleStatus         = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgSuccess     = tcell.StyleDefault.Foreground(tcell.ColorGreen).Background(tcell.ColorNavy).Bold(true)
	styleMsgError       = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleHelp           = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// cellAspect is how many units tall a terminal cell is per unit of width.
const cellAspect = 2

// canvas maps terminal cells to lock units. One column is one unit wide and
// one row is cellAspect units tall, so circles look round.
type canvas struct {
	originX, originY int // top-left cell of the grid
	cols             int // grid width in cells, also its width in units
}

// fitCanvas picks the largest square grid that fits a w x h screen with
// statusRows reserved at the bottom. The width is a multiple of 6 so node
// centers fall on cell centers.
func fitCanvas(w, h, statusRows int) canvas {
	avail := h - statusRows
	cols := w
	if byRows := avail * cellAspect; byRows < cols {
		cols = byRows
	}
	cols -= cols % 6
	if cols < 6 {
		cols = 6
	}
	rows := cols / cellAspect
	return canvas{
		originX: max((w-cols)/2, 0),
		originY: max((avail-rows)/2, 0),
		cols:    cols,
	}
}

// width returns the grid width in units.
func (c canvas) width() float64 {
	return float64(c.cols)
}

// toUnits converts a cell position to the unit point at the cell's center.
func (c canvas) toUnits(x, y int) lock.Point {
	return lock.Point{
		X: float64(x-c.originX) + 0.5,
		Y: float64(y-c.originY)*cellAspect + cellAspect/2.0,
	}
}

// toCell converts a unit point to the cell containing it.
func (c canvas) toCell(p lock.Point) (int, int) {
	return c.originX + int(math.Floor(p.X)), c.originY + int(math.Floor(p.Y/cellAspect))
}

// draw paints the render state: node rings, inner dots, then the path.
func (c canvas) draw(s tcell.Screen, rs lock.RenderState) {
	for _, n := range rs.Nodes {
		outline := styleOutline
		if n.Touched {
			outline = styleOutlineTouched
		}
		inner := styleInner
		if n.ErrorTint {
			outline, inner = styleError, styleError
		}

		x0, y0 := c.toCell(lock.Point{X: n.Center.X - n.Radius, Y: n.Center.Y - n.Radius})
		x1, y1 := c.toCell(lock.Point{X: n.Center.X + n.Radius, Y: n.Center.Y + n.Radius})
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				d := c.toUnits(x, y).Dist(n.Center)
				switch {
				case n.Touched && d <= n.Radius/3:
					s.SetContent(x, y, '●', nil, inner)
				case math.Abs(d-n.Radius) < 0.75:
					s.SetContent(x, y, '·', nil, outline)
				}
			}
		}
	}

	points := append([]lock.Point(nil), rs.Trail...)
	if rs.Live != nil {
		points = append(points, *rs.Live)
	}
	line := styleLine
	if rs.Mismatch() {
		line = styleError
	}
	for i := 1; i < len(points); i++ {
		c.drawSegment(s, points[i-1], points[i], line)
	}
}

// drawSegment marks the cells along a segment, leaving inner dots intact.
func (c canvas) drawSegment(s tcell.Screen, a, b lock.Point, style tcell.Style) {
	steps := int(math.Ceil(a.Dist(b) * 2))
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x, y := c.toCell(lock.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t})
		if r, _, _, _ := s.GetContent(x, y); r == '●' {
			continue
		}
		s.SetContent(x, y, '•', nil, style)
	}
}
