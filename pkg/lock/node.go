// Package lock implements the gesture recognition core of a 3x3
// connect-the-dots lock: node layout, hit testing, path accumulation,
// the gesture lifecycle and its timed auto-reset.
package lock

import "math"

// GridSize is the number of nodes per row and per column.
const GridSize = 3

// NodeCount is the number of nodes in the grid.
const NodeCount = GridSize * GridSize

// Point represents a 2D coordinate in device-independent units.
type Point struct {
	X, Y float64
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Node is one circular touch target of the grid.
type Node struct {
	ID      int // row*3+col, in [0,8]
	Center  Point
	Radius  float64
	Touched bool // part of the current gesture's path
}

// Contains reports whether p lies inside or on the node's circle.
func (n Node) Contains(p Point) bool {
	return p.Dist(n.Center) <= n.Radius
}
