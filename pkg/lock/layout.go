package lock

import "math"

// Grid computes the node geometry once, from the first positive width it is
// given. Later widths are ignored: the grid does not re-layout on resize.
type Grid struct {
	nodes []Node
	width float64
}

// Layout builds the nine nodes from width if that has not happened yet.
// It returns true when the grid is ready after the call.
func (g *Grid) Layout(width float64) bool {
	if g.nodes != nil {
		return true
	}
	// divide into 6 half-cells so each column is centred in a 2-cell span
	cell := width / 6
	if !(cell > 0) || math.IsInf(cell, 1) {
		return false
	}

	nodes := make([]Node, 0, NodeCount)
	for row := 0; row < GridSize; row++ {
		for col := 0; col < GridSize; col++ {
			nodes = append(nodes, Node{
				ID: row*GridSize + col,
				Center: Point{
					X: cell * float64(2*col+1),
					Y: cell * float64(2*row+1),
				},
				Radius: cell * 0.5,
			})
		}
	}
	g.nodes = nodes
	g.width = width
	log.Debugf("Grid laid out at width %.1f (cell %.1f)", width, cell)
	return true
}

// Ready reports whether node geometry exists.
func (g *Grid) Ready() bool {
	return g.nodes != nil
}

// Width returns the width the grid was laid out with, or 0.
func (g *Grid) Width() float64 {
	return g.width
}

// Nodes returns a copy of the nodes in identity order.
func (g *Grid) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// node returns a pointer to the node with the given identity.
func (g *Grid) node(id int) *Node {
	for i := range g.nodes {
		if g.nodes[i].ID == id {
			return &g.nodes[i]
		}
	}
	return nil
}

// setTouched sets the touched flag of node id.
func (g *Grid) setTouched(id int, touched bool) {
	if n := g.node(id); n != nil {
		n.Touched = touched
	}
}

// clearTouched clears every touched flag.
func (g *Grid) clearTouched() {
	for i := range g.nodes {
		g.nodes[i].Touched = false
	}
}
