package lock

// Path accumulates the node identities visited during one gesture.
type Path struct {
	ids      []int
	trail    Point
	hasTrail bool
}

// Visit appends id unless it is already on the path.
// It returns true if id was appended.
func (p *Path) Visit(id int) bool {
	if p.Contains(id) {
		return false
	}
	p.ids = append(p.ids, id)
	return true
}

// Contains reports whether id has been visited.
func (p *Path) Contains(id int) bool {
	for _, v := range p.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Len returns the number of visited nodes.
func (p *Path) Len() int {
	return len(p.ids)
}

// IDs returns a copy of the visited identities in visit order.
func (p *Path) IDs() []int {
	out := make([]int, len(p.ids))
	copy(out, p.ids)
	return out
}

// Encoding concatenates the visited identities as decimal digits.
func (p *Path) Encoding() string {
	return EncodePath(p.ids)
}

// SetTrail records the live pointer position.
func (p *Path) SetTrail(pt Point) {
	p.trail = pt
	p.hasTrail = true
}

// FreezeTrail drops the live pointer position so the line stops at the last
// visited node.
func (p *Path) FreezeTrail() {
	p.trail = Point{}
	p.hasTrail = false
}

// Trail returns the live pointer position, if any.
func (p *Path) Trail() (Point, bool) {
	return p.trail, p.hasTrail
}

// Reset clears the path and the trailing coordinate.
func (p *Path) Reset() {
	p.ids = p.ids[:0]
	p.FreezeTrail()
}
