package lock

// HitTest returns the identity of the node containing p.
// When several nodes contain p the lowest identity wins, whatever the
// order of nodes.
func HitTest(nodes []Node, p Point) (int, bool) {
	best := -1
	for _, n := range nodes {
		if !n.Contains(p) {
			continue
		}
		if best < 0 || n.ID < best {
			best = n.ID
		}
	}
	return best, best >= 0
}
