package lock

// NodeView is the drawable state of one node.
type NodeView struct {
	ID        int
	Center    Point
	Radius    float64
	Touched   bool
	ErrorTint bool // touched node of a gesture that did not match
}

// RenderState is everything a drawing layer needs for one frame.
type RenderState struct {
	State    State
	Width    float64
	Nodes    []NodeView
	Trail    []Point // centers of visited nodes in visit order
	Live     *Point  // live pointer end of the line, only while Tracing
	Finished bool
	Matched  bool
}

// Mismatch reports whether the frame shows a failed gesture.
func (rs RenderState) Mismatch() bool {
	return rs.Finished && !rs.Matched
}

// RenderState captures the machine's drawable state.
func (m *Machine) RenderState() RenderState {
	rs := RenderState{
		State:    m.State(),
		Width:    m.grid.Width(),
		Finished: m.outcome.Finished,
		Matched:  m.outcome.Matched,
	}
	mismatch := rs.Mismatch()

	for _, n := range m.grid.nodes {
		rs.Nodes = append(rs.Nodes, NodeView{
			ID:        n.ID,
			Center:    n.Center,
			Radius:    n.Radius,
			Touched:   n.Touched,
			ErrorTint: mismatch && n.Touched,
		})
	}
	for _, id := range m.path.ids {
		if n := m.grid.node(id); n != nil {
			rs.Trail = append(rs.Trail, n.Center)
		}
	}
	if pt, ok := m.path.Trail(); ok && rs.State == Tracing {
		live := pt
		rs.Live = &live
	}
	return rs
}
