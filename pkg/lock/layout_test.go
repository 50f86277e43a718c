package lock

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridLayoutDefersWithoutWidth(t *testing.T) {
	var g Grid
	for _, w := range []float64{0, -12} {
		assert.False(t, g.Layout(w), "width %v", w)
		assert.False(t, g.Ready())
		assert.Empty(t, g.Nodes())
	}
}

func TestGridLayoutRejectsNonFiniteWidth(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		var g Grid
		assert.False(t, g.Layout(bad), "width %v", bad)
		assert.False(t, g.Ready())

		require.True(t, g.Layout(600), "valid width after %v", bad)
		assert.Equal(t, 600.0, g.Width())
		id, hit := HitTest(g.Nodes(), Point{X: 100, Y: 100})
		assert.True(t, hit)
		assert.Equal(t, 0, id)
	}
}

func TestGridLayoutGeometry(t *testing.T) {
	var g Grid
	require.True(t, g.Layout(600))

	nodes := g.Nodes()
	require.Len(t, nodes, NodeCount)
	for row := 0; row < GridSize; row++ {
		for col := 0; col < GridSize; col++ {
			n := nodes[row*3+col]
			assert.Equal(t, row*3+col, n.ID)
			assert.Equal(t, Point{X: float64(100 * (2*col + 1)), Y: float64(100 * (2*row + 1))}, n.Center)
			assert.Equal(t, 50.0, n.Radius)
			assert.False(t, n.Touched)
		}
	}
}

func TestGridLayoutIsIdempotent(t *testing.T) {
	var g Grid
	require.True(t, g.Layout(360))
	first := g.Nodes()

	require.True(t, g.Layout(360))
	assert.Equal(t, first, g.Nodes())

	// A later resize does not re-layout
	require.True(t, g.Layout(1200))
	assert.Equal(t, first, g.Nodes())
	assert.Equal(t, 360.0, g.Width())
}

func TestGridNodesIsACopy(t *testing.T) {
	var g Grid
	g.Layout(60)
	nodes := g.Nodes()
	nodes[0].Touched = true
	assert.False(t, g.Nodes()[0].Touched)
}
