package rdlt_test

import (
	"testing"

	"github.com/L8zn/CMSC-199.2-Thesis/rdlt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, vertices []string, edges []*rdlt.Edge) *rdlt.RDLT {
	t.Helper()
	r := rdlt.New()
	for _, id := range vertices {
		require.NoError(t, r.AddVertex(&rdlt.Vertex{ID: id, Kind: rdlt.Controller}))
	}
	for _, e := range edges {
		require.NoError(t, r.AddEdge(e))
	}
	return r
}

func eps(from, to string, l int) *rdlt.Edge {
	return &rdlt.Edge{From: from, To: to, C: rdlt.Epsilon, L: l}
}

func TestAddVertex(t *testing.T) {
	r := rdlt.New()
	require.NoError(t, r.AddVertex(&rdlt.Vertex{ID: "x", Kind: rdlt.Boundary}))

	err := r.AddVertex(&rdlt.Vertex{ID: "x", Kind: rdlt.Entity})
	assert.ErrorIs(t, err, rdlt.ErrDuplicateVertex)

	err = r.AddVertex(&rdlt.Vertex{ID: "y", Kind: rdlt.Controller, ResetCenter: true})
	assert.ErrorIs(t, err, rdlt.ErrInvalidConstraint)
}

func TestAddEdge(t *testing.T) {
	r := build(t, []string{"x", "y"}, nil)

	err := r.AddEdge(&rdlt.Edge{From: "x", To: "missing", C: rdlt.Epsilon, L: 1})
	assert.ErrorIs(t, err, rdlt.ErrUnknownVertex)

	err = r.AddEdge(&rdlt.Edge{From: "x", To: "y", C: rdlt.Epsilon, L: 0})
	assert.ErrorIs(t, err, rdlt.ErrInvalidConstraint)

	require.NoError(t, r.AddEdge(eps("x", "y", 1)))
	assert.Len(t, r.Outgoing("x"), 1)
	assert.Len(t, r.Incoming("y"), 1)
}

func TestReachable(t *testing.T) {
	r := build(t, []string{"x", "y", "z"}, []*rdlt.Edge{
		eps("x", "y", 1),
		eps("y", "z", 1),
	})
	assert.True(t, r.Reachable("x", "z"))
	assert.False(t, r.Reachable("z", "x"))
	assert.False(t, r.Reachable("x", "x"))
}

func TestVerticesInRBS(t *testing.T) {
	r := rdlt.New()
	require.NoError(t, r.AddVertex(&rdlt.Vertex{ID: "c", Kind: rdlt.Entity, ResetCenter: true}))
	for _, id := range []string{"u", "v", "w"} {
		require.NoError(t, r.AddVertex(&rdlt.Vertex{ID: id, Kind: rdlt.Controller}))
	}
	require.NoError(t, r.AddEdge(eps("u", "c", 1)))
	require.NoError(t, r.AddEdge(eps("v", "u", 1)))
	// w reaches u but only through a Σ-constrained edge, so it stays out.
	require.NoError(t, r.AddEdge(&rdlt.Edge{From: "w", To: "u", C: "a", L: 1}))

	assert.Equal(t, []string{"c", "u", "v"}, r.VerticesInRBS("c"))
}

func TestHasLoopingArc(t *testing.T) {
	r := build(t, []string{"x", "y", "z"}, []*rdlt.Edge{
		eps("x", "y", 1),
		eps("y", "x", 1),
		eps("y", "z", 1),
	})
	assert.True(t, r.HasLoopingArc("x"))
	assert.True(t, r.HasLoopingArc("y"))
	assert.False(t, r.HasLoopingArc("z"))

	self := build(t, []string{"s"}, []*rdlt.Edge{eps("s", "s", 1)})
	assert.True(t, self.HasLoopingArc("s"))
}

func TestSimplePaths(t *testing.T) {
	r := build(t, []string{"w", "x", "y", "z"}, []*rdlt.Edge{
		eps("w", "x", 1),
		eps("w", "y", 1),
		eps("x", "z", 1),
		eps("y", "z", 1),
	})
	paths := r.SimplePaths("w", "z")
	require.Len(t, paths, 2)
	assert.True(t, rdlt.Siblings(paths))
	for _, p := range paths {
		assert.Equal(t, "w", r.PathVertices(p)[0])
		assert.Equal(t, "z", r.PathVertices(p)[2])
	}
}

func TestSimplePathsParallelEdges(t *testing.T) {
	r := build(t, []string{"x", "y"}, []*rdlt.Edge{
		eps("x", "y", 1),
		{From: "x", To: "y", C: "a", L: 2},
	})
	assert.Len(t, r.SimplePaths("x", "y"), 2)
}

func TestClone(t *testing.T) {
	r := build(t, []string{"x", "y"}, []*rdlt.Edge{eps("x", "y", 3)})
	c := r.Clone()
	c.Vertex("x").Label = "changed"
	c.Edges[0].L = 9
	assert.Empty(t, r.Vertex("x").Label)
	assert.Equal(t, 3, r.Edges[0].L)
}
