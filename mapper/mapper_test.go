package mapper_test

import (
	"sort"
	"testing"

	"github.com/L8zn/CMSC-199.2-Thesis/evsa"
	"github.com/L8zn/CMSC-199.2-Thesis/mapper"
	"github.com/L8zn/CMSC-199.2-Thesis/petrinet"
	"github.com/L8zn/CMSC-199.2-Thesis/rdlt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eps(from, to string, l int) *rdlt.Edge {
	return &rdlt.Edge{From: from, To: to, C: rdlt.Epsilon, L: l}
}

func controllers(t *testing.T, ids ...string) *rdlt.RDLT {
	t.Helper()
	r := rdlt.New()
	for _, id := range ids {
		require.NoError(t, r.AddVertex(&rdlt.Vertex{ID: id, Kind: rdlt.Controller}))
	}
	return r
}

func mapModel(t *testing.T, r *rdlt.RDLT, extend bool) (*petrinet.Net, []mapper.StepLog) {
	t.Helper()
	pre, err := evsa.Preprocess(r, extend)
	require.NoError(t, err)
	net, logs, err := mapper.Map(pre.Combined)
	require.NoError(t, err)
	return net, logs
}

func checkInvariants(t *testing.T, net *petrinet.Net) {
	t.Helper()
	assert.LessOrEqual(t, len(net.FindPlaces(petrinet.GlobalSource)), 1)
	assert.LessOrEqual(t, len(net.FindPlaces(petrinet.GlobalSink)), 1)
	for _, a := range net.Arcs {
		assert.NotEqual(t, petrinet.Abstract, a.Type, a.String())
	}
	for _, tr := range net.Transitions {
		assert.NotEmpty(t, net.Inputs(tr.ID), tr.ID)
		assert.NotEmpty(t, net.Outputs(tr.ID), tr.ID)
	}
}

// Two-vertex ε-chain: the smallest complete mapping.
func TestMapChain(t *testing.T) {
	r := controllers(t, "x", "y")
	require.NoError(t, r.AddEdge(eps("x", "y", 1)))

	net, logs := mapModel(t, r, true)
	checkInvariants(t, net)
	assert.Len(t, logs, 9)

	for _, id := range []string{"Tx", "Ty", "Tεyx"} {
		assert.NotNil(t, net.Transition(id), id)
	}
	require.NotNil(t, net.Place("Pym"))
	assert.Equal(t, petrinet.Traversed, net.Place("Pym").Role)

	checked := net.Place("Pεyx")
	require.NotNil(t, checked)
	assert.Equal(t, petrinet.Checked, checked.Role)

	aux := net.Place("Pεnyx")
	require.NotNil(t, aux)
	assert.Equal(t, petrinet.Auxiliary, aux.Role)
	assert.Equal(t, 1, aux.Tokens)
	assert.Equal(t, "Tεyx", aux.ResetTarget)

	source := net.Place("Pim")
	require.NotNil(t, source)
	assert.Equal(t, petrinet.GlobalSource, source.Role)
	assert.Equal(t, 1, source.Tokens)
	require.NotNil(t, net.Place("Po"))
	assert.Equal(t, petrinet.GlobalSink, net.Place("Po").Role)
}

// Split without an OR-join: the split place appears and both constrained
// branches get aliased checked places feeding one join transition.
func TestMapSplitWithoutORJoin(t *testing.T) {
	r := controllers(t, "w", "x", "y", "z")
	require.NoError(t, r.AddEdge(eps("w", "x", 1)))
	require.NoError(t, r.AddEdge(eps("w", "y", 1)))
	require.NoError(t, r.AddEdge(&rdlt.Edge{From: "x", To: "z", C: "a", L: 1}))
	require.NoError(t, r.AddEdge(&rdlt.Edge{From: "y", To: "z", C: "b", L: 1}))

	net, _ := mapModel(t, r, true)
	checkInvariants(t, net)

	split := net.Place("Pwsplit")
	require.NotNil(t, split)
	assert.Equal(t, petrinet.Split, split.Role)

	require.NotNil(t, net.Place("Paz"))
	require.NotNil(t, net.Place("Pbz"))
	assert.Equal(t, petrinet.Checked, net.Place("Paz").Role)
	assert.True(t, net.HasArc("Paz", "TJz", petrinet.Normal))
	assert.True(t, net.HasArc("Pbz", "TJz", petrinet.Normal))

	var joins []string
	for _, tr := range net.FindTransitions(petrinet.Traverse) {
		if tr.ID == "TJz" {
			joins = append(joins, tr.ID)
		}
	}
	assert.Len(t, joins, 1)

	// Different constraints cap the join budget at min(L).
	require.NotNil(t, net.Place("PJz"))
	assert.Equal(t, 1, net.Place("PJz").Tokens)

	alias, ok := net.Aliases.Alias("a")
	require.True(t, ok)
	assert.Equal(t, "a", alias)
}

// Shared constraints at a join sum their bounds instead.
func TestMapJoinTokensSharedConstraint(t *testing.T) {
	r := controllers(t, "x", "y", "z")
	require.NoError(t, r.AddEdge(&rdlt.Edge{From: "x", To: "z", C: "a", L: 2}))
	require.NoError(t, r.AddEdge(&rdlt.Edge{From: "y", To: "z", C: "a", L: 3}))

	net, _ := mapModel(t, r, true)
	require.NotNil(t, net.Place("PJz"))
	assert.Equal(t, 5, net.Place("PJz").Tokens)
}

// Mix-join: an ε-edge and a Σ-edge share the target z.
func TestMapMixJoin(t *testing.T) {
	r := controllers(t, "x", "y", "z")
	require.NoError(t, r.AddEdge(&rdlt.Edge{From: "x", To: "z", C: "a", L: 1}))
	require.NoError(t, r.AddEdge(eps("y", "z", 1)))

	net, _ := mapModel(t, r, true)
	checkInvariants(t, net)

	unc := net.Place("Paε")
	require.NotNil(t, unc)
	assert.Equal(t, petrinet.Unconstrained, unc.Role)
	assert.True(t, net.HasArc("Paε", "Tεzy", petrinet.Normal))
	assert.True(t, net.HasArc("Tεzy", "Paε", petrinet.Normal))
	assert.True(t, net.HasArc("Tx", "Paε", petrinet.Normal))
	assert.True(t, net.HasArc("Paε", "To", petrinet.ResetArc))

	pm := net.Place("Pzm")
	require.NotNil(t, pm)
	assert.Equal(t, petrinet.MixJoin, pm.Role)
	assert.True(t, net.HasArc("Pzm", "Tz", petrinet.ResetArc))
}

// A reset-bound subsystem with an out-bridge gets a consensus place and a
// reset transition wired with both arc types, and the Level-2 mirrors hook
// into the Level-1 traversed places.
func TestMapRBS(t *testing.T) {
	r := rdlt.New()
	require.NoError(t, r.AddVertex(&rdlt.Vertex{ID: "x1", Kind: rdlt.Boundary}))
	require.NoError(t, r.AddVertex(&rdlt.Vertex{ID: "c", Kind: rdlt.Entity, ResetCenter: true}))
	require.NoError(t, r.AddVertex(&rdlt.Vertex{ID: "u", Kind: rdlt.Controller}))
	require.NoError(t, r.AddVertex(&rdlt.Vertex{ID: "z", Kind: rdlt.Controller}))
	require.NoError(t, r.AddEdge(&rdlt.Edge{From: "x1", To: "u", C: "a", L: 1}))
	require.NoError(t, r.AddEdge(eps("u", "c", 3)))
	require.NoError(t, r.AddEdge(eps("c", "z", 1)))

	net, _ := mapModel(t, r, true)
	checkInvariants(t, net)

	cons := net.Place("Pconsc")
	require.NotNil(t, cons)
	assert.Equal(t, petrinet.Consensus, cons.Role)
	trr := net.Transition("Trrc")
	require.NotNil(t, trr)
	assert.Equal(t, petrinet.Reset, trr.Role)
	assert.True(t, net.HasArc("Pconsc", "Trrc", petrinet.Normal))
	assert.True(t, net.HasArc("Pconsc", "Trrc", petrinet.ResetArc))

	// The out-bridge mirror feeds consensus; the in-bridge traversed place
	// feeds its mirror.
	assert.True(t, net.HasArc("Tc'", "Pconsc", petrinet.Normal))
	assert.True(t, net.HasArc("Pum", "Tu'", petrinet.Normal))

	// The abstract arc became an ε-transition with the eRU+1 budget and the
	// reset transition restores it.
	aux := net.Place("Pεncu1")
	require.NotNil(t, aux)
	assert.Equal(t, 5, aux.Tokens)
	assert.Equal(t, "c", aux.RBSGroup)
	assert.True(t, net.HasArc("Pεncu1", "Trrc", petrinet.ResetArc))
	assert.True(t, net.HasArc("Trrc", "Pεncu1", petrinet.Normal))
}

func TestMapEmpty(t *testing.T) {
	pre, err := evsa.Preprocess(rdlt.New(), false)
	require.NoError(t, err)
	net, _, err := mapper.Map(pre.Combined)
	require.NoError(t, err)
	assert.Empty(t, net.Places)
	assert.Empty(t, net.Transitions)
}

// The mapped net is independent of input iteration details: mapping the
// same model twice yields identical node and arc sets.
func TestMapDeterministic(t *testing.T) {
	r := controllers(t, "w", "x", "y", "z")
	require.NoError(t, r.AddEdge(eps("w", "x", 1)))
	require.NoError(t, r.AddEdge(eps("w", "y", 1)))
	require.NoError(t, r.AddEdge(&rdlt.Edge{From: "x", To: "z", C: "a", L: 1}))
	require.NoError(t, r.AddEdge(&rdlt.Edge{From: "y", To: "z", C: "b", L: 1}))

	first, _ := mapModel(t, r, true)
	second, _ := mapModel(t, r, true)

	ids := func(n *petrinet.Net) []string {
		var out []string
		for _, p := range n.Places {
			out = append(out, p.ID)
		}
		for _, tr := range n.Transitions {
			out = append(out, tr.ID)
		}
		for _, a := range n.Arcs {
			out = append(out, a.String())
		}
		sort.Strings(out)
		return out
	}
	assert.Equal(t, ids(first), ids(second))
}

func TestStepLogs(t *testing.T) {
	r := controllers(t, "x", "y")
	require.NoError(t, r.AddEdge(eps("x", "y", 1)))
	_, logs := mapModel(t, r, true)
	require.Len(t, logs, 9)
	for i, log := range logs {
		assert.Equal(t, i+1, log.Step)
		assert.NotEmpty(t, log.Title)
	}
}
