package petrinet_test

import (
	"testing"

	"github.com/L8zn/CMSC-199.2-Thesis/petrinet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallNet(t *testing.T) *petrinet.Net {
	t.Helper()
	n := petrinet.New()
	_, err := n.AddPlace(&petrinet.Place{ID: "Pim", Role: petrinet.GlobalSource, Initial: 1})
	require.NoError(t, err)
	_, err = n.AddPlace(&petrinet.Place{ID: "Po", Role: petrinet.GlobalSink})
	require.NoError(t, err)
	_, err = n.AddTransition(&petrinet.Transition{ID: "Ti", Role: petrinet.Check})
	require.NoError(t, err)
	n.AddArc("Pim", "Ti", petrinet.Normal, 1)
	n.AddArc("Ti", "Po", petrinet.Normal, 1)
	return n
}

func TestAddDuplicate(t *testing.T) {
	n := smallNet(t)
	_, err := n.AddPlace(&petrinet.Place{ID: "Pim"})
	assert.ErrorIs(t, err, petrinet.ErrDuplicateNode)
	_, err = n.AddTransition(&petrinet.Transition{ID: "Pim"})
	assert.ErrorIs(t, err, petrinet.ErrDuplicateNode)
}

func TestInitialTokens(t *testing.T) {
	n := smallNet(t)
	assert.Equal(t, 1, n.Place("Pim").Tokens)
	assert.Equal(t, petrinet.Marking{"Pim": 1, "Po": 0}, n.Marking())
}

func TestRewire(t *testing.T) {
	n := smallNet(t)
	a := n.Outputs("Pim")[0]
	_, err := n.AddPlace(&petrinet.Place{ID: "Pm", Role: petrinet.Traversed})
	require.NoError(t, err)
	n.Rewire(a, "Pm", a.To)
	assert.Empty(t, n.Outputs("Pim"))
	require.Len(t, n.Outputs("Pm"), 1)
	assert.Equal(t, "Ti", n.Outputs("Pm")[0].To)
}

func TestSnapshotRevert(t *testing.T) {
	n := smallNet(t)
	n.UpdateState()
	n.Place("Pim").Tokens = 0
	n.Place("Po").Tokens = 7
	n.Transition("Ti").Enabled = true
	n.Arcs[0].Fired = true

	// A second capture without a revert keeps the first snapshot.
	n.UpdateState()

	n.RevertState()
	assert.Equal(t, 1, n.Place("Pim").Tokens)
	assert.Equal(t, 0, n.Place("Po").Tokens)
	assert.False(t, n.Transition("Ti").Enabled)
	assert.False(t, n.Arcs[0].Fired)
}

func TestRevertWithoutSnapshot(t *testing.T) {
	n := smallNet(t)
	n.Place("Po").Tokens = 3
	n.RevertState()
	assert.Equal(t, 3, n.Place("Po").Tokens)
}
