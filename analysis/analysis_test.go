package analysis_test

import (
	"testing"

	"github.com/L8zn/CMSC-199.2-Thesis/analysis"
	"github.com/L8zn/CMSC-199.2-Thesis/evsa"
	"github.com/L8zn/CMSC-199.2-Thesis/mapper"
	"github.com/L8zn/CMSC-199.2-Thesis/petrinet"
	"github.com/L8zn/CMSC-199.2-Thesis/rdlt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainNet(t *testing.T) *petrinet.Net {
	t.Helper()
	r := rdlt.New()
	for _, id := range []string{"x", "y"} {
		require.NoError(t, r.AddVertex(&rdlt.Vertex{ID: id, Kind: rdlt.Controller}))
	}
	require.NoError(t, r.AddEdge(&rdlt.Edge{From: "x", To: "y", C: rdlt.Epsilon, L: 1}))
	pre, err := evsa.Preprocess(r, true)
	require.NoError(t, err)
	net, _, err := mapper.Map(pre.Combined)
	require.NoError(t, err)
	return net
}

func TestAnalyzeChain(t *testing.T) {
	net := chainNet(t)
	rep := analysis.Analyze(net)

	assert.Equal(t, len(net.Places), rep.PlacesCount)
	assert.Equal(t, len(net.Transitions), rep.TransitionsCount)
	assert.Equal(t, "Pim", rep.ConnectivityDetails.Source)
	assert.Equal(t, "Po", rep.ConnectivityDetails.Sink)
	assert.Empty(t, rep.ConnectivityDetails.Unreached)
	assert.Empty(t, rep.ConnectivityDetails.IsolatedNodes)
	assert.False(t, rep.ConnectivityDetails.StronglyConnected)
	assert.Contains(t, rep.ConnectivityDetails.Auxiliary, "Pεnyx")

	assert.Equal(t, []string{"Pim"}, rep.Roles["globalSource"])
	assert.Equal(t, []string{"Po"}, rep.Roles["globalSink"])
	assert.Contains(t, rep.Roles["traverse"], "Tεyx")
	assert.Empty(t, rep.Issues)
}

func TestAnalyzeEmptyNet(t *testing.T) {
	rep := analysis.Analyze(petrinet.New())
	assert.Zero(t, rep.PlacesCount)
	assert.Zero(t, rep.TransitionsCount)
	assert.Contains(t, rep.Issues, "no globalSource place")
	assert.Contains(t, rep.Issues, "no globalSink place")
	assert.Nil(t, analysis.Incidence(petrinet.New()))
}

func TestIncidence(t *testing.T) {
	net := petrinet.New()
	_, err := net.AddPlace(&petrinet.Place{ID: "P1", Initial: 1})
	require.NoError(t, err)
	_, err = net.AddPlace(&petrinet.Place{ID: "P2"})
	require.NoError(t, err)
	_, err = net.AddTransition(&petrinet.Transition{ID: "T"})
	require.NoError(t, err)
	net.AddArc("P1", "T", petrinet.Normal, 1)
	net.AddArc("T", "P2", petrinet.Normal, 2)

	inc := analysis.Incidence(net)
	require.NotNil(t, inc)
	assert.Equal(t, -1.0, inc.At(0, 0))
	assert.Equal(t, 2.0, inc.At(0, 1))
}

func TestAnalyzeReportsDanglingTransition(t *testing.T) {
	net := petrinet.New()
	_, err := net.AddTransition(&petrinet.Transition{ID: "T"})
	require.NoError(t, err)
	rep := analysis.Analyze(net)
	assert.Contains(t, rep.Issues, "transition T has no inputs")
	assert.Contains(t, rep.Issues, "transition T has no outputs")
}
