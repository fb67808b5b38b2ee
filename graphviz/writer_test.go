package graphviz_test

import (
	"bytes"
	"testing"

	"github.com/L8zn/CMSC-199.2-Thesis/evsa"
	"github.com/L8zn/CMSC-199.2-Thesis/graphviz"
	"github.com/L8zn/CMSC-199.2-Thesis/mapper"
	"github.com/L8zn/CMSC-199.2-Thesis/rdlt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chain(t *testing.T) *rdlt.RDLT {
	t.Helper()
	r := rdlt.New()
	for _, id := range []string{"x", "y"} {
		require.NoError(t, r.AddVertex(&rdlt.Vertex{ID: id, Kind: rdlt.Controller}))
	}
	require.NoError(t, r.AddEdge(&rdlt.Edge{From: "x", To: "y", C: rdlt.Epsilon, L: 1}))
	return r
}

func TestRDLTWriterFlush(t *testing.T) {
	var buf bytes.Buffer
	w := graphviz.NewRDLTWriter(&graphviz.Config{})
	require.NoError(t, w.Flush(&buf, chain(t)))
	out := buf.String()
	assert.Contains(t, out, "x")
	assert.Contains(t, out, "y")
}

func TestNetWriterFlush(t *testing.T) {
	pre, err := evsa.Preprocess(chain(t), true)
	require.NoError(t, err)
	net, _, err := mapper.Map(pre.Combined)
	require.NoError(t, err)

	var buf bytes.Buffer
	w := graphviz.NewNetWriter(&graphviz.Config{Format: graphviz.DOT})
	require.NoError(t, w.Flush(&buf, net))
	assert.Contains(t, buf.String(), "Pim")
}
