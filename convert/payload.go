package convert

import (
	"github.com/L8zn/CMSC-199.2-Thesis/analysis"
	"github.com/L8zn/CMSC-199.2-Thesis/evsa"
	"github.com/L8zn/CMSC-199.2-Thesis/mapper"
	"github.com/L8zn/CMSC-199.2-Thesis/petrinet"
	"github.com/L8zn/CMSC-199.2-Thesis/rdlt"
	"github.com/L8zn/CMSC-199.2-Thesis/sim"
)

// VertexView is the serialised form of a vertex.
type VertexView struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Label       string `json:"label,omitempty"`
	ResetCenter bool   `json:"resetCenter,omitempty"`
	InBridge    bool   `json:"inBridge,omitempty"`
	OutBridge   bool   `json:"outBridge,omitempty"`
	RBSGroup    string `json:"rbsGroup,omitempty"`
	Center      bool   `json:"center,omitempty"`
}

// EdgeView is the serialised form of an edge.
type EdgeView struct {
	From         string   `json:"from"`
	To           string   `json:"to"`
	C            string   `json:"C"`
	L            int      `json:"L"`
	Abstract     bool     `json:"abstract,omitempty"`
	ConcretePath []string `json:"concretePath,omitempty"`
}

// GraphView is the serialised form of an RDLT.
type GraphView struct {
	Vertices []VertexView `json:"vertices"`
	Edges    []EdgeView   `json:"edges"`
}

// LevelView pairs a Level-2 subgraph with its reset center.
type LevelView struct {
	Center string     `json:"center"`
	Graph  *GraphView `json:"graph"`
}

// PreprocessView groups the preprocessor outputs.
type PreprocessView struct {
	Level1 *GraphView   `json:"level1"`
	Level2 []*LevelView `json:"level2"`
}

// PlaceView is the serialised form of a place.
type PlaceView struct {
	ID          string `json:"id"`
	Tokens      int    `json:"tokens"`
	Role        string `json:"role"`
	ResetTarget string `json:"resetTarget,omitempty"`
	RBSGroup    string `json:"rbsGroup,omitempty"`
}

// TransitionView is the serialised form of a transition.
type TransitionView struct {
	ID         string `json:"id"`
	Role       string `json:"role"`
	Activities string `json:"activities,omitempty"`
	RBSGroup   string `json:"rbsGroup,omitempty"`
}

// ArcView is the serialised form of an arc.
type ArcView struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Type   string `json:"type"`
	Weight int    `json:"weight"`
}

// NetView is the serialised form of a Petri net.
type NetView struct {
	Places      []PlaceView       `json:"places"`
	Transitions []TransitionView  `json:"transitions"`
	Arcs        []ArcView         `json:"arcs"`
	Aliases     map[string]string `json:"constraintAliases,omitempty"`
}

// Payload is the full conversion result.
type Payload struct {
	RDLT             *GraphView       `json:"rdlt"`
	Preprocess       *PreprocessView  `json:"preprocess"`
	CombinedModel    *GraphView       `json:"combinedModel"`
	PetriNet         *NetView         `json:"petriNet"`
	MapperLogs       []mapper.StepLog `json:"mapperLogs"`
	StructAnalysis   *analysis.Report `json:"structAnalysis,omitempty"`
	BehaviorAnalysis *sim.Report      `json:"behaviorAnalysis,omitempty"`
}

// Result is what crosses the API boundary: either a payload or an error
// message, with warnings in both cases.
type Result struct {
	Data     *Payload `json:"data,omitempty"`
	Err      string   `json:"error,omitempty"`
	Warnings []string `json:"warnings"`
}

func graphView(r *rdlt.RDLT) *GraphView {
	if r == nil {
		return nil
	}
	g := &GraphView{
		Vertices: make([]VertexView, 0, len(r.Vertices)),
		Edges:    make([]EdgeView, 0, len(r.Edges)),
	}
	for _, v := range r.Vertices {
		g.Vertices = append(g.Vertices, VertexView{
			ID:          v.ID,
			Type:        v.Kind.String(),
			Label:       v.Label,
			ResetCenter: v.ResetCenter,
			InBridge:    v.InBridge,
			OutBridge:   v.OutBridge,
			RBSGroup:    v.RBSGroup,
			Center:      v.Center,
		})
	}
	for _, e := range r.Edges {
		g.Edges = append(g.Edges, EdgeView{
			From:         e.From,
			To:           e.To,
			C:            e.C,
			L:            e.L,
			Abstract:     e.Kind == rdlt.AbstractEdge,
			ConcretePath: e.ConcretePath,
		})
	}
	return g
}

func preprocessView(res *evsa.Result) *PreprocessView {
	pv := &PreprocessView{Level1: graphView(res.Level1)}
	for _, l2 := range res.Level2 {
		pv.Level2 = append(pv.Level2, &LevelView{Center: l2.Center, Graph: graphView(l2.Graph)})
	}
	return pv
}

func netView(n *petrinet.Net) *NetView {
	if n == nil {
		return nil
	}
	v := &NetView{
		Places:      make([]PlaceView, 0, len(n.Places)),
		Transitions: make([]TransitionView, 0, len(n.Transitions)),
		Arcs:        make([]ArcView, 0, len(n.Arcs)),
		Aliases:     n.Aliases.Map(),
	}
	for _, p := range n.Places {
		v.Places = append(v.Places, PlaceView{
			ID:          p.ID,
			Tokens:      p.Tokens,
			Role:        p.Role.String(),
			ResetTarget: p.ResetTarget,
			RBSGroup:    p.RBSGroup,
		})
	}
	for _, t := range n.Transitions {
		v.Transitions = append(v.Transitions, TransitionView{
			ID:         t.ID,
			Role:       t.Role.String(),
			Activities: t.Activities,
			RBSGroup:   t.RBSGroup,
		})
	}
	for _, a := range n.Arcs {
		v.Arcs = append(v.Arcs, ArcView{From: a.From, To: a.To, Type: a.Type.String(), Weight: a.Weight})
	}
	return v
}
