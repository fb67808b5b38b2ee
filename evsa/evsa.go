// Package evsa implements the Expanded Vertex Simplification Algorithm: the
// two-pass preprocessor that turns an RDLT into a Level-1 simplified graph,
// one Level-2 subgraph per reset-bound subsystem, and a combined model the
// structural mapper consumes. Abstract arcs synthesised on Level-1 carry an
// expanded-reusability bound computed from the full input graph.
package evsa

import (
	"fmt"
	"sort"

	"github.com/L8zn/CMSC-199.2-Thesis/rdlt"
)

// ErrInvalidTopology aliases the model-level sentinel; the preprocessor
// raises it when an extension is requested on a graph with no source or no
// sink.
var ErrInvalidTopology = rdlt.ErrInvalidTopology

// DummySource and DummySink are the synthetic endpoints added by the
// extension step.
const (
	DummySource = "i"
	DummySink   = "o"
)

// Level2 is the per-RBS view: every vertex of the subsystem and every edge
// internal to it.
type Level2 struct {
	Center string
	Graph  *rdlt.RDLT
}

// Result bundles the preprocessor outputs. All graphs are fresh values with
// no aliasing into the input.
type Result struct {
	Level1   *rdlt.RDLT
	Level2   []*Level2
	Combined *rdlt.RDLT
	Warnings []string
}

// rbs carries the derived shape of one reset-bound subsystem during
// preprocessing.
type rbs struct {
	center    string
	members   map[string]bool
	inBridge  map[string]bool
	outBridge map[string]bool
}

func (b *rbs) bridge(id string) bool { return b.inBridge[id] || b.outBridge[id] }

// Preprocess runs both EVSA passes on r. When extend is true the Level-1
// graph additionally receives the dummy source i and dummy sink o; an input
// with no source or no sink then fails with ErrInvalidTopology.
func Preprocess(r *rdlt.RDLT, extend bool) (*Result, error) {
	res := &Result{}

	systems, membership := discover(r)

	// Pass R1: the Level-1 graph keeps every vertex outside any RBS plus the
	// bridges, retyped to controllers.
	level1 := rdlt.New()
	for _, v := range r.Vertices {
		group, inRBS := membership[v.ID]
		var b *rbs
		if inRBS {
			b = systems[group]
			if !b.bridge(v.ID) {
				continue
			}
		}
		c := v.Clone()
		c.Kind = rdlt.Controller
		c.ResetCenter = false
		if inRBS {
			c.RBSGroup = group
			c.InBridge = b.inBridge[v.ID]
			c.OutBridge = b.outBridge[v.ID]
		}
		if err := level1.AddVertex(c); err != nil {
			return nil, err
		}
	}
	for _, e := range r.Edges {
		if !level1.HasVertex(e.From) || !level1.HasVertex(e.To) {
			continue
		}
		gf, inF := membership[e.From]
		gt, inT := membership[e.To]
		if inF && inT && gf == gt {
			// Strictly internal to one RBS; lives on Level-2.
			continue
		}
		if err := level1.AddEdge(e.Clone()); err != nil {
			return nil, err
		}
	}

	// Pass R2: one Level-2 subgraph per reset center, then one abstract arc
	// per enumerated bridge-to-bridge path.
	calc := newCalculator(r, systems)
	centers := make([]string, 0, len(systems))
	for c := range systems {
		centers = append(centers, c)
	}
	sort.Strings(centers)
	for _, center := range centers {
		b := systems[center]
		l2, err := buildLevel2(r, b)
		if err != nil {
			return nil, err
		}
		res.Level2 = append(res.Level2, &Level2{Center: center, Graph: l2})

		for _, p := range calc.bridgePaths(b) {
			eru, bounded := calc.eru(b, p)
			if !bounded {
				res.Warnings = append(res.Warnings, fmt.Sprintf(
					"unbounded reuse: abstract arc %s -> %s in RBS %s has no pseudocritical arc",
					p.from, p.to, center))
			}
			if err := level1.AddEdge(&rdlt.Edge{
				From:         p.from,
				To:           p.to,
				C:            rdlt.Epsilon,
				L:            abstractBound(eru),
				Kind:         rdlt.AbstractEdge,
				ConcretePath: p.vertices,
			}); err != nil {
				return nil, err
			}
		}
	}

	if extend {
		if err := extendLevel1(level1); err != nil {
			return nil, err
		}
	}

	res.Level1 = level1
	res.Combined = CombineLevels(level1, res.Level2)
	return res, nil
}

// discover finds every reset-bound subsystem and the RBS membership of each
// vertex. A vertex belonging to more than one RBS is claimed by the first
// center in sorted order.
func discover(r *rdlt.RDLT) (map[string]*rbs, map[string]string) {
	var centers []string
	for _, v := range r.Vertices {
		if v.ResetCenter {
			centers = append(centers, v.ID)
		}
	}
	sort.Strings(centers)

	systems := make(map[string]*rbs, len(centers))
	membership := make(map[string]string)
	for _, c := range centers {
		b := &rbs{
			center:    c,
			members:   make(map[string]bool),
			inBridge:  make(map[string]bool),
			outBridge: make(map[string]bool),
		}
		for _, id := range r.VerticesInRBS(c) {
			if _, taken := membership[id]; taken {
				continue
			}
			b.members[id] = true
			membership[id] = c
		}
		systems[c] = b
	}

	for _, b := range systems {
		for id := range b.members {
			for _, e := range r.InEdges(id) {
				if !b.members[e.From] {
					b.inBridge[id] = true
					break
				}
			}
			for _, e := range r.OutEdges(id) {
				if !b.members[e.To] {
					b.outBridge[id] = true
					break
				}
			}
		}
	}
	return systems, membership
}

func buildLevel2(r *rdlt.RDLT, b *rbs) (*rdlt.RDLT, error) {
	l2 := rdlt.New()
	for _, v := range r.Vertices {
		if !b.members[v.ID] {
			continue
		}
		c := v.Clone()
		c.Kind = rdlt.Controller
		c.ResetCenter = false
		c.RBSGroup = b.center
		c.Center = v.ID == b.center
		c.InBridge = b.inBridge[v.ID]
		c.OutBridge = b.outBridge[v.ID]
		if err := l2.AddVertex(c); err != nil {
			return nil, err
		}
	}
	for _, e := range r.Edges {
		if b.members[e.From] && b.members[e.To] {
			if err := l2.AddEdge(e.Clone()); err != nil {
				return nil, err
			}
		}
	}
	return l2, nil
}

// extendLevel1 attaches the dummy source and sink. Sink-side arcs carry a
// per-terminator constraint so each terminator stays distinguishable.
func extendLevel1(level1 *rdlt.RDLT) error {
	sources := level1.Sources()
	sinks := level1.Sinks()
	if len(sources) == 0 {
		return fmt.Errorf("%w: no source vertex to extend from", ErrInvalidTopology)
	}
	if len(sinks) == 0 {
		return fmt.Errorf("%w: no sink vertex to extend to", ErrInvalidTopology)
	}
	if err := level1.AddVertex(&rdlt.Vertex{ID: DummySource, Kind: rdlt.Controller}); err != nil {
		return err
	}
	if err := level1.AddVertex(&rdlt.Vertex{ID: DummySink, Kind: rdlt.Controller}); err != nil {
		return err
	}
	for _, s := range sources {
		if err := level1.AddEdge(&rdlt.Edge{From: DummySource, To: s, C: rdlt.Epsilon, L: 1}); err != nil {
			return err
		}
	}
	for _, t := range sinks {
		if err := level1.AddEdge(&rdlt.Edge{From: t, To: DummySink, C: t + "_o", L: 1}); err != nil {
			return err
		}
	}
	return nil
}
