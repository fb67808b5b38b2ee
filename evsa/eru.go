package evsa

import (
	"math"
	"sort"

	"github.com/L8zn/CMSC-199.2-Thesis/rdlt"
)

// unboundedERU stands in for an infinite expanded-reusability bound when a
// cycle crossing the RBS boundary has no pseudocritical arc. The abstract
// arc still gets a finite L so the mapper can proceed; the behavioural
// analyser exposes the resulting unsoundness.
const unboundedERU = math.MaxInt32 - 1

func abstractBound(eru int) int {
	if eru >= unboundedERU {
		return math.MaxInt32
	}
	return eru + 1
}

// bridgePath is one enumerated concrete path between bridge nodes of an RBS,
// expressed as edge indices of the original diagram.
type bridgePath struct {
	from     string
	to       string
	edges    []int
	vertices []string
}

// calculator holds the cycle inventory of the full diagram and the per-RBS
// local reusability needed by the eRU computation.
type calculator struct {
	r       *rdlt.RDLT
	cycles  [][]int
	inAnyB  map[int]bool     // edge index -> internal to some RBS
	bEdges  map[string][]int // center -> internal edge indices
	ruByIdx map[string]map[int]int
}

func newCalculator(r *rdlt.RDLT, systems map[string]*rbs) *calculator {
	c := &calculator{
		r:       r,
		cycles:  r.SimpleCycles(),
		inAnyB:  make(map[int]bool),
		bEdges:  make(map[string][]int),
		ruByIdx: make(map[string]map[int]int),
	}
	for center, b := range systems {
		for i, e := range r.Edges {
			if b.members[e.From] && b.members[e.To] {
				c.bEdges[center] = append(c.bEdges[center], i)
				c.inAnyB[i] = true
			}
		}
	}
	for center := range systems {
		c.ruByIdx[center] = c.localReusability(center)
	}
	return c
}

// localReusability computes RU' for every edge internal to the RBS: the sum
// of min-L over the B-local simple cycles containing the edge, capped at the
// edge's own L. An edge on no B-local cycle keeps its own L.
func (c *calculator) localReusability(center string) map[int]int {
	internal := make(map[int]bool)
	for _, i := range c.bEdges[center] {
		internal[i] = true
	}
	ru := make(map[int]int, len(c.bEdges[center]))
	sums := make(map[int]int)
	onCycle := make(map[int]bool)
	for _, k := range c.cycles {
		inside := true
		for _, i := range k {
			if !internal[i] {
				inside = false
				break
			}
		}
		if !inside {
			continue
		}
		min := c.r.MinL(k)
		for _, i := range k {
			sums[i] += min
			onCycle[i] = true
		}
	}
	for _, i := range c.bEdges[center] {
		l := c.r.Edges[i].L
		if !onCycle[i] {
			ru[i] = l
			continue
		}
		if sums[i] < l {
			ru[i] = sums[i]
		} else {
			ru[i] = l
		}
	}
	return ru
}

// pca returns the pseudocritical arcs of a cycle: the non-RBS edges whose L
// equals the minimum L among the cycle's non-RBS edges. Empty when every edge
// of the cycle is internal to some RBS.
func (c *calculator) pca(cycle []int) []int {
	min := 0
	found := false
	for _, i := range cycle {
		if c.inAnyB[i] {
			continue
		}
		if !found || c.r.Edges[i].L < min {
			min = c.r.Edges[i].L
			found = true
		}
	}
	if !found {
		return nil
	}
	var out []int
	for _, i := range cycle {
		if !c.inAnyB[i] && c.r.Edges[i].L == min {
			out = append(out, i)
		}
	}
	return out
}

// eru computes the expanded reusability of one abstract path. The second
// return is false when the bound is infinite.
func (c *calculator) eru(b *rbs, p *bridgePath) (int, bool) {
	onPath := make(map[int]bool, len(p.edges))
	internal := make(map[int]bool)
	for _, i := range c.bEdges[b.center] {
		internal[i] = true
	}

	// Local reusability of the path: the weakest hop inside the subsystem.
	pathRU := 0
	first := true
	for _, i := range p.edges {
		onPath[i] = true
		if !internal[i] {
			continue
		}
		ru := c.ruByIdx[b.center][i]
		if first || ru < pathRU {
			pathRU = ru
			first = false
		}
	}
	if first {
		pathRU = 0
	}

	inBridges := make([]string, 0, len(b.inBridge))
	for id := range b.inBridge {
		inBridges = append(inBridges, id)
	}
	sort.Strings(inBridges)

	sum := 0
	bounded := true
	for _, bridge := range inBridges {
		// One arc per edge-key across the cycles touching this bridge and
		// the path, keeping the smaller L on collisions.
		pcaL := make(map[string]int)
		touched := false
		for _, k := range c.cycles {
			if !cycleHits(c.r, k, bridge, onPath) {
				continue
			}
			touched = true
			for _, i := range c.pca(k) {
				key := rdlt.EdgeKey(c.r.Edges[i])
				l := c.r.Edges[i].L
				if prev, ok := pcaL[key]; !ok || l < prev {
					pcaL[key] = l
				}
			}
		}
		contribution := 1
		if touched {
			if len(pcaL) == 0 {
				bounded = false
				contribution = unboundedERU
			} else {
				minPCA := 0
				firstPCA := true
				for _, l := range pcaL {
					if firstPCA || l < minPCA {
						minPCA = l
						firstPCA = false
					}
				}
				lb := c.inBridgeL(b, bridge)
				if lb < minPCA {
					contribution = lb
				} else {
					contribution = minPCA
				}
			}
		}
		sum += contribution * (pathRU + 1)
		if sum >= unboundedERU || sum < 0 {
			return unboundedERU, false
		}
	}
	if !bounded {
		return unboundedERU, false
	}
	return sum, true
}

// inBridgeL is the in-bridge L-value: the smallest L among the bridge's
// incoming edges from outside the subsystem.
func (c *calculator) inBridgeL(b *rbs, bridge string) int {
	min := 0
	first := true
	for _, e := range c.r.InEdges(bridge) {
		if b.members[e.From] {
			continue
		}
		if first || e.L < min {
			min = e.L
			first = false
		}
	}
	if first {
		return 1
	}
	return min
}

// cycleHits reports whether the cycle passes through the bridge vertex and
// contains at least one hop of the abstract path.
func cycleHits(r *rdlt.RDLT, cycle []int, bridge string, onPath map[int]bool) bool {
	vertexHit := false
	edgeHit := false
	for _, i := range cycle {
		e := r.Edges[i]
		if e.From == bridge || e.To == bridge {
			vertexHit = true
		}
		if onPath[i] {
			edgeHit = true
		}
		if vertexHit && edgeHit {
			return true
		}
	}
	return false
}

// bridgePaths enumerates the four buckets of concrete paths for one RBS:
// in-bridge to out-bridge, out-bridge to in-bridge, and self-loop paths at
// either bridge kind. A self-loop path is a simple cycle through its bridge
// that visits no other bridge node.
func (c *calculator) bridgePaths(b *rbs) []*bridgePath {
	sub, toOrig := subgraph(c.r, b)

	var inB, outB []string
	for id := range b.inBridge {
		inB = append(inB, id)
	}
	for id := range b.outBridge {
		outB = append(outB, id)
	}
	sort.Strings(inB)
	sort.Strings(outB)

	var paths []*bridgePath
	add := func(edges []int) {
		orig := make([]int, len(edges))
		for k, i := range edges {
			orig[k] = toOrig[i]
		}
		paths = append(paths, &bridgePath{
			from:     c.r.Edges[orig[0]].From,
			to:       c.r.Edges[orig[len(orig)-1]].To,
			edges:    orig,
			vertices: c.r.PathVertices(orig),
		})
	}

	for _, from := range inB {
		for _, to := range outB {
			if from == to {
				continue
			}
			for _, p := range sub.SimplePaths(from, to) {
				add(p)
			}
		}
	}
	for _, from := range outB {
		for _, to := range inB {
			if from == to {
				continue
			}
			for _, p := range sub.SimplePaths(from, to) {
				add(p)
			}
		}
	}

	// Self-loop buckets share cycles when a node is both bridge kinds.
	loopSeen := make(map[string]bool)
	cycles := sub.SimpleCycles()
	for _, anchor := range append(append([]string{}, inB...), outB...) {
		if loopSeen[anchor] {
			continue
		}
		loopSeen[anchor] = true
		for _, k := range cycles {
			rotated, ok := rotateCycle(sub, k, anchor)
			if !ok {
				continue
			}
			if cycleCrossesOtherBridge(sub, rotated, b, anchor) {
				continue
			}
			add(rotated)
		}
	}
	return paths
}

// subgraph builds the RBS-internal view and the mapping from its edge
// indices back to the original arena.
func subgraph(r *rdlt.RDLT, b *rbs) (*rdlt.RDLT, []int) {
	sub := rdlt.New()
	for _, v := range r.Vertices {
		if b.members[v.ID] {
			_ = sub.AddVertex(v.Clone())
		}
	}
	var toOrig []int
	for i, e := range r.Edges {
		if b.members[e.From] && b.members[e.To] {
			_ = sub.AddEdge(e.Clone())
			toOrig = append(toOrig, i)
		}
	}
	return sub, toOrig
}

// rotateCycle re-anchors a cycle so it starts and ends at anchor.
func rotateCycle(r *rdlt.RDLT, cycle []int, anchor string) ([]int, bool) {
	start := -1
	for k, i := range cycle {
		if r.Edges[i].From == anchor {
			start = k
			break
		}
	}
	if start < 0 {
		return nil, false
	}
	out := make([]int, 0, len(cycle))
	out = append(out, cycle[start:]...)
	out = append(out, cycle[:start]...)
	return out, true
}

func cycleCrossesOtherBridge(r *rdlt.RDLT, cycle []int, b *rbs, anchor string) bool {
	for _, i := range cycle {
		from := r.Edges[i].From
		if from != anchor && b.bridge(from) {
			return true
		}
	}
	return false
}
