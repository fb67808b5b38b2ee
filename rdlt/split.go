package rdlt

import "sort"

// SplitCase holds the four limbs of the split-case-1 classification. Only the
// disjunction drives the mapper; the individual flags feed its step log.
type SplitCase struct {
	SiblingORJoin bool
	NonSibling    bool
	AbstractOut   bool
	Looping       bool
}

// Any reports whether any limb holds.
func (s SplitCase) Any() bool {
	return s.SiblingORJoin || s.NonSibling || s.AbstractOut || s.Looping
}

// ORJoin reports whether id has at least two incoming edges all sharing one
// constraint value.
func (r *RDLT) ORJoin(id string) bool {
	in := r.incoming[id]
	if len(in) < 2 {
		return false
	}
	c := r.Edges[in[0]].C
	for _, i := range in[1:] {
		if r.Edges[i].C != c {
			return false
		}
	}
	return true
}

// SplitCase1 classifies a vertex with two or more outgoing edges. The second
// return is false when id does not split at all.
//
// The limbs, in order: a descendant OR-join reached by sibling paths; a
// non-sibling split (at least two elementary paths to some candidate join
// with no sibling pair among the paths to any candidate, or no candidate
// joins downstream at all); an abstract outgoing edge; membership in a cycle.
func (r *RDLT) SplitCase1(id string) (SplitCase, bool) {
	var sc SplitCase
	if len(r.outgoing[id]) < 2 {
		// A pure self-loop still splits; the loop limb alone qualifies it.
		for _, i := range r.outgoing[id] {
			if r.Edges[i].To == id {
				sc.Looping = true
				return sc, true
			}
		}
		return sc, false
	}

	for _, i := range r.outgoing[id] {
		if r.Edges[i].Kind == AbstractEdge {
			sc.AbstractOut = true
			break
		}
	}
	sc.Looping = r.HasLoopingArc(id)

	// Candidate joins are descendant OR-joins.
	var candidates []string
	for _, v := range r.Vertices {
		if v.ID == id || !r.ORJoin(v.ID) {
			continue
		}
		if r.Reachable(id, v.ID) {
			candidates = append(candidates, v.ID)
		}
	}
	sort.Strings(candidates)

	multiPath := false
	siblingAny := false
	for _, j := range candidates {
		paths := r.SimplePaths(id, j)
		if len(paths) < 2 {
			continue
		}
		multiPath = true
		if Siblings(paths) {
			siblingAny = true
			sc.SiblingORJoin = true
		}
	}
	if !siblingAny {
		sc.NonSibling = multiPath || len(candidates) == 0
	}

	return sc, true
}
