package evsa

import (
	"sort"
	"strings"

	"github.com/L8zn/CMSC-199.2-Thesis/rdlt"
)

// PrimeMarker distinguishes the Level-2 clones inside the combined model.
const PrimeMarker = "'"

// Prime appends the Level-2 marker to an id.
func Prime(id string) string { return id + PrimeMarker }

// Primed reports whether id names a Level-2 clone.
func Primed(id string) bool { return strings.HasSuffix(id, PrimeMarker) }

// Unprime strips the Level-2 marker.
func Unprime(id string) string { return strings.TrimSuffix(id, PrimeMarker) }

// CombineLevels merges the Level-1 graph and the Level-2 subgraphs into the
// single model the mapper consumes. Level-1 vertices and edges keep their
// ids; Level-2 clones are primed and record their rbsGroup, with centers
// flagged.
func CombineLevels(level1 *rdlt.RDLT, level2 []*Level2) *rdlt.RDLT {
	combined := level1.Clone()
	sorted := append([]*Level2(nil), level2...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Center < sorted[j].Center })
	for _, l2 := range sorted {
		for _, v := range l2.Graph.Vertices {
			c := v.Clone()
			c.ID = Prime(v.ID)
			c.RBSGroup = l2.Center
			c.Center = v.ID == l2.Center
			_ = combined.AddVertex(c)
		}
		for _, e := range l2.Graph.Edges {
			c := e.Clone()
			c.From = Prime(e.From)
			c.To = Prime(e.To)
			_ = combined.AddEdge(c)
		}
	}
	return combined
}

// SplitLevels is the inverse of CombineLevels up to iteration order: it
// recovers the Level-1 graph and the Level-2 subgraphs from a combined model.
func SplitLevels(combined *rdlt.RDLT) (*rdlt.RDLT, []*Level2) {
	level1 := rdlt.New()
	byCenter := make(map[string]*Level2)
	var centers []string

	for _, v := range combined.Vertices {
		if !Primed(v.ID) {
			_ = level1.AddVertex(v.Clone())
			continue
		}
		l2, ok := byCenter[v.RBSGroup]
		if !ok {
			l2 = &Level2{Center: v.RBSGroup, Graph: rdlt.New()}
			byCenter[v.RBSGroup] = l2
			centers = append(centers, v.RBSGroup)
		}
		c := v.Clone()
		c.ID = Unprime(v.ID)
		_ = l2.Graph.AddVertex(c)
	}
	for _, e := range combined.Edges {
		if !Primed(e.From) && !Primed(e.To) {
			_ = level1.AddEdge(e.Clone())
			continue
		}
		from := Unprime(e.From)
		group := combined.Vertex(e.From).RBSGroup
		if l2, ok := byCenter[group]; ok {
			c := e.Clone()
			c.From = from
			c.To = Unprime(e.To)
			_ = l2.Graph.AddEdge(c)
		}
	}

	sort.Strings(centers)
	out := make([]*Level2, 0, len(centers))
	for _, c := range centers {
		out = append(out, byCenter[c])
	}
	return level1, out
}
