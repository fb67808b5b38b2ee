package rdlt

// SimplePaths enumerates every elementary path from from to to as a sequence
// of edge indices. No vertex repeats within one path, so the enumeration is
// finite even on cyclic graphs. Parallel edges yield distinct paths.
func (r *RDLT) SimplePaths(from, to string) [][]int {
	if !r.HasVertex(from) || !r.HasVertex(to) || from == to {
		return nil
	}
	var paths [][]int
	onPath := map[string]bool{from: true}
	var path []int
	var visit func(cur string)
	visit = func(cur string) {
		for _, i := range r.outgoing[cur] {
			e := r.Edges[i]
			if e.To == to {
				found := make([]int, len(path)+1)
				copy(found, path)
				found[len(path)] = i
				paths = append(paths, found)
				continue
			}
			if onPath[e.To] {
				continue
			}
			onPath[e.To] = true
			path = append(path, i)
			visit(e.To)
			path = path[:len(path)-1]
			onPath[e.To] = false
		}
	}
	visit(from)
	return paths
}

// PathVertices expands a path of edge indices into its vertex sequence.
func (r *RDLT) PathVertices(path []int) []string {
	if len(path) == 0 {
		return nil
	}
	vv := make([]string, 0, len(path)+1)
	vv = append(vv, r.Edges[path[0]].From)
	for _, i := range path {
		vv = append(vv, r.Edges[i].To)
	}
	return vv
}

// disjointEdges reports whether two paths share no edge.
func disjointEdges(a, b []int) bool {
	in := make(map[int]bool, len(a))
	for _, i := range a {
		in[i] = true
	}
	for _, i := range b {
		if in[i] {
			return false
		}
	}
	return true
}

// Siblings reports whether some pair among paths have pairwise disjoint edge
// sets. All paths are assumed to share endpoints.
func Siblings(paths [][]int) bool {
	for i := 0; i < len(paths); i++ {
		for j := i + 1; j < len(paths); j++ {
			if disjointEdges(paths[i], paths[j]) {
				return true
			}
		}
	}
	return false
}
