package rdlt

import "sort"

// SimpleCycles enumerates every elementary cycle of the diagram as a sequence
// of edge indices, using Johnson's blocking algorithm. Start candidates are
// taken in sorted vertex order and removed after use, so each cycle is
// reported exactly once with its least vertex first. Because the search walks
// the edge arena, parallel edges produce distinct cycles.
func (r *RDLT) SimpleCycles() [][]int {
	order := make([]string, 0, len(r.Vertices))
	for _, v := range r.Vertices {
		order = append(order, v.ID)
	}
	sort.Strings(order)
	rank := make(map[string]int, len(order))
	for i, id := range order {
		rank[id] = i
	}

	var cycles [][]int
	for s, start := range order {
		blocked := make(map[string]bool)
		blockList := make(map[string]map[string]bool)
		var stack []int

		var unblock func(v string)
		unblock = func(v string) {
			blocked[v] = false
			for w := range blockList[v] {
				delete(blockList[v], w)
				if blocked[w] {
					unblock(w)
				}
			}
		}

		var circuit func(v string) bool
		circuit = func(v string) bool {
			found := false
			blocked[v] = true
			for _, i := range r.outgoing[v] {
				e := r.Edges[i]
				if rank[e.To] < s {
					continue
				}
				if e.To == start {
					c := make([]int, len(stack)+1)
					copy(c, stack)
					c[len(stack)] = i
					cycles = append(cycles, c)
					found = true
					continue
				}
				if blocked[e.To] {
					continue
				}
				stack = append(stack, i)
				if circuit(e.To) {
					found = true
				}
				stack = stack[:len(stack)-1]
			}
			if found {
				unblock(v)
			} else {
				for _, i := range r.outgoing[v] {
					w := r.Edges[i].To
					if rank[w] < s {
						continue
					}
					if blockList[w] == nil {
						blockList[w] = make(map[string]bool)
					}
					blockList[w][v] = true
				}
			}
			return found
		}

		circuit(start)
	}
	return cycles
}

// MinL returns the smallest L among the edges of a cycle or path.
func (r *RDLT) MinL(path []int) int {
	min := 0
	for k, i := range path {
		if k == 0 || r.Edges[i].L < min {
			min = r.Edges[i].L
		}
	}
	return min
}
