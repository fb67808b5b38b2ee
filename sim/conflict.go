package sim

import (
	"sort"

	"github.com/L8zn/CMSC-199.2-Thesis/petrinet"
)

// sentinelGroup keys the conflict group of transitions with no
// non-auxiliary normal input place.
const sentinelGroup = "~"

// conflictGroups partitions the enabled transitions by their non-auxiliary
// normal input places. A transition joins the group of its first such place
// in sorted key order, so it appears in at most one group per step. Groups
// left with a single member collapse into the unconditionally-fired unique
// set; the rest are the step's split-groups.
func conflictGroups(net *petrinet.Net, enabled []string, m petrinet.Marking) (unique []string, groups map[string][]string) {
	byPlace := make(map[string][]string)
	for _, id := range enabled {
		var places []string
		for _, a := range net.Inputs(id) {
			if a.Type != petrinet.Normal {
				continue
			}
			p := net.Place(a.From)
			if p == nil || p.Role == petrinet.Auxiliary {
				continue
			}
			places = append(places, p.ID)
		}
		if len(places) == 0 {
			byPlace[sentinelGroup] = append(byPlace[sentinelGroup], id)
			continue
		}
		sort.Strings(places)
		for _, p := range places {
			byPlace[p] = append(byPlace[p], id)
		}
	}

	keys := make([]string, 0, len(byPlace))
	for k := range byPlace {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	assigned := make(map[string]bool)
	groups = make(map[string][]string)
	for _, k := range keys {
		var residue []string
		for _, t := range byPlace[k] {
			if !assigned[t] {
				residue = append(residue, t)
			}
		}
		if len(residue) == 0 {
			continue
		}
		for _, t := range residue {
			assigned[t] = true
		}
		sort.Strings(residue)
		if len(residue) == 1 {
			unique = append(unique, residue[0])
		} else {
			groups[k] = residue
		}
	}
	sort.Strings(unique)
	return unique, groups
}
