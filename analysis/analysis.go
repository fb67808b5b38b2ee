// Package analysis derives the structural report of a mapped Petri net:
// connectivity, counts, role classification, and an issue list. The
// incidence matrix doubles as the algebraic view of the net.
package analysis

import (
	"fmt"
	"sort"

	"github.com/L8zn/CMSC-199.2-Thesis/petrinet"
	"gonum.org/v1/gonum/mat"
)

// Connectivity describes how the net hangs together.
type Connectivity struct {
	StronglyConnected bool     `json:"stronglyConnected"`
	Source            string   `json:"source"`
	Sink              string   `json:"sink"`
	Unreached         []string `json:"unreached"`
	IsolatedNodes     []string `json:"isolatedNodes"`
	Auxiliary         []string `json:"auxiliary"`
}

// Report is the structural analysis payload.
type Report struct {
	Issues              []string            `json:"issues"`
	ConnectivityDetails Connectivity        `json:"connectivityDetails"`
	TransitionsCount    int                 `json:"transitionsCount"`
	PlacesCount         int                 `json:"placesCount"`
	Roles               map[string][]string `json:"roles"`
}

// Analyze inspects net and returns its structural report. The net is not
// mutated.
func Analyze(net *petrinet.Net) *Report {
	rep := &Report{
		TransitionsCount: len(net.Transitions),
		PlacesCount:      len(net.Places),
		Roles:            roleIndex(net),
	}

	source := net.GlobalSourcePlace()
	sink := net.GlobalSinkPlace()
	if source != nil {
		rep.ConnectivityDetails.Source = source.ID
	} else {
		rep.Issues = append(rep.Issues, "no globalSource place")
	}
	if sink != nil {
		rep.ConnectivityDetails.Sink = sink.ID
	} else {
		rep.Issues = append(rep.Issues, "no globalSink place")
	}

	for _, p := range net.FindPlaces(petrinet.Auxiliary) {
		rep.ConnectivityDetails.Auxiliary = append(rep.ConnectivityDetails.Auxiliary, p.ID)
	}

	ids := nodeIDs(net)
	rep.ConnectivityDetails.IsolatedNodes = isolated(net, ids)
	if source != nil {
		rep.ConnectivityDetails.Unreached = unreached(net, source.ID, ids)
	}
	rep.ConnectivityDetails.StronglyConnected = stronglyConnected(net, ids)

	for _, id := range rep.ConnectivityDetails.Unreached {
		rep.Issues = append(rep.Issues, fmt.Sprintf("%s unreachable from %s", id, rep.ConnectivityDetails.Source))
	}
	for _, id := range rep.ConnectivityDetails.IsolatedNodes {
		rep.Issues = append(rep.Issues, id+" is isolated")
	}
	for _, t := range net.Transitions {
		if len(net.Inputs(t.ID)) == 0 {
			rep.Issues = append(rep.Issues, "transition "+t.ID+" has no inputs")
		}
		if len(net.Outputs(t.ID)) == 0 {
			rep.Issues = append(rep.Issues, "transition "+t.ID+" has no outputs")
		}
	}
	return rep
}

// Incidence returns the transitions × places incidence matrix over normal
// arcs: +1 production, -1 consumption per unit weight.
func Incidence(net *petrinet.Net) *mat.Dense {
	m := len(net.Places)
	n := len(net.Transitions)
	if m == 0 || n == 0 {
		return nil
	}
	placeIdx := make(map[string]int, m)
	for i, p := range net.Places {
		placeIdx[p.ID] = i
	}
	d := make([]float64, m*n)
	for i, t := range net.Transitions {
		for _, a := range net.Inputs(t.ID) {
			if a.Type == petrinet.Normal {
				if j, ok := placeIdx[a.From]; ok {
					d[i*m+j] -= float64(a.Weight)
				}
			}
		}
		for _, a := range net.Outputs(t.ID) {
			if a.Type == petrinet.Normal {
				if j, ok := placeIdx[a.To]; ok {
					d[i*m+j] += float64(a.Weight)
				}
			}
		}
	}
	return mat.NewDense(n, m, d)
}

func roleIndex(net *petrinet.Net) map[string][]string {
	roles := make(map[string][]string)
	for _, p := range net.Places {
		key := p.Role.String()
		roles[key] = append(roles[key], p.ID)
	}
	for _, t := range net.Transitions {
		key := t.Role.String()
		roles[key] = append(roles[key], t.ID)
	}
	for _, ids := range roles {
		sort.Strings(ids)
	}
	return roles
}

func nodeIDs(net *petrinet.Net) []string {
	ids := make([]string, 0, len(net.Places)+len(net.Transitions))
	for _, p := range net.Places {
		ids = append(ids, p.ID)
	}
	for _, t := range net.Transitions {
		ids = append(ids, t.ID)
	}
	return ids
}

func isolated(net *petrinet.Net, ids []string) []string {
	var out []string
	for _, id := range ids {
		if len(net.Inputs(id)) == 0 && len(net.Outputs(id)) == 0 {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func unreached(net *petrinet.Net, from string, ids []string) []string {
	seen := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, a := range net.Outputs(cur) {
			if !seen[a.To] {
				seen[a.To] = true
				queue = append(queue, a.To)
			}
		}
	}
	var out []string
	for _, id := range ids {
		if seen[id] {
			continue
		}
		// Auxiliary places sit beside the flow on purpose; they are listed
		// separately instead of being flagged unreached.
		if p := net.Place(id); p != nil && p.Role == petrinet.Auxiliary {
			continue
		}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// stronglyConnected checks mutual reachability over every arc type.
func stronglyConnected(net *petrinet.Net, ids []string) bool {
	if len(ids) == 0 {
		return false
	}
	forward := reach(net, ids[0], net.Outputs, false)
	backward := reach(net, ids[0], net.Inputs, true)
	for _, id := range ids {
		if !forward[id] || !backward[id] {
			return false
		}
	}
	return true
}

func reach(net *petrinet.Net, from string, arcs func(string) []*petrinet.Arc, reverse bool) map[string]bool {
	seen := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, a := range arcs(cur) {
			next := a.To
			if reverse {
				next = a.From
			}
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return seen
}
