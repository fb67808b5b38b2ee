// Package sim enumerates the firing sequences of a mapped Petri net under a
// conflict-grouped concurrent firing discipline and classifies each sequence
// into a termination class, aggregating an overall soundness verdict.
package sim

import (
	"fmt"
	"sort"
	"strings"

	"github.com/L8zn/CMSC-199.2-Thesis/petrinet"
	"github.com/google/uuid"
)

// DefaultMaxSteps bounds every simulation run.
const DefaultMaxSteps = 1000

// Step records one concurrent firing: the marking after the firing, the
// fired set, and the transitions that were enabled before the next step was
// chosen (retrofitted once that set is known).
type Step struct {
	Index   int              `json:"index"`
	Marking petrinet.Marking `json:"marking"`
	Fired   []string         `json:"firedTransitions"`
	Enabled []string         `json:"enabledTransitions"`
	Log     string           `json:"log"`
}

// Run explores every firing sequence of net depth-first. The net's live
// marking is snapshotted before the first mutation and restored before
// returning, so the canonical initial marking survives the run. A maxSteps
// of zero or less selects DefaultMaxSteps.
func Run(net *petrinet.Net, maxSteps int) *Report {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	s := &simulator{net: net, maxSteps: maxSteps}

	net.UpdateState()
	defer net.RevertState()

	s.explore(net.Marking(), nil, nil)
	return s.report()
}

type sequence struct {
	steps   []*Step
	choices []string
	final   petrinet.Marking
}

type simulator struct {
	net       *petrinet.Net
	maxSteps  int
	sequences []*sequence
}

func (s *simulator) explore(m petrinet.Marking, steps []*Step, choices []string) {
	enabled := s.enabledAt(m)
	if len(steps) > 0 {
		steps[len(steps)-1].Enabled = enabled
	}
	if len(enabled) == 0 || len(steps) >= s.maxSteps {
		s.finish(m, steps, choices)
		return
	}

	unique, groups := conflictGroups(s.net, enabled, m)
	if len(groups) == 0 {
		s.branch(m, steps, choices, unique, "")
		return
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	s.product(m, steps, choices, unique, keys, groups, 0, nil, nil)
}

// product walks the Cartesian product over the split-groups, firing the
// unique set plus one pick per group for every alternative.
func (s *simulator) product(m petrinet.Marking, steps []*Step, choices []string,
	unique []string, keys []string, groups map[string][]string,
	depth int, picks []string, labels []string) {
	if depth == len(keys) {
		set := append(append([]string(nil), unique...), picks...)
		sort.Strings(set)
		s.branch(m, steps, choices, set, strings.Join(labels, " "))
		return
	}
	key := keys[depth]
	for _, t := range groups[key] {
		s.product(m, steps, choices, unique, keys, groups, depth+1,
			append(picks, t), append(labels, key+":"+t))
	}
}

// branch fires one alternative on a fresh copy of the marking and recurses.
func (s *simulator) branch(m petrinet.Marking, steps []*Step, choices []string, fired []string, label string) {
	next := s.fire(m.Clone(), fired)
	step := &Step{
		Index:   len(steps),
		Marking: next.Clone(),
		Fired:   fired,
		Log:     fmt.Sprintf("step %d: fired {%s}", len(steps), strings.Join(fired, ", ")),
	}
	nextSteps := append(append([]*Step(nil), steps...), step)
	nextChoices := choices
	if label != "" {
		nextChoices = append(append([]string(nil), choices...), label)
	}
	s.explore(next, nextSteps, nextChoices)
}

// enabledAt returns the sorted ids of transitions whose normal input arcs
// are all covered by m. Reset arcs never gate enabling.
func (s *simulator) enabledAt(m petrinet.Marking) []string {
	var out []string
	for _, t := range s.net.Transitions {
		if len(s.net.Inputs(t.ID)) == 0 {
			continue
		}
		ok := true
		for _, a := range s.net.Inputs(t.ID) {
			if a.Type != petrinet.Normal {
				continue
			}
			if m[a.From] < a.Weight {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, t.ID)
		}
	}
	sort.Strings(out)
	return out
}

// fire applies a concurrent firing in place: normal consumption first, then
// reset clears, then production.
func (s *simulator) fire(m petrinet.Marking, fired []string) petrinet.Marking {
	for _, id := range fired {
		for _, a := range s.net.Inputs(id) {
			if a.Type == petrinet.Normal {
				m[a.From] -= a.Weight
			}
			a.Fired = true
		}
	}
	for _, id := range fired {
		for _, a := range s.net.Inputs(id) {
			if a.Type == petrinet.ResetArc {
				m[a.From] = 0
			}
		}
	}
	for _, id := range fired {
		for _, a := range s.net.Outputs(id) {
			if a.Type == petrinet.Normal {
				m[a.To] += a.Weight
			}
			a.Fired = true
		}
	}
	return m
}

func (s *simulator) finish(m petrinet.Marking, steps []*Step, choices []string) {
	s.sequences = append(s.sequences, &sequence{
		steps:   steps,
		choices: choices,
		final:   m,
	})
}

// runID tags a report for correlation at the API boundary.
func runID() string { return uuid.NewString() }
