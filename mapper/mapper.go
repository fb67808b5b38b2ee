// Package mapper rewrites a combined RDLT into a Petri net through nine
// ordered steps. Each step mutates the growing net and emits one structured
// log entry; after the last step the net's topology is frozen and checked
// against the mapper invariants.
package mapper

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/L8zn/CMSC-199.2-Thesis/evsa"
	"github.com/L8zn/CMSC-199.2-Thesis/petrinet"
	"github.com/L8zn/CMSC-199.2-Thesis/rdlt"
)

var ErrInternalInvariant = errors.New("mapper invariant violated")

// StepLog is the structured record of one mapper step, consumed by the
// visualiser and the CLI.
type StepLog struct {
	Step    int      `json:"step"`
	Title   string   `json:"title"`
	Details []string `json:"details"`
}

// Mapper carries the rewrite state across the nine steps.
type Mapper struct {
	g   *rdlt.RDLT
	net *petrinet.Net

	// rawByEdge tracks the arc each RDLT edge was carried over as; entries
	// go nil once a step consumes the raw arc.
	rawByEdge []*petrinet.Arc
	split     map[string]rdlt.SplitCase

	// auxVertex records, per auxiliary place, the RDLT vertex its gated
	// transition fires into. Step 8 consults it for the looping-arc rule.
	auxVertex map[string]string

	logs []StepLog
}

// Map runs all nine steps on the combined model and returns the finished
// net together with the per-step logs.
func Map(combined *rdlt.RDLT) (*petrinet.Net, []StepLog, error) {
	m := &Mapper{
		g:         combined,
		net:       petrinet.New(),
		auxVertex: make(map[string]string),
		split:     make(map[string]rdlt.SplitCase),
	}
	steps := []func() error{
		m.step1Transitions,
		m.step2Splits,
		m.step3Joins,
		m.step4Epsilon,
		m.step5Sigma,
		m.step6Consensus,
		m.step7Linkage,
		m.step8Resets,
		m.step9Source,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, m.logs, err
		}
	}
	if err := m.checkInvariants(); err != nil {
		return nil, m.logs, err
	}
	return m.net, m.logs, nil
}

func (m *Mapper) log(step int, title string, details []string) {
	m.logs = append(m.logs, StepLog{Step: step, Title: title, Details: details})
}

// tid names the check transition of a vertex.
func tid(v string) string { return "T" + v }

// mirror names the Level-2 mirror transition of a Level-1 bridge node.
func mirror(v string) string { return "T" + evsa.Prime(v) }

func pmID(v string) string    { return "P" + v + "m" }
func splitID(v string) string { return "P" + v + "split" }
func pjID(v string) string    { return "PJ" + v }
func tjID(v string) string    { return "TJ" + v }
func consID(c string) string  { return "Pcons" + c }
func trrID(c string) string   { return "Trr" + c }

func epsilonIDs(from, to string, index int) (transition, checked, aux string) {
	suffix := to + from
	if index > 0 {
		suffix += strconv.Itoa(index)
	}
	return "Tε" + suffix, "Pε" + suffix, "Pεn" + suffix
}

func activity(from, to string) string { return "(" + from + ", " + to + ")" }

// group returns the rbsGroup an edge belongs to, or "" for edges that do not
// live inside a reset-bound subsystem. Both primed internal edges and the
// abstract arcs between bridges of one RBS qualify.
func (m *Mapper) group(e *rdlt.Edge) string {
	from, to := m.g.Vertex(e.From), m.g.Vertex(e.To)
	if from == nil || to == nil {
		return ""
	}
	if from.RBSGroup != "" && from.RBSGroup == to.RBSGroup {
		if evsa.Primed(e.From) || e.Kind == rdlt.AbstractEdge {
			return from.RBSGroup
		}
	}
	return ""
}

// centers lists the RBS centers present in the combined model, sorted.
func (m *Mapper) centers() []string {
	var cc []string
	for _, v := range m.g.Vertices {
		if v.Center {
			cc = append(cc, evsa.Unprime(v.ID))
		}
	}
	sort.Strings(cc)
	return cc
}

// outBridges lists the Level-1 out-bridge nodes of one RBS, sorted.
func (m *Mapper) outBridges(center string) []string {
	var out []string
	for _, v := range m.g.Vertices {
		if !evsa.Primed(v.ID) && v.RBSGroup == center && v.OutBridge {
			out = append(out, v.ID)
		}
	}
	sort.Strings(out)
	return out
}

func (m *Mapper) checkInvariants() error {
	sources := m.net.FindPlaces(petrinet.GlobalSource)
	sinks := m.net.FindPlaces(petrinet.GlobalSink)
	if len(sources) > 1 {
		return fmt.Errorf("%w: %d globalSource places", ErrInternalInvariant, len(sources))
	}
	if len(sinks) > 1 {
		return fmt.Errorf("%w: %d globalSink places", ErrInternalInvariant, len(sinks))
	}
	for _, a := range m.net.Arcs {
		if a.Type == petrinet.Abstract {
			return fmt.Errorf("%w: abstract arc %s survived mapping", ErrInternalInvariant, a)
		}
	}
	// Transition degrees are only total once the dummy endpoints exist.
	// Fully isolated transitions (stub Level-2 mirrors) are left for the
	// structural analyser to report.
	if len(sources) == 1 && len(sinks) == 1 {
		for _, t := range m.net.Transitions {
			in, out := len(m.net.Inputs(t.ID)), len(m.net.Outputs(t.ID))
			if in == 0 && out == 0 {
				continue
			}
			if in == 0 {
				return fmt.Errorf("%w: transition %s has no inputs", ErrInternalInvariant, t.ID)
			}
			if out == 0 {
				return fmt.Errorf("%w: transition %s has no outputs", ErrInternalInvariant, t.ID)
			}
		}
	}
	for _, p := range m.net.FindPlaces(petrinet.Auxiliary) {
		if p.ResetTarget == "" {
			continue
		}
		if !m.net.HasArc(p.ID, p.ResetTarget, petrinet.Normal) &&
			!m.net.HasArc(p.ID, p.ResetTarget, petrinet.ResetArc) {
			return fmt.Errorf("%w: auxiliary %s does not feed %s", ErrInternalInvariant, p.ID, p.ResetTarget)
		}
	}
	for _, p := range m.net.FindPlaces(petrinet.Consensus) {
		t := m.net.Transition(trrID(p.RBSGroup))
		if t == nil || t.Role != petrinet.Reset {
			return fmt.Errorf("%w: consensus %s lacks its reset transition", ErrInternalInvariant, p.ID)
		}
	}
	return nil
}
