package mapper

import (
	"fmt"
	"strings"

	"github.com/L8zn/CMSC-199.2-Thesis/evsa"
	"github.com/L8zn/CMSC-199.2-Thesis/petrinet"
	"github.com/L8zn/CMSC-199.2-Thesis/rdlt"
)

// step1Transitions creates one check transition per vertex and carries every
// edge over as a raw transition-to-transition arc, abstract tags preserved.
func (m *Mapper) step1Transitions() error {
	var details []string
	for _, v := range m.g.Vertices {
		if _, err := m.net.AddTransition(&petrinet.Transition{
			ID:       tid(v.ID),
			Role:     petrinet.Check,
			RBSGroup: v.RBSGroup,
		}); err != nil {
			return err
		}
		details = append(details, tid(v.ID))
	}
	m.rawByEdge = make([]*petrinet.Arc, len(m.g.Edges))
	for i, e := range m.g.Edges {
		typ := petrinet.Normal
		if e.Kind == rdlt.AbstractEdge {
			typ = petrinet.Abstract
		}
		m.rawByEdge[i] = m.net.AddArc(tid(e.From), tid(e.To), typ, 1)
	}
	m.log(1, "vertex transitions", details)
	return nil
}

// step2Splits inserts a split place between each split-case-1 vertex and its
// outgoing arcs.
func (m *Mapper) step2Splits() error {
	var details []string
	for _, v := range m.g.Vertices {
		sc, ok := m.g.SplitCase1(v.ID)
		if !ok {
			continue
		}
		m.split[v.ID] = sc
		details = append(details, fmt.Sprintf(
			"%s: siblingORJoin=%t nonSibling=%t abstract=%t looping=%t",
			v.ID, sc.SiblingORJoin, sc.NonSibling, sc.AbstractOut, sc.Looping))
		if !sc.Any() {
			continue
		}
		sp, err := m.net.AddPlace(&petrinet.Place{ID: splitID(v.ID), Role: petrinet.Split})
		if err != nil {
			return err
		}
		for _, a := range m.rawByEdge {
			if a != nil && a.From == tid(v.ID) {
				m.net.Rewire(a, sp.ID, a.To)
			}
		}
		m.net.AddArc(tid(v.ID), sp.ID, petrinet.Normal, 1)
	}
	m.log(2, "split places", details)
	return nil
}

// step3Joins inserts the traversed place of every vertex with incoming
// edges, the global sink place, and the join transition with its auxiliary
// place for Σ-constrained joins.
func (m *Mapper) step3Joins() error {
	var details []string
	for _, v := range m.g.Vertices {
		in := m.g.Incoming(v.ID)
		if len(in) == 0 {
			continue
		}
		pm, err := m.net.AddPlace(&petrinet.Place{ID: pmID(v.ID), Role: petrinet.Traversed})
		if err != nil {
			return err
		}
		for _, i := range in {
			if a := m.rawByEdge[i]; a != nil {
				m.net.Rewire(a, a.From, pm.ID)
			}
		}
		m.net.AddArc(pm.ID, tid(v.ID), petrinet.Normal, 1)
		details = append(details, pm.ID)

		if v.ID == evsa.DummySink {
			sink, err := m.net.AddPlace(&petrinet.Place{ID: "Po", Role: petrinet.GlobalSink})
			if err != nil {
				return err
			}
			m.net.AddArc(tid(v.ID), sink.ID, petrinet.Normal, 1)
			details = append(details, sink.ID)
		}

		var sigma []*rdlt.Edge
		var sigmaIdx []int
		for _, i := range in {
			if e := m.g.Edges[i]; !e.Unconstrained() {
				sigma = append(sigma, e)
				sigmaIdx = append(sigmaIdx, i)
			}
		}
		if len(sigma) == 0 {
			continue
		}
		tokens := joinTokens(sigma)
		var acts []string
		for _, e := range sigma {
			acts = append(acts, activity(e.From, e.To))
		}
		tj, err := m.net.AddTransition(&petrinet.Transition{
			ID:         tjID(v.ID),
			Role:       petrinet.Traverse,
			Activities: strings.Join(acts, ","),
			RBSGroup:   v.RBSGroup,
		})
		if err != nil {
			return err
		}
		pj, err := m.net.AddPlace(&petrinet.Place{
			ID:          pjID(v.ID),
			Role:        petrinet.Auxiliary,
			Initial:     tokens,
			ResetTarget: tj.ID,
			RBSGroup:    joinGroup(m, sigma),
		})
		if err != nil {
			return err
		}
		m.auxVertex[pj.ID] = v.ID
		m.net.AddArc(pj.ID, tj.ID, petrinet.Normal, 1)
		m.net.AddArc(tj.ID, pm.ID, petrinet.Normal, 1)
		for _, i := range sigmaIdx {
			if a := m.rawByEdge[i]; a != nil {
				m.net.Rewire(a, a.From, tj.ID)
			}
		}
		details = append(details, fmt.Sprintf("%s tokens=%d", pj.ID, tokens))
	}
	m.log(3, "traversed places and joins", details)
	return nil
}

// joinTokens is sum(L) when every Σ-edge shares one constraint, else min(L).
func joinTokens(sigma []*rdlt.Edge) int {
	same := true
	for _, e := range sigma[1:] {
		if e.C != sigma[0].C {
			same = false
			break
		}
	}
	if same {
		sum := 0
		for _, e := range sigma {
			sum += e.L
		}
		return sum
	}
	min := sigma[0].L
	for _, e := range sigma[1:] {
		if e.L < min {
			min = e.L
		}
	}
	return min
}

func joinGroup(m *Mapper, sigma []*rdlt.Edge) string {
	for _, e := range sigma {
		if g := m.group(e); g != "" {
			return g
		}
	}
	return ""
}

// step4Epsilon replaces every ε-edge with a traverse transition gated by a
// checked place (or by the source's split place, when it has one) and an
// auxiliary token budget of the edge's L.
func (m *Mapper) step4Epsilon() error {
	var details []string
	abstractSeen := make(map[string]int)
	for i, e := range m.g.Edges {
		if !e.Unconstrained() {
			continue
		}
		raw := m.rawByEdge[i]
		if raw == nil {
			continue
		}
		index := 0
		if e.Kind == rdlt.AbstractEdge {
			key := e.From + "->" + e.To
			abstractSeen[key]++
			index = abstractSeen[key]
		}
		teID, peID, auxID := epsilonIDs(e.From, e.To, index)
		te, err := m.net.AddTransition(&petrinet.Transition{
			ID:         teID,
			Role:       petrinet.Traverse,
			Activities: activity(e.From, e.To),
			RBSGroup:   m.group(e),
		})
		if err != nil {
			return err
		}

		dest := raw.To
		splitSrc := raw.From == splitID(e.From)
		m.net.RemoveArc(raw)
		m.rawByEdge[i] = nil
		if splitSrc {
			// The split place is the gate; a checked place here would leave
			// stranded tokens on the branches not chosen.
			m.net.AddArc(splitID(e.From), te.ID, petrinet.Normal, 1)
		} else {
			pe, err := m.net.AddPlace(&petrinet.Place{ID: peID, Role: petrinet.Checked})
			if err != nil {
				return err
			}
			m.net.AddArc(tid(e.From), pe.ID, petrinet.Normal, 1)
			m.net.AddArc(pe.ID, te.ID, petrinet.Normal, 1)
		}
		m.net.AddArc(te.ID, dest, petrinet.Normal, 1)

		aux, err := m.net.AddPlace(&petrinet.Place{
			ID:          auxID,
			Role:        petrinet.Auxiliary,
			Initial:     e.L,
			ResetTarget: te.ID,
			RBSGroup:    m.group(e),
		})
		if err != nil {
			return err
		}
		m.auxVertex[aux.ID] = e.To
		m.net.AddArc(aux.ID, te.ID, petrinet.Normal, 1)
		details = append(details, te.ID)
	}
	m.log(4, "ε-edge transitions", details)
	return nil
}

// step5Sigma routes every Σ-edge through an aliased checked place and wires
// the mix-join scaffolding where ε- and Σ-edges share a target.
func (m *Mapper) step5Sigma() error {
	var details []string

	var constraints []string
	for _, e := range m.g.Edges {
		if !e.Unconstrained() {
			constraints = append(constraints, e.C)
		}
	}
	m.net.Aliases.AssignAll(constraints)

	mixDone := make(map[string]bool)
	for i, e := range m.g.Edges {
		if e.Unconstrained() {
			continue
		}
		raw := m.rawByEdge[i]
		alias, _ := m.net.Aliases.Alias(e.C)
		if raw != nil && raw.From == tid(e.From) {
			checkedID := "P" + alias + e.To
			if m.net.Place(checkedID) == nil {
				if _, err := m.net.AddPlace(&petrinet.Place{ID: checkedID, Role: petrinet.Checked}); err != nil {
					return err
				}
				m.net.AddArc(checkedID, tjID(e.To), petrinet.Normal, 1)
			}
			m.net.RemoveArc(raw)
			m.rawByEdge[i] = nil
			m.net.AddArc(tid(e.From), checkedID, petrinet.Normal, 1)
			details = append(details, checkedID)
		}

		if m.mixJoin(e.To) && !mixDone[alias+"|"+e.To] {
			mixDone[alias+"|"+e.To] = true
			if err := m.wireMixJoin(alias, e); err != nil {
				return err
			}
			details = append(details, "mix-join at "+e.To)
		}
	}
	m.log(5, "Σ-edge places", details)
	return nil
}

// mixJoin reports whether v receives both ε- and Σ-edges.
func (m *Mapper) mixJoin(v string) bool {
	eps, sig := false, false
	for _, e := range m.g.InEdges(v) {
		if e.Unconstrained() {
			eps = true
		} else {
			sig = true
		}
	}
	return eps && sig
}

func (m *Mapper) wireMixJoin(alias string, sigma *rdlt.Edge) error {
	v := sigma.To
	uncID := "P" + alias + rdlt.Epsilon
	unc := m.net.Place(uncID)
	if unc == nil {
		var err error
		unc, err = m.net.AddPlace(&petrinet.Place{ID: uncID, Role: petrinet.Unconstrained})
		if err != nil {
			return err
		}
	}
	for _, t := range m.net.Transitions {
		if t.Role != petrinet.Traverse || !strings.HasPrefix(t.ID, "Tε") {
			continue
		}
		if t.Activities == "" || !strings.HasSuffix(t.Activities, ", "+v+")") {
			continue
		}
		if !m.net.HasArc(unc.ID, t.ID, petrinet.Normal) {
			m.net.AddArc(unc.ID, t.ID, petrinet.Normal, 1)
			m.net.AddArc(t.ID, unc.ID, petrinet.Normal, 1)
		}
	}
	for _, e := range m.g.InEdges(v) {
		if e.Unconstrained() || e.C != sigma.C {
			continue
		}
		if !m.net.HasArc(tid(e.From), unc.ID, petrinet.Normal) {
			m.net.AddArc(tid(e.From), unc.ID, petrinet.Normal, 1)
		}
	}
	if to := m.net.Transition(tid(evsa.DummySink)); to != nil {
		if !m.net.HasArc(unc.ID, to.ID, petrinet.ResetArc) {
			m.net.AddArc(unc.ID, to.ID, petrinet.ResetArc, 1)
		}
	}
	if pm := m.net.Place(pmID(v)); pm != nil {
		pm.Role = petrinet.MixJoin
		if !m.net.HasArc(pm.ID, tid(v), petrinet.ResetArc) {
			m.net.AddArc(pm.ID, tid(v), petrinet.ResetArc, 1)
		}
		if t := m.net.Transition(mirror(v)); t != nil {
			if !m.net.HasArc(pm.ID, t.ID, petrinet.ResetArc) {
				m.net.AddArc(pm.ID, t.ID, petrinet.ResetArc, 1)
			}
		}
	}
	return nil
}

// step6Consensus gives every RBS with an out-bridge a consensus place and a
// reset transition fed by the Level-2 mirrors of its out-bridges.
func (m *Mapper) step6Consensus() error {
	var details []string
	for _, center := range m.centers() {
		outs := m.outBridges(center)
		if len(outs) == 0 {
			continue
		}
		cons, err := m.net.AddPlace(&petrinet.Place{
			ID:       consID(center),
			Role:     petrinet.Consensus,
			RBSGroup: center,
		})
		if err != nil {
			return err
		}
		trr, err := m.net.AddTransition(&petrinet.Transition{
			ID:       trrID(center),
			Role:     petrinet.Reset,
			RBSGroup: center,
		})
		if err != nil {
			return err
		}
		m.net.AddArc(cons.ID, trr.ID, petrinet.Normal, 1)
		m.net.AddArc(cons.ID, trr.ID, petrinet.ResetArc, 1)
		for _, n := range outs {
			if !m.net.HasArc(mirror(n), cons.ID, petrinet.Normal) {
				m.net.AddArc(mirror(n), cons.ID, petrinet.Normal, 1)
			}
		}
		details = append(details, cons.ID+" / "+trr.ID)
	}
	m.log(6, "consensus and reset", details)
	return nil
}

// step7Linkage joins the Level-1 bridges to their Level-2 mirrors: traversed
// places feed in-bridge mirrors, and out-bridge mirrors repeat the Level-1
// outputs.
func (m *Mapper) step7Linkage() error {
	var details []string
	for _, v := range m.g.Vertices {
		if evsa.Primed(v.ID) || v.RBSGroup == "" {
			continue
		}
		if v.OutBridge && m.net.Transition(mirror(v.ID)) != nil {
			for _, a := range m.net.Outputs(tid(v.ID)) {
				if !m.net.HasArc(mirror(v.ID), a.To, a.Type) {
					m.net.AddArc(mirror(v.ID), a.To, a.Type, a.Weight)
					details = append(details, mirror(v.ID)+" -> "+a.To)
				}
			}
		}
		if v.InBridge && m.net.Transition(mirror(v.ID)) != nil {
			// A mirror with no outputs is a stub; feeding it would only
			// swallow tokens.
			if pm := m.net.Place(pmID(v.ID)); pm != nil && len(m.net.Outputs(mirror(v.ID))) > 0 {
				m.net.AddArc(pm.ID, mirror(v.ID), petrinet.Normal, 1)
				details = append(details, pm.ID+" -> "+mirror(v.ID))
			}
		}
	}
	m.log(7, "level linkage", details)
	return nil
}

// step8Resets builds the reset topology over every auxiliary place: drain to
// the global sink, the per-RBS restore cycle, and the self-drain toward the
// place's reset target.
func (m *Mapper) step8Resets() error {
	var details []string
	to := m.net.Transition(tid(evsa.DummySink))
	for _, p := range m.net.FindPlaces(petrinet.Auxiliary) {
		if to != nil {
			m.net.AddArc(p.ID, to.ID, petrinet.ResetArc, 1)
		}
		if p.RBSGroup != "" {
			if trr := m.net.Transition(trrID(p.RBSGroup)); trr != nil {
				m.net.AddArc(p.ID, trr.ID, petrinet.ResetArc, 1)
				m.net.AddArc(trr.ID, p.ID, petrinet.Normal, p.Initial)
			}
		}
		v := m.auxVertex[p.ID]
		if p.ResetTarget != "" && v != "" && v != evsa.DummySink && !m.g.HasLoopingArc(v) {
			m.net.AddArc(p.ID, p.ResetTarget, petrinet.ResetArc, 1)
			details = append(details, p.ID+" -> "+p.ResetTarget)
		}
	}
	m.log(8, "reset topology", details)
	return nil
}

// step9Source creates the global source place feeding the dummy source's
// transition.
func (m *Mapper) step9Source() error {
	var details []string
	if ti := m.net.Transition(tid(evsa.DummySource)); ti != nil {
		pim, err := m.net.AddPlace(&petrinet.Place{ID: "Pim", Role: petrinet.GlobalSource, Initial: 1})
		if err != nil {
			return err
		}
		m.net.AddArc(pim.ID, ti.ID, petrinet.Normal, 1)
		details = append(details, pim.ID)
	}
	m.log(9, "global source", details)
	return nil
}
