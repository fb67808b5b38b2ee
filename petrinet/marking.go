package petrinet

import (
	"sort"
	"strconv"
	"strings"
)

// Marking is a total mapping from place id to token count.
type Marking map[string]int

func (m Marking) String() string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString(":")
		b.WriteString(strconv.Itoa(m[k]))
	}
	return b.String()
}

// Clone returns an independent copy.
func (m Marking) Clone() Marking {
	c := make(Marking, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// Marking captures the live token counts.
func (n *Net) Marking() Marking {
	m := make(Marking, len(n.Places))
	for _, p := range n.Places {
		m[p.ID] = p.Tokens
	}
	return m
}

// SetMarking overwrites the live token counts; places absent from m are
// untouched.
func (n *Net) SetMarking(m Marking) {
	for id, tokens := range m {
		if p := n.places[id]; p != nil {
			p.Tokens = tokens
		}
	}
}

// snapshot holds the state captured by UpdateState: token counts, enabled
// flags, and fired flags.
type snapshot struct {
	tokens  map[string]int
	enabled map[string]bool
	fired   []bool
}

// UpdateState captures the current state so RevertState can restore it
// bit-identically. Repeated calls without an intervening revert keep only
// the first snapshot.
func (n *Net) UpdateState() {
	if n.snap != nil {
		return
	}
	s := &snapshot{
		tokens:  make(map[string]int, len(n.Places)),
		enabled: make(map[string]bool, len(n.Transitions)),
		fired:   make([]bool, len(n.Arcs)),
	}
	for _, p := range n.Places {
		s.tokens[p.ID] = p.Tokens
	}
	for _, t := range n.Transitions {
		s.enabled[t.ID] = t.Enabled
	}
	for i, a := range n.Arcs {
		s.fired[i] = a.Fired
	}
	n.snap = s
}

// RevertState restores the snapshot taken by UpdateState and discards it.
// Without a snapshot it is a no-op.
func (n *Net) RevertState() {
	if n.snap == nil {
		return
	}
	for _, p := range n.Places {
		p.Tokens = n.snap.tokens[p.ID]
	}
	for _, t := range n.Transitions {
		t.Enabled = n.snap.enabled[t.ID]
	}
	for i, a := range n.Arcs {
		a.Fired = n.snap.fired[i]
	}
	n.snap = nil
}
