package petrinet

import (
	"fmt"
	"sort"
	"strings"
)

// AliasRegistry maps Σ-constraint symbols to short place aliases drawn from
// the pool a..z, a1..z1, a2... Single-character constraints keep their
// lowercase form when free; collisions and multi-character constraints take
// the next free pool entry. Assignment is a pure function of the ordered
// constraint list: single-character constraints are assigned in alphabetical
// order before multi-character ones, which keep input order.
type AliasRegistry struct {
	byConstraint map[string]string
	used         map[string]bool
}

func NewAliasRegistry() *AliasRegistry {
	return &AliasRegistry{
		byConstraint: make(map[string]string),
		used:         make(map[string]bool),
	}
}

// pool yields the k-th alias of the pool sequence.
func pool(k int) string {
	letter := string(rune('a' + k%26))
	round := k / 26
	if round == 0 {
		return letter
	}
	return fmt.Sprintf("%s%d", letter, round)
}

// Assign returns the alias for c, allocating one on first sight.
func (r *AliasRegistry) Assign(c string) string {
	if alias, ok := r.byConstraint[c]; ok {
		return alias
	}
	if len([]rune(c)) == 1 {
		preferred := strings.ToLower(c)
		if !r.used[preferred] {
			r.byConstraint[c] = preferred
			r.used[preferred] = true
			return preferred
		}
	}
	for k := 0; ; k++ {
		alias := pool(k)
		if !r.used[alias] {
			r.byConstraint[c] = alias
			r.used[alias] = true
			return alias
		}
	}
}

// AssignAll allocates aliases for every distinct constraint in canonical
// order and returns the resulting map.
func (r *AliasRegistry) AssignAll(constraints []string) map[string]string {
	var single, multi []string
	seen := make(map[string]bool)
	for _, c := range constraints {
		if seen[c] {
			continue
		}
		seen[c] = true
		if len([]rune(c)) == 1 {
			single = append(single, c)
		} else {
			multi = append(multi, c)
		}
	}
	sort.Strings(single)
	for _, c := range single {
		r.Assign(c)
	}
	for _, c := range multi {
		r.Assign(c)
	}
	return r.Map()
}

// Alias looks up an already-assigned alias.
func (r *AliasRegistry) Alias(c string) (string, bool) {
	alias, ok := r.byConstraint[c]
	return alias, ok
}

// Map returns a copy of the constraint-to-alias mapping.
func (r *AliasRegistry) Map() map[string]string {
	out := make(map[string]string, len(r.byConstraint))
	for k, v := range r.byConstraint {
		out[k] = v
	}
	return out
}
