package intent

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Table is an immutable, ordered set of patterns keyed by name
// registration order is kept and is the final tie-break when ranking
type Table struct {
	patterns []Pattern
	index    map[string]int
}

// NewTable validates and copies patterns into a Table
// names must be unique; every pattern needs an ability and at least one signal
func NewTable(patterns ...Pattern) (*Table, error) {
	t := &Table{
		patterns: make([]Pattern, 0, len(patterns)),
		index:    make(map[string]int, len(patterns)),
	}
	var errs []error
	for _, p := range patterns {
		p, err := prepare(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := t.index[p.Name]; dup {
			errs = append(errs, fmt.Errorf("intent: duplicate pattern name %q", p.Name))
			continue
		}
		t.index[p.Name] = len(t.patterns)
		t.patterns = append(t.patterns, p)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return t, nil
}

// MustTable is NewTable that panics, for fixtures and startup wiring
func MustTable(patterns ...Pattern) *Table {
	t, err := NewTable(patterns...)
	if err != nil {
		panic(err)
	}
	return t
}

// prepare normalizes keywords and copies slices so callers cannot mutate the table
func prepare(p Pattern) (Pattern, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.AbilityID = strings.TrimSpace(p.AbilityID)
	if p.Name == "" {
		return p, errors.New("intent: pattern name is required")
	}
	if p.AbilityID == "" {
		return p, fmt.Errorf("intent: pattern %q has no ability id", p.Name)
	}

	seen := make(map[string]struct{}, len(p.Keywords))
	kws := make([]string, 0, len(p.Keywords))
	for _, k := range p.Keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		kws = append(kws, k)
	}
	p.Keywords = kws

	rxs := make([]*regexp.Regexp, 0, len(p.Regexes))
	for _, rx := range p.Regexes {
		if rx != nil {
			rxs = append(rxs, rx)
		}
	}
	p.Regexes = rxs

	if len(p.Keywords) == 0 && len(p.Regexes) == 0 {
		return p, fmt.Errorf("intent: pattern %q has no keywords or regexes", p.Name)
	}
	p.Examples = append([]string(nil), p.Examples...)
	return p, nil
}

// Len returns the number of patterns
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.patterns)
}

// Patterns returns the patterns in registration order
func (t *Table) Patterns() []Pattern {
	if t == nil {
		return nil
	}
	out := make([]Pattern, len(t.patterns))
	copy(out, t.patterns)
	return out
}

// At returns the pattern at registration index i
func (t *Table) At(i int) Pattern { return t.patterns[i] }

// Lookup finds a pattern by name
func (t *Table) Lookup(name string) (Pattern, bool) {
	if t == nil {
		return Pattern{}, false
	}
	i, ok := t.index[name]
	if !ok {
		return Pattern{}, false
	}
	return t.patterns[i], true
}

// Filter returns a new table with the patterns keep accepts, order preserved
func (t *Table) Filter(keep func(Pattern) bool) *Table {
	out := &Table{index: make(map[string]int)}
	if t == nil {
		return out
	}
	for _, p := range t.patterns {
		if keep(p) {
			out.index[p.Name] = len(out.patterns)
			out.patterns = append(out.patterns, p)
		}
	}
	return out
}

// ForScope keeps the patterns a caller in ctx may trigger
func (t *Table) ForScope(ctx Scope) *Table {
	return t.Filter(func(p Pattern) bool { return p.Scope.Allows(ctx) })
}

// Extend returns a new table with more patterns appended after the existing ones
func (t *Table) Extend(more ...Pattern) (*Table, error) {
	return NewTable(append(t.Patterns(), more...)...)
}

// Abilities returns the distinct ability ids in first-seen order
func (t *Table) Abilities() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(t.patterns))
	var out []string
	for _, p := range t.patterns {
		if _, ok := seen[p.AbilityID]; ok {
			continue
		}
		seen[p.AbilityID] = struct{}{}
		out = append(out, p.AbilityID)
	}
	return out
}
