// Package intent holds the rule table that maps chat text to abilities
package intent

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Scope restricts which caller context may trigger a pattern
type Scope uint8

const (
	// ScopeAny matches every caller context
	ScopeAny Scope = iota
	// ScopeAdmin is for store operators
	ScopeAdmin
	// ScopeCustomer is for shoppers
	ScopeCustomer
)

// String implements fmt.Stringer
func (s Scope) String() string {
	switch s {
	case ScopeAdmin:
		return "admin"
	case ScopeCustomer:
		return "customer"
	default:
		return "any"
	}
}

// ParseScope maps admin, customer and any (or empty) to a Scope
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return ScopeAny, nil
	case "admin":
		return ScopeAdmin, nil
	case "customer":
		return ScopeCustomer, nil
	default:
		return ScopeAny, fmt.Errorf("intent: unknown scope %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler
func (s Scope) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Scope) UnmarshalText(b []byte) error {
	v, err := ParseScope(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Allows reports whether a caller in ctx may trigger a pattern with scope s
func (s Scope) Allows(ctx Scope) bool {
	return s == ScopeAny || s == ctx
}

// Params are extracted ability arguments; values are scalars or lists
type Params map[string]any

// Merge copies keys from o that are not already set
func (p Params) Merge(o Params) Params {
	if len(o) == 0 {
		return p
	}
	if p == nil {
		p = make(Params, len(o))
	}
	for k, v := range o {
		if _, ok := p[k]; !ok {
			p[k] = v
		}
	}
	return p
}

// Extractor pulls parameters out of the original-case message
// it must be total: no match yields nil, never a panic
type Extractor func(text string) Params

// Clock is the time source for extractors that resolve relative dates
type Clock func() time.Time

// Pattern is one intent rule
type Pattern struct {
	Name      string
	Keywords  []string
	Regexes   []*regexp.Regexp
	AbilityID string
	Extract   Extractor
	Priority  int
	IsAction  bool
	Scope     Scope

	// Description is a short operator-facing summary shown by listings
	Description string
	// Examples are sample utterances; lint checks that each classifies to this pattern
	Examples []string
}

// Params runs the extractor, if any, against text
func (p Pattern) Params(text string) (out Params) {
	if p.Extract == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()
	return p.Extract(text)
}
