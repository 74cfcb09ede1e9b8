package classifier

import "assistify/internal/core/intent"

// Misroute is a catalogue example that does not classify to its own pattern
type Misroute struct {
	Pattern string       `json:"pattern"`
	Example string       `json:"example"`
	Scope   intent.Scope `json:"scope"`
	Got     string       `json:"got,omitempty"`
}

// Lint classifies every example of every pattern within the pattern's own scope
// patterns open to any scope are checked from both the admin and customer side
func Lint(table *intent.Table) []Misroute {
	byScope := map[intent.Scope]*Classifier{
		intent.ScopeAdmin:    New(table, WithScope(intent.ScopeAdmin)),
		intent.ScopeCustomer: New(table, WithScope(intent.ScopeCustomer)),
	}

	var out []Misroute
	for _, p := range table.Patterns() {
		scopes := []intent.Scope{p.Scope}
		if p.Scope == intent.ScopeAny {
			scopes = []intent.Scope{intent.ScopeAdmin, intent.ScopeCustomer}
		}
		for _, ex := range p.Examples {
			for _, s := range scopes {
				m, ok := byScope[s].BestMatch(ex)
				if ok && m.Intent == p.Name {
					continue
				}
				out = append(out, Misroute{Pattern: p.Name, Example: ex, Scope: s, Got: m.Intent})
			}
		}
	}
	return out
}
