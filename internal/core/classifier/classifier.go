// Package classifier scores chat messages against an intent table
//
// score = keywords found * KeywordWeight + regexes matched * RegexWeight
// zero scores are dropped; the rest are ranked by score then priority,
// with remaining ties kept in table registration order
package classifier

import (
	"sort"

	"assistify/internal/core/intent"
	"assistify/internal/core/normalize"
)

const (
	// KeywordWeight is the score for each distinct keyword found
	KeywordWeight = 1
	// RegexWeight is the score for each regex that matches; regexes encode structure, keywords topic
	RegexWeight = 3
)

// Match is one ranked candidate for a message
type Match struct {
	Intent    string        `json:"intent"`
	AbilityID string        `json:"ability_id"`
	Score     int           `json:"score"`
	Priority  int           `json:"priority"`
	Params    intent.Params `json:"params,omitempty"`
	IsAction  bool          `json:"is_action"`
	Scope     intent.Scope  `json:"scope"`

	// signals that produced the score
	Keywords []string `json:"keywords,omitempty"`
	Regexes  []string `json:"regexes,omitempty"`
}

// Explanation is a classification with the inputs that produced it
type Explanation struct {
	Message string  `json:"message"`
	Folded  string  `json:"folded"`
	Matches []Match `json:"matches"`
}

// Option configures a Classifier
type Option func(*config)

type config struct {
	scope    intent.Scope
	filtered bool
}

// WithScope restricts the classifier to patterns a caller in scope may trigger
func WithScope(s intent.Scope) Option {
	return func(c *config) {
		c.scope = s
		c.filtered = true
	}
}

// Classifier is immutable after New and safe for concurrent use
type Classifier struct {
	table     *intent.Table
	patterns  []intent.Pattern
	ac        *acAutomaton
	keywords  []string
	patternKW [][]int // keyword ids per pattern index
}

// New indexes table for classification
func New(table *intent.Table, opts ...Option) *Classifier {
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.filtered {
		table = table.ForScope(cfg.scope)
	}

	c := &Classifier{
		table:    table,
		patterns: table.Patterns(),
		ac:       newAutomaton(),
	}
	c.patternKW = make([][]int, len(c.patterns))

	ids := make(map[string]int)
	for i, p := range c.patterns {
		for _, kw := range p.Keywords {
			id, ok := ids[kw]
			if !ok {
				id = len(c.keywords)
				ids[kw] = id
				c.keywords = append(c.keywords, kw)
				c.ac.AddPattern([]byte(kw), id)
			}
			c.patternKW[i] = append(c.patternKW[i], id)
		}
	}
	c.ac.Build()
	return c
}

// Table returns the table this classifier scores against
func (c *Classifier) Table() *intent.Table { return c.table }

// Classify returns every pattern with a positive score, best first
func (c *Classifier) Classify(message string) []Match {
	return c.classify(normalize.Clean(message), normalize.Fold(message))
}

// BestMatch returns the top ranked match, if any
func (c *Classifier) BestMatch(message string) (Match, bool) {
	ms := c.Classify(message)
	if len(ms) == 0 {
		return Match{}, false
	}
	return ms[0], true
}

// Explain classifies message and returns the folded form alongside the matches
func (c *Classifier) Explain(message string) Explanation {
	original, folded := normalize.Clean(message), normalize.Fold(message)
	return Explanation{
		Message: original,
		Folded:  folded,
		Matches: c.classify(original, folded),
	}
}

func (c *Classifier) classify(original, folded string) []Match {
	if folded == "" || len(c.patterns) == 0 {
		return nil
	}

	found := make([]bool, len(c.keywords))
	c.ac.FindAll([]byte(folded), func(_ int, id int) bool {
		found[id] = true
		return true
	})

	var out []Match
	for i, p := range c.patterns {
		var kws []string
		for _, id := range c.patternKW[i] {
			if found[id] {
				kws = append(kws, c.keywords[id])
			}
		}
		var rxs []string
		for _, rx := range p.Regexes {
			if rx.MatchString(folded) {
				rxs = append(rxs, rx.String())
			}
		}

		score := len(kws)*KeywordWeight + len(rxs)*RegexWeight
		if score == 0 {
			continue
		}
		out = append(out, Match{
			Intent:    p.Name,
			AbilityID: p.AbilityID,
			Score:     score,
			Priority:  p.Priority,
			Params:    p.Params(original),
			IsAction:  p.IsAction,
			Scope:     p.Scope,
			Keywords:  kws,
			Regexes:   rxs,
		})
	}

	// stable: equal score and priority keep registration order
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Priority > out[j].Priority
	})
	return out
}
