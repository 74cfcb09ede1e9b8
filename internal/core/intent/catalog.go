package intent

import (
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed patterns.yaml
var builtinYAML []byte

// Builtin returns the raw embedded catalogue
func Builtin() []byte { return builtinYAML }

// catalogFile is the on-disk rule format
type catalogFile struct {
	Version  int       `yaml:"version"`
	Patterns []ruleDef `yaml:"patterns"`
}

type ruleDef struct {
	Name        string   `yaml:"name"`
	Ability     string   `yaml:"ability"`
	Scope       Scope    `yaml:"scope"`
	Priority    int      `yaml:"priority"`
	Action      bool     `yaml:"action"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
	Regexes     []string `yaml:"regexes"`
	Extract     []string `yaml:"extract"`
	Examples    []string `yaml:"examples"`
}

// Load builds the built-in table; now feeds relative date extractors
func Load(now Clock) (*Table, error) {
	return Parse(builtinYAML, now)
}

// MustLoad is Load that panics
func MustLoad(now Clock) *Table {
	t, err := Load(now)
	if err != nil {
		panic(err)
	}
	return t
}

// Parse compiles a YAML catalogue into a Table
// regex and extractor names are resolved here so a typo fails the load instead of matching nothing
func Parse(data []byte, now Clock) (*Table, error) {
	if now == nil {
		now = time.Now
	}
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("intent: parse catalogue: %w", err)
	}
	if f.Version != 1 {
		return nil, fmt.Errorf("intent: unsupported catalogue version %d", f.Version)
	}

	patterns := make([]Pattern, 0, len(f.Patterns))
	var errs []error
	for _, d := range f.Patterns {
		p, err := d.compile(now)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		patterns = append(patterns, p)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return NewTable(patterns...)
}

func (d ruleDef) compile(now Clock) (Pattern, error) {
	p := Pattern{
		Name:        d.Name,
		Keywords:    d.Keywords,
		AbilityID:   d.Ability,
		Priority:    d.Priority,
		IsAction:    d.Action,
		Scope:       d.Scope,
		Description: strings.TrimSpace(d.Description),
		Examples:    d.Examples,
	}
	for i, src := range d.Regexes {
		rx, err := regexp.Compile(src)
		if err != nil {
			return p, fmt.Errorf("intent: pattern %q regex %d: %w", d.Name, i, err)
		}
		p.Regexes = append(p.Regexes, rx)
	}
	exs := make([]Extractor, 0, len(d.Extract))
	for _, name := range d.Extract {
		mk, ok := extractorFactories[strings.TrimSpace(name)]
		if !ok {
			return p, fmt.Errorf("intent: pattern %q names unknown extractor %q", d.Name, name)
		}
		exs = append(exs, mk(now))
	}
	p.Extract = Chain(exs...)
	return p, nil
}
