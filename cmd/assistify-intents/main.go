// Command assistify-intents classifies messages offline and lints the intent catalogue
//
//	assistify-intents -scope admin "refund order #1042"
//	echo "where is my order 17" | assistify-intents -json
//	assistify-intents -lint -catalog ./patterns.yaml
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"assistify/internal/core/classifier"
	"assistify/internal/core/confirm"
	"assistify/internal/core/intent"
)

func must(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func main() {
	var (
		fScope   = flag.String("scope", "admin", "caller scope: admin, customer or any")
		fJSON    = flag.Bool("json", false, "print JSON instead of a table")
		fLint    = flag.Bool("lint", false, "check that every catalogue example routes to its own intent")
		fCatalog = flag.String("catalog", "", "YAML catalogue to load instead of the builtin one")
		fTop     = flag.Int("top", 3, "matches to print per message")
	)
	flag.Parse()

	table, err := load(*fCatalog)
	must(err)

	if *fLint {
		os.Exit(lint(os.Stdout, table, *fJSON))
	}

	scope, err := intent.ParseScope(*fScope)
	must(err)
	var opts []classifier.Option
	if scope != intent.ScopeAny {
		opts = append(opts, classifier.WithScope(scope))
	}
	c := classifier.New(table, opts...)

	messages := flag.Args()
	if len(messages) == 0 {
		messages, err = readLines(os.Stdin)
		must(err)
	}

	policy := confirm.DefaultPolicy()
	enc := json.NewEncoder(os.Stdout)
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, msg := range messages {
		ex := c.Explain(msg)
		if len(ex.Matches) > *fTop {
			ex.Matches = ex.Matches[:*fTop]
		}
		if *fJSON {
			must(enc.Encode(ex))
			continue
		}
		_, _ = fmt.Fprintf(tw, "%s\n", ex.Message)
		if len(ex.Matches) == 0 {
			_, _ = fmt.Fprintf(tw, "\t(no match)\n")
		}
		for _, m := range ex.Matches {
			params, _ := json.Marshal(m.Params)
			_, _ = fmt.Fprintf(tw, "\t%s\t%s\tscore=%d\tprio=%d\tconfirm=%s\t%s\n",
				m.Intent, m.AbilityID, m.Score, m.Priority, policy.Level(m.AbilityID), params)
		}
	}
	must(tw.Flush())
}

func load(path string) (*intent.Table, error) {
	if path == "" {
		return intent.Load(nil)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return intent.Parse(b, nil)
}

func lint(w io.Writer, table *intent.Table, asJSON bool) int {
	bad := classifier.Lint(table)
	if asJSON {
		must(json.NewEncoder(w).Encode(bad))
	} else {
		for _, m := range bad {
			got := m.Got
			if got == "" {
				got = "(no match)"
			}
			_, _ = fmt.Fprintf(w, "%s [%s] %q routed to %s\n", m.Pattern, m.Scope, m.Example, got)
		}
		_, _ = fmt.Fprintf(w, "%d patterns, %d misrouted examples\n", table.Len(), len(bad))
	}
	if len(bad) > 0 {
		return 1
	}
	return 0
}

func readLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	return out, sc.Err()
}
