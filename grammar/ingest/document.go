// Package ingest loads a grammar.Grammar from a structured TOML document.
// It is deliberately far simpler than a full grammar definition language:
// no lexical rules, no semantic actions beyond an opaque numeric tag, no
// operator-precedence declarations. Its only job is handing the
// construction core, the CLI, and this repository's own tests a way to
// describe a grammar without hand-assembling a grammar.Builder in Go.
package ingest

import "fmt"

// document is the raw shape of a grammar TOML file.
//
//	start = "expr"
//	terminals = ["add", "mul", "l_paren", "r_paren", "id"]
//	nonterminals = ["expr", "term", "factor"]
//
//	[[productions]]
//	lhs = "expr"
//	rhs = ["expr", "add", "term"]
//	action = 1
type document struct {
	Start        string        `toml:"start"`
	Terminals    []string      `toml:"terminals"`
	Nonterminals []string      `toml:"nonterminals"`
	Productions  []productionDoc `toml:"productions"`
}

type productionDoc struct {
	LHS    string   `toml:"lhs"`
	RHS    []string `toml:"rhs"`
	Action uint32   `toml:"action"`
}

func (d *document) validateShape() error {
	if d.Start == "" {
		return fmt.Errorf("%q is required", "start")
	}
	if len(d.Productions) == 0 {
		return fmt.Errorf("a grammar document needs at least one [[productions]] entry")
	}
	for i, p := range d.Productions {
		if p.LHS == "" {
			return fmt.Errorf("productions[%d]: %q is required", i, "lhs")
		}
	}
	return nil
}
