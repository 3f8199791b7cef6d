package ingest

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/kentaro-s/lrtab/grammar"
	"github.com/kentaro-s/lrtab/grammar/symbol"
)

// DocumentError wraps a semantic problem found while ingesting a grammar
// document with the 1-based position of the offending [[productions]]
// entry, the same way the teacher lineage's SpecError pairs a cause with
// a source row; a TOML document has no single "line" once decoded into
// Go values, so Entry here names the entry's ordinal position instead.
type DocumentError struct {
	Cause error
	Entry int
}

func (e *DocumentError) Error() string {
	if e.Entry == 0 {
		return fmt.Sprintf("grammar document: %v", e.Cause)
	}
	return fmt.Sprintf("grammar document: productions[%d]: %v", e.Entry-1, e.Cause)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// Result is a successfully ingested grammar together with the start
// symbol the document named.
type Result struct {
	Grammar *grammar.Grammar
	Start   symbol.Symbol
}

// Load decodes a grammar document from r and builds a grammar.Grammar
// from it via grammar.Builder, registering every declared terminal and
// nonterminal up front so that productions may reference symbols in any
// order.
func Load(r io.Reader) (*Result, error) {
	var doc document
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("grammar document: %w", err)
	}
	if err := doc.validateShape(); err != nil {
		return nil, &DocumentError{Cause: err}
	}

	b := grammar.NewBuilder()
	syms := map[string]symbol.Symbol{}

	for _, name := range doc.Nonterminals {
		s, err := b.NonTerminal(name)
		if err != nil {
			return nil, &DocumentError{Cause: err}
		}
		syms[name] = s
	}
	for _, name := range doc.Terminals {
		s, err := b.Terminal(name)
		if err != nil {
			return nil, &DocumentError{Cause: err}
		}
		syms[name] = s
	}

	start, ok := syms[doc.Start]
	if !ok {
		return nil, &DocumentError{Cause: fmt.Errorf("start symbol %q is not declared as a nonterminal", doc.Start)}
	}
	if start.IsTerminal() {
		return nil, &DocumentError{Cause: fmt.Errorf("start symbol %q is a terminal, not a nonterminal", doc.Start)}
	}

	for i, p := range doc.Productions {
		lhs, ok := syms[p.LHS]
		if !ok {
			return nil, &DocumentError{Cause: fmt.Errorf("undeclared nonterminal %q", p.LHS), Entry: i + 1}
		}
		rhs := make([]symbol.Symbol, 0, len(p.RHS))
		for _, name := range p.RHS {
			s, ok := syms[name]
			if !ok {
				return nil, &DocumentError{Cause: fmt.Errorf("undeclared symbol %q", name), Entry: i + 1}
			}
			rhs = append(rhs, s)
		}
		if _, err := b.AddProduction(lhs, rhs, grammar.ActionID(p.Action)); err != nil {
			return nil, &DocumentError{Cause: err, Entry: i + 1}
		}
	}

	g, err := b.Build()
	if err != nil {
		return nil, &DocumentError{Cause: err}
	}
	return &Result{Grammar: g, Start: start}, nil
}
