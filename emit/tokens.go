// Package emit turns a finished lr.State vector into the shapes a
// downstream parser (generated or hand-written) actually consumes: a
// merged per-terminal action table, a human-readable report, and two
// optional persisted forms of that report. It never reaches back into the
// builder's internals; everything here is derived from the public
// lr.State/lr.Automaton surface.
package emit

import (
	"fmt"
	"sort"

	"github.com/kentaro-s/lrtab/grammar"
	"github.com/kentaro-s/lrtab/grammar/symbol"
	"github.com/kentaro-s/lrtab/lr"
)

// TokenAction is the action a generated parser takes on a given lookahead
// terminal: either Shift into another state or Reduce by a production.
type TokenAction interface {
	isTokenAction()
}

// Shift consumes the lookahead terminal and moves to Next.
type Shift struct {
	Next lr.StateIndex
}

func (Shift) isTokenAction() {}

// Reduce applies Production without consuming the lookahead terminal.
type Reduce struct {
	Production grammar.ProductionID
}

func (Reduce) isTokenAction() {}

// DeriveTokens builds the merged tokens map a recursive-ascent or
// table-driven parser dispatches on: one TokenAction per terminal a state
// can act on, found by combining its Shifts (each becomes a Shift) with
// its Reductions expanded per lookahead terminal (each becomes a Reduce).
// g supplies the terminal universe for LR(0) states, whose items carry no
// lookahead of their own. A state produced by lr.BuildLR0States or
// lr.BuildLR1States without a ConstructionError never has an entry
// claimed by both a shift and a reduction — conflicts are refused there —
// so a collision here means the caller handed DeriveTokens a state built
// some other way; that is reported as an error rather than silently
// preferring one action.
func DeriveTokens(g *grammar.Grammar, state *lr.State) (map[symbol.Symbol]TokenAction, error) {
	tokens := make(map[symbol.Symbol]TokenAction, len(state.Shifts))

	for sym, next := range state.Shifts {
		tokens[sym] = Shift{Next: next}
	}

	for _, item := range state.Reductions {
		prod := item.Prod
		terms := lookaheadTerminals(g, item)
		for _, t := range terms {
			if existing, ok := tokens[t]; ok {
				return nil, fmt.Errorf("emit: state %d: %v already bound to %#v, cannot also reduce by %v", state.Index, t, existing, prod)
			}
			tokens[t] = Reduce{Production: prod}
		}
	}

	return tokens, nil
}

// lookaheadTerminals returns the terminals an item reduces on: its
// lookahead set for an LR(1) item, or the full terminal universe of g
// (LR(0) has no lookahead to narrow the reduction to) for an LR(0) item.
func lookaheadTerminals(g *grammar.Grammar, item lr.Item) []symbol.Symbol {
	if item.Lookahead == nil {
		return g.AllTerminals()
	}
	return item.Lookahead.Symbols()
}

// sortedTerminals is a small shared helper for rendering: the terminals a
// tokens map covers, in a stable order.
func sortedTerminals(tokens map[symbol.Symbol]TokenAction) []symbol.Symbol {
	syms := make([]symbol.Symbol, 0, len(tokens))
	for s := range tokens {
		syms = append(syms, s)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}
