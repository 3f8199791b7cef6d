// Package grammar provides the read-only grammar view, the production
// set, and the FIRST/FOLLOW engines that the lr package's state
// construction core is built on. Grammar ingestion from a textual
// definition (the grammar/ingest package) is a thin, separate layer on
// top of Builder; the normalization and semantic analysis a full grammar
// DSL would need is out of scope here (see SPEC_FULL.md §1).
package grammar

import (
	"sort"

	"github.com/kentaro-s/lrtab/grammar/symbol"
)

// Grammar is an immutable, read-only view over a set of productions and
// the symbol table they were built from. It is constructed once (via
// Builder) and then shared for the lifetime of an LR build.
type Grammar struct {
	symbols *symbol.Table
	prods   *productionSet
	first   *FirstSets
}

// Symbols returns the symbol table the grammar's productions reference.
func (g *Grammar) Symbols() *symbol.Table {
	return g.symbols
}

// ProductionsFor returns every production whose LHS is nt, in the order
// they were added to the grammar.
func (g *Grammar) ProductionsFor(nt symbol.Symbol) []*Production {
	return g.prods.findByLHS(nt)
}

// ProductionByID looks up a production by its content-derived identity.
func (g *Grammar) ProductionByID(id ProductionID) (*Production, bool) {
	return g.prods.findByID(id)
}

// AllProductions returns every production in the grammar, in the order
// they were added.
func (g *Grammar) AllProductions() []*Production {
	return g.prods.allProductions()
}

// AllNonterminals returns every nonterminal with at least one production,
// in symbol order.
func (g *Grammar) AllNonterminals() []symbol.Symbol {
	seen := map[symbol.Symbol]struct{}{}
	for _, p := range g.prods.allProductions() {
		seen[p.LHS] = struct{}{}
	}
	nts := make([]symbol.Symbol, 0, len(seen))
	for nt := range seen {
		nts = append(nts, nt)
	}
	sort.Slice(nts, func(i, j int) bool { return nts[i] < nts[j] })
	return nts
}

// AllTerminals returns every terminal registered in the grammar's symbol
// table, including EOF, in symbol order.
func (g *Grammar) AllTerminals() []symbol.Symbol {
	return g.symbols.Terminals()
}

// IsNullable reports whether a nonterminal can derive the empty string.
func (g *Grammar) IsNullable(nt symbol.Symbol) bool {
	return g.first.IsNullable(nt)
}

// First1 computes FIRST_1(beta . lookahead); see FirstSets.First1.
func (g *Grammar) First1(beta []symbol.Symbol, lookahead *TermSet) (*TermSet, error) {
	return g.first.First1(beta, lookahead)
}

// FollowSets computes the FOLLOW sets of the grammar relative to start.
// It is not used by LR(0)/LR(1) construction; emit.BuildReport calls it
// to fold FOLLOW information into the build report. See the FollowSets
// doc comment for why it lives here regardless.
func (g *Grammar) FollowSets(start symbol.Symbol) (*FollowSets, error) {
	return computeFollowSets(g.prods, g.first, start)
}

// Builder assembles a Grammar from explicit productions. It is the
// minimal ingestion surface the core needs to be testable and usable from
// the CLI; grammar/ingest builds on top of it to read a TOML document.
type Builder struct {
	symbols *symbol.Table
	prods   *productionSet
}

func NewBuilder() *Builder {
	return &Builder{
		symbols: symbol.NewTable(),
		prods:   newProductionSet(),
	}
}

// NonTerminal registers (or looks up) a nonterminal by name.
func (b *Builder) NonTerminal(name string) (symbol.Symbol, error) {
	if name == "" {
		return symbol.Nil, errEmptyNonTermName
	}
	return b.symbols.RegisterNonTerminal(name)
}

// Terminal registers (or looks up) a terminal by name.
func (b *Builder) Terminal(name string) (symbol.Symbol, error) {
	if name == "" {
		return symbol.Nil, errEmptyTermName
	}
	return b.symbols.RegisterTerminal(name)
}

// AddProduction adds `lhs -> rhs` bound to the given action. rhs may be
// empty to declare an epsilon production.
func (b *Builder) AddProduction(lhs symbol.Symbol, rhs []symbol.Symbol, action ActionID) (*Production, error) {
	p, err := newProduction(lhs, rhs, action)
	if err != nil {
		return nil, err
	}
	return b.prods.append(p)
}

// Build validates and freezes the grammar. Every symbol referenced by a
// production's RHS must be registered; every nonterminal that appears as
// an RHS symbol need not have its own production (that is a reachability
// concern for the caller, not a construction precondition), but an RHS
// symbol that was never registered at all is a caller bug.
func (b *Builder) Build() (*Grammar, error) {
	if len(b.prods.all) == 0 {
		return nil, errNoProductions
	}
	for _, p := range b.prods.all {
		for _, s := range p.RHS {
			if _, ok := b.symbols.ToText(s); !ok {
				return nil, errUndefinedSymbol
			}
		}
	}

	g := &Grammar{
		symbols: b.symbols,
		prods:   b.prods,
	}
	g.first = computeFirstSets(b.prods)
	return g, nil
}
