package lr

import (
	"github.com/kentaro-s/lrtab/grammar"
	"github.com/kentaro-s/lrtab/grammar/symbol"
)

// LookaheadPolicy is the seam between the LR(0) and LR(1) variants: the
// closure step, successor-group merge, and conflict detector all dispatch
// through it instead of the builder branching on a mode flag.
type LookaheadPolicy interface {
	// StartLookahead is the lookahead payload seeded into state 0's items.
	StartLookahead() *grammar.TermSet

	// EpsilonMoves returns the items a closure step introduces when an
	// existing item's dot sits in front of nonterminal nt, with remainder
	// beta (the symbols strictly after nt in the triggering item) and
	// inherited lookahead l.
	EpsilonMoves(g *grammar.Grammar, nt symbol.Symbol, beta []symbol.Symbol, l *grammar.TermSet) ([]Item, error)

	// Merge combines the lookaheads of two items that share an LR0Key
	// during successor partitioning.
	Merge(a, b *grammar.TermSet) *grammar.TermSet

	// Conflicts detects shift-reduce and reduce-reduce conflicts within a
	// single finished state.
	Conflicts(st *State) []Conflict
}

// lr0Policy implements LR(0) construction: unit lookahead, closure without
// FIRST, and the coarsest possible conflict rule (any reduction sharing a
// state with any shift, or with any other reduction, conflicts).
type lr0Policy struct{}

func (lr0Policy) StartLookahead() *grammar.TermSet { return nil }

func (lr0Policy) EpsilonMoves(g *grammar.Grammar, nt symbol.Symbol, _ []symbol.Symbol, _ *grammar.TermSet) ([]Item, error) {
	prods := g.ProductionsFor(nt)
	items := make([]Item, 0, len(prods))
	for _, p := range prods {
		items = append(items, newItem(p, 0, nil))
	}
	return items, nil
}

func (lr0Policy) Merge(_, _ *grammar.TermSet) *grammar.TermSet { return nil }

func (lr0Policy) Conflicts(st *State) []Conflict {
	var out []Conflict
	if len(st.Shifts) > 0 {
		for _, item := range st.Reductions {
			for _, t := range st.sortedShiftSymbols() {
				out = append(out, Conflict{State: st.Index, Item: item, Action: ShiftAction{Terminal: t}})
			}
		}
	}
	for i := 0; i < len(st.Reductions); i++ {
		for j := i + 1; j < len(st.Reductions); j++ {
			out = append(out, Conflict{
				State:  st.Index,
				Item:   st.Reductions[i],
				Action: ReduceAction{Production: st.Reductions[j].Prod},
			})
		}
	}
	return out
}

// lr1Policy implements canonical LR(1) construction: a TermSet lookahead
// computed via FIRST, set-union merge on the successor grouping, and
// precise conflict detection restricted to actually-overlapping lookahead
// sets.
type lr1Policy struct{}

func (lr1Policy) StartLookahead() *grammar.TermSet {
	return grammar.NewTermSet(symbol.EOF)
}

func (lr1Policy) EpsilonMoves(g *grammar.Grammar, nt symbol.Symbol, beta []symbol.Symbol, l *grammar.TermSet) ([]Item, error) {
	merged, err := g.First1(beta, l)
	if err != nil {
		return nil, err
	}
	prods := g.ProductionsFor(nt)
	items := make([]Item, 0, len(prods))
	for _, p := range prods {
		items = append(items, newItem(p, 0, merged))
	}
	return items, nil
}

func (lr1Policy) Merge(a, b *grammar.TermSet) *grammar.TermSet {
	return grammar.UnionTermSets(a, b)
}

func (lr1Policy) Conflicts(st *State) []Conflict {
	var out []Conflict
	shiftTerms := make(map[symbol.Symbol]struct{}, len(st.Shifts))
	for _, t := range st.sortedShiftSymbols() {
		shiftTerms[t] = struct{}{}
	}
	for _, item := range st.Reductions {
		for _, t := range item.Lookahead.Symbols() {
			if _, ok := shiftTerms[t]; ok {
				out = append(out, Conflict{State: st.Index, Item: item, Action: ShiftAction{Terminal: t}})
			}
		}
	}
	for i := 0; i < len(st.Reductions); i++ {
		for j := i + 1; j < len(st.Reductions); j++ {
			if st.Reductions[i].Lookahead.Intersects(st.Reductions[j].Lookahead) {
				out = append(out, Conflict{
					State:  st.Index,
					Item:   st.Reductions[i],
					Action: ReduceAction{Production: st.Reductions[j].Prod},
				})
			}
		}
	}
	return out
}
