package lr

import (
	"sort"

	"github.com/kentaro-s/lrtab/grammar"
	"github.com/kentaro-s/lrtab/grammar/symbol"
	"github.com/kentaro-s/lrtab/internal/session"
)

// Options configures a call to BuildLR0States or BuildLR1States. The zero
// value runs to completion with no progress logging and no conflict-budget
// early stop.
type Options struct {
	session        *session.Session
	hasBudget      bool
	conflictBudget int
}

// Option mutates an Options value when a build function is called.
type Option func(*Options)

// WithSession threads an explicit diagnostic session through the build:
// progress lines every session.WithProgressEvery states, and a notice if
// a conflict budget stops the build early.
func WithSession(s *session.Session) Option {
	return func(o *Options) { o.session = s }
}

// WithConflictBudget halts the build once the number of accumulated
// conflicts exceeds n, returning the partial automaton built so far inside
// a *ConstructionError instead of exhausting the full kernel worklist.
// Without this option the build always runs to completion.
func WithConflictBudget(n int) Option {
	return func(o *Options) {
		o.hasBudget = true
		o.conflictBudget = n
	}
}

// BuildLR0States computes the canonical LR(0) state collection for g,
// seeded from start. LR(0) items carry no lookahead; every reduction in a
// state conflicts with every shift and every other reduction in that
// state, since there is no lookahead to disambiguate them.
func BuildLR0States(g *grammar.Grammar, start symbol.Symbol, opts ...Option) ([]*State, error) {
	return build(g, start, lr0Policy{}, opts...)
}

// BuildLR1States computes the canonical LR(1) state collection for g,
// seeded from start with {EOF} as the inherited lookahead. It permits
// early stop via WithConflictBudget.
func BuildLR1States(g *grammar.Grammar, start symbol.Symbol, opts ...Option) ([]*State, error) {
	return build(g, start, lr1Policy{}, opts...)
}

func build(g *grammar.Grammar, start symbol.Symbol, policy LookaheadPolicy, opts ...Option) ([]*State, error) {
	startProds := g.ProductionsFor(start)
	if len(startProds) == 0 {
		return nil, grammar.ErrUndefinedStart
	}

	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}

	span := o.session.StartSpan("state construction")
	defer span.End()

	registry := newKernelRegistry()
	seed := make([]Item, 0, len(startProds))
	for _, p := range startProds {
		seed = append(seed, newItem(p, 0, policy.StartLookahead()))
	}
	registry.addState(newKernel(seed))

	var states []*State
	var conflicts []Conflict

	for {
		k, ok := registry.next()
		if !ok {
			break
		}
		for _, it := range k.Items {
			if len(states) == 0 && it.Dot != 0 {
				panic("lr: start kernel contains an item with its dot past position 0")
			}
			if len(states) > 0 && it.Dot == 0 {
				panic("lr: shifted kernel contains an item with its dot at position 0")
			}
		}

		items, err := transitiveClosure(g, policy, k)
		if err != nil {
			return nil, err
		}

		st := &State{
			Index:  StateIndex(len(states)),
			Items:  items,
			Shifts: map[symbol.Symbol]StateIndex{},
			Gotos:  map[symbol.Symbol]StateIndex{},
			prefix: prefixOf(g, k),
		}

		groups, order := partitionSuccessors(g, policy, items)
		for _, sym := range order {
			successorKernel := newKernel(groups[sym])
			idx := registry.addState(successorKernel)
			if sym.IsTerminal() {
				if _, exists := st.Shifts[sym]; exists {
					panic("lr: duplicate shift group for the same symbol within one state")
				}
				st.Shifts[sym] = idx
			} else {
				if _, exists := st.Gotos[sym]; exists {
					panic("lr: duplicate goto group for the same symbol within one state")
				}
				st.Gotos[sym] = idx
			}
		}

		for _, it := range items {
			if it.CanReduce() {
				st.Reductions = append(st.Reductions, it)
			}
		}

		states = append(states, st)
		conflicts = append(conflicts, policy.Conflicts(st)...)

		o.session.Progress(len(states))

		if o.hasBudget && len(conflicts) > o.conflictBudget {
			o.session.Log("lrtab: conflict budget of %d exceeded after %d states, stopping early", o.conflictBudget, len(states))
			break
		}
	}

	if len(conflicts) > 0 {
		return states, &ConstructionError{States: states, Conflicts: conflicts}
	}
	return states, nil
}

// successorKey groups shifted items by the symbol consumed and the
// production+dot of the resulting item, per the builder's successor
// partitioning step: two items shift into the "same" next-state item iff
// they agree on both.
type successorKey struct {
	sym symbol.Symbol
	lr0 LR0Key
}

// partitionSuccessors groups items by the symbol they shift on, merging
// the lookahead of items that share an LR0Key under policy.Merge so that
// LR(1) items differing only in lookahead collapse into a single
// next-state kernel item instead of producing spuriously distinct states.
// order is the deterministic (symbol-order) sequence in which the caller
// should visit groups.
func partitionSuccessors(g *grammar.Grammar, policy LookaheadPolicy, items []Item) (map[symbol.Symbol][]Item, []symbol.Symbol) {
	type group struct {
		sym       symbol.Symbol
		core      Item
		lookahead *grammar.TermSet
	}

	groupsByKey := map[successorKey]*group{}
	var keyOrder []successorKey

	for _, it := range items {
		if it.DottedSymbol.IsNil() {
			continue
		}
		p, ok := g.ProductionByID(it.Prod)
		if !ok {
			panic("lr: item references a production absent from its grammar")
		}
		sym, shifted, ok := it.ShiftedItem(p)
		if !ok {
			continue
		}

		key := successorKey{sym: sym, lr0: shifted.LR0Key()}
		grp, exists := groupsByKey[key]
		if !exists {
			grp = &group{sym: sym, core: shifted.WithLookahead(nil), lookahead: shifted.Lookahead}
			groupsByKey[key] = grp
			keyOrder = append(keyOrder, key)
			continue
		}
		grp.lookahead = policy.Merge(grp.lookahead, shifted.Lookahead)
	}

	result := map[symbol.Symbol][]Item{}
	seenSym := map[symbol.Symbol]bool{}
	var order []symbol.Symbol
	for _, key := range keyOrder {
		grp := groupsByKey[key]
		result[grp.sym] = append(result[grp.sym], grp.core.WithLookahead(grp.lookahead))
		if !seenSym[grp.sym] {
			seenSym[grp.sym] = true
			order = append(order, grp.sym)
		}
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	return result, order
}

// prefixOf derives a kernel's shifted prefix: for a non-seed kernel, the
// symbols consumed by its item with the largest dot position (kernel items
// may sit at different dots, and each one's consumed symbols are a suffix
// of that longest sequence); empty for the seed kernel, whose items all
// sit at dot 0.
func prefixOf(g *grammar.Grammar, k Kernel) []symbol.Symbol {
	if len(k.Items) == 0 {
		return nil
	}
	it := k.Items[0]
	for _, other := range k.Items[1:] {
		if other.Dot > it.Dot {
			it = other
		}
	}
	if it.Dot == 0 {
		return nil
	}
	p, ok := g.ProductionByID(it.Prod)
	if !ok {
		panic("lr: kernel item references a production absent from its grammar")
	}
	prefix := make([]symbol.Symbol, it.Dot)
	copy(prefix, p.RHS[:it.Dot])
	return prefix
}
