package lr

import (
	"errors"
	"testing"

	"github.com/kentaro-s/lrtab/grammar"
	"github.com/kentaro-s/lrtab/grammar/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildGrammar is a small helper that turns a declarative production list
// into a *grammar.Grammar, registering symbols on first use. Nonterminals
// must be listed as lhs of at least one production; terminals anywhere on
// an rhs that were never seen as an lhs are registered as terminals.
type prodSpec struct {
	lhs string
	rhs []string
}

func buildGrammar(t *testing.T, prods []prodSpec) (*grammar.Grammar, map[string]symbol.Symbol) {
	t.Helper()
	b := grammar.NewBuilder()
	syms := map[string]symbol.Symbol{}

	nonterms := map[string]bool{}
	for _, p := range prods {
		nonterms[p.lhs] = true
	}
	for _, p := range prods {
		if _, ok := syms[p.lhs]; !ok {
			s, err := b.NonTerminal(p.lhs)
			require.NoError(t, err)
			syms[p.lhs] = s
		}
		for _, name := range p.rhs {
			if _, ok := syms[name]; ok {
				continue
			}
			var s symbol.Symbol
			var err error
			if nonterms[name] {
				s, err = b.NonTerminal(name)
			} else {
				s, err = b.Terminal(name)
			}
			require.NoError(t, err)
			syms[name] = s
		}
	}

	for i, p := range prods {
		rhs := make([]symbol.Symbol, len(p.rhs))
		for j, name := range p.rhs {
			rhs[j] = syms[name]
		}
		_, err := b.AddProduction(syms[p.lhs], rhs, grammar.ActionID(i))
		require.NoError(t, err)
	}

	g, err := b.Build()
	require.NoError(t, err)
	return g, syms
}

// S1 - trivial: S -> a.
//
// Without a synthesized S' -> S goal production (this core's resolved
// design never adds one), there is no item anywhere with a dot in front
// of the start symbol, so no GOTO(S) transition exists and no third
// "accept" state is reachable. The construction is still fully correct:
// state 0 shifts 'a' into a state that reduces on $.
func TestBuildLR1States_trivial(t *testing.T) {
	g, syms := buildGrammar(t, []prodSpec{{"S", []string{"a"}}})

	states, err := BuildLR1States(g, syms["S"])
	require.NoError(t, err)
	require.Len(t, states, 2)

	assert.Equal(t, StateIndex(1), states[0].Shifts[syms["a"]])
	require.Len(t, states[1].Reductions, 1)
	assert.ElementsMatch(t, []symbol.Symbol{symbol.EOF}, states[1].Reductions[0].Lookahead.Symbols())
}

// S2 - dangling-else-style ambiguity: S -> i E t S | i E t S e S | a; E -> b.
//
// This grammar is genuinely ambiguous: after reducing an inner S via
// "i E t S", the terminal e can legally follow (it belongs to an
// enclosing "i E t S e S"), so the state reached after a goto on S from
// "i E t ." always carries both a pending reduction and a shift on e. No
// amount of lookahead resolves that — it is not merely an LALR
// deficiency, so both LR(0) and canonical LR(1) report the same
// shift-reduce conflict on e.
func TestBuild_danglingElseStyleConflict(t *testing.T) {
	prods := []prodSpec{
		{"S", []string{"i", "E", "t", "S"}},
		{"S", []string{"i", "E", "t", "S", "e", "S"}},
		{"S", []string{"a"}},
		{"E", []string{"b"}},
	}
	g, syms := buildGrammar(t, prods)

	_, err := BuildLR0States(g, syms["S"])
	assertShiftReduceConflictOn(t, err, syms["e"])

	_, err = BuildLR1States(g, syms["S"])
	assertShiftReduceConflictOn(t, err, syms["e"])
}

func assertShiftReduceConflictOn(t *testing.T, err error, terminal symbol.Symbol) {
	t.Helper()
	require.Error(t, err)
	var cerr *ConstructionError
	require.True(t, errors.As(err, &cerr))
	require.NotEmpty(t, cerr.States)

	found := false
	for _, c := range cerr.Conflicts {
		if sa, ok := c.Action.(ShiftAction); ok && sa.Terminal == terminal {
			found = true
			break
		}
	}
	assert.True(t, found, "expected a shift-reduce conflict on %v", terminal)
}

// S3 - epsilon production: S -> A a; A -> (empty).
//
// State 0's closure must include the epsilon item A -> . , reducible on
// FIRST(a, $) = {a}.
func TestBuildLR1States_epsilonProduction(t *testing.T) {
	g, syms := buildGrammar(t, []prodSpec{
		{"S", []string{"A", "a"}},
		{"A", nil},
	})

	states, err := BuildLR1States(g, syms["S"])
	require.NoError(t, err)
	require.Len(t, states, 3)

	require.Len(t, states[0].Reductions, 1)
	epsItem := states[0].Reductions[0]
	assert.True(t, epsItem.CanReduce())
	assert.ElementsMatch(t, []symbol.Symbol{syms["a"]}, epsItem.Lookahead.Symbols())
}

// S4 - reduce-reduce: S -> A | B; A -> x; B -> x.
//
// Exactly one reduce-reduce conflict, on $, in the state reached after
// shifting x.
func TestBuildLR1States_reduceReduce(t *testing.T) {
	g, syms := buildGrammar(t, []prodSpec{
		{"S", []string{"A"}},
		{"S", []string{"B"}},
		{"A", []string{"x"}},
		{"B", []string{"x"}},
	})

	_, err := BuildLR1States(g, syms["S"])
	require.Error(t, err)
	var cerr *ConstructionError
	require.True(t, errors.As(err, &cerr))

	require.Len(t, cerr.Conflicts, 1)
	c := cerr.Conflicts[0]
	ra, ok := c.Action.(ReduceAction)
	require.True(t, ok)
	_ = ra

	xState := cerr.States[c.State]
	require.Len(t, xState.Reductions, 2)
	for _, r := range xState.Reductions {
		assert.ElementsMatch(t, []symbol.Symbol{symbol.EOF}, r.Lookahead.Symbols())
	}
}

// S5 - state reuse: S -> A A; A -> a.
//
// The two shifts on a land on kernels A -> a . that differ in lookahead
// ({a} vs {$}), so canonical LR(1) legitimately keeps them distinct; the state
// count is still the minimum a correct content-keyed kernel registry can
// produce: 5, never duplicated by allocation-order accidents.
func TestBuildLR1States_stateCount(t *testing.T) {
	g, syms := buildGrammar(t, []prodSpec{
		{"S", []string{"A", "A"}},
		{"A", []string{"a"}},
	})

	states, err := BuildLR1States(g, syms["S"])
	require.NoError(t, err)
	assert.Len(t, states, 5)
}

// S6 - lookahead union on merge: S -> C C; C -> c C | d.
//
// The canonical textbook LR(1) collection for this grammar (with an
// augmented S' -> S goal production) has 10 states. This core never
// synthesizes that goal production, so the one state whose sole item
// would have been "S' -> S ." never exists here; the remaining structure
// is identical, giving 9 states and no conflicts. FIRST(C $) = {c, d}
// arrives as a single lookahead set, so no closure here holds two items
// with the same core; the count of 9 does not depend on the lookahead
// merge in successor partitioning.
func TestBuildLR1States_lookaheadMergeOnSuccessors(t *testing.T) {
	g, syms := buildGrammar(t, []prodSpec{
		{"S", []string{"C", "C"}},
		{"C", []string{"c", "C"}},
		{"C", []string{"d"}},
	})

	states, err := BuildLR1States(g, syms["S"])
	require.NoError(t, err)
	assert.Len(t, states, 9)
}

// Kernel canonicalisation: every state's kernel must be distinct from
// every other state's, otherwise the registry failed to merge or
// wrongly split identical kernels.
func TestBuildLR1States_kernelsAreDistinct(t *testing.T) {
	g, syms := buildGrammar(t, []prodSpec{
		{"E", []string{"E", "add", "T"}},
		{"E", []string{"T"}},
		{"T", []string{"id"}},
	})

	states, err := BuildLR1States(g, syms["E"])
	require.NoError(t, err)

	seen := map[KernelID]StateIndex{}
	for _, st := range states {
		k := newKernel(kernelItemsOf(st))
		if other, ok := seen[k.ID]; ok {
			t.Fatalf("states %d and %d share a kernel", other, st.Index)
		}
		seen[k.ID] = st.Index
	}
}

// kernelItemsOf reconstructs a state's kernel items for use in invariant
// assertions: the items with dot >= 1, as in the builder's shifted
// kernels. For state 0 it returns the whole item set, which contains the
// builder's seed kernel plus its closure items.
func kernelItemsOf(st *State) []Item {
	if st.Index == 0 {
		return st.Items
	}
	var kernel []Item
	for _, it := range st.Items {
		if it.Dot > 0 {
			kernel = append(kernel, it)
		}
	}
	return kernel
}

// Determinism: two builds over the same grammar, start, and lookahead
// variant produce state vectors with identical shape.
func TestBuildLR1States_deterministic(t *testing.T) {
	g, syms := buildGrammar(t, []prodSpec{
		{"E", []string{"E", "add", "T"}},
		{"E", []string{"T"}},
		{"T", []string{"id"}},
	})

	first, err := BuildLR1States(g, syms["E"])
	require.NoError(t, err)
	second, err := BuildLR1States(g, syms["E"])
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, len(first[i].Items), len(second[i].Items))
		assert.Equal(t, first[i].Shifts, second[i].Shifts)
		assert.Equal(t, first[i].Gotos, second[i].Gotos)
	}
}

// Successor totality: a symbol is never simultaneously a shift and a
// goto target out of the same state.
func TestBuildLR1States_successorsNeverOverlap(t *testing.T) {
	g, syms := buildGrammar(t, []prodSpec{
		{"E", []string{"E", "add", "T"}},
		{"E", []string{"T"}},
		{"T", []string{"id"}},
	})

	states, err := BuildLR1States(g, syms["E"])
	require.NoError(t, err)

	for _, st := range states {
		for sym := range st.Shifts {
			_, inGotos := st.Gotos[sym]
			assert.False(t, inGotos, "state %d: %v is both a shift and a goto", st.Index, sym)
		}
	}
}

// LR(0)->LR(1) never merges states an LR0 build would keep separate: an
// LR1 kernel is an LR0 kernel plus lookahead, so two LR1 states can share
// an LR0 core and split apart, but never the reverse. The LR1 state count
// is therefore always at least the LR0 state count, for any grammar.
func TestBuild_lr1NeverHasFewerStatesThanLr0(t *testing.T) {
	g, syms := buildGrammar(t, []prodSpec{
		{"E", []string{"E", "add", "T"}},
		{"E", []string{"T"}},
		{"T", []string{"id"}},
	})

	lr0States, err := BuildLR0States(g, syms["E"])
	require.NoError(t, err)
	lr1States, err := BuildLR1States(g, syms["E"])
	require.NoError(t, err)

	assert.GreaterOrEqual(t, len(lr1States), len(lr0States))
}

func TestBuild_rejectsUndefinedStart(t *testing.T) {
	b := grammar.NewBuilder()
	s, err := b.NonTerminal("S")
	require.NoError(t, err)
	unused, err := b.NonTerminal("unused")
	require.NoError(t, err)
	a, err := b.Terminal("a")
	require.NoError(t, err)
	_, err = b.AddProduction(s, []symbol.Symbol{a}, 0)
	require.NoError(t, err)
	g, err := b.Build()
	require.NoError(t, err)

	_, err = BuildLR1States(g, unused)
	assert.ErrorIs(t, err, grammar.ErrUndefinedStart)
}

func TestWithConflictBudget_stopsEarly(t *testing.T) {
	prods := []prodSpec{
		{"S", []string{"A"}},
		{"S", []string{"B"}},
		{"A", []string{"x"}},
		{"B", []string{"x"}},
	}
	g, syms := buildGrammar(t, prods)

	_, err := BuildLR1States(g, syms["S"], WithConflictBudget(0))
	require.Error(t, err)
	var cerr *ConstructionError
	require.True(t, errors.As(err, &cerr))
	assert.NotEmpty(t, cerr.Conflicts)
}
