package grammar

import (
	"testing"

	"github.com/kentaro-s/lrtab/grammar/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func symSet(syms ...symbol.Symbol) map[symbol.Symbol]struct{} {
	m := map[symbol.Symbol]struct{}{}
	for _, s := range syms {
		m[s] = struct{}{}
	}
	return m
}

func assertTermSet(t *testing.T, got *TermSet, wantEmpty bool, want ...symbol.Symbol) {
	t.Helper()
	assert.Equal(t, wantEmpty, got.Empty())
	assert.Equal(t, symSet(want...), symSetOf(got))
}

func symSetOf(e *TermSet) map[symbol.Symbol]struct{} {
	m := map[symbol.Symbol]struct{}{}
	for _, s := range e.Symbols() {
		m[s] = struct{}{}
	}
	return m
}

func TestFirst1_exprGrammar(t *testing.T) {
	g, syms := buildExprGrammar(t)

	t.Run("FIRST of a nonterminal via First1 with empty remainder", func(t *testing.T) {
		fst, err := g.First1([]symbol.Symbol{syms.factor}, nil)
		require.NoError(t, err)
		assertTermSet(t, fst, false, syms.id, syms.lParen)
	})

	t.Run("a leading terminal short-circuits the walk", func(t *testing.T) {
		fst, err := g.First1([]symbol.Symbol{syms.add, syms.term}, nil)
		require.NoError(t, err)
		assertTermSet(t, fst, false, syms.add)
	})

	t.Run("an empty remainder with no lookahead derives only emptiness", func(t *testing.T) {
		fst, err := g.First1(nil, nil)
		require.NoError(t, err)
		assertTermSet(t, fst, true)
	})

	t.Run("an empty remainder folds in the inherited lookahead", func(t *testing.T) {
		la := newTermSet()
		la.add(symbol.EOF)
		fst, err := g.First1(nil, la)
		require.NoError(t, err)
		assertTermSet(t, fst, false, symbol.EOF)
	})
}

func TestFirst1_nullableChain(t *testing.T) {
	// S -> A a
	// A -> B
	// B -> (epsilon)
	b := NewBuilder()
	s, err := b.NonTerminal("S")
	require.NoError(t, err)
	a, err := b.NonTerminal("A")
	require.NoError(t, err)
	bb, err := b.NonTerminal("B")
	require.NoError(t, err)
	term, err := b.Terminal("a")
	require.NoError(t, err)

	_, err = b.AddProduction(s, []symbol.Symbol{a, term}, 0)
	require.NoError(t, err)
	_, err = b.AddProduction(a, []symbol.Symbol{bb}, 0)
	require.NoError(t, err)
	_, err = b.AddProduction(bb, nil, 0)
	require.NoError(t, err)

	g, err := b.Build()
	require.NoError(t, err)

	assert.True(t, g.IsNullable(a))
	assert.True(t, g.IsNullable(bb))

	la := newTermSet()
	la.add(symbol.EOF)
	fst, err := g.First1([]symbol.Symbol{a, term}, la)
	require.NoError(t, err)
	// A is nullable via B, so FIRST(A a, {$}) = {a}; the lookahead never
	// gets folded in because "a" stops the walk before the loop exits.
	assertTermSet(t, fst, false, term)
}
