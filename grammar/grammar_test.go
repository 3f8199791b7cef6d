package grammar

import (
	"testing"

	"github.com/kentaro-s/lrtab/grammar/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exprGrammarSymbols names the symbols of the classic expression grammar
// used throughout this package's and the lr package's tests:
//
//	expr   -> expr add term | term
//	term   -> term mul factor | factor
//	factor -> l_paren expr r_paren | id
type exprGrammarSymbols struct {
	expr, term, factor                       symbol.Symbol
	id, add, mul, lParen, rParen             symbol.Symbol
}

func buildExprGrammar(t *testing.T) (*Grammar, exprGrammarSymbols) {
	t.Helper()
	b := NewBuilder()

	syms := exprGrammarSymbols{}
	var err error
	syms.expr, err = b.NonTerminal("expr")
	require.NoError(t, err)
	syms.term, err = b.NonTerminal("term")
	require.NoError(t, err)
	syms.factor, err = b.NonTerminal("factor")
	require.NoError(t, err)
	syms.id, err = b.Terminal("id")
	require.NoError(t, err)
	syms.add, err = b.Terminal("add")
	require.NoError(t, err)
	syms.mul, err = b.Terminal("mul")
	require.NoError(t, err)
	syms.lParen, err = b.Terminal("l_paren")
	require.NoError(t, err)
	syms.rParen, err = b.Terminal("r_paren")
	require.NoError(t, err)

	_, err = b.AddProduction(syms.expr, []symbol.Symbol{syms.expr, syms.add, syms.term}, 1)
	require.NoError(t, err)
	_, err = b.AddProduction(syms.expr, []symbol.Symbol{syms.term}, 2)
	require.NoError(t, err)
	_, err = b.AddProduction(syms.term, []symbol.Symbol{syms.term, syms.mul, syms.factor}, 3)
	require.NoError(t, err)
	_, err = b.AddProduction(syms.term, []symbol.Symbol{syms.factor}, 4)
	require.NoError(t, err)
	_, err = b.AddProduction(syms.factor, []symbol.Symbol{syms.lParen, syms.expr, syms.rParen}, 5)
	require.NoError(t, err)
	_, err = b.AddProduction(syms.factor, []symbol.Symbol{syms.id}, 6)
	require.NoError(t, err)

	g, err := b.Build()
	require.NoError(t, err)
	return g, syms
}

func TestBuilder_Build_rejectsEmptyGrammar(t *testing.T) {
	b := NewBuilder()
	_, err := b.Build()
	assert.ErrorIs(t, err, errNoProductions)
}

func TestBuilder_Build_rejectsUndefinedSymbol(t *testing.T) {
	b := NewBuilder()
	s, err := b.NonTerminal("s")
	require.NoError(t, err)

	ghost, err := b.Terminal("ghost")
	require.NoError(t, err)

	_, err = b.AddProduction(s, []symbol.Symbol{ghost}, 0)
	require.NoError(t, err)

	// Build a second, isolated builder whose production references a
	// terminal that was never registered on that builder's own table.
	b2 := NewBuilder()
	s2, err := b2.NonTerminal("s")
	require.NoError(t, err)
	_, err = b2.AddProduction(s2, []symbol.Symbol{ghost}, 0)
	require.NoError(t, err)
	_, err = b2.Build()
	assert.ErrorIs(t, err, errUndefinedSymbol)
}

func TestGrammar_view(t *testing.T) {
	g, syms := buildExprGrammar(t)

	assert.Len(t, g.ProductionsFor(syms.expr), 2)
	assert.Len(t, g.ProductionsFor(syms.term), 2)
	assert.Len(t, g.ProductionsFor(syms.factor), 2)
	assert.Len(t, g.AllProductions(), 6)
	assert.False(t, g.IsNullable(syms.expr))

	nts := g.AllNonterminals()
	assert.Len(t, nts, 3)
	for i := 1; i < len(nts); i++ {
		assert.Less(t, nts[i-1], nts[i])
	}
}

func TestGrammar_nullableProduction(t *testing.T) {
	b := NewBuilder()
	s, err := b.NonTerminal("S")
	require.NoError(t, err)
	a, err := b.NonTerminal("A")
	require.NoError(t, err)
	term, err := b.Terminal("a")
	require.NoError(t, err)

	_, err = b.AddProduction(s, []symbol.Symbol{a, term}, 0)
	require.NoError(t, err)
	_, err = b.AddProduction(a, nil, 0)
	require.NoError(t, err)

	g, err := b.Build()
	require.NoError(t, err)

	assert.True(t, g.IsNullable(a))
	assert.False(t, g.IsNullable(s))
}
