package emit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kentaro-s/lrtab/grammar"
	"github.com/kentaro-s/lrtab/grammar/symbol"
	"github.com/kentaro-s/lrtab/lr"
)

func buildReduceReduceStates(t *testing.T) (*grammar.Grammar, []*lr.State, error) {
	t.Helper()
	b := grammar.NewBuilder()
	syms := map[string]symbol.Symbol{}
	for _, name := range []string{"S", "A", "B"} {
		s, err := b.NonTerminal(name)
		require.NoError(t, err)
		syms[name] = s
	}
	x, err := b.Terminal("x")
	require.NoError(t, err)
	syms["x"] = x

	_, err = b.AddProduction(syms["S"], []symbol.Symbol{syms["A"]}, 1)
	require.NoError(t, err)
	_, err = b.AddProduction(syms["S"], []symbol.Symbol{syms["B"]}, 2)
	require.NoError(t, err)
	_, err = b.AddProduction(syms["A"], []symbol.Symbol{syms["x"]}, 3)
	require.NoError(t, err)
	_, err = b.AddProduction(syms["B"], []symbol.Symbol{syms["x"]}, 4)
	require.NoError(t, err)

	g, err := b.Build()
	require.NoError(t, err)

	states, buildErr := lr.BuildLR1States(g, syms["S"])
	return g, states, buildErr
}

func TestBuildReport_noConflicts(t *testing.T) {
	b := grammar.NewBuilder()
	s, err := b.NonTerminal("S")
	require.NoError(t, err)
	a, err := b.Terminal("a")
	require.NoError(t, err)
	_, err = b.AddProduction(s, []symbol.Symbol{a}, 0)
	require.NoError(t, err)
	g, err := b.Build()
	require.NoError(t, err)

	states, buildErr := lr.BuildLR1States(g, s)
	require.NoError(t, buildErr)

	r, err := BuildReport(g, "lr1", s, states, buildErr)
	require.NoError(t, err)
	assert.Equal(t, 2, r.StateCount)
	assert.Equal(t, lr.StateIndex(0), r.Initial)
	assert.Empty(t, r.Conflicts)
	assert.Len(t, r.States, 2)
	require.Contains(t, r.Follow, s)
	assert.True(t, r.Follow[s].EOF)
	assert.Empty(t, r.Follow[s].Terminals)
}

func TestBuildReport_foldsConflicts(t *testing.T) {
	g, states, buildErr := buildReduceReduceStates(t)
	require.Error(t, buildErr)

	start, ok := g.Symbols().ToSymbol("S")
	require.True(t, ok)
	r, err := BuildReport(g, "lr1", start, states, buildErr)
	require.NoError(t, err)
	require.Len(t, r.Conflicts, 1)
	assert.Equal(t, "reduce-reduce", r.Conflicts[0].Kind)
}

func TestBuildReport_propagatesNonConstructionErrors(t *testing.T) {
	_, err := BuildReport(nil, "lr1", 0, nil, assert.AnError)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestText_rendersStatesAndConflicts(t *testing.T) {
	g, states, buildErr := buildReduceReduceStates(t)
	start, ok := g.Symbols().ToSymbol("S")
	require.True(t, ok)
	r, err := BuildReport(g, "lr1", start, states, buildErr)
	require.NoError(t, err)

	out := Text(r)
	assert.True(t, strings.Contains(out, "states:"))
	assert.True(t, strings.Contains(out, "conflicts:"))
	assert.True(t, strings.Contains(out, "reduce-reduce"))
}

func TestReport_stateByIndex(t *testing.T) {
	b := grammar.NewBuilder()
	s, err := b.NonTerminal("S")
	require.NoError(t, err)
	a, err := b.Terminal("a")
	require.NoError(t, err)
	_, err = b.AddProduction(s, []symbol.Symbol{a}, 0)
	require.NoError(t, err)
	g, err := b.Build()
	require.NoError(t, err)

	states, buildErr := lr.BuildLR1States(g, s)
	require.NoError(t, buildErr)
	r, err := BuildReport(g, "lr1", s, states, buildErr)
	require.NoError(t, err)

	st, ok := r.StateByIndex(0)
	require.True(t, ok)
	assert.Equal(t, lr.StateIndex(0), st.Index)

	_, ok = r.StateByIndex(lr.StateIndex(99))
	assert.False(t, ok)
}
