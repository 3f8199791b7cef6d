package lr

import (
	"sort"

	"github.com/kentaro-s/lrtab/grammar/symbol"
)

// State is one node of the finished automaton: its full item set, the
// transitions out of it keyed by symbol, and the reductions it performs.
type State struct {
	Index      StateIndex
	Items      []Item
	Shifts     map[symbol.Symbol]StateIndex
	Gotos      map[symbol.Symbol]StateIndex
	Reductions []Item
	prefix     []symbol.Symbol
}

// Prefix returns the sequence of symbols that must have been shifted to
// reach this state: the symbols before the dot of the kernel item with the
// largest dot position (every other kernel item's consumed symbols are a
// suffix of it). State 0's prefix is empty. The downstream recursive-ascent
// emitter uses this to size a state function's stack-slot parameters.
func (s *State) Prefix() []symbol.Symbol {
	return s.prefix
}

// sortedShiftSymbols returns the terminals s shifts on, in symbol order,
// for use wherever conflict detection or reporting needs deterministic
// iteration over the Shifts map.
func (s *State) sortedShiftSymbols() []symbol.Symbol {
	syms := make([]symbol.Symbol, 0, len(s.Shifts))
	for sym := range s.Shifts {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}

// Automaton is the immutable result of a finished LR build.
type Automaton struct {
	States  []*State
	Initial StateIndex
}

// NewAutomaton wraps a finished state vector (as returned by
// BuildLR0States/BuildLR1States) into an Automaton. The builder always
// registers the seed kernel first, so Initial is always 0 for any states
// vector it produces.
func NewAutomaton(states []*State) *Automaton {
	return &Automaton{States: states, Initial: 0}
}
