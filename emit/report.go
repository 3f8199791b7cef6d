package emit

import (
	"fmt"
	"sort"

	"github.com/kentaro-s/lrtab/grammar"
	"github.com/kentaro-s/lrtab/grammar/symbol"
	"github.com/kentaro-s/lrtab/lr"
)

// StateSummary is the report-facing view of a single automaton state:
// its size, its successors, and the productions it reduces by.
type StateSummary struct {
	Index       lr.StateIndex                  `json:"index"`
	ItemCount   int                            `json:"item_count"`
	KernelCount int                            `json:"kernel_count"`
	Shifts      map[symbol.Symbol]lr.StateIndex `json:"shifts"`
	Gotos       map[symbol.Symbol]lr.StateIndex `json:"gotos"`
	Reductions  []grammar.ProductionID          `json:"reductions"`
}

// ConflictSummary is the report-facing view of one lr.Conflict, flattened
// so it survives JSON/rezi round-tripping without needing the Action
// interface.
type ConflictSummary struct {
	State        lr.StateIndex        `json:"state"`
	Production   grammar.ProductionID `json:"production"`
	Kind         string               `json:"kind"` // "shift-reduce" or "reduce-reduce"
	ShiftOn      symbol.Symbol        `json:"shift_on,omitempty"`
	OtherProduct grammar.ProductionID `json:"other_production,omitempty"`
}

// FollowEntry is the report-facing view of one nonterminal's FOLLOW set.
type FollowEntry struct {
	Terminals []symbol.Symbol `json:"terminals"`
	EOF       bool            `json:"eof"`
}

// Report is a fully self-contained, serializable summary of one LR build:
// enough to render as text, persist as JSON or rezi, or drive `describe`
// and `repl` without holding onto the original *lr.State slice.
type Report struct {
	Lookahead    string                        `json:"lookahead"`
	StateCount   int                           `json:"state_count"`
	Initial      lr.StateIndex                 `json:"initial"`
	Terminals    int                           `json:"terminals"`
	Nonterminals int                           `json:"nonterminals"`
	Productions  int                           `json:"productions"`
	States       []StateSummary                `json:"states"`
	Follow       map[symbol.Symbol]FollowEntry `json:"follow,omitempty"`
	Conflicts    []ConflictSummary             `json:"conflicts,omitempty"`
}

// BuildReport summarizes states (the result of lr.BuildLR0States or
// lr.BuildLR1States) against g, seeded from start. buildErr, if non-nil,
// should be the error that build function returned for this run; when it is a
// *lr.ConstructionError its conflicts are folded into the report, any
// other error is returned unchanged so the caller can distinguish
// "conflicts found" from "construction failed outright".
func BuildReport(g *grammar.Grammar, lookahead string, start symbol.Symbol, states []*lr.State, buildErr error) (*Report, error) {
	var cerr *lr.ConstructionError
	if buildErr != nil {
		var ok bool
		cerr, ok = buildErr.(*lr.ConstructionError)
		if !ok {
			return nil, buildErr
		}
	}

	am := lr.NewAutomaton(states)

	r := &Report{
		Lookahead:    lookahead,
		StateCount:   len(am.States),
		Initial:      am.Initial,
		Terminals:    len(g.AllTerminals()),
		Nonterminals: len(g.AllNonterminals()),
		Productions:  len(g.AllProductions()),
	}

	for _, st := range am.States {
		r.States = append(r.States, summarizeState(g, start, st))
	}

	flw, err := g.FollowSets(start)
	if err != nil {
		return nil, fmt.Errorf("emit: compute follow sets: %w", err)
	}
	r.Follow = map[symbol.Symbol]FollowEntry{}
	for _, nt := range g.AllNonterminals() {
		terms, eof, err := flw.Of(nt)
		if err != nil {
			return nil, fmt.Errorf("emit: follow set for %v: %w", nt, err)
		}
		r.Follow[nt] = FollowEntry{Terminals: terms, EOF: eof}
	}

	if cerr == nil {
		return r, nil
	}

	for _, c := range cerr.Conflicts {
		r.Conflicts = append(r.Conflicts, summarizeConflict(c))
	}
	return r, nil
}

func summarizeState(g *grammar.Grammar, start symbol.Symbol, st *lr.State) StateSummary {
	seedLookahead := grammar.NewTermSet(symbol.EOF)
	kernelCount := 0
	for _, it := range st.Items {
		if it.Kernel {
			kernelCount++
			continue
		}
		// State 0's kernel is its seed: the start productions at dot 0
		// carrying the start lookahead (none for LR(0), {EOF} for LR(1)).
		if st.Index != 0 {
			continue
		}
		if p, ok := g.ProductionByID(it.Prod); ok && p.LHS == start && (it.Lookahead == nil || it.Lookahead.Equal(seedLookahead)) {
			kernelCount++
		}
	}
	var reductions []grammar.ProductionID
	for _, it := range st.Reductions {
		reductions = append(reductions, it.Prod)
	}
	return StateSummary{
		Index:       st.Index,
		ItemCount:   len(st.Items),
		KernelCount: kernelCount,
		Shifts:      st.Shifts,
		Gotos:       st.Gotos,
		Reductions:  reductions,
	}
}

func summarizeConflict(c lr.Conflict) ConflictSummary {
	cs := ConflictSummary{
		State:      c.State,
		Production: c.Item.Prod,
	}
	switch a := c.Action.(type) {
	case lr.ShiftAction:
		cs.Kind = "shift-reduce"
		cs.ShiftOn = a.Terminal
	case lr.ReduceAction:
		cs.Kind = "reduce-reduce"
		cs.OtherProduct = a.Production
	}
	return cs
}

// StateByIndex finds a state summary by index, for `describe`/`repl`.
func (r *Report) StateByIndex(idx lr.StateIndex) (*StateSummary, bool) {
	for i := range r.States {
		if r.States[i].Index == idx {
			return &r.States[i], true
		}
	}
	return nil, false
}

// sortedStates returns the report's states sorted by index, for
// deterministic rendering regardless of the slice's original order.
func (r *Report) sortedStates() []StateSummary {
	out := make([]StateSummary, len(r.States))
	copy(out, r.States)
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// sortedFollowKeys returns r.Follow's nonterminals in symbol order, for
// deterministic rendering over the map.
func (r *Report) sortedFollowKeys() []symbol.Symbol {
	keys := make([]symbol.Symbol, 0, len(r.Follow))
	for nt := range r.Follow {
		keys = append(keys, nt)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
