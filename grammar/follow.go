package grammar

import (
	"fmt"

	"github.com/kentaro-s/lrtab/grammar/symbol"
)

// FollowSets is not used by the LR(0)/LR(1) construction itself (the
// core's closure step only ever needs FIRST), but the grammar-view layer
// computes it anyway because emit.BuildReport folds it into the report
// `describe` renders. Keeping it here, next to FirstSets, rather than in
// the lr package keeps the LR construction core free of a component it
// never calls.
type FollowSets struct {
	set map[symbol.Symbol]*TermSet
}

func (flw *FollowSets) find(sym symbol.Symbol) (*TermSet, error) {
	e, ok := flw.set[sym]
	if !ok {
		return nil, fmt.Errorf("no FOLLOW entry for symbol %v", sym)
	}
	return e, nil
}

// Of returns the FOLLOW set of a nonterminal, as terminal symbols; a
// member reports by the "empty" flag only whether EOF can follow, the way
// the FIRST engine reports whether the empty string can be derived.
func (flw *FollowSets) Of(nt symbol.Symbol) ([]symbol.Symbol, bool, error) {
	e, err := flw.find(nt)
	if err != nil {
		return nil, false, err
	}
	return e.Symbols(), e.empty, nil
}

func computeFollowSets(prods *productionSet, first *FirstSets, start symbol.Symbol) (*FollowSets, error) {
	flw := &FollowSets{set: map[symbol.Symbol]*TermSet{}}
	for _, p := range prods.allProductions() {
		if _, ok := flw.set[p.LHS]; !ok {
			flw.set[p.LHS] = newTermSet()
		}
	}
	if _, ok := flw.set[start]; !ok {
		flw.set[start] = newTermSet()
	}

	for {
		more := false
		for nt := range flw.set {
			e := flw.set[nt]
			if nt == start {
				if e.addEmpty() {
					more = true
				}
			}
			for _, p := range prods.allProductions() {
				for i, sym := range p.RHS {
					if sym != nt {
						continue
					}
					fst, err := first.First1(p.RHS[i+1:], nil)
					if err != nil {
						return nil, err
					}
					if e.mergeExceptEmpty(fst) {
						more = true
					}
					if fst.empty {
						lhsFollow := flw.set[p.LHS]
						if e.mergeExceptEmpty(lhsFollow) {
							more = true
						}
						if lhsFollow.empty && e.addEmpty() {
							more = true
						}
					}
				}
			}
		}
		if !more {
			break
		}
	}

	return flw, nil
}
