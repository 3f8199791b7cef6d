package lr

import (
	"sort"

	"github.com/kentaro-s/lrtab/grammar"
)

// transitiveClosure computes the full item set of a kernel: the kernel's
// own items plus every item reachable by epsilon-moves under policy.
// Items generated by EpsilonMoves always have Dot == 0, so the number of
// distinct ones is bounded by the grammar's production count times the
// number of distinct lookaheads in play — a worklist over them always
// terminates.
func transitiveClosure(g *grammar.Grammar, policy LookaheadPolicy, k Kernel) ([]Item, error) {
	items := make([]Item, len(k.Items))
	copy(items, k.Items)
	known := make(map[ItemID]struct{}, len(items))
	for _, it := range items {
		known[it.ID] = struct{}{}
	}

	cursor := 0
	for cursor < len(items) {
		end := len(items)
		for ; cursor < end; cursor++ {
			it := items[cursor]
			if it.DottedSymbol.IsNil() || it.DottedSymbol.IsTerminal() {
				continue
			}
			p, ok := g.ProductionByID(it.Prod)
			if !ok {
				panic("lr: item references a production absent from its grammar")
			}
			beta := it.Remainder(p)
			added, err := policy.EpsilonMoves(g, it.DottedSymbol, beta, it.Lookahead)
			if err != nil {
				return nil, err
			}
			for _, a := range added {
				if _, seen := known[a.ID]; seen {
					continue
				}
				known[a.ID] = struct{}{}
				items = append(items, a)
			}
		}
	}

	sort.Slice(items, func(i, j int) bool { return lessItem(items[i], items[j]) })
	return items, nil
}
