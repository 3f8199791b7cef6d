// Package lr implements the canonical LR(0)/LR(1) state construction
// core: item-set closure, kernel canonicalisation, successor partitioning,
// and conflict detection, parameterised over a LookaheadPolicy so the two
// variants share one builder.
package lr

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/kentaro-s/lrtab/grammar"
	"github.com/kentaro-s/lrtab/grammar/symbol"
)

// ItemID identifies an Item by content — production, dot position, and
// lookahead — the same way grammar.ProductionID identifies a production:
// two items built from equal fields always compare equal, independent of
// where or when they were constructed.
type ItemID [32]byte

// Item is a dotted production: `A -> alpha . beta [Lookahead]`. Lookahead
// is nil for LR(0) items and a non-nil grammar.TermSet for LR(1) items;
// which one a build produces is determined by the LookaheadPolicy in
// effect, never by the caller inspecting this field directly.
type Item struct {
	ID           ItemID
	Prod         grammar.ProductionID
	Dot          int
	DottedSymbol symbol.Symbol
	Lookahead    *grammar.TermSet
	Reducible    bool
	Kernel       bool
}

func newItem(p *grammar.Production, dot int, lookahead *grammar.TermSet) Item {
	dotted := symbol.Nil
	if dot < len(p.RHS) {
		dotted = p.RHS[dot]
	}
	return Item{
		ID:           genItemID(p.ID, dot, lookahead),
		Prod:         p.ID,
		Dot:          dot,
		DottedSymbol: dotted,
		Lookahead:    lookahead,
		Reducible:    dot == len(p.RHS),
		Kernel:       dot > 0,
	}
}

func genItemID(prod grammar.ProductionID, dot int, lookahead *grammar.TermSet) ItemID {
	b := make([]byte, 0, len(prod)+8+32)
	b = append(b, prod[:]...)
	var bd [8]byte
	binary.LittleEndian.PutUint64(bd[:], uint64(dot))
	b = append(b, bd[:]...)
	if lookahead != nil {
		id := lookahead.ID()
		b = append(b, id[:]...)
	}
	return ItemID(sha256.Sum256(b))
}

// LR0Key identifies an item's production and dot position, ignoring
// lookahead. Successor partitioning groups shifted items by this key so
// that LR(1) items differing only in lookahead merge into a single kernel
// item rather than producing a distinct, spurious state per lookahead
// variant.
type LR0Key struct {
	Prod grammar.ProductionID
	Dot  int
}

// LR0Key returns it's production+dot identity, discarding lookahead.
func (it Item) LR0Key() LR0Key {
	return LR0Key{Prod: it.Prod, Dot: it.Dot}
}

// CanReduce reports whether the dot has reached the end of the production.
func (it Item) CanReduce() bool {
	return it.Reducible
}

// Remainder returns the symbols strictly after the item's dotted symbol —
// the beta the FIRST engine needs to compute the lookahead of an
// epsilon-move introduced past this item.
func (it Item) Remainder(p *grammar.Production) []symbol.Symbol {
	if it.Dot+1 >= len(p.RHS) {
		return nil
	}
	return p.RHS[it.Dot+1:]
}

// ShiftedItem advances the dot past DottedSymbol, returning the consumed
// symbol and the resulting item. The second return value is false when the
// item is already reducible (no symbol to shift).
func (it Item) ShiftedItem(p *grammar.Production) (symbol.Symbol, Item, bool) {
	if it.Dot >= len(p.RHS) {
		return symbol.Nil, Item{}, false
	}
	sym := p.RHS[it.Dot]
	return sym, newItem(p, it.Dot+1, it.Lookahead), true
}

// WithLookahead returns a copy of it carrying l as its lookahead,
// recomputing the identity accordingly. It is used to re-attach a merged
// lookahead to the LR0-keyed representative of a successor group.
func (it Item) WithLookahead(l *grammar.TermSet) Item {
	n := it
	n.Lookahead = l
	n.ID = genItemID(it.Prod, it.Dot, l)
	return n
}

// lessItem is the total order on items used to sort kernels and closures:
// lexicographic on (production id, dot, lookahead id), mirroring the
// lexicographic (production-id, index, lookahead) order called for by
// this construction's kernel-canonicalisation invariant.
func lessItem(a, b Item) bool {
	if c := compareBytes(a.Prod[:], b.Prod[:]); c != 0 {
		return c < 0
	}
	if a.Dot != b.Dot {
		return a.Dot < b.Dot
	}
	var aID, bID [32]byte
	if a.Lookahead != nil {
		aID = a.Lookahead.ID()
	}
	if b.Lookahead != nil {
		bID = b.Lookahead.ID()
	}
	return compareBytes(aID[:], bID[:]) < 0
}

func compareBytes(a, b []byte) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}
