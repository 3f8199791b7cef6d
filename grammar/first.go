package grammar

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/kentaro-s/lrtab/grammar/symbol"
)

// TermSet is a sorted, deduplicated set of terminal symbols plus an
// "empty" flag recording whether the sequence it was computed from can
// derive the empty string. It is the result type of the FIRST engine and
// is reused directly as the Item lookahead payload by the lr package.
type TermSet struct {
	syms  map[symbol.Symbol]struct{}
	empty bool
}

func newTermSet() *TermSet {
	return &TermSet{syms: map[symbol.Symbol]struct{}{}}
}

// NewTermSet builds a TermSet from an explicit list of terminals, e.g. the
// singleton {EOF} an LR(1) build seeds state 0's lookahead with.
func NewTermSet(syms ...symbol.Symbol) *TermSet {
	e := newTermSet()
	for _, s := range syms {
		e.add(s)
	}
	return e
}

// UnionTermSets returns a new TermSet holding every symbol present in a or
// b, empty if either a or b is empty. It never mutates its arguments,
// since lookahead sets are shared by value across items that have already
// been published into a closure.
func UnionTermSets(a, b *TermSet) *TermSet {
	r := newTermSet()
	if a != nil {
		r.mergeExceptEmpty(a)
		if a.empty {
			r.empty = true
		}
	}
	if b != nil {
		r.mergeExceptEmpty(b)
		if b.empty {
			r.empty = true
		}
	}
	return r
}

func (e *TermSet) add(sym symbol.Symbol) bool {
	if _, ok := e.syms[sym]; ok {
		return false
	}
	e.syms[sym] = struct{}{}
	return true
}

func (e *TermSet) addEmpty() bool {
	if e.empty {
		return false
	}
	e.empty = true
	return true
}

func (e *TermSet) mergeExceptEmpty(o *TermSet) bool {
	if o == nil {
		return false
	}
	changed := false
	for s := range o.syms {
		if e.add(s) {
			changed = true
		}
	}
	return changed
}

// Empty reports whether the sequence that produced this set can derive
// the empty string.
func (e *TermSet) Empty() bool {
	return e.empty
}

// Symbols returns the terminals in the set in symbol order.
func (e *TermSet) Symbols() []symbol.Symbol {
	syms := make([]symbol.Symbol, 0, len(e.syms))
	for s := range e.syms {
		syms = append(syms, s)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}

// ID returns a content-derived identity for the set: the sha256 digest of
// its sorted, deduplicated symbols plus the empty flag, mirroring the
// item/kernel identity scheme used throughout this package. Two TermSets
// with the same members and empty flag always hash to the same ID, which
// is what lets the lr package fold lookahead into a kernel's identity.
func (e *TermSet) ID() [32]byte {
	b := make([]byte, 0, 2*len(e.syms)+1)
	for _, s := range e.Symbols() {
		var buf [2]byte
		binary.LittleEndian.PutUint16(buf[:], uint16(s))
		b = append(b, buf[:]...)
	}
	if e.empty {
		b = append(b, 1)
	} else {
		b = append(b, 0)
	}
	return sha256.Sum256(b)
}

// Intersects reports whether e and o share at least one terminal. The
// empty flag does not itself count as a shared member; it only matters
// when folded into concrete terminals upstream.
func (e *TermSet) Intersects(o *TermSet) bool {
	if o == nil {
		return false
	}
	small, big := e, o
	if len(big.syms) < len(small.syms) {
		small, big = big, small
	}
	for s := range small.syms {
		if _, ok := big.syms[s]; ok {
			return true
		}
	}
	return false
}

// Equal reports whether two TermSets have the same members and empty flag.
func (e *TermSet) Equal(o *TermSet) bool {
	if o == nil {
		return false
	}
	return e.ID() == o.ID()
}

// FirstSets is the precomputed FIRST table for every nonterminal of a
// grammar, together with the nullability fixed point the table implies.
type FirstSets struct {
	set map[symbol.Symbol]*TermSet
}

func computeFirstSets(prods *productionSet) *FirstSets {
	fst := &FirstSets{set: map[symbol.Symbol]*TermSet{}}
	for _, p := range prods.allProductions() {
		if _, ok := fst.set[p.LHS]; !ok {
			fst.set[p.LHS] = newTermSet()
		}
	}

	for {
		more := false
		for _, p := range prods.allProductions() {
			acc := fst.set[p.LHS]
			if genProdFirstEntry(fst, acc, p) {
				more = true
			}
		}
		if !more {
			break
		}
	}
	return fst
}

func genProdFirstEntry(fst *FirstSets, acc *TermSet, p *Production) bool {
	if p.IsEmpty() {
		return acc.addEmpty()
	}
	for _, sym := range p.RHS {
		if sym.IsTerminal() {
			return acc.add(sym)
		}
		e := fst.set[sym]
		changed := acc.mergeExceptEmpty(e)
		if !e.empty {
			return changed
		}
	}
	return acc.addEmpty()
}

func (fst *FirstSets) bySymbol(sym symbol.Symbol) *TermSet {
	return fst.set[sym]
}

// IsNullable reports whether the nonterminal can derive the empty string.
func (fst *FirstSets) IsNullable(nt symbol.Symbol) bool {
	e, ok := fst.set[nt]
	return ok && e.empty
}

// First1 computes FIRST_1(beta . lookahead): the terminals, plus
// optionally the members of lookahead, that can begin a string derived
// from the symbol sequence beta followed by lookahead. This is the
// primitive the LR(1) closure step uses to compute the lookahead carried
// by the items it introduces; it never fails against a grammar whose
// nonterminals are all registered in this table, which normalization
// guarantees.
func (fst *FirstSets) First1(beta []symbol.Symbol, lookahead *TermSet) (*TermSet, error) {
	result := newTermSet()
	for _, sym := range beta {
		if sym.IsTerminal() {
			result.add(sym)
			return result, nil
		}
		e, ok := fst.set[sym]
		if !ok {
			return nil, fmt.Errorf("no FIRST entry for symbol %v", sym)
		}
		for _, s := range e.Symbols() {
			result.add(s)
		}
		if !e.empty {
			return result, nil
		}
	}
	if lookahead != nil {
		for _, s := range lookahead.Symbols() {
			result.add(s)
		}
		if lookahead.empty {
			result.addEmpty()
		}
	} else {
		result.addEmpty()
	}
	return result, nil
}
