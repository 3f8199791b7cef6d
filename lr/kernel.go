package lr

import (
	"crypto/sha256"
	"sort"
)

// KernelID identifies a Kernel by the identities of its sorted,
// deduplicated items. Equal kernels always hash to the same ID, which is
// the central canonicalisation invariant this package relies on: two
// derivations of the "same" state collapse to one StateIndex.
type KernelID [32]byte

// Kernel is the canonical identity of a state: for state 0, the seed items
// of the start nonterminal (all with Dot == 0); for every other state, the
// items shifted into it by its predecessor (all with Dot > 0).
type Kernel struct {
	ID    KernelID
	Items []Item
}

func newKernel(items []Item) Kernel {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return lessItem(sorted[i], sorted[j]) })

	deduped := sorted[:0]
	var last *ItemID
	for _, it := range sorted {
		if last != nil && *last == it.ID {
			continue
		}
		id := it.ID
		last = &id
		deduped = append(deduped, it)
	}

	b := make([]byte, 0, 32*len(deduped))
	for _, it := range deduped {
		b = append(b, it.ID[:]...)
	}
	return Kernel{ID: KernelID(sha256.Sum256(b)), Items: deduped}
}

// StateIndex is a dense, zero-based identifier for a built State. States
// reference each other exclusively by StateIndex, never by pointer, so
// that mutually- or self-recursive grammars never create ownership cycles.
type StateIndex int

// kernelRegistry canonicalises kernels into state indices and hands out
// the worklist of kernels still awaiting expansion.
type kernelRegistry struct {
	known   map[KernelID]StateIndex
	pending []Kernel
	cursor  int
}

func newKernelRegistry() *kernelRegistry {
	return &kernelRegistry{known: map[KernelID]StateIndex{}}
}

// addState returns k's existing index if k has already been registered;
// otherwise it assigns the next dense index, enqueues k for expansion, and
// returns the new index.
func (r *kernelRegistry) addState(k Kernel) StateIndex {
	if idx, ok := r.known[k.ID]; ok {
		return idx
	}
	idx := StateIndex(len(r.known))
	r.known[k.ID] = idx
	r.pending = append(r.pending, k)
	return idx
}

// next dequeues the next kernel awaiting expansion, or reports exhaustion.
func (r *kernelRegistry) next() (Kernel, bool) {
	if r.cursor >= len(r.pending) {
		return Kernel{}, false
	}
	k := r.pending[r.cursor]
	r.cursor++
	return k, true
}
