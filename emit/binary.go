package emit

import (
	"fmt"
	"sort"

	"github.com/dekarrin/rezi"

	"github.com/kentaro-s/lrtab/grammar"
	"github.com/kentaro-s/lrtab/grammar/symbol"
	"github.com/kentaro-s/lrtab/lr"
)

// EncodeBinary renders r as a compact, self-describing rezi-encoded
// artifact, suitable for persisting alongside (or instead of) the text
// and JSON report forms.
func EncodeBinary(r *Report) []byte {
	return rezi.EncBinary(r)
}

// DecodeBinary reverses EncodeBinary.
func DecodeBinary(data []byte) (*Report, error) {
	r := &Report{}
	n, err := rezi.DecBinary(data, r)
	if err != nil {
		return nil, fmt.Errorf("emit: decode report: %w", err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("emit: decode report: consumed %d/%d bytes", n, len(data))
	}
	return r, nil
}

// MarshalBinary implements encoding.BinaryMarshaler by concatenating each
// field's rezi-encoded, self-length-prefixed representation in
// declaration order.
func (r Report) MarshalBinary() ([]byte, error) {
	var data []byte
	for _, enc := range []func() ([]byte, error){
		func() ([]byte, error) { return rezi.Enc(r.Lookahead) },
		func() ([]byte, error) { return rezi.Enc(r.StateCount) },
		func() ([]byte, error) { return rezi.Enc(int(r.Initial)) },
		func() ([]byte, error) { return rezi.Enc(r.Terminals) },
		func() ([]byte, error) { return rezi.Enc(r.Nonterminals) },
		func() ([]byte, error) { return rezi.Enc(r.Productions) },
		func() ([]byte, error) { return rezi.Enc(len(r.States)) },
	} {
		b, err := enc()
		if err != nil {
			return nil, err
		}
		data = append(data, b...)
	}
	for _, st := range r.States {
		data = append(data, rezi.EncBinary(st)...)
	}
	fb, err := encFollowMap(r.Follow)
	if err != nil {
		return nil, err
	}
	data = append(data, fb...)
	cb, err := rezi.Enc(len(r.Conflicts))
	if err != nil {
		return nil, err
	}
	data = append(data, cb...)
	for _, c := range r.Conflicts {
		data = append(data, rezi.EncBinary(c)...)
	}
	return data, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, the inverse of
// MarshalBinary.
func (r *Report) UnmarshalBinary(data []byte) error {
	read := func(target interface{}) error {
		n, err := rezi.Dec(data, target)
		if err != nil {
			return err
		}
		data = data[n:]
		return nil
	}

	if err := read(&r.Lookahead); err != nil {
		return err
	}
	if err := read(&r.StateCount); err != nil {
		return err
	}
	var initial int
	if err := read(&initial); err != nil {
		return err
	}
	r.Initial = lr.StateIndex(initial)
	if err := read(&r.Terminals); err != nil {
		return err
	}
	if err := read(&r.Nonterminals); err != nil {
		return err
	}
	if err := read(&r.Productions); err != nil {
		return err
	}
	var stateCount int
	if err := read(&stateCount); err != nil {
		return err
	}
	r.States = make([]StateSummary, stateCount)
	for i := range r.States {
		n, err := rezi.DecBinary(data, &r.States[i])
		if err != nil {
			return err
		}
		data = data[n:]
	}
	follow, n, err := decFollowMap(data)
	if err != nil {
		return err
	}
	data = data[n:]
	r.Follow = follow
	var conflictCount int
	if err := read(&conflictCount); err != nil {
		return err
	}
	r.Conflicts = make([]ConflictSummary, conflictCount)
	for i := range r.Conflicts {
		n, err := rezi.DecBinary(data, &r.Conflicts[i])
		if err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler for StateSummary.
func (s StateSummary) MarshalBinary() ([]byte, error) {
	var data []byte
	fields := []interface{}{int(s.Index), s.ItemCount, s.KernelCount}
	for _, f := range fields {
		b, err := rezi.Enc(f)
		if err != nil {
			return nil, err
		}
		data = append(data, b...)
	}
	for _, m := range []map[symbol.Symbol]lr.StateIndex{s.Shifts, s.Gotos} {
		b, err := encSymbolIndexMap(m)
		if err != nil {
			return nil, err
		}
		data = append(data, b...)
	}
	cb, err := rezi.Enc(len(s.Reductions))
	if err != nil {
		return nil, err
	}
	data = append(data, cb...)
	for _, p := range s.Reductions {
		b, err := rezi.Enc(p[:])
		if err != nil {
			return nil, err
		}
		data = append(data, b...)
	}
	return data, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler for StateSummary.
func (s *StateSummary) UnmarshalBinary(data []byte) error {
	read := func(target interface{}) error {
		n, err := rezi.Dec(data, target)
		if err != nil {
			return err
		}
		data = data[n:]
		return nil
	}

	var idx, reductionCount int
	if err := read(&idx); err != nil {
		return err
	}
	s.Index = lr.StateIndex(idx)
	if err := read(&s.ItemCount); err != nil {
		return err
	}
	if err := read(&s.KernelCount); err != nil {
		return err
	}

	shifts, n, err := decSymbolIndexMap(data)
	if err != nil {
		return err
	}
	data = data[n:]
	s.Shifts = shifts

	gotos, n, err := decSymbolIndexMap(data)
	if err != nil {
		return err
	}
	data = data[n:]
	s.Gotos = gotos

	if err := read(&reductionCount); err != nil {
		return err
	}
	s.Reductions = make([]grammar.ProductionID, reductionCount)
	for i := range s.Reductions {
		var raw []byte
		if err := read(&raw); err != nil {
			return err
		}
		copy(s.Reductions[i][:], raw)
	}
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler for ConflictSummary.
func (c ConflictSummary) MarshalBinary() ([]byte, error) {
	var data []byte
	for _, enc := range []func() ([]byte, error){
		func() ([]byte, error) { return rezi.Enc(int(c.State)) },
		func() ([]byte, error) { return rezi.Enc(c.Production[:]) },
		func() ([]byte, error) { return rezi.Enc(c.Kind) },
		func() ([]byte, error) { return rezi.Enc(int(c.ShiftOn)) },
		func() ([]byte, error) { return rezi.Enc(c.OtherProduct[:]) },
	} {
		b, err := enc()
		if err != nil {
			return nil, err
		}
		data = append(data, b...)
	}
	return data, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler for
// ConflictSummary.
func (c *ConflictSummary) UnmarshalBinary(data []byte) error {
	read := func(target interface{}) error {
		n, err := rezi.Dec(data, target)
		if err != nil {
			return err
		}
		data = data[n:]
		return nil
	}

	var state, shiftOn int
	var production, other []byte
	if err := read(&state); err != nil {
		return err
	}
	c.State = lr.StateIndex(state)
	if err := read(&production); err != nil {
		return err
	}
	copy(c.Production[:], production)
	if err := read(&c.Kind); err != nil {
		return err
	}
	if err := read(&shiftOn); err != nil {
		return err
	}
	c.ShiftOn = symbol.Symbol(shiftOn)
	if err := read(&other); err != nil {
		return err
	}
	copy(c.OtherProduct[:], other)
	return nil
}

func encSymbolIndexMap(m map[symbol.Symbol]lr.StateIndex) ([]byte, error) {
	keys := sortedMapKeys(m)
	data, err := rezi.Enc(len(keys))
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		kb, err := rezi.Enc(int(k))
		if err != nil {
			return nil, err
		}
		vb, err := rezi.Enc(int(m[k]))
		if err != nil {
			return nil, err
		}
		data = append(data, kb...)
		data = append(data, vb...)
	}
	return data, nil
}

func decSymbolIndexMap(data []byte) (map[symbol.Symbol]lr.StateIndex, int, error) {
	total := 0
	var count int
	n, err := rezi.Dec(data, &count)
	if err != nil {
		return nil, 0, err
	}
	data = data[n:]
	total += n

	m := make(map[symbol.Symbol]lr.StateIndex, count)
	for i := 0; i < count; i++ {
		var k, v int
		n, err = rezi.Dec(data, &k)
		if err != nil {
			return nil, 0, err
		}
		data = data[n:]
		total += n

		n, err = rezi.Dec(data, &v)
		if err != nil {
			return nil, 0, err
		}
		data = data[n:]
		total += n

		m[symbol.Symbol(k)] = lr.StateIndex(v)
	}
	return m, total, nil
}

func encFollowMap(m map[symbol.Symbol]FollowEntry) ([]byte, error) {
	keys := make([]symbol.Symbol, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	data, err := rezi.Enc(len(keys))
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		e := m[k]
		kb, err := rezi.Enc(int(k))
		if err != nil {
			return nil, err
		}
		eb, err := rezi.Enc(e.EOF)
		if err != nil {
			return nil, err
		}
		tb, err := encSymbolSlice(e.Terminals)
		if err != nil {
			return nil, err
		}
		data = append(data, kb...)
		data = append(data, eb...)
		data = append(data, tb...)
	}
	return data, nil
}

func decFollowMap(data []byte) (map[symbol.Symbol]FollowEntry, int, error) {
	total := 0
	var count int
	n, err := rezi.Dec(data, &count)
	if err != nil {
		return nil, 0, err
	}
	data = data[n:]
	total += n

	m := make(map[symbol.Symbol]FollowEntry, count)
	for i := 0; i < count; i++ {
		var k int
		n, err = rezi.Dec(data, &k)
		if err != nil {
			return nil, 0, err
		}
		data = data[n:]
		total += n

		var eof bool
		n, err = rezi.Dec(data, &eof)
		if err != nil {
			return nil, 0, err
		}
		data = data[n:]
		total += n

		terms, tn, err := decSymbolSlice(data)
		if err != nil {
			return nil, 0, err
		}
		data = data[tn:]
		total += tn

		m[symbol.Symbol(k)] = FollowEntry{Terminals: terms, EOF: eof}
	}
	return m, total, nil
}

func encSymbolSlice(syms []symbol.Symbol) ([]byte, error) {
	data, err := rezi.Enc(len(syms))
	if err != nil {
		return nil, err
	}
	for _, s := range syms {
		b, err := rezi.Enc(int(s))
		if err != nil {
			return nil, err
		}
		data = append(data, b...)
	}
	return data, nil
}

func decSymbolSlice(data []byte) ([]symbol.Symbol, int, error) {
	total := 0
	var count int
	n, err := rezi.Dec(data, &count)
	if err != nil {
		return nil, 0, err
	}
	data = data[n:]
	total += n

	syms := make([]symbol.Symbol, count)
	for i := 0; i < count; i++ {
		var v int
		n, err = rezi.Dec(data, &v)
		if err != nil {
			return nil, 0, err
		}
		data = data[n:]
		total += n
		syms[i] = symbol.Symbol(v)
	}
	return syms, total, nil
}

func sortedMapKeys(m map[symbol.Symbol]lr.StateIndex) []symbol.Symbol {
	keys := make([]symbol.Symbol, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
