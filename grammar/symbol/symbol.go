// Package symbol implements the grammar symbol namespace shared by every
// LR construction component: terminals and nonterminals are packed into a
// single comparable, orderable value so that items, kernels, and token sets
// can use plain map keys and slice sorts instead of pointer identity.
package symbol

import (
	"fmt"
	"sort"
)

type kind string

const (
	kindNonTerminal = kind("non-terminal")
	kindTerminal    = kind("terminal")
)

// Num is the dense, namespace-local ordinal of a Symbol.
type Num uint16

func (n Num) Int() int {
	return int(n)
}

// Symbol is a terminal or a nonterminal. The representation is a packed
// uint16: the high bit distinguishes terminal from nonterminal, the next
// bit flags the distinguished EOF terminal, and the low 14 bits hold a
// dense per-kind ordinal. Packing the tag into the value itself (rather
// than wrapping a kind+number struct) keeps Symbol a plain comparable and
// orderable scalar, which is what the item/kernel identity scheme needs.
type Symbol uint16

func (s Symbol) String() string {
	if s.IsNil() {
		return "<nil>"
	}
	if s.IsEOF() {
		return "<eof>"
	}
	if s.IsTerminal() {
		return fmt.Sprintf("t%v", s.Num())
	}
	return fmt.Sprintf("n%v", s.Num())
}

const (
	maskKind      = uint16(0x8000) // 1000 0000 0000 0000
	maskNonTerm   = uint16(0x0000)
	maskTerm      = uint16(0x8000)
	maskEOF       = uint16(0x4000) // 0100 0000 0000 0000
	maskNum       = uint16(0x3fff) // 0011 1111 1111 1111
	numEOF        = uint16(0x0001)
	NumMax        = Num(0x3fff)
	nonTermNumMin = Num(1)
	termNumMin    = Num(2) // 1 is reserved for EOF

	// nameEOF contains characters that cannot appear in a user-defined
	// symbol name, so it can never collide with a registered symbol.
	nameEOF = "<eof>"
)

// Nil is the zero value of Symbol; it never denotes a real grammar symbol.
const Nil = Symbol(0)

// EOF is the distinguished end-of-input terminal, always present in any
// Table and usable as a literal member of a lookahead grammar.TermSet.
const EOF = Symbol(maskTerm | maskEOF | numEOF)

func newSymbol(k kind, num Num) (Symbol, error) {
	if num > NumMax {
		return Nil, fmt.Errorf("symbol number exceeds the limit; limit: %v, passed: %v", NumMax, num)
	}
	km := maskNonTerm
	if k == kindTerminal {
		km = maskTerm
	}
	return Symbol(km | uint16(num)), nil
}

func (s Symbol) Num() Num {
	return Num(uint16(s) & maskNum)
}

func (s Symbol) IsNil() bool {
	return s == Nil
}

func (s Symbol) IsEOF() bool {
	return !s.IsNil() && uint16(s)&maskEOF > 0
}

func (s Symbol) IsTerminal() bool {
	return !s.IsNil() && uint16(s)&maskKind == maskTerm
}

func (s Symbol) IsNonTerminal() bool {
	return !s.IsNil() && uint16(s)&maskKind == maskNonTerm
}

// Table assigns dense, stable numbers to terminal and nonterminal names.
// It is the write side of grammar ingestion; the LR construction packages
// only ever see the resulting Symbol values.
type Table struct {
	text2Sym   map[string]Symbol
	sym2Text   map[Symbol]string
	termTexts  []string
	nonTermNum Num
	termNum    Num
}

func NewTable() *Table {
	return &Table{
		text2Sym: map[string]Symbol{
			nameEOF: EOF,
		},
		sym2Text: map[Symbol]string{
			EOF: nameEOF,
		},
		termTexts:  []string{"", nameEOF},
		nonTermNum: nonTermNumMin,
		termNum:    termNumMin,
	}
}

func (t *Table) RegisterNonTerminal(text string) (Symbol, error) {
	if sym, ok := t.text2Sym[text]; ok {
		if sym.IsTerminal() {
			return Nil, fmt.Errorf("%q is already registered as a terminal", text)
		}
		return sym, nil
	}
	sym, err := newSymbol(kindNonTerminal, t.nonTermNum)
	if err != nil {
		return Nil, err
	}
	t.nonTermNum++
	t.text2Sym[text] = sym
	t.sym2Text[sym] = text
	return sym, nil
}

func (t *Table) RegisterTerminal(text string) (Symbol, error) {
	if text == nameEOF {
		return Nil, fmt.Errorf("%q is reserved for the EOF terminal", nameEOF)
	}
	if sym, ok := t.text2Sym[text]; ok {
		if sym.IsNonTerminal() {
			return Nil, fmt.Errorf("%q is already registered as a nonterminal", text)
		}
		return sym, nil
	}
	sym, err := newSymbol(kindTerminal, t.termNum)
	if err != nil {
		return Nil, err
	}
	t.termNum++
	t.text2Sym[text] = sym
	t.sym2Text[sym] = text
	t.termTexts = append(t.termTexts, text)
	return sym, nil
}

func (t *Table) ToSymbol(text string) (Symbol, bool) {
	sym, ok := t.text2Sym[text]
	return sym, ok
}

func (t *Table) ToText(sym Symbol) (string, bool) {
	text, ok := t.sym2Text[sym]
	return text, ok
}

// Terminals returns every registered terminal, including EOF, in symbol
// order.
func (t *Table) Terminals() []Symbol {
	syms := make([]Symbol, 0, t.termNum.Int())
	for sym := range t.sym2Text {
		if sym.IsTerminal() {
			syms = append(syms, sym)
		}
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}

// NonTerminals returns every registered nonterminal in symbol order.
func (t *Table) NonTerminals() []Symbol {
	syms := make([]Symbol, 0, t.nonTermNum.Int()-nonTermNumMin.Int())
	for sym := range t.sym2Text {
		if sym.IsNonTerminal() {
			syms = append(syms, sym)
		}
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}
