package grammar

import "errors"

var (
	errNoProductions    = errors.New("a grammar needs at least one production")
	errUndefinedSymbol  = errors.New("undefined symbol")
	errEmptyNonTermName = errors.New("a nonterminal name must not be empty")
	errEmptyTermName    = errors.New("a terminal name must not be empty")

	// ErrUndefinedStart is returned by consumers (e.g. lr.BuildLR0States
	// and lr.BuildLR1States) when the
	// nonterminal passed as the start symbol has no productions in the
	// grammar.
	ErrUndefinedStart = errors.New("start symbol has no productions in this grammar")
)
