package grammar

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/kentaro-s/lrtab/grammar/symbol"
)

// ProductionID identifies a production independently of its storage
// location. It is derived from the production's content (LHS and RHS) so
// that two productions built from the same symbols always compare equal,
// the same way item and kernel identities are derived from their content
// rather than from allocation order.
type ProductionID [32]byte

func (id ProductionID) String() string {
	return hex.EncodeToString(id[:8])
}

func genProductionID(lhs symbol.Symbol, rhs []symbol.Symbol) ProductionID {
	b := make([]byte, 0, 2+2*len(rhs))
	b = append(b, byte(lhs>>8), byte(lhs))
	for _, s := range rhs {
		b = append(b, byte(s>>8), byte(s))
	}
	return ProductionID(sha256.Sum256(b))
}

// ActionID is an opaque identifier for the semantic action a production is
// bound to. The construction core never inspects it; it exists only so a
// downstream emitter can recover which action function to call on reduce.
type ActionID uint32

// Production is an immutable grammar rule `LHS -> RHS`. RHS may be empty,
// representing an epsilon production.
type Production struct {
	ID     ProductionID
	Num    int
	LHS    symbol.Symbol
	RHS    []symbol.Symbol
	Action ActionID
}

func newProduction(lhs symbol.Symbol, rhs []symbol.Symbol, action ActionID) (*Production, error) {
	if lhs.IsNil() || lhs.IsTerminal() {
		return nil, fmt.Errorf("LHS must be a non-nil nonterminal; got: %v", lhs)
	}
	for _, s := range rhs {
		if s.IsNil() {
			return nil, fmt.Errorf("RHS symbols must be non-nil; LHS: %v", lhs)
		}
	}
	return &Production{
		ID:     genProductionID(lhs, rhs),
		LHS:    lhs,
		RHS:    rhs,
		Action: action,
	}, nil
}

func (p *Production) IsEmpty() bool {
	return len(p.RHS) == 0
}

// productionSet indexes productions by LHS and by ID, and assigns each a
// dense sequence number (Production.Num) in insertion order. Downstream
// reduce actions are keyed by ProductionID, not by this number.
type productionSet struct {
	byLHS map[symbol.Symbol][]*Production
	byID  map[ProductionID]*Production
	all   []*Production
}

func newProductionSet() *productionSet {
	return &productionSet{
		byLHS: map[symbol.Symbol][]*Production{},
		byID:  map[ProductionID]*Production{},
	}
}

func (ps *productionSet) append(p *Production) (*Production, error) {
	if existing, ok := ps.byID[p.ID]; ok {
		return existing, fmt.Errorf("duplicate production: %v -> %v", p.LHS, p.RHS)
	}
	p.Num = len(ps.all)
	ps.byLHS[p.LHS] = append(ps.byLHS[p.LHS], p)
	ps.byID[p.ID] = p
	ps.all = append(ps.all, p)
	return p, nil
}

func (ps *productionSet) findByID(id ProductionID) (*Production, bool) {
	p, ok := ps.byID[id]
	return p, ok
}

func (ps *productionSet) findByLHS(lhs symbol.Symbol) []*Production {
	return ps.byLHS[lhs]
}

func (ps *productionSet) allProductions() []*Production {
	return ps.all
}
