package lr

import (
	"fmt"
	"strings"

	"github.com/kentaro-s/lrtab/grammar"
	"github.com/kentaro-s/lrtab/grammar/symbol"
)

// Action is the parse action a Conflict says collides with a pending
// reduction: either a Shift on a terminal or a competing Reduce.
type Action interface {
	isAction()
}

// ShiftAction names the terminal a shift would consume.
type ShiftAction struct {
	Terminal symbol.Symbol
}

func (ShiftAction) isAction() {}

// ReduceAction names the production a competing reduction would apply.
type ReduceAction struct {
	Production grammar.ProductionID
}

func (ReduceAction) isAction() {}

// Conflict records one ambiguous parse action: in State, the reducible
// Item's action is contested by Action. A shift-reduce conflict pairs a
// reducible item with a ShiftAction on a terminal present in its
// lookahead; a reduce-reduce conflict pairs two reducible items whose
// lookaheads intersect, reported as a ReduceAction naming the other one.
type Conflict struct {
	State  StateIndex
	Item   Item
	Action Action
}

func (c Conflict) String() string {
	switch a := c.Action.(type) {
	case ShiftAction:
		return fmt.Sprintf("state %d: shift/reduce conflict on %s", c.State, a.Terminal)
	case ReduceAction:
		return fmt.Sprintf("state %d: reduce/reduce conflict (%s vs %s)", c.State, c.Item.Prod, a.Production)
	default:
		return fmt.Sprintf("state %d: conflict", c.State)
	}
}

// ConstructionError is returned when one or more conflicts were
// accumulated over the course of a build. It carries the partial state
// vector built up to (and including) the point the conflicts occurred, so
// tooling can render it for diagnosis instead of discarding the work.
type ConstructionError struct {
	States    []*State
	Conflicts []Conflict
}

func (e *ConstructionError) Error() string {
	lines := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		lines[i] = c.String()
	}
	return fmt.Sprintf("lr: %d conflict(s) found:\n%s", len(e.Conflicts), strings.Join(lines, "\n"))
}
