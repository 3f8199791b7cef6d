package emit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dekarrin/rosed"
)

const textWidth = 100

// Text renders r as a wrapped, human-readable report: a header with
// grammar statistics, a conflict listing (if any), and a table of
// per-state summaries.
func Text(r *Report) string {
	header := fmt.Sprintf(
		"lrtab build report (%s)\nstates: %d  initial: %d  terminals: %d  nonterminals: %d  productions: %d",
		r.Lookahead, r.StateCount, r.Initial, r.Terminals, r.Nonterminals, r.Productions,
	)
	body := rosed.Edit(header).Wrap(textWidth).String()

	if len(r.Conflicts) > 0 {
		body += "\n\n" + conflictTable(r)
	}
	body += "\n\n" + stateTable(r)
	if len(r.Follow) > 0 {
		body += "\n\n" + followTable(r)
	}

	return body
}

func conflictTable(r *Report) string {
	data := [][]string{{"state", "kind", "production", "detail"}}
	for _, c := range r.Conflicts {
		detail := ""
		switch c.Kind {
		case "shift-reduce":
			detail = "shift on " + c.ShiftOn.String()
		case "reduce-reduce":
			detail = "vs " + c.OtherProduct.String()
		}
		data = append(data, []string{
			strconv.Itoa(int(c.State)),
			c.Kind,
			c.Production.String(),
			detail,
		})
	}

	return rosed.Edit("conflicts:").
		InsertTableOpts(0, data, textWidth, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func followTable(r *Report) string {
	data := [][]string{{"nonterminal", "follow", "eof"}}
	for _, nt := range r.sortedFollowKeys() {
		e := r.Follow[nt]
		terms := make([]string, len(e.Terminals))
		for i, t := range e.Terminals {
			terms[i] = t.String()
		}
		data = append(data, []string{
			nt.String(),
			strings.Join(terms, " "),
			strconv.FormatBool(e.EOF),
		})
	}

	return rosed.Edit("follow sets:").
		InsertTableOpts(0, data, textWidth, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func stateTable(r *Report) string {
	data := [][]string{{"state", "items", "kernel", "shifts", "gotos", "reductions"}}
	for _, st := range r.sortedStates() {
		data = append(data, []string{
			strconv.Itoa(int(st.Index)),
			strconv.Itoa(st.ItemCount),
			strconv.Itoa(st.KernelCount),
			strconv.Itoa(len(st.Shifts)),
			strconv.Itoa(len(st.Gotos)),
			strconv.Itoa(len(st.Reductions)),
		})
	}

	return rosed.Edit("states:").
		InsertTableOpts(0, data, textWidth, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
