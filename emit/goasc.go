package emit

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"strings"
	"text/template"

	"github.com/kentaro-s/lrtab/grammar"
	"github.com/kentaro-s/lrtab/grammar/symbol"
	"github.com/kentaro-s/lrtab/lr"
)

// GoRecursiveAscent renders an illustrative, non-production Go
// recursive-ascent parser skeleton for states: a single dispatch function
// with one case per state that, for the next terminal, returns either a
// shift to the next state or a reduce marker, plus a tagged-result type
// (Step) and a single Parse entry function. It does not emit a separate
// function per state. It exists to show a downstream
// consumer the shape lr.State and emit.DeriveTokens are meant to drive,
// not to generate a parser anyone should ship.
func GoRecursiveAscent(pkgName string, g *grammar.Grammar, states []*lr.State, startState lr.StateIndex) ([]byte, error) {
	var caseBlocks []string
	for _, st := range states {
		tokens, err := DeriveTokens(g, st)
		if err != nil {
			return nil, fmt.Errorf("emit: goasc: %w", err)
		}
		caseBlocks = append(caseBlocks, renderStateCase(st.Index, tokens))
	}

	t, err := template.New("goasc").Parse(goAscTemplate)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	err = t.Execute(&b, map[string]interface{}{
		"packageName": pkgName,
		"startState":  int(startState),
		"cases":       strings.Join(caseBlocks, "\n"),
	})
	if err != nil {
		return nil, err
	}

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "", b.String(), parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("emit: goasc: generated source did not parse: %w", err)
	}
	f.Name = ast.NewIdent(pkgName)

	var out bytes.Buffer
	if err := format.Node(&out, fset, f); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// renderStateCase renders one `case <index>:` arm of dispatch's outer
// switch on state, itself containing a switch on the lookahead terminal's
// numeric symbol.
func renderStateCase(idx lr.StateIndex, tokens map[symbol.Symbol]TokenAction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\tcase %d:\n\t\tswitch sym {\n", int(idx))
	for _, sym := range sortedTerminals(tokens) {
		switch a := tokens[sym].(type) {
		case Shift:
			fmt.Fprintf(&b, "\t\tcase %d:\n\t\t\treturn Step{Shift: true, Next: %d}, true\n", int(sym), int(a.Next))
		case Reduce:
			fmt.Fprintf(&b, "\t\tcase %d:\n\t\t\treturn Step{Reduce: true, Production: %q}, true\n", int(sym), a.Production.String())
		}
	}
	fmt.Fprintf(&b, "\t\t}\n")
	return b.String()
}

const goAscTemplate = `// Code generated by lrtab's illustrative emitter. DO NOT EDIT.
package {{ .packageName }}

// Step is the tagged result of running one state's dispatch: either a
// shift into the next state or a reduce naming the production (by its
// short content hash, since this skeleton carries no production table).
type Step struct {
	Shift      bool
	Reduce     bool
	Next       int
	Production string
}

// dispatch looks up the action state takes on lookahead symbol sym.
func dispatch(state, sym int) (Step, bool) {
	switch state {
{{ .cases }}
	}
	return Step{}, false
}

// Parse runs the automaton starting from state {{ .startState }}, calling
// next to obtain each lookahead terminal's symbol number. It is a
// skeleton: real driving logic (a state stack, semantic action dispatch)
// belongs to whatever consumes this generated file.
func Parse(next func() int) []Step {
	var steps []Step
	state := {{ .startState }}
	for {
		step, ok := dispatch(state, next())
		if !ok {
			break
		}
		steps = append(steps, step)
		if step.Shift {
			state = step.Next
		} else {
			break
		}
	}
	return steps
}
`
