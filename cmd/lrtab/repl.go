package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/kentaro-s/lrtab/emit"
	"github.com/kentaro-s/lrtab/lr"
)

func init() {
	cmd := &cobra.Command{
		Use:     "repl",
		Short:   "Interactively explore a previously built JSON report",
		Example: `  lrtab repl report.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runRepl,
	}
	rootCmd.AddCommand(cmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	report, err := readReport(args[0])
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt: "lrtab> ",
	})
	if err != nil {
		return fmt.Errorf("create readline: %w", err)
	}
	defer rl.Close()

	fmt.Fprintf(rl.Stderr(), "%d states loaded (%s); type a state index, or q to quit\n", report.StateCount, report.Lookahead)

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "q" || line == "quit" || line == "exit" {
			return nil
		}

		idx, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintf(rl.Stderr(), "not a state index: %q\n", line)
			continue
		}

		st, ok := report.StateByIndex(lr.StateIndex(idx))
		if !ok {
			fmt.Fprintf(rl.Stderr(), "no such state: %d\n", idx)
			continue
		}
		printReplState(rl, st)
	}
}

func printReplState(rl *readline.Instance, st *emit.StateSummary) {
	fmt.Fprintf(rl.Stderr(), "state %d: %d item(s), %d kernel item(s)\n", st.Index, st.ItemCount, st.KernelCount)
	for sym, next := range st.Shifts {
		fmt.Fprintf(rl.Stderr(), "  shift  %v -> state %d\n", sym, next)
	}
	for sym, next := range st.Gotos {
		fmt.Fprintf(rl.Stderr(), "  goto   %v -> state %d\n", sym, next)
	}
	for _, p := range st.Reductions {
		fmt.Fprintf(rl.Stderr(), "  reduce by %s\n", p.String())
	}
}
