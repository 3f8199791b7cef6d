package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lrtab",
	Short: "Build and inspect canonical LR(0)/LR(1) automata from a grammar",
	Long: `lrtab provides three features:
- Constructs the canonical LR(0) or LR(1) state collection for a grammar
  document and reports its states and any conflicts.
- Prints a focused, human-readable summary of a previously built report.
- Lets you explore a built automaton interactively, one state at a time.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
