package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kentaro-s/lrtab/emit"
	"github.com/kentaro-s/lrtab/lr"
)

var describeFlags = struct {
	state *int
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "describe",
		Short:   "Print a focused summary of one state from a JSON report",
		Example: `  lrtab describe report.json --state 4`,
		Args:    cobra.ExactArgs(1),
		RunE:    runDescribe,
	}
	describeFlags.state = cmd.Flags().Int("state", -1, "state index to describe (default: report overview)")
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	report, err := readReport(args[0])
	if err != nil {
		return err
	}

	if *describeFlags.state < 0 {
		fmt.Fprint(os.Stdout, emit.Text(report))
		return nil
	}

	st, ok := report.StateByIndex(lr.StateIndex(*describeFlags.state))
	if !ok {
		return fmt.Errorf("report has no state %d", *describeFlags.state)
	}

	fmt.Printf("state %d: %d item(s), %d kernel item(s)\n", st.Index, st.ItemCount, st.KernelCount)
	fmt.Printf("  shifts: %d, gotos: %d, reductions: %d\n", len(st.Shifts), len(st.Gotos), len(st.Reductions))
	for sym, next := range st.Shifts {
		fmt.Printf("  shift  %v -> state %d\n", sym, next)
	}
	for sym, next := range st.Gotos {
		fmt.Printf("  goto   %v -> state %d\n", sym, next)
	}
	for _, p := range st.Reductions {
		fmt.Printf("  reduce by %s\n", p.String())
	}
	return nil
}

func readReport(path string) (*emit.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	r := &emit.Report{}
	if err := json.NewDecoder(f).Decode(r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return r, nil
}
