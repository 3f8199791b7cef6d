package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kentaro-s/lrtab/emit"
	"github.com/kentaro-s/lrtab/grammar/ingest"
	"github.com/kentaro-s/lrtab/internal/session"
	"github.com/kentaro-s/lrtab/lr"
)

var buildFlags = struct {
	lookahead      *string
	format         *string
	output         *string
	conflictBudget *int
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "build",
		Short:   "Construct the LR state collection for a grammar document",
		Example: `  lrtab build grammar.toml --lookahead lr1 --format text`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runBuild,
	}
	buildFlags.lookahead = cmd.Flags().String("lookahead", "lr1", "construction variant: lr0 or lr1")
	buildFlags.format = cmd.Flags().String("format", "text", "report format: text, json, or rezi")
	buildFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	buildFlags.conflictBudget = cmd.Flags().Int("conflict-budget", -1, "stop after this many conflicts accumulate (default: unlimited)")
	rootCmd.AddCommand(cmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	runID, err := uuid.NewRandom()
	if err != nil {
		return fmt.Errorf("generate run id: %w", err)
	}

	var r io.Reader = os.Stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open grammar document: %w", err)
		}
		defer f.Close()
		r = f
	}

	res, err := ingest.Load(r)
	if err != nil {
		return fmt.Errorf("run %s: %w", runID, err)
	}

	sessOpts := []session.Option{session.WithWriter(os.Stderr)}
	buildOpts := []lr.Option{}
	if *buildFlags.conflictBudget >= 0 {
		sessOpts = append(sessOpts, session.WithConflictBudget(*buildFlags.conflictBudget))
		buildOpts = append(buildOpts, lr.WithConflictBudget(*buildFlags.conflictBudget))
	}
	sess := session.New(sessOpts...)
	buildOpts = append(buildOpts, lr.WithSession(sess))

	var states []*lr.State
	var buildErr error
	switch *buildFlags.lookahead {
	case "lr0":
		states, buildErr = lr.BuildLR0States(res.Grammar, res.Start, buildOpts...)
	case "lr1":
		states, buildErr = lr.BuildLR1States(res.Grammar, res.Start, buildOpts...)
	default:
		return fmt.Errorf("unknown --lookahead %q: want lr0 or lr1", *buildFlags.lookahead)
	}

	report, err := emit.BuildReport(res.Grammar, *buildFlags.lookahead, res.Start, states, buildErr)
	if err != nil {
		return fmt.Errorf("run %s: construction failed: %w", runID, err)
	}

	out, closeOut, err := openOutput(*buildFlags.output)
	if err != nil {
		return err
	}
	defer closeOut()

	switch *buildFlags.format {
	case "text":
		fmt.Fprintf(out, "run %s\n%s\n", runID, emit.Text(report))
	case "json":
		b, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(b))
	case "rezi":
		out.Write(emit.EncodeBinary(report))
	default:
		return fmt.Errorf("unknown --format %q: want text, json, or rezi", *buildFlags.format)
	}

	if len(report.Conflicts) > 0 {
		fmt.Fprintf(os.Stderr, "run %s: %d conflict(s) found\n", runID, len(report.Conflicts))
	}
	return nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}
