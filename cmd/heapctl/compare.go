package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/heapsim/heap/replay"
)

var (
	compareVerify    bool
	compareUnchecked bool
	compareDiff      bool
)

func init() {
	cmd := newCompareCmd()
	cmd.Flags().BoolVar(&compareVerify, "verify", false, "Check free-list invariants after every step")
	cmd.Flags().BoolVar(&compareUnchecked, "unchecked", false, "Accept any free region without validation")
	cmd.Flags().BoolVar(&compareDiff, "diff", false, "Show a unified diff of the two traces")
	rootCmd.AddCommand(cmd)
}

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <script>",
		Short: "Replay a script under first-fit and best-fit side by side",
		Long: `The compare command replays the same script under both placement
policies and reports the first step where their outcomes differ.

Example:
  heapctl compare trace.heap
  heapctl compare trace.heap -v
  heapctl compare trace.heap --diff
  heapctl compare trace.heap --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(args)
		},
	}
	return cmd
}

func runCompare(args []string) error {
	s, err := loadScript(args[0])
	if err != nil {
		return err
	}
	return compareScript(s, replayOptions(compareVerify, compareUnchecked))
}

func compareScript(s *replay.Script, opts []replay.Option) error {
	c, err := replay.Compare(s, opts...)
	if err != nil {
		return err
	}
	if structured() {
		return printStructured(c)
	}
	if compareDiff {
		return printTraceDiff(c)
	}
	printComparison(c)
	return nil
}
