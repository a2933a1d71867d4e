package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapsim/heap/alloc"
	"github.com/joshuapare/heapsim/heap/replay"
	"github.com/joshuapare/heapsim/internal/logger"
)

var (
	runPolicy    string
	runVerify    bool
	runUnchecked bool
	runStats     bool
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().StringVarP(&runPolicy, "policy", "p", "first-fit", "Placement policy (first-fit, best-fit)")
	cmd.Flags().BoolVar(&runVerify, "verify", false, "Check free-list invariants after every step")
	cmd.Flags().BoolVar(&runUnchecked, "unchecked", false, "Accept any free region without validation")
	cmd.Flags().BoolVar(&runStats, "stats", false, "Print usage and operation counters")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Replay a script under one placement policy",
		Long: `The run command replays an allocation script against a fresh arena and
prints the free list after every step.

Script format:
  arena 14            arena size, must come first
  alloc a 6 [best]    allocate 6 units, bind to a, optional policy
  free a              free the region bound to a
  free 0 6            free [0,6) by address

Example:
  heapctl run trace.heap
  heapctl run trace.heap --policy best-fit --stats
  heapctl run trace.heap --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(args)
		},
	}
	return cmd
}

func runRun(args []string) error {
	policy, err := alloc.ParsePolicy(runPolicy)
	if err != nil {
		return err
	}

	s, err := loadScript(args[0])
	if err != nil {
		return err
	}

	tr, runErr := replay.Run(s, policy, replayOptions(runVerify, runUnchecked)...)
	if tr == nil {
		return runErr
	}

	if structured() {
		if err := printStructured(tr); err != nil {
			return err
		}
		return runErr
	}

	printTrace(tr)
	if runStats {
		printSummary(tr)
	}
	if runErr != nil {
		return runErr
	}
	if n := tr.Failures(); n > 0 {
		printVerbose("%d of %d steps failed\n", n, len(tr.Steps))
	}
	return nil
}

func loadScript(path string) (*replay.Script, error) {
	printVerbose("Loading script: %s\n", path)
	s, err := replay.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load script: %w", err)
	}
	logger.Debug("script loaded", "path", path, "arena", s.Arena, "ops", len(s.Ops))
	return s, nil
}

// replayOptions maps the shared CLI flags to replay options.
func replayOptions(verify, unchecked bool) []replay.Option {
	var opts []replay.Option
	if verify {
		opts = append(opts, replay.WithVerify())
	}
	allocOpts := []alloc.Option{alloc.WithLogger(logger.L)}
	if unchecked {
		allocOpts = append(allocOpts, alloc.WithUncheckedFree())
	}
	return append(opts, replay.WithAllocOptions(allocOpts...))
}
