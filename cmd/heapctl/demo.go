package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapsim/heap/replay"
	"github.com/joshuapare/heapsim/internal/script"
)

var (
	demoClassic bool
	demoPrint   bool
)

func init() {
	cmd := newDemoCmd()
	cmd.Flags().BoolVar(&demoClassic, "classic", false, "Use the 11-unit coalescing trace instead")
	cmd.Flags().BoolVar(&demoPrint, "print-script", false, "Print the built-in script and exit")
	rootCmd.AddCommand(cmd)
}

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Compare policies on a built-in script",
		Long: `The demo command runs a built-in script under both placement policies.
The default script makes first-fit fail a request that best-fit satisfies.

Example:
  heapctl demo
  heapctl demo --classic
  heapctl demo --print-script > trace.heap`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo()
		},
	}
	return cmd
}

func runDemo() error {
	s := replay.Demo()
	if demoClassic {
		s = replay.Classic()
	}
	if demoPrint {
		return script.Emit(os.Stdout, s)
	}
	return compareScript(s, replayOptions(true, false))
}
