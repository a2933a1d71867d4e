package main

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/joshuapare/heapsim/heap/alloc"
	"github.com/joshuapare/heapsim/heap/replay"
)

// maxMapWidth is the widest arena drawn as a character map.
const maxMapWidth = 64

func formatBlocks(blocks []alloc.Block) string {
	if len(blocks) == 0 {
		return "(none)"
	}
	parts := make([]string, len(blocks))
	for i, b := range blocks {
		parts[i] = b.String()
	}
	return strings.Join(parts, " ")
}

// arenaMap draws one cell per unit: '.' free, '#' allocated. Returns "" for
// arenas wider than maxMapWidth.
func arenaMap(arena int, free []alloc.Block) string {
	if arena > maxMapWidth {
		return ""
	}
	cells := []byte(strings.Repeat("#", arena))
	for _, b := range free {
		for i := b.Start; i < b.End() && i < arena; i++ {
			cells[i] = '.'
		}
	}
	return string(cells)
}

// outcome pads before colouring so escape codes do not shift columns.
func outcome(s replay.Step) string {
	cell := fmt.Sprintf("%-10s", stepCell(s))
	if !s.OK {
		return red(cell)
	}
	return green(cell)
}

func printTrace(tr *replay.Trace) {
	printInfo("%s  arena %s\n", bold(tr.Policy), numbers.Sprintf("%d", tr.Arena))
	for _, s := range tr.Steps {
		printInfo("  %3d  %-24s %s free: %s\n", s.Index+1, s.Op, outcome(s), formatBlocks(s.Free))
		if m := arenaMap(tr.Arena, s.Free); m != "" {
			printVerbose("       %s\n", dim(m))
		}
		if s.Error != "" {
			printInfo("       %s\n", dim(s.Error))
		}
	}
}

func printSummary(tr *replay.Trace) {
	u, st := tr.Usage, tr.Stats
	printInfo("\nUsage (%s):\n", tr.Policy)
	printInfo("  Arena:            %s\n", numbers.Sprintf("%d", u.ArenaSize))
	printInfo("  Allocated:        %s in %d allocations\n", numbers.Sprintf("%d", u.AllocatedBytes), u.Allocations)
	printInfo("  Free:             %s in %d blocks\n", numbers.Sprintf("%d", u.FreeBytes), u.FreeBlocks)
	printInfo("  Largest free:     %s\n", numbers.Sprintf("%d", u.LargestFree))
	printInfo("  Fragmentation:    %.1f%%\n", u.Fragmentation*100)
	printInfo("  Alloc calls:      %d (failed: %d)\n", st.AllocCalls, st.AllocFailures)
	printInfo("  Free calls:       %d (failed: %d)\n", st.FreeCalls, st.FreeFailures)
	printInfo("  Splits:           %d, exact fits: %d, merges: %d\n", st.Splits, st.ExactFits, st.Merges)
}

func printComparison(c *replay.Comparison) {
	ff, bf := c.FirstFit, c.BestFit
	printInfo("%s\n", bold(fmt.Sprintf("  %3s  %-24s %-12s %-12s", "#", "op", "first-fit", "best-fit")))
	for i := range ff.Steps {
		a, b := ff.Steps[i], bf.Steps[i]
		mark := ""
		if i == c.Divergence {
			mark = "  <- diverges"
		}
		printInfo("  %3d  %-24s %-12s %-12s%s\n", i+1, a.Op, stepCell(a), stepCell(b), mark)
		printVerbose("       ff free: %s\n       bf free: %s\n", formatBlocks(a.Free), formatBlocks(b.Free))
	}

	printInfo("\n")
	if c.Diverged() {
		printInfo("Policies diverge at step %d.\n", c.Divergence+1)
	} else {
		printInfo("Policies agree on every step.\n")
	}
	printInfo("  first-fit: %d failures, largest free %d\n", ff.Failures(), ff.Usage.LargestFree)
	printInfo("  best-fit:  %d failures, largest free %d\n", bf.Failures(), bf.Usage.LargestFree)
}

func stepCell(s replay.Step) string {
	switch {
	case !s.OK:
		return "FAIL"
	case strings.HasPrefix(s.Op, "alloc"):
		return fmt.Sprintf("-> %d", s.Addr)
	default:
		return "ok"
	}
}

// traceText renders tr one step per line without colour or policy names, so
// two traces of the same script differ only where their outcomes differ.
func traceText(tr *replay.Trace) string {
	var b strings.Builder
	for _, s := range tr.Steps {
		fmt.Fprintf(&b, "%3d  %-24s %-10s free: %s\n", s.Index+1, s.Op, stepCell(s), formatBlocks(s.Free))
	}
	return b.String()
}

func printTraceDiff(c *replay.Comparison) error {
	if !c.Diverged() {
		printInfo("Policies agree on every step.\n")
		return nil
	}
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(traceText(c.FirstFit)),
		B:        difflib.SplitLines(traceText(c.BestFit)),
		FromFile: c.FirstFit.Policy,
		ToFile:   c.BestFit.Policy,
		Context:  1,
	}
	patch, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return err
	}
	printInfo("%s", patch)
	return nil
}
