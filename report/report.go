// Package report formats a finished simulation run into the four-section
// output file: completion table, both register files, and the non-zero
// memory words, using text/tabwriter for column alignment.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sarchlab/tomasulo/core"
)

// cycleCell renders a completion-table cell: the cycle number, or blank if
// the instruction never reached that stage.
func cycleCell(c int64) string {
	if c < 0 {
		return ""
	}
	return fmt.Sprintf("%d", c)
}

// Write renders the completion table, both register files, and the
// non-zero memory words to w.
func Write(w io.Writer, orch *core.Orchestrator) error {
	if err := writeCompletionTable(w, orch.CompletionTable()); err != nil {
		return err
	}
	fmt.Fprintln(w)
	if err := writeIntARF(w, orch.ARF()); err != nil {
		return err
	}
	fmt.Fprintln(w)
	if err := writeFPARF(w, orch.ARF()); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return writeMemory(w, orch.Memory())
}

func writeCompletionTable(w io.Writer, rows []core.CompletionRow) error {
	fmt.Fprintln(w, "Instruction Completion Table")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tIS\tEX\tMEM\tWB\tCOM")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, cycleCell(r.Issue), cycleCell(r.Execute), cycleCell(r.Memory), cycleCell(r.Writeback), cycleCell(r.Commit))
	}
	return tw.Flush()
}

func writeIntARF(w io.Writer, arf *core.ARF) error {
	fmt.Fprintln(w, "Integer Register File")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	names := core.IntRegNames()
	for i := 0; i < len(names); i += 4 {
		end := i + 4
		if end > len(names) {
			end = len(names)
		}
		for _, n := range names[i:end] {
			fmt.Fprintf(tw, "%s=%d\t", n, int64(arf.Get(n)))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func writeFPARF(w io.Writer, arf *core.ARF) error {
	fmt.Fprintln(w, "Floating-Point Register File")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	names := core.FPRegNames()
	for i := 0; i < len(names); i += 2 {
		end := i + 2
		if end > len(names) {
			end = len(names)
		}
		for _, n := range names[i:end] {
			fmt.Fprintf(tw, "%s=%.6f\t", n, arf.Get(n))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func writeMemory(w io.Writer, mem *core.Memory) error {
	fmt.Fprintln(w, "Memory Unit")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	words := mem.NonZeroWords()
	for i := 0; i < len(words); i += 2 {
		end := i + 2
		if end > len(words) {
			end = len(words)
		}
		for _, nw := range words[i:end] {
			fmt.Fprintf(tw, "Word %d: %s\t", nw.Index, formatCell(nw))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func formatCell(nw core.NonZeroWord) string {
	if nw.Kind == core.CellFloat {
		return fmt.Sprintf("%.6f", nw.Value)
	}
	return fmt.Sprintf("%d", int64(nw.Value))
}
