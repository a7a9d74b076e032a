// Package report renders a simulation's history trace as a textual
// occupancy summary. Full chart/Gantt rendering is out of scope for this
// repository (spec.md §1 Non-goals); this package supplies only what the
// CLI's -draw contract needs without a graphics stack.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cnotch/rtsim"
)

// Options controls which optional detail the summary includes, mirroring
// the CLI's -ticks/-hps/-labels flags (spec.md §6.3).
type Options struct {
	ShowTicks  bool // include per-tick TICK_OVERHEAD entries in the overhead breakdown
	ShowHPS    bool // print the task set's hyperperiod above the occupancy lines
	ShowLabels bool // include each overhead entry's step label (SAVE, LOAD, ...)

	TickRate    float64
	Hyperperiod int
}

// Summarize renders one occupancy line per task (one glyph per
// TASK-execution trace entry: the task's own name glyph while it holds the
// CPU) plus per-ExecutionType overhead totals and a marker if a deadline
// was missed during the run, using the default Options.
func Summarize(history []rtsim.HistoryEntry, tickRate float64) string {
	return SummarizeWithOptions(history, Options{TickRate: tickRate})
}

// SummarizeWithOptions renders the same summary as Summarize, with the
// level of detail the CLI's -ticks/-hps/-labels flags requested.
func SummarizeWithOptions(history []rtsim.HistoryEntry, opts Options) string {
	var b strings.Builder

	occupancy := map[int]*strings.Builder{}
	overheadTotals := map[rtsim.ExecutionType]float64{}
	var labelLines []string
	missedAt := 0.0
	missed := false

	for _, e := range history {
		switch e.Type {
		case rtsim.Task_:
			if occupancy[e.TaskName] == nil {
				occupancy[e.TaskName] = &strings.Builder{}
			}
			occupancy[e.TaskName].WriteByte(glyph(e.TaskName))
		case rtsim.MissedDeadline:
			missed = true
			missedAt = e.MissedAbs
		case rtsim.TickOverhead:
			if opts.ShowTicks {
				overheadTotals[e.Type] += e.UsedTime
			}
		default:
			overheadTotals[e.Type] += e.UsedTime
		}

		if opts.ShowLabels && e.Label != "" {
			labelLines = append(labelLines, fmt.Sprintf("  %-5d %-20s %-10s %v", e.TaskName, e.Type, e.Label, e.UsedTime))
		}
	}

	names := make([]int, 0, len(occupancy))
	for n := range occupancy {
		names = append(names, n)
	}
	sort.Ints(names)

	fmt.Fprintf(&b, "rtsim schedule summary (tick rate %v)\n", opts.TickRate)
	if opts.ShowHPS && opts.Hyperperiod > 0 {
		fmt.Fprintf(&b, "hyperperiod: %d\n", opts.Hyperperiod)
	}
	for _, n := range names {
		fmt.Fprintf(&b, "T%-3d |%s|\n", n, occupancy[n].String())
	}

	types := make([]rtsim.ExecutionType, 0, len(overheadTotals))
	for t := range overheadTotals {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	for _, t := range types {
		fmt.Fprintf(&b, "%-20s %v\n", t, overheadTotals[t])
	}

	if opts.ShowLabels {
		for _, l := range labelLines {
			b.WriteString(l)
			b.WriteByte('\n')
		}
	}

	if missed {
		fmt.Fprintf(&b, "! a deadline was missed at absolute deadline %v\n", missedAt)
	}

	return b.String()
}

func glyph(taskName int) byte {
	s := strconv.Itoa(taskName)
	return s[len(s)-1]
}
