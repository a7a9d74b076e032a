package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cnotch/rtsim"
)

func sampleHistory() []rtsim.HistoryEntry {
	return []rtsim.HistoryEntry{
		{TaskName: 1, UsedTime: 1, Type: rtsim.Task_},
		{TaskName: 1, UsedTime: 0.1, Type: rtsim.EndJobOverhead, Label: "SAVE"},
		{TaskName: rtsim.TICK, UsedTime: 0.1, Type: rtsim.TickOverhead, Label: "LOAD"},
		{TaskName: 2, UsedTime: 1, Type: rtsim.Task_},
	}
}

func TestSummarize_IncludesTaskOccupancy(t *testing.T) {
	out := Summarize(sampleHistory(), 1)
	assert.Contains(t, out, "T1")
	assert.Contains(t, out, "T2")
}

func TestSummarize_OmitsTickOverheadByDefault(t *testing.T) {
	out := Summarize(sampleHistory(), 1)
	assert.NotContains(t, out, strings.ToUpper(rtsim.TickOverhead.String()))
}

func TestSummarizeWithOptions_ShowTicks(t *testing.T) {
	out := SummarizeWithOptions(sampleHistory(), Options{TickRate: 1, ShowTicks: true})
	assert.Contains(t, out, rtsim.TickOverhead.String())
}

func TestSummarizeWithOptions_ShowHPS(t *testing.T) {
	out := SummarizeWithOptions(sampleHistory(), Options{TickRate: 1, ShowHPS: true, Hyperperiod: 6})
	assert.Contains(t, out, "hyperperiod: 6")
}

func TestSummarizeWithOptions_ShowLabels(t *testing.T) {
	out := SummarizeWithOptions(sampleHistory(), Options{TickRate: 1, ShowLabels: true})
	assert.Contains(t, out, "SAVE")
}

func TestSummarize_MissedDeadlineMarker(t *testing.T) {
	history := append(sampleHistory(), rtsim.HistoryEntry{
		TaskName:  1,
		UsedTime:  2,
		Type:      rtsim.MissedDeadline,
		MissedAbs: 9,
	})
	out := Summarize(history, 1)
	assert.Contains(t, out, "deadline was missed")
	assert.Contains(t, out, "9")
}
