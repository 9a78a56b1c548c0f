// Package coaching holds the pure arithmetic behind coaching signals and the
// rolling score statistics. No I/O happens here.
package coaching

import (
	"math"

	"github.com/Abdelgadir-Osman/ai-interview-coach/internal/model/interview"
)

// ScoreWindow is how many recent scores the rolling average covers.
const ScoreWindow = 10

// ApplySignalUpdates adds each field of delta to base. A nil delta returns
// base unchanged. No clamping is performed; callers supply non-negative
// deltas.
func ApplySignalUpdates(base interview.Signals, delta *interview.SignalUpdates) interview.Signals {
	if delta == nil {
		return base
	}
	return interview.Signals{
		MissingMetrics: base.MissingMetrics + delta.MissingMetrics,
		WeakResult:     base.WeakResult + delta.WeakResult,
		UnclearTask:    base.UnclearTask + delta.UnclearTask,
		Rambling:       base.Rambling + delta.Rambling,
	}
}

// ComputeStatsAfterGrade appends newScore to the window, evicts the oldest
// entries beyond ScoreWindow, and returns the new window together with its
// mean rounded to one decimal place.
func ComputeStatsAfterGrade(lastScores []float64, newScore float64) ([]float64, float64) {
	next := append(append([]float64{}, lastScores...), newScore)
	if len(next) > ScoreWindow {
		next = next[len(next)-ScoreWindow:]
	}

	var sum float64
	for _, s := range next {
		sum += s
	}
	avg := sum / float64(len(next))
	return next, math.Round(avg*10) / 10
}

// focusLabels maps each signal to its coaching label, in priority order.
// Ties between equal counters resolve to the earlier entry.
var focusLabels = []struct {
	count func(interview.Signals) int
	label string
}{
	{func(s interview.Signals) int { return s.MissingMetrics }, "Add measurable impact/metrics"},
	{func(s interview.Signals) int { return s.WeakResult }, "Stronger results + reflection"},
	{func(s interview.Signals) int { return s.UnclearTask }, "Clarify task/constraints"},
	{func(s interview.Signals) int { return s.Rambling }, "Be more concise/structured"},
}

// GeneralFocus is the label reported before any weakness has been observed.
const GeneralFocus = "General improvement"

// CurrentFocusFromSignals picks the coaching label for the highest-valued
// signal. All-zero signals yield GeneralFocus.
func CurrentFocusFromSignals(signals interview.Signals) string {
	bestIdx := -1
	bestCount := 0
	for i, f := range focusLabels {
		if c := f.count(signals); c > bestCount {
			bestIdx, bestCount = i, c
		}
	}
	if bestIdx == -1 {
		return GeneralFocus
	}
	return focusLabels[bestIdx].label
}

// TopSignal pairs a signal name with its counter for summary reporting.
type TopSignal struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TopSignals returns the n highest signals in descending order. Equal
// counters keep the fixed priority order.
func TopSignals(signals interview.Signals, n int) []TopSignal {
	all := []TopSignal{
		{"missing_metrics", signals.MissingMetrics},
		{"weak_result", signals.WeakResult},
		{"unclear_task", signals.UnclearTask},
		{"rambling", signals.Rambling},
	}
	// Insertion sort keeps the slice stable; four elements only.
	for i := 1; i < len(all); i++ {
		for j := i; j > 0 && all[j].Count > all[j-1].Count; j-- {
			all[j], all[j-1] = all[j-1], all[j]
		}
	}
	if n < len(all) {
		all = all[:n]
	}
	return all
}

// ClampScore forces a model-reported score into [0,10]. Non-finite input
// maps to 0.
func ClampScore(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return math.Max(0, math.Min(10, x))
}
