package trace

// TraceSummary aggregates statistics from a DecisionLog.
type TraceSummary struct {
	TotalDecisions     int
	UniqueChosen       int
	ChoiceDistribution map[string]int // process ID → number of times chosen
	RuleCounts         map[Rule]int
	MeanCandidates     float64 // average eligible-set size per decision (contention)
	MaxCandidates      int
}

// Summarize computes aggregate statistics from a DecisionLog.
// Safe for nil or empty logs (returns zero-value fields).
func Summarize(dl *DecisionLog) *TraceSummary {
	summary := &TraceSummary{
		ChoiceDistribution: make(map[string]int),
		RuleCounts:         make(map[Rule]int),
	}
	if dl == nil {
		return summary
	}

	summary.TotalDecisions = len(dl.Decisions)
	if summary.TotalDecisions == 0 {
		return summary
	}

	totalCandidates := 0
	for _, d := range dl.Decisions {
		summary.ChoiceDistribution[d.Chosen]++
		summary.RuleCounts[d.Rationale.Rule]++
		totalCandidates += len(d.Candidates)
		if len(d.Candidates) > summary.MaxCandidates {
			summary.MaxCandidates = len(d.Candidates)
		}
	}
	summary.MeanCandidates = float64(totalCandidates) / float64(summary.TotalDecisions)
	summary.UniqueChosen = len(summary.ChoiceDistribution)

	return summary
}
