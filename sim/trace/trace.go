package trace

// DecisionLog collects decision records during a single CPU scheduling run.
// It is append-only and owned by one run; it is not safe for concurrent writers.
type DecisionLog struct {
	Policy    string
	Decisions []DecisionRecord
}

// NewDecisionLog creates a DecisionLog ready for recording.
func NewDecisionLog(policy string) *DecisionLog {
	return &DecisionLog{
		Policy:    policy,
		Decisions: make([]DecisionRecord, 0),
	}
}

// Record appends a decision record. The candidate slice is copied so later
// mutation of the caller's queue cannot alter the log.
func (dl *DecisionLog) Record(record DecisionRecord) {
	record.Candidates = append([]string(nil), record.Candidates...)
	dl.Decisions = append(dl.Decisions, record)
}

// Len returns the number of recorded decisions.
func (dl *DecisionLog) Len() int {
	return len(dl.Decisions)
}
