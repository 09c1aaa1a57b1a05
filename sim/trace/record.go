// Package trace provides the decision log (explainability records) produced by the
// CPU scheduler. This package has no dependencies on sim/; it holds plain data types only.
package trace

import (
	"fmt"
	"strings"
)

// Rule names the ordering rule that produced a scheduling decision.
type Rule string

const (
	// RuleEarliestArrival is the FCFS rule.
	RuleEarliestArrival Rule = "earliest arrival, ties broken by id order"
	// RuleShortestBurst is the non-preemptive SJF rule.
	RuleShortestBurst Rule = "lowest burst among arrived, ties broken by arrival then id"
	// RuleReadyQueueFront is the Round-Robin rule.
	RuleReadyQueueFront Rule = "round-robin: next in ready queue"
)

// Rationale explains why a candidate was chosen. Detail carries the values that
// made the rule pick this candidate (e.g. the competing bursts) and may be empty.
type Rationale struct {
	Rule   Rule   `json:"rule"`
	Detail string `json:"detail,omitempty"`
}

func (r Rationale) String() string {
	if r.Detail == "" {
		return string(r.Rule)
	}
	return fmt.Sprintf("%s (%s)", r.Rule, r.Detail)
}

// DecisionRecord captures a single scheduling decision point.
type DecisionRecord struct {
	Time       int64     `json:"time"`
	Candidates []string  `json:"candidates"` // eligible process ids, in the order the rule considered them
	Chosen     string    `json:"chosen"`
	Rationale  Rationale `json:"rationale"`
}

// CandidateList renders the candidate ids space-separated, the form used in CSV export.
func (d DecisionRecord) CandidateList() string {
	return strings.Join(d.Candidates, " ")
}
