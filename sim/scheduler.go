package sim

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xaios/ossim/sim/trace"
)

// CPUPolicy names a CPU scheduling algorithm.
type CPUPolicy string

const (
	PolicyFCFS       CPUPolicy = "fcfs"
	PolicySJF        CPUPolicy = "sjf"
	PolicyRoundRobin CPUPolicy = "rr"
)

// ValidCPUPolicies is the set of recognized CPU policy names.
// Shared by Scenario.Validate() and NewCPUScheduler() to avoid duplication.
var ValidCPUPolicies = map[string]bool{"fcfs": true, "sjf": true, "rr": true}

// CPUPolicyNames lists the CPU policies in presentation order.
var CPUPolicyNames = []CPUPolicy{PolicyFCFS, PolicySJF, PolicyRoundRobin}

// IsValidCPUPolicy returns true if name is a recognized CPU policy (case-insensitive).
func IsValidCPUPolicy(name string) bool {
	return ValidCPUPolicies[normalizePolicy(name)]
}

func normalizePolicy(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CPUResult is the output of one CPU scheduling run.
type CPUResult struct {
	Policy    CPUPolicy              `json:"policy"`
	Quantum   int64                  `json:"quantum,omitempty"`
	Schedule  []ScheduleEntry        `json:"schedule"`
	Decisions []trace.DecisionRecord `json:"decisions"`
	Gaps      []Gap                  `json:"gaps"`
}

// Label returns a human-readable algorithm label, e.g. "Round Robin (q=2)".
func (r *CPUResult) Label() string {
	switch r.Policy {
	case PolicyFCFS:
		return "FCFS"
	case PolicySJF:
		return "SJF"
	case PolicyRoundRobin:
		return fmt.Sprintf("Round Robin (q=%d)", r.Quantum)
	default:
		return string(r.Policy)
	}
}

// CPUScheduler turns a validated process set into a schedule trace.
// Implementations never mutate the input slice.
type CPUScheduler interface {
	Schedule(processes []Process) *CPUResult
}

// cpuSchedulers is the policy dispatch table. The quantum argument is only
// meaningful for Round-Robin.
var cpuSchedulers = map[CPUPolicy]func(quantum int64) CPUScheduler{
	PolicyFCFS:       func(int64) CPUScheduler { return &FCFSScheduler{} },
	PolicySJF:        func(int64) CPUScheduler { return &SJFScheduler{} },
	PolicyRoundRobin: func(q int64) CPUScheduler { return &RoundRobinScheduler{Quantum: q} },
}

// NewCPUScheduler creates a CPUScheduler by name.
// Valid names: "fcfs", "sjf", "rr". Round-Robin requires quantum >= 1.
func NewCPUScheduler(name string, quantum int64) (CPUScheduler, error) {
	policy := CPUPolicy(normalizePolicy(name))
	factory, ok := cpuSchedulers[policy]
	if !ok {
		return nil, fmt.Errorf("%w: unknown cpu policy %q; valid: fcfs, sjf, rr", ErrInvalidPolicy, name)
	}
	if policy == PolicyRoundRobin && quantum <= 0 {
		return nil, fmt.Errorf("%w: round-robin quantum must be >= 1, got %d", ErrInvalidQuantum, quantum)
	}
	return factory(quantum), nil
}

// MaxRoundRobinSlices bounds the schedule length of one Round-Robin run.
var MaxRoundRobinSlices int64 = 1_000_000

// RunCPUSchedule validates the processes and runs the named policy over them.
func RunCPUSchedule(processes []Process, policy string, quantum int64) (*CPUResult, error) {
	scheduler, err := NewCPUScheduler(policy, quantum)
	if err != nil {
		return nil, err
	}
	if err := ValidateProcesses(processes); err != nil {
		return nil, err
	}
	if rr, ok := scheduler.(*RoundRobinScheduler); ok {
		if n := rr.SliceCount(processes); n > MaxRoundRobinSlices {
			return nil, fmt.Errorf("%w: round-robin would emit %d slices, limit is %d", ErrMalformedInput, n, MaxRoundRobinSlices)
		}
	}
	return scheduler.Schedule(processes), nil
}

// FCFSScheduler runs processes to completion in (arrival, id) order.
type FCFSScheduler struct{}

func (f *FCFSScheduler) Schedule(processes []Process) *CPUResult {
	sorted := sortByArrival(processes)
	log := trace.NewDecisionLog(string(PolicyFCFS))
	result := &CPUResult{Policy: PolicyFCFS, Schedule: make([]ScheduleEntry, 0, len(sorted)), Gaps: []Gap{}}

	clock := int64(0)
	for i, p := range sorted {
		if p.Arrival > clock {
			result.Gaps = append(result.Gaps, Gap{From: clock, To: p.Arrival})
			clock = p.Arrival
		}
		// sorted is in rule order, so the eligible set is a contiguous run starting at i
		end := i
		for end < len(sorted) && sorted[end].Arrival <= clock {
			end++
		}
		log.Record(trace.DecisionRecord{
			Time:       clock,
			Candidates: ProcessIDs(sorted[i:end]),
			Chosen:     p.ID,
			Rationale:  trace.Rationale{Rule: trace.RuleEarliestArrival, Detail: fmt.Sprintf("arrival=%d", p.Arrival)},
		})
		logrus.Debugf("fcfs: t=%d dispatch %s", clock, p.ID)

		start := clock
		clock += p.Burst
		result.Schedule = append(result.Schedule, newEntry(p, start, clock, p.Burst))
	}

	result.Decisions = log.Decisions
	return result
}

// SJFScheduler is non-preemptive shortest-job-first. At each decision point it
// picks the arrived process with the smallest burst, then earliest arrival, then id.
type SJFScheduler struct{}

func (s *SJFScheduler) Schedule(processes []Process) *CPUResult {
	pending := sortByArrival(processes)
	log := trace.NewDecisionLog(string(PolicySJF))
	result := &CPUResult{Policy: PolicySJF, Schedule: make([]ScheduleEntry, 0, len(pending)), Gaps: []Gap{}}

	clock := int64(0)
	for len(pending) > 0 {
		ready := make([]Process, 0, len(pending))
		for _, p := range pending {
			if p.Arrival <= clock {
				ready = append(ready, p)
			}
		}
		if len(ready) == 0 {
			// pending is arrival-ordered, so its head is the next arrival
			result.Gaps = append(result.Gaps, Gap{From: clock, To: pending[0].Arrival})
			clock = pending[0].Arrival
			continue
		}

		sort.SliceStable(ready, func(i, j int) bool {
			if ready[i].Burst != ready[j].Burst {
				return ready[i].Burst < ready[j].Burst
			}
			if ready[i].Arrival != ready[j].Arrival {
				return ready[i].Arrival < ready[j].Arrival
			}
			return ready[i].ID < ready[j].ID
		})
		chosen := ready[0]

		log.Record(trace.DecisionRecord{
			Time:       clock,
			Candidates: ProcessIDs(ready),
			Chosen:     chosen.ID,
			Rationale:  trace.Rationale{Rule: trace.RuleShortestBurst, Detail: burstDetail(ready)},
		})
		logrus.Debugf("sjf: t=%d dispatch %s (burst=%d, %d candidates)", clock, chosen.ID, chosen.Burst, len(ready))

		start := clock
		clock += chosen.Burst
		result.Schedule = append(result.Schedule, newEntry(chosen, start, clock, chosen.Burst))
		pending = removeProcess(pending, chosen.ID)
	}

	result.Decisions = log.Decisions
	return result
}

// burstDetail renders "C=1 B=6" for the candidates in rule order.
func burstDetail(ready []Process) string {
	parts := make([]string, len(ready))
	for i, p := range ready {
		parts[i] = fmt.Sprintf("%s=%d", p.ID, p.Burst)
	}
	return "bursts " + strings.Join(parts, " ")
}

func removeProcess(processes []Process, id string) []Process {
	out := processes[:0:0]
	for _, p := range processes {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

// RoundRobinScheduler is preemptive with a fixed quantum.
//
// When a slice ends at time t, processes that arrived at or before t are enqueued
// before the preempted process is re-enqueued at the tail.
type RoundRobinScheduler struct {
	Quantum int64
}

// SliceCount returns the number of schedule entries a run over processes emits,
// sum(ceil(burst / quantum)). Processes must already be valid.
func (rr *RoundRobinScheduler) SliceCount(processes []Process) int64 {
	var n int64
	for _, p := range processes {
		n += (p.Burst-1)/rr.Quantum + 1
	}
	return n
}

func (rr *RoundRobinScheduler) Schedule(processes []Process) *CPUResult {
	sorted := sortByArrival(processes)
	log := trace.NewDecisionLog(string(PolicyRoundRobin))
	result := &CPUResult{Policy: PolicyRoundRobin, Quantum: rr.Quantum, Schedule: make([]ScheduleEntry, 0, len(sorted)), Gaps: []Gap{}}

	byID := make(map[string]Process, len(sorted))
	remaining := make(map[string]int64, len(sorted))
	for _, p := range sorted {
		byID[p.ID] = p
		remaining[p.ID] = p.Burst
	}

	var queue ReadyQueue
	next := 0
	admit := func(now int64) {
		for next < len(sorted) && sorted[next].Arrival <= now {
			queue.Enqueue(sorted[next].ID)
			next++
		}
	}

	clock := int64(0)
	admit(clock)
	completed := 0
	for completed < len(sorted) {
		if queue.Len() == 0 {
			result.Gaps = append(result.Gaps, Gap{From: clock, To: sorted[next].Arrival})
			clock = sorted[next].Arrival
			admit(clock)
			continue
		}

		candidates := queue.Snapshot()
		id, _ := queue.Dequeue()
		p := byID[id]
		run := min(rr.Quantum, remaining[id])

		log.Record(trace.DecisionRecord{
			Time:       clock,
			Candidates: candidates,
			Chosen:     id,
			Rationale: trace.Rationale{
				Rule:   trace.RuleReadyQueueFront,
				Detail: fmt.Sprintf("remaining=%d quantum=%d", remaining[id], rr.Quantum),
			},
		})
		logrus.Debugf("rr: t=%d dispatch %s for %d, queue=%v", clock, id, run, candidates[1:])

		start := clock
		clock += run
		remaining[id] -= run
		result.Schedule = append(result.Schedule, newEntry(p, start, clock, p.Burst-remaining[id]))

		admit(clock)
		if remaining[id] > 0 {
			queue.Enqueue(id)
		} else {
			completed++
		}
	}

	result.Decisions = log.Decisions
	return result
}
