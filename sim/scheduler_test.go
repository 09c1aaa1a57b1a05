package sim

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaios/ossim/sim/internal/testutil"
	"github.com/xaios/ossim/sim/trace"
)

func textbookProcesses() []Process {
	return []Process{
		{ID: "P1", Arrival: 0, Burst: 5},
		{ID: "P2", Arrival: 2, Burst: 3},
		{ID: "P3", Arrival: 4, Burst: 1},
	}
}

func entryIDs(schedule []ScheduleEntry) []string {
	ids := make([]string, len(schedule))
	for i, e := range schedule {
		ids[i] = e.ID
	}
	return ids
}

func TestRunCPUSchedule_GoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	for _, tc := range dataset.CPU {
		t.Run(tc.Name, func(t *testing.T) {
			procs := make([]Process, len(tc.Processes))
			for i, p := range tc.Processes {
				procs[i] = Process{ID: p.ID, Arrival: p.Arrival, Burst: p.Burst}
			}

			result, err := RunCPUSchedule(procs, tc.Policy, tc.Quantum)
			require.NoError(t, err)

			assert.Equal(t, tc.Expected.Order, entryIDs(result.Schedule))
			for i, e := range result.Schedule {
				assert.Equal(t, tc.Expected.Starts[i], e.Start, "entry %d start", i)
				assert.Equal(t, tc.Expected.Finishes[i], e.Finish, "entry %d finish", i)
			}

			summary := AggregateMetrics(result.Schedule)
			testutil.AssertFloat64Equal(t, "avg_waiting", tc.Expected.AvgWaiting, summary.AvgWaiting.Float(), 1e-6)
			testutil.AssertFloat64Equal(t, "avg_turnaround", tc.Expected.AvgTurnaround, summary.AvgTurnaround.Float(), 1e-6)
			testutil.AssertFloat64Equal(t, "cpu_utilization", tc.Expected.CPUUtilization, summary.CPUUtilization.Float(), 1e-6)
			testutil.AssertFloat64Equal(t, "throughput", tc.Expected.Throughput, summary.Throughput.Float(), 1e-6)
		})
	}
}

func TestFCFS_TextbookInput_RunsInArrivalOrder(t *testing.T) {
	// GIVEN the textbook workload
	result, err := RunCPUSchedule(textbookProcesses(), "fcfs", 0)
	require.NoError(t, err)

	// THEN P1:[0,5) P2:[5,8) P3:[8,9)
	want := []ScheduleEntry{
		{ID: "P1", Arrival: 0, Burst: 5, Start: 0, Finish: 5, Slice: 5, Serviced: 5, Waiting: 0, Turnaround: 5, Final: true},
		{ID: "P2", Arrival: 2, Burst: 3, Start: 5, Finish: 8, Slice: 3, Serviced: 3, Waiting: 3, Turnaround: 6, Final: true},
		{ID: "P3", Arrival: 4, Burst: 1, Start: 8, Finish: 9, Slice: 1, Serviced: 1, Waiting: 4, Turnaround: 5, Final: true},
	}
	assert.Equal(t, want, result.Schedule)

	// THEN one decision per process with the earliest-arrival rule
	require.Len(t, result.Decisions, 3)
	for _, d := range result.Decisions {
		assert.Equal(t, trace.RuleEarliestArrival, d.Rationale.Rule)
	}
	// P2 is decided at t=5 when P2 and P3 have both arrived
	assert.Equal(t, []string{"P2", "P3"}, result.Decisions[1].Candidates)
	assert.Empty(t, result.Gaps)
}

func TestFCFS_TieOnArrival_BrokenByID(t *testing.T) {
	// GIVEN two processes arriving together, listed out of id order
	procs := []Process{{ID: "b", Arrival: 0, Burst: 1}, {ID: "a", Arrival: 0, Burst: 4}}

	// WHEN scheduled FCFS
	result, err := RunCPUSchedule(procs, "fcfs", 0)
	require.NoError(t, err)

	// THEN id order decides
	assert.Equal(t, []string{"a", "b"}, entryIDs(result.Schedule))
	assert.Equal(t, []string{"a", "b"}, result.Decisions[0].Candidates)
}

func TestSJF_OnlyArrivedProcessesAreCandidates(t *testing.T) {
	// GIVEN A is the only process at t=0, then B(6) and C(1) arrive while A runs
	procs := []Process{{ID: "A", Arrival: 0, Burst: 2}, {ID: "B", Arrival: 1, Burst: 6}, {ID: "C", Arrival: 2, Burst: 1}}

	// WHEN scheduled SJF
	result, err := RunCPUSchedule(procs, "sjf", 0)
	require.NoError(t, err)

	// THEN A runs first, then C (shortest among arrived), then B
	assert.Equal(t, []string{"A", "C", "B"}, entryIDs(result.Schedule))
	assert.Equal(t, []string{"A"}, result.Decisions[0].Candidates)
	assert.Equal(t, []string{"C", "B"}, result.Decisions[1].Candidates, "candidates listed in rule order")
	assert.Equal(t, trace.RuleShortestBurst, result.Decisions[1].Rationale.Rule)
	assert.Contains(t, result.Decisions[1].Rationale.Detail, "C=1")
}

func TestSJF_EqualBursts_TieBrokenByArrivalThenID(t *testing.T) {
	// GIVEN equal bursts, all arrived by the second decision point
	procs := []Process{
		{ID: "long", Arrival: 0, Burst: 10},
		{ID: "y", Arrival: 3, Burst: 2},
		{ID: "x", Arrival: 3, Burst: 2},
		{ID: "w", Arrival: 5, Burst: 2},
	}

	// WHEN scheduled SJF
	result, err := RunCPUSchedule(procs, "sjf", 0)
	require.NoError(t, err)

	// THEN earlier arrival wins, then id
	assert.Equal(t, []string{"long", "x", "y", "w"}, entryIDs(result.Schedule))
}

func TestSJF_NoArrivals_RecordsIdleGap(t *testing.T) {
	// GIVEN the first process arrives at t=3 and the next after the CPU frees up
	procs := []Process{{ID: "A", Arrival: 3, Burst: 2}, {ID: "B", Arrival: 10, Burst: 1}}

	// WHEN scheduled SJF
	result, err := RunCPUSchedule(procs, "sjf", 0)
	require.NoError(t, err)

	// THEN two idle gaps are recorded and no entry covers them
	assert.Equal(t, []Gap{{From: 0, To: 3}, {From: 5, To: 10}}, result.Gaps)
	require.Len(t, result.Schedule, 2)
	assert.Equal(t, int64(3), result.Schedule[0].Start)
	assert.Equal(t, int64(10), result.Schedule[1].Start)
	assert.Equal(t, int64(0), result.Schedule[1].Waiting)
}

func TestRoundRobin_Quantum2_SlicesSumToBurst(t *testing.T) {
	// GIVEN the textbook workload and quantum 2
	result, err := RunCPUSchedule(textbookProcesses(), "rr", 2)
	require.NoError(t, err)

	// THEN P1 and P2 get multiple slices
	slices := map[string]int{}
	serviced := map[string]int64{}
	finals := map[string]int{}
	for _, e := range result.Schedule {
		slices[e.ID]++
		serviced[e.ID] += e.Slice
		if e.Final {
			finals[e.ID]++
		}
	}
	assert.Greater(t, slices["P1"], 1)
	assert.Greater(t, slices["P2"], 1)

	// THEN each process's slices sum to its burst and it completes exactly once
	for _, p := range textbookProcesses() {
		assert.Equal(t, p.Burst, serviced[p.ID], "slices of %s", p.ID)
		assert.Equal(t, 1, finals[p.ID], "final entries of %s", p.ID)
	}

	// THEN one decision per slice, all from the ready-queue rule
	require.Len(t, result.Decisions, len(result.Schedule))
	for i, d := range result.Decisions {
		assert.Equal(t, result.Schedule[i].ID, d.Chosen)
		assert.Equal(t, result.Schedule[i].Start, d.Time)
		assert.Equal(t, trace.RuleReadyQueueFront, d.Rationale.Rule)
	}
}

func TestRoundRobin_NewArrivalsQueuedBeforePreemptedProcess(t *testing.T) {
	// GIVEN P2 arrives exactly when P1's first quantum ends
	result, err := RunCPUSchedule(textbookProcesses(), "rr", 2)
	require.NoError(t, err)

	// THEN at t=2 the ready queue is [P2 P1]
	assert.Equal(t, []string{"P2", "P1"}, result.Decisions[1].Candidates)
	// THEN at t=4 P3 (arrived at 4) sits ahead of the preempted P2
	assert.Equal(t, []string{"P1", "P3", "P2"}, result.Decisions[2].Candidates)
}

func TestRoundRobin_FinalWaitingIsTurnaroundMinusBurst(t *testing.T) {
	result, err := RunCPUSchedule(textbookProcesses(), "rr", 2)
	require.NoError(t, err)

	want := map[string][2]int64{"P1": {9, 4}, "P2": {6, 3}, "P3": {3, 2}}
	for _, e := range result.Schedule {
		if !e.Final {
			continue
		}
		assert.Equal(t, want[e.ID][0], e.Turnaround, "turnaround of %s", e.ID)
		assert.Equal(t, want[e.ID][1], e.Waiting, "waiting of %s", e.ID)
		assert.Equal(t, e.Turnaround-e.Burst, e.Waiting)
	}
}

func TestRoundRobin_IdleBetweenArrivals_RecordsGap(t *testing.T) {
	procs := []Process{{ID: "A", Arrival: 0, Burst: 1}, {ID: "B", Arrival: 4, Burst: 3}}

	result, err := RunCPUSchedule(procs, "rr", 2)
	require.NoError(t, err)

	assert.Equal(t, []Gap{{From: 1, To: 4}}, result.Gaps)
	assert.Equal(t, []string{"A", "B", "B"}, entryIDs(result.Schedule))
}

func TestRoundRobin_LargeQuantum_EquivalentToFCFS(t *testing.T) {
	rr, err := RunCPUSchedule(textbookProcesses(), "rr", 100)
	require.NoError(t, err)
	fcfs, err := RunCPUSchedule(textbookProcesses(), "fcfs", 0)
	require.NoError(t, err)

	assert.Equal(t, fcfs.Schedule, rr.Schedule)
}

// randomWorkload builds a reproducible workload for property checks.
func randomWorkload(rng *rand.Rand, n int) []Process {
	procs := make([]Process, n)
	for i := range procs {
		procs[i] = Process{
			ID:      fmt.Sprintf("p%02d", i),
			Arrival: rng.Int63n(20),
			Burst:   1 + rng.Int63n(9),
		}
	}
	return procs
}

func TestScheduleEntry_Invariants_AllPolicies(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	policies := []struct {
		name    string
		quantum int64
	}{{"fcfs", 0}, {"sjf", 0}, {"rr", 1}, {"rr", 3}}

	for trial := 0; trial < 25; trial++ {
		procs := randomWorkload(rng, 1+rng.Intn(8))
		for _, pol := range policies {
			t.Run(fmt.Sprintf("%s-q%d-trial%d", pol.name, pol.quantum, trial), func(t *testing.T) {
				result, err := RunCPUSchedule(procs, pol.name, pol.quantum)
				require.NoError(t, err)

				serviced := map[string]int64{}
				prevFinish := int64(-1)
				for _, e := range result.Schedule {
					// GIVEN any entry, THEN the trace invariants hold
					assert.Equal(t, e.Waiting+e.Serviced, e.Turnaround)
					assert.Equal(t, e.Start+e.Slice, e.Finish)
					assert.Equal(t, e.Finish-e.Arrival, e.Turnaround)
					assert.GreaterOrEqual(t, e.Waiting, int64(0))
					assert.GreaterOrEqual(t, e.Start, e.Arrival)
					assert.GreaterOrEqual(t, e.Start, prevFinish, "single CPU: entries never overlap")
					prevFinish = e.Finish
					serviced[e.ID] += e.Slice
					if e.Final {
						assert.Equal(t, e.Waiting+e.Burst, e.Turnaround)
					}
				}
				for _, p := range procs {
					assert.Equal(t, p.Burst, serviced[p.ID], "service of %s", p.ID)
				}
			})
		}
	}
}

func TestRunCPUSchedule_Deterministic_ByteIdentical(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	procs := randomWorkload(rng, 10)
	for _, policy := range []string{"fcfs", "sjf", "rr"} {
		t.Run(policy, func(t *testing.T) {
			a, err := RunCPUSchedule(procs, policy, 2)
			require.NoError(t, err)
			b, err := RunCPUSchedule(procs, policy, 2)
			require.NoError(t, err)

			ja, err := json.Marshal(a)
			require.NoError(t, err)
			jb, err := json.Marshal(b)
			require.NoError(t, err)
			if !bytes.Equal(ja, jb) {
				t.Errorf("two runs of %s produced different traces", policy)
			}
		})
	}
}

func TestRunCPUSchedule_DoesNotMutateInput(t *testing.T) {
	procs := []Process{{ID: "z", Arrival: 5, Burst: 1}, {ID: "a", Arrival: 0, Burst: 3}}
	orig := append([]Process(nil), procs...)

	for _, policy := range []string{"fcfs", "sjf", "rr"} {
		_, err := RunCPUSchedule(procs, policy, 1)
		require.NoError(t, err)
	}
	assert.Equal(t, orig, procs)
}

func TestRunCPUSchedule_Errors(t *testing.T) {
	tests := []struct {
		name    string
		procs   []Process
		policy  string
		quantum int64
		want    error
	}{
		{"unknown policy", textbookProcesses(), "lottery", 0, ErrInvalidPolicy},
		{"empty policy", textbookProcesses(), "", 0, ErrInvalidPolicy},
		{"rr zero quantum", textbookProcesses(), "rr", 0, ErrInvalidQuantum},
		{"rr negative quantum", textbookProcesses(), "rr", -2, ErrInvalidQuantum},
		{"zero burst", []Process{{ID: "a", Burst: 0}}, "fcfs", 0, ErrMalformedInput},
		{"negative arrival", []Process{{ID: "a", Arrival: -1, Burst: 1}}, "sjf", 0, ErrMalformedInput},
		{"duplicate id", []Process{{ID: "a", Burst: 1}, {ID: "a", Burst: 2}}, "fcfs", 0, ErrMalformedInput},
		{"empty id", []Process{{Burst: 1}}, "fcfs", 0, ErrMalformedInput},
		{"arrival plus burst overflows", []Process{{ID: "a", Arrival: math.MaxInt64 - 2, Burst: 5}}, "fcfs", 0, ErrMalformedInput},
		{"total burst overflows", []Process{{ID: "a", Burst: math.MaxInt64}, {ID: "b", Burst: 1}}, "sjf", 0, ErrMalformedInput},
		{"late arrival overflows under rr", []Process{{ID: "a", Burst: 3}, {ID: "b", Arrival: math.MaxInt64 - 1, Burst: 3}}, "rr", 2, ErrMalformedInput},
		{"rr slice limit", []Process{{ID: "a", Burst: 1_000_000_000_000_000}}, "rr", 1, ErrMalformedInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RunCPUSchedule(tt.procs, tt.policy, tt.quantum)
			require.Error(t, err)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRunCPUSchedule_ClockEndingAtMaxInt64IsAccepted(t *testing.T) {
	// GIVEN a process whose finish lands exactly on the largest clock value
	procs := []Process{{ID: "a", Arrival: math.MaxInt64 - 5, Burst: 5}}

	// WHEN scheduled
	result, err := RunCPUSchedule(procs, "fcfs", 0)

	// THEN the entry keeps finish >= start and turnaround == finish - arrival
	require.NoError(t, err)
	e := result.Schedule[0]
	assert.Equal(t, int64(math.MaxInt64), e.Finish)
	assert.GreaterOrEqual(t, e.Finish, e.Start)
	assert.Equal(t, e.Finish-e.Arrival, e.Turnaround)
}

func TestRunCPUSchedule_RoundRobinSliceLimit(t *testing.T) {
	// GIVEN a lowered slice limit
	old := MaxRoundRobinSlices
	MaxRoundRobinSlices = 5
	defer func() { MaxRoundRobinSlices = old }()

	// WHEN the textbook set runs at q=2 (3 + 2 + 1 = 6 slices) and at q=3 (2 + 1 + 1 = 4)
	_, errOver := RunCPUSchedule(textbookProcesses(), "rr", 2)
	result, errUnder := RunCPUSchedule(textbookProcesses(), "rr", 3)

	// THEN only the run above the limit is rejected
	assert.True(t, errors.Is(errOver, ErrMalformedInput), "got %v", errOver)
	require.NoError(t, errUnder)
	assert.Len(t, result.Schedule, 4)

	// AND FCFS is unaffected
	_, err := RunCPUSchedule(textbookProcesses(), "fcfs", 0)
	assert.NoError(t, err)
}

func TestNewCPUScheduler_CaseInsensitive(t *testing.T) {
	s, err := NewCPUScheduler(" RR ", 4)
	require.NoError(t, err)
	rr, ok := s.(*RoundRobinScheduler)
	require.True(t, ok)
	assert.Equal(t, int64(4), rr.Quantum)
}

func TestNewCPUScheduler_QuantumIgnoredOutsideRoundRobin(t *testing.T) {
	_, err := NewCPUScheduler("fcfs", 0)
	assert.NoError(t, err)
	_, err = NewCPUScheduler("sjf", -5)
	assert.NoError(t, err)
}

func TestIsValidCPUPolicy(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"fcfs", true},
		{"sjf", true},
		{"rr", true},
		{"FCFS", true},
		{"", false},
		{"mlfq", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidCPUPolicy(tt.name); got != tt.valid {
				t.Errorf("IsValidCPUPolicy(%q) = %v, want %v", tt.name, got, tt.valid)
			}
		})
	}
}

func TestRunCPUSchedule_EmptyWorkload_EmptyTrace(t *testing.T) {
	for _, policy := range []string{"fcfs", "sjf", "rr"} {
		result, err := RunCPUSchedule(nil, policy, 1)
		require.NoError(t, err)
		assert.Empty(t, result.Schedule)
		assert.Empty(t, result.Decisions)
	}
}

func TestCPUResult_Label(t *testing.T) {
	assert.Equal(t, "FCFS", (&CPUResult{Policy: PolicyFCFS}).Label())
	assert.Equal(t, "SJF", (&CPUResult{Policy: PolicySJF}).Label())
	assert.Equal(t, "Round Robin (q=2)", (&CPUResult{Policy: PolicyRoundRobin, Quantum: 2}).Label())
}
