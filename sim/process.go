// Defines the Process descriptor consumed by the CPU scheduler and the trace
// types it produces.

package sim

import (
	"fmt"
	"math"
	"sort"
)

// Process is a workload descriptor. Arrival and Burst are in abstract time units.
type Process struct {
	ID      string `json:"id" yaml:"id"`
	Arrival int64  `json:"arrival" yaml:"arrival"`
	Burst   int64  `json:"burst" yaml:"burst"`
}

// ScheduleEntry is one contiguous run of a process on the CPU.
//
// FCFS and SJF emit exactly one entry per process. Round-Robin emits one entry per
// quantum slice; only the last slice of a process has Final set.
//
// For every entry: Slice = Finish - Start, Turnaround = Finish - Arrival and
// Waiting = Turnaround - Serviced, where Serviced is the CPU time the process has
// received up to and including this slice. On a Final entry Serviced == Burst.
type ScheduleEntry struct {
	ID         string `json:"id"`
	Arrival    int64  `json:"arrival"`
	Burst      int64  `json:"burst"`
	Start      int64  `json:"start"`
	Finish     int64  `json:"finish"`
	Slice      int64  `json:"slice"`
	Serviced   int64  `json:"serviced"`
	Waiting    int64  `json:"waiting"`
	Turnaround int64  `json:"turnaround"`
	Final      bool   `json:"final"`
}

// Gap is an interval during which no process was ready and the CPU sat idle.
type Gap struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

func newEntry(p Process, start, finish, serviced int64) ScheduleEntry {
	turnaround := finish - p.Arrival
	return ScheduleEntry{
		ID:         p.ID,
		Arrival:    p.Arrival,
		Burst:      p.Burst,
		Start:      start,
		Finish:     finish,
		Slice:      finish - start,
		Serviced:   serviced,
		Waiting:    turnaround - serviced,
		Turnaround: turnaround,
		Final:      serviced == p.Burst,
	}
}

// ValidateProcesses checks the descriptor constraints shared by every CPU policy:
// non-empty unique ids, arrival >= 0 and burst > 0. The clock never passes
// max(arrival) + sum(burst), so that bound must fit in an int64.
func ValidateProcesses(processes []Process) error {
	seen := make(map[string]bool, len(processes))
	var maxArrival, totalBurst int64
	for i, p := range processes {
		if p.ID == "" {
			return fmt.Errorf("%w: process[%d] has empty id", ErrMalformedInput, i)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate process id %q", ErrMalformedInput, p.ID)
		}
		seen[p.ID] = true
		if p.Arrival < 0 {
			return fmt.Errorf("%w: process %q arrival must be non-negative, got %d", ErrMalformedInput, p.ID, p.Arrival)
		}
		if p.Burst <= 0 {
			return fmt.Errorf("%w: process %q burst must be positive, got %d", ErrMalformedInput, p.ID, p.Burst)
		}
		maxArrival = max(maxArrival, p.Arrival)
		if totalBurst > math.MaxInt64-p.Burst {
			return fmt.Errorf("%w: total burst overflows the clock at process %q", ErrMalformedInput, p.ID)
		}
		totalBurst += p.Burst
	}
	if maxArrival > math.MaxInt64-totalBurst {
		return fmt.Errorf("%w: latest arrival %d plus total burst %d overflows the clock", ErrMalformedInput, maxArrival, totalBurst)
	}
	return nil
}

// sortByArrival returns a copy of processes ordered by (arrival, id).
// The caller's slice is never reordered.
func sortByArrival(processes []Process) []Process {
	sorted := make([]Process, len(processes))
	copy(sorted, processes)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Arrival != sorted[j].Arrival {
			return sorted[i].Arrival < sorted[j].Arrival
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// ProcessIDs returns the ids of processes in slice order.
func ProcessIDs(processes []Process) []string {
	ids := make([]string, len(processes))
	for i, p := range processes {
		ids[i] = p.ID
	}
	return ids
}
