// Derives performance metrics from a CPU schedule trace.

package sim

import (
	"math"
	"strconv"
)

// Metric is a derived value that may be undefined (NaN), e.g. a mean over an
// empty trace. Undefined metrics render as null in JSON and "undefined" in text.
type Metric float64

// Undefined is the explicit marker for a metric that cannot be computed.
var Undefined = Metric(math.NaN())

// Defined reports whether m carries a value.
func (m Metric) Defined() bool {
	return !math.IsNaN(float64(m))
}

// Float returns the raw value (NaN when undefined).
func (m Metric) Float() float64 {
	return float64(m)
}

func (m Metric) String() string {
	if !m.Defined() {
		return "undefined"
	}
	return strconv.FormatFloat(float64(m), 'f', 2, 64)
}

// MarshalJSON renders undefined metrics as null; encoding/json rejects NaN.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Defined() {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(m), 'f', -1, 64), nil
}

// Summary aggregates a schedule trace. It is recomputed per run and never shared.
type Summary struct {
	Processes      int    `json:"processes"` // completed processes (Final entries)
	Makespan       int64  `json:"makespan"`
	BusyTime       int64  `json:"busy_time"`
	AvgWaiting     Metric `json:"avg_waiting"`
	AvgTurnaround  Metric `json:"avg_turnaround"`
	CPUUtilization Metric `json:"cpu_utilization"` // percent of makespan the CPU was busy
	Throughput     Metric `json:"throughput"`      // completed processes per time unit
}

// Defined reports whether the summary was computed over a non-empty trace.
func (s Summary) Defined() bool {
	return s.AvgWaiting.Defined()
}

// AggregateMetrics computes averages, utilization and throughput from a schedule.
//
// Waiting and turnaround are averaged over Final entries so that a Round-Robin
// process contributes once. makespan = max(Finish) - min(Start). An empty schedule,
// or one with zero makespan, yields Undefined values rather than a division fault.
func AggregateMetrics(schedule []ScheduleEntry) Summary {
	summary := Summary{
		AvgWaiting:     Undefined,
		AvgTurnaround:  Undefined,
		CPUUtilization: Undefined,
		Throughput:     Undefined,
	}
	if len(schedule) == 0 {
		return summary
	}

	minStart, maxFinish := schedule[0].Start, schedule[0].Finish
	var waitingSum, turnaroundSum int64
	for _, e := range schedule {
		minStart = min(minStart, e.Start)
		maxFinish = max(maxFinish, e.Finish)
		summary.BusyTime += e.Slice
		if e.Final {
			summary.Processes++
			waitingSum += e.Waiting
			turnaroundSum += e.Turnaround
		}
	}
	summary.Makespan = maxFinish - minStart

	if summary.Processes > 0 {
		summary.AvgWaiting = Metric(float64(waitingSum) / float64(summary.Processes))
		summary.AvgTurnaround = Metric(float64(turnaroundSum) / float64(summary.Processes))
	}
	if summary.Makespan > 0 {
		summary.CPUUtilization = Metric(float64(summary.BusyTime) / float64(summary.Makespan) * 100)
		summary.Throughput = Metric(float64(summary.Processes) / float64(summary.Makespan))
	}
	return summary
}
