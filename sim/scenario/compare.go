package scenario

import (
	"context"
	"sync"

	"github.com/xaios/ossim/sim"
	"github.com/xaios/ossim/sim/trace"
)

// CPURun is one CPU policy's result with its derived metrics.
type CPURun struct {
	Label   string              `json:"label" yaml:"label"`
	Result  *sim.CPUResult      `json:"result" yaml:"result"`
	Summary sim.Summary         `json:"summary" yaml:"summary"`
	Trace   *trace.TraceSummary `json:"trace" yaml:"trace"`
}

// NewCPURun runs one policy and derives its metrics and decision summary.
func NewCPURun(processes []sim.Process, policy string, quantum int64) (CPURun, error) {
	result, err := sim.RunCPUSchedule(processes, policy, quantum)
	if err != nil {
		return CPURun{}, err
	}
	return CPURun{
		Label:   result.Label(),
		Result:  result,
		Summary: sim.AggregateMetrics(result.Schedule),
		Trace:   trace.Summarize(&trace.DecisionLog{Policy: string(result.Policy), Decisions: result.Decisions}),
	}, nil
}

// CompareCPU runs every policy over the same processes, one goroutine per
// policy. Runs share no mutable state. Results keep the order of policies; the
// first error (in policy order) is returned.
func CompareCPU(ctx context.Context, processes []sim.Process, policies []string, quantum int64) ([]CPURun, error) {
	if err := sim.ValidateProcesses(processes); err != nil {
		return nil, err
	}
	runs := make([]CPURun, len(policies))
	errs := make([]error, len(policies))

	var wg sync.WaitGroup
	for i, policy := range policies {
		wg.Add(1)
		go func(i int, policy string) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			runs[i], errs[i] = NewCPURun(processes, policy, quantum)
		}(i, policy)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return runs, nil
}
