package workload

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/xaios/ossim/sim"
)

// GenerateProcesses creates a process set from a WorkloadSpec's generator.
// Deterministic given the same spec and seed.
//
// The first process arrives at t=0; each later arrival adds one sampled gap.
// IDs are sequential: P1, P2, ... (or the configured prefix).
func GenerateProcesses(spec *WorkloadSpec) ([]sim.Process, error) {
	if spec.Generator == nil {
		return nil, fmt.Errorf("%w: workload has no generator", sim.ErrMalformedInput)
	}
	if err := spec.Generator.validate(); err != nil {
		return nil, fmt.Errorf("invalid workload spec: %w", err)
	}
	gen := spec.Generator

	arrivals, err := NewArrivalSampler(gen.Arrival)
	if err != nil {
		return nil, err
	}
	bursts, err := NewBurstSampler(gen.Burst)
	if err != nil {
		return nil, err
	}

	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(spec.Seed)).ForSubsystem(sim.SubsystemWorkload)
	prefix := gen.IDPrefix
	if prefix == "" {
		prefix = "P"
	}

	processes := make([]sim.Process, gen.Count)
	clock := int64(0)
	for i := range processes {
		if i > 0 {
			clock += arrivals.SampleGap(rng)
		}
		processes[i] = sim.Process{
			ID:      fmt.Sprintf("%s%d", prefix, i+1),
			Arrival: clock,
			Burst:   bursts.Sample(rng),
		}
	}
	logrus.Debugf("generated %d processes (seed=%d, arrival=%s, burst=%s)", gen.Count, spec.Seed, gen.Arrival.Process, gen.Burst.Type)
	return processes, nil
}
