package workload

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/sirupsen/logrus"

	"github.com/xaios/ossim/sim"
)

// Live workload bounds: arrival in [0, 10], burst in [1, 5].
const (
	HostMaxArrival = 10
	HostMinBurst   = 1
	HostMaxBurst   = 5
)

// HostProcess is a running process observed on the host.
type HostProcess struct {
	PID  int32
	Name string
}

// ProcessLister enumerates running host processes.
type ProcessLister interface {
	List(ctx context.Context) ([]HostProcess, error)
}

// GopsutilLister lists host processes through gopsutil. Processes that exit
// or deny access while being inspected are skipped.
type GopsutilLister struct{}

func (GopsutilLister) List(ctx context.Context) ([]HostProcess, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing host processes: %w", err)
	}
	out := make([]HostProcess, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			logrus.Warnf("host process %d vanished or is inaccessible: %v", p.Pid, err)
			continue
		}
		out = append(out, HostProcess{PID: p.Pid, Name: name})
	}
	return out, nil
}

// HostSampler turns a snapshot of host processes into a synthetic CPU workload.
// Arrival and burst are drawn from Rand; the host only supplies identities.
type HostSampler struct {
	Lister ProcessLister
	Rand   *rand.Rand
	Limit  int
}

// NewHostSampler returns a sampler over the real host, seeded through the
// host subsystem of a PartitionedRNG.
func NewHostSampler(seed int64, limit int) *HostSampler {
	return &HostSampler{
		Lister: GopsutilLister{},
		Rand:   sim.NewPartitionedRNG(sim.NewSimulationKey(seed)).ForSubsystem(sim.SubsystemHost),
		Limit:  limit,
	}
}

// Sample returns up to Limit processes with ids "<pid>-<name>".
func (h *HostSampler) Sample(ctx context.Context) ([]sim.Process, error) {
	if h.Limit < 1 {
		return nil, fmt.Errorf("%w: live limit must be >= 1, got %d", sim.ErrInvalidCapacity, h.Limit)
	}
	hosts, err := h.Lister.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(hosts) > h.Limit {
		hosts = hosts[:h.Limit]
	}
	processes := make([]sim.Process, len(hosts))
	for i, hp := range hosts {
		processes[i] = sim.Process{
			ID:      fmt.Sprintf("%d-%s", hp.PID, hp.Name),
			Arrival: h.Rand.Int63n(HostMaxArrival + 1),
			Burst:   HostMinBurst + h.Rand.Int63n(HostMaxBurst-HostMinBurst+1),
		}
	}
	return processes, nil
}
