// Package scenario bundles CPU, paging and disk runs into one YAML-described
// experiment and executes them.
package scenario

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/xaios/ossim/sim"
	"github.com/xaios/ossim/sim/disk"
	"github.com/xaios/ossim/sim/paging"
	"github.com/xaios/ossim/sim/workload"
)

// Scenario holds one experiment, loadable from a YAML file.
// Nil sections are skipped. Empty policy lists mean "every policy".
type Scenario struct {
	Name   string         `yaml:"name"`
	CPU    *CPUSection    `yaml:"cpu,omitempty"`
	Paging *PagingSection `yaml:"paging,omitempty"`
	Disk   *DiskSection   `yaml:"disk,omitempty"`
}

// CPUSection configures CPU scheduling runs over one workload.
type CPUSection struct {
	Policies []string              `yaml:"policies,omitempty"`
	Quantum  int64                 `yaml:"quantum"`
	Workload workload.WorkloadSpec `yaml:"workload"`
}

// PagingSection configures page replacement runs over one reference string.
type PagingSection struct {
	Policies   []string `yaml:"policies,omitempty"`
	Frames     int      `yaml:"frames"`
	References []int    `yaml:"references"`
}

// DiskSection configures disk scheduling runs over one request queue.
// MaxCylinder defaults to disk.DefaultMaxCylinder when unset.
type DiskSection struct {
	Policies    []string `yaml:"policies,omitempty"`
	Direction   string   `yaml:"direction,omitempty"`
	StartHead   int      `yaml:"start_head"`
	MaxCylinder *int     `yaml:"max_cylinder,omitempty"`
	Requests    []int    `yaml:"requests"`
}

// LoadScenario reads and parses a YAML scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes YAML strictly: unrecognized keys are rejected.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: parsing scenario: %v", sim.ErrMalformedInput, err)
	}
	return &s, nil
}

// Validate checks policy names and parameter ranges in every present section.
func (s *Scenario) Validate() error {
	if s.CPU == nil && s.Paging == nil && s.Disk == nil {
		return fmt.Errorf("%w: scenario %q has no cpu, paging or disk section", sim.ErrMalformedInput, s.Name)
	}
	if c := s.CPU; c != nil {
		for _, p := range c.Policies {
			if !sim.IsValidCPUPolicy(p) {
				return fmt.Errorf("%w: unknown cpu policy %q", sim.ErrInvalidPolicy, p)
			}
		}
		if c.Quantum <= 0 && wantsPolicy(c.Policies, string(sim.PolicyRoundRobin)) {
			return fmt.Errorf("%w: cpu.quantum must be >= 1 for rr, got %d", sim.ErrInvalidQuantum, c.Quantum)
		}
		if err := c.Workload.Validate(); err != nil {
			return fmt.Errorf("cpu.workload: %w", err)
		}
	}
	if p := s.Paging; p != nil {
		for _, name := range p.Policies {
			if !paging.IsValidPolicy(name) {
				return fmt.Errorf("%w: unknown paging policy %q", sim.ErrInvalidPolicy, name)
			}
		}
		if p.Frames < 1 {
			return fmt.Errorf("%w: paging.frames must be >= 1, got %d", sim.ErrInvalidCapacity, p.Frames)
		}
	}
	if d := s.Disk; d != nil {
		for _, name := range d.Policies {
			if !disk.IsValidPolicy(name) {
				return fmt.Errorf("%w: unknown disk policy %q", sim.ErrInvalidPolicy, name)
			}
		}
		if !disk.IsValidDirection(d.Direction) {
			return fmt.Errorf("%w: unknown disk direction %q", sim.ErrMalformedInput, d.Direction)
		}
	}
	return nil
}

// wantsPolicy reports whether name is selected by policies (empty selects all).
func wantsPolicy(policies []string, name string) bool {
	if len(policies) == 0 {
		return true
	}
	for _, p := range policies {
		if strings.EqualFold(strings.TrimSpace(p), name) {
			return true
		}
	}
	return false
}

func orAll[T ~string](policies []string, all []T) []string {
	if len(policies) > 0 {
		return policies
	}
	out := make([]string, len(all))
	for i, p := range all {
		out[i] = string(p)
	}
	return out
}

// Report holds every run a scenario produced, in section then policy order.
type Report struct {
	Name   string           `json:"name" yaml:"name"`
	CPU    []CPURun         `json:"cpu,omitempty" yaml:"cpu,omitempty"`
	Paging []*paging.Result `json:"paging,omitempty" yaml:"paging,omitempty"`
	Disk   []*disk.Result   `json:"disk,omitempty" yaml:"disk,omitempty"`
}

// Run validates and executes the scenario. CPU policies run concurrently.
func (s *Scenario) Run(ctx context.Context) (*Report, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	report := &Report{Name: s.Name}

	if c := s.CPU; c != nil {
		processes, err := c.Workload.Resolve()
		if err != nil {
			return nil, fmt.Errorf("cpu.workload: %w", err)
		}
		runs, err := CompareCPU(ctx, processes, orAll(c.Policies, sim.CPUPolicyNames), c.Quantum)
		if err != nil {
			return nil, err
		}
		report.CPU = runs
	}

	if p := s.Paging; p != nil {
		for _, policy := range orAll(p.Policies, paging.PolicyNames) {
			result, err := paging.RunPaging(p.References, p.Frames, policy)
			if err != nil {
				return nil, err
			}
			report.Paging = append(report.Paging, result)
		}
	}

	if d := s.Disk; d != nil {
		maxCylinder := disk.DefaultMaxCylinder
		if d.MaxCylinder != nil {
			maxCylinder = *d.MaxCylinder
		}
		for _, policy := range orAll(d.Policies, disk.PolicyNames) {
			result, err := disk.RunDiskSchedule(disk.Params{
				Requests:    d.Requests,
				StartHead:   d.StartHead,
				Policy:      policy,
				Direction:   d.Direction,
				MaxCylinder: maxCylinder,
			})
			if err != nil {
				return nil, err
			}
			report.Disk = append(report.Disk, result)
		}
	}

	logrus.Infof("scenario %q: %d cpu, %d paging, %d disk runs", s.Name, len(report.CPU), len(report.Paging), len(report.Disk))
	return report, nil
}
