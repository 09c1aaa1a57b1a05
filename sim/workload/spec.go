package workload

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/xaios/ossim/sim"
)

// WorkloadSpec describes a CPU workload: either an inline process list or a
// seeded generator. Loaded from YAML via LoadWorkloadSpec(path).
type WorkloadSpec struct {
	Seed      int64          `yaml:"seed"`
	Processes []sim.Process  `yaml:"processes,omitempty"`
	Generator *GeneratorSpec `yaml:"generator,omitempty"`
}

// GeneratorSpec configures synthetic process generation.
type GeneratorSpec struct {
	Count    int         `yaml:"count"`
	IDPrefix string      `yaml:"id_prefix,omitempty"` // default "P"
	Arrival  ArrivalSpec `yaml:"arrival"`
	Burst    DistSpec    `yaml:"burst"`
}

// ArrivalSpec configures the inter-arrival gap process.
type ArrivalSpec struct {
	Process string             `yaml:"process"`
	Params  map[string]float64 `yaml:"params,omitempty"`
}

// DistSpec parameterizes a burst length distribution.
type DistSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// Valid value registries.
var (
	validArrivalProcesses = map[string]bool{
		"constant": true, "uniform": true, "poisson": true,
	}
	validDistTypes = map[string]bool{
		"constant": true, "uniform": true, "gaussian": true, "exponential": true,
	}
)

// LoadWorkloadSpec reads and parses a YAML workload specification file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadWorkloadSpec(path string) (*WorkloadSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload spec: %w", err)
	}
	return ParseWorkloadSpec(data)
}

// ParseWorkloadSpec decodes a YAML workload specification.
func ParseWorkloadSpec(data []byte) (*WorkloadSpec, error) {
	var spec WorkloadSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("%w: parsing workload spec: %v", sim.ErrMalformedInput, err)
	}
	return &spec, nil
}

// Validate checks that exactly one source is set and that all fields are valid.
func (s *WorkloadSpec) Validate() error {
	switch {
	case len(s.Processes) > 0 && s.Generator != nil:
		return fmt.Errorf("%w: processes and generator are mutually exclusive", sim.ErrMalformedInput)
	case len(s.Processes) == 0 && s.Generator == nil:
		return fmt.Errorf("%w: workload needs processes or a generator", sim.ErrMalformedInput)
	case s.Generator != nil:
		return s.Generator.validate()
	default:
		return sim.ValidateProcesses(s.Processes)
	}
}

func (g *GeneratorSpec) validate() error {
	if g.Count < 1 {
		return fmt.Errorf("%w: generator.count must be >= 1, got %d", sim.ErrMalformedInput, g.Count)
	}
	if !validArrivalProcesses[g.Arrival.Process] {
		return fmt.Errorf("%w: unknown arrival process %q; valid: constant, uniform, poisson", sim.ErrMalformedInput, g.Arrival.Process)
	}
	if err := validateParams("generator.arrival", g.Arrival.Params); err != nil {
		return err
	}
	if !validDistTypes[g.Burst.Type] {
		return fmt.Errorf("%w: unknown burst distribution %q; valid: constant, uniform, gaussian, exponential", sim.ErrMalformedInput, g.Burst.Type)
	}
	if err := validateParams("generator.burst", g.Burst.Params); err != nil {
		return err
	}
	if _, err := NewArrivalSampler(g.Arrival); err != nil {
		return err
	}
	if _, err := NewBurstSampler(g.Burst); err != nil {
		return err
	}
	return nil
}

func validateParams(prefix string, params map[string]float64) error {
	for name, val := range params {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Errorf("%w: %s.params.%s must be a finite number, got %f", sim.ErrMalformedInput, prefix, name, val)
		}
		if val < 0 {
			return fmt.Errorf("%w: %s.params.%s must be non-negative, got %f", sim.ErrMalformedInput, prefix, name, val)
		}
	}
	return nil
}

// Resolve returns the workload's processes: a copy of the inline list, or a
// freshly generated set.
func (s *WorkloadSpec) Resolve() ([]sim.Process, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.Generator != nil {
		return GenerateProcesses(s)
	}
	return append([]sim.Process(nil), s.Processes...), nil
}
