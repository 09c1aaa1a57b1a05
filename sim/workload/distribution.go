package workload

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/xaios/ossim/sim"
)

// BurstSampler generates CPU burst lengths.
type BurstSampler interface {
	// Sample returns a positive burst (>= 1).
	Sample(rng *rand.Rand) int64
}

// ConstantSampler always returns the same fixed value.
type ConstantSampler struct {
	value int64
}

func (s *ConstantSampler) Sample(_ *rand.Rand) int64 {
	return max(s.value, 1)
}

// UniformSampler draws bursts uniformly from [min, max].
type UniformSampler struct {
	min, max int64
}

func (s *UniformSampler) Sample(rng *rand.Rand) int64 {
	return max(s.min+rng.Int63n(s.max-s.min+1), 1)
}

// GaussianSampler produces clamped Gaussian bursts.
type GaussianSampler struct {
	mean, stdDev float64
	min, max     int64
}

func (s *GaussianSampler) Sample(rng *rand.Rand) int64 {
	if s.min == s.max {
		return max(s.min, 1)
	}
	val := rng.NormFloat64()*s.stdDev + s.mean
	clamped := math.Min(float64(s.max), math.Max(float64(s.min), val))
	return max(int64(math.Round(clamped)), 1)
}

// ExponentialSampler produces exponentially-distributed bursts.
type ExponentialSampler struct {
	mean float64
}

func (s *ExponentialSampler) Sample(rng *rand.Rand) int64 {
	return max(int64(math.Round(rng.ExpFloat64()*s.mean)), 1)
}

// requireParam checks that all required keys exist in a params map.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("%w: distribution requires parameter %q", sim.ErrMalformedInput, k)
		}
	}
	return nil
}

// NewBurstSampler creates a BurstSampler from a DistSpec.
func NewBurstSampler(spec DistSpec) (BurstSampler, error) {
	switch spec.Type {
	case "constant":
		if err := requireParam(spec.Params, "value"); err != nil {
			return nil, err
		}
		return &ConstantSampler{value: int64(spec.Params["value"])}, nil

	case "uniform":
		if err := requireParam(spec.Params, "min", "max"); err != nil {
			return nil, err
		}
		lo, hi := int64(spec.Params["min"]), int64(spec.Params["max"])
		if hi < lo {
			return nil, fmt.Errorf("%w: uniform burst max %d < min %d", sim.ErrMalformedInput, hi, lo)
		}
		return &UniformSampler{min: lo, max: hi}, nil

	case "gaussian":
		if err := requireParam(spec.Params, "mean", "std_dev", "min", "max"); err != nil {
			return nil, err
		}
		s := &GaussianSampler{
			mean:   spec.Params["mean"],
			stdDev: spec.Params["std_dev"],
			min:    int64(spec.Params["min"]),
			max:    int64(spec.Params["max"]),
		}
		if s.max < s.min {
			return nil, fmt.Errorf("%w: gaussian burst max %d < min %d", sim.ErrMalformedInput, s.max, s.min)
		}
		return s, nil

	case "exponential":
		if err := requireParam(spec.Params, "mean"); err != nil {
			return nil, err
		}
		return &ExponentialSampler{mean: spec.Params["mean"]}, nil

	default:
		return nil, fmt.Errorf("%w: unknown distribution type %q", sim.ErrMalformedInput, spec.Type)
	}
}
