package workload

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/xaios/ossim/sim"
)

// ArrivalSampler generates gaps between consecutive process arrivals.
type ArrivalSampler interface {
	// SampleGap returns the next inter-arrival gap. Always >= 0.
	SampleGap(rng *rand.Rand) int64
}

// ConstantArrival spaces arrivals a fixed interval apart.
type ConstantArrival struct {
	interval int64
}

func (s *ConstantArrival) SampleGap(_ *rand.Rand) int64 { return s.interval }

// UniformArrival draws gaps uniformly from [min, max].
type UniformArrival struct {
	min, max int64
}

func (s *UniformArrival) SampleGap(rng *rand.Rand) int64 {
	return s.min + rng.Int63n(s.max-s.min+1)
}

// PoissonArrival draws exponentially-distributed gaps, rounded to whole time
// units, for a Poisson arrival process of the given rate.
type PoissonArrival struct {
	rate float64 // arrivals per time unit
}

func (s *PoissonArrival) SampleGap(rng *rand.Rand) int64 {
	return int64(math.Round(rng.ExpFloat64() / s.rate))
}

// NewArrivalSampler creates an ArrivalSampler from a spec.
//
//	constant: interval
//	uniform:  min, max
//	poisson:  rate (> 0)
func NewArrivalSampler(spec ArrivalSpec) (ArrivalSampler, error) {
	switch spec.Process {
	case "constant":
		if err := requireParam(spec.Params, "interval"); err != nil {
			return nil, err
		}
		return &ConstantArrival{interval: int64(spec.Params["interval"])}, nil

	case "uniform":
		if err := requireParam(spec.Params, "min", "max"); err != nil {
			return nil, err
		}
		lo, hi := int64(spec.Params["min"]), int64(spec.Params["max"])
		if hi < lo {
			return nil, fmt.Errorf("%w: uniform arrival max %d < min %d", sim.ErrMalformedInput, hi, lo)
		}
		return &UniformArrival{min: lo, max: hi}, nil

	case "poisson":
		if err := requireParam(spec.Params, "rate"); err != nil {
			return nil, err
		}
		rate := spec.Params["rate"]
		if rate <= 0 {
			return nil, fmt.Errorf("%w: poisson rate must be positive, got %f", sim.ErrMalformedInput, rate)
		}
		return &PoissonArrival{rate: rate}, nil

	default:
		return nil, fmt.Errorf("%w: unknown arrival process %q", sim.ErrMalformedInput, spec.Process)
	}
}
