package distribution

import (
	"fmt"
	"math"

	"github.com/vk/simgraph/internal/validation"
)

// minUniform keeps logarithms finite when a source returns exactly 0.
const minUniform = 1e-12

// Sample draws one value from d using src for uniform draws. A nil or empty
// descriptor yields 0. Sample performs no parameter checks.
func Sample(d Distribution, src Source) float64 {
	switch v := unwrap(d).(type) {
	case nil:
		return 0
	case Fixed:
		return v.Value
	case Uniform:
		u := src.Float64()
		return v.Min + (v.Max-v.Min)*u
	case Exponential:
		u := math.Max(minUniform, src.Float64())
		return -math.Log(u) / v.Lambda
	case Normal:
		u1 := math.Max(minUniform, src.Float64())
		u2 := math.Max(minUniform, src.Float64())
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
		return v.Mu + v.Sigma*z
	default:
		panic(fmt.Sprintf("distribution: unhandled type %T", v))
	}
}

// SampleN draws n values from d.
func SampleN(d Distribution, src Source, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = Sample(d, src)
	}
	return out
}

// Mean returns the analytical mean of d, or 0 for an empty descriptor.
func Mean(d Distribution) float64 {
	switch v := unwrap(d).(type) {
	case nil:
		return 0
	case Fixed:
		return v.Value
	case Uniform:
		return (v.Min + v.Max) / 2
	case Exponential:
		return 1 / v.Lambda
	case Normal:
		return v.Mu
	default:
		panic(fmt.Sprintf("distribution: unhandled type %T", v))
	}
}

// Validate checks the parameters of d: finite values, min <= max,
// lambda > 0 and sigma >= 0. An empty descriptor is invalid.
func Validate(d Distribution) error {
	inner := unwrap(d)
	if inner == nil {
		return fmt.Errorf("distribution is required")
	}
	if err := validation.Struct(inner); err != nil {
		return fmt.Errorf("%s: %w", inner.Kind(), err)
	}
	return nil
}
