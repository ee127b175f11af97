// Package sampling provides the random-draw primitives shared by the galaxy
// component generators: bounded rejection sampling, count partitions,
// weighted index lookup and sphere directions.
//
// Every function takes an explicit *rand.Rand so that each generator (or
// worker) owns its stream and runs are reproducible from a seed.
package sampling

import (
	"math"
	"math/rand/v2"
)

// DefaultMaxAttempts is the attempt cap used when a caller passes a
// non-positive limit.
const DefaultMaxAttempts = 1000

// Sample draws candidates until accept keeps one or maxAttempts candidates
// have been rejected, in which case fallback supplies the value.
//
// The second result is false when the fallback was used. Callers count these
// events: a fallback trades a small distribution bias for bounded run time.
func Sample[T any](maxAttempts int, candidate func() T, accept func(T) bool, fallback func() T) (T, bool) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	for i := 0; i < maxAttempts; i++ {
		c := candidate()
		if accept(c) {
			return c, true
		}
	}
	return fallback(), false
}

// Below returns an acceptance predicate that keeps a candidate when an
// independent uniform draw falls below density(candidate).
// density should map into [0, 1]; values above 1 always accept.
func Below[T any](rng *rand.Rand, density func(T) float64) func(T) bool {
	return func(c T) bool {
		return rng.Float64() < density(c)
	}
}

// Uniform returns a uniform draw in [lo, hi).
func Uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

// Normal returns a Gaussian draw with the given mean and standard deviation.
func Normal(rng *rand.Rand, mean, sd float64) float64 {
	return mean + sd*rng.NormFloat64()
}

// UnitSphere returns a direction uniformly distributed on the unit sphere.
// The polar angle is arccos(2u-1) and the azimuth is uniform in [0, 2π).
func UnitSphere(rng *rand.Rand) (x, y, z float64) {
	theta := math.Acos(2*rng.Float64() - 1)
	phi := 2 * math.Pi * rng.Float64()
	sinTheta := math.Sin(theta)
	return sinTheta * math.Cos(phi), sinTheta * math.Sin(phi), math.Cos(theta)
}
