package galaxy

import (
	"math/rand/v2"

	"github.com/litescript/ls-starfield/internal/sampling"
)

// GenerateHalo scatters p.Stars stars on spherical shells with a Gaussian
// radius. No rejection is involved.
func GenerateHalo(rng *rand.Rand, p HaloParams) Result {
	return generateHalo(rng, p, nil)
}

func generateHalo(rng *rand.Rand, p HaloParams, prog *progress) Result {
	res := Result{Component: Halo, Requested: p.Stars, Stars: NewStars(p.Stars)}
	for i := 0; i < p.Stars; i++ {
		r := sampling.Normal(rng, p.RadiusMean, p.RadiusSD)
		dx, dy, dz := sampling.UnitSphere(rng)
		res.Stars.Push(p.star(rng, r*dx, r*dy, r*dz))
		prog.step()
	}
	return res
}
