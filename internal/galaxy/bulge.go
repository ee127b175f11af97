package galaxy

import (
	"math"
	"math/rand/v2"

	"github.com/litescript/ls-starfield/internal/sampling"
)

// GenerateBulge samples p.Stars stars from a truncated Plummer sphere.
func GenerateBulge(rng *rand.Rand, p BulgeParams) Result {
	return generateBulge(rng, p, nil)
}

func generateBulge(rng *rand.Rand, p BulgeParams, prog *progress) Result {
	res := Result{Component: Bulge, Requested: p.Stars, Stars: NewStars(p.Stars)}
	jitter := p.Radius / 20

	for i := 0; i < p.Stars; i++ {
		r, ok := PlummerRadius(rng, p.Radius, p.MaxAttempts)
		if !ok {
			res.Fallbacks++
		}
		dx, dy, dz := sampling.UnitSphere(rng)
		res.Stars.Push(p.star(rng,
			r*dx+sampling.Normal(rng, 0, jitter),
			r*dy+sampling.Normal(rng, 0, jitter),
			r*dz+sampling.Normal(rng, 0, jitter),
		))
		prog.step()
	}
	return res
}

// PlummerRadius draws a radius by inverting the Plummer cumulative mass
// profile, r = R/sqrt(u^(-2/3) - 1) - 1. Draws beyond 4R are redrawn; after
// maxAttempts the radius is uniform in [0, 4R] and ok is false.
func PlummerRadius(rng *rand.Rand, radius float64, maxAttempts int) (r float64, ok bool) {
	limit := 4 * radius
	return sampling.Sample(maxAttempts,
		func() float64 {
			u := rng.Float64()
			return radius/math.Sqrt(math.Pow(u, -2.0/3.0)-1) - 1
		},
		func(r float64) bool { return r <= limit },
		func() float64 { return sampling.Uniform(rng, 0, limit) },
	)
}
