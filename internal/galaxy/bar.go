package galaxy

import (
	"math"
	"math/rand/v2"

	"github.com/litescript/ls-starfield/internal/sampling"
)

// Bar profile shape, as fractions of the half-length.
const (
	barPlateau = 0.6
	barFalloff = 0.4
)

// GenerateBar samples p.Stars stars from a tapered bar lying along x.
func GenerateBar(rng *rand.Rand, p BarParams) Result {
	return generateBar(rng, p, nil)
}

func generateBar(rng *rand.Rand, p BarParams, prog *progress) Result {
	res := Result{Component: Bar, Requested: p.Stars, Stars: NewStars(p.Stars)}
	jitter := p.Length / 100

	for i := 0; i < p.Stars; i++ {
		x, ok := BarPosition(rng, p.Length, p.MaxAttempts)
		if !ok {
			res.Fallbacks++
		}

		// Cross-section narrows away from the centre.
		r := sampling.Normal(rng, 0, 0.1*p.Length) * math.Pow(1+(x/p.Length)*(x/p.Length), -2.5)
		phi := 2 * math.Pi * rng.Float64()
		y := r * math.Cos(phi)
		z := 0.75 * r * math.Sin(phi)

		res.Stars.Push(p.star(rng,
			x+sampling.Normal(rng, 0, jitter),
			y+sampling.Normal(rng, 0, jitter),
			z+sampling.Normal(rng, 0, jitter),
		))
		prog.step()
	}
	return res
}

// BarProfile is the along-bar density: 1 on the central plateau, then a
// Gaussian falloff towards the ends.
func BarProfile(x, halfLength float64) float64 {
	edge := barPlateau * halfLength
	ax := math.Abs(x)
	if ax <= edge {
		return 1
	}
	t := (ax - edge) / (barFalloff * halfLength)
	return math.Exp(-t * t)
}

// BarPosition draws the along-bar coordinate in [-L/2, L/2] by rejection
// against BarProfile. The fallback is uniform on the plateau.
func BarPosition(rng *rand.Rand, length float64, maxAttempts int) (float64, bool) {
	h := length / 2
	return sampling.Sample(maxAttempts,
		func() float64 { return sampling.Uniform(rng, -h, h) },
		sampling.Below(rng, func(x float64) float64 { return BarProfile(x, h) }),
		func() float64 { return sampling.Uniform(rng, -barPlateau*h, barPlateau*h) },
	)
}
