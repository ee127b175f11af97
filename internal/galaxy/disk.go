package galaxy

import (
	"math"
	"math/rand/v2"

	"github.com/litescript/ls-starfield/internal/sampling"
)

type point struct{ x, y float64 }

// GenerateDisk samples p.Stars stars from an exponential disk. The first
// ThickCount stars use ScaleHeight, the rest ThinHeight.
func GenerateDisk(rng *rand.Rand, p DiskParams) Result {
	return generateDisk(rng, p, nil)
}

func generateDisk(rng *rand.Rand, p DiskParams, prog *progress) Result {
	res := Result{Component: Disk, Requested: p.Stars, Stars: NewStars(p.Stars)}
	thick := p.ThickCount()

	for i := 0; i < p.Stars; i++ {
		x, y, ok := DiskPoint(rng, p.ScaleRadius, p.Cutoff, p.MaxAttempts)
		if !ok {
			res.Fallbacks++
		}
		height := p.ScaleHeight
		if i >= thick {
			height = p.ThinHeight
		}
		res.Stars.Push(p.star(rng, x, y, sampling.Normal(rng, 0, height/2)))
		prog.step()
	}
	return res
}

// ThickCount returns how many stars, from the start of the generation order,
// belong to the thick population.
func (p DiskParams) ThickCount() int {
	return int(float64(p.Stars) * (1 - p.ThinFraction))
}

// DiskPoint draws an in-plane position with density proportional to
// exp(-r/r0) inside the cutoff radius. Candidates are uniform in the bounding
// square. The fallback is uniform over the disk area.
func DiskPoint(rng *rand.Rand, r0, cutoff float64, maxAttempts int) (x, y float64, ok bool) {
	pt, ok := sampling.Sample(maxAttempts,
		func() point {
			return point{sampling.Uniform(rng, -cutoff, cutoff), sampling.Uniform(rng, -cutoff, cutoff)}
		},
		sampling.Below(rng, func(c point) float64 {
			r := math.Hypot(c.x, c.y)
			if r > cutoff {
				return 0
			}
			return math.Exp(-r / r0)
		}),
		func() point {
			r := cutoff * math.Sqrt(rng.Float64())
			phi := 2 * math.Pi * rng.Float64()
			return point{r * math.Cos(phi), r * math.Sin(phi)}
		},
	)
	return pt.x, pt.y, ok
}
