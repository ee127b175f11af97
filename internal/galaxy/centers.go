package galaxy

import (
	"math"
	"math/rand/v2"

	"github.com/litescript/ls-starfield/internal/errs"
	"github.com/litescript/ls-starfield/internal/sampling"
)

// CenterStream is the PCG stream used to scatter galaxy centres.
const CenterStream = 101

// CenterParams configures a scatter of galaxy centres inside the spherical
// shell MinDistance <= |c| <= Radius.
type CenterParams struct {
	Count       int     `yaml:"count" json:"count"`
	Radius      float64 `yaml:"radius" json:"radius"`
	MinDistance float64 `yaml:"min_distance" json:"min_distance"`
	MaxAttempts int     `yaml:"max_attempts" json:"max_attempts"`
}

func (p CenterParams) validate(op string) error {
	if p.Count < 0 {
		return errs.Configf(op, "centers.count must not be negative (got %d)", p.Count)
	}
	if p.Radius <= 0 {
		return errs.Configf(op, "centers.radius must be positive (got %v)", p.Radius)
	}
	if !(p.MinDistance >= 0 && p.MinDistance <= p.Radius) {
		return errs.Configf(op, "centers.min_distance must be within [0, radius] (got %v)", p.MinDistance)
	}
	return nil
}

// Centers scatters p.Count points uniformly in the shell, each at least
// MinDistance from every earlier point. Candidates are uniform in the
// bounding cube. A point that exhausts MaxAttempts is drawn uniformly from
// the shell without the spacing test and counted in fallbacks.
func Centers(rng *rand.Rand, p CenterParams) (centers [][3]float64, fallbacks int, err error) {
	if err := p.validate("galaxy.Centers"); err != nil {
		return nil, 0, err
	}

	inner2, outer2 := p.MinDistance*p.MinDistance, p.Radius*p.Radius
	centers = make([][3]float64, 0, p.Count)
	for len(centers) < p.Count {
		c, ok := sampling.Sample(p.MaxAttempts,
			func() [3]float64 {
				return [3]float64{
					sampling.Uniform(rng, -p.Radius, p.Radius),
					sampling.Uniform(rng, -p.Radius, p.Radius),
					sampling.Uniform(rng, -p.Radius, p.Radius),
				}
			},
			func(c [3]float64) bool {
				if d2 := dist2(c, [3]float64{}); d2 < inner2 || d2 > outer2 {
					return false
				}
				for _, prev := range centers {
					if dist2(c, prev) < inner2 {
						return false
					}
				}
				return true
			},
			func() [3]float64 { return shellPoint(rng, p.MinDistance, p.Radius) },
		)
		if !ok {
			fallbacks++
		}
		centers = append(centers, c)
	}
	return centers, fallbacks, nil
}

// shellPoint is uniform in volume between radii lo and hi.
func shellPoint(rng *rand.Rand, lo, hi float64) [3]float64 {
	lo3 := lo * lo * lo
	r := math.Cbrt(lo3 + rng.Float64()*(hi*hi*hi-lo3))
	x, y, z := sampling.UnitSphere(rng)
	return [3]float64{r * x, r * y, r * z}
}

func dist2(a, b [3]float64) float64 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return dx*dx + dy*dy + dz*dz
}
