package galaxy

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// Orientation is a rotation followed by a translation.
type Orientation struct {
	Rotation [3][3]float64
	Offset   [3]float64
}

// Identity returns the orientation that leaves points unchanged.
func Identity() Orientation {
	return Orientation{Rotation: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// RandomOrientation returns Rz(φ)·Ry(θ) with φ uniform in [0, 2π) and
// θ = arccos(u) for u uniform in [-1, 1], then a shift by offset.
func RandomOrientation(rng *rand.Rand, offset [3]float64) Orientation {
	phi := 2 * math.Pi * rng.Float64()
	theta := math.Acos(2*rng.Float64() - 1)
	return NewOrientation(phi, theta, offset)
}

// NewOrientation builds Rz(phi)·Ry(theta) with a translation.
func NewOrientation(phi, theta float64, offset [3]float64) Orientation {
	sp, cp := math.Sincos(phi)
	st, ct := math.Sincos(theta)

	rz := mat.NewDense(3, 3, []float64{
		cp, -sp, 0,
		sp, cp, 0,
		0, 0, 1,
	})
	ry := mat.NewDense(3, 3, []float64{
		ct, 0, st,
		0, 1, 0,
		-st, 0, ct,
	})
	var prod mat.Dense
	prod.Mul(rz, ry)

	var m [3][3]float64
	for i := range m {
		for j := range m[i] {
			m[i][j] = prod.At(i, j)
		}
	}
	return Orientation{Rotation: m, Offset: offset}
}

// Transform applies the orientation to one point.
func (o Orientation) Transform(x, y, z float64) (float64, float64, float64) {
	m := o.Rotation
	return m[0][0]*x + m[0][1]*y + m[0][2]*z + o.Offset[0],
		m[1][0]*x + m[1][1]*y + m[1][2]*z + o.Offset[1],
		m[2][0]*x + m[2][1]*y + m[2][2]*z + o.Offset[2]
}

// Apply returns a re-oriented copy of s. Non-positional columns are copied
// unchanged and s is not modified.
func (o Orientation) Apply(s Stars) Stars {
	out := s.Clone()
	for i := range out.X {
		out.X[i], out.Y[i], out.Z[i] = o.Transform(s.X[i], s.Y[i], s.Z[i])
	}
	return out
}
