package galaxy

import (
	"math"
	"testing"
)

func TestNewOrientation(t *testing.T) {
	tests := []struct {
		name       string
		phi, theta float64
		in, want   [3]float64
	}{
		{"identity", 0, 0, [3]float64{1, 2, 3}, [3]float64{1, 2, 3}},
		{"rz quarter turn", math.Pi / 2, 0, [3]float64{1, 0, 0}, [3]float64{0, 1, 0}},
		{"ry quarter turn", 0, math.Pi / 2, [3]float64{0, 0, 1}, [3]float64{1, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOrientation(tt.phi, tt.theta, [3]float64{})
			x, y, z := o.Transform(tt.in[0], tt.in[1], tt.in[2])
			got := [3]float64{x, y, z}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-12 {
					t.Errorf("Transform(%v) = %v, want %v", tt.in, got, tt.want)
					break
				}
			}
		})
	}
}

func TestOrientation_ApplyCopies(t *testing.T) {
	s := NewStars(1)
	s.Push(Star{X: 1, Y: 0, Z: 0, Temperature: 5000})

	o := NewOrientation(math.Pi/2, 0, [3]float64{10, 0, 0})
	out := o.Apply(s)

	if s.X[0] != 1 || s.Y[0] != 0 {
		t.Error("Apply modified its input")
	}
	if math.Abs(out.X[0]-10) > 1e-12 || math.Abs(out.Y[0]-1) > 1e-12 {
		t.Errorf("Apply = (%v, %v), want (10, 1)", out.X[0], out.Y[0])
	}
	if out.Temperature[0] != 5000 {
		t.Error("Apply should keep non-positional columns")
	}
}

func TestRandomOrientation_Orthonormal(t *testing.T) {
	rng := NewRand(30, 1)
	for n := 0; n < 20; n++ {
		m := RandomOrientation(rng, [3]float64{}).Rotation
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				dot := 0.0
				for k := 0; k < 3; k++ {
					dot += m[i][k] * m[j][k]
				}
				want := 0.0
				if i == j {
					want = 1
				}
				if math.Abs(dot-want) > 1e-12 {
					t.Fatalf("rows %d,%d dot = %v, want %v", i, j, dot, want)
				}
			}
		}
	}
}
