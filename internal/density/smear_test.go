package density

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/litescript/ls-starfield/internal/errs"
)

func TestGaussianKernel(t *testing.T) {
	k, err := GaussianKernel(5, 1.2)
	if err != nil {
		t.Fatal(err)
	}
	if got := mat.Sum(k); math.Abs(got-1) > 1e-12 {
		t.Errorf("kernel sum = %v, want 1", got)
	}
	if k.At(2, 2) != mat.Max(k) {
		t.Error("kernel peak should be at the centre")
	}
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			if math.Abs(k.At(i, j)-k.At(j, i)) > 1e-15 || math.Abs(k.At(i, j)-k.At(4-i, 4-j)) > 1e-15 {
				t.Fatalf("kernel not symmetric at (%d, %d)", i, j)
			}
		}
	}

	for _, bad := range []struct {
		size  int
		sigma float64
	}{{0, 1}, {3, 0}, {3, -2}} {
		if _, err := GaussianKernel(bad.size, bad.sigma); !errs.IsConfig(err) {
			t.Errorf("GaussianKernel(%d, %v) error = %v, want config error", bad.size, bad.sigma, err)
		}
	}
}

func TestMirror(t *testing.T) {
	tests := []struct{ i, n, want int }{
		{0, 4, 0},
		{3, 4, 3},
		{-1, 4, 0},
		{-2, 4, 1},
		{4, 4, 3},
		{5, 4, 2},
		{9, 4, 1},
		{-3, 2, 1},
	}
	for _, tt := range tests {
		if got := mirror(tt.i, tt.n); got != tt.want {
			t.Errorf("mirror(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}

func TestGrid_Smear_Point(t *testing.T) {
	g, err := NewGrid(21, 10.5)
	if err != nil {
		t.Fatal(err)
	}
	g.Accumulate(starsAt([3]float64{0, 0, 10}))
	if g.At(10, 10) != 10 {
		t.Fatalf("point should land in the centre cell")
	}

	s, err := g.Smear(7, 1.5)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Sum(); math.Abs(got-10) > 1e-9 {
		t.Errorf("smeared sum = %v, want 10", got)
	}
	if s.At(10, 10) >= 10 || s.At(10, 10) != s.Max() {
		t.Errorf("centre = %v, want the reduced peak", s.At(10, 10))
	}
	if math.Abs(s.At(10, 11)-s.At(10, 9)) > 1e-12 || math.Abs(s.At(11, 10)-s.At(9, 10)) > 1e-12 {
		t.Error("smear of a centred point should be symmetric")
	}
	if s.At(0, 0) != 0 {
		t.Errorf("corner = %v, want 0 beyond the kernel reach", s.At(0, 0))
	}
	if g.At(10, 11) != 0 {
		t.Error("Smear modified its receiver")
	}
}

func TestGrid_Smear_UniformEdges(t *testing.T) {
	// Mirrored edges keep a flat field flat all the way to the border.
	g, err := NewGrid(6, 3)
	if err != nil {
		t.Fatal(err)
	}
	for x := -2.5; x < 3; x++ {
		for y := -2.5; y < 3; y++ {
			g.Accumulate(starsAt([3]float64{x, y, 2}))
		}
	}

	s, err := g.Smear(5, 2)
	if err != nil {
		t.Fatal(err)
	}
	for r := 0; r < 6; r++ {
		for c := 0; c < 6; c++ {
			if math.Abs(s.At(r, c)-2) > 1e-12 {
				t.Fatalf("cell (%d, %d) = %v, want 2", r, c, s.At(r, c))
			}
		}
	}
}

func TestGrid_Downsample(t *testing.T) {
	g, err := NewGrid(4, 2)
	if err != nil {
		t.Fatal(err)
	}
	g.Accumulate(starsAt([3]float64{-1.5, -1.5, 4}, [3]float64{1.5, 1.5, 8}))

	got := g.Downsample(2, 2)
	want := [][]float64{{0, 2}, {1, 0}}
	for i := range want {
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Errorf("Downsample[%d][%d] = %v, want %v", i, j, got[i][j], want[i][j])
			}
		}
	}

	for _, size := range [][2]int{{0, 3}, {-1, 3}, {2, 0}, {3, -2}} {
		if empty := g.Downsample(size[0], size[1]); len(empty) != 0 {
			t.Errorf("Downsample(%d, %d) rows = %d, want 0", size[0], size[1], len(empty))
		}
	}
}

func TestShade(t *testing.T) {
	tests := []struct {
		v    float64
		want byte
	}{
		{0, ' '},
		{-1, ' '},
		{math.NaN(), ' '},
		{0.05, ' '},
		{0.15, '.'},
		{0.55, '+'},
		{0.99, '@'},
		{1, '@'},
		{7, '@'},
	}
	for _, tt := range tests {
		if got := Shade(tt.v); got != tt.want {
			t.Errorf("Shade(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
