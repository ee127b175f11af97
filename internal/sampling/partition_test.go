package sampling

import (
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/litescript/ls-starfield/internal/errs"
)

func sum(parts []int) int {
	total := 0
	for _, p := range parts {
		total += p
	}
	return total
}

func TestEvenSplit(t *testing.T) {
	tests := []struct {
		n, d int
		want []int
	}{
		{10, 2, []int{5, 5}},
		{10, 3, []int{4, 3, 3}},
		{7, 7, []int{1, 1, 1, 1, 1, 1, 1}},
		{5, 1, []int{5}},
		{11, 4, []int{3, 3, 3, 2}},
	}

	for _, tt := range tests {
		got, err := EvenSplit(tt.n, tt.d)
		if err != nil {
			t.Fatalf("EvenSplit(%d, %d) error: %v", tt.n, tt.d, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("EvenSplit(%d, %d) = %v, want %v", tt.n, tt.d, got, tt.want)
		}
	}
}

func TestEvenSplit_Invalid(t *testing.T) {
	tests := []struct{ n, d int }{
		{0, 1},
		{5, 0},
		{3, 5},
		{-1, 1},
	}

	for _, tt := range tests {
		if _, err := EvenSplit(tt.n, tt.d); !errs.IsConfig(err) {
			t.Errorf("EvenSplit(%d, %d) error = %v, want config error", tt.n, tt.d, err)
		}
	}
}

func TestProportionalSplit(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		props []float64
		want  []int
	}{
		{"halves", 10, []float64{0.5, 0.5}, []int{5, 5}},
		{"tie goes to lower index", 7, []float64{0.5, 0.5}, []int{4, 3}},
		{"largest remainder", 7, []float64{0.2, 0.3, 0.5}, []int{1, 2, 4}},
		{"arm split", 27000, []float64{0.4, 0.6}, []int{10800, 16200}},
		{"single bucket", 9, []float64{1}, []int{9}},
		{"zero proportion", 5, []float64{0, 1}, []int{0, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ProportionalSplit(tt.n, tt.props)
			if err != nil {
				t.Fatalf("ProportionalSplit error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ProportionalSplit(%d, %v) = %v, want %v", tt.n, tt.props, got, tt.want)
			}
		})
	}
}

func TestProportionalSplit_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		props []float64
	}{
		{"sum too low", 10, []float64{0.3, 0.3}},
		{"sum too high", 10, []float64{0.7, 0.7}},
		{"negative", 10, []float64{-0.5, 1.5}},
		{"empty", 10, nil},
		{"zero n", 0, []float64{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ProportionalSplit(tt.n, tt.props); !errs.IsConfig(err) {
				t.Errorf("error = %v, want config error", err)
			}
		})
	}
}

func TestProportionalSplit_WithinTolerance(t *testing.T) {
	props := []float64{0.333333, 0.333333, 0.333333}
	for _, n := range []int{1, 2, 3, 100, 1_000_000} {
		got, err := ProportionalSplit(n, props)
		if err != nil {
			t.Fatalf("ProportionalSplit(%d) error: %v", n, err)
		}
		if sum(got) != n {
			t.Errorf("ProportionalSplit(%d) sums to %d", n, sum(got))
		}
	}

	over := []float64{0.500004, 0.500004}
	got, err := ProportionalSplit(1_000_000, over)
	if err != nil {
		t.Fatalf("ProportionalSplit(over) error: %v", err)
	}
	if sum(got) != 1_000_000 {
		t.Errorf("ProportionalSplit(over) sums to %d", sum(got))
	}
}

func TestUnevenSplit(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	tests := []struct {
		n, d      int
		variation float64
	}{
		{16200, 30, 0.5},
		{100, 30, 1},
		{100, 30, 0},
		{31, 30, 0.5},
		{1, 1, 0.5},
	}

	for _, tt := range tests {
		got, err := UnevenSplit(rng, tt.n, tt.d, tt.variation)
		if err != nil {
			t.Fatalf("UnevenSplit(%d, %d, %v) error: %v", tt.n, tt.d, tt.variation, err)
		}
		if len(got) != tt.d {
			t.Fatalf("len = %d, want %d", len(got), tt.d)
		}
		if sum(got) != tt.n {
			t.Errorf("UnevenSplit(%d, %d) sums to %d", tt.n, tt.d, sum(got))
		}
		for i, p := range got {
			if p < 1 {
				t.Errorf("bucket %d = %d, want >= 1", i, p)
			}
		}
	}
}

func TestUnevenSplit_AllOnes(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	got, err := UnevenSplit(rng, 12, 12, 0.7)
	if err != nil {
		t.Fatalf("UnevenSplit error: %v", err)
	}
	for i, p := range got {
		if p != 1 {
			t.Errorf("bucket %d = %d, want 1", i, p)
		}
	}
}

func TestUnevenSplit_Invalid(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	tests := []struct {
		n, d      int
		variation float64
	}{
		{10, 20, 0.5},
		{0, 1, 0.5},
		{10, 0, 0.5},
		{10, 2, -0.1},
		{10, 2, 1.5},
	}

	for _, tt := range tests {
		if _, err := UnevenSplit(rng, tt.n, tt.d, tt.variation); !errs.IsConfig(err) {
			t.Errorf("UnevenSplit(%d, %d, %v) error = %v, want config error", tt.n, tt.d, tt.variation, err)
		}
	}
}

func TestUnevenSplit_Deterministic(t *testing.T) {
	a, _ := UnevenSplit(rand.New(rand.NewPCG(42, 1)), 5000, 30, 0.5)
	b, _ := UnevenSplit(rand.New(rand.NewPCG(42, 1)), 5000, 30, 0.5)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed produced %v and %v", a, b)
	}
}

func TestUnevenShape(t *testing.T) {
	tests := []struct {
		variation float64
		want      float64
	}{
		{0, 200},
		{1, 0.2},
	}

	for _, tt := range tests {
		got := UnevenShape(tt.variation)
		if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("UnevenShape(%v) = %v, want %v", tt.variation, got, tt.want)
		}
	}
	if mid := UnevenShape(0.5); mid <= 0.2 || mid >= 200 {
		t.Errorf("UnevenShape(0.5) = %v, want between endpoints", mid)
	}
}
