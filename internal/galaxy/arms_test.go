package galaxy

import (
	"math"
	"testing"

	"github.com/litescript/ls-starfield/internal/errs"
)

func TestSpiralRadius_Increasing(t *testing.T) {
	const r0, k = 4000.0, 0.23
	prev := SpiralRadius(r0, k, 0)
	if prev != r0 {
		t.Errorf("SpiralRadius(0) = %v, want %v", prev, r0)
	}
	for theta := 0.1; theta <= 17*math.Pi/6; theta += 0.1 {
		r := SpiralRadius(r0, k, theta)
		if r <= prev {
			t.Fatalf("SpiralRadius(%v) = %v, not above %v", theta, r, prev)
		}
		prev = r
	}
}

func TestPlaceHotspots(t *testing.T) {
	rng := NewRand(20, 1)
	const thetaMax = 17 * math.Pi / 6

	tests := []struct {
		kind     ArmKind
		n        int
		maxSigma float64
	}{
		{MainArm, 30, thetaMax / 31},
		{SecondaryArm, 3, thetaMax / 4 / 8},
		{SecondaryArm, 1, thetaMax / 2 / 8},
	}

	for _, tt := range tests {
		spots := PlaceHotspots(rng, tt.kind, tt.n, thetaMax)
		if len(spots) != tt.n {
			t.Fatalf("%v: %d hotspots, want %d", tt.kind, len(spots), tt.n)
		}
		for i, h := range spots {
			if h.Sigma <= 0 || h.Sigma > tt.maxSigma {
				t.Errorf("%v hotspot %d sigma = %v, want in (0, %v]", tt.kind, i, h.Sigma, tt.maxSigma)
			}
		}
	}
}

func TestArm_DensityPeak(t *testing.T) {
	rng := NewRand(21, 1)
	const thetaMax = 17 * math.Pi / 6
	for _, kind := range []ArmKind{MainArm, SecondaryArm} {
		arm := newArm(rng, kind, 0, 10, thetaMax)
		maxOnGrid := 0.0
		for i := 0; i < densityGridPoints; i++ {
			maxOnGrid = max(maxOnGrid, arm.Density(thetaMax*float64(i)/float64(densityGridPoints-1)))
		}
		// Very narrow hotspots can underflow on every grid point.
		if maxOnGrid == 0 && arm.peak == 1 {
			continue
		}
		if math.Abs(maxOnGrid-1) > 1e-12 {
			t.Errorf("%v: grid peak density = %v, want 1", kind, maxOnGrid)
		}
	}
}

func TestNoiseProfile(t *testing.T) {
	profile := NoiseProfile(NewRand(22, 1))
	if len(profile) != noiseTo-noiseFrom {
		t.Fatalf("len = %d, want %d", len(profile), noiseTo-noiseFrom)
	}
	lo, hi := profile[0], profile[0]
	for _, v := range profile {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if lo != 0 || hi != 1 {
		t.Errorf("profile range = [%v, %v], want [0, 1]", lo, hi)
	}
}

func TestSecondaryOffsetWeight(t *testing.T) {
	tests := []struct {
		theta    float64
		mainArms int
		want     float64
	}{
		{0, 2, 0},
		{math.Pi, 2, 0},
		{2 * math.Pi, 2, 0},
		{math.Pi / 2, 2, 1 - math.Exp(-8)},
		{2 * math.Pi / 3, 3, 0},
	}

	for _, tt := range tests {
		got := SecondaryOffsetWeight(tt.theta, tt.mainArms)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("SecondaryOffsetWeight(%v, %d) = %v, want %v", tt.theta, tt.mainArms, got, tt.want)
		}
	}
	// Outside every exclusion window.
	if got := SecondaryOffsetWeight(-math.Pi, 2); got != 1 {
		t.Errorf("SecondaryOffsetWeight(-π, 2) = %v, want 1", got)
	}
}

func TestSecondaryOffset_AvoidsMainArms(t *testing.T) {
	rng := NewRand(23, 1)
	near := 0
	const n = 2000
	for i := 0; i < n; i++ {
		theta, _ := SecondaryOffset(rng, 2, 0)
		if theta < 0 || theta >= 2*math.Pi {
			t.Fatalf("SecondaryOffset = %v outside [0, 2π)", theta)
		}
		// Within π/16 of a main arm the weight is below 0.12.
		for _, m := range []float64{0, math.Pi, 2 * math.Pi} {
			if math.Abs(theta-m) < math.Pi/16 {
				near++
			}
		}
	}
	// An unweighted draw lands that close 12.5% of the time.
	if frac := float64(near) / n; frac > 0.08 {
		t.Errorf("fraction near main arms = %v, want well below 0.125", frac)
	}
}

func TestAllocateArms(t *testing.T) {
	p := DefaultConfig().Arms
	main, secondary, err := AllocateArms(NewRand(24, 1), p)
	if err != nil {
		t.Fatalf("AllocateArms error: %v", err)
	}
	if len(main) != p.MainArms || len(secondary) != p.SecondaryArms {
		t.Fatalf("got %d main / %d secondary arms", len(main), len(secondary))
	}
	if s := sumInts(main); s != 10800 {
		t.Errorf("main total = %d, want 10800", s)
	}
	if s := sumInts(secondary); s != 16200 {
		t.Errorf("secondary total = %d, want 16200", s)
	}
	for i, n := range secondary {
		if n < 1 {
			t.Errorf("secondary arm %d has %d stars", i, n)
		}
	}
}

func TestAllocateArms_Infeasible(t *testing.T) {
	p := DefaultConfig().Arms
	p.Stars = 20
	if _, _, err := AllocateArms(NewRand(25, 1), p); !errs.IsConfig(err) {
		t.Errorf("error = %v, want config error", err)
	}
}

func TestArmSampler_ThetaRange(t *testing.T) {
	rng := NewRand(26, 1)
	p := DefaultConfig().Arms
	for _, kind := range []ArmKind{MainArm, SecondaryArm} {
		arm := newArm(rng, kind, 0, 0, p.ThetaMax)
		s := newArmSampler(rng, p, arm)
		for i := 0; i < 200; i++ {
			star, _ := s.next()
			if star.theta < 0 || star.theta > p.ThetaMax {
				t.Fatalf("%v: theta = %v outside [0, %v]", kind, star.theta, p.ThetaMax)
			}
			if want := SpiralRadius(p.ScaleRadius, p.Pitch, star.theta); star.r != want {
				t.Fatalf("%v: r = %v, want %v", kind, star.r, want)
			}
		}
	}
}

func smallArms() ArmParams {
	p := DefaultConfig().Arms
	p.Stars = 600
	p.SecondaryArms = 5
	return p
}

func TestGenerateArms_CountWithFallbacks(t *testing.T) {
	p := smallArms()
	p.MainMaxAttempts = 1
	p.SecondaryMaxAttempts = 1

	wantMain, wantSecondary, err := AllocateArms(NewRand(27, 1), p)
	if err != nil {
		t.Fatal(err)
	}
	want := append(append([]int{}, wantMain...), wantSecondary...)

	var got []int
	armDone = func(arm *Arm, appended int) {
		if appended != arm.Stars {
			t.Errorf("%s arm appended %d stars, want %d", arm.Kind, appended, arm.Stars)
		}
		got = append(got, appended)
	}
	defer func() { armDone = nil }()

	res, err := GenerateArms(NewRand(27, 1), p)
	if err != nil {
		t.Fatalf("GenerateArms error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("arms generated = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("arm %d stars = %d, want %d", i, got[i], want[i])
		}
	}
	if res.Stars.Len() != p.Stars {
		t.Errorf("Len() = %d, want %d", res.Stars.Len(), p.Stars)
	}
	if res.Fallbacks == 0 {
		t.Error("expected fallbacks with a single attempt per star")
	}
	if err := res.Stars.Validate(); err != nil {
		t.Error(err)
	}
}

func TestGenerateArms_Reproducible(t *testing.T) {
	p := smallArms()
	a, err := GenerateArms(NewRand(28, 4), p)
	if err != nil {
		t.Fatal(err)
	}
	b, err := GenerateArms(NewRand(28, 4), p)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < a.Stars.Len(); i++ {
		if a.Stars.At(i) != b.Stars.At(i) {
			t.Fatalf("star %d differs between runs with the same seed", i)
		}
	}
}

func sumInts(v []int) int {
	total := 0
	for _, x := range v {
		total += x
	}
	return total
}
