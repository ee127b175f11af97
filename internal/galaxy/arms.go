package galaxy

import (
	"math"
	"math/rand/v2"

	"github.com/litescript/ls-starfield/internal/sampling"
)

// ArmKind classifies a spiral arm.
type ArmKind int

const (
	MainArm ArmKind = iota
	SecondaryArm
)

func (k ArmKind) String() string {
	if k == MainArm {
		return "main"
	}
	return "secondary"
}

// Main-arm noise profile: noiseSamples uniforms smoothed with a
// noiseWidth-wide moving average, of which [noiseFrom, noiseTo) is kept.
const (
	noiseSamples = 10000
	noiseWidth   = 1500
	noiseFrom    = 1001
	noiseTo      = 9001
)

// densityGridPoints is the grid used to find a mixture's peak value.
const densityGridPoints = 100

// Hotspot is one Gaussian component of an arm's angular density.
type Hotspot struct {
	Theta float64
	Sigma float64
}

// Arm is the transient description of one spiral arm.
type Arm struct {
	Kind     ArmKind
	Offset   float64
	Stars    int
	Hotspots []Hotspot
	// peak is the mixture maximum over the sampling grid.
	peak float64
}

// Mixture returns the unnormalised hotspot mixture at theta.
func (a *Arm) Mixture(theta float64) float64 {
	total := 0.0
	for _, h := range a.Hotspots {
		d := theta - h.Theta
		total += math.Exp(-d * d / (2 * h.Sigma * h.Sigma))
	}
	return total
}

// Density returns the mixture scaled by its grid peak. Values between grid
// points may slightly exceed 1.
func (a *Arm) Density(theta float64) float64 {
	return a.Mixture(theta) / a.peak
}

// SpiralRadius returns r0·e^(kθ).
func SpiralRadius(r0, k, theta float64) float64 {
	return r0 * math.Exp(k*theta)
}

// PlaceHotspots builds an arm's hotspot list. Main arms spread hotspots over
// the whole arm with small jitter and wide spreads; secondary arms cluster a
// few narrow hotspots in the outer third.
func PlaceHotspots(rng *rand.Rand, kind ArmKind, n int, thetaMax float64) []Hotspot {
	spacing := thetaMax / float64(n+1)

	from, jitter, maxSigma := 0.0, spacing/100, spacing
	if kind == SecondaryArm {
		from, jitter, maxSigma = 2*thetaMax/3, spacing/2, spacing/8
	}

	spots := make([]Hotspot, n)
	for i := range spots {
		center := from
		if n > 1 {
			center = from + (thetaMax-from)*float64(i)/float64(n-1)
		}
		spots[i] = Hotspot{
			Theta: sampling.Normal(rng, center, jitter),
			// 1-u lies in (0, 1], so sigma is never zero.
			Sigma: maxSigma * (1 - rng.Float64()),
		}
	}
	return spots
}

// newArm draws hotspots for an arm and records the mixture peak.
func newArm(rng *rand.Rand, kind ArmKind, offset float64, stars int, thetaMax float64) *Arm {
	n := rng.IntN(10) + 25
	if kind == SecondaryArm {
		n = rng.IntN(4) + 1
	}
	a := &Arm{
		Kind:     kind,
		Offset:   offset,
		Stars:    stars,
		Hotspots: PlaceHotspots(rng, kind, n, thetaMax),
	}
	for i := 0; i < densityGridPoints; i++ {
		theta := thetaMax * float64(i) / float64(densityGridPoints-1)
		a.peak = max(a.peak, a.Mixture(theta))
	}
	if a.peak == 0 {
		a.peak = 1
	}
	return a
}

// NoiseProfile builds the clumpy main-arm weighting: smoothed uniform noise,
// trimmed at both ends and rescaled to [0, 1].
func NoiseProfile(rng *rand.Rand) []float64 {
	raw := make([]float64, noiseSamples)
	for i := range raw {
		raw[i] = rng.Float64()
	}
	smoothed := sampling.MovingAverage(raw, noiseWidth)
	return sampling.Rescale(smoothed[noiseFrom:noiseTo])
}

// SecondaryOffsetWeight is the acceptance weight for a secondary arm's angular
// offset. It vanishes at every main-arm angle 2πi/N and recovers within about
// π/(4N) of it. Angles outside every exclusion window are accepted.
func SecondaryOffsetWeight(theta float64, mainArms int) float64 {
	n := float64(mainArms)
	sigma := math.Pi / (4 * n)
	for i := 0; i <= mainArms; i++ {
		lo := float64(2*i-1) * math.Pi / n
		hi := float64(2*i+1) * math.Pi / n
		if theta >= lo && theta <= hi {
			d := theta - 2*math.Pi*float64(i)/n
			return 1 - math.Exp(-d*d/(2*sigma*sigma))
		}
	}
	return 1
}

// SecondaryOffset draws a secondary arm offset in [0, 2π) away from the main
// arms. The fallback is an unweighted angle.
func SecondaryOffset(rng *rand.Rand, mainArms, maxAttempts int) (float64, bool) {
	return sampling.Sample(maxAttempts,
		func() float64 { return sampling.Uniform(rng, 0, 2*math.Pi) },
		sampling.Below(rng, func(theta float64) float64 { return SecondaryOffsetWeight(theta, mainArms) }),
		func() float64 { return sampling.Uniform(rng, 0, 2*math.Pi) },
	)
}

// AllocateArms splits p.Stars into per-arm counts: main arms first, then
// secondary arms.
func AllocateArms(rng *rand.Rand, p ArmParams) (main, secondary []int, err error) {
	mainTotal, secondaryTotal, err := p.subtotals()
	if err != nil {
		return nil, nil, err
	}
	if main, err = allocate(rng, mainTotal, p.MainArms, p.MainAllocation); err != nil {
		return nil, nil, err
	}
	if secondaryTotal == 0 && p.SecondaryArms == 0 {
		return main, nil, nil
	}
	if secondary, err = allocate(rng, secondaryTotal, p.SecondaryArms, p.SecondaryAllocation); err != nil {
		return nil, nil, err
	}
	return main, secondary, nil
}

func allocate(rng *rand.Rand, n, arms int, a Allocation) ([]int, error) {
	if a.Mode == AllocateUneven {
		return sampling.UnevenSplit(rng, n, arms, a.Variation)
	}
	return sampling.EvenSplit(n, arms)
}

// armDone, when set, is called after each arm with the number of stars the
// arm appended. Tests use it.
var armDone func(arm *Arm, appended int)

// GenerateArms samples the spiral arms. Allocation errors are config errors;
// Config.Validate rules them out up front.
func GenerateArms(rng *rand.Rand, p ArmParams) (Result, error) {
	return generateArms(rng, p, nil)
}

func generateArms(rng *rand.Rand, p ArmParams, prog *progress) (Result, error) {
	res := Result{Component: SpiralArms, Requested: p.Stars, Stars: NewStars(p.Stars)}
	if p.Stars == 0 {
		return res, nil
	}

	mainCounts, secondaryCounts, err := AllocateArms(rng, p)
	if err != nil {
		return res, err
	}

	for i, n := range mainCounts {
		offset := 2 * math.Pi / float64(p.MainArms) * float64(i)
		arm := newArm(rng, MainArm, offset, n, p.ThetaMax)
		res.Fallbacks += runArm(rng, p, arm, &res.Stars, prog)
	}
	for _, n := range secondaryCounts {
		offset, ok := SecondaryOffset(rng, p.MainArms, p.OffsetMaxAttempts)
		if !ok {
			res.Fallbacks++
		}
		arm := newArm(rng, SecondaryArm, offset, n, p.ThetaMax)
		res.Fallbacks += runArm(rng, p, arm, &res.Stars, prog)
	}
	return res, nil
}

func runArm(rng *rand.Rand, p ArmParams, arm *Arm, out *Stars, prog *progress) int {
	before := out.Len()
	fallbacks := generateArm(rng, p, arm, out, prog)
	if armDone != nil {
		armDone(arm, out.Len()-before)
	}
	return fallbacks
}

// armStar is an accepted (or fallback) angle along an arm.
type armStar struct {
	theta, r float64
}

// armSampler draws angles along one arm.
type armSampler struct {
	rng         *rand.Rand
	p           ArmParams
	arm         *Arm
	maxAttempts int
	spread      float64
	drawTheta   func() float64
}

func newArmSampler(rng *rand.Rand, p ArmParams, arm *Arm) *armSampler {
	s := &armSampler{rng: rng, p: p, arm: arm}
	if arm.Kind == MainArm {
		// The profile is rescaled to max 1, so its weights never sum to zero.
		noise, _ := sampling.NewWeightedIndex(NoiseProfile(rng))
		scale := p.ThetaMax / float64(noise.Len())
		s.maxAttempts = p.MainMaxAttempts
		s.spread = p.SpiralSpread / 2
		s.drawTheta = func() float64 {
			t := float64(noise.Draw(rng)) * scale
			return math.Sqrt(p.ThetaMax * t)
		}
		return s
	}
	s.maxAttempts = p.SecondaryMaxAttempts
	s.spread = p.SpiralSpread / 4
	s.drawTheta = func() float64 {
		return math.Sqrt(p.ThetaMax * sampling.Uniform(rng, 0, p.ThetaMax))
	}
	return s
}

func (s *armSampler) at(theta float64) armStar {
	return armStar{theta, SpiralRadius(s.p.ScaleRadius, s.p.Pitch, theta)}
}

// next returns one angle. A candidate must pass the hotspot density test and
// then the radial falloff test; the fallback skips both.
func (s *armSampler) next() (armStar, bool) {
	return sampling.Sample(s.maxAttempts,
		func() armStar { return s.at(s.drawTheta()) },
		func(c armStar) bool {
			if s.rng.Float64() >= s.arm.Density(c.theta) {
				return false
			}
			return s.rng.Float64() < math.Exp(-c.r/s.p.ScaleRadius)
		},
		func() armStar { return s.at(sampling.Uniform(s.rng, 0, s.p.ThetaMax)) },
	)
}

// generateArm appends arm.Stars stars to out and returns the number of
// attempt-cap fallbacks.
func generateArm(rng *rand.Rand, p ArmParams, arm *Arm, out *Stars, prog *progress) int {
	sampler := newArmSampler(rng, p, arm)
	fallbacks := 0
	for i := 0; i < arm.Stars; i++ {
		s, ok := sampler.next()
		if !ok {
			fallbacks++
		}
		phi := s.theta + arm.Offset
		out.Push(p.star(rng,
			s.r*math.Cos(phi)+sampling.Normal(rng, 0, sampler.spread),
			s.r*math.Sin(phi)+sampling.Normal(rng, 0, sampler.spread),
			sampling.Normal(rng, 0, p.ZSpread/2),
		))
		prog.step()
	}
	return fallbacks
}
