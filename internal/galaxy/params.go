package galaxy

import (
	"math"
	"math/rand/v2"

	"github.com/litescript/ls-starfield/internal/errs"
	"github.com/litescript/ls-starfield/internal/sampling"
)

// Appearance holds the per-star attributes shared by every component.
type Appearance struct {
	TempMean   float64 `yaml:"temp_mean" json:"temp_mean"`
	TempSD     float64 `yaml:"temp_sd" json:"temp_sd"`
	Brightness float64 `yaml:"brightness" json:"brightness"`
	Size       float64 `yaml:"size" json:"size"`
}

// star builds a Star at (x, y, z) with a Gaussian temperature draw.
func (a Appearance) star(rng *rand.Rand, x, y, z float64) Star {
	return Star{
		X:           x,
		Y:           y,
		Z:           z,
		Temperature: sampling.Normal(rng, a.TempMean, a.TempSD),
		Brightness:  a.Brightness,
		Size:        a.Size,
	}
}

func (a Appearance) validate(op, name string) error {
	if a.TempSD < 0 {
		return errs.Configf(op, "%s.temp_sd must not be negative (got %v)", name, a.TempSD)
	}
	if a.Brightness < 0 || a.Size < 0 {
		return errs.Configf(op, "%s brightness and size must not be negative", name)
	}
	return nil
}

// BulgeParams configures the Plummer-profile bulge.
type BulgeParams struct {
	Stars       int     `yaml:"stars" json:"stars"`
	Radius      float64 `yaml:"radius" json:"radius"`
	MaxAttempts int     `yaml:"max_attempts" json:"max_attempts"`
	Appearance  `yaml:",inline"`
}

// BarParams configures the tapered central bar. Length is the full bar
// length along x.
type BarParams struct {
	Stars       int     `yaml:"stars" json:"stars"`
	Length      float64 `yaml:"length" json:"length"`
	MaxAttempts int     `yaml:"max_attempts" json:"max_attempts"`
	Appearance  `yaml:",inline"`
}

// DiskParams configures the exponential disk. The last ThinFraction of the
// stars (by generation order) use ThinHeight instead of ScaleHeight.
type DiskParams struct {
	Stars        int     `yaml:"stars" json:"stars"`
	ScaleRadius  float64 `yaml:"scale_radius" json:"scale_radius"`
	ScaleHeight  float64 `yaml:"scale_height" json:"scale_height"`
	ThinHeight   float64 `yaml:"thin_height" json:"thin_height"`
	ThinFraction float64 `yaml:"thin_fraction" json:"thin_fraction"`
	Cutoff       float64 `yaml:"cutoff" json:"cutoff"`
	MaxAttempts  int     `yaml:"max_attempts" json:"max_attempts"`
	Appearance   `yaml:",inline"`
}

// AllocationMode selects how a sub-total of arm stars is divided across arms.
type AllocationMode string

const (
	AllocateEven   AllocationMode = "even"
	AllocateUneven AllocationMode = "uneven"
)

// Allocation configures per-arm star counts. Variation is only used by
// AllocateUneven.
type Allocation struct {
	Mode      AllocationMode `yaml:"mode" json:"mode"`
	Variation float64        `yaml:"variation" json:"variation"`
}

// ArmParams configures the main and secondary spiral arms.
type ArmParams struct {
	Stars         int     `yaml:"stars" json:"stars"`
	MainFraction  float64 `yaml:"main_fraction" json:"main_fraction"`
	MainArms      int     `yaml:"main_arms" json:"main_arms"`
	SecondaryArms int     `yaml:"secondary_arms" json:"secondary_arms"`

	// Spiral r = ScaleRadius * exp(Pitch * theta) for theta in [0, ThetaMax].
	ScaleRadius float64 `yaml:"scale_radius" json:"scale_radius"`
	Pitch       float64 `yaml:"pitch" json:"pitch"`
	ThetaMax    float64 `yaml:"theta_max" json:"theta_max"`

	SpiralSpread float64 `yaml:"spiral_spread" json:"spiral_spread"`
	ZSpread      float64 `yaml:"z_spread" json:"z_spread"`

	MainAllocation      Allocation `yaml:"main_allocation" json:"main_allocation"`
	SecondaryAllocation Allocation `yaml:"secondary_allocation" json:"secondary_allocation"`

	MainMaxAttempts      int `yaml:"main_max_attempts" json:"main_max_attempts"`
	SecondaryMaxAttempts int `yaml:"secondary_max_attempts" json:"secondary_max_attempts"`
	OffsetMaxAttempts    int `yaml:"offset_max_attempts" json:"offset_max_attempts"`

	Appearance `yaml:",inline"`
}

// HaloParams configures the scattered halo stars.
type HaloParams struct {
	Stars      int     `yaml:"stars" json:"stars"`
	RadiusMean float64 `yaml:"radius_mean" json:"radius_mean"`
	RadiusSD   float64 `yaml:"radius_sd" json:"radius_sd"`
	Appearance `yaml:",inline"`
}

// Placement re-orients the assembled catalog. With Orient set, the galaxy is
// rotated to a random orientation and shifted by Offset.
type Placement struct {
	Orient bool       `yaml:"orient" json:"orient"`
	Offset [3]float64 `yaml:"offset" json:"offset"`
}

// Config is the full parameter set for one galaxy.
type Config struct {
	Bulge     BulgeParams  `yaml:"bulge" json:"bulge"`
	Bar       BarParams    `yaml:"bar" json:"bar"`
	Disk      DiskParams   `yaml:"disk" json:"disk"`
	Arms      ArmParams    `yaml:"arms" json:"arms"`
	Halo      HaloParams   `yaml:"halo" json:"halo"`
	Placement Placement    `yaml:"placement" json:"placement"`
	Centers   CenterParams `yaml:"centers" json:"centers"`
}

// DefaultConfig returns the reference galaxy.
func DefaultConfig() Config {
	return Config{
		Bulge: BulgeParams{
			Stars:       3000,
			Radius:      800,
			MaxAttempts: sampling.DefaultMaxAttempts,
			Appearance:  Appearance{TempMean: 3000, TempSD: 500, Brightness: 2, Size: 2},
		},
		Bar: BarParams{
			Stars:       5000,
			Length:      8000,
			MaxAttempts: 10000,
			Appearance:  Appearance{TempMean: 4500, TempSD: 500, Brightness: 2, Size: 2},
		},
		Disk: DiskParams{
			Stars:        15000,
			ScaleRadius:  4000,
			ScaleHeight:  600,
			ThinHeight:   100,
			ThinFraction: 0.1,
			Cutoff:       31000,
			MaxAttempts:  sampling.DefaultMaxAttempts,
			Appearance:   Appearance{TempMean: 6000, TempSD: 500, Brightness: 2, Size: 2},
		},
		Arms: ArmParams{
			Stars:                27000,
			MainFraction:         0.4,
			MainArms:             2,
			SecondaryArms:        30,
			ScaleRadius:          4000,
			Pitch:                0.23,
			ThetaMax:             17 * math.Pi / 6,
			SpiralSpread:         1200,
			ZSpread:              100,
			MainAllocation:       Allocation{Mode: AllocateEven},
			SecondaryAllocation:  Allocation{Mode: AllocateUneven, Variation: 0.5},
			MainMaxAttempts:      10000,
			SecondaryMaxAttempts: 5000,
			OffsetMaxAttempts:    sampling.DefaultMaxAttempts,
			Appearance:           Appearance{TempMean: 9000, TempSD: 1500, Brightness: 2, Size: 2},
		},
		Halo: HaloParams{
			Stars:      500,
			RadiusMean: 40000,
			RadiusSD:   13333,
			Appearance: Appearance{TempMean: 6000, TempSD: 2000, Brightness: 2, Size: 2},
		},
		Centers: CenterParams{
			Count:       50,
			Radius:      1e6,
			MinDistance: 1e5,
			MaxAttempts: sampling.DefaultMaxAttempts,
		},
	}
}

// Counts returns the requested star count per component.
func (c Config) Counts() map[Component]int {
	return map[Component]int{
		Bulge:      c.Bulge.Stars,
		Bar:        c.Bar.Stars,
		Disk:       c.Disk.Stars,
		SpiralArms: c.Arms.Stars,
		Halo:       c.Halo.Stars,
	}
}

// Total returns the total number of stars the config produces.
func (c Config) Total() int {
	return c.Bulge.Stars + c.Bar.Stars + c.Disk.Stars + c.Arms.Stars + c.Halo.Stars
}

// Validate checks every parameter before any sampling starts. All failures
// are config errors.
func (c Config) Validate() error {
	const op = "galaxy.Config.Validate"

	counts := c.Counts()
	for _, comp := range AllComponents {
		if counts[comp] < 0 {
			return errs.Configf(op, "%s.stars must not be negative (got %d)", comp, counts[comp])
		}
	}
	if c.Total() == 0 {
		return errs.Configf(op, "all components have zero stars")
	}

	if c.Bulge.Radius <= 0 {
		return errs.Configf(op, "bulge.radius must be positive (got %v)", c.Bulge.Radius)
	}
	if err := c.Bulge.Appearance.validate(op, "bulge"); err != nil {
		return err
	}

	if c.Bar.Length <= 0 {
		return errs.Configf(op, "bar.length must be positive (got %v)", c.Bar.Length)
	}
	if err := c.Bar.Appearance.validate(op, "bar"); err != nil {
		return err
	}

	if err := c.Disk.validate(op); err != nil {
		return err
	}
	if err := c.Arms.validate(op); err != nil {
		return err
	}

	if err := c.Centers.validate(op); err != nil {
		return err
	}

	if c.Halo.RadiusSD < 0 {
		return errs.Configf(op, "halo.radius_sd must not be negative (got %v)", c.Halo.RadiusSD)
	}
	return c.Halo.Appearance.validate(op, "halo")
}

func (p DiskParams) validate(op string) error {
	if p.ScaleRadius <= 0 || p.Cutoff <= 0 {
		return errs.Configf(op, "disk.scale_radius and disk.cutoff must be positive")
	}
	if p.ScaleHeight < 0 || p.ThinHeight < 0 {
		return errs.Configf(op, "disk scale heights must not be negative")
	}
	if !(p.ThinFraction >= 0 && p.ThinFraction <= 1) {
		return errs.Configf(op, "disk.thin_fraction must be within [0, 1] (got %v)", p.ThinFraction)
	}
	return p.Appearance.validate(op, "disk")
}

func (p ArmParams) validate(op string) error {
	if p.ScaleRadius <= 0 || p.ThetaMax <= 0 {
		return errs.Configf(op, "arms.scale_radius and arms.theta_max must be positive")
	}
	if p.Pitch <= 0 {
		return errs.Configf(op, "arms.pitch must be positive (got %v)", p.Pitch)
	}
	if p.SpiralSpread < 0 || p.ZSpread < 0 {
		return errs.Configf(op, "arm spreads must not be negative")
	}
	for _, a := range []Allocation{p.MainAllocation, p.SecondaryAllocation} {
		switch a.Mode {
		case AllocateEven:
		case AllocateUneven:
			if !(a.Variation >= 0 && a.Variation <= 1) {
				return errs.Configf(op, "arm allocation variation must be within [0, 1] (got %v)", a.Variation)
			}
		default:
			return errs.Configf(op, "unknown arm allocation mode %q", a.Mode)
		}
	}
	if err := p.Appearance.validate(op, "arms"); err != nil {
		return err
	}
	if p.Stars == 0 {
		return nil
	}

	if p.MainArms <= 0 || p.SecondaryArms < 0 {
		return errs.Configf(op, "arms need at least one main arm (main=%d, secondary=%d)", p.MainArms, p.SecondaryArms)
	}
	main, secondary, err := p.subtotals()
	if err != nil {
		return err
	}
	if p.MainArms > main {
		return errs.Configf(op, "%d main arms cannot share %d stars", p.MainArms, main)
	}
	if p.SecondaryArms > secondary || (secondary > 0 && p.SecondaryArms == 0) {
		return errs.Configf(op, "%d secondary arms cannot share %d stars", p.SecondaryArms, secondary)
	}
	return nil
}

// subtotals splits Stars into the main and secondary arm totals.
func (p ArmParams) subtotals() (main, secondary int, err error) {
	parts, err := sampling.ProportionalSplit(p.Stars, []float64{p.MainFraction, 1 - p.MainFraction})
	if err != nil {
		return 0, 0, err
	}
	return parts[0], parts[1], nil
}
