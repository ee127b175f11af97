// Package density bins a catalog onto a top-down brightness grid and smooths
// it for display.
package density

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/litescript/ls-starfield/internal/errs"
	"github.com/litescript/ls-starfield/internal/galaxy"
)

// Mode selects a brightness normalisation.
type Mode string

const (
	ModeNone  Mode = "none"
	ModeLog   Mode = "log"
	ModeGamma Mode = "gamma"
)

// Modes lists every normalisation in display cycling order.
var Modes = []Mode{ModeNone, ModeLog, ModeGamma}

// ParseMode parses a normalisation name.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", errs.Configf("density.ParseMode", "unknown normalisation %q", s)
}

// Next returns the mode after m in Modes.
func (m Mode) Next() Mode {
	for i, mm := range Modes {
		if mm == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return ModeNone
}

// Grid is a square pixels x pixels brightness map covering
// [-extent, extent] on both axes. Row 0 is the most negative y.
type Grid struct {
	pixels int
	extent float64
	cells  *mat.Dense
}

// NewGrid returns an empty grid.
func NewGrid(pixels int, extent float64) (*Grid, error) {
	if pixels <= 0 {
		return nil, errs.Configf("density.NewGrid", "pixels must be positive (got %d)", pixels)
	}
	if !(extent > 0) {
		return nil, errs.Configf("density.NewGrid", "extent must be positive (got %v)", extent)
	}
	return &Grid{pixels: pixels, extent: extent, cells: mat.NewDense(pixels, pixels, nil)}, nil
}

// AutoExtent returns the smallest whole-unit half-width containing every
// star's x and y. It is at least 1.
func AutoExtent(s galaxy.Stars) float64 {
	m := 0.0
	for i := range s.X {
		m = max(m, math.Abs(s.X[i]), math.Abs(s.Y[i]))
	}
	return max(1, math.Ceil(m))
}

// Pixels returns the grid side length.
func (g *Grid) Pixels() int { return g.pixels }

// Extent returns the half-width covered by the grid.
func (g *Grid) Extent() float64 { return g.extent }

// At returns the value of a cell.
func (g *Grid) At(row, col int) float64 { return g.cells.At(row, col) }

// Max returns the largest cell value.
func (g *Grid) Max() float64 { return mat.Max(g.cells) }

// Sum returns the total of all cells.
func (g *Grid) Sum() float64 { return mat.Sum(g.cells) }

// Cell maps a position to its cell. ok is false outside the grid.
func (g *Grid) Cell(x, y float64) (row, col int, ok bool) {
	unit := 2 * g.extent / float64(g.pixels)
	col = int(math.Floor(x/unit)) + g.pixels/2
	row = int(math.Floor(y/unit)) + g.pixels/2
	if row < 0 || row >= g.pixels || col < 0 || col >= g.pixels {
		return 0, 0, false
	}
	return row, col, true
}

// Accumulate adds each star's brightness to its cell and returns how many
// stars landed inside the grid.
func (g *Grid) Accumulate(s galaxy.Stars) int {
	n := 0
	for i := range s.X {
		row, col, ok := g.Cell(s.X[i], s.Y[i])
		if !ok {
			continue
		}
		g.cells.Set(row, col, g.cells.At(row, col)+s.Brightness[i])
		n++
	}
	return n
}

func (g *Grid) clone() *Grid {
	return &Grid{pixels: g.pixels, extent: g.extent, cells: mat.DenseCopyOf(g.cells)}
}

// Normalize returns a rescaled copy. ModeLog maps v to log1p(v·factor)/log1p(factor)
// and ModeGamma to v^gamma, both after scaling the grid to a maximum of 1.
func (g *Grid) Normalize(mode Mode, factor, gamma float64) (*Grid, error) {
	out := g.clone()
	if mode == ModeNone {
		return out, nil
	}

	var f func(v float64) float64
	switch mode {
	case ModeLog:
		if !(factor > 0) {
			return nil, errs.Configf("density.Normalize", "log factor must be positive (got %v)", factor)
		}
		f = func(v float64) float64 { return math.Log1p(v*factor) / math.Log1p(factor) }
	case ModeGamma:
		if !(gamma > 0) {
			return nil, errs.Configf("density.Normalize", "gamma must be positive (got %v)", gamma)
		}
		f = func(v float64) float64 { return math.Pow(v, gamma) }
	default:
		return nil, errs.Configf("density.Normalize", "unknown normalisation %q", mode)
	}

	peak := g.Max()
	if peak <= 0 {
		return out, nil
	}
	out.cells.Apply(func(_, _ int, v float64) float64 { return f(v / peak) }, out.cells)
	return out, nil
}
