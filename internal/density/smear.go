package density

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/litescript/ls-starfield/internal/errs"
)

// GaussianKernel returns a size x size Gaussian kernel that sums to 1.
func GaussianKernel(size int, sigma float64) (*mat.Dense, error) {
	if size <= 0 || !(sigma > 0) {
		return nil, errs.Configf("density.GaussianKernel", "size and sigma must be positive (size=%d, sigma=%v)", size, sigma)
	}
	k := mat.NewDense(size, size, nil)
	center := float64(size-1) / 2
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			dy, dx := float64(i)-center, float64(j)-center
			k.Set(i, j, math.Exp(-(dx*dx+dy*dy)/(2*sigma*sigma)))
		}
	}
	k.Scale(1/mat.Sum(k), k)
	return k, nil
}

// mirror reflects an out-of-range index back into [0, n), repeating the edge
// sample (d c b a | a b c d | d c b a).
func mirror(i, n int) int {
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}

// Smear returns a copy of g convolved with a Gaussian kernel. Cells beyond the
// edge take mirrored values, so the output has the same size.
func (g *Grid) Smear(kernelSize int, sigma float64) (*Grid, error) {
	k, err := GaussianKernel(kernelSize, sigma)
	if err != nil {
		return nil, err
	}

	n := g.pixels
	out := &Grid{pixels: n, extent: g.extent, cells: mat.NewDense(n, n, nil)}
	c := (kernelSize - 1) / 2
	for r := 0; r < n; r++ {
		for col := 0; col < n; col++ {
			sum := 0.0
			for i := 0; i < kernelSize; i++ {
				sr := mirror(r+i-c, n)
				for j := 0; j < kernelSize; j++ {
					sum += k.At(i, j) * g.cells.At(sr, mirror(col+j-c, n))
				}
			}
			out.cells.Set(r, col, sum)
		}
	}
	return out, nil
}

// Downsample averages the grid into rows x cols blocks. Row 0 of the result
// is the top of the map (most positive y).
func (g *Grid) Downsample(rows, cols int) [][]float64 {
	if rows <= 0 || cols <= 0 {
		return nil
	}
	out := make([][]float64, rows)
	counts := make([][]int, rows)
	for i := range out {
		out[i] = make([]float64, cols)
		counts[i] = make([]int, cols)
	}

	n := g.pixels
	for r := 0; r < n; r++ {
		br := rows - 1 - r*rows/n
		for c := 0; c < n; c++ {
			bc := c * cols / n
			out[br][bc] += g.cells.At(r, c)
			counts[br][bc]++
		}
	}
	for i := range out {
		for j := range out[i] {
			if counts[i][j] > 0 {
				out[i][j] /= float64(counts[i][j])
			}
		}
	}
	return out
}

// Ramp holds the ASCII shades used to draw a grid, darkest first.
const Ramp = " .:-=+*#%@"

// Shade maps v in [0, 1] to a character of Ramp. Values outside the range
// are clamped.
func Shade(v float64) byte {
	if !(v > 0) {
		return Ramp[0]
	}
	i := int(v * float64(len(Ramp)))
	if i >= len(Ramp) {
		i = len(Ramp) - 1
	}
	return Ramp[i]
}
