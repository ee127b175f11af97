package export

import (
	"io"
	"strings"

	"github.com/litescript/ls-starfield/internal/density"
	"github.com/litescript/ls-starfield/internal/errs"
)

// WriteMiniMap draws the grid as cols x cols/2 ASCII shades, brightest block
// drawn with the densest character. Terminal cells are about twice as tall as
// they are wide, so halving the rows keeps the map square.
func WriteMiniMap(w io.Writer, grid *density.Grid, cols int) error {
	if cols < 2 {
		return errs.Configf("export.WriteMiniMap", "need at least 2 columns (got %d)", cols)
	}

	blocks := grid.Downsample(cols/2, cols)
	peak := 0.0
	for _, row := range blocks {
		for _, v := range row {
			peak = max(peak, v)
		}
	}

	var b strings.Builder
	for _, row := range blocks {
		for _, v := range row {
			if peak > 0 {
				v /= peak
			}
			b.WriteByte(density.Shade(v))
		}
		b.WriteByte('\n')
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return errs.WrapIO("export.WriteMiniMap", "write map", err)
	}
	return nil
}
