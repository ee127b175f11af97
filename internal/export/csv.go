// Package export writes catalogs and run summaries for downstream tools.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/litescript/ls-starfield/internal/errs"
	"github.com/litescript/ls-starfield/internal/galaxy"
)

// WriteCSV writes the catalog as CSV: a galaxy.Columns header, then one row
// per star in catalog order.
func WriteCSV(w io.Writer, cat *galaxy.Catalog) error {
	const op = "export.WriteCSV"

	cw := csv.NewWriter(w)
	if err := cw.Write(galaxy.Columns); err != nil {
		return errs.WrapIO(op, "write header", err)
	}

	row := make([]string, len(galaxy.Columns))
	for i := 0; i < cat.Len(); i++ {
		st := cat.Stars.At(i)
		for j, v := range [...]float64{st.X, st.Y, st.Z, st.Temperature, st.Brightness, st.Size} {
			row[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return errs.WrapIO(op, "write row", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errs.WrapIO(op, "flush", err)
	}
	return nil
}
