package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/litescript/ls-starfield/internal/errs"
)

// WriteCentersCSV writes galaxy centres as X,Y,Z rows.
func WriteCentersCSV(w io.Writer, centers [][3]float64) error {
	const op = "export.WriteCentersCSV"

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"X", "Y", "Z"}); err != nil {
		return errs.WrapIO(op, "write header", err)
	}
	row := make([]string, 3)
	for _, c := range centers {
		for j, v := range c {
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
