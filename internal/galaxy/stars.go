// Package galaxy generates star catalogs for a procedural spiral galaxy.
//
// A catalog is built from five independent components (bulge, bar, disk,
// spiral arms, halo). Each generator is a plain function from a parameter
// struct and a random stream to a fully populated Stars value; Generate runs
// them and concatenates the results in a fixed order.
package galaxy

import (
	"github.com/litescript/ls-starfield/internal/errs"
)

// Columns lists the catalog column names in output order.
var Columns = []string{"X", "Y", "Z", "TEMPERATURE", "BRIGHTNESS", "SIZE"}

// Star is one row of a catalog.
type Star struct {
	X, Y, Z     float64
	Temperature float64
	Brightness  float64
	Size        float64
}

// Stars holds star records column-wise. Index i of every slice describes the
// same star.
type Stars struct {
	X           []float64 `json:"x"`
	Y           []float64 `json:"y"`
	Z           []float64 `json:"z"`
	Temperature []float64 `json:"temperature"`
	Brightness  []float64 `json:"brightness"`
	Size        []float64 `json:"size"`
}

// NewStars returns empty columns with room for n stars.
func NewStars(n int) Stars {
	return Stars{
		X:           make([]float64, 0, n),
		Y:           make([]float64, 0, n),
		Z:           make([]float64, 0, n),
		Temperature: make([]float64, 0, n),
		Brightness:  make([]float64, 0, n),
		Size:        make([]float64, 0, n),
	}
}

// Push appends one star to every column.
func (s *Stars) Push(st Star) {
	s.X = append(s.X, st.X)
	s.Y = append(s.Y, st.Y)
	s.Z = append(s.Z, st.Z)
	s.Temperature = append(s.Temperature, st.Temperature)
	s.Brightness = append(s.Brightness, st.Brightness)
	s.Size = append(s.Size, st.Size)
}

// Append adds all of other's rows after s's rows.
func (s *Stars) Append(other Stars) {
	s.X = append(s.X, other.X...)
	s.Y = append(s.Y, other.Y...)
	s.Z = append(s.Z, other.Z...)
	s.Temperature = append(s.Temperature, other.Temperature...)
	s.Brightness = append(s.Brightness, other.Brightness...)
	s.Size = append(s.Size, other.Size...)
}

// Len returns the number of stars. It assumes the columns are aligned.
func (s Stars) Len() int {
	return len(s.X)
}

// At returns row i.
func (s Stars) At(i int) Star {
	return Star{
		X:           s.X[i],
		Y:           s.Y[i],
		Z:           s.Z[i],
		Temperature: s.Temperature[i],
		Brightness:  s.Brightness[i],
		Size:        s.Size[i],
	}
}

// Row returns row i in Columns order.
func (s Stars) Row(i int) []float64 {
	return []float64{s.X[i], s.Y[i], s.Z[i], s.Temperature[i], s.Brightness[i], s.Size[i]}
}

// Validate reports an internal error if the columns differ in length.
func (s Stars) Validate() error {
	n := len(s.X)
	lens := []int{len(s.Y), len(s.Z), len(s.Temperature), len(s.Brightness), len(s.Size)}
	for i, l := range lens {
		if l != n {
			return errs.Internalf("galaxy.Stars.Validate", "column %s has %d rows, X has %d", Columns[i+1], l, n)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (s Stars) Clone() Stars {
	c := NewStars(s.Len())
	c.Append(s)
	return c
}
