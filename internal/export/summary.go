package export

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/litescript/ls-starfield/internal/errs"
	"github.com/litescript/ls-starfield/internal/galaxy"
)

// Summary is the JSON-serializable description of a generated catalog.
type Summary struct {
	Seed        uint64             `json:"seed"`
	GeneratedAt time.Time          `json:"generated_at"`
	Stars       int                `json:"stars"`
	Fallbacks   int                `json:"fallbacks"`
	Components  []ComponentSummary `json:"components"`
}

// ComponentSummary describes one component's block of rows.
type ComponentSummary struct {
	Component      string  `json:"component"`
	Offset         int     `json:"offset"`
	Count          int     `json:"count"`
	Fallbacks      int     `json:"fallbacks"`
	MeanRadius     float64 `json:"mean_radius"`
	TempMean       float64 `json:"temperature_mean"`
	TempSD         float64 `json:"temperature_sd"`
	MeanBrightness float64 `json:"brightness_mean"`
}

// Summarize computes per-component statistics for a catalog.
func Summarize(cat *galaxy.Catalog, generatedAt time.Time) *Summary {
	s := &Summary{
		Seed:        cat.Seed,
		GeneratedAt: generatedAt,
		Stars:       cat.Len(),
		Fallbacks:   cat.Fallbacks(),
	}

	for _, b := range cat.Blocks {
		cs := ComponentSummary{
			Component: b.Component.String(),
			Offset:    b.Offset,
			Count:     b.Count,
			Fallbacks: b.Fallbacks,
		}
		if b.Count > 0 {
			stars := cat.ComponentStars(b.Component)
			radii := make([]float64, stars.Len())
			for i := range radii {
				radii[i] = math.Sqrt(stars.X[i]*stars.X[i] + stars.Y[i]*stars.Y[i] + stars.Z[i]*stars.Z[i])
			}
			cs.MeanRadius = stat.Mean(radii, nil)
			cs.MeanBrightness = stat.Mean(stars.Brightness, nil)
			if b.Count > 1 {
				cs.TempMean, cs.TempSD = stat.MeanStdDev(stars.Temperature, nil)
			} else {
				cs.TempMean = stars.Temperature[0]
			}
		}
		s.Components = append(s.Components, cs)
	}
	return s
}

// WriteJSON writes the summary as indented JSON.
func (s *Summary) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return errs.WrapIO("export.WriteJSON", "encode summary", err)
	}
	return nil
}

// WriteSummaryTable writes a fixed-width text table of the summary.
func WriteSummaryTable(w io.Writer, s *Summary) {
	fmt.Fprintf(w, "Starfield @ %s  seed %d\n", s.GeneratedAt.Format(time.RFC3339), s.Seed)
	fmt.Fprintln(w, strings.Repeat("─", 78))

	if len(s.Components) == 0 {
		fmt.Fprintln(w, "No components")
		return
	}

	fmt.Fprintf(w, "%-12s %8s %8s %9s %10s %10s %9s %6s\n",
		"Component", "Offset", "Count", "Fallback", "Mean R", "Temp", "Temp SD", "Bright")
	fmt.Fprintln(w, strings.Repeat("─", 78))

	for _, c := range s.Components {
		fmt.Fprintf(w, "%-12s %8d %8d %9d %10.1f %10.0f %9.0f %6.3f\n",
			truncateStr(c.Component, 12),
			c.Offset,
			c.Count,
			c.Fallbacks,
			c.MeanRadius,
			c.TempMean,
			c.TempSD,
			c.MeanBrightness,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d stars, %d fallbacks\n", s.Stars, s.Fallbacks)
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
