package sampling

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/litescript/ls-starfield/internal/errs"
)

// WeightedIndex draws indices with probability proportional to a fixed set
// of non-negative weights. Draws are a binary search over the cumulative
// table, so they never loop.
type WeightedIndex struct {
	cdf []float64
}

// NewWeightedIndex builds a lookup table from weights.
func NewWeightedIndex(weights []float64) (*WeightedIndex, error) {
	const op = "sampling.NewWeightedIndex"
	if len(weights) == 0 {
		return nil, errs.Configf(op, "no weights given")
	}

	cdf := make([]float64, len(weights))
	total := 0.0
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, errs.Configf(op, "weight %d is invalid (%v)", i, w)
		}
		total += w
		cdf[i] = total
	}
	if total <= 0 {
		return nil, errs.Configf(op, "weights sum to zero")
	}
	return &WeightedIndex{cdf: cdf}, nil
}

// Len returns the number of indices.
func (w *WeightedIndex) Len() int {
	return len(w.cdf)
}

// Draw returns an index in [0, Len()).
func (w *WeightedIndex) Draw(rng *rand.Rand) int {
	total := w.cdf[len(w.cdf)-1]
	u := rng.Float64() * total
	// First entry strictly above u, which skips zero-weight indices.
	i := sort.Search(len(w.cdf), func(i int) bool {
		return w.cdf[i] > u
	})
	if i >= len(w.cdf) {
		i = len(w.cdf) - 1
	}
	return i
}
