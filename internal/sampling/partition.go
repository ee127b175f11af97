package sampling

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/litescript/ls-starfield/internal/errs"
)

// ProportionTolerance is how far proportions may sum away from 1.
const ProportionTolerance = 1e-5

// Gamma shape constants for UnevenSplit. variation=0 uses the high shape
// (weights nearly equal), variation=1 the low shape (weights very uneven).
const (
	unevenShapeHigh = 200.0
	unevenShapeLow  = 0.2
)

// EvenSplit divides n items into d buckets as evenly as possible. The
// remainder goes one per bucket starting from bucket 0.
func EvenSplit(n, d int) ([]int, error) {
	if n <= 0 || d <= 0 {
		return nil, errs.Configf("sampling.EvenSplit", "n and d must be positive (n=%d, d=%d)", n, d)
	}
	if d > n {
		return nil, errs.Configf("sampling.EvenSplit", "bucket count %d exceeds item count %d", d, n)
	}

	q, r := n/d, n%d
	parts := make([]int, d)
	for i := range parts {
		parts[i] = q
		if i < r {
			parts[i]++
		}
	}
	return parts, nil
}

// ProportionalSplit assigns floor(p_i*n) to each bucket, then hands the
// rounding remainder to the buckets with the largest fractional parts.
// Equal fractional parts are resolved in favour of the lower index.
func ProportionalSplit(n int, proportions []float64) ([]int, error) {
	const op = "sampling.ProportionalSplit"
	if n <= 0 {
		return nil, errs.Configf(op, "n must be positive (n=%d)", n)
	}
	if len(proportions) == 0 {
		return nil, errs.Configf(op, "no proportions given")
	}

	sum := 0.0
	for i, p := range proportions {
		if p < 0 || math.IsNaN(p) {
			return nil, errs.Configf(op, "proportion %d is negative (%v)", i, p)
		}
		sum += p
	}
	if math.Abs(sum-1) > ProportionTolerance {
		return nil, errs.Configf(op, "proportions sum to %v, want 1", sum)
	}

	quotas := make([]float64, len(proportions))
	for i, p := range proportions {
		quotas[i] = p * float64(n)
	}
	parts := make([]int, len(quotas))
	distributeRemainder(parts, quotas, n)
	return parts, nil
}

// UnevenSplit divides n items into d buckets with Gamma-distributed weights,
// so that some buckets are intentionally larger than others. variation in
// [0, 1] moves the Gamma shape log-linearly from nearly equal weights (0) to
// strongly uneven weights (1). Every bucket receives at least one item.
func UnevenSplit(rng *rand.Rand, n, d int, variation float64) ([]int, error) {
	const op = "sampling.UnevenSplit"
	if n <= 0 || d <= 0 {
		return nil, errs.Configf(op, "n and d must be positive (n=%d, d=%d)", n, d)
	}
	if d > n {
		return nil, errs.Configf(op, "bucket count %d exceeds item count %d", d, n)
	}
	if !(variation >= 0 && variation <= 1) {
		return nil, errs.Configf(op, "variation must be within [0, 1] (got %v)", variation)
	}

	parts := make([]int, d)
	for i := range parts {
		parts[i] = 1
	}
	rem := n - d
	if rem == 0 {
		return parts, nil
	}

	gamma := distuv.Gamma{
		Alpha: UnevenShape(variation),
		Beta:  1,
		Src:   rng,
	}
	weights := make([]float64, d)
	total := 0.0
	for i := range weights {
		weights[i] = gamma.Rand()
		total += weights[i]
	}

	quotas := make([]float64, d)
	for i := range quotas {
		p := 1 / float64(d)
		if total > 0 {
			p = weights[i] / total
		}
		quotas[i] = p * float64(rem)
	}

	extra := make([]int, d)
	distributeRemainder(extra, quotas, rem)
	for i := range parts {
		parts[i] += extra[i]
	}
	return parts, nil
}

// UnevenShape returns the Gamma shape used by UnevenSplit for a variation.
func UnevenShape(variation float64) float64 {
	return math.Pow(unevenShapeLow, variation) * math.Pow(unevenShapeHigh, 1-variation)
}

// distributeRemainder fills parts with floor(quota) and then gives one extra
// item to buckets in order of decreasing fractional part until the parts sum
// to n. The sort is stable so ties go to the lower index.
func distributeRemainder(parts []int, quotas []float64, n int) {
	assigned := 0
	for i, q := range quotas {
		parts[i] = int(math.Floor(q))
		assigned += parts[i]
	}

	order := make([]int, len(quotas))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		fa := quotas[order[a]] - math.Floor(quotas[order[a]])
		fb := quotas[order[b]] - math.Floor(quotas[order[b]])
		return fa > fb
	})

	// Proportions within tolerance can leave more than len(parts) items over
	// for very large n; keep cycling in the same order.
	for i := 0; assigned < n; i++ {
		parts[order[i%len(order)]]++
		assigned++
	}
	// Proportions summing slightly above 1 can overshoot; take back from the
	// smallest fractional parts first.
	for i := len(order) - 1; assigned > n; i-- {
		if i < 0 {
			i = len(order) - 1
		}
		if parts[order[i]] > 0 {
			parts[order[i]]--
			assigned--
		}
	}
}
