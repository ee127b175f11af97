package sampling

// MovingAverage convolves values with a rectangular kernel of the given width
// and returns a slice of the same length. The window for output i spans
// [i-width/2, i+(width-1)/2] after centring, values outside the input count
// as zero, and every sum is divided by width.
func MovingAverage(values []float64, width int) []float64 {
	n := len(values)
	out := make([]float64, n)
	if n == 0 || width <= 0 {
		return out
	}

	prefix := make([]float64, n+1)
	for i, v := range values {
		prefix[i+1] = prefix[i] + v
	}

	center := (width - 1) / 2
	for i := range out {
		hi := i + center       // inclusive
		lo := hi - (width - 1) // inclusive
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		if hi < lo {
			continue
		}
		out[i] = (prefix[hi+1] - prefix[lo]) / float64(width)
	}
	return out
}

// Rescale shifts values so the minimum is 0 and scales so the maximum is 1.
// A constant input maps to all ones. The input is not modified.
func Rescale(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	for i, v := range values {
		if span == 0 {
			out[i] = 1
			continue
		}
		out[i] = (v - lo) / span
	}
	return out
}
