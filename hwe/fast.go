package hwe

import "github.com/BenLubar/memoize"

var memoizedExact = memoize.Memoize(Exact)
var memoizedApproximate = memoize.Memoize(Approximate)

// Fast runs the chi square approximation and only falls back to the exact
// test when the approximate p-value is below cutoff. Results are memoized, as
// many markers share the same genotype counts. Fast is safe for concurrent
// use.
func Fast(AA, Aa, aa int64, cutoff float64) float64 {
	p := memoizedApproximate.(func(int64, int64, int64) float64)(AA, Aa, aa)
	if p < cutoff {
		return memoizedExact.(func(int64, int64, int64) float64)(AA, Aa, aa)
	}

	return p
}

// DefaultCutoff is the approximate p-value below which Fast computes the exact
// p-value.
const DefaultCutoff = 0.05
