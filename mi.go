package wordclass

import "math"

// LogNoInf returns log2(x), or 0 when x is 0 or the logarithm is infinite or
// NaN.
func LogNoInf(x float64) float64 {
	if x == 0 {
		return 0
	}
	v := math.Log2(x)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}

// EntropyTerm returns p*log2(p), with 0 for p of exactly 0 or 1. Incremental
// marginal updates can leave a cluster's mass a rounding error below zero;
// such values also contribute 0.
func EntropyTerm(p float64) float64 {
	if p <= 0 || p == 1 {
		return 0
	}
	return p * math.Log2(p)
}

// MI returns the mutual information contribution of a joint probability and
// its left and right marginals: joint*log2(joint/(pl*pr)). Any zero argument
// contributes 0.
func MI(joint, pl, pr float64) float64 {
	if joint == 0 || pl == 0 || pr == 0 {
		return 0
	}
	return joint * LogNoInf(joint/(pl*pr))
}
