package hwe

import (
	"math"

	"github.com/tokenme/probab/dst"
)

// Approximate is the one degree of freedom chi square test of Hardy-Weinberg
// equilibrium. It is quick but unreliable when a genotype class is rare.
func Approximate(AA, Aa, aa int64) (p float64) {
	// dst panics on out of range input; such input yields p = 0.
	defer func() { recover() }()

	chi := ChiSquare(AA, Aa, aa)
	if chi == 0 {
		return 1
	}

	p = 1.0 - dst.ChiSquareCDF(1)(chi)

	return
}

// ChiSquare measures how far the observed genotype counts are from the counts
// expected under Hardy-Weinberg proportions given the observed allele
// frequencies. A monomorphic site has a chi square of 0.
func ChiSquare(AA, Aa, aa int64) float64 {
	A := float64(2*AA + Aa)
	a := float64(2*aa + Aa)
	if A == 0 || a == 0 {
		return 0
	}

	n := float64(AA + Aa + aa)
	p := A / (A + a)
	q := a / (A + a)

	expected := [3]float64{p * p * n, 2 * p * q * n, q * q * n}
	observed := [3]float64{float64(AA), float64(Aa), float64(aa)}

	chi := 0.0
	for i := range expected {
		chi += math.Pow(observed[i]-expected[i], 2) / expected[i]
	}

	return chi
}
