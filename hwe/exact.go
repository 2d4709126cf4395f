// Package hwe computes Hardy-Weinberg equilibrium p-values from genotype class
// counts.
package hwe

// tieTolerance treats configurations whose probability is within this
// relative distance of the observed one as equally extreme.
const tieTolerance = 1 + 1e-7

// Exact computes the exact Hardy-Weinberg p-value of Wigginton, Cutler and
// Abecasis (AJHG 2005). The probabilities of every heterozygote count that is
// reachable with the observed allele counts are built by recurrence outward
// from the most likely count, so no factorials are needed. The p-value is the
// total probability of configurations no more likely than the observed one.
//
// With no genotyped individuals there is no evidence of disequilibrium and 1
// is returned.
func Exact(AA, Aa, aa int64) float64 {
	homRare, homCommon := aa, AA
	if homRare > homCommon {
		homRare, homCommon = homCommon, homRare
	}

	genotypes := AA + Aa + aa
	if genotypes == 0 {
		return 1
	}

	rareCopies := 2*homRare + Aa
	probs := make([]float64, rareCopies+1)

	// Start at the expected heterozygote count, with the parity of rareCopies.
	mid := rareCopies * (2*genotypes - rareCopies) / (2 * genotypes)
	if mid%2 != rareCopies%2 {
		mid++
	}

	probs[mid] = 1
	sum := 1.0

	currHomRare := (rareCopies - mid) / 2
	currHomCommon := genotypes - mid - currHomRare
	for hets := mid; hets > 1; hets -= 2 {
		probs[hets-2] = probs[hets] * float64(hets) * float64(hets-1) /
			(4 * float64(currHomRare+1) * float64(currHomCommon+1))
		sum += probs[hets-2]
		currHomRare++
		currHomCommon++
	}

	currHomRare = (rareCopies - mid) / 2
	currHomCommon = genotypes - mid - currHomRare
	for hets := mid; hets <= rareCopies-2; hets += 2 {
		probs[hets+2] = probs[hets] * 4 * float64(currHomRare) * float64(currHomCommon) /
			(float64(hets+2) * float64(hets+1))
		sum += probs[hets+2]
		currHomRare--
		currHomCommon--
	}

	observed := probs[Aa] * tieTolerance
	p := 0.0
	for _, prob := range probs {
		if prob <= observed {
			p += prob
		}
	}

	p /= sum
	if p > 1 {
		return 1
	}

	return p
}
