// Package report summarizes a checked dataset: per-marker allele statistics,
// per-individual call counts and the masked genotype table, with writers for
// text, SQLite, BigQuery and spreadsheet sinks.
package report

import (
	"math"

	"github.com/carbocation/snpstat/genotype"
	"github.com/carbocation/snpstat/hwe"
	"github.com/carbocation/snpstat/mendel"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
)

// MarkerStats describes one marker after masking. A0, A1 and A2 count the
// individuals with each dosage and An the individuals without a call.
type MarkerStats struct {
	Name       string
	Chromosome string
	Position   int
	Alleles    string

	MAF float64
	A0  int
	A1  int
	A2  int
	An  int

	Discordant int
	ErrorRate  float64

	// HWE is the Hardy-Weinberg equilibrium p-value of the called genotypes.
	HWE float64
}

// Called is the number of individuals with a call.
func (s MarkerStats) Called() int {
	return s.A0 + s.A1 + s.A2
}

// Compute derives the statistics of every marker, in marker rank order. MAF,
// ErrorRate and HWE are NaN for a marker with no calls. hweCutoff is passed to
// hwe.Fast.
func Compute(m *mendel.Masked, hweCutoff float64) []MarkerStats {
	out := make([]MarkerStats, 0, m.Markers.Len())

	for _, mk := range m.Markers.Markers() {
		s := MarkerStats{
			Name:       mk.Name,
			Chromosome: mk.Chromosome,
			Position:   mk.Position,
			Alleles:    mk.Alleles.String(),
		}

		dosages := m.Genotypes.Col(mk.Rank)
		for _, d := range dosages {
			switch {
			case genotype.IsMissing(d):
				s.An++
			case d == 0:
				s.A0++
			case d == 1:
				s.A1++
			case d == 2:
				s.A2++
			}
		}

		called := lo.Filter(dosages, func(d float64, _ int) bool { return !genotype.IsMissing(d) })
		s.Discordant = int(floats.Sum(m.Discordance.Col(mk.Rank)))
		s.MAF = MinorAlleleFrequency(floats.Sum(called), len(called))
		s.ErrorRate = ErrorRate(s.Discordant, len(called))

		s.HWE = math.NaN()
		if len(called) > 0 {
			s.HWE = hwe.Fast(int64(s.A0), int64(s.A1), int64(s.A2), hweCutoff)
		}

		out = append(out, s)
	}

	return out
}

// MinorAlleleFrequency converts the dosage sum over n called individuals into
// the frequency of the less common allele. It is NaN when n is 0.
func MinorAlleleFrequency(sum float64, n int) float64 {
	if n == 0 {
		return math.NaN()
	}

	maf := sum / float64(2*n)
	if maf > 0.5 {
		maf = 1 - maf
	}

	return maf
}

// ErrorRate is the share of discordant calls among all calls made before
// masking. It is NaN when no call survived masking.
func ErrorRate(discordant, called int) float64 {
	if called == 0 {
		return math.NaN()
	}

	return float64(discordant) / float64(called+discordant)
}
