package report

import (
	"github.com/carbocation/snpstat/genotype"
	"github.com/carbocation/snpstat/mendel"
)

// IndividualStats counts the calls of one individual after masking.
// Discordant calls are included in Missing.
type IndividualStats struct {
	ID     string `csv:"id" db:"id" bigquery:"id"`
	Father string `csv:"father" db:"father" bigquery:"father"`
	Mother string `csv:"mother" db:"mother" bigquery:"mother"`
	Family int    `csv:"family" db:"family" bigquery:"family"`

	Genotyped  int `csv:"genotyped" db:"genotyped" bigquery:"genotyped"`
	Missing    int `csv:"missing" db:"missing" bigquery:"missing"`
	Discordant int `csv:"discordant" db:"discordant" bigquery:"discordant"`
}

// ComputeIndividuals derives per-individual counts in pedigree rank order.
// Family numbers come from pedigree.Graph.FamilyIndex.
func ComputeIndividuals(m *mendel.Masked) []IndividualStats {
	families := m.Pedigree.FamilyIndex()
	_, cols := m.Genotypes.Dims()

	out := make([]IndividualStats, 0, m.Pedigree.Len())
	for _, ind := range m.Pedigree.Individuals() {
		s := IndividualStats{
			ID:     ind.ID,
			Father: ind.Father,
			Mother: ind.Mother,
			Family: families[ind.ID],
		}

		if cols > 0 {
			for _, d := range m.Genotypes.Row(ind.Rank) {
				if genotype.IsMissing(d) {
					s.Missing++
				} else {
					s.Genotyped++
				}
			}
			for _, flagged := range m.Discordance.Row(ind.Rank) {
				if flagged == 1 {
					s.Discordant++
				}
			}
		}

		out = append(out, s)
	}

	return out
}
