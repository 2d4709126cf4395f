// Package mendel finds genotype calls that cannot be explained by Mendelian
// inheritance from an individual's registered parents, and masks them.
package mendel

import (
	"math"

	"github.com/carbocation/snpstat/genotype"
	"github.com/carbocation/snpstat/marker"
	"github.com/carbocation/snpstat/pedigree"
	log "github.com/sirupsen/logrus"
)

// Masked is a dataset after the consistency check. Discordant cells of
// Genotypes have been set to genotype.Missing and are marked with 1 in
// Discordance.
type Masked struct {
	Pedigree    *pedigree.Graph
	Markers     *marker.Registry
	Genotypes   *genotype.Matrix
	Discordance *genotype.Matrix

	// DiscordantCalls is the total number of masked cells.
	DiscordantCalls int
}

// Discordant tests one child call against its parents' calls. f, m and c are
// dosages; a parent that is not registered is passed with its has flag false.
// Missing values never flag.
func Discordant(f, m, c float64, hasFather, hasMother bool) bool {
	if genotype.IsMissing(c) {
		return false
	}

	// Centered dosages are -1, 0 or +1. A product of -1 means opposite
	// homozygotes.
	c--
	f--
	m--

	if hasFather && !math.IsNaN(f) && f*c == -1 {
		return true
	}
	if hasMother && !math.IsNaN(m) && m*c == -1 {
		return true
	}
	if hasFather && hasMother && !math.IsNaN(f) && !math.IsNaN(m) && f*m-c*c == 1 {
		return true
	}

	return false
}

// Check releases the genotype matrix from ds, marks every call that conflicts
// with a registered parent and masks it. All discordance is computed against
// the unmasked matrix before any cell is masked, so the outcome does not
// depend on the order in which individuals are visited. Check fails if the
// matrix has already been released.
func Check(ds *genotype.Dataset) (*Masked, error) {
	g, err := ds.Release()
	if err != nil {
		return nil, err
	}

	rows, cols := g.Dims()
	out := &Masked{
		Pedigree:    ds.Pedigree,
		Markers:     ds.Markers,
		Genotypes:   g,
		Discordance: genotype.NewMatrix(rows, cols, 0),
	}

	checked, unregistered := 0, 0
	for _, ind := range ds.Pedigree.Individuals() {
		father, hasFather := ds.Pedigree.Father(ind)
		mother, hasMother := ds.Pedigree.Mother(ind)
		if (ind.HasFather() && !hasFather) || (ind.HasMother() && !hasMother) {
			unregistered++
			log.WithField("individual", ind.ID).Debugln("A named parent is not in the pedigree and is left out of the check")
		}
		if !hasFather && !hasMother {
			continue
		}
		checked++

		child := g.Row(ind.Rank)
		fatherRow, motherRow := missingRow(cols), missingRow(cols)
		if hasFather {
			fatherRow = g.Row(father.Rank)
		}
		if hasMother {
			motherRow = g.Row(mother.Rank)
		}

		for j := 0; j < cols; j++ {
			if Discordant(fatherRow[j], motherRow[j], child[j], hasFather, hasMother) {
				out.Discordance.Set(ind.Rank, j, 1)
				out.DiscordantCalls++
			}
		}
	}

	for i := 0; i < rows; i++ {
		for j, flagged := range out.Discordance.Row(i) {
			if flagged == 1 {
				g.Set(i, j, genotype.Missing)
			}
		}
	}

	if unregistered > 0 {
		log.WithField("individuals", unregistered).Warnln("Some individuals name a parent that is not in the pedigree")
	}

	log.WithFields(log.Fields{
		"individuals_checked": checked,
		"discordant_calls":    out.DiscordantCalls,
	}).Infoln("Mendelian consistency check complete")

	return out, nil
}

func missingRow(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = genotype.Missing
	}

	return out
}
