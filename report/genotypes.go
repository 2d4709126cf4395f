package report

import (
	"bufio"
	"io"

	"github.com/carbocation/pfx"
	"github.com/carbocation/snpstat"
	"github.com/carbocation/snpstat/genotype"
	"github.com/carbocation/snpstat/mendel"
	"github.com/carbocation/snpstat/pedigree"
)

// WriteGenotypes writes the masked genotype table in the shape it was read:
// a "#" header of marker names, then one row per individual in rank order
// holding the identifier, the father and mother when relationshipColumns
// allows, and one token per marker.
func WriteGenotypes(w io.Writer, m *mendel.Masked, relationshipColumns int) error {
	bw := bufio.NewWriterSize(w, snpstat.BufferSize)

	bw.WriteString("#")
	for _, name := range m.Markers.Names() {
		bw.WriteByte('\t')
		bw.WriteString(name)
	}
	bw.WriteByte('\n')

	for _, ind := range m.Pedigree.Individuals() {
		bw.WriteString(ind.ID)
		if relationshipColumns > pedigree.ColFather {
			bw.WriteByte('\t')
			bw.WriteString(ind.Father)
		}
		if relationshipColumns > pedigree.ColMother {
			bw.WriteByte('\t')
			bw.WriteString(ind.Mother)
		}

		for _, d := range m.Genotypes.Row(ind.Rank) {
			bw.WriteByte('\t')
			bw.WriteString(genotype.Token(d))
		}
		bw.WriteByte('\n')
	}

	if err := bw.Flush(); err != nil {
		return pfx.Err(err)
	}

	return nil
}
