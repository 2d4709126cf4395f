package genotype

import (
	"fmt"

	"github.com/carbocation/pfx"
	"github.com/carbocation/snpstat/marker"
	"github.com/carbocation/snpstat/pedigree"
	log "github.com/sirupsen/logrus"
)

// Variant is one marker read from a variant-major source such as VCF or BGEN.
// Dosages are indexed like VariantSet.Samples and count copies of the second
// allele; Missing marks an absent call.
type Variant struct {
	Name       string
	Chromosome string
	Position   int
	Alleles    marker.Alleles
	Dosages    []float64
}

// VariantSet holds a whole variant-major source in memory until the pedigree
// and marker set are known.
type VariantSet struct {
	Samples  []string
	Variants []Variant
}

// RegisterMarkers adds every variant to reg, in file order.
func (vs *VariantSet) RegisterMarkers(reg *marker.Registry) error {
	for _, v := range vs.Variants {
		if _, err := reg.Add(v.Name, v.Chromosome, v.Position, v.Alleles); err != nil {
			return err
		}
	}

	return nil
}

// RegisterSamples adds every sample to ped as an individual without parents.
// This is only useful when no pedigree file was given, in which case no
// consistency check can take place.
func (vs *VariantSet) RegisterSamples(ped *pedigree.Graph) {
	log.Warnln("No pedigree was provided; samples are registered without parents and no Mendelian check will happen")
	for _, sample := range vs.Samples {
		ped.Add(sample, pedigree.Unknown, pedigree.Unknown)
	}
	ped.Finalize()
}

// Fill places the dosages into ds. Every sample must be in the pedigree.
// Variants whose marker is not registered are skipped.
func (vs *VariantSet) Fill(ds *Dataset) error {
	if ds.Released() {
		return pfx.Err(fmt.Errorf("cannot load genotypes into a released dataset"))
	}

	individuals := make([]*pedigree.Individual, len(vs.Samples))
	for i, sample := range vs.Samples {
		ind, err := ds.individual(sample)
		if err != nil {
			return err
		}
		individuals[i] = ind
	}

	skipped := 0
	for _, v := range vs.Variants {
		m, exists := ds.Markers.Lookup(v.Name)
		if !exists {
			skipped++
			continue
		}
		if len(v.Dosages) != len(individuals) {
			return pfx.Err(fmt.Errorf("variant %s has %d dosages for %d samples", v.Name, len(v.Dosages), len(individuals)))
		}

		for i, dosage := range v.Dosages {
			ds.Set(individuals[i], m, dosage)
		}
	}

	if skipped > 0 {
		log.WithField("skipped", skipped).Infoln("Skipped variants that are not in the marker set")
	}

	return nil
}
