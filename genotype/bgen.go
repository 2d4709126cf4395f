package genotype

import (
	"fmt"

	"github.com/carbocation/bgen"
	"github.com/carbocation/pfx"
	"github.com/carbocation/snpstat/marker"
	log "github.com/sirupsen/logrus"
)

// DefaultMinProbability is the genotype probability a BGEN call needs before
// it is turned into a hard call.
const DefaultMinProbability = 0.9

// ReadBGEN reads every biallelic, diploid variant of a BGEN file and turns its
// genotype probabilities into hard calls. A call is made when the most likely
// genotype reaches minProb; otherwise it is Missing. The dosage counts copies
// of the second allele.
func ReadBGEN(path string, minProb float64) (*VariantSet, error) {
	b, err := bgen.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer b.File.Close()

	samples, err := bgen.ReadSamples(b)
	if err != nil {
		return nil, pfx.Err(err)
	}

	out := &VariantSet{
		Samples: make([]string, len(samples)),
	}
	for i, s := range samples {
		out.Samples[i] = s.SampleID
	}

	multiallelic, noProbabilities := 0, 0
	vr := b.NewVariantReader()
	for variant := vr.Read(); variant != nil; variant = vr.Read() {
		if len(variant.Alleles) != 2 {
			multiallelic++
			continue
		}

		v := Variant{
			Name:       variant.RSID,
			Chromosome: variant.Chromosome,
			Position:   int(variant.Position),
			Alleles:    marker.NewAlleles(string(variant.Alleles[0]), string(variant.Alleles[1])),
			Dosages:    make([]float64, len(out.Samples)),
		}
		if v.Name == "" || v.Name == "." {
			v.Name = variant.ID
		}

		if variant.SampleProbabilities == nil {
			noProbabilities++
			for i := range v.Dosages {
				v.Dosages[i] = Missing
			}
		} else {
			if n := len(variant.SampleProbabilities); n != len(out.Samples) {
				return nil, pfx.Err(fmt.Errorf("variant %s has probabilities for %d samples but the file has %d", v.Name, n, len(out.Samples)))
			}
			for i := range variant.SampleProbabilities {
				v.Dosages[i] = HardCall(&variant.SampleProbabilities[i], minProb)
			}
		}

		out.Variants = append(out.Variants, v)
	}
	if err := vr.Error(); err != nil {
		return nil, pfx.Err(err)
	}

	if multiallelic > 0 {
		log.WithField("skipped", multiallelic).Infoln("Skipped BGEN variants that are not biallelic")
	}
	if noProbabilities > 0 {
		log.WithField("variants", noProbabilities).Warnln("BGEN variants carried no genotype probabilities and were treated as missing")
	}

	return out, nil
}

// HardCall converts one sample's genotype probabilities into a dosage. Only
// unphased diploid samples with three probabilities can be called.
func HardCall(sp *bgen.SampleProbability, minProb float64) float64 {
	if sp == nil || sp.Missing || sp.Ploidy != 2 || len(sp.Probabilities) != 3 {
		return Missing
	}

	best := 0
	for i, p := range sp.Probabilities {
		if p > sp.Probabilities[best] {
			best = i
		}
	}
	if sp.Probabilities[best] < minProb {
		return Missing
	}

	return float64(best)
}
