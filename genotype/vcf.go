package genotype

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/carbocation/pfx"
	"github.com/carbocation/snpstat"
	"github.com/carbocation/snpstat/marker"
	"github.com/carbocation/vcfgo"
	log "github.com/sirupsen/logrus"
)

// ReadVCF reads the GT field of every biallelic variant in a VCF. The dosage
// is the number of ALT alleles; a call with any missing allele is Missing.
// Variants without an ID are named chrom:pos.
func ReadVCF(r io.Reader) (*VariantSet, error) {
	buffRead := bufio.NewReaderSize(r, snpstat.BufferSize)
	vcfReader, err := vcfgo.NewReader(buffRead, false)
	if err != nil {
		return nil, pfx.Err(err)
	}

	out := &VariantSet{
		Samples: append([]string{}, vcfReader.Header.SampleNames...),
	}

	multiallelic := 0
	for {
		v := vcfReader.Read()
		if v == nil {
			break
		}

		if len(v.Alt()) != 1 {
			multiallelic++
			continue
		}

		out.Variants = append(out.Variants, vcfVariant(v))
	}

	// vcfgo accumulates recoverable header and parse complaints here.
	if err := vcfReader.Error(); err != nil {
		log.WithError(err).Warnln("VCF reader reported problems")
	}

	if multiallelic > 0 {
		log.WithField("skipped", multiallelic).Infoln("Skipped VCF variants that are not biallelic")
	}

	if len(out.Variants) == 0 && len(out.Samples) == 0 {
		return nil, pfx.Err(fmt.Errorf("no samples or variants found in VCF"))
	}

	return out, nil
}

func vcfVariant(v *vcfgo.Variant) Variant {
	name := v.Id()
	if name == "" || name == "." {
		name = v.Chromosome + ":" + strconv.FormatUint(v.Pos, 10)
	}

	out := Variant{
		Name:       name,
		Chromosome: v.Chromosome,
		Position:   int(v.Pos),
		Alleles:    marker.NewAlleles(v.Ref(), v.Alt()[0]),
		Dosages:    make([]float64, len(v.Samples)),
	}

	for i, sample := range v.Samples {
		out.Dosages[i] = gtDosage(sample)
	}

	return out
}

// gtDosage counts ALT alleles in a diploid GT. Anything else is Missing.
func gtDosage(sample *vcfgo.SampleGenotype) float64 {
	if sample == nil || len(sample.GT) != 2 {
		return Missing
	}

	dosage := 0.0
	for _, allele := range sample.GT {
		switch allele {
		case 0:
		case 1:
			dosage++
		default:
			return Missing
		}
	}

	return dosage
}
