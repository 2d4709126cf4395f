package genotype

import (
	"math"
	"strings"
	"testing"

	"github.com/carbocation/snpstat/marker"
	"github.com/carbocation/snpstat/pedigree"
	"github.com/carbocation/vcfgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trioVCF = "##fileformat=VCFv4.2\n" +
	"##FORMAT=<ID=GT,Number=1,Type=String,Description=\"Genotype\">\n" +
	"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tdad\tmom\tkid\n" +
	"1\t100\trs1\tA\tG\t.\tPASS\t.\tGT\t0/0\t0|1\t1/1\n" +
	"1\t200\t.\tC\tT,G\t.\tPASS\t.\tGT\t0/1\t1/2\t0/0\n" +
	"2\t300\t.\tG\tT\t50\tPASS\t.\tGT\t./.\t1\t0/1\n"

func TestGTDosage(t *testing.T) {
	type expectation struct {
		gt       []int
		expected float64
	}

	expectations := []expectation{
		{[]int{0, 0}, 0},
		{[]int{0, 1}, 1},
		{[]int{1, 0}, 1},
		{[]int{1, 1}, 2},
		{[]int{-1, -1}, Missing},
		{[]int{0, -1}, Missing},
		{[]int{1}, Missing},
		{[]int{0, 2}, Missing},
		{[]int{0, 1, 1}, Missing},
		{nil, Missing},
	}

	for _, v := range expectations {
		got := gtDosage(&vcfgo.SampleGenotype{GT: v.gt})
		if math.IsNaN(v.expected) {
			if !IsMissing(got) {
				t.Errorf("GT %v: expected missing, got %v", v.gt, got)
			}
			continue
		}
		if got != v.expected {
			t.Errorf("GT %v: expected %v, got %v", v.gt, v.expected, got)
		}
	}

	if !IsMissing(gtDosage(nil)) {
		t.Error("A nil sample should be missing")
	}
}

func TestReadVCF(t *testing.T) {
	vs, err := ReadVCF(strings.NewReader(trioVCF))
	require.NoError(t, err)

	assert.Equal(t, []string{"dad", "mom", "kid"}, vs.Samples)
	require.Len(t, vs.Variants, 2, "the multi-allelic variant is skipped")

	rs1 := vs.Variants[0]
	assert.Equal(t, "rs1", rs1.Name)
	assert.Equal(t, "1", rs1.Chromosome)
	assert.Equal(t, 100, rs1.Position)
	assert.Equal(t, []float64{0, 1, 2}, rs1.Dosages)
	first, _ := rs1.Alleles.First()
	second, _ := rs1.Alleles.Second()
	assert.Equal(t, byte('A'), first)
	assert.Equal(t, byte('G'), second)

	unnamed := vs.Variants[1]
	assert.Equal(t, "2:300", unnamed.Name)
	assert.True(t, IsMissing(unnamed.Dosages[0]))
	assert.True(t, IsMissing(unnamed.Dosages[1]), "haploid calls are missing")
	assert.Equal(t, 1.0, unnamed.Dosages[2])
}

func TestReadVCFIntoDataset(t *testing.T) {
	vs, err := ReadVCF(strings.NewReader(trioVCF))
	require.NoError(t, err)

	ped := pedigree.New()
	ped.Add("kid", "dad", "mom")
	ped.Add("dad", pedigree.Unknown, pedigree.Unknown)
	ped.Add("mom", pedigree.Unknown, pedigree.Unknown)

	reg := marker.NewRegistry()
	require.NoError(t, vs.RegisterMarkers(reg))
	assert.Equal(t, []string{"rs1", "2:300"}, reg.Names())

	ds := NewDataset(ped, reg)
	require.NoError(t, vs.Fill(ds))

	g := ds.Genotypes()
	// Rows follow pedigree rank: kid, dad, mom.
	assert.Equal(t, 2.0, g.At(0, 0))
	assert.Equal(t, 0.0, g.At(1, 0))
	assert.Equal(t, 1.0, g.At(2, 0))
	assert.Equal(t, 1.0, g.At(0, 1))
	assert.True(t, IsMissing(g.At(1, 1)))
	assert.True(t, IsMissing(g.At(2, 1)))
}

func TestReadVCFRejectsMalformedHeader(t *testing.T) {
	_, err := ReadVCF(strings.NewReader("not a vcf\n"))
	assert.Error(t, err)
}
