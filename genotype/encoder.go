package genotype

import (
	"fmt"
	"math"
	"strings"

	"github.com/carbocation/snpstat/marker"
)

// Encoding selects how raw genotype tokens are turned into dosages.
type Encoding int

const (
	// PreCoded tokens are already dosages: "0", "1" or "2".
	PreCoded Encoding = 1

	// AllelePair tokens are two allele characters, e.g. "AG". The reference
	// and alternate labels of each marker are learned from the data.
	AllelePair Encoding = 2
)

func (e Encoding) String() string {
	switch e {
	case PreCoded:
		return "precoded"
	case AllelePair:
		return "allelepair"
	}

	return fmt.Sprintf("Encoding(%d)", int(e))
}

// ParseEncoding accepts the numeric codes of the original -a flag (1, 2) as
// well as the names returned by String.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(name) {
	case "1", "precoded", "pre-coded", "012":
		return PreCoded, nil
	case "2", "allelepair", "allele-pair", "pair":
		return AllelePair, nil
	}

	return 0, fmt.Errorf("Allele encoding %q is not recognized. Valid values are 1 (precoded) or 2 (allelepair)", name)
}

// Missing is the sentinel for a call that could not be resolved. It is NaN so
// that it can never collide with a valid dosage of 0.
var Missing = math.NaN()

// IsMissing reports whether a dosage is the missing sentinel.
func IsMissing(dosage float64) bool {
	return math.IsNaN(dosage)
}

// Encode converts a raw token into a dosage. In AllelePair mode, alleles is
// the marker's label state and may gain labels as a side effect.
func Encode(token string, alleles *marker.Alleles, e Encoding) float64 {
	if e == AllelePair {
		return EncodeAllelePair(token, alleles)
	}

	return EncodePreCoded(token)
}

// EncodePreCoded maps "0", "1" and "2" to their dosage; every other token is
// missing.
func EncodePreCoded(token string) float64 {
	switch token {
	case "0":
		return 0
	case "1":
		return 1
	case "2":
		return 2
	}

	return Missing
}

// EncodeAllelePair resolves a two-character allele call against the labels
// known for its marker, learning new labels along the way:
//
//   - a heterozygous call with no known labels sets both labels;
//   - a heterozygous call carrying label 1 sets label 2 from its other allele;
//   - a homozygous call with no known labels sets label 1;
//   - a homozygous call that differs from label 1 sets label 2 if it is unknown.
//
// Homozygous label 1 is dosage 0, heterozygous is 1 and homozygous label 2 is
// 2. Calls containing the no-call character, calls of the wrong length and
// calls that conflict with the known labels are missing.
func EncodeAllelePair(token string, alleles *marker.Alleles) float64 {
	if len(token) != 2 {
		return Missing
	}

	a, b := token[0], token[1]
	if a == marker.NoCall || b == marker.NoCall {
		return Missing
	}

	first, hasFirst := alleles.First()
	second, hasSecond := alleles.Second()

	if a != b {
		switch {
		case !hasFirst:
			alleles.SetFirst(a)
			alleles.SetSecond(b)
			return 1
		case !hasSecond:
			if a == first {
				alleles.SetSecond(b)
				return 1
			}
			if b == first {
				alleles.SetSecond(a)
				return 1
			}
			return Missing
		case (a == first && b == second) || (a == second && b == first):
			return 1
		}

		return Missing
	}

	switch {
	case !hasFirst:
		alleles.SetFirst(a)
		return 0
	case a == first:
		return 0
	case !hasSecond:
		alleles.SetSecond(a)
		return 2
	case a == second:
		return 2
	}

	// A third allele
	return Missing
}

// Token renders a dosage the way the masked genotype table stores it.
func Token(dosage float64) string {
	switch {
	case IsMissing(dosage):
		return "-1"
	case dosage == 0:
		return "0"
	case dosage == 1:
		return "1"
	case dosage == 2:
		return "2"
	}

	return "-1"
}
