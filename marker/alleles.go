package marker

// NoCall is the allele character that denotes a failed call. It is never
// registered as an allele.
const NoCall byte = '0'

// Alleles holds the allele labels known for one marker. The first label is
// the "reference" allele (dosage 0 when homozygous) and the second is the
// "alternate" allele. Labels are learned in encounter order and, once set,
// never change.
type Alleles struct {
	first, second       byte
	hasFirst, hasSecond bool
}

// NewAlleles seeds the labels from a marker table. Labels that are not a
// single character, or that are the no-call character, are left unknown.
func NewAlleles(allele1, allele2 string) Alleles {
	a := Alleles{}
	if len(allele1) == 1 && allele1[0] != NoCall {
		a.SetFirst(allele1[0])
	}
	if len(allele2) == 1 && allele2[0] != NoCall && a.hasFirst && allele2[0] != a.first {
		a.SetSecond(allele2[0])
	}

	return a
}

func (a Alleles) First() (byte, bool) {
	return a.first, a.hasFirst
}

func (a Alleles) Second() (byte, bool) {
	return a.second, a.hasSecond
}

// SetFirst records the first label if none is known yet.
func (a *Alleles) SetFirst(label byte) bool {
	if a.hasFirst || label == NoCall {
		return false
	}
	a.first, a.hasFirst = label, true

	return true
}

// SetSecond records the second label. It requires the first label to be known
// and distinct.
func (a *Alleles) SetSecond(label byte) bool {
	if !a.hasFirst || a.hasSecond || label == NoCall || label == a.first {
		return false
	}
	a.second, a.hasSecond = label, true

	return true
}

// Len is the number of known labels.
func (a Alleles) Len() int {
	switch {
	case a.hasSecond:
		return 2
	case a.hasFirst:
		return 1
	}

	return 0
}

// String renders the known labels, e.g. "", "A" or "AG".
func (a Alleles) String() string {
	out := make([]byte, 0, 2)
	if a.hasFirst {
		out = append(out, a.first)
	}
	if a.hasSecond {
		out = append(out, a.second)
	}

	return string(out)
}
