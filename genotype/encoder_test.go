package genotype

import (
	"testing"

	"github.com/carbocation/snpstat/marker"
)

func TestEncodePreCoded(t *testing.T) {
	type expectation struct {
		token   string
		dosage  float64
		missing bool
	}
	for _, v := range []expectation{
		{"0", 0, false},
		{"1", 1, false},
		{"2", 2, false},
		{"3", 0, true},
		{"-1", 0, true},
		{"", 0, true},
		{"NA", 0, true},
	} {
		got := EncodePreCoded(v.token)
		if v.missing {
			if !IsMissing(got) {
				t.Errorf("%q: expected missing, got %v", v.token, got)
			}
			continue
		}
		if got != v.dosage {
			t.Errorf("%q: expected %v, got %v", v.token, v.dosage, got)
		}
	}
}

// expectSequence encodes tokens in order against a single marker and compares
// the dosages, using -1 for missing.
func expectSequence(t *testing.T, alleles *marker.Alleles, tokens []string, expected []float64) {
	t.Helper()

	for i, token := range tokens {
		got := EncodeAllelePair(token, alleles)
		if expected[i] < 0 {
			if !IsMissing(got) {
				t.Errorf("Token %d (%q): expected missing, got %v", i, token, got)
			}
			continue
		}
		if got != expected[i] {
			t.Errorf("Token %d (%q): expected %v, got %v", i, token, expected[i], got)
		}
	}
}

func TestEncodeAllelePairLearnsLabels(t *testing.T) {
	alleles := marker.Alleles{}
	expectSequence(t, &alleles, []string{"AA", "AB", "BB", "00"}, []float64{0, 1, 2, -1})

	if alleles.String() != "AB" {
		t.Errorf("Expected labels AB, got %q", alleles.String())
	}
}

func TestEncodeAllelePairHeterozygousFirst(t *testing.T) {
	alleles := marker.Alleles{}
	expectSequence(t, &alleles, []string{"GT", "TG", "GG", "TT", "GC"}, []float64{1, 1, 0, 2, -1})

	if alleles.String() != "GT" {
		t.Errorf("Expected labels GT, got %q", alleles.String())
	}
}

func TestEncodeAllelePairSecondLabelFromHomozygote(t *testing.T) {
	alleles := marker.Alleles{}
	expectSequence(t, &alleles, []string{"CC", "TT", "CT", "TC", "AA"}, []float64{0, 2, 1, 1, -1})
}

func TestEncodeAllelePairWithOnlyFirstLabel(t *testing.T) {
	alleles := marker.Alleles{}
	alleles.SetFirst('A')

	// The heterozygote must carry the known label.
	expectSequence(t, &alleles, []string{"CG", "CA", "CC", "AC"}, []float64{-1, 1, 2, 1})
}

func TestEncodeAllelePairSeededLabels(t *testing.T) {
	alleles := marker.NewAlleles("A", "G")
	expectSequence(t, &alleles, []string{"GG", "AA", "GA", "AT", "TT"}, []float64{2, 0, 1, -1, -1})

	if alleles.String() != "AG" {
		t.Errorf("Labels should not change, got %q", alleles.String())
	}
}

func TestEncodeAllelePairMalformed(t *testing.T) {
	alleles := marker.Alleles{}
	expectSequence(t, &alleles, []string{"A", "AAA", "", "0A", "A0", "00"}, []float64{-1, -1, -1, -1, -1, -1})

	if alleles.Len() != 0 {
		t.Errorf("Malformed calls should not set labels, got %q", alleles.String())
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	tokens := []string{"CT", "TT", "CC", "00", "CA", "TC"}

	first := marker.Alleles{}
	second := marker.Alleles{}
	for _, token := range tokens {
		a := EncodeAllelePair(token, &first)
		b := EncodeAllelePair(token, &second)
		if a != b && !(IsMissing(a) && IsMissing(b)) {
			t.Errorf("%q encoded to %v and %v", token, a, b)
		}
	}
	if first.String() != second.String() {
		t.Errorf("Labels diverged: %q vs %q", first.String(), second.String())
	}
}

func TestEncodeDispatch(t *testing.T) {
	alleles := marker.Alleles{}
	if got := Encode("2", &alleles, PreCoded); got != 2 {
		t.Errorf("Expected 2, got %v", got)
	}
	if got := Encode("AG", &alleles, AllelePair); got != 1 {
		t.Errorf("Expected 1, got %v", got)
	}
	if got := Encode("2", &alleles, AllelePair); !IsMissing(got) {
		t.Errorf("A pre-coded token is not an allele pair, got %v", got)
	}
}

func TestToken(t *testing.T) {
	for dosage, expected := range map[float64]string{
		0:   "0",
		1:   "1",
		2:   "2",
		0.5: "-1",
	} {
		if got := Token(dosage); got != expected {
			t.Errorf("%v: expected %q, got %q", dosage, expected, got)
		}
	}
	if got := Token(Missing); got != "-1" {
		t.Errorf("Missing: expected -1, got %q", got)
	}
}

func TestParseEncoding(t *testing.T) {
	for name, expected := range map[string]Encoding{
		"1":          PreCoded,
		"precoded":   PreCoded,
		"2":          AllelePair,
		"AlleLePair": AllelePair,
	} {
		got, err := ParseEncoding(name)
		if err != nil {
			t.Fatal(err)
		}
		if got != expected {
			t.Errorf("%q: expected %v, got %v", name, expected, got)
		}
	}

	if _, err := ParseEncoding("3"); err == nil {
		t.Error("Expected an error for an unknown encoding")
	}
}
