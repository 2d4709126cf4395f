package snpstat

import (
	"reflect"
	"strings"
	"testing"
)

func TestFieldScannerWhitespace(t *testing.T) {
	input := "#\tm1\tm2\n\nind1  0 0\tAA AB\r\n   \nind2 ind1 0 BB AB\n"

	s := NewFieldScanner(strings.NewReader(input), Whitespace)

	type line struct {
		comment bool
		fields  []string
		lineNo  int
	}

	var got []line
	for s.Scan() {
		got = append(got, line{s.IsComment(), s.Fields(), s.Line()})
	}
	if err := s.Err(); err != nil {
		t.Fatal(err)
	}

	expected := []line{
		{true, []string{"m1", "m2"}, 1},
		{false, []string{"ind1", "0", "0", "AA", "AB"}, 3},
		{false, []string{"ind2", "ind1", "0", "BB", "AB"}, 5},
	}

	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("Got %+v, expected %+v", got, expected)
	}
}

func TestFieldScannerFixedDelimiter(t *testing.T) {
	s := NewFieldScanner(strings.NewReader("a, b ,c\n"), ',')
	if !s.Scan() {
		t.Fatal("Expected a line")
	}

	if expected := []string{"a", "b", "c"}; !reflect.DeepEqual(s.Fields(), expected) {
		t.Fatalf("Got %v, expected %v", s.Fields(), expected)
	}
}

func TestFieldScannerAutoDelimiter(t *testing.T) {
	input := "id,father,mother\nkid,dad,mom\nsib,dad,mom\n"

	s := NewFieldScanner(strings.NewReader(input), AutoDelimiter)
	if s.Delimiter() != ',' {
		t.Fatalf("Detected %q, expected ','", rune(s.Delimiter()))
	}

	n := 0
	for s.Scan() {
		if len(s.Fields()) != 3 {
			t.Errorf("Line %d: got %v", s.Line(), s.Fields())
		}
		n++
	}
	if n != 3 {
		t.Errorf("Read %d lines, expected 3", n)
	}
}

func TestParseDelimiter(t *testing.T) {
	for name, expected := range map[string]Delimiter{
		"":           Whitespace,
		"whitespace": Whitespace,
		"auto":       AutoDelimiter,
		"tab":        '\t',
		"comma":      ',',
		";":          ';',
	} {
		got, err := ParseDelimiter(name)
		if err != nil {
			t.Errorf("%q: %v", name, err)
		}
		if got != expected {
			t.Errorf("%q: got %q, expected %q", name, rune(got), rune(expected))
		}
	}

	if _, err := ParseDelimiter("pipes"); err == nil {
		t.Error("Expected an error for an unknown delimiter name")
	}
}
