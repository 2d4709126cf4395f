package snpstat

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/csimplestring/go-csv/detector"
)

// Delimiter separates the fields of a record. Whitespace splits on any run of
// spaces or tabs, which is what the pedigree, marker and genotype tables use
// by default.
type Delimiter rune

const (
	Whitespace    Delimiter = 0
	AutoDelimiter Delimiter = -1
)

// sniffSize is how much of a stream is inspected to guess its delimiter.
const sniffSize = 1 << 16

// ParseDelimiter converts a user-facing delimiter name into a Delimiter.
func ParseDelimiter(name string) (Delimiter, error) {
	switch name {
	case "", "whitespace":
		return Whitespace, nil
	case "auto":
		return AutoDelimiter, nil
	case "tab", `\t`:
		return '\t', nil
	case "comma":
		return ',', nil
	case "space":
		return ' ', nil
	}

	if r, size := utf8.DecodeRuneInString(name); size == len(name) && r != utf8.RuneError {
		return Delimiter(r), nil
	}

	return Whitespace, fmt.Errorf("Delimiter %q is not recognized. Valid values include whitespace, auto, tab, comma, space or a single character", name)
}

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in the reader, assuming a CSV-like file. If nothing stands out,
// Whitespace is returned.
func DetermineDelimiter(r io.Reader) Delimiter {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if len(delimiters) > 0 {
		return Delimiter(delimiters[0][0])
	}

	return Whitespace
}

// sniffDelimiter guesses the delimiter from the head of br without consuming
// it.
func sniffDelimiter(br *bufio.Reader) Delimiter {
	head, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return Whitespace
	}

	return DetermineDelimiter(bytes.NewReader(head))
}
