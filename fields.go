package snpstat

import (
	"bufio"
	"io"
	"strings"
)

// Genotype rows can be very wide, so lines of up to 1GiB are accepted.
const maxLineSize = 1 << 30

// FieldScanner reads a line-oriented table and hands out pre-split fields.
// Blank lines are skipped. Lines beginning with '#' are reported as comments;
// for genotype tables the first such line is the marker header.
type FieldScanner struct {
	scanner   *bufio.Scanner
	delimiter Delimiter
	line      string
	lineNo    int
	fields    []string
	comment   bool
}

// NewFieldScanner wraps r. If d is AutoDelimiter, the delimiter is guessed from
// the head of the stream.
func NewFieldScanner(r io.Reader, d Delimiter) *FieldScanner {
	if d == AutoDelimiter {
		br := bufio.NewReaderSize(r, sniffSize)
		d = sniffDelimiter(br)
		r = br
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<20), maxLineSize)

	return &FieldScanner{
		scanner:   scanner,
		delimiter: d,
	}
}

// Delimiter returns the delimiter in use, which is only interesting when it
// was detected automatically.
func (s *FieldScanner) Delimiter() Delimiter {
	return s.delimiter
}

// Scan advances to the next non-blank line.
func (s *FieldScanner) Scan() bool {
	for s.scanner.Scan() {
		s.lineNo++
		s.line = strings.TrimRight(s.scanner.Text(), "\r")
		if strings.TrimSpace(s.line) == "" {
			continue
		}

		s.comment = strings.HasPrefix(s.line, "#")
		if s.comment {
			s.fields = s.split(strings.TrimSpace(strings.Trim(s.line, "#")))
		} else {
			s.fields = s.split(strings.TrimSpace(s.line))
		}

		return true
	}

	return false
}

// Fields returns the fields of the current line. For comment lines, the
// leading '#' is removed before splitting.
func (s *FieldScanner) Fields() []string {
	return s.fields
}

// IsComment reports whether the current line begins with '#'.
func (s *FieldScanner) IsComment() bool {
	return s.comment
}

// Line is the 1-based line number of the current line.
func (s *FieldScanner) Line() int {
	return s.lineNo
}

func (s *FieldScanner) Err() error {
	return s.scanner.Err()
}

func (s *FieldScanner) split(line string) []string {
	if line == "" {
		return nil
	}

	if s.delimiter == Whitespace {
		return strings.Fields(line)
	}

	cols := strings.Split(line, string(rune(s.delimiter)))
	for i, col := range cols {
		cols[i] = strings.TrimSpace(col)
	}

	return cols
}
