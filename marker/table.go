package marker

import (
	"fmt"
	"strconv"

	"github.com/carbocation/pfx"
	"github.com/carbocation/snpstat"
)

// Map columns in the marker table to their positions. This is the PLINK BIM
// layout; the four column form stops after Coordinate.
const (
	ColChromosome int = iota
	ColName
	ColMorgans
	ColCoordinate
	ColAllele1
	ColAllele2
)

// Supported marker table shapes, by number of fields.
const (
	FieldsNameOnly = 1
	FieldsMap      = 4
	FieldsBIM      = 6
)

// TableRow is one parsed line of a marker table.
type TableRow struct {
	Chromosome string
	Name       string
	Position   int
	Allele1    string
	Allele2    string
}

// ParseTableRow interprets the fields of one marker table line. count is the
// number of markers read so far; it becomes the position of name-only rows.
func ParseTableRow(fields []string, count int) (TableRow, error) {
	row := TableRow{}

	switch len(fields) {
	case FieldsBIM:
		row.Allele1 = fields[ColAllele1]
		row.Allele2 = fields[ColAllele2]
		fallthrough
	case FieldsMap:
		row.Chromosome = fields[ColChromosome]
		row.Name = fields[ColName]

		coord, err := strconv.Atoi(fields[ColCoordinate])
		if err != nil {
			return row, pfx.Err(fmt.Errorf("marker %s: position %q is not an integer", row.Name, fields[ColCoordinate]))
		}
		row.Position = coord
	case FieldsNameOnly:
		row.Chromosome = UnknownChromosome
		row.Name = fields[0]
		row.Position = count
	default:
		return row, pfx.Err(fmt.Errorf("marker table rows must have %d, %d or %d fields, found %d: %v", FieldsBIM, FieldsMap, FieldsNameOnly, len(fields), fields))
	}

	return row, nil
}

// AddTableRecord parses a marker table line and registers the marker it
// describes.
func (r *Registry) AddTableRecord(fields []string) (*Marker, error) {
	row, err := ParseTableRow(fields, r.Len())
	if err != nil {
		return nil, err
	}

	return r.Add(row.Name, row.Chromosome, row.Position, NewAlleles(row.Allele1, row.Allele2))
}

// LoadTable registers every marker of a marker table. Comment lines are
// skipped. A malformed row stops loading with an error naming its line.
func (r *Registry) LoadTable(fs *snpstat.FieldScanner) error {
	for fs.Scan() {
		if fs.IsComment() {
			continue
		}
		if _, err := r.AddTableRecord(fs.Fields()); err != nil {
			return fmt.Errorf("line %d: %w", fs.Line(), err)
		}
	}
	if err := fs.Err(); err != nil {
		return pfx.Err(err)
	}

	return nil
}
