package genotype

import (
	"fmt"

	"github.com/carbocation/pfx"
	"github.com/carbocation/snpstat"
	"github.com/carbocation/snpstat/marker"
	log "github.com/sirupsen/logrus"
)

// Loader streams text genotype records into a Dataset. Each record is
// [identifier, relationship columns..., genotype tokens...]. An optional
// header row names the marker of each genotype column; without one, columns
// are named by their zero-based index.
type Loader struct {
	dataset             *Dataset
	encoding            Encoding
	relationshipColumns int

	headerSeen bool
	columns    []*marker.Marker
	unknown    map[string]struct{}
	records    int
}

func NewLoader(ds *Dataset, e Encoding, relationshipColumns int) *Loader {
	if relationshipColumns < 1 {
		relationshipColumns = 1
	}

	return &Loader{
		dataset:             ds,
		encoding:            e,
		relationshipColumns: relationshipColumns,
		unknown:             make(map[string]struct{}),
	}
}

// Header maps genotype columns to markers by name. Columns naming markers that
// are not registered are skipped.
func (l *Loader) Header(names []string) {
	l.headerSeen = true
	l.columns = make([]*marker.Marker, len(names))
	for i, name := range names {
		l.columns[i] = l.lookup(name)
	}
}

// Record places one individual's genotypes into the matrix.
func (l *Loader) Record(fields []string) error {
	if l.dataset.Released() {
		return pfx.Err(fmt.Errorf("cannot load genotypes into a released dataset"))
	}
	if len(fields) < 1 {
		return nil
	}

	ind, err := l.dataset.individual(fields[0])
	if err != nil {
		return err
	}

	tokens := []string{}
	if len(fields) > l.relationshipColumns {
		tokens = fields[l.relationshipColumns:]
	}

	if !l.headerSeen {
		l.extendUnnamed(len(tokens))
	} else if len(tokens) < len(l.columns) {
		return pfx.Err(fmt.Errorf("individual %s has %d genotype columns but the header names %d markers", ind.ID, len(tokens), len(l.columns)))
	}

	for i, m := range l.columns {
		if m == nil || i >= len(tokens) {
			continue
		}
		l.dataset.Set(ind, m, Encode(tokens[i], &m.Alleles, l.encoding))
	}
	l.records++

	return nil
}

// Load consumes a genotype table. The first comment line is the header; later
// comment lines are ignored.
func (l *Loader) Load(fs *snpstat.FieldScanner) error {
	for fs.Scan() {
		if fs.IsComment() {
			if !l.headerSeen {
				l.Header(fs.Fields())
			}
			continue
		}

		if err := l.Record(fs.Fields()); err != nil {
			return fmt.Errorf("line %d: %w", fs.Line(), err)
		}
	}

	if err := fs.Err(); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// Records is the number of genotype records loaded so far.
func (l *Loader) Records() int {
	return l.records
}

// extendUnnamed grows the index-named column mapping so that it covers n
// genotype columns.
func (l *Loader) extendUnnamed(n int) {
	for i := len(l.columns); i < n; i++ {
		l.columns = append(l.columns, l.lookup(marker.ColumnName(i)))
	}
}

func (l *Loader) lookup(name string) *marker.Marker {
	m, exists := l.dataset.Markers.Lookup(name)
	if !exists {
		if _, warned := l.unknown[name]; !warned {
			l.unknown[name] = struct{}{}
			log.WithField("marker", name).Debug("Skipping genotype column for a marker that is not in the marker set")
		}
		return nil
	}

	return m
}

// SkippedMarkers is the number of distinct genotype columns that were skipped
// because their marker is not registered.
func (l *Loader) SkippedMarkers() int {
	return len(l.unknown)
}
