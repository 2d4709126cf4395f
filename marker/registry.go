// Package marker holds the ordered set of genotyped markers. Each marker gets
// a stable rank, used as its column in the genotype matrix, and carries the
// allele labels that are known for it.
package marker

import (
	"fmt"
	"strconv"

	"github.com/carbocation/pfx"
	log "github.com/sirupsen/logrus"
)

// UnknownChromosome is assigned to markers whose chromosome is not given.
const UnknownChromosome = "0"

type Marker struct {
	Name       string
	Chromosome string
	Position   int
	Rank       int
	Alleles    Alleles
}

type Registry struct {
	markers []*Marker
	byName  map[string]int
	frozen  bool
}

func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]int),
	}
}

// Add registers a marker with the next rank. A repeated name is logged and
// ignored; the first definition is kept. Adding to a frozen registry is an
// error.
func (r *Registry) Add(name, chromosome string, position int, alleles Alleles) (*Marker, error) {
	if r.frozen {
		return nil, pfx.Err(fmt.Errorf("cannot add marker %s: the marker set is frozen", name))
	}

	if existing, exists := r.Lookup(name); exists {
		log.WithField("marker", name).Warnf("%s present more than once", name)
		return existing, nil
	}

	if chromosome == "" {
		chromosome = UnknownChromosome
	}

	m := &Marker{
		Name:       name,
		Chromosome: chromosome,
		Position:   position,
		Rank:       len(r.markers),
		Alleles:    alleles,
	}
	r.markers = append(r.markers, m)
	r.byName[name] = m.Rank

	return m, nil
}

// AddHeader registers markers named by a genotype header row, in column order.
// The position of each marker is its column index.
func (r *Registry) AddHeader(names []string) error {
	for i, name := range names {
		if _, err := r.Add(name, UnknownChromosome, i, Alleles{}); err != nil {
			return err
		}
	}

	return nil
}

// AddUnnamed registers n markers named by their zero-based column index, for
// genotype sources that have no header row.
func (r *Registry) AddUnnamed(n int) error {
	for i := 0; i < n; i++ {
		if _, err := r.Add(ColumnName(i), UnknownChromosome, i, Alleles{}); err != nil {
			return err
		}
	}

	return nil
}

// ColumnName is the name given to the i'th genotype column when the source has
// no header row.
func ColumnName(i int) string {
	return strconv.Itoa(i)
}

// Freeze fixes the marker set. It must be called before the genotype matrix
// is allocated.
func (r *Registry) Freeze() {
	r.frozen = true
}

func (r *Registry) Frozen() bool {
	return r.frozen
}

func (r *Registry) Len() int {
	return len(r.markers)
}

func (r *Registry) Lookup(name string) (*Marker, bool) {
	rank, exists := r.byName[name]
	if !exists {
		return nil, false
	}

	return r.markers[rank], true
}

// At returns the marker with the given rank.
func (r *Registry) At(rank int) *Marker {
	return r.markers[rank]
}

// Markers returns all markers in rank order. The slice must not be modified.
func (r *Registry) Markers() []*Marker {
	return r.markers
}

// Names returns the marker names in rank order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.markers))
	for i, m := range r.markers {
		out[i] = m.Name
	}

	return out
}
