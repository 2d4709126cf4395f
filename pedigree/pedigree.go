// Package pedigree holds the individuals of a study together with their
// registered parents, assigning each a stable rank that is used as its row in
// the genotype matrix.
package pedigree

import (
	"github.com/carbocation/pfx"
	"github.com/carbocation/snpstat"
	log "github.com/sirupsen/logrus"
)

// Unknown is the identifier used for a parent that is not known. It is never a
// valid individual.
const Unknown = "0"

// Map columns in a pedigree record to their positions
const (
	ColIndividual int = iota
	ColFather
	ColMother
)

type Individual struct {
	ID     string
	Father string
	Mother string

	// Rank is the zero-based order of first appearance.
	Rank int

	// Children is populated by Finalize.
	Children []string
}

// HasFather reports whether a father identifier was given, regardless of
// whether that father is registered.
func (i Individual) HasFather() bool {
	return i.Father != Unknown && i.Father != ""
}

func (i Individual) HasMother() bool {
	return i.Mother != Unknown && i.Mother != ""
}

type Graph struct {
	individuals []*Individual
	byID        map[string]int
	finalized   bool
}

func New() *Graph {
	return &Graph{
		byID: make(map[string]int),
	}
}

// Add registers an individual. The identifier "0" is ignored. If id was
// already seen, a warning is logged and the first definition is kept. Returns
// whether a new individual was added.
func (g *Graph) Add(id, father, mother string) bool {
	if id == Unknown || id == "" {
		return false
	}

	if _, exists := g.byID[id]; exists {
		log.WithField("individual", id).Warnf("%s present more than once", id)
		return false
	}

	if father == "" {
		father = Unknown
	}
	if mother == "" {
		mother = Unknown
	}

	ind := &Individual{
		ID:     id,
		Father: father,
		Mother: mother,
		Rank:   len(g.individuals),
	}
	g.individuals = append(g.individuals, ind)
	g.byID[id] = ind.Rank
	g.finalized = false

	return true
}

// AddRecord registers an individual from the leading columns of a record.
// relationshipColumns says how many leading columns the source dedicates to
// relationships: 1 is identifier only, 2 adds the father and 3 adds the
// mother. Columns the record does not supply default to Unknown.
func (g *Graph) AddRecord(fields []string, relationshipColumns int) bool {
	name, father, mother := Unknown, Unknown, Unknown
	if len(fields) > ColIndividual {
		name = fields[ColIndividual]
	}
	if relationshipColumns > ColFather && len(fields) > ColFather {
		father = fields[ColFather]
	}
	if relationshipColumns > ColMother && len(fields) > ColMother {
		mother = fields[ColMother]
	}

	return g.Add(name, father, mother)
}

// Finalize assigns children to their registered parents. Parents that are not
// themselves registered are ignored. It is safe to call more than once.
func (g *Graph) Finalize() {
	for _, ind := range g.individuals {
		ind.Children = nil
	}

	for _, ind := range g.individuals {
		if father, exists := g.Lookup(ind.Father); exists {
			father.Children = append(father.Children, ind.ID)
		}
		if mother, exists := g.Lookup(ind.Mother); exists {
			mother.Children = append(mother.Children, ind.ID)
		}
	}

	g.finalized = true
}

// Finalized reports whether Finalize has run since the last Add.
func (g *Graph) Finalized() bool {
	return g.finalized
}

func (g *Graph) Len() int {
	return len(g.individuals)
}

func (g *Graph) Lookup(id string) (*Individual, bool) {
	rank, exists := g.byID[id]
	if !exists {
		return nil, false
	}

	return g.individuals[rank], true
}

// At returns the individual with the given rank.
func (g *Graph) At(rank int) *Individual {
	return g.individuals[rank]
}

// Individuals returns all individuals in rank order. The slice must not be
// modified.
func (g *Graph) Individuals() []*Individual {
	return g.individuals
}

// Father returns the registered father of ind, if any.
func (g *Graph) Father(ind *Individual) (*Individual, bool) {
	return g.Lookup(ind.Father)
}

// Mother returns the registered mother of ind, if any.
func (g *Graph) Mother(ind *Individual) (*Individual, bool) {
	return g.Lookup(ind.Mother)
}

// HasRegisteredParent reports whether at least one of ind's parents is itself
// a registered individual.
func (g *Graph) HasRegisteredParent(ind *Individual) bool {
	_, hasFather := g.Father(ind)
	_, hasMother := g.Mother(ind)

	return hasFather || hasMother
}

// Load reads pedigree records from fs, skipping comment lines, and finalizes
// the graph. The same reader works for a dedicated pedigree table and for a
// genotype table whose leading columns hold the relationships.
func (g *Graph) Load(fs *snpstat.FieldScanner, relationshipColumns int) error {
	for fs.Scan() {
		if fs.IsComment() {
			continue
		}
		g.AddRecord(fs.Fields(), relationshipColumns)
	}
	if err := fs.Err(); err != nil {
		return pfx.Err(err)
	}

	g.Finalize()

	return nil
}
