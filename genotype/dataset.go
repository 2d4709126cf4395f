// Package genotype turns raw genotype calls into a dense dosage matrix laid
// out by pedigree rank (rows) and marker rank (columns).
package genotype

import (
	"fmt"

	"github.com/carbocation/pfx"
	"github.com/carbocation/snpstat/marker"
	"github.com/carbocation/snpstat/pedigree"
)

// Dataset is a loaded, not yet checked, genotype session. It owns the
// genotype matrix until Release hands it over to the consistency checker.
type Dataset struct {
	Pedigree *pedigree.Graph
	Markers  *marker.Registry

	genotypes *Matrix
	released  bool
}

// NewDataset finalizes the pedigree, freezes the marker set and allocates a
// fully missing genotype matrix.
func NewDataset(ped *pedigree.Graph, markers *marker.Registry) *Dataset {
	if !ped.Finalized() {
		ped.Finalize()
	}
	markers.Freeze()

	return &Dataset{
		Pedigree:  ped,
		Markers:   markers,
		genotypes: NewMatrix(ped.Len(), markers.Len(), Missing),
	}
}

// Genotypes returns the matrix, or nil once it has been released.
func (d *Dataset) Genotypes() *Matrix {
	return d.genotypes
}

// Set stores the dosage of marker m for individual ind.
func (d *Dataset) Set(ind *pedigree.Individual, m *marker.Marker, dosage float64) {
	d.genotypes.Set(ind.Rank, m.Rank, dosage)
}

// Release transfers ownership of the genotype matrix to the caller. It can be
// called only once; the Dataset is unusable for loading afterwards.
func (d *Dataset) Release() (*Matrix, error) {
	if d.released {
		return nil, pfx.Err(fmt.Errorf("the genotype matrix has already been released"))
	}

	out := d.genotypes
	d.genotypes = nil
	d.released = true

	return out, nil
}

// Released reports whether Release has been called.
func (d *Dataset) Released() bool {
	return d.released
}

// individual looks up a genotyped individual. Genotypes cannot be placed for
// someone who is not in the pedigree.
func (d *Dataset) individual(id string) (*pedigree.Individual, error) {
	ind, exists := d.Pedigree.Lookup(id)
	if !exists {
		return nil, pfx.Err(fmt.Errorf("individual %s has genotypes but is not in the pedigree", id))
	}

	return ind, nil
}
