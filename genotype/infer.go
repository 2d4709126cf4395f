package genotype

import (
	"github.com/carbocation/pfx"
	"github.com/carbocation/snpstat"
	"github.com/carbocation/snpstat/marker"
)

// InferMarkers registers markers from the first line of a genotype table. A
// comment line is a header naming the marker of each genotype column;
// otherwise the first record's genotype columns are registered by their
// zero-based index. Returns whether anything was found.
func InferMarkers(fs *snpstat.FieldScanner, reg *marker.Registry, relationshipColumns int) (bool, error) {
	if relationshipColumns < 1 {
		relationshipColumns = 1
	}

	if !fs.Scan() {
		if err := fs.Err(); err != nil {
			return false, pfx.Err(err)
		}
		return false, nil
	}

	fields := fs.Fields()
	if fs.IsComment() {
		if err := reg.AddHeader(fields); err != nil {
			return false, err
		}
		return true, nil
	}

	if len(fields) > relationshipColumns {
		if err := reg.AddUnnamed(len(fields) - relationshipColumns); err != nil {
			return false, err
		}
	}

	return true, nil
}
