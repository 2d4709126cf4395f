package report

import (
	"io"
	"math"

	"github.com/carbocation/pfx"
	"github.com/xuri/excelize/v2"
)

const (
	markerSheet     = "markers"
	individualSheet = "individuals"
)

var markerSheetHeader = []interface{}{"marker", "chromosome", "position", "alleles", "maf", "a0", "a1", "a2", "an", "discordant", "error_rate", "hwe_p"}
var individualSheetHeader = []interface{}{"id", "father", "mother", "family", "genotyped", "missing", "discordant"}

// WriteWorkbook writes the marker and individual statistics as a two sheet
// XLSX workbook. NaN values are left blank.
func WriteWorkbook(w io.Writer, markers []MarkerStats, individuals []IndividualStats) error {
	xlsx := excelize.NewFile()
	defer xlsx.Close()

	if err := xlsx.SetSheetName("Sheet1", markerSheet); err != nil {
		return pfx.Err(err)
	}
	if _, err := xlsx.NewSheet(individualSheet); err != nil {
		return pfx.Err(err)
	}

	if err := xlsx.SetSheetRow(markerSheet, "A1", &markerSheetHeader); err != nil {
		return pfx.Err(err)
	}
	for i, s := range markers {
		row := []interface{}{s.Name, s.Chromosome, s.Position, s.Alleles, cellFloat(s.MAF), s.A0, s.A1, s.A2, s.An, s.Discordant, cellFloat(s.ErrorRate), cellFloat(s.HWE)}
		if err := setRow(xlsx, markerSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := xlsx.SetSheetRow(individualSheet, "A1", &individualSheetHeader); err != nil {
		return pfx.Err(err)
	}
	for i, s := range individuals {
		row := []interface{}{s.ID, s.Father, s.Mother, s.Family, s.Genotyped, s.Missing, s.Discordant}
		if err := setRow(xlsx, individualSheet, i+2, row); err != nil {
			return err
		}
	}

	if _, err := xlsx.WriteTo(w); err != nil {
		return pfx.Err(err)
	}

	return nil
}

func setRow(xlsx *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return pfx.Err(err)
	}

	if err := xlsx.SetSheetRow(sheet, cell, &values); err != nil {
		return pfx.Err(err)
	}

	return nil
}

func cellFloat(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}

	return v
}
