package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
)

// fixed5 and fixed3 render floats with a fixed number of decimals, and NaN as
// "nan".
type fixed5 float64
type fixed3 float64

func (f fixed5) MarshalCSV() (string, error) {
	return formatFixed(float64(f), 5), nil
}

func (f fixed3) MarshalCSV() (string, error) {
	return formatFixed(float64(f), 3), nil
}

func formatFixed(v float64, decimals int) string {
	if math.IsNaN(v) {
		return "nan"
	}

	return fmt.Sprintf("%.*f", decimals, v)
}

// markerRow is the layout of the marker report.
type markerRow struct {
	Name string `csv:"#SNP"`
	MAF  fixed5 `csv:"MAF"`
	A0   int    `csv:"a0"`
	A1   int    `csv:"a1"`
	A2   int    `csv:"a2"`
	An   int    `csv:"an"`
	Err  fixed3 `csv:"err"`
}

func tabWriter(w io.Writer) *gocsv.SafeCSVWriter {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	return gocsv.NewSafeCSVWriter(cw)
}

// WriteMarkers writes the marker report: a header, then one tab separated row
// per marker with its name, MAF, genotype class counts, missing count and
// error rate.
func WriteMarkers(w io.Writer, stats []MarkerStats) error {
	rows := make([]markerRow, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, markerRow{
			Name: s.Name,
			MAF:  fixed5(s.MAF),
			A0:   s.A0,
			A1:   s.A1,
			A2:   s.A2,
			An:   s.An,
			Err:  fixed3(s.ErrorRate),
		})
	}

	if err := gocsv.MarshalCSV(rows, tabWriter(w)); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// WriteIndividuals writes the per-individual report as a tab separated table.
func WriteIndividuals(w io.Writer, stats []IndividualStats) error {
	if err := gocsv.MarshalCSV(stats, tabWriter(w)); err != nil {
		return pfx.Err(err)
	}

	return nil
}
