package report

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"cloud.google.com/go/bigquery"
	"github.com/carbocation/pfx"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"
)

// bigQueryBatchSize is the number of rows sent per streaming insert.
const bigQueryBatchSize = 500

type bqMarker struct {
	RunID      string               `bigquery:"run_id"`
	Name       string               `bigquery:"name"`
	Chromosome string               `bigquery:"chromosome"`
	Position   int64                `bigquery:"position"`
	Alleles    string               `bigquery:"alleles"`
	MAF        bigquery.NullFloat64 `bigquery:"maf"`
	A0         int64                `bigquery:"a0"`
	A1         int64                `bigquery:"a1"`
	A2         int64                `bigquery:"a2"`
	An         int64                `bigquery:"an"`
	Discordant int64                `bigquery:"discordant"`
	ErrorRate  bigquery.NullFloat64 `bigquery:"error_rate"`
	HWE        bigquery.NullFloat64 `bigquery:"hwe_p"`
}

func tableName(t *bigquery.Table) string {
	return fmt.Sprintf("%s.%s.%s", t.ProjectID, t.DatasetID, t.TableID)
}

func bqFloat(v float64) bigquery.NullFloat64 {
	return bigquery.NullFloat64{Float64: v, Valid: !math.IsNaN(v)}
}

func bigQueryRows(run Run, markers []MarkerStats) []*bqMarker {
	out := make([]*bqMarker, 0, len(markers))
	for _, m := range markers {
		out = append(out, &bqMarker{
			RunID:      run.ID,
			Name:       m.Name,
			Chromosome: m.Chromosome,
			Position:   int64(m.Position),
			Alleles:    m.Alleles,
			MAF:        bqFloat(m.MAF),
			A0:         int64(m.A0),
			A1:         int64(m.A1),
			A2:         int64(m.A2),
			An:         int64(m.An),
			Discordant: int64(m.Discordant),
			ErrorRate:  bqFloat(m.ErrorRate),
			HWE:        bqFloat(m.HWE),
		})
	}

	return out
}

// UploadBigQuery streams the marker statistics of a run into
// project.dataset.table. The table is created if it does not exist.
func UploadBigQuery(ctx context.Context, client *bigquery.Client, dataset, table string, run Run, markers []MarkerStats) error {
	t := client.Dataset(dataset).Table(table)

	if _, err := t.Metadata(ctx); err != nil {
		var apiErr *googleapi.Error
		if !errors.As(err, &apiErr) || apiErr.Code != http.StatusNotFound {
			return pfx.Err(err)
		}

		schema, err := bigquery.InferSchema(bqMarker{})
		if err != nil {
			return pfx.Err(err)
		}
		if err := t.Create(ctx, &bigquery.TableMetadata{Schema: schema}); err != nil {
			return pfx.Err(err)
		}
		log.WithField("table", tableName(t)).Infoln("Created BigQuery table")
	}

	rows := bigQueryRows(run, markers)
	inserter := t.Inserter()
	for start := 0; start < len(rows); start += bigQueryBatchSize {
		end := start + bigQueryBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := inserter.Put(ctx, rows[start:end]); err != nil {
			return pfx.Err(err)
		}
	}

	log.WithFields(log.Fields{
		"table": tableName(t),
		"rows":  len(rows),
	}).Infoln("Uploaded marker statistics to BigQuery")

	return nil
}
