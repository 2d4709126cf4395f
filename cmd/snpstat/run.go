package main

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
	"github.com/carbocation/snpstat"
	"github.com/carbocation/snpstat/config"
	"github.com/carbocation/snpstat/genotype"
	"github.com/carbocation/snpstat/marker"
	"github.com/carbocation/snpstat/mendel"
	"github.com/carbocation/snpstat/pedigree"
	"github.com/carbocation/snpstat/report"
	log "github.com/sirupsen/logrus"
)

// run executes one full pass: load, check, report. The marker report is also
// streamed to stdout as it is written.
func run(ctx context.Context, cfg config.Config, stdout io.Writer) error {
	var client *storage.Client
	if snpstat.NeedsGoogleStorage(cfg.Geno, cfg.Pedigree, cfg.Markers, cfg.Out, cfg.Report, cfg.Individuals, cfg.XLSX) {
		var err error
		client, err = storage.NewClient(ctx)
		if err != nil {
			return pfx.Err(err)
		}
		defer client.Close()
	}

	ds, err := load(ctx, cfg, client)
	if err != nil {
		return err
	}

	rows, cols := ds.Genotypes().Dims()
	log.WithFields(log.Fields{"individuals": rows, "markers": cols}).Debugln("Genotype matrix loaded")

	ds.Pedigree.LogDiagnostics()

	masked, err := mendel.Check(ds)
	if err != nil {
		return err
	}

	markers := report.Compute(masked, cfg.HWECutoff)
	individuals := report.ComputeIndividuals(masked)

	if err := write(ctx, cfg, client, masked, markers, individuals, stdout); err != nil {
		return err
	}

	report.Summarize(markers, len(individuals)).Log()
	if cfg.Verbose {
		if err := report.FprintMAFHistogram(log.StandardLogger().Out, markers); err != nil {
			log.WithError(err).Warnln("Could not draw the MAF histogram")
		}
	}

	return nil
}

// load builds the pedigree and marker set, then fills the genotype matrix.
func load(ctx context.Context, cfg config.Config, client *storage.Client) (*genotype.Dataset, error) {
	delimiter, err := cfg.FieldDelimiter()
	if err != nil {
		return nil, err
	}

	ped := pedigree.New()
	if cfg.Pedigree != "" {
		if err := scan(ctx, cfg.Pedigree, client, delimiter, func(fs *snpstat.FieldScanner) error {
			return ped.Load(fs, cfg.RelationshipColumns)
		}); err != nil {
			return nil, fmt.Errorf("pedigree %s: %w", cfg.Pedigree, err)
		}
	}

	reg := marker.NewRegistry()
	if cfg.Markers != "" {
		if err := scan(ctx, cfg.Markers, client, delimiter, reg.LoadTable); err != nil {
			return nil, fmt.Errorf("markers %s: %w", cfg.Markers, err)
		}
	}

	switch format := cfg.ResolvedFormat(); format {
	case config.FormatVCF, config.FormatBGEN:
		return loadVariants(ctx, cfg, client, format, ped, reg)
	}

	return loadText(ctx, cfg, client, delimiter, ped, reg)
}

func loadText(ctx context.Context, cfg config.Config, client *storage.Client, delimiter snpstat.Delimiter, ped *pedigree.Graph, reg *marker.Registry) (*genotype.Dataset, error) {
	encoding, err := cfg.EncodingMode()
	if err != nil {
		return nil, err
	}

	if cfg.Pedigree == "" {
		if err := scan(ctx, cfg.Geno, client, delimiter, func(fs *snpstat.FieldScanner) error {
			return ped.Load(fs, cfg.RelationshipColumns)
		}); err != nil {
			return nil, fmt.Errorf("pedigree from %s: %w", cfg.Geno, err)
		}
	}

	if cfg.Markers == "" {
		if err := scan(ctx, cfg.Geno, client, delimiter, func(fs *snpstat.FieldScanner) error {
			_, err := genotype.InferMarkers(fs, reg, cfg.RelationshipColumns)
			return err
		}); err != nil {
			return nil, fmt.Errorf("markers from %s: %w", cfg.Geno, err)
		}
	}

	log.WithFields(log.Fields{"individuals": ped.Len(), "markers": reg.Len()}).Infoln("Loading genotypes")

	ds := genotype.NewDataset(ped, reg)
	loader := genotype.NewLoader(ds, encoding, cfg.RelationshipColumns)
	if err := scan(ctx, cfg.Geno, client, delimiter, loader.Load); err != nil {
		return nil, fmt.Errorf("genotypes %s: %w", cfg.Geno, err)
	}

	if skipped := loader.SkippedMarkers(); skipped > 0 {
		log.WithField("columns", skipped).Warnln("Genotype columns name markers that are not in the marker set and were skipped")
	}

	return ds, nil
}

func loadVariants(ctx context.Context, cfg config.Config, client *storage.Client, format string, ped *pedigree.Graph, reg *marker.Registry) (*genotype.Dataset, error) {
	var vs *genotype.VariantSet
	var err error

	if format == config.FormatBGEN {
		vs, err = genotype.ReadBGEN(snpstat.ExpandHome(cfg.Geno), cfg.MinProbability)
	} else {
		var rc io.ReadCloser
		rc, err = snpstat.OpenInput(ctx, cfg.Geno, client)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		vs, err = genotype.ReadVCF(rc)
	}
	if err != nil {
		return nil, fmt.Errorf("genotypes %s: %w", cfg.Geno, err)
	}

	if cfg.Pedigree == "" {
		vs.RegisterSamples(ped)
	}
	if cfg.Markers == "" {
		if err := vs.RegisterMarkers(reg); err != nil {
			return nil, err
		}
	}

	log.WithFields(log.Fields{"individuals": ped.Len(), "markers": reg.Len(), "format": format}).Infoln("Loading genotypes")

	ds := genotype.NewDataset(ped, reg)
	if err := vs.Fill(ds); err != nil {
		return nil, fmt.Errorf("genotypes %s: %w", cfg.Geno, err)
	}

	return ds, nil
}

// scan opens path and hands a FieldScanner over it to consume.
func scan(ctx context.Context, path string, client *storage.Client, delimiter snpstat.Delimiter, consume func(*snpstat.FieldScanner) error) error {
	rc, err := snpstat.OpenInput(ctx, path, client)
	if err != nil {
		return err
	}
	defer rc.Close()

	return consume(snpstat.NewFieldScanner(rc, delimiter))
}

// write produces every configured output. Nothing is committed until every
// file output has been written in full. Files are then renamed into place one
// at a time, so a failed rename can leave the earlier ones behind. The SQLite
// and BigQuery sinks run last and only record a run whose files all landed.
func write(ctx context.Context, cfg config.Config, client *storage.Client, masked *mendel.Masked, markers []report.MarkerStats, individuals []report.IndividualStats, stdout io.Writer) (err error) {
	var outputs []snpstat.Output
	defer func() {
		if err == nil {
			return
		}
		for _, o := range outputs {
			o.Abort()
		}
	}()

	create := func(path string) (snpstat.Output, error) {
		o, err := snpstat.CreateOutput(ctx, path, client)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, o)
		return o, nil
	}

	// A report sent to "-" is already the stdout stream.
	reportDst := stdout
	if cfg.Report != "-" {
		reportOut, err := create(cfg.Report)
		if err != nil {
			return err
		}
		reportDst = io.MultiWriter(reportOut, stdout)
	}
	if err := report.WriteMarkers(reportDst, markers); err != nil {
		return err
	}

	genoOut, err := create(cfg.Out)
	if err != nil {
		return err
	}
	if err := report.WriteGenotypes(genoOut, masked, cfg.RelationshipColumns); err != nil {
		return err
	}

	if cfg.Individuals != "" {
		o, err := create(cfg.Individuals)
		if err != nil {
			return err
		}
		if err := report.WriteIndividuals(o, individuals); err != nil {
			return err
		}
	}

	if cfg.XLSX != "" {
		o, err := create(cfg.XLSX)
		if err != nil {
			return err
		}
		if err := report.WriteWorkbook(o, markers, individuals); err != nil {
			return err
		}
	}

	for len(outputs) > 0 {
		if err := outputs[0].Close(); err != nil {
			return err
		}
		outputs = outputs[1:]
	}

	thisRun := report.NewRun(cfg.Geno)

	if cfg.SQLite != "" {
		store, err := report.OpenStore(snpstat.ExpandHome(cfg.SQLite))
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Save(thisRun, markers, individuals); err != nil {
			return err
		}
		log.WithFields(log.Fields{"run_id": thisRun.ID, "database": cfg.SQLite}).Infoln("Saved run to SQLite")
	}

	if cfg.BigQueryEnabled() {
		bq, err := bigquery.NewClient(ctx, cfg.BigQueryProject)
		if err != nil {
			return pfx.Err(err)
		}
		defer bq.Close()

		if err := report.UploadBigQuery(ctx, bq, cfg.BigQueryDataset, cfg.BigQueryTable, thisRun, markers); err != nil {
			return err
		}
	}

	return nil
}
