// snpstat masks genotype calls that break Mendelian inheritance within
// father-mother-offspring trios and reports per-marker allele statistics.
//
// Usage:
//
//	snpstat [flags] ingeno outgeno repfile
//	snpstat -geno in.txt -out masked.txt -report report.tsv [flags]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/carbocation/snpstat/compileinfo"
	_ "github.com/carbocation/snpstat/compileinfoprint"
	"github.com/carbocation/snpstat/config"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, opts, err := parseArgs(os.Args[1:], os.Stderr)
	if err == flag.ErrHelp {
		os.Exit(0)
	} else if err != nil {
		log.Fatalln(err)
	}

	if opts.version {
		fmt.Println(compileinfo.Get())
		return
	}

	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	if err := cfg.Validate(); err != nil {
		opts.usage()
		log.Fatalln(err)
	}

	if err := run(context.Background(), cfg, os.Stdout); err != nil {
		log.Fatalln(err)
	}
}

type options struct {
	configPath string
	version    bool
	usage      func()
}

// parseArgs layers the configuration: defaults, then the -config file, then
// SNPSTAT_* environment variables, then flags that were given explicitly.
// Three positional arguments set the genotype source, the masked genotype
// output and the report, unless the matching flags were given.
func parseArgs(args []string, stderr io.Writer) (config.Config, options, error) {
	fs := flag.NewFlagSet("snpstat", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := options{usage: fs.PrintDefaults}
	fromFlags := config.Default()

	fs.StringVar(&opts.configPath, "config", "", "Optional TOML file with settings. Environment variables (SNPSTAT_*) and flags take precedence.")
	fs.BoolVar(&opts.version, "version", false, "Print build information and exit")

	fs.StringVar(&fromFlags.Geno, "geno", "", "Genotype source: a text table, a VCF or a BGEN file. Local path or gs://")
	fs.StringVar(&fromFlags.Out, "out", "", "Output path for the masked genotype table. Local path, gs:// or -")
	fs.StringVar(&fromFlags.Report, "report", "", "Output path for the per-marker report. Local path, gs:// or -")
	fs.StringVar(&fromFlags.Pedigree, "pedigree", "", "Optional pedigree table of individual, father and mother. If omitted, the pedigree is read from the genotype table")
	fs.StringVar(&fromFlags.Pedigree, "p", "", "Shorthand for -pedigree")
	fs.StringVar(&fromFlags.Markers, "markers", "", "Optional marker table with 1, 4 or 6 (BIM) columns. If omitted, markers come from the genotype source")
	fs.StringVar(&fromFlags.Markers, "m", "", "Shorthand for -markers")
	fs.IntVar(&fromFlags.RelationshipColumns, "c", fromFlags.RelationshipColumns, "Number of leading relationship columns in genotype rows: 1 (id), 2 (id, father) or 3 (id, father, mother)")
	fs.StringVar(&fromFlags.Encoding, "a", fromFlags.Encoding, "Allele format: 1 (precoded 0/1/2) or 2 (allelepair, e.g. AG)")
	fs.StringVar(&fromFlags.Format, "format", fromFlags.Format, "Genotype source format: auto, text, vcf or bgen")
	fs.StringVar(&fromFlags.Delimiter, "delimiter", fromFlags.Delimiter, "Field delimiter for text tables: whitespace, auto, tab, comma, space or a single character")
	fs.Float64Var(&fromFlags.MinProbability, "min-prob", fromFlags.MinProbability, "BGEN only: minimum genotype probability for a hard call")
	fs.Float64Var(&fromFlags.HWECutoff, "hwe-cutoff", fromFlags.HWECutoff, "Approximate HWE p-value below which the exact test is run")
	fs.StringVar(&fromFlags.Individuals, "individuals", "", "Optional output path for the per-individual report")
	fs.StringVar(&fromFlags.SQLite, "sqlite", "", "Optional SQLite database that accumulates run results")
	fs.StringVar(&fromFlags.XLSX, "xlsx", "", "Optional output path for an XLSX workbook of the results")
	fs.StringVar(&fromFlags.BigQueryProject, "bq-project", "", "Optional BigQuery project for uploading marker statistics")
	fs.StringVar(&fromFlags.BigQueryDataset, "bq-dataset", "", "BigQuery dataset for uploading marker statistics")
	fs.StringVar(&fromFlags.BigQueryTable, "bq-table", "", "BigQuery table for uploading marker statistics")
	fs.BoolVar(&fromFlags.Verbose, "v", false, "Verbose logging")

	if err := fs.Parse(args); err != nil {
		return config.Config{}, opts, err
	}

	cfg := config.Default()
	if opts.configPath != "" {
		if err := cfg.LoadFile(opts.configPath); err != nil {
			return cfg, opts, err
		}
	}
	if err := cfg.LoadEnv(); err != nil {
		return cfg, opts, err
	}

	apply := map[string]func(){
		"geno":        func() { cfg.Geno = fromFlags.Geno },
		"out":         func() { cfg.Out = fromFlags.Out },
		"report":      func() { cfg.Report = fromFlags.Report },
		"pedigree":    func() { cfg.Pedigree = fromFlags.Pedigree },
		"p":           func() { cfg.Pedigree = fromFlags.Pedigree },
		"markers":     func() { cfg.Markers = fromFlags.Markers },
		"m":           func() { cfg.Markers = fromFlags.Markers },
		"c":           func() { cfg.RelationshipColumns = fromFlags.RelationshipColumns },
		"a":           func() { cfg.Encoding = fromFlags.Encoding },
		"format":      func() { cfg.Format = fromFlags.Format },
		"delimiter":   func() { cfg.Delimiter = fromFlags.Delimiter },
		"min-prob":    func() { cfg.MinProbability = fromFlags.MinProbability },
		"hwe-cutoff":  func() { cfg.HWECutoff = fromFlags.HWECutoff },
		"individuals": func() { cfg.Individuals = fromFlags.Individuals },
		"sqlite":      func() { cfg.SQLite = fromFlags.SQLite },
		"xlsx":        func() { cfg.XLSX = fromFlags.XLSX },
		"bq-project":  func() { cfg.BigQueryProject = fromFlags.BigQueryProject },
		"bq-dataset":  func() { cfg.BigQueryDataset = fromFlags.BigQueryDataset },
		"bq-table":    func() { cfg.BigQueryTable = fromFlags.BigQueryTable },
		"v":           func() { cfg.Verbose = fromFlags.Verbose },
	}
	visited := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		visited[f.Name] = true
		if set, exists := apply[f.Name]; exists {
			set()
		}
	})

	if positional := fs.Args(); len(positional) > 0 {
		if len(positional) != 3 {
			return cfg, opts, fmt.Errorf("expected 3 positional arguments (ingeno outgeno repfile), got %d", len(positional))
		}
		targets := []struct {
			flag string
			dst  *string
		}{
			{"geno", &cfg.Geno},
			{"out", &cfg.Out},
			{"report", &cfg.Report},
		}
		for i, target := range targets {
			if !visited[target.flag] {
				*target.dst = positional[i]
			}
		}
	}

	return cfg, opts, nil
}
