// Package config gathers the settings of a snpstat run. Values are layered:
// built-in defaults, then a TOML file, then SNPSTAT_* environment variables,
// then command line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/carbocation/pfx"
	"github.com/carbocation/snpstat"
	"github.com/carbocation/snpstat/genotype"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to the envconfig name of every field.
const EnvPrefix = "SNPSTAT"

// Genotype source formats
const (
	FormatAuto = "auto"
	FormatText = "text"
	FormatVCF  = "vcf"
	FormatBGEN = "bgen"
)

type Config struct {
	// Inputs
	Geno     string `toml:"geno" envconfig:"GENO"`
	Pedigree string `toml:"pedigree" envconfig:"PEDIGREE"`
	Markers  string `toml:"markers" envconfig:"MARKERS"`

	// Outputs
	Out         string `toml:"out" envconfig:"OUT"`
	Report      string `toml:"report" envconfig:"REPORT"`
	Individuals string `toml:"individuals" envconfig:"INDIVIDUALS"`
	SQLite      string `toml:"sqlite" envconfig:"SQLITE"`
	XLSX        string `toml:"xlsx" envconfig:"XLSX"`

	BigQueryProject string `toml:"bq_project" envconfig:"BQ_PROJECT"`
	BigQueryDataset string `toml:"bq_dataset" envconfig:"BQ_DATASET"`
	BigQueryTable   string `toml:"bq_table" envconfig:"BQ_TABLE"`

	// Interpretation of the genotype source
	RelationshipColumns int     `toml:"relationship_columns" envconfig:"RELATIONSHIP_COLUMNS"`
	Encoding            string  `toml:"encoding" envconfig:"ENCODING"`
	Format              string  `toml:"format" envconfig:"FORMAT"`
	Delimiter           string  `toml:"delimiter" envconfig:"DELIMITER"`
	MinProbability      float64 `toml:"min_prob" envconfig:"MIN_PROB"`
	HWECutoff           float64 `toml:"hwe_cutoff" envconfig:"HWE_CUTOFF"`

	Verbose bool `toml:"verbose" envconfig:"VERBOSE"`
}

func Default() Config {
	return Config{
		RelationshipColumns: 1,
		Encoding:            genotype.PreCoded.String(),
		Format:              FormatAuto,
		Delimiter:           "whitespace",
		MinProbability:      genotype.DefaultMinProbability,
		HWECutoff:           0.05,
	}
}

// LoadFile overlays the settings found in a TOML file. Keys that are absent
// from the file keep their current value.
func (c *Config) LoadFile(path string) error {
	md, err := toml.DecodeFile(snpstat.ExpandHome(path), c)
	if err != nil {
		return pfx.Err(err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return pfx.Err(fmt.Errorf("unknown keys in %s: %v", path, undecoded))
	}

	return nil
}

// LoadEnv overlays the SNPSTAT_* environment variables that are set.
func (c *Config) LoadEnv() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// ResolvedFormat returns the genotype source format, guessing from the file
// name when the format is auto.
func (c Config) ResolvedFormat() string {
	if c.Format != FormatAuto && c.Format != "" {
		return c.Format
	}

	name := strings.ToLower(c.Geno)
	for _, suffix := range []string{".gz", ".bgz", ".zst", ".xz", ".bz2"} {
		name = strings.TrimSuffix(name, suffix)
	}

	switch {
	case strings.HasSuffix(name, ".vcf"):
		return FormatVCF
	case strings.HasSuffix(name, ".bgen"):
		return FormatBGEN
	}

	return FormatText
}

// EncodingMode parses the configured allele encoding.
func (c Config) EncodingMode() (genotype.Encoding, error) {
	return genotype.ParseEncoding(c.Encoding)
}

// FieldDelimiter parses the configured delimiter.
func (c Config) FieldDelimiter() (snpstat.Delimiter, error) {
	return snpstat.ParseDelimiter(c.Delimiter)
}

// BigQueryEnabled reports whether statistics should be uploaded.
func (c Config) BigQueryEnabled() bool {
	return c.BigQueryProject != "" || c.BigQueryDataset != "" || c.BigQueryTable != ""
}

// Validate reports the first problem with the configuration.
func (c Config) Validate() error {
	if c.Geno == "" {
		return fmt.Errorf("a genotype source is required")
	}
	if c.Out == "" {
		return fmt.Errorf("an output path for the masked genotypes is required")
	}
	if c.Report == "" {
		return fmt.Errorf("an output path for the marker report is required")
	}

	if c.RelationshipColumns < 1 {
		return fmt.Errorf("relationship columns must be at least 1, got %d", c.RelationshipColumns)
	}

	if _, err := c.EncodingMode(); err != nil {
		return err
	}
	if _, err := c.FieldDelimiter(); err != nil {
		return err
	}

	switch format := c.ResolvedFormat(); format {
	case FormatText, FormatVCF:
	case FormatBGEN:
		if snpstat.IsGoogleStoragePath(c.Geno) {
			return fmt.Errorf("BGEN sources must be local files, got %s", c.Geno)
		}
	default:
		return fmt.Errorf("format %q is not recognized. Valid values are %s, %s, %s or %s", format, FormatAuto, FormatText, FormatVCF, FormatBGEN)
	}

	if c.MinProbability <= 0 || c.MinProbability > 1 {
		return fmt.Errorf("the minimum genotype probability must be in (0, 1], got %g", c.MinProbability)
	}
	if c.HWECutoff < 0 || c.HWECutoff > 1 {
		return fmt.Errorf("the HWE cutoff must be in [0, 1], got %g", c.HWECutoff)
	}

	if c.BigQueryEnabled() && (c.BigQueryProject == "" || c.BigQueryDataset == "" || c.BigQueryTable == "") {
		return fmt.Errorf("BigQuery upload needs a project, a dataset and a table")
	}

	return nil
}
