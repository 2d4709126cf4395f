package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/carbocation/snpstat/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trioGenotypes = `#	m1	m2	m3
dad	0	0	AA	CT	GG
mom	0	0	AG	CC	GG
kid	dad	mom	GG	CT	00
`

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(b)
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Geno = writeFile(t, dir, "geno.txt", trioGenotypes)
	cfg.Out = filepath.Join(dir, "masked.txt")
	cfg.Report = filepath.Join(dir, "report.tsv")
	cfg.Individuals = filepath.Join(dir, "individuals.tsv")
	cfg.XLSX = filepath.Join(dir, "results.xlsx")
	cfg.SQLite = filepath.Join(dir, "runs.sqlite")
	cfg.RelationshipColumns = 3
	cfg.Encoding = "allelepair"
	require.NoError(t, cfg.Validate())

	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, &stdout))

	expectedReport := "#SNP\tMAF\ta0\ta1\ta2\tan\terr\n" +
		"m1\t0.25000\t1\t1\t0\t1\t0.333\n" +
		"m2\t0.33333\t1\t2\t0\t0\t0.000\n" +
		"m3\t0.00000\t2\t0\t0\t1\t0.000\n"
	assert.Equal(t, expectedReport, readFile(t, cfg.Report))
	assert.Equal(t, expectedReport, stdout.String())

	assert.Equal(t, "#\tm1\tm2\tm3\n"+
		"dad\t0\t0\t0\t1\t0\n"+
		"mom\t0\t0\t1\t0\t0\n"+
		"kid\tdad\tmom\t-1\t1\t-1\n", readFile(t, cfg.Out))

	assert.Contains(t, readFile(t, cfg.Individuals), "kid\tdad\tmom\t0\t1\t2\t1\n")

	_, err := os.Stat(cfg.XLSX)
	assert.NoError(t, err)
	_, err = os.Stat(cfg.SQLite)
	assert.NoError(t, err)
}

func TestRunWithSeparateTables(t *testing.T) {
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Pedigree = writeFile(t, dir, "pedigree.txt", "dad 0 0\nmom 0 0\nkid dad mom\n")
	cfg.Markers = writeFile(t, dir, "markers.bim", "1 rs1 0 100 A G\n1 rs2 0 200 C T\n")
	cfg.Geno = writeFile(t, dir, "geno.txt", "#\trs1\trs2\tunknown\ndad\t0\t0\t0\t1\t2\nmom\t0\t0\t0\t1\t2\nkid\tdad\tmom\t2\t1\t2\n")
	cfg.Out = filepath.Join(dir, "masked.txt.gz")
	cfg.Report = filepath.Join(dir, "report.tsv")
	cfg.RelationshipColumns = 3
	require.NoError(t, cfg.Validate())

	require.NoError(t, run(context.Background(), cfg, io.Discard))

	assert.Equal(t, "#SNP\tMAF\ta0\ta1\ta2\tan\terr\n"+
		"rs1\t0.00000\t2\t0\t0\t1\t0.333\n"+
		"rs2\t0.50000\t0\t3\t0\t0\t0.000\n", readFile(t, cfg.Report))

	_, err := os.Stat(cfg.Out)
	assert.NoError(t, err)
}

func TestRunPedigreeTableHonorsRelationshipColumns(t *testing.T) {
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Pedigree = writeFile(t, dir, "pedigree.txt", "dad 0 0\nmom 0 0\nkid dad mom\n")
	cfg.Geno = writeFile(t, dir, "geno.txt", "#\trs1\ndad\t0\nmom\t0\nkid\t2\n")
	cfg.Out = filepath.Join(dir, "masked.txt")
	cfg.Report = filepath.Join(dir, "report.tsv")
	require.NoError(t, cfg.Validate())

	require.NoError(t, run(context.Background(), cfg, io.Discard))

	// With one relationship column the parents in the pedigree table are not
	// read, so nobody is checked and nothing is masked.
	assert.Equal(t, "#SNP\tMAF\ta0\ta1\ta2\tan\terr\n"+
		"rs1\t0.33333\t2\t0\t1\t0\t0.000\n", readFile(t, cfg.Report))
	assert.Equal(t, "#\trs1\ndad\t0\nmom\t0\nkid\t2\n", readFile(t, cfg.Out))
}

func TestRunReportToStdoutIsWrittenOnce(t *testing.T) {
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Geno = writeFile(t, dir, "geno.txt", "#\trs1\na\t0\nb\t1\n")
	cfg.Out = filepath.Join(dir, "masked.txt")
	cfg.Report = "-"

	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, &stdout))

	assert.Equal(t, "#SNP\tMAF\ta0\ta1\ta2\tan\terr\n"+
		"rs1\t0.25000\t1\t1\t0\t0\t0.000\n", stdout.String())
}

func TestRunFailedCommitSkipsDatabase(t *testing.T) {
	dir := t.TempDir()

	// A non-empty directory at the individuals path makes its rename fail.
	blocked := filepath.Join(dir, "individuals.tsv")
	require.NoError(t, os.Mkdir(blocked, 0755))
	writeFile(t, blocked, "keep", "")

	cfg := config.Default()
	cfg.Geno = writeFile(t, dir, "geno.txt", "#\trs1\na\t0\nb\t1\n")
	cfg.Out = filepath.Join(dir, "masked.txt")
	cfg.Report = filepath.Join(dir, "report.tsv")
	cfg.Individuals = blocked
	cfg.SQLite = filepath.Join(dir, "runs.sqlite")

	assert.Error(t, run(context.Background(), cfg, io.Discard))

	_, err := os.Stat(cfg.SQLite)
	assert.True(t, os.IsNotExist(err), "no run should be recorded")
}

func TestRunFailureLeavesNoOutputs(t *testing.T) {
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Pedigree = writeFile(t, dir, "pedigree.txt", "a 0 0\n")
	cfg.Geno = writeFile(t, dir, "geno.txt", "a\t1\nstranger\t2\n")
	cfg.Out = filepath.Join(dir, "masked.txt")
	cfg.Report = filepath.Join(dir, "report.tsv")

	assert.Error(t, run(context.Background(), cfg, io.Discard))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "only the inputs should remain")
}

func TestParseArgsPrecedence(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "snpstat.toml", "geno = \"file.txt\"\nrelationship_columns = 2\nencoding = \"allelepair\"\n")

	t.Setenv("SNPSTAT_RELATIONSHIP_COLUMNS", "3")

	cfg, opts, err := parseArgs([]string{"-config", configPath, "-a", "1", "in.txt", "out.txt", "report.tsv"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, configPath, opts.configPath)

	assert.Equal(t, "in.txt", cfg.Geno, "positional arguments beat the file")
	assert.Equal(t, "out.txt", cfg.Out)
	assert.Equal(t, "report.tsv", cfg.Report)
	assert.Equal(t, 3, cfg.RelationshipColumns, "environment beats the file")
	assert.Equal(t, "1", cfg.Encoding, "flags beat the file")
	assert.Equal(t, config.FormatAuto, cfg.Format, "defaults survive")
}

func TestParseArgsFlagsBeatPositionals(t *testing.T) {
	cfg, _, err := parseArgs([]string{"-geno", "flag.txt", "-p", "ped.txt", "in.txt", "out.txt", "report.tsv"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "flag.txt", cfg.Geno)
	assert.Equal(t, "out.txt", cfg.Out)
	assert.Equal(t, "ped.txt", cfg.Pedigree)

	_, _, err = parseArgs([]string{"in.txt", "out.txt"}, io.Discard)
	assert.Error(t, err)
}
