package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/carbocation/pfx"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"gopkg.in/guregu/null.v3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS run (
	run_id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	genotype_source TEXT NOT NULL,
	markers INTEGER NOT NULL,
	individuals INTEGER NOT NULL,
	discordant_calls INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS marker (
	run_id TEXT NOT NULL REFERENCES run(run_id),
	rank INTEGER NOT NULL,
	name TEXT NOT NULL,
	chromosome TEXT NOT NULL,
	position INTEGER NOT NULL,
	alleles TEXT NOT NULL,
	maf REAL,
	a0 INTEGER NOT NULL,
	a1 INTEGER NOT NULL,
	a2 INTEGER NOT NULL,
	an INTEGER NOT NULL,
	discordant INTEGER NOT NULL,
	error_rate REAL,
	hwe_p REAL,
	PRIMARY KEY (run_id, rank)
);
CREATE TABLE IF NOT EXISTS individual (
	run_id TEXT NOT NULL REFERENCES run(run_id),
	id TEXT NOT NULL,
	father TEXT NOT NULL,
	mother TEXT NOT NULL,
	family INTEGER NOT NULL,
	genotyped INTEGER NOT NULL,
	missing INTEGER NOT NULL,
	discordant INTEGER NOT NULL,
	PRIMARY KEY (run_id, id)
);
`

// Run identifies one snpstat invocation across the structured sinks.
type Run struct {
	ID             string
	StartedAt      time.Time
	GenotypeSource string
}

func NewRun(genotypeSource string) Run {
	return Run{
		ID:             uuid.New().String(),
		StartedAt:      time.Now().UTC(),
		GenotypeSource: genotypeSource,
	}
}

type sqlMarker struct {
	RunID      string     `db:"run_id"`
	Rank       int        `db:"rank"`
	Name       string     `db:"name"`
	Chromosome string     `db:"chromosome"`
	Position   int        `db:"position"`
	Alleles    string     `db:"alleles"`
	MAF        null.Float `db:"maf"`
	A0         int        `db:"a0"`
	A1         int        `db:"a1"`
	A2         int        `db:"a2"`
	An         int        `db:"an"`
	Discordant int        `db:"discordant"`
	ErrorRate  null.Float `db:"error_rate"`
	HWE        null.Float `db:"hwe_p"`
}

type sqlIndividual struct {
	RunID string `db:"run_id"`
	IndividualStats
}

// nullFloat maps NaN to SQL NULL.
func nullFloat(v float64) null.Float {
	return null.NewFloat(v, !math.IsNaN(v))
}

// Store appends runs to a SQLite database. Each run's rows are keyed by its
// run ID, so a database can accumulate many runs.
type Store struct {
	DB *sqlx.DB
}

// OpenStore opens or creates a SQLite database and ensures the tables exist.
func OpenStore(path string) (*Store, error) {
	// URI filenames have to begin with 'file:'; see
	// https://www.sqlite.org/c3ref/open.html
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}

	db, err := sqlx.Connect(whichSQLiteDriver, path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, pfx.Err(fmt.Errorf("unable to create tables: %w", err))
	}

	return &Store{DB: db}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// Save writes one run in a single transaction.
func (s *Store) Save(run Run, markers []MarkerStats, individuals []IndividualStats) error {
	tx, err := s.DB.Beginx()
	if err != nil {
		return pfx.Err(err)
	}
	defer tx.Rollback()

	discordant := 0
	for _, m := range markers {
		discordant += m.Discordant
	}

	if _, err := tx.Exec(`INSERT INTO run (run_id, started_at, genotype_source, markers, individuals, discordant_calls) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.Format(time.RFC3339), run.GenotypeSource, len(markers), len(individuals), discordant); err != nil {
		return pfx.Err(err)
	}

	for rank, m := range markers {
		row := sqlMarker{
			RunID:      run.ID,
			Rank:       rank,
			Name:       m.Name,
			Chromosome: m.Chromosome,
			Position:   m.Position,
			Alleles:    m.Alleles,
			MAF:        nullFloat(m.MAF),
			A0:         m.A0,
			A1:         m.A1,
			A2:         m.A2,
			An:         m.An,
			Discordant: m.Discordant,
			ErrorRate:  nullFloat(m.ErrorRate),
			HWE:        nullFloat(m.HWE),
		}
		if _, err := tx.NamedExec(`INSERT INTO marker (run_id, rank, name, chromosome, position, alleles, maf, a0, a1, a2, an, discordant, error_rate, hwe_p)
			VALUES (:run_id, :rank, :name, :chromosome, :position, :alleles, :maf, :a0, :a1, :a2, :an, :discordant, :error_rate, :hwe_p)`, row); err != nil {
			return pfx.Err(err)
		}
	}

	for _, ind := range individuals {
		row := sqlIndividual{RunID: run.ID, IndividualStats: ind}
		if _, err := tx.NamedExec(`INSERT INTO individual (run_id, id, father, mother, family, genotyped, missing, discordant)
			VALUES (:run_id, :id, :father, :mother, :family, :genotyped, :missing, :discordant)`, row); err != nil {
			return pfx.Err(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return pfx.Err(err)
	}

	return nil
}
