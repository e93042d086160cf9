package persistence

import (
	"database/sql"
	"encoding/json"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/alexandercbooth/netket/internal/domain/learning"
	"github.com/alexandercbooth/netket/internal/domain/vmcerr"
)

// RunRecord is one registered optimization run: an identifier, the
// config document it was launched from, and a status string a caller
// updates as the run progresses.
type RunRecord struct {
	ID     string
	Config string
	Status string
}

// RunStore is the optional durable sink for run metadata and iteration
// records, additive to the flat `.log`/`.wf` files spec §6 requires.
// This repo ships two implementations sharing one schema and one set of
// SQL statements, the same sqlite/Postgres duality the teacher's memory
// backend offers (`modernc.org/sqlite` locally, `github.com/lib/pq` for
// a shared-cluster deployment).
type RunStore interface {
	// RegisterRun inserts a new run record.
	RegisterRun(r RunRecord) error
	// UpdateStatus updates a run's status field.
	UpdateStatus(id, status string) error
	// AppendIteration records one IterationStats against a run.
	AppendIteration(runID string, s learning.IterationStats) error
	// Iterations returns every recorded IterationStats for a run, in
	// iteration order.
	Iterations(runID string) ([]learning.IterationStats, error)
	// Close releases the underlying connection.
	Close() error
}

// sqlStore is the shared implementation behind both driver variants;
// only the driver name and DSN differ, matching how every
// `database/sql` backend in the pack is used (open by name, plug into
// the same `*sql.DB` API regardless of driver).
type sqlStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	config TEXT NOT NULL,
	status TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS iterations (
	run_id TEXT NOT NULL,
	iteration INTEGER NOT NULL,
	energy_mean DOUBLE PRECISION NOT NULL,
	energy_variance DOUBLE PRECISION NOT NULL,
	acceptance DOUBLE PRECISION NOT NULL,
	observables TEXT,
	degenerate BOOLEAN NOT NULL
);
`

func open(driver, dsn string) (*sqlStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, vmcerr.New(vmcerr.IO, "persistence.open", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, vmcerr.New(vmcerr.IO, "persistence.open", err)
	}
	return &sqlStore{db: db}, nil
}

// NewSQLiteStore opens (creating if needed) a sqlite-backed RunStore at
// path.
func NewSQLiteStore(path string) (RunStore, error) {
	return open("sqlite", path)
}

// NewPostgresStore opens a Postgres-backed RunStore at the given DSN,
// for shared-cluster deployments where several hosts' workers need to
// see the same run registry.
func NewPostgresStore(dsn string) (RunStore, error) {
	return open("postgres", dsn)
}

func (s *sqlStore) RegisterRun(r RunRecord) error {
	_, err := s.db.Exec(`INSERT INTO runs (id, config, status) VALUES ($1, $2, $3)`, r.ID, r.Config, r.Status)
	if err != nil {
		return vmcerr.New(vmcerr.IO, "persistence.RegisterRun", err)
	}
	return nil
}

func (s *sqlStore) UpdateStatus(id, status string) error {
	_, err := s.db.Exec(`UPDATE runs SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return vmcerr.New(vmcerr.IO, "persistence.UpdateStatus", err)
	}
	return nil
}

func (s *sqlStore) AppendIteration(runID string, st learning.IterationStats) error {
	obsJSON, err := json.Marshal(st.Observables)
	if err != nil {
		obsJSON = []byte("{}")
	}
	_, err = s.db.Exec(`
		INSERT INTO iterations (run_id, iteration, energy_mean, energy_variance, acceptance, observables, degenerate)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, runID, st.Iteration, st.EnergyMean, st.EnergyVariance, st.Acceptance, string(obsJSON), st.Degenerate)
	if err != nil {
		return vmcerr.New(vmcerr.IO, "persistence.AppendIteration", err)
	}
	return nil
}

func (s *sqlStore) Iterations(runID string) ([]learning.IterationStats, error) {
	rows, err := s.db.Query(`
		SELECT iteration, energy_mean, energy_variance, acceptance, observables, degenerate
		FROM iterations WHERE run_id = $1 ORDER BY iteration ASC
	`, runID)
	if err != nil {
		return nil, vmcerr.New(vmcerr.IO, "persistence.Iterations", err)
	}
	defer rows.Close()

	var out []learning.IterationStats
	for rows.Next() {
		var st learning.IterationStats
		var obsJSON string
		if err := rows.Scan(&st.Iteration, &st.EnergyMean, &st.EnergyVariance, &st.Acceptance, &obsJSON, &st.Degenerate); err != nil {
			return nil, vmcerr.New(vmcerr.IO, "persistence.Iterations", err)
		}
		if obsJSON != "" {
			json.Unmarshal([]byte(obsJSON), &st.Observables)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, vmcerr.New(vmcerr.IO, "persistence.Iterations", err)
	}
	return out, nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}
