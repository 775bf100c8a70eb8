// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store archives conversion runs and their voter records in SQLite
// so successive exports can be queried and compared.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/voter-history/pkg/types"
)

const defaultLimit = 100

// Store manages the run archive database.
type Store struct {
	db *sql.DB
}

// Run describes one archived conversion.
type Run struct {
	ID        int64     `json:"id" yaml:"id"`
	Source    string    `json:"source" yaml:"source"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Records   int       `json:"records" yaml:"records"`
}

// WardCount is the number of voters of one ward/precinct in a run.
type WardCount struct {
	WardPrecinct string `json:"ward_precinct" yaml:"ward_precinct"`
	Voters       int    `json:"voters" yaml:"voters"`
}

// QueryOptions filters Records. Zero values match everything; a zero RunID
// selects the most recent run.
type QueryOptions struct {
	RunID        int64
	WardPrecinct string
	Party        string
	Status       string
	Limit        int
}

// NewStore opens or creates the database at cfg.DBPath and ensures the
// schema exists.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			created_at TEXT NOT NULL,
			records INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS voters (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			ward_precinct TEXT NOT NULL,
			voter_id TEXT NOT NULL,
			party TEXT NOT NULL,
			name TEXT NOT NULL,
			history TEXT NOT NULL,
			address TEXT NOT NULL,
			status TEXT NOT NULL,
			ballot_type TEXT NOT NULL,
			PRIMARY KEY (run_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_voters_ward ON voters(run_id, ward_precinct)`,
		`CREATE INDEX IF NOT EXISTS idx_voters_voter_id ON voters(voter_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun stores records as a new run in one transaction, preserving their
// order.
func (s *Store) SaveRun(ctx context.Context, source string, records []types.VoterRecord) (Run, error) {
	run := Run{
		Source:    source,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Records:   len(records),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (source, created_at, records) VALUES (?, ?, ?)`,
		run.Source, run.CreatedAt.Format(time.RFC3339), run.Records)
	if err != nil {
		return Run{}, fmt.Errorf("inserting run: %w", err)
	}
	if run.ID, err = res.LastInsertId(); err != nil {
		return Run{}, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO voters
		(run_id, seq, ward_precinct, voter_id, party, name, history, address, status, ballot_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("preparing voter insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, run.ID, i,
			r.WardPrecinct, r.VoterID, r.Party, r.Name, r.History, r.Address, r.Status, r.BallotType,
		); err != nil {
			return Run{}, fmt.Errorf("inserting voter %s: %w", r.VoterID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("committing run: %w", err)
	}
	return run, nil
}

// Runs lists archived runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, created_at, records FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &r.Source, &created, &r.Records); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, created)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Records returns the voters of a run matching opts, in source order.
func (s *Store) Records(ctx context.Context, opts QueryOptions) ([]types.VoterRecord, error) {
	runID, err := s.resolveRun(ctx, opts.RunID)
	if err != nil {
		return nil, err
	}

	where := []string{"run_id = ?"}
	args := []any{runID}
	for col, val := range map[string]string{
		"ward_precinct": opts.WardPrecinct,
		"party":         opts.Party,
		"status":        opts.Status,
	} {
		if val != "" {
			where = append(where, col+" = ?")
			args = append(args, val)
		}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	args = append(args, limit)

	query := `SELECT ward_precinct, voter_id, party, name, history, address, status, ballot_type
		FROM voters WHERE ` + strings.Join(where, " AND ") + ` ORDER BY seq LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying voters: %w", err)
	}
	defer rows.Close()

	var records []types.VoterRecord
	for rows.Next() {
		var r types.VoterRecord
		if err := rows.Scan(&r.WardPrecinct, &r.VoterID, &r.Party, &r.Name,
			&r.History, &r.Address, &r.Status, &r.BallotType); err != nil {
			return nil, fmt.Errorf("scanning voter: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// WardSummary counts voters per ward/precinct in a run. A zero runID
// selects the most recent run.
func (s *Store) WardSummary(ctx context.Context, runID int64) ([]WardCount, error) {
	runID, err := s.resolveRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT ward_precinct, COUNT(*) FROM voters WHERE run_id = ?
		 GROUP BY ward_precinct ORDER BY MIN(seq)`, runID)
	if err != nil {
		return nil, fmt.Errorf("summarizing wards: %w", err)
	}
	defer rows.Close()

	var counts []WardCount
	for rows.Next() {
		var c WardCount
		if err := rows.Scan(&c.WardPrecinct, &c.Voters); err != nil {
			return nil, fmt.Errorf("scanning ward count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (s *Store) resolveRun(ctx context.Context, runID int64) (int64, error) {
	if runID > 0 {
		return runID, nil
	}
	var id sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(id) FROM runs`).Scan(&id); err != nil {
		return 0, fmt.Errorf("finding latest run: %w", err)
	}
	if !id.Valid {
		return 0, fmt.Errorf("no runs stored yet")
	}
	return id.Int64, nil
}
