package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// timeLayout is fixed width so that stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Run status values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Run is one recorded conversion.
type Run struct {
	ID           string
	StartedAt    time.Time
	Duration     time.Duration
	IndexPath    string
	OutputPath   string
	Format       string
	Granularity  int
	LOD          string
	Compact      bool
	Documents    int
	Definitions  int
	Edges        int
	InputTokens  int
	OutputTokens int
	Status       string
	ErrorCode    string
}

// Ratio returns the input to output token ratio, or 0 when unknown.
func (r *Run) Ratio() float64 {
	if r.InputTokens == 0 || r.OutputTokens == 0 {
		return 0
	}
	return float64(r.InputTokens) / float64(r.OutputTokens)
}

// RecordRun inserts a run. An empty ID gets a fresh UUID, which is written
// back into run.
func (db *DB) RecordRun(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.Status == "" {
		run.Status = StatusSuccess
	}

	return db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO runs (
				id, started_at, duration_ms, index_path, output_path,
				format, granularity, lod, compact,
				documents, definitions, edges, input_tokens, output_tokens,
				status, error_code
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID,
			run.StartedAt.UTC().Format(timeLayout),
			run.Duration.Milliseconds(),
			run.IndexPath,
			nullString(run.OutputPath),
			run.Format,
			run.Granularity,
			run.LOD,
			boolToInt(run.Compact),
			run.Documents,
			run.Definitions,
			run.Edges,
			run.InputTokens,
			run.OutputTokens,
			run.Status,
			nullString(run.ErrorCode),
		)
		if err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}
		return nil
	})
}

const runColumns = `id, started_at, duration_ms, index_path, output_path,
	format, granularity, lod, compact,
	documents, definitions, edges, input_tokens, output_tokens,
	status, error_code`

// ListRuns returns the most recent runs first. limit <= 0 returns all.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, id"
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRun returns the run with the given id, or nil if none exists.
func (db *DB) GetRun(id string) (*Run, error) {
	row := db.conn.QueryRow("SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return run, err
}

// PruneRuns deletes runs started before cutoff and returns how many went.
func (db *DB) PruneRuns(cutoff time.Time) (int64, error) {
	res, err := db.conn.Exec("DELETE FROM runs WHERE started_at < ?", cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(s scanner) (*Run, error) {
	var (
		run        Run
		startedAt  string
		durationMs int64
		outputPath sql.NullString
		compact    int
		errorCode  sql.NullString
	)

	err := s.Scan(
		&run.ID, &startedAt, &durationMs, &run.IndexPath, &outputPath,
		&run.Format, &run.Granularity, &run.LOD, &compact,
		&run.Documents, &run.Definitions, &run.Edges, &run.InputTokens, &run.OutputTokens,
		&run.Status, &errorCode,
	)
	if err != nil {
		return nil, err
	}

	run.StartedAt, err = time.Parse(timeLayout, startedAt)
	if err != nil {
		return nil, fmt.Errorf("run %s has a malformed start time: %w", run.ID, err)
	}
	run.Duration = time.Duration(durationMs) * time.Millisecond
	run.OutputPath = outputPath.String
	run.Compact = compact != 0
	run.ErrorCode = errorCode.String
	return &run, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
