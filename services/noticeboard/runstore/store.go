// Package runstore records the outcome of every scrape run in sqlite
// so the CLI and health checks can report history without trawling
// logs.
package runstore

import (
	"context"
	"database/sql"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/noticeboard/runstore")

type Run struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time
	Success    bool
	SectionsOK int
	Attempts   int
	Error      string
}

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

func (s Store) Insert(ctx context.Context, run Run) error {
	ctx, span := tracer.Start(ctx, "Insert")
	defer span.End()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, finished_at, success, sections_ok, attempts, error)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.StartedAt.Unix(), run.FinishedAt.Unix(),
		run.Success, run.SectionsOK, run.Attempts, run.Error,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	ctx, span := tracer.Start(ctx, "Recent")
	defer span.End()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, success, sections_ok, attempts, error
		 FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished int64
		err := rows.Scan(&r.ID, &started, &finished, &r.Success, &r.SectionsOK, &r.Attempts, &r.Error)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		r.StartedAt = time.Unix(started, 0)
		r.FinishedAt = time.Unix(finished, 0)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Latest returns the most recent run, or sql.ErrNoRows when nothing
// has run yet.
func (s Store) Latest(ctx context.Context) (Run, error) {
	runs, err := s.Recent(ctx, 1)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, sql.ErrNoRows
	}
	return runs[0], nil
}

func (s Store) Count(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "Count")
	defer span.End()

	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	return n, nil
}
