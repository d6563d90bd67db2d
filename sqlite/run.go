package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/cardcrawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ cardcrawl.RunService = (*RunService)(nil)

// RunService implements cardcrawl.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun assigns an ID and start time and stores the run.
func (s *RunService) CreateRun(ctx context.Context, run *cardcrawl.Run) error {
	if err := run.Source.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	run.StartedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, source, started_at)
		VALUES (?, ?, ?)
	`, run.ID, string(run.Source), formatTime(run.StartedAt))

	return err
}

// FinishRun stores the final counts and sets the finish time.
func (s *RunService) FinishRun(ctx context.Context, run *cardcrawl.Run) error {
	run.FinishedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, saved = ?, empty = ?, failed = ?, skipped = ?
		WHERE id = ?
	`, formatTime(run.FinishedAt), run.Saved, run.Empty, run.Failed, run.Skipped, run.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return cardcrawl.Errorf(cardcrawl.ENOTFOUND, "run not found")
	}

	return nil
}

// FindRuns retrieves runs matching the filter, most recent first.
func (s *RunService) FindRuns(ctx context.Context, filter cardcrawl.RunFilter) ([]*cardcrawl.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, source, started_at, finished_at, saved, empty, failed, skipped FROM runs WHERE 1=1")

	if filter.Source != nil {
		query.WriteString(" AND source = ?")
		args = append(args, string(*filter.Source))
	}

	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*cardcrawl.Run
	for rows.Next() {
		var run cardcrawl.Run
		var source, startedAt, finishedAt string

		if err := rows.Scan(&run.ID, &source, &startedAt, &finishedAt,
			&run.Saved, &run.Empty, &run.Failed, &run.Skipped); err != nil {
			return nil, err
		}

		run.Source = cardcrawl.Source(source)
		if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
			return nil, err
		}
		if finishedAt != "" {
			if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
				return nil, err
			}
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}
