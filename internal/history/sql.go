package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	apperrors "github.com/flame-analysis/pkg/errors"
	"github.com/flame-analysis/pkg/model"
)

// SQLRunRepository implements RunRepository over a plain *sql.DB, for
// deployments that manage the connection themselves.
type SQLRunRepository struct {
	db *sql.DB
}

// NewSQLRunRepository creates a new SQLRunRepository.
func NewSQLRunRepository(db *sql.DB) *SQLRunRepository {
	return &SQLRunRepository{db: db}
}

// Save persists one run summary and fills in its assigned ID.
func (r *SQLRunRepository) Save(ctx context.Context, run *model.RunSummary) error {
	created := run.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	query := `
		INSERT INTO report_runs (input_file, frame_count, total_samples, group_by, top_function, top_samples, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		run.InputFile, run.FrameCount, run.TotalSamples,
		run.GroupBy, run.TopFunction, run.TopSamples, created,
	)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabaseError, "failed to save run", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		run.ID = id
	}
	run.CreatedAt = created
	return nil
}

// List returns the most recent runs, newest first.
func (r *SQLRunRepository) List(ctx context.Context, limit int) ([]*model.RunSummary, error) {
	query := `
		SELECT id, input_file, frame_count, total_samples, group_by,
			   COALESCE(top_function, ''), top_samples, created_at
		FROM report_runs
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to query runs", err)
	}
	defer rows.Close()

	var runs []*model.RunSummary
	for rows.Next() {
		run := &model.RunSummary{}
		err := rows.Scan(
			&run.ID, &run.InputFile, &run.FrameCount, &run.TotalSamples,
			&run.GroupBy, &run.TopFunction, &run.TopSamples, &run.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to scan run", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to read runs", err)
	}

	return runs, nil
}

// GetByID retrieves one run by its ID.
func (r *SQLRunRepository) GetByID(ctx context.Context, id int64) (*model.RunSummary, error) {
	query := `
		SELECT id, input_file, frame_count, total_samples, group_by,
			   COALESCE(top_function, ''), top_samples, created_at
		FROM report_runs
		WHERE id = ?
	`

	run := &model.RunSummary{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID, &run.InputFile, &run.FrameCount, &run.TotalSamples,
		&run.GroupBy, &run.TopFunction, &run.TopSamples, &run.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("run not found: %d", id))
		}
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to get run", err)
	}

	return run, nil
}

// Prune deletes runs created before the cutoff.
func (r *SQLRunRepository) Prune(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM report_runs WHERE created_at < ?`, before)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to prune runs", err)
	}
	return result.RowsAffected()
}
