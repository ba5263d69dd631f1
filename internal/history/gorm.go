package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/flame-analysis/pkg/errors"
	"github.com/flame-analysis/pkg/model"
)

// GormRunRepository implements RunRepository using GORM.
type GormRunRepository struct {
	db *gorm.DB
}

// NewGormRunRepository creates a new GormRunRepository.
func NewGormRunRepository(db *gorm.DB) *GormRunRepository {
	return &GormRunRepository{db: db}
}

// Save persists one run summary and fills in its assigned ID.
func (r *GormRunRepository) Save(ctx context.Context, run *model.RunSummary) error {
	row := fromModel(run)
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now()
	}

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return apperrors.Wrap(apperrors.CodeDatabaseError, "failed to save run", err)
	}

	run.ID = row.ID
	run.CreatedAt = row.CreatedAt
	return nil
}

// List returns the most recent runs, newest first.
func (r *GormRunRepository) List(ctx context.Context, limit int) ([]*model.RunSummary, error) {
	var rows []ReportRun

	err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to query runs", err)
	}

	runs := make([]*model.RunSummary, len(rows))
	for i := range rows {
		runs[i] = rows[i].ToModel()
	}
	return runs, nil
}

// GetByID retrieves one run by its ID.
func (r *GormRunRepository) GetByID(ctx context.Context, id int64) (*model.RunSummary, error) {
	var row ReportRun

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("run not found: %d", id))
		}
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to get run", err)
	}

	return row.ToModel(), nil
}

// Prune deletes runs created before the cutoff.
func (r *GormRunRepository) Prune(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&ReportRun{})
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to prune runs", result.Error)
	}
	return result.RowsAffected, nil
}
