// Package history persists report run summaries so past analyses stay
// queryable from the command line.
package history

import (
	"context"
	"time"

	"github.com/flame-analysis/pkg/model"
)

// RunRepository defines the run-history database operations.
type RunRepository interface {
	// Save persists one run summary and fills in its assigned ID.
	Save(ctx context.Context, run *model.RunSummary) error

	// List returns the most recent runs, newest first.
	List(ctx context.Context, limit int) ([]*model.RunSummary, error)

	// GetByID retrieves one run by its ID.
	GetByID(ctx context.Context, id int64) (*model.RunSummary, error)

	// Prune deletes runs created before the cutoff and returns the
	// number removed.
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// ReportRun is the report_runs table.
type ReportRun struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	InputFile    string    `gorm:"column:input_file;type:varchar(512)"`
	FrameCount   int       `gorm:"column:frame_count"`
	TotalSamples int64     `gorm:"column:total_samples"`
	GroupBy      string    `gorm:"column:group_by;type:varchar(32)"`
	TopFunction  string    `gorm:"column:top_function;type:varchar(512)"`
	TopSamples   int64     `gorm:"column:top_samples"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime;index"`
}

// TableName returns the table name for ReportRun.
func (ReportRun) TableName() string {
	return "report_runs"
}

// ToModel converts a ReportRun row to a RunSummary.
func (r *ReportRun) ToModel() *model.RunSummary {
	return &model.RunSummary{
		ID:           r.ID,
		InputFile:    r.InputFile,
		FrameCount:   r.FrameCount,
		TotalSamples: r.TotalSamples,
		GroupBy:      r.GroupBy,
		TopFunction:  r.TopFunction,
		TopSamples:   r.TopSamples,
		CreatedAt:    r.CreatedAt,
	}
}

// fromModel converts a RunSummary to its table row.
func fromModel(s *model.RunSummary) *ReportRun {
	return &ReportRun{
		ID:           s.ID,
		InputFile:    s.InputFile,
		FrameCount:   s.FrameCount,
		TotalSamples: s.TotalSamples,
		GroupBy:      s.GroupBy,
		TopFunction:  s.TopFunction,
		TopSamples:   s.TopSamples,
		CreatedAt:    s.CreatedAt,
	}
}
