package repository

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PipelineRun records the outcome of one filter decision. The payload itself
// is never persisted; only the decision and where the image came from.
type PipelineRun struct {
	ID        uint      `gorm:"primaryKey"`
	RequestID string    `gorm:"column:request_id;uniqueIndex;size:64"`
	S3Bucket  string    `gorm:"column:s3_bucket;size:255"`
	S3Key     string    `gorm:"column:s3_key;size:1024"`
	MaxScore  float64   `gorm:"column:max_score"`
	Accepted  bool      `gorm:"column:accepted"`
	Caller    string    `gorm:"column:caller;size:64"`
	Details   string    `gorm:"column:details;type:text"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName overrides the default table name.
func (PipelineRun) TableName() string {
	return "pipeline_runs"
}

// MetricsAggregation holds the raw aggregates computed over pipeline runs.
type MetricsAggregation struct {
	TotalCount      int64
	AcceptedCount   int64
	AverageMaxScore float64
}

// RunRepository provides persistence APIs for pipeline run records.
type RunRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRunRepository creates a new repository instance.
func NewRunRepository(db *gorm.DB, logger *zap.Logger) *RunRepository {
	return &RunRepository{db: db, logger: logger.Named("run_repository")}
}

// AutoMigrate ensures the schema is available.
func (r *RunRepository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&PipelineRun{})
}

// SaveRun persists a pipeline run record.
func (r *RunRepository) SaveRun(ctx context.Context, run *PipelineRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// FindByRequestID retrieves the run recorded under the given invocation id.
func (r *RunRepository) FindByRequestID(ctx context.Context, requestID string) (*PipelineRun, error) {
	var run PipelineRun
	if err := r.db.WithContext(ctx).First(&run, "request_id = ?", requestID).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// AggregateMetrics computes run totals for the metrics summary.
func (r *RunRepository) AggregateMetrics(ctx context.Context) (*MetricsAggregation, error) {
	var agg struct {
		TotalCount      int64
		AcceptedCount   int64
		AverageMaxScore *float64
	}
	err := r.db.WithContext(ctx).
		Model(&PipelineRun{}).
		Select("COUNT(*) AS total_count, " +
			"COALESCE(SUM(CASE WHEN accepted THEN 1 ELSE 0 END), 0) AS accepted_count, " +
			"AVG(max_score) AS average_max_score").
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}

	result := &MetricsAggregation{
		TotalCount:    agg.TotalCount,
		AcceptedCount: agg.AcceptedCount,
	}
	if agg.AverageMaxScore != nil {
		result.AverageMaxScore = *agg.AverageMaxScore
	}
	return result, nil
}
