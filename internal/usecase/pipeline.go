package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/image-pipeline/internal/auth"
	"github.com/example/image-pipeline/internal/logging"
	"github.com/example/image-pipeline/internal/pipeline"
	"github.com/example/image-pipeline/internal/repository"
)

// RunStore defines the persistence operations needed by the use case.
type RunStore interface {
	SaveRun(ctx context.Context, run *repository.PipelineRun) error
	FindByRequestID(ctx context.Context, requestID string) (*repository.PipelineRun, error)
	AggregateMetrics(ctx context.Context) (*repository.MetricsAggregation, error)
}

// PipelineUseCase exposes the three step handlers plus run bookkeeping. Each
// step is stateless: it reads nothing but its input payload and writes
// nothing but its own output, so the orchestrator may invoke steps in any
// process, in any order it guarantees itself.
type PipelineUseCase struct {
	fetcher    *pipeline.Fetcher
	classifier *pipeline.Classifier
	filter     *pipeline.Filter
	runs       RunStore
	cache      RunCache
	logger     *zap.Logger
}

type cachedRun struct {
	RequestID string    `json:"request_id"`
	S3Bucket  string    `json:"s3_bucket"`
	S3Key     string    `json:"s3_key"`
	MaxScore  float64   `json:"max_score"`
	Accepted  bool      `json:"accepted"`
	Caller    string    `json:"caller,omitempty"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPipelineUseCase constructs a new use case instance.
func NewPipelineUseCase(
	fetcher *pipeline.Fetcher,
	classifier *pipeline.Classifier,
	filter *pipeline.Filter,
	runs RunStore,
	cache RunCache,
	logger *zap.Logger,
) *PipelineUseCase {
	return &PipelineUseCase{
		fetcher:    fetcher,
		classifier: classifier,
		filter:     filter,
		runs:       runs,
		cache:      cache,
		logger:     logger.Named("pipeline_usecase"),
	}
}

// Fetch runs the serialize step for one orchestrator invocation.
func (uc *PipelineUseCase) Fetch(ctx context.Context, in pipeline.FetchInput) (*pipeline.Payload, error) {
	requestID := uuid.NewString()
	opLogger := logging.WithStep(uc.logger, "fetch", requestID)

	p, err := uc.fetcher.Run(ctx, in)
	if err != nil {
		opLogger.Error("fetch step failed", zap.Error(err))
		return nil, logging.NewStepError("usecase.fetch", requestID, err)
	}
	return p, nil
}

// Classify runs the classification step for one orchestrator invocation.
func (uc *PipelineUseCase) Classify(ctx context.Context, p *pipeline.Payload) (*pipeline.Payload, error) {
	requestID := uuid.NewString()
	opLogger := logging.WithStep(uc.logger, "classify", requestID)

	out, err := uc.classifier.Run(ctx, p)
	if err != nil {
		opLogger.Error("classify step failed", zap.Error(err))
		return nil, logging.NewStepError("usecase.classify", requestID, err)
	}
	return out, nil
}

// Filter runs the confidence filter and records the decision. The returned
// request id identifies the audit record; the payload comes back unchanged
// on acceptance. Rejections surface as pipeline.ErrConfidenceNotMet, still
// matchable through the wrapping.
func (uc *PipelineUseCase) Filter(ctx context.Context, p *pipeline.Payload) (string, *pipeline.Payload, error) {
	requestID := uuid.NewString()
	opLogger := logging.WithStep(uc.logger, "filter", requestID)

	out, err := uc.filter.Run(ctx, p)

	var rejection *pipeline.ThresholdError
	switch {
	case err == nil:
		maxScore, scoreErr := pipeline.MaxScore(p.Inferences)
		if scoreErr != nil {
			// The filter already parsed the same text, so this cannot fail.
			opLogger.Error("score re-parse failed after accept", zap.Error(scoreErr))
			return "", nil, logging.NewStepError("usecase.filter", requestID, scoreErr)
		}
		uc.recordDecision(ctx, opLogger, requestID, p, maxScore, true)
		return requestID, out, nil
	case errors.As(err, &rejection):
		uc.recordDecision(ctx, opLogger, requestID, p, rejection.MaxScore, false)
		return requestID, nil, logging.NewStepError("usecase.filter", requestID, err)
	default:
		// Parse and empty-sequence failures are infrastructure errors, not
		// decisions, and leave no audit record.
		opLogger.Error("filter step failed", zap.Error(err))
		return "", nil, logging.NewStepError("usecase.filter", requestID, err)
	}
}

// recordDecision persists the audit row and caches it. Neither write may
// change the step outcome, so failures are logged and swallowed.
func (uc *PipelineUseCase) recordDecision(ctx context.Context, opLogger *zap.Logger, requestID string, p *pipeline.Payload, maxScore float64, accepted bool) {
	caller, _ := auth.GetCaller(ctx)
	run := &repository.PipelineRun{
		RequestID: requestID,
		S3Bucket:  p.S3Bucket,
		S3Key:     p.S3Key,
		MaxScore:  maxScore,
		Accepted:  accepted,
		Caller:    caller,
		Details:   fmt.Sprintf("accepted:%t max_score:%f threshold:%f", accepted, maxScore, pipeline.ConfidenceThreshold),
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.runs.SaveRun(ctx, run); err != nil {
		opLogger.Warn("failed to persist run record", zap.Error(err))
		return
	}

	cached := cachedRun{
		RequestID: run.RequestID,
		S3Bucket:  run.S3Bucket,
		S3Key:     run.S3Key,
		MaxScore:  run.MaxScore,
		Accepted:  run.Accepted,
		Caller:    run.Caller,
		Details:   run.Details,
		CreatedAt: run.CreatedAt,
	}
	serialized, err := json.Marshal(cached)
	if err != nil {
		opLogger.Warn("failed to serialize run record", zap.Error(err))
		return
	}
	if err := uc.cache.PutRun(ctx, requestID, string(serialized)); err != nil {
		opLogger.Warn("failed to cache run record", zap.Error(err))
	}
}

// GetRun retrieves a recorded filter decision, preferring the cache and
// falling back to persistence.
func (uc *PipelineUseCase) GetRun(ctx context.Context, requestID string) (*repository.PipelineRun, error) {
	opLogger := logging.WithStep(uc.logger, "get_run", requestID)

	if cached, err := uc.cache.GetRun(ctx, requestID); err == nil {
		var payload cachedRun
		if err := json.Unmarshal([]byte(cached), &payload); err != nil {
			opLogger.Warn("failed to decode cached run", zap.Error(err))
		} else {
			return &repository.PipelineRun{
				RequestID: payload.RequestID,
				S3Bucket:  payload.S3Bucket,
				S3Key:     payload.S3Key,
				MaxScore:  payload.MaxScore,
				Accepted:  payload.Accepted,
				Caller:    payload.Caller,
				Details:   payload.Details,
				CreatedAt: payload.CreatedAt,
			}, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		opLogger.Warn("failed to read run cache", zap.Error(err))
	}

	return uc.runs.FindByRequestID(ctx, requestID)
}
