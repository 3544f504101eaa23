package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/example/image-pipeline/internal/logging"
)

// ConfidenceThreshold is the minimum score a classification must reach for
// the payload to pass the filter. Inclusive.
const ConfidenceThreshold = 0.93

// Filter is the final pipeline step and its only decision point: payloads
// whose best score misses the threshold are rejected.
type Filter struct {
	threshold float64
	logger    *zap.Logger
}

// NewFilter constructs the filter step at the fixed threshold.
func NewFilter(logger *zap.Logger) *Filter {
	return &Filter{threshold: ConfidenceThreshold, logger: logger.Named("filter_step")}
}

// Run parses the payload's inferences as a number sequence, takes the
// maximum, and either returns the payload unchanged or rejects it with
// ErrConfidenceNotMet. An empty sequence is rejected with ErrNoInferences
// rather than passed through.
func (f *Filter) Run(ctx context.Context, p *Payload) (*Payload, error) {
	maxScore, err := MaxScore(p.Inferences)
	if err != nil {
		wrapped := logging.NewStepError("filter.parse_inferences", "", err)
		if !errors.Is(err, ErrNoInferences) {
			f.logger.Error("inferences are not a numeric sequence", zap.Error(wrapped))
		}
		return nil, wrapped
	}

	if maxScore < f.threshold {
		f.logger.Info("payload rejected",
			zap.String("bucket", p.S3Bucket),
			zap.String("key", p.S3Key),
			zap.Float64("max_score", maxScore),
			zap.Float64("threshold", f.threshold))
		return nil, &ThresholdError{MaxScore: maxScore, Threshold: f.threshold}
	}

	f.logger.Info("payload accepted",
		zap.String("bucket", p.S3Bucket),
		zap.String("key", p.S3Key),
		zap.Float64("max_score", maxScore))
	return p, nil
}

// MaxScore parses an inference sequence and reports its best score. Also
// used for the audit record written after a filter decision. A payload the
// classifier never touched carries no inference text at all; that is the
// same empty sequence as a literal [].
func MaxScore(inferences string) (float64, error) {
	if strings.TrimSpace(inferences) == "" {
		return 0, ErrNoInferences
	}
	var scores []float64
	if err := json.Unmarshal([]byte(inferences), &scores); err != nil {
		return 0, err
	}
	if len(scores) == 0 {
		return 0, ErrNoInferences
	}
	m := scores[0]
	for _, s := range scores[1:] {
		if s > m {
			m = s
		}
	}
	return m, nil
}
