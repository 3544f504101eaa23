package usecase

import "context"

// MetricsSummary represents aggregated pipeline insights.
type MetricsSummary struct {
	TotalRuns       int64   `json:"total_runs"`
	AcceptedRuns    int64   `json:"accepted_runs"`
	AcceptRate      float64 `json:"accept_rate"`
	AverageMaxScore float64 `json:"average_max_score"`
}

// GetMetricsSummary aggregates filter decisions from persisted run records.
func (uc *PipelineUseCase) GetMetricsSummary(ctx context.Context) (*MetricsSummary, error) {
	aggregation, err := uc.runs.AggregateMetrics(ctx)
	if err != nil {
		return nil, err
	}

	summary := &MetricsSummary{
		TotalRuns:       aggregation.TotalCount,
		AcceptedRuns:    aggregation.AcceptedCount,
		AverageMaxScore: aggregation.AverageMaxScore,
	}

	if aggregation.TotalCount > 0 {
		summary.AcceptRate = float64(aggregation.AcceptedCount) / float64(aggregation.TotalCount)
	}

	return summary, nil
}
