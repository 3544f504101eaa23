package pipeline

import "errors"

// ErrConfidenceNotMet is the business-rule rejection raised by the filter
// step when no inference score reaches the threshold. Its text is the exact
// message the orchestrator matches on.
var ErrConfidenceNotMet = errors.New("THRESHOLD_CONFIDENCE_NOT_MET")

// ErrImageDecode marks payloads whose image_data is not valid base64. The
// endpoint is never called for such a payload.
var ErrImageDecode = errors.New("image_data is not valid base64")

// ErrResponseDecode marks endpoint responses that are not valid UTF-8 text.
var ErrResponseDecode = errors.New("endpoint response is not valid UTF-8 text")

// ErrNoInferences is returned when the filter step receives an empty score
// sequence; a maximum cannot be taken, so the payload is rejected outright.
var ErrNoInferences = errors.New("cannot take max of empty inference set")

// ThresholdError carries the scores behind a confidence rejection so callers
// can tell a rule rejection from an infrastructure failure without string
// matching.
type ThresholdError struct {
	MaxScore  float64
	Threshold float64
}

func (e *ThresholdError) Error() string {
	return ErrConfidenceNotMet.Error()
}

func (e *ThresholdError) Unwrap() error {
	return ErrConfidenceNotMet
}
