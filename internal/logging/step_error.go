package logging

import "fmt"

// StepError annotates an error with the step and invocation it came from.
type StepError struct {
	Step      string
	RequestID string
	Err       error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	if e.RequestID != "" {
		return fmt.Sprintf("%s (request_id=%s): %v", e.Step, e.RequestID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *StepError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewStepError wraps an error with the step it occurred in. Wrapping never
// replaces the cause, so rejection sentinels stay matchable through it.
func NewStepError(step, requestID string, err error) error {
	if err == nil {
		return nil
	}
	return &StepError{Step: step, RequestID: requestID, Err: err}
}
