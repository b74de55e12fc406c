package reconcile

import (
	"errors"
	"fmt"
)

// DiagnosticError represents an input-shape error detected before the
// diagnostic runs. Everything past input validation is total and cannot
// fail.
type DiagnosticError struct {
	// Code identifies the error category.
	Code DiagnosticErrorCode

	// Message is a human-readable description.
	Message string

	// Measurement names the offending measurement, when one exists.
	Measurement string
}

// DiagnosticErrorCode categorizes input-shape errors.
type DiagnosticErrorCode string

const (
	// ErrCodeEmptyDataset indicates no measurements were supplied.
	ErrCodeEmptyDataset DiagnosticErrorCode = "EMPTY_DATASET"

	// ErrCodeWeightMismatch indicates the weight count differs from the
	// measurement count.
	ErrCodeWeightMismatch DiagnosticErrorCode = "WEIGHT_MISMATCH"

	// ErrCodeZeroWeightSum indicates the supplied weights sum to zero,
	// leaving the weighted mean undefined.
	ErrCodeZeroWeightSum DiagnosticErrorCode = "ZERO_WEIGHT_SUM"

	// ErrCodeZeroBound indicates a zero bound where a positive one is
	// required (inverse-variance weighting).
	ErrCodeZeroBound DiagnosticErrorCode = "ZERO_BOUND"
)

// Error implements the error interface.
func (e *DiagnosticError) Error() string {
	if e.Measurement != "" {
		return fmt.Sprintf("%s: %s (measurement=%s)", e.Code, e.Message, e.Measurement)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInputShapeError returns true if the error is any DiagnosticError.
// Uses errors.As to handle wrapped errors.
func IsInputShapeError(err error) bool {
	var de *DiagnosticError
	return errors.As(err, &de)
}

// CodeOf extracts the DiagnosticErrorCode from an error, or "" if the
// error is not a DiagnosticError.
func CodeOf(err error) DiagnosticErrorCode {
	var de *DiagnosticError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func newDiagnosticError(code DiagnosticErrorCode, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, Message: message}
}
