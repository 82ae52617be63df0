package ml

import (
	"errors"
	"fmt"
)

var (
	// ErrDataNotFound is returned when the dataset path does not resolve
	// to a readable file.
	ErrDataNotFound = errors.New("dataset file not found")

	// ErrSchemaMismatch is returned when the dataset columns do not match
	// the declared feature schema.
	ErrSchemaMismatch = errors.New("dataset schema mismatch")

	// ErrEmptyDataset is returned when no data rows remain after the header.
	ErrEmptyDataset = errors.New("dataset is empty")

	// ErrInsufficientData is returned when a stratified split would leave
	// fewer than two records of some class in either partition.
	ErrInsufficientData = errors.New("insufficient data for stratified split")

	// ErrModelNotReady is returned when a prediction is requested before
	// any model has been trained.
	ErrModelNotReady = errors.New("model not trained")
)

// Validation failure reasons.
const (
	ReasonCount   = "count"
	ReasonRange   = "range"
	ReasonInteger = "integer"
)

// ValidationError reports a single offending field and why it was rejected.
type ValidationError struct {
	Field  string
	Reason string
	Value  float64
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonCount:
		return fmt.Sprintf("expected %d features, got %d", FieldCount, int(e.Value))
	case ReasonInteger:
		return fmt.Sprintf("field %s must be integer-coded, got %g", e.Field, e.Value)
	default:
		return fmt.Sprintf("field %s out of range: %g", e.Field, e.Value)
	}
}
