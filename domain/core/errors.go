package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Data-completeness errors (abort the imputation stage)
	ErrNoObservedData     = errors.New("no observed data in column")
	ErrInsufficientDonors = errors.New("no observed donor rows for predictive imputation")

	// Stage-local errors (key or column is skipped, stage completes)
	ErrInsufficientSampleSize = errors.New("fewer than 2 observations on one side of the comparison")
	ErrColumnPatternMismatch  = errors.New("column name does not match the sample naming pattern")

	// Clustering errors (abort the clustering stage)
	ErrDegenerateClusterRequest = errors.New("requested cluster count exceeds distinct entity count")

	// Input validation errors
	ErrColumnNotFound     = errors.New("column not found")
	ErrColumnKindMismatch = errors.New("column has unexpected kind")
	ErrEmptyFrame         = errors.New("frame has no rows")
)

// Error constructors with context

func NewNoObservedDataError(column string) error {
	return fmt.Errorf("%w: %s", ErrNoObservedData, column)
}

func NewInsufficientDonorsError(column string) error {
	return fmt.Errorf("%w: %s", ErrInsufficientDonors, column)
}

func NewInsufficientSampleSizeError(key string, nVehicle, nTreat int) error {
	return fmt.Errorf("%w: key %s (vehicle=%d, treat=%d)", ErrInsufficientSampleSize, key, nVehicle, nTreat)
}

func NewDegenerateClusterRequestError(requested, entities int) error {
	return fmt.Errorf("%w: requested %d, have %d", ErrDegenerateClusterRequest, requested, entities)
}

func NewColumnPatternMismatchError(column string) error {
	return fmt.Errorf("%w: %s", ErrColumnPatternMismatch, column)
}

// Error checking helpers

func IsDataCompletenessError(err error) bool {
	return errors.Is(err, ErrNoObservedData) ||
		errors.Is(err, ErrInsufficientDonors)
}

func IsStageLocalError(err error) bool {
	return errors.Is(err, ErrInsufficientSampleSize) ||
		errors.Is(err, ErrColumnPatternMismatch)
}
