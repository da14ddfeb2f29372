package models

import "errors"

// Sentinel error kinds surfaced by the pipeline. Callers wrap them with
// fmt.Errorf("...: %w", ...) and detect them with errors.Is.
var (
	// ErrMissingRequiredField flags a statement missing assets or liabilities.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrInsufficientHistory flags a statement series too short to forecast.
	ErrInsufficientHistory = errors.New("insufficient history")

	// ErrNotFound flags a repository lookup that matched no row.
	ErrNotFound = errors.New("not found")
)
