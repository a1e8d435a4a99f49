package state

import (
	"errors"
	"fmt"
)

var (
	// ErrDoubleInit means Initialize was called on an already seeded store.
	ErrDoubleInit = errors.New("state: store already initialized")

	// ErrNotInitialized means an operation ran before Initialize.
	ErrNotInitialized = errors.New("state: store not initialized")

	// ErrNoData means Initialize was given an empty dataset.
	ErrNoData = errors.New("state: no records to initialize with")

	// ErrInvalidYear means a year outside the configured range was requested.
	ErrInvalidYear = errors.New("state: year outside available range")

	// ErrInvalidRange means the configured year bounds are inverted.
	ErrInvalidRange = errors.New("state: min year greater than max year")

	// ErrNoAnimator means ToggleAnimation has no scheduler to drive.
	ErrNoAnimator = errors.New("state: no animator attached")
)

// InvalidYearError carries the rejected year and the range it missed.
type InvalidYearError struct {
	Year  int
	Range YearRange
}

func (e *InvalidYearError) Error() string {
	return fmt.Sprintf("state: year %d outside %d..%d", e.Year, e.Range.Min(), e.Range.Max())
}

func (e *InvalidYearError) Unwrap() error {
	return ErrInvalidYear
}
