package plan

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidStartingWeight means no positive starting weight could be resolved.
	ErrInvalidStartingWeight = errors.New("please enter a valid starting weight")
	// ErrMissingRequiredField is matched by every *MissingFieldsError.
	ErrMissingRequiredField = errors.New("missing required field")
	// ErrInvalidComputation means BMR or TDEE came out non-finite.
	ErrInvalidComputation = errors.New("could not calculate TDEE, check your entries")
	// ErrNotEnoughData is returned by chart projections with fewer than two points.
	ErrNotEnoughData = errors.New("not enough data")
	// ErrSaveFailed wraps store write failures; the in-memory change is kept.
	ErrSaveFailed = errors.New("failed to save plan")

	ErrUnknownField   = errors.New("unknown field")
	ErrUnknownSeries  = errors.New("unknown series")
	ErrWeekOutOfRange = errors.New("week must be between 1 and 12")
)

// MissingFieldsError names the TDEE inputs that were absent or non-numeric.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "please fill in: " + strings.Join(e.Fields, ", ")
}

func (e *MissingFieldsError) Is(target error) bool {
	return target == ErrMissingRequiredField
}
