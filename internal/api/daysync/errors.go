package daysync

import "errors"

var (
	// ErrInvalidRange means a caller handed the engine a range whose start is
	// not strictly before its end. Form validation should catch this upstream.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrCancelled is returned by ApplyDateChange when the editor declines
	// the confirmation dialog. It is a valid outcome, not a failure: the
	// caller must leave both the date range and the entry list untouched.
	ErrCancelled = errors.New("date change cancelled")
)
