package tripwizard

import "errors"

var (
	// ErrSyncInProgress rejects a date change while another one is still
	// waiting on the editor's confirmation.
	ErrSyncInProgress = errors.New("date sync already in progress")

	// ErrDuplicateDate rejects adding a day whose date the trip already has.
	// The operation is a no-op; the handler surfaces it as a warning.
	ErrDuplicateDate = errors.New("a day with this date already exists")

	// ErrInvalidDayPosition rejects a day placed on the wrong side of the
	// trip range for its declared position.
	ErrInvalidDayPosition = errors.New("day date does not match the requested position")

	// ErrDayNotFound means no entry with the given date exists on the trip.
	ErrDayNotFound = errors.New("day entry not found")

	// ErrSessionNotFound means the wizard session expired or never existed.
	ErrSessionNotFound = errors.New("wizard session not found")
)
