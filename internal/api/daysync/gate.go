package daysync

import (
	"context"
	"fmt"

	"github.com/atlasvoyages/trip-console/internal/types"
)

// ConfirmFunc asks the editor whether the listed entries may be deleted.
// In the running system it resolves from the admin UI's confirmation dialog
// (surfaced over HTTP as a 409 followed by a confirmed retry); in tests it
// is a plain closure. It must return true only on an explicit confirm.
type ConfirmFunc func(ctx context.Context, entriesToDelete []types.DayEntry) (bool, error)

// ApplyDateChange runs the range sync and gates destructive outcomes behind
// confirm. A clean sync returns immediately. When entries with content would
// be deleted, confirm decides: on approval the sync is re-run in force mode
// (all orphans dropped), on decline ErrCancelled is returned and the caller
// must leave its state exactly as it was.
//
// The gate itself mutates nothing; it orchestrates a pure computation and a
// single confirmation capability.
func ApplyDateChange(ctx context.Context, oldRange, newRange types.DateRange, entries []types.DayEntry, confirm ConfirmFunc) ([]types.DayEntry, error) {
	result, err := ComputeRangeSync(oldRange, newRange, entries)
	if err != nil {
		return nil, err
	}
	if result.Success {
		return result.UpdatedEntries, nil
	}

	if confirm == nil {
		return nil, ErrCancelled
	}
	ok, err := confirm(ctx, result.EntriesToDelete)
	if err != nil {
		return nil, fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		return nil, ErrCancelled
	}

	forced, err := computeRangeSync(oldRange, newRange, entries, true)
	if err != nil {
		return nil, err
	}
	return forced.UpdatedEntries, nil
}
