// Package daysync recomputes a trip's day entries when its date range
// changes after itinerary or schedule entries already exist. The engine is a
// pure function over in-memory values: it never touches storage, so the
// wizard can show the outcome (or the list of doomed entries) before
// anything is committed.
package daysync

import (
	"fmt"
	"sort"

	"github.com/atlasvoyages/trip-console/internal/types"
)

// SyncResult is the outcome of a range sync computation.
//
// Success=true: the change applies without destroying user content and
// UpdatedEntries holds the recomputed list. Success=false: one or more
// entries carrying content would be orphaned; EntriesToDelete lists every
// orphan and nothing has been changed.
type SyncResult struct {
	Success         bool             `json:"success"`
	UpdatedEntries  []types.DayEntry `json:"updated_entries,omitempty"`
	EntriesToDelete []types.DayEntry `json:"entries_to_delete,omitempty"`
}

// ComputeRangeSync recomputes entries for a move from oldRange to newRange.
//
// Main-range entries (day numbers 1..N) shift by the signed offset between
// the old and new start dates; shifted dates that land outside the new range
// are orphaned. Pre- and post-trip entries keep their dates and are only
// re-validated: a pre-trip day must still fall strictly before the new
// start, a post-trip day strictly after the new end, and their day numbers
// are re-encoded against the new anchor. Surviving main-range entries are
// renumbered 1..N by date.
//
// If any orphan carries user content the result is Success=false with the
// full orphan set; orphans with no content are dropped silently.
func ComputeRangeSync(oldRange, newRange types.DateRange, entries []types.DayEntry) (SyncResult, error) {
	return computeRangeSync(oldRange, newRange, entries, false)
}

func computeRangeSync(oldRange, newRange types.DateRange, entries []types.DayEntry, force bool) (SyncResult, error) {
	if err := oldRange.Validate(); err != nil {
		return SyncResult{}, fmt.Errorf("%w: old range: %v", ErrInvalidRange, err)
	}
	if err := newRange.Validate(); err != nil {
		return SyncResult{}, fmt.Errorf("%w: new range: %v", ErrInvalidRange, err)
	}

	startShift := oldRange.Start.DaysUntil(newRange.Start)

	var mainDays, outerDays, orphans []types.DayEntry
	for _, entry := range entries {
		switch {
		case entry.IsPreTrip():
			// Pre-trip days do not move; they stay valid only while their
			// date is still before the new start.
			if entry.Date.Before(newRange.Start) {
				entry.DayNumber = types.PreTripDayNumber(entry.Date, newRange.Start)
				outerDays = append(outerDays, entry)
			} else {
				orphans = append(orphans, entry)
			}
		case entry.IsPostTrip():
			if entry.Date.After(newRange.End) {
				entry.DayNumber = types.PostTripDayNumber(entry.Date, newRange.End)
				outerDays = append(outerDays, entry)
			} else {
				orphans = append(orphans, entry)
			}
		default:
			entry.Date = entry.Date.AddDays(startShift)
			if newRange.Contains(entry.Date) {
				mainDays = append(mainDays, entry)
			} else {
				orphans = append(orphans, entry)
			}
		}
	}

	if !force && anyHasContent(orphans) {
		return SyncResult{Success: false, EntriesToDelete: orphans}, nil
	}

	// Renumber the surviving main-range days 1..N in date order. Pre/post
	// encodings were already recomputed against the new anchors above.
	sort.Slice(mainDays, func(i, j int) bool {
		return mainDays[i].Date.Before(mainDays[j].Date)
	})
	for i := range mainDays {
		mainDays[i].DayNumber = i + 1
	}

	updated := make([]types.DayEntry, 0, len(mainDays)+len(outerDays))
	updated = append(updated, mainDays...)
	updated = append(updated, outerDays...)
	sort.Slice(updated, func(i, j int) bool {
		return updated[i].Date.Before(updated[j].Date)
	})

	return SyncResult{Success: true, UpdatedEntries: updated}, nil
}

func anyHasContent(entries []types.DayEntry) bool {
	for _, entry := range entries {
		if entry.HasContent() {
			return true
		}
	}
	return false
}
