// Package tripwizard holds the trip-in-progress state for the admin
// console's creation wizard. All mutation goes through named operations on
// the Wizard container so that the date range and the day-entry list can
// only ever change together.
package tripwizard

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atlasvoyages/trip-console/internal/api/daysync"
	"github.com/atlasvoyages/trip-console/internal/types"
)

// Wizard is one open wizard session. A single editor drives it, but the
// confirmation wait is a suspension point, so an explicit syncing flag keeps
// a second date change from starting while the first is still undecided.
type Wizard struct {
	mu      sync.Mutex
	syncing bool
	state   types.WizardState
}

// New wraps an initial wizard state. If the state has a date range but no
// entries yet, the main-range days are generated empty.
func New(state types.WizardState) *Wizard {
	if len(state.Entries) == 0 && state.Dates.Validate() == nil {
		state.Entries = GenerateMainDays(state.Dates)
	}
	state.UpdatedAt = time.Now()
	return &Wizard{state: state}
}

// GenerateMainDays builds one empty entry per day of the range, numbered 1..N.
func GenerateMainDays(r types.DateRange) []types.DayEntry {
	days := make([]types.DayEntry, 0, r.Days())
	for i := 0; i < r.Days(); i++ {
		days = append(days, types.DayEntry{
			ID:        uuid.New(),
			Date:      r.Start.AddDays(i),
			DayNumber: i + 1,
		})
	}
	return days
}

// Snapshot returns a copy of the current state. The entry slice is cloned so
// callers can never mutate the container from outside.
func (w *Wizard) Snapshot() types.WizardState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *Wizard) snapshotLocked() types.WizardState {
	state := w.state
	state.Entries = append([]types.DayEntry(nil), w.state.Entries...)
	state.TalentIDs = append([]uuid.UUID(nil), w.state.TalentIDs...)
	return state
}

// UpdateTripDates moves the trip to newRange, re-synchronizing the day
// entries through the diff engine. The confirmation capability decides the
// fate of content-bearing orphans. On any error, including ErrCancelled,
// the container is left exactly as it was: dates and entries are only ever
// replaced together, after the sync has fully resolved.
func (w *Wizard) UpdateTripDates(ctx context.Context, newRange types.DateRange, confirm daysync.ConfirmFunc) error {
	w.mu.Lock()
	if w.syncing {
		w.mu.Unlock()
		return ErrSyncInProgress
	}
	w.syncing = true
	oldRange := w.state.Dates
	entries := append([]types.DayEntry(nil), w.state.Entries...)
	w.mu.Unlock()

	// The confirmation wait can be arbitrarily long; the lock is not held
	// across it. The syncing flag keeps competing date changes out.
	updated, err := daysync.ApplyDateChange(ctx, oldRange, newRange, entries, confirm)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.syncing = false
	if err != nil {
		return err
	}
	w.state.Dates = newRange
	w.state.Entries = updated
	w.state.UpdatedAt = time.Now()
	return nil
}

// AddDay appends a pre-trip or post-trip day. Duplicate dates are rejected
// with ErrDuplicateDate and leave the state untouched.
func (w *Wizard) AddDay(date types.CalendarDate, position types.DayPosition) (types.DayEntry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, entry := range w.state.Entries {
		if entry.Date.Equal(date) {
			return types.DayEntry{}, ErrDuplicateDate
		}
	}

	var dayNumber int
	switch position {
	case types.DayPositionBefore:
		if !date.Before(w.state.Dates.Start) {
			return types.DayEntry{}, ErrInvalidDayPosition
		}
		dayNumber = types.PreTripDayNumber(date, w.state.Dates.Start)
	case types.DayPositionAfter:
		if !date.After(w.state.Dates.End) {
			return types.DayEntry{}, ErrInvalidDayPosition
		}
		dayNumber = types.PostTripDayNumber(date, w.state.Dates.End)
	default:
		return types.DayEntry{}, ErrInvalidDayPosition
	}

	entry := types.DayEntry{
		ID:        uuid.New(),
		TripID:    tripIDOrNil(w.state.TripID),
		Date:      date,
		DayNumber: dayNumber,
	}
	w.state.Entries = append(w.state.Entries, entry)
	sort.Slice(w.state.Entries, func(i, j int) bool {
		return w.state.Entries[i].Date.Before(w.state.Entries[j].Date)
	})
	w.state.UpdatedAt = time.Now()
	return entry, nil
}

// UpdateDay edits the content fields of the entry on the given date.
func (w *Wizard) UpdateDay(date types.CalendarDate, params types.UpdateDayRequest) (types.DayEntry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i := range w.state.Entries {
		if !w.state.Entries[i].Date.Equal(date) {
			continue
		}
		entry := &w.state.Entries[i]
		if params.Description != nil {
			entry.Description = *params.Description
		}
		if params.ImageURL != nil {
			entry.ImageURL = *params.ImageURL
		}
		if params.PortName != nil {
			entry.PortName = *params.PortName
		}
		if params.ArrivalTime != nil {
			entry.ArrivalTime = *params.ArrivalTime
		}
		if params.DepartureTime != nil {
			entry.DepartureTime = *params.DepartureTime
		}
		if params.LocationID != nil {
			entry.LocationID = params.LocationID
		}
		w.state.UpdatedAt = time.Now()
		return *entry, nil
	}
	return types.DayEntry{}, ErrDayNotFound
}

// UpdateMeta edits trip metadata and selections outside the date range.
func (w *Wizard) UpdateMeta(params types.UpdateWizardMetaRequest) types.WizardState {
	w.mu.Lock()
	defer w.mu.Unlock()

	if params.Name != nil {
		w.state.Name = *params.Name
	}
	if params.ShipID != nil {
		w.state.ShipID = params.ShipID
	}
	if params.ResortID != nil {
		w.state.ResortID = params.ResortID
	}
	if params.Description != nil {
		w.state.Description = *params.Description
	}
	if params.HeroImageURL != nil {
		w.state.HeroImageURL = *params.HeroImageURL
	}
	if params.TalentIDs != nil {
		w.state.TalentIDs = append([]uuid.UUID(nil), params.TalentIDs...)
	}
	w.state.UpdatedAt = time.Now()
	return w.snapshotLocked()
}

func tripIDOrNil(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}
