package tripwizard

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasvoyages/trip-console/internal/api/daysync"
	"github.com/atlasvoyages/trip-console/internal/types"
)

func date(y int, m int, d int) types.CalendarDate {
	return types.NewCalendarDate(y, time.Month(m), d)
}

func newTestWizard(t *testing.T, start, end types.CalendarDate) *Wizard {
	t.Helper()
	return New(types.WizardState{
		Name:     "Alaska Glacier Cruise",
		TripType: types.TripTypeCruise,
		Dates:    types.DateRange{Start: start, End: end},
	})
}

func TestNew_GeneratesMainDays(t *testing.T) {
	w := newTestWizard(t, date(2026, 6, 1), date(2026, 6, 4))

	state := w.Snapshot()
	require.Len(t, state.Entries, 4)
	for i, entry := range state.Entries {
		assert.Equal(t, i+1, entry.DayNumber)
		assert.True(t, entry.Date.Equal(date(2026, 6, 1).AddDays(i)))
		assert.NotEqual(t, uuid.Nil, entry.ID)
	}
}

func TestUpdateTripDates_AppliesCleanShift(t *testing.T) {
	w := newTestWizard(t, date(2026, 6, 1), date(2026, 6, 4))

	newRange := types.DateRange{Start: date(2026, 7, 1), End: date(2026, 7, 4)}
	err := w.UpdateTripDates(context.Background(), newRange, nil)
	require.NoError(t, err)

	state := w.Snapshot()
	assert.Equal(t, newRange, state.Dates)
	require.Len(t, state.Entries, 4)
	assert.True(t, state.Entries[0].Date.Equal(date(2026, 7, 1)))
	assert.True(t, state.Entries[3].Date.Equal(date(2026, 7, 4)))
}

// A declined confirmation must leave both the dates and the entries exactly
// as they were before the attempt.
func TestUpdateTripDates_CancelledLeavesStateUntouched(t *testing.T) {
	w := newTestWizard(t, date(2026, 6, 1), date(2026, 6, 4))
	desc := "Farewell dinner"
	_, err := w.UpdateDay(date(2026, 6, 4), types.UpdateDayRequest{Description: &desc})
	require.NoError(t, err)

	before := w.Snapshot()

	decline := func(ctx context.Context, toDelete []types.DayEntry) (bool, error) {
		require.Len(t, toDelete, 1)
		return false, nil
	}
	err = w.UpdateTripDates(context.Background(),
		types.DateRange{Start: date(2026, 6, 1), End: date(2026, 6, 3)}, decline)
	require.ErrorIs(t, err, daysync.ErrCancelled)

	after := w.Snapshot()
	assert.Equal(t, before.Dates, after.Dates)
	assert.Equal(t, before.Entries, after.Entries)
}

func TestUpdateTripDates_ConfirmedDropsOrphans(t *testing.T) {
	w := newTestWizard(t, date(2026, 6, 1), date(2026, 6, 4))
	desc := "Farewell dinner"
	_, err := w.UpdateDay(date(2026, 6, 4), types.UpdateDayRequest{Description: &desc})
	require.NoError(t, err)

	accept := func(ctx context.Context, toDelete []types.DayEntry) (bool, error) {
		return true, nil
	}
	err = w.UpdateTripDates(context.Background(),
		types.DateRange{Start: date(2026, 6, 1), End: date(2026, 6, 3)}, accept)
	require.NoError(t, err)

	state := w.Snapshot()
	require.Len(t, state.Entries, 3)
	for _, entry := range state.Entries {
		assert.NotEqual(t, "Farewell dinner", entry.Description)
	}
}

// A second date change must be rejected while the first is parked on its
// confirmation.
func TestUpdateTripDates_RejectsReentrantSync(t *testing.T) {
	w := newTestWizard(t, date(2026, 6, 1), date(2026, 6, 4))
	desc := "Captain's welcome"
	_, err := w.UpdateDay(date(2026, 6, 4), types.UpdateDayRequest{Description: &desc})
	require.NoError(t, err)

	waiting := make(chan struct{})
	release := make(chan bool)
	stall := func(ctx context.Context, toDelete []types.DayEntry) (bool, error) {
		close(waiting)
		return <-release, nil
	}

	done := make(chan error, 1)
	go func() {
		done <- w.UpdateTripDates(context.Background(),
			types.DateRange{Start: date(2026, 6, 3), End: date(2026, 6, 5)}, stall)
	}()

	<-waiting
	err = w.UpdateTripDates(context.Background(),
		types.DateRange{Start: date(2026, 8, 1), End: date(2026, 8, 4)}, nil)
	assert.ErrorIs(t, err, ErrSyncInProgress)

	release <- true
	require.NoError(t, <-done)
}

func TestAddDay_PreAndPostTrip(t *testing.T) {
	w := newTestWizard(t, date(2026, 6, 1), date(2026, 6, 4))

	pre, err := w.AddDay(date(2026, 5, 30), types.DayPositionBefore)
	require.NoError(t, err)
	assert.Equal(t, -2, pre.DayNumber)

	post, err := w.AddDay(date(2026, 6, 5), types.DayPositionAfter)
	require.NoError(t, err)
	assert.Equal(t, types.PostTripDayBase, post.DayNumber)

	state := w.Snapshot()
	require.Len(t, state.Entries, 6)
	assert.True(t, state.Entries[0].Date.Equal(date(2026, 5, 30)))
	assert.True(t, state.Entries[5].Date.Equal(date(2026, 6, 5)))
}

func TestAddDay_DuplicateDateRejected(t *testing.T) {
	w := newTestWizard(t, date(2026, 6, 1), date(2026, 6, 4))
	_, err := w.AddDay(date(2026, 5, 30), types.DayPositionBefore)
	require.NoError(t, err)

	before := w.Snapshot()

	_, err = w.AddDay(date(2026, 5, 30), types.DayPositionBefore)
	assert.ErrorIs(t, err, ErrDuplicateDate)
	_, err = w.AddDay(date(2026, 6, 2), types.DayPositionBefore)
	assert.ErrorIs(t, err, ErrDuplicateDate)

	assert.Equal(t, before.Entries, w.Snapshot().Entries)
}

func TestAddDay_PositionMustMatchDate(t *testing.T) {
	w := newTestWizard(t, date(2026, 6, 1), date(2026, 6, 4))

	_, err := w.AddDay(date(2026, 6, 10), types.DayPositionBefore)
	assert.ErrorIs(t, err, ErrInvalidDayPosition)

	_, err = w.AddDay(date(2026, 5, 20), types.DayPositionAfter)
	assert.ErrorIs(t, err, ErrInvalidDayPosition)
}

func TestUpdateDay_PatchesContentFields(t *testing.T) {
	w := newTestWizard(t, date(2026, 6, 1), date(2026, 6, 4))

	port := "Juneau"
	arrival := "08:00"
	entry, err := w.UpdateDay(date(2026, 6, 2), types.UpdateDayRequest{
		PortName:    &port,
		ArrivalTime: &arrival,
	})
	require.NoError(t, err)
	assert.Equal(t, "Juneau", entry.PortName)
	assert.Equal(t, "08:00", entry.ArrivalTime)
	assert.Equal(t, 2, entry.DayNumber)

	_, err = w.UpdateDay(date(2026, 9, 9), types.UpdateDayRequest{PortName: &port})
	assert.ErrorIs(t, err, ErrDayNotFound)
}

func TestSnapshot_IsIsolatedFromContainer(t *testing.T) {
	w := newTestWizard(t, date(2026, 6, 1), date(2026, 6, 4))

	snap := w.Snapshot()
	snap.Entries[0].Description = "mutated from outside"

	assert.Empty(t, w.Snapshot().Entries[0].Description)
}

func TestUpdateMeta(t *testing.T) {
	w := newTestWizard(t, date(2026, 6, 1), date(2026, 6, 4))

	name := "Mediterranean Odyssey"
	shipID := uuid.New()
	talent := []uuid.UUID{uuid.New(), uuid.New()}
	state := w.UpdateMeta(types.UpdateWizardMetaRequest{
		Name:      &name,
		ShipID:    &shipID,
		TalentIDs: talent,
	})

	assert.Equal(t, "Mediterranean Odyssey", state.Name)
	require.NotNil(t, state.ShipID)
	assert.Equal(t, shipID, *state.ShipID)
	assert.Equal(t, talent, state.TalentIDs)
}
