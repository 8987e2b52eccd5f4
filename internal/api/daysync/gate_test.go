package daysync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasvoyages/trip-console/internal/types"
)

func TestApplyDateChange_CleanSyncSkipsConfirmation(t *testing.T) {
	oldRange := mkRange(date(2025, time.June, 1), date(2025, time.June, 5))
	newRange := mkRange(date(2025, time.July, 1), date(2025, time.July, 5))
	entries := mainDays(oldRange.Start, "a", "b", "c", "d", "e")

	confirmCalled := false
	confirm := func(ctx context.Context, toDelete []types.DayEntry) (bool, error) {
		confirmCalled = true
		return true, nil
	}

	updated, err := ApplyDateChange(context.Background(), oldRange, newRange, entries, confirm)
	require.NoError(t, err)
	assert.Len(t, updated, 5)
	assert.False(t, confirmCalled, "a clean sync must not prompt the editor")
}

func TestApplyDateChange_ConfirmedForcesDeletion(t *testing.T) {
	oldRange := mkRange(date(2025, time.June, 1), date(2025, time.June, 7))
	newRange := mkRange(date(2025, time.June, 1), date(2025, time.June, 5))
	entries := mainDays(oldRange.Start, "a", "b", "c", "d", "e", "f", "Farewell dinner")

	var presented []types.DayEntry
	confirm := func(ctx context.Context, toDelete []types.DayEntry) (bool, error) {
		presented = toDelete
		return true, nil
	}

	updated, err := ApplyDateChange(context.Background(), oldRange, newRange, entries, confirm)
	require.NoError(t, err)
	assert.Len(t, updated, 5)
	require.Len(t, presented, 2, "the dialog must list every doomed entry")
}

func TestApplyDateChange_DeclinedReturnsCancelled(t *testing.T) {
	oldRange := mkRange(date(2025, time.June, 1), date(2025, time.June, 7))
	newRange := mkRange(date(2025, time.June, 1), date(2025, time.June, 5))
	entries := mainDays(oldRange.Start, "a", "b", "c", "d", "e", "f", "Farewell dinner")

	confirm := func(ctx context.Context, toDelete []types.DayEntry) (bool, error) {
		return false, nil
	}

	updated, err := ApplyDateChange(context.Background(), oldRange, newRange, entries, confirm)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Nil(t, updated)
}

func TestApplyDateChange_NilConfirmTreatedAsDecline(t *testing.T) {
	oldRange := mkRange(date(2025, time.June, 1), date(2025, time.June, 7))
	newRange := mkRange(date(2025, time.June, 1), date(2025, time.June, 5))
	entries := mainDays(oldRange.Start, "a", "b", "c", "d", "e", "f", "g")

	_, err := ApplyDateChange(context.Background(), oldRange, newRange, entries, nil)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestApplyDateChange_ConfirmErrorPropagates(t *testing.T) {
	oldRange := mkRange(date(2025, time.June, 1), date(2025, time.June, 7))
	newRange := mkRange(date(2025, time.June, 1), date(2025, time.June, 5))
	entries := mainDays(oldRange.Start, "a", "b", "c", "d", "e", "f", "g")

	confirmErr := errors.New("dialog transport failed")
	confirm := func(ctx context.Context, toDelete []types.DayEntry) (bool, error) {
		return false, confirmErr
	}

	_, err := ApplyDateChange(context.Background(), oldRange, newRange, entries, confirm)
	require.Error(t, err)
	assert.ErrorIs(t, err, confirmErr)
	assert.NotErrorIs(t, err, ErrCancelled)
}
