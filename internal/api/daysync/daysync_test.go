package daysync

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasvoyages/trip-console/internal/types"
)

func date(y int, m time.Month, d int) types.CalendarDate {
	return types.NewCalendarDate(y, m, d)
}

func mkRange(start, end types.CalendarDate) types.DateRange {
	return types.DateRange{Start: start, End: end}
}

// mainDays builds N main-range entries starting at start, one per day,
// with the given descriptions (empty string means no content).
func mainDays(start types.CalendarDate, descriptions ...string) []types.DayEntry {
	entries := make([]types.DayEntry, 0, len(descriptions))
	for i, desc := range descriptions {
		entries = append(entries, types.DayEntry{
			ID:          uuid.New(),
			Date:        start.AddDays(i),
			DayNumber:   i + 1,
			Description: desc,
		})
	}
	return entries
}

func TestComputeRangeSync_PureShift(t *testing.T) {
	oldRange := mkRange(date(2025, time.June, 1), date(2025, time.June, 5))
	newRange := mkRange(date(2025, time.July, 1), date(2025, time.July, 5))
	entries := mainDays(oldRange.Start, "Sail away", "Sea day", "Port day", "Sea day", "Farewell")

	result, err := ComputeRangeSync(oldRange, newRange, entries)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Len(t, result.UpdatedEntries, 5)

	for i, entry := range result.UpdatedEntries {
		assert.Equal(t, i+1, entry.DayNumber)
		assert.True(t, entry.Date.Equal(entries[i].Date.AddDays(30)),
			"day %d should move exactly 30 days, got %s", i+1, entry.Date)
		assert.Equal(t, entries[i].Description, entry.Description, "content must be preserved")
	}
}

func TestComputeRangeSync_ShrinkWithContentLoss(t *testing.T) {
	oldRange := mkRange(date(2025, time.June, 1), date(2025, time.June, 7))
	newRange := mkRange(date(2025, time.June, 1), date(2025, time.June, 5))
	entries := mainDays(oldRange.Start, "Arrival", "", "", "", "", "", "Farewell dinner")

	result, err := ComputeRangeSync(oldRange, newRange, entries)
	require.NoError(t, err)
	assert.False(t, result.Success)
	require.Len(t, result.EntriesToDelete, 2, "days 6 and 7 fall outside the new range")
	assert.Empty(t, result.UpdatedEntries, "a refused sync must not return updated entries")

	descriptions := []string{result.EntriesToDelete[0].Description, result.EntriesToDelete[1].Description}
	assert.Contains(t, descriptions, "Farewell dinner")
}

func TestComputeRangeSync_ShrinkWithEmptyTail(t *testing.T) {
	oldRange := mkRange(date(2025, time.June, 1), date(2025, time.June, 7))
	newRange := mkRange(date(2025, time.June, 1), date(2025, time.June, 5))
	entries := mainDays(oldRange.Start, "Arrival", "Pool party", "Show night", "Beach day", "Brunch", "", "")

	result, err := ComputeRangeSync(oldRange, newRange, entries)
	require.NoError(t, err)
	require.True(t, result.Success, "empty orphans are dropped without confirmation")
	require.Len(t, result.UpdatedEntries, 5)
	for i, entry := range result.UpdatedEntries {
		assert.Equal(t, i+1, entry.DayNumber)
		assert.True(t, entry.Date.Equal(entries[i].Date), "unshifted days keep their dates")
	}
}

func TestComputeRangeSync_GrowKeepsEverything(t *testing.T) {
	oldRange := mkRange(date(2025, time.June, 1), date(2025, time.June, 3))
	newRange := mkRange(date(2025, time.June, 1), date(2025, time.June, 6))
	entries := mainDays(oldRange.Start, "a", "b", "c")

	result, err := ComputeRangeSync(oldRange, newRange, entries)
	require.NoError(t, err)
	require.True(t, result.Success)
	// Growing the range adds no entries by itself; existing days survive.
	require.Len(t, result.UpdatedEntries, 3)
}

func TestComputeRangeSync_PreTripRevalidation(t *testing.T) {
	oldRange := mkRange(date(2025, time.June, 1), date(2025, time.June, 5))
	preTrip := types.DayEntry{
		ID:          uuid.New(),
		Date:        date(2025, time.May, 30),
		DayNumber:   types.PreTripDayNumber(date(2025, time.May, 30), oldRange.Start),
		Description: "Hotel night",
	}
	require.Equal(t, -2, preTrip.DayNumber)

	t.Run("still valid after a later start", func(t *testing.T) {
		newRange := mkRange(date(2025, time.June, 2), date(2025, time.June, 6))
		result, err := ComputeRangeSync(oldRange, newRange, []types.DayEntry{preTrip})
		require.NoError(t, err)
		require.True(t, result.Success)
		require.Len(t, result.UpdatedEntries, 1)

		got := result.UpdatedEntries[0]
		assert.True(t, got.Date.Equal(preTrip.Date), "pre-trip dates never move")
		assert.Equal(t, -3, got.DayNumber, "re-encoded against the new start")
	})

	t.Run("orphaned when start moves onto it", func(t *testing.T) {
		newRange := mkRange(date(2025, time.May, 29), date(2025, time.June, 5))
		result, err := ComputeRangeSync(oldRange, newRange, []types.DayEntry{preTrip})
		require.NoError(t, err)
		assert.False(t, result.Success, "content-bearing pre-trip day inside the new range must not be dropped silently")
		require.Len(t, result.EntriesToDelete, 1)
	})
}

func TestComputeRangeSync_PostTripRevalidation(t *testing.T) {
	oldRange := mkRange(date(2025, time.June, 1), date(2025, time.June, 5))
	postTrip := types.DayEntry{
		ID:          uuid.New(),
		Date:        date(2025, time.June, 7),
		DayNumber:   types.PostTripDayNumber(date(2025, time.June, 7), oldRange.End),
		Description: "Recovery day",
	}
	require.Equal(t, 101, postTrip.DayNumber)

	t.Run("still valid after an earlier end", func(t *testing.T) {
		newRange := mkRange(date(2025, time.June, 1), date(2025, time.June, 4))
		result, err := ComputeRangeSync(oldRange, newRange, []types.DayEntry{postTrip})
		require.NoError(t, err)
		require.True(t, result.Success)
		require.Len(t, result.UpdatedEntries, 1)

		got := result.UpdatedEntries[0]
		assert.True(t, got.Date.Equal(postTrip.Date))
		assert.Equal(t, 102, got.DayNumber, "re-encoded against the new end")
	})

	t.Run("orphaned when end moves past it", func(t *testing.T) {
		newRange := mkRange(date(2025, time.June, 1), date(2025, time.June, 7))
		result, err := ComputeRangeSync(oldRange, newRange, []types.DayEntry{postTrip})
		require.NoError(t, err)
		assert.False(t, result.Success)
		require.Len(t, result.EntriesToDelete, 1)
	})
}

func TestComputeRangeSync_MixedBuckets(t *testing.T) {
	oldRange := mkRange(date(2025, time.June, 1), date(2025, time.June, 3))
	entries := mainDays(oldRange.Start, "a", "b", "c")
	entries = append(entries,
		types.DayEntry{
			ID:        uuid.New(),
			Date:      date(2025, time.May, 31),
			DayNumber: types.PreTripDayNumber(date(2025, time.May, 31), oldRange.Start),
		},
		types.DayEntry{
			ID:        uuid.New(),
			Date:      date(2025, time.June, 4),
			DayNumber: types.PostTripDayNumber(date(2025, time.June, 4), oldRange.End),
		},
	)

	// Shift everything a week later. The pre-trip day (May 31) is still
	// strictly before the new start and survives with a re-encoded number;
	// the post-trip day (June 4) now falls inside the new range and is an
	// orphan, dropped silently because it holds no content.
	newRange := mkRange(date(2025, time.June, 8), date(2025, time.June, 10))
	result, err := ComputeRangeSync(oldRange, newRange, entries)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Len(t, result.UpdatedEntries, 4)

	seen := map[string]bool{}
	preTripCount := 0
	for _, entry := range result.UpdatedEntries {
		assert.False(t, seen[entry.Date.String()], "dates must stay unique")
		seen[entry.Date.String()] = true
		if entry.IsPreTrip() {
			preTripCount++
			assert.Equal(t, -8, entry.DayNumber, "May 31 is 8 days before the new start")
		}
	}
	assert.Equal(t, 1, preTripCount)
}

func TestComputeRangeSync_Deterministic(t *testing.T) {
	oldRange := mkRange(date(2025, time.June, 1), date(2025, time.June, 7))
	newRange := mkRange(date(2025, time.June, 3), date(2025, time.June, 8))
	entries := mainDays(oldRange.Start, "a", "", "c", "", "e", "", "g")

	first, err := ComputeRangeSync(oldRange, newRange, entries)
	require.NoError(t, err)
	second, err := ComputeRangeSync(oldRange, newRange, entries)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeRangeSync_DoesNotMutateInput(t *testing.T) {
	oldRange := mkRange(date(2025, time.June, 1), date(2025, time.June, 5))
	newRange := mkRange(date(2025, time.July, 1), date(2025, time.July, 5))
	entries := mainDays(oldRange.Start, "a", "b", "c", "d", "e")
	originalDates := make([]types.CalendarDate, len(entries))
	for i, entry := range entries {
		originalDates[i] = entry.Date
	}

	_, err := ComputeRangeSync(oldRange, newRange, entries)
	require.NoError(t, err)
	for i, entry := range entries {
		assert.True(t, entry.Date.Equal(originalDates[i]), "input slice must not be mutated")
	}
}

func TestComputeRangeSync_InvalidRange(t *testing.T) {
	good := mkRange(date(2025, time.June, 1), date(2025, time.June, 5))
	inverted := mkRange(date(2025, time.June, 5), date(2025, time.June, 1))
	single := mkRange(date(2025, time.June, 1), date(2025, time.June, 1))

	_, err := ComputeRangeSync(inverted, good, nil)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = ComputeRangeSync(good, inverted, nil)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = ComputeRangeSync(good, single, nil)
	assert.ErrorIs(t, err, ErrInvalidRange, "start == end is not a valid range")
}

func TestComputeRangeSync_NoEntries(t *testing.T) {
	oldRange := mkRange(date(2025, time.June, 1), date(2025, time.June, 5))
	newRange := mkRange(date(2025, time.June, 10), date(2025, time.June, 14))

	result, err := ComputeRangeSync(oldRange, newRange, nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.UpdatedEntries)
}

func TestDayNumberEncodingRoundTrip(t *testing.T) {
	start := date(2025, time.June, 1)
	end := date(2025, time.June, 5)

	for daysBefore := 1; daysBefore <= 10; daysBefore++ {
		d := start.AddDays(-daysBefore)
		dayNumber := types.PreTripDayNumber(d, start)
		require.Equal(t, -daysBefore, dayNumber)
		// Recover the date from the encoding.
		recovered := start.AddDays(dayNumber)
		assert.True(t, recovered.Equal(d))
	}

	for daysAfter := 1; daysAfter <= 10; daysAfter++ {
		d := end.AddDays(daysAfter)
		dayNumber := types.PostTripDayNumber(d, end)
		require.Equal(t, types.PostTripDayBase+daysAfter-1, dayNumber)
		recovered := end.AddDays(dayNumber - types.PostTripDayBase + 1)
		assert.True(t, recovered.Equal(d))
	}
}
