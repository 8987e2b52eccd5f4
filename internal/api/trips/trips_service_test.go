package trips

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/atlasvoyages/trip-console/internal/api/daysync"
	"github.com/atlasvoyages/trip-console/internal/types"
)

type MockRepository struct {
	mock.Mock
}

var _ Repository = (*MockRepository)(nil)

func (m *MockRepository) CreateTrip(ctx context.Context, trip types.Trip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}

func (m *MockRepository) GetTrip(ctx context.Context, tripID uuid.UUID) (types.Trip, error) {
	args := m.Called(ctx, tripID)
	return args.Get(0).(types.Trip), args.Error(1)
}

func (m *MockRepository) ListTrips(ctx context.Context, filter types.TripFilter) ([]*types.Trip, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Trip), args.Error(1)
}

func (m *MockRepository) UpdateTrip(ctx context.Context, trip types.Trip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}

func (m *MockRepository) DeleteTrip(ctx context.Context, tripID uuid.UUID) error {
	args := m.Called(ctx, tripID)
	return args.Error(0)
}

func (m *MockRepository) GetTripStats(ctx context.Context) (types.TripStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(types.TripStats), args.Error(1)
}

func (m *MockRepository) ListTripDays(ctx context.Context, tripID uuid.UUID) ([]types.DayEntry, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.DayEntry), args.Error(1)
}

func (m *MockRepository) ReplaceTripDays(ctx context.Context, tripID uuid.UUID, dates types.DateRange, entries []types.DayEntry) error {
	args := m.Called(ctx, tripID, dates, entries)
	return args.Error(0)
}

func (m *MockRepository) SetTripTalent(ctx context.Context, tripID uuid.UUID, assignments []types.TripTalent) error {
	args := m.Called(ctx, tripID, assignments)
	return args.Error(0)
}

func (m *MockRepository) ListTripTalent(ctx context.Context, tripID uuid.UUID) ([]*types.Talent, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Talent), args.Error(1)
}

func date(y int, m int, d int) types.CalendarDate {
	return types.NewCalendarDate(y, time.Month(m), d)
}

func newTestService(repo Repository) *ServiceImpl {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return NewServiceImpl(repo, logger)
}

func TestCreateTrip_SeedsMainRangeDays(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	repo.On("CreateTrip", mock.Anything, mock.MatchedBy(func(trip types.Trip) bool {
		return trip.Name == "Greek Isles" && trip.Status == types.TripStatusDraft
	})).Return(nil).Once()
	repo.On("ReplaceTripDays", mock.Anything, mock.Anything, mock.Anything,
		mock.MatchedBy(func(entries []types.DayEntry) bool {
			if len(entries) != 5 {
				return false
			}
			for i, e := range entries {
				if e.DayNumber != i+1 || e.HasContent() {
					return false
				}
			}
			return true
		})).Return(nil).Once()

	trip, err := svc.CreateTrip(context.Background(), types.CreateTripRequest{
		Name:      "Greek Isles",
		TripType:  types.TripTypeCruise,
		StartDate: date(2026, 8, 1),
		EndDate:   date(2026, 8, 5),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, trip.ID)
	repo.AssertExpectations(t)
}

func TestCreateTrip_InvalidRange(t *testing.T) {
	svc := newTestService(new(MockRepository))

	_, err := svc.CreateTrip(context.Background(), types.CreateTripRequest{
		Name:      "Backwards",
		TripType:  types.TripTypeCruise,
		StartDate: date(2026, 8, 5),
		EndDate:   date(2026, 8, 1),
	})
	assert.ErrorIs(t, err, daysync.ErrInvalidRange)
}

func savedTrip(tripID uuid.UUID) (types.Trip, []types.DayEntry) {
	trip := types.Trip{
		ID:        tripID,
		Name:      "Iceland Circumnavigation",
		TripType:  types.TripTypeCruise,
		Status:    types.TripStatusPublished,
		StartDate: date(2026, 6, 1),
		EndDate:   date(2026, 6, 4),
	}
	entries := []types.DayEntry{
		{ID: uuid.New(), TripID: tripID, Date: date(2026, 6, 1), DayNumber: 1, PortName: "Reykjavik"},
		{ID: uuid.New(), TripID: tripID, Date: date(2026, 6, 2), DayNumber: 2},
		{ID: uuid.New(), TripID: tripID, Date: date(2026, 6, 3), DayNumber: 3},
		{ID: uuid.New(), TripID: tripID, Date: date(2026, 6, 4), DayNumber: 4, Description: "Farewell dinner"},
	}
	return trip, entries
}

// A declined confirmation must leave the database completely untouched.
func TestChangeTripDates_DeclinedNeverTouchesDatabase(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	tripID := uuid.New()
	trip, entries := savedTrip(tripID)
	repo.On("GetTrip", mock.Anything, tripID).Return(trip, nil).Once()
	repo.On("ListTripDays", mock.Anything, tripID).Return(entries, nil).Once()

	decline := func(ctx context.Context, toDelete []types.DayEntry) (bool, error) {
		require.Len(t, toDelete, 1)
		assert.Equal(t, "Farewell dinner", toDelete[0].Description)
		return false, nil
	}
	_, err := svc.ChangeTripDates(context.Background(), tripID,
		types.DateRange{Start: date(2026, 6, 1), End: date(2026, 6, 3)}, decline)
	assert.ErrorIs(t, err, daysync.ErrCancelled)

	repo.AssertNotCalled(t, "ReplaceTripDays", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestChangeTripDates_ConfirmedPersistsAtomically(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	tripID := uuid.New()
	trip, entries := savedTrip(tripID)
	newRange := types.DateRange{Start: date(2026, 6, 1), End: date(2026, 6, 3)}

	repo.On("GetTrip", mock.Anything, tripID).Return(trip, nil).Once()
	repo.On("ListTripDays", mock.Anything, tripID).Return(entries, nil).Once()
	repo.On("ReplaceTripDays", mock.Anything, tripID, newRange,
		mock.MatchedBy(func(updated []types.DayEntry) bool {
			return len(updated) == 3
		})).Return(nil).Once()

	accept := func(ctx context.Context, toDelete []types.DayEntry) (bool, error) {
		return true, nil
	}
	got, err := svc.ChangeTripDates(context.Background(), tripID, newRange, accept)
	require.NoError(t, err)
	assert.True(t, got.Trip.EndDate.Equal(date(2026, 6, 3)))
	assert.Len(t, got.Days, 3)
	repo.AssertExpectations(t)
}

func TestChangeTripDates_CleanShiftSkipsConfirmation(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	tripID := uuid.New()
	trip, entries := savedTrip(tripID)
	newRange := types.DateRange{Start: date(2026, 7, 1), End: date(2026, 7, 4)}

	repo.On("GetTrip", mock.Anything, tripID).Return(trip, nil).Once()
	repo.On("ListTripDays", mock.Anything, tripID).Return(entries, nil).Once()
	repo.On("ReplaceTripDays", mock.Anything, tripID, newRange, mock.Anything).Return(nil).Once()

	confirmCalled := false
	confirm := func(ctx context.Context, toDelete []types.DayEntry) (bool, error) {
		confirmCalled = true
		return false, nil
	}
	got, err := svc.ChangeTripDates(context.Background(), tripID, newRange, confirm)
	require.NoError(t, err)
	assert.False(t, confirmCalled)
	require.Len(t, got.Days, 4)
	assert.Equal(t, "Reykjavik", got.Days[0].PortName)
	assert.True(t, got.Days[0].Date.Equal(date(2026, 7, 1)))
	repo.AssertExpectations(t)
}

func TestUpdateTrip_PatchesFields(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	tripID := uuid.New()
	trip, _ := savedTrip(tripID)
	repo.On("GetTrip", mock.Anything, tripID).Return(trip, nil).Once()

	status := types.TripStatusArchived
	repo.On("UpdateTrip", mock.Anything, mock.MatchedBy(func(updated types.Trip) bool {
		return updated.Status == types.TripStatusArchived && updated.Name == trip.Name
	})).Return(nil).Once()

	got, err := svc.UpdateTrip(context.Background(), tripID, types.UpdateTripRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, types.TripStatusArchived, got.Status)
	repo.AssertExpectations(t)
}
