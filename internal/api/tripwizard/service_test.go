package tripwizard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/atlasvoyages/trip-console/app/observability/metrics"
	"github.com/atlasvoyages/trip-console/internal/types"
)

type MockRepository struct {
	mock.Mock
}

var _ Repository = (*MockRepository)(nil)

func (m *MockRepository) SaveDraft(ctx context.Context, draft types.WizardDraft) error {
	args := m.Called(ctx, draft)
	return args.Error(0)
}

func (m *MockRepository) GetDraft(ctx context.Context, draftID, userID uuid.UUID) (types.WizardDraft, error) {
	args := m.Called(ctx, draftID, userID)
	return args.Get(0).(types.WizardDraft), args.Error(1)
}

func (m *MockRepository) ListDrafts(ctx context.Context, userID uuid.UUID) ([]*types.WizardDraft, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.WizardDraft), args.Error(1)
}

func (m *MockRepository) DeleteDraft(ctx context.Context, draftID, userID uuid.UUID) error {
	args := m.Called(ctx, draftID, userID)
	return args.Error(0)
}

func (m *MockRepository) CommitTrip(ctx context.Context, state types.WizardState) (types.Trip, error) {
	args := m.Called(ctx, state)
	return args.Get(0).(types.Trip), args.Error(1)
}

func (m *MockRepository) GetTripWithDays(ctx context.Context, tripID uuid.UUID) (types.Trip, []types.DayEntry, error) {
	args := m.Called(ctx, tripID)
	if args.Get(1) == nil {
		return args.Get(0).(types.Trip), nil, args.Error(2)
	}
	return args.Get(0).(types.Trip), args.Get(1).([]types.DayEntry), args.Error(2)
}

func newTestService(repo Repository) *ServiceImpl {
	metrics.InitAppMetrics()
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return NewServiceImpl(repo, NewSessionStore(), logger)
}

func TestStartSession_NewTrip(t *testing.T) {
	svc := newTestService(new(MockRepository))

	state, err := svc.StartSession(context.Background(), uuid.New(), types.StartWizardRequest{
		Name:      "Caribbean Escape",
		TripType:  types.TripTypeCruise,
		StartDate: date(2026, 3, 1),
		EndDate:   date(2026, 3, 7),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, state.SessionID)
	assert.Len(t, state.Entries, 7)

	got, err := svc.GetSession(context.Background(), state.SessionID)
	require.NoError(t, err)
	assert.Equal(t, state.SessionID, got.SessionID)
}

func TestStartSession_InvalidRange(t *testing.T) {
	svc := newTestService(new(MockRepository))

	_, err := svc.StartSession(context.Background(), uuid.New(), types.StartWizardRequest{
		Name:      "Backwards",
		TripType:  types.TripTypeResort,
		StartDate: date(2026, 3, 7),
		EndDate:   date(2026, 3, 1),
	})
	assert.Error(t, err)
}

func TestStartSession_EditModeLoadsTrip(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	tripID := uuid.New()
	trip := types.Trip{
		ID:        tripID,
		Name:      "Rhine River Cruise",
		TripType:  types.TripTypeCruise,
		StartDate: date(2026, 5, 10),
		EndDate:   date(2026, 5, 14),
	}
	entries := []types.DayEntry{
		{ID: uuid.New(), TripID: tripID, Date: date(2026, 5, 10), DayNumber: 1, PortName: "Basel"},
		{ID: uuid.New(), TripID: tripID, Date: date(2026, 5, 11), DayNumber: 2},
	}
	repo.On("GetTripWithDays", mock.Anything, tripID).Return(trip, entries, nil).Once()

	state, err := svc.StartSession(context.Background(), uuid.New(), types.StartWizardRequest{TripID: &tripID})
	require.NoError(t, err)
	require.NotNil(t, state.TripID)
	assert.Equal(t, tripID, *state.TripID)
	assert.Equal(t, "Rhine River Cruise", state.Name)
	require.Len(t, state.Entries, 2)
	assert.Equal(t, "Basel", state.Entries[0].PortName)
	repo.AssertExpectations(t)
}

func TestUpdateDates_SessionNotFound(t *testing.T) {
	svc := newTestService(new(MockRepository))

	_, err := svc.UpdateDates(context.Background(), uuid.New(),
		types.DateRange{Start: date(2026, 4, 1), End: date(2026, 4, 5)}, nil)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSaveAndResumeDraft(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)
	userID := uuid.New()

	state, err := svc.StartSession(context.Background(), userID, types.StartWizardRequest{
		Name:      "Santorini Week",
		TripType:  types.TripTypeResort,
		StartDate: date(2026, 9, 1),
		EndDate:   date(2026, 9, 8),
	})
	require.NoError(t, err)

	var saved types.WizardDraft
	repo.On("SaveDraft", mock.Anything, mock.MatchedBy(func(d types.WizardDraft) bool {
		saved = d
		return d.ID == state.SessionID && d.UserID == userID
	})).Return(nil).Once()

	draft, err := svc.SaveDraft(context.Background(), state.SessionID, userID)
	require.NoError(t, err)
	assert.Equal(t, state.SessionID, draft.ID)

	repo.On("GetDraft", mock.Anything, draft.ID, userID).Return(saved, nil).Once()

	resumed, err := svc.ResumeDraft(context.Background(), draft.ID, userID)
	require.NoError(t, err)
	assert.NotEqual(t, state.SessionID, resumed.SessionID)
	assert.Equal(t, "Santorini Week", resumed.Name)
	assert.Len(t, resumed.Entries, 8)
	repo.AssertExpectations(t)
}

func TestCommit_ClosesSession(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	state, err := svc.StartSession(context.Background(), uuid.New(), types.StartWizardRequest{
		Name:      "Patagonia Expedition",
		TripType:  types.TripTypeCruise,
		StartDate: date(2026, 11, 1),
		EndDate:   date(2026, 11, 10),
	})
	require.NoError(t, err)

	trip := types.Trip{ID: uuid.New(), Name: "Patagonia Expedition"}
	repo.On("CommitTrip", mock.Anything, mock.Anything).Return(trip, nil).Once()

	got, err := svc.Commit(context.Background(), state.SessionID)
	require.NoError(t, err)
	assert.Equal(t, trip.ID, got.ID)

	_, err = svc.GetSession(context.Background(), state.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	repo.AssertExpectations(t)
}

func TestCommit_FailureKeepsSession(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	state, err := svc.StartSession(context.Background(), uuid.New(), types.StartWizardRequest{
		Name:      "Baltic Capitals",
		TripType:  types.TripTypeCruise,
		StartDate: date(2026, 7, 1),
		EndDate:   date(2026, 7, 9),
	})
	require.NoError(t, err)

	repo.On("CommitTrip", mock.Anything, mock.Anything).
		Return(types.Trip{}, errors.New("connection refused")).Once()

	_, err = svc.Commit(context.Background(), state.SessionID)
	require.Error(t, err)

	got, err := svc.GetSession(context.Background(), state.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "Baltic Capitals", got.Name)
	repo.AssertExpectations(t)
}
