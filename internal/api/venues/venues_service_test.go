package venues

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/atlasvoyages/trip-console/internal/types"
)

type MockRepository struct {
	mock.Mock
}

var _ Repository = (*MockRepository)(nil)

func (m *MockRepository) CreateVenue(ctx context.Context, venue types.Venue) error {
	args := m.Called(ctx, venue)
	return args.Error(0)
}

func (m *MockRepository) GetVenue(ctx context.Context, venueID uuid.UUID) (types.Venue, error) {
	args := m.Called(ctx, venueID)
	return args.Get(0).(types.Venue), args.Error(1)
}

func (m *MockRepository) ListVenues(ctx context.Context, venueTypeID *uuid.UUID) ([]*types.Venue, error) {
	args := m.Called(ctx, venueTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Venue), args.Error(1)
}

func (m *MockRepository) UpdateVenue(ctx context.Context, venue types.Venue) error {
	args := m.Called(ctx, venue)
	return args.Error(0)
}

func (m *MockRepository) DeleteVenue(ctx context.Context, venueID uuid.UUID) error {
	args := m.Called(ctx, venueID)
	return args.Error(0)
}

func (m *MockRepository) ListVenueTypes(ctx context.Context) ([]*types.VenueType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.VenueType), args.Error(1)
}

func newTestService(repo Repository) *ServiceImpl {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return NewServiceImpl(repo, logger)
}

// The venue-type list is cached: repeated calls within the TTL hit the
// repository exactly once.
func TestListVenueTypes_ReadThroughCache(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	venueTypes := []*types.VenueType{
		{ID: uuid.New(), Name: "Bar"},
		{ID: uuid.New(), Name: "Theater"},
	}
	repo.On("ListVenueTypes", mock.Anything).Return(venueTypes, nil).Once()

	for i := 0; i < 3; i++ {
		got, err := svc.ListVenueTypes(context.Background())
		require.NoError(t, err)
		assert.Len(t, got, 2)
	}
	repo.AssertNumberOfCalls(t, "ListVenueTypes", 1)
}

func TestUpdateVenue_PatchesFields(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo)

	venueID := uuid.New()
	venue := types.Venue{ID: venueID, Name: "Main Pool", VenueTypeID: uuid.New()}
	repo.On("GetVenue", mock.Anything, venueID).Return(venue, nil).Once()

	name := "Aqua Theater"
	repo.On("UpdateVenue", mock.Anything, mock.MatchedBy(func(v types.Venue) bool {
		return v.Name == "Aqua Theater" && v.VenueTypeID == venue.VenueTypeID
	})).Return(nil).Once()

	got, err := svc.UpdateVenue(context.Background(), venueID, types.UpdateVenueRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Aqua Theater", got.Name)
	repo.AssertExpectations(t)
}
