package bulkops

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

func (m *MockRepository) ImportReferenceData(ctx context.Context, req types.BulkImportRequest) (types.BulkImportResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(types.BulkImportResult), args.Error(1)
}

type stubSources struct {
	trips     []*types.Trip
	talent    []*types.Talent
	locations []*types.Location
	ships     []*types.Ship
	resorts   []*types.Resort
	venues    []*types.Venue
	amenities []*types.Amenity
	err       error
}

func (s *stubSources) ListTrips(_ context.Context, _ types.TripFilter) ([]*types.Trip, error) {
	return s.trips, s.err
}
func (s *stubSources) ListTalent(_ context.Context, _ string) ([]*types.Talent, error) {
	return s.talent, nil
}
func (s *stubSources) ListLocations(_ context.Context, _ string) ([]*types.Location, error) {
	return s.locations, nil
}
func (s *stubSources) ListShips(_ context.Context) ([]*types.Ship, error) {
	return s.ships, nil
}
func (s *stubSources) ListResorts(_ context.Context) ([]*types.Resort, error) {
	return s.resorts, nil
}
func (s *stubSources) ListVenues(_ context.Context, _ *uuid.UUID) ([]*types.Venue, error) {
	return s.venues, nil
}
func (s *stubSources) ListAmenities(_ context.Context, _ string) ([]*types.Amenity, error) {
	return s.amenities, nil
}

func newTestService(t *testing.T, repo Repository, stub *stubSources) *ServiceImpl {
	t.Helper()
	metrics.InitAppMetrics()
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn}))
	sources := ExportSources{
		Trips:     stub,
		Talent:    stub,
		Locations: stub,
		Ships:     stub,
		Resorts:   stub,
		Venues:    stub,
		Amenities: stub,
	}
	return NewService(repo, sources, logger)
}

func TestImportReferenceData_ReturnsPerItemReport(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(t, repo, &stubSources{})

	req := types.BulkImportRequest{
		Locations: []types.CreateLocationRequest{
			{Name: "Juneau", Country: "USA"},
			{Name: "Skagway", Country: "USA"},
		},
		Talent: []types.CreateTalentRequest{{Name: "Aurora Quartet"}},
	}
	id := uuid.New()
	repo.On("ImportReferenceData", mock.Anything, req).Return(types.BulkImportResult{
		Total:     3,
		Succeeded: 2,
		Failed:    1,
		Items: []types.BulkItemResult{
			{Entity: "location", Index: 0, ID: &id, Success: true},
			{Entity: "location", Index: 1, Success: false, Error: "duplicate key"},
			{Entity: "talent", Index: 0, ID: &id, Success: true},
		},
	}, nil)

	result, err := svc.ImportReferenceData(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, result.Items, 3)
	repo.AssertExpectations(t)
}

func TestImportReferenceData_RepositoryError(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(t, repo, &stubSources{})

	repo.On("ImportReferenceData", mock.Anything, mock.Anything).
		Return(types.BulkImportResult{}, errors.New("connection reset"))

	_, err := svc.ImportReferenceData(context.Background(), types.BulkImportRequest{
		Amenities: []types.CreateAmenityRequest{{Name: "Spa"}},
	})
	assert.Error(t, err)
}

func TestExport_AssemblesAllFamilies(t *testing.T) {
	stub := &stubSources{
		trips:     []*types.Trip{{ID: uuid.New(), Name: "Alaska Glacier Cruise"}},
		talent:    []*types.Talent{{ID: uuid.New(), Name: "Aurora Quartet"}},
		locations: []*types.Location{{ID: uuid.New(), Name: "Juneau"}, {ID: uuid.New(), Name: "Skagway"}},
		ships:     []*types.Ship{{ID: uuid.New(), Name: "Northern Star"}},
		resorts:   []*types.Resort{},
		venues:    []*types.Venue{{ID: uuid.New(), Name: "Aurora Theater"}},
		amenities: []*types.Amenity{{ID: uuid.New(), Name: "Spa"}},
	}
	svc := newTestService(t, new(MockRepository), stub)

	export, err := svc.Export(context.Background())
	require.NoError(t, err)
	assert.Len(t, export.Trips, 1)
	assert.Len(t, export.Locations, 2)
	assert.Len(t, export.Ships, 1)
	assert.Empty(t, export.Resorts)
	assert.Len(t, export.Venues, 1)
	assert.Len(t, export.Amenities, 1)
}

func TestExport_FailsWhenAnySourceFails(t *testing.T) {
	stub := &stubSources{err: errors.New("trips table unavailable")}
	svc := newTestService(t, new(MockRepository), stub)

	_, err := svc.Export(context.Background())
	assert.Error(t, err)
}
