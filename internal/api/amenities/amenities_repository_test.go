package amenities

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasvoyages/trip-console/internal/types"
)

func newMockRepository(t *testing.T) (*RepositoryImpl, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return NewRepository(mockPool, logger), mockPool
}

func TestGetAmenity(t *testing.T) {
	repo, mockPool := newMockRepository(t)

	amenityID := uuid.New()
	now := time.Now()
	mockPool.ExpectQuery("SELECT id, name, category, description").
		WithArgs(amenityID).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "name", "category", "description", "created_at", "updated_at"},
		).AddRow(amenityID, "Spa", "wellness", "Full-service spa", now, now))

	amenity, err := repo.GetAmenity(context.Background(), amenityID)
	require.NoError(t, err)
	assert.Equal(t, "Spa", amenity.Name)
	assert.Equal(t, "wellness", amenity.Category)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestGetAmenity_NotFound(t *testing.T) {
	repo, mockPool := newMockRepository(t)

	amenityID := uuid.New()
	mockPool.ExpectQuery("SELECT id, name, category, description").
		WithArgs(amenityID).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "name", "category", "description", "created_at", "updated_at"},
		))

	_, err := repo.GetAmenity(context.Background(), amenityID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestCreateAmenity(t *testing.T) {
	repo, mockPool := newMockRepository(t)

	now := time.Now()
	amenity := types.Amenity{
		ID:        uuid.New(),
		Name:      "Casino",
		Category:  "entertainment",
		CreatedAt: now,
		UpdatedAt: now,
	}
	mockPool.ExpectExec("INSERT INTO amenities").
		WithArgs(amenity.ID, amenity.Name, amenity.Category, amenity.Description, now, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.CreateAmenity(context.Background(), amenity))
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestUpdateAmenity_NotFound(t *testing.T) {
	repo, mockPool := newMockRepository(t)

	amenity := types.Amenity{ID: uuid.New(), Name: "Gym"}
	mockPool.ExpectExec("UPDATE amenities").
		WithArgs(amenity.ID, amenity.Name, amenity.Category, amenity.Description, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateAmenity(context.Background(), amenity)
	assert.ErrorIs(t, err, types.ErrNotFound)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestGetAmenityStats(t *testing.T) {
	repo, mockPool := newMockRepository(t)

	mockPool.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count", "categories"}).AddRow(12, 4))

	stats, err := repo.GetAmenityStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, stats.Total)
	assert.Equal(t, 4, stats.Categories)
	require.NoError(t, mockPool.ExpectationsWereMet())
}
