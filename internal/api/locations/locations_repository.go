package locations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlasvoyages/trip-console/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	CreateLocation(ctx context.Context, location types.Location) error
	GetLocation(ctx context.Context, locationID uuid.UUID) (types.Location, error)
	ListLocations(ctx context.Context, country string) ([]*types.Location, error)
	UpdateLocation(ctx context.Context, location types.Location) error
	DeleteLocation(ctx context.Context, locationID uuid.UUID) error
	GetLocationStats(ctx context.Context) (types.LocationStats, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewRepository(pgxpool *pgxpool.Pool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *RepositoryImpl) CreateLocation(ctx context.Context, location types.Location) error {
	query := `
        INSERT INTO locations (id, name, country, region, description, image_url, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err := r.pgpool.Exec(ctx, query,
		location.ID, location.Name, location.Country, location.Region,
		location.Description, location.ImageURL, location.CreatedAt, location.UpdatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert location", slog.Any("error", err))
		return fmt.Errorf("failed to insert location: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) GetLocation(ctx context.Context, locationID uuid.UUID) (types.Location, error) {
	query := `
        SELECT id, name, country, region, description, image_url, created_at, updated_at
        FROM locations
        WHERE id = $1
    `
	var location types.Location
	err := r.pgpool.QueryRow(ctx, query, locationID).Scan(
		&location.ID, &location.Name, &location.Country, &location.Region,
		&location.Description, &location.ImageURL, &location.CreatedAt, &location.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return types.Location{}, fmt.Errorf("location %s: %w", locationID, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to get location", slog.Any("error", err))
		return types.Location{}, fmt.Errorf("failed to get location: %w", err)
	}
	return location, nil
}

func (r *RepositoryImpl) ListLocations(ctx context.Context, country string) ([]*types.Location, error) {
	query := `
        SELECT id, name, country, region, description, image_url, created_at, updated_at
        FROM locations
        WHERE ($1 = '' OR country = $1)
        ORDER BY name
    `
	rows, err := r.pgpool.Query(ctx, query, country)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list locations", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	var locations []*types.Location
	for rows.Next() {
		var location types.Location
		if err := rows.Scan(
			&location.ID, &location.Name, &location.Country, &location.Region,
			&location.Description, &location.ImageURL, &location.CreatedAt, &location.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, &location)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating location rows: %w", err)
	}
	return locations, nil
}

func (r *RepositoryImpl) UpdateLocation(ctx context.Context, location types.Location) error {
	query := `
        UPDATE locations
        SET name = $2, country = $3, region = $4, description = $5, image_url = $6, updated_at = $7
        WHERE id = $1
    `
	tag, err := r.pgpool.Exec(ctx, query,
		location.ID, location.Name, location.Country, location.Region,
		location.Description, location.ImageURL, time.Now(),
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update location", slog.Any("error", err))
		return fmt.Errorf("failed to update location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("location %s: %w", location.ID, types.ErrNotFound)
	}
	return nil
}

func (r *RepositoryImpl) DeleteLocation(ctx context.Context, locationID uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM locations WHERE id = $1`, locationID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete location", slog.Any("error", err))
		return fmt.Errorf("failed to delete location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("location %s: %w", locationID, types.ErrNotFound)
	}
	return nil
}

func (r *RepositoryImpl) GetLocationStats(ctx context.Context) (types.LocationStats, error) {
	query := `
        SELECT COUNT(*),
               COUNT(DISTINCT country),
               COUNT(*) FILTER (WHERE image_url <> '')
        FROM locations
    `
	var stats types.LocationStats
	err := r.pgpool.QueryRow(ctx, query).Scan(&stats.Total, &stats.Countries, &stats.WithImage)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to get location stats", slog.Any("error", err))
		return types.LocationStats{}, fmt.Errorf("failed to get location stats: %w", err)
	}
	return stats, nil
}
