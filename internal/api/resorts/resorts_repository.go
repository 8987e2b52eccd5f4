package resorts

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
	CreateResort(ctx context.Context, resort types.Resort) error
	GetResort(ctx context.Context, resortID uuid.UUID) (types.Resort, error)
	ListResorts(ctx context.Context) ([]*types.Resort, error)
	UpdateResort(ctx context.Context, resort types.Resort) error
	DeleteResort(ctx context.Context, resortID uuid.UUID) error
	ListResortAmenities(ctx context.Context, resortID uuid.UUID) ([]*types.Amenity, error)
	SetResortAmenities(ctx context.Context, resortID uuid.UUID, amenityIDs []uuid.UUID) error
	ListResortVenues(ctx context.Context, resortID uuid.UUID) ([]*types.Venue, error)
	SetResortVenues(ctx context.Context, resortID uuid.UUID, venueIDs []uuid.UUID) error
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

func (r *RepositoryImpl) CreateResort(ctx context.Context, resort types.Resort) error {
	query := `
        INSERT INTO resorts (id, name, location_id, room_count, description, image_url, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err := r.pgpool.Exec(ctx, query,
		resort.ID, resort.Name, resort.LocationID, resort.RoomCount,
		resort.Description, resort.ImageURL, resort.CreatedAt, resort.UpdatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert resort", slog.Any("error", err))
		return fmt.Errorf("failed to insert resort: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) GetResort(ctx context.Context, resortID uuid.UUID) (types.Resort, error) {
	query := `
        SELECT id, name, location_id, room_count, description, image_url, created_at, updated_at
        FROM resorts
        WHERE id = $1
    `
	var resort types.Resort
	err := r.pgpool.QueryRow(ctx, query, resortID).Scan(
		&resort.ID, &resort.Name, &resort.LocationID, &resort.RoomCount,
		&resort.Description, &resort.ImageURL, &resort.CreatedAt, &resort.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return types.Resort{}, fmt.Errorf("resort %s: %w", resortID, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to get resort", slog.Any("error", err))
		return types.Resort{}, fmt.Errorf("failed to get resort: %w", err)
	}
	return resort, nil
}

func (r *RepositoryImpl) ListResorts(ctx context.Context) ([]*types.Resort, error) {
	query := `
        SELECT id, name, location_id, room_count, description, image_url, created_at, updated_at
        FROM resorts
        ORDER BY name
    `
	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list resorts", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list resorts: %w", err)
	}
	defer rows.Close()

	var resorts []*types.Resort
	for rows.Next() {
		var resort types.Resort
		if err := rows.Scan(
			&resort.ID, &resort.Name, &resort.LocationID, &resort.RoomCount,
			&resort.Description, &resort.ImageURL, &resort.CreatedAt, &resort.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan resort: %w", err)
		}
		resorts = append(resorts, &resort)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resort rows: %w", err)
	}
	return resorts, nil
}

func (r *RepositoryImpl) UpdateResort(ctx context.Context, resort types.Resort) error {
	query := `
        UPDATE resorts
        SET name = $2, location_id = $3, room_count = $4, description = $5, image_url = $6, updated_at = $7
        WHERE id = $1
    `
	tag, err := r.pgpool.Exec(ctx, query,
		resort.ID, resort.Name, resort.LocationID, resort.RoomCount,
		resort.Description, resort.ImageURL, time.Now(),
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update resort", slog.Any("error", err))
		return fmt.Errorf("failed to update resort: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("resort %s: %w", resort.ID, types.ErrNotFound)
	}
	return nil
}

func (r *RepositoryImpl) DeleteResort(ctx context.Context, resortID uuid.UUID) error {
	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM resort_amenities WHERE resort_id = $1`, resortID); err != nil {
		return fmt.Errorf("failed to clear resort amenities: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM resort_venues WHERE resort_id = $1`, resortID); err != nil {
		return fmt.Errorf("failed to clear resort venues: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM resorts WHERE id = $1`, resortID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete resort", slog.Any("error", err))
		return fmt.Errorf("failed to delete resort: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("resort %s: %w", resortID, types.ErrNotFound)
	}
	return tx.Commit(ctx)
}

func (r *RepositoryImpl) ListResortAmenities(ctx context.Context, resortID uuid.UUID) ([]*types.Amenity, error) {
	query := `
        SELECT a.id, a.name, a.category, a.description, a.created_at, a.updated_at
        FROM amenities a
        JOIN resort_amenities ra ON ra.amenity_id = a.id
        WHERE ra.resort_id = $1
        ORDER BY a.name
    `
	rows, err := r.pgpool.Query(ctx, query, resortID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list resort amenities", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list resort amenities: %w", err)
	}
	defer rows.Close()

	var amenities []*types.Amenity
	for rows.Next() {
		var amenity types.Amenity
		if err := rows.Scan(
			&amenity.ID, &amenity.Name, &amenity.Category, &amenity.Description,
			&amenity.CreatedAt, &amenity.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan amenity: %w", err)
		}
		amenities = append(amenities, &amenity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating amenity rows: %w", err)
	}
	return amenities, nil
}

func (r *RepositoryImpl) SetResortAmenities(ctx context.Context, resortID uuid.UUID, amenityIDs []uuid.UUID) error {
	return r.replaceLinks(ctx, `DELETE FROM resort_amenities WHERE resort_id = $1`,
		`INSERT INTO resort_amenities (resort_id, amenity_id) VALUES ($1, $2)`, resortID, amenityIDs)
}

func (r *RepositoryImpl) ListResortVenues(ctx context.Context, resortID uuid.UUID) ([]*types.Venue, error) {
	query := `
        SELECT v.id, v.name, v.venue_type_id, v.description, v.image_url, v.created_at, v.updated_at
        FROM venues v
        JOIN resort_venues rv ON rv.venue_id = v.id
        WHERE rv.resort_id = $1
        ORDER BY v.name
    `
	rows, err := r.pgpool.Query(ctx, query, resortID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list resort venues", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list resort venues: %w", err)
	}
	defer rows.Close()

	var venues []*types.Venue
	for rows.Next() {
		var venue types.Venue
		if err := rows.Scan(
			&venue.ID, &venue.Name, &venue.VenueTypeID, &venue.Description,
			&venue.ImageURL, &venue.CreatedAt, &venue.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan venue: %w", err)
		}
		venues = append(venues, &venue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating venue rows: %w", err)
	}
	return venues, nil
}

func (r *RepositoryImpl) SetResortVenues(ctx context.Context, resortID uuid.UUID, venueIDs []uuid.UUID) error {
	return r.replaceLinks(ctx, `DELETE FROM resort_venues WHERE resort_id = $1`,
		`INSERT INTO resort_venues (resort_id, venue_id) VALUES ($1, $2)`, resortID, venueIDs)
}

func (r *RepositoryImpl) replaceLinks(ctx context.Context, deleteSQL, insertSQL string, resortID uuid.UUID, ids []uuid.UUID) error {
	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, deleteSQL, resortID); err != nil {
		return fmt.Errorf("failed to clear links: %w", err)
	}
	for _, id := range ids {
		if _, err := tx.Exec(ctx, insertSQL, resortID, id); err != nil {
			return fmt.Errorf("failed to insert link %s: %w", id, err)
		}
	}
	return tx.Commit(ctx)
}
