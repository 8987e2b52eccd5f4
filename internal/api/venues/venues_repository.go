package venues

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
	CreateVenue(ctx context.Context, venue types.Venue) error
	GetVenue(ctx context.Context, venueID uuid.UUID) (types.Venue, error)
	ListVenues(ctx context.Context, venueTypeID *uuid.UUID) ([]*types.Venue, error)
	UpdateVenue(ctx context.Context, venue types.Venue) error
	DeleteVenue(ctx context.Context, venueID uuid.UUID) error
	ListVenueTypes(ctx context.Context) ([]*types.VenueType, error)
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

func (r *RepositoryImpl) CreateVenue(ctx context.Context, venue types.Venue) error {
	query := `
        INSERT INTO venues (id, name, venue_type_id, description, image_url, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := r.pgpool.Exec(ctx, query,
		venue.ID, venue.Name, venue.VenueTypeID, venue.Description,
		venue.ImageURL, venue.CreatedAt, venue.UpdatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert venue", slog.Any("error", err))
		return fmt.Errorf("failed to insert venue: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) GetVenue(ctx context.Context, venueID uuid.UUID) (types.Venue, error) {
	query := `
        SELECT id, name, venue_type_id, description, image_url, created_at, updated_at
        FROM venues
        WHERE id = $1
    `
	var venue types.Venue
	err := r.pgpool.QueryRow(ctx, query, venueID).Scan(
		&venue.ID, &venue.Name, &venue.VenueTypeID, &venue.Description,
		&venue.ImageURL, &venue.CreatedAt, &venue.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return types.Venue{}, fmt.Errorf("venue %s: %w", venueID, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to get venue", slog.Any("error", err))
		return types.Venue{}, fmt.Errorf("failed to get venue: %w", err)
	}
	return venue, nil
}

func (r *RepositoryImpl) ListVenues(ctx context.Context, venueTypeID *uuid.UUID) ([]*types.Venue, error) {
	query := `
        SELECT id, name, venue_type_id, description, image_url, created_at, updated_at
        FROM venues
        WHERE ($1::uuid IS NULL OR venue_type_id = $1)
        ORDER BY name
    `
	rows, err := r.pgpool.Query(ctx, query, venueTypeID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list venues", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list venues: %w", err)
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

func (r *RepositoryImpl) UpdateVenue(ctx context.Context, venue types.Venue) error {
	query := `
        UPDATE venues
        SET name = $2, venue_type_id = $3, description = $4, image_url = $5, updated_at = $6
        WHERE id = $1
    `
	tag, err := r.pgpool.Exec(ctx, query,
		venue.ID, venue.Name, venue.VenueTypeID, venue.Description, venue.ImageURL, time.Now(),
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update venue", slog.Any("error", err))
		return fmt.Errorf("failed to update venue: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("venue %s: %w", venue.ID, types.ErrNotFound)
	}
	return nil
}

func (r *RepositoryImpl) DeleteVenue(ctx context.Context, venueID uuid.UUID) error {
	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM ship_venues WHERE venue_id = $1`, venueID); err != nil {
		return fmt.Errorf("failed to clear ship links: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM resort_venues WHERE venue_id = $1`, venueID); err != nil {
		return fmt.Errorf("failed to clear resort links: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM venues WHERE id = $1`, venueID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete venue", slog.Any("error", err))
		return fmt.Errorf("failed to delete venue: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("venue %s: %w", venueID, types.ErrNotFound)
	}
	return tx.Commit(ctx)
}

func (r *RepositoryImpl) ListVenueTypes(ctx context.Context) ([]*types.VenueType, error) {
	rows, err := r.pgpool.Query(ctx, `SELECT id, name FROM venue_types ORDER BY name`)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list venue types", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list venue types: %w", err)
	}
	defer rows.Close()

	var venueTypes []*types.VenueType
	for rows.Next() {
		var vt types.VenueType
		if err := rows.Scan(&vt.ID, &vt.Name); err != nil {
			return nil, fmt.Errorf("failed to scan venue type: %w", err)
		}
		venueTypes = append(venueTypes, &vt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating venue type rows: %w", err)
	}
	return venueTypes, nil
}
