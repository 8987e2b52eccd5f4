package ships

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
	CreateShip(ctx context.Context, ship types.Ship) error
	GetShip(ctx context.Context, shipID uuid.UUID) (types.Ship, error)
	ListShips(ctx context.Context) ([]*types.Ship, error)
	UpdateShip(ctx context.Context, ship types.Ship) error
	DeleteShip(ctx context.Context, shipID uuid.UUID) error
	ListShipAmenities(ctx context.Context, shipID uuid.UUID) ([]*types.Amenity, error)
	SetShipAmenities(ctx context.Context, shipID uuid.UUID, amenityIDs []uuid.UUID) error
	ListShipVenues(ctx context.Context, shipID uuid.UUID) ([]*types.Venue, error)
	SetShipVenues(ctx context.Context, shipID uuid.UUID, venueIDs []uuid.UUID) error
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

func (r *RepositoryImpl) CreateShip(ctx context.Context, ship types.Ship) error {
	query := `
        INSERT INTO ships (id, name, cruise_line, capacity, decks, image_url, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err := r.pgpool.Exec(ctx, query,
		ship.ID, ship.Name, ship.CruiseLine, ship.Capacity, ship.Decks,
		ship.ImageURL, ship.CreatedAt, ship.UpdatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert ship", slog.Any("error", err))
		return fmt.Errorf("failed to insert ship: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) GetShip(ctx context.Context, shipID uuid.UUID) (types.Ship, error) {
	query := `
        SELECT id, name, cruise_line, capacity, decks, image_url, created_at, updated_at
        FROM ships
        WHERE id = $1
    `
	var ship types.Ship
	err := r.pgpool.QueryRow(ctx, query, shipID).Scan(
		&ship.ID, &ship.Name, &ship.CruiseLine, &ship.Capacity, &ship.Decks,
		&ship.ImageURL, &ship.CreatedAt, &ship.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return types.Ship{}, fmt.Errorf("ship %s: %w", shipID, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to get ship", slog.Any("error", err))
		return types.Ship{}, fmt.Errorf("failed to get ship: %w", err)
	}
	return ship, nil
}

func (r *RepositoryImpl) ListShips(ctx context.Context) ([]*types.Ship, error) {
	query := `
        SELECT id, name, cruise_line, capacity, decks, image_url, created_at, updated_at
        FROM ships
        ORDER BY name
    `
	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list ships", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list ships: %w", err)
	}
	defer rows.Close()

	var ships []*types.Ship
	for rows.Next() {
		var ship types.Ship
		if err := rows.Scan(
			&ship.ID, &ship.Name, &ship.CruiseLine, &ship.Capacity, &ship.Decks,
			&ship.ImageURL, &ship.CreatedAt, &ship.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ship: %w", err)
		}
		ships = append(ships, &ship)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ship rows: %w", err)
	}
	return ships, nil
}

func (r *RepositoryImpl) UpdateShip(ctx context.Context, ship types.Ship) error {
	query := `
        UPDATE ships
        SET name = $2, cruise_line = $3, capacity = $4, decks = $5, image_url = $6, updated_at = $7
        WHERE id = $1
    `
	tag, err := r.pgpool.Exec(ctx, query,
		ship.ID, ship.Name, ship.CruiseLine, ship.Capacity, ship.Decks, ship.ImageURL, time.Now(),
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update ship", slog.Any("error", err))
		return fmt.Errorf("failed to update ship: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ship %s: %w", ship.ID, types.ErrNotFound)
	}
	return nil
}

func (r *RepositoryImpl) DeleteShip(ctx context.Context, shipID uuid.UUID) error {
	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM ship_amenities WHERE ship_id = $1`, shipID); err != nil {
		return fmt.Errorf("failed to clear ship amenities: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM ship_venues WHERE ship_id = $1`, shipID); err != nil {
		return fmt.Errorf("failed to clear ship venues: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM ships WHERE id = $1`, shipID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete ship", slog.Any("error", err))
		return fmt.Errorf("failed to delete ship: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ship %s: %w", shipID, types.ErrNotFound)
	}
	return tx.Commit(ctx)
}

func (r *RepositoryImpl) ListShipAmenities(ctx context.Context, shipID uuid.UUID) ([]*types.Amenity, error) {
	query := `
        SELECT a.id, a.name, a.category, a.description, a.created_at, a.updated_at
        FROM amenities a
        JOIN ship_amenities sa ON sa.amenity_id = a.id
        WHERE sa.ship_id = $1
        ORDER BY a.name
    `
	rows, err := r.pgpool.Query(ctx, query, shipID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list ship amenities", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list ship amenities: %w", err)
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

func (r *RepositoryImpl) SetShipAmenities(ctx context.Context, shipID uuid.UUID, amenityIDs []uuid.UUID) error {
	return r.replaceLinks(ctx, `DELETE FROM ship_amenities WHERE ship_id = $1`,
		`INSERT INTO ship_amenities (ship_id, amenity_id) VALUES ($1, $2)`, shipID, amenityIDs)
}

func (r *RepositoryImpl) ListShipVenues(ctx context.Context, shipID uuid.UUID) ([]*types.Venue, error) {
	query := `
        SELECT v.id, v.name, v.venue_type_id, v.description, v.image_url, v.created_at, v.updated_at
        FROM venues v
        JOIN ship_venues sv ON sv.venue_id = v.id
        WHERE sv.ship_id = $1
        ORDER BY v.name
    `
	rows, err := r.pgpool.Query(ctx, query, shipID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list ship venues", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list ship venues: %w", err)
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

func (r *RepositoryImpl) SetShipVenues(ctx context.Context, shipID uuid.UUID, venueIDs []uuid.UUID) error {
	return r.replaceLinks(ctx, `DELETE FROM ship_venues WHERE ship_id = $1`,
		`INSERT INTO ship_venues (ship_id, venue_id) VALUES ($1, $2)`, shipID, venueIDs)
}

// replaceLinks swaps one side of a ship join table in a single transaction.
func (r *RepositoryImpl) replaceLinks(ctx context.Context, deleteSQL, insertSQL string, shipID uuid.UUID, ids []uuid.UUID) error {
	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, deleteSQL, shipID); err != nil {
		return fmt.Errorf("failed to clear links: %w", err)
	}
	for _, id := range ids {
		if _, err := tx.Exec(ctx, insertSQL, shipID, id); err != nil {
			return fmt.Errorf("failed to insert link %s: %w", id, err)
		}
	}
	return tx.Commit(ctx)
}
