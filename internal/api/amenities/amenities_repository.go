package amenities

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/atlasvoyages/trip-console/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	CreateAmenity(ctx context.Context, amenity types.Amenity) error
	GetAmenity(ctx context.Context, amenityID uuid.UUID) (types.Amenity, error)
	ListAmenities(ctx context.Context, category string) ([]*types.Amenity, error)
	UpdateAmenity(ctx context.Context, amenity types.Amenity) error
	DeleteAmenity(ctx context.Context, amenityID uuid.UUID) error
	GetAmenityStats(ctx context.Context) (types.AmenityStats, error)
}

// PGXPool is the slice of pgxpool.Pool this repository uses. Tests substitute
// a pgxmock pool.
type PGXPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool PGXPool
}

func NewRepository(pgxpool PGXPool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *RepositoryImpl) CreateAmenity(ctx context.Context, amenity types.Amenity) error {
	query := `
        INSERT INTO amenities (id, name, category, description, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := r.pgpool.Exec(ctx, query,
		amenity.ID, amenity.Name, amenity.Category, amenity.Description,
		amenity.CreatedAt, amenity.UpdatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert amenity", slog.Any("error", err))
		return fmt.Errorf("failed to insert amenity: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) GetAmenity(ctx context.Context, amenityID uuid.UUID) (types.Amenity, error) {
	query := `
        SELECT id, name, category, description, created_at, updated_at
        FROM amenities
        WHERE id = $1
    `
	var amenity types.Amenity
	err := r.pgpool.QueryRow(ctx, query, amenityID).Scan(
		&amenity.ID, &amenity.Name, &amenity.Category, &amenity.Description,
		&amenity.CreatedAt, &amenity.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return types.Amenity{}, fmt.Errorf("amenity %s: %w", amenityID, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to get amenity", slog.Any("error", err))
		return types.Amenity{}, fmt.Errorf("failed to get amenity: %w", err)
	}
	return amenity, nil
}

func (r *RepositoryImpl) ListAmenities(ctx context.Context, category string) ([]*types.Amenity, error) {
	query := `
        SELECT id, name, category, description, created_at, updated_at
        FROM amenities
        WHERE ($1 = '' OR category = $1)
        ORDER BY name
    `
	rows, err := r.pgpool.Query(ctx, query, category)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list amenities", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list amenities: %w", err)
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

func (r *RepositoryImpl) UpdateAmenity(ctx context.Context, amenity types.Amenity) error {
	query := `
        UPDATE amenities
        SET name = $2, category = $3, description = $4, updated_at = $5
        WHERE id = $1
    `
	tag, err := r.pgpool.Exec(ctx, query,
		amenity.ID, amenity.Name, amenity.Category, amenity.Description, time.Now(),
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update amenity", slog.Any("error", err))
		return fmt.Errorf("failed to update amenity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("amenity %s: %w", amenity.ID, types.ErrNotFound)
	}
	return nil
}

func (r *RepositoryImpl) DeleteAmenity(ctx context.Context, amenityID uuid.UUID) error {
	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM ship_amenities WHERE amenity_id = $1`, amenityID); err != nil {
		return fmt.Errorf("failed to clear ship links: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM resort_amenities WHERE amenity_id = $1`, amenityID); err != nil {
		return fmt.Errorf("failed to clear resort links: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM amenities WHERE id = $1`, amenityID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete amenity", slog.Any("error", err))
		return fmt.Errorf("failed to delete amenity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("amenity %s: %w", amenityID, types.ErrNotFound)
	}
	return tx.Commit(ctx)
}

func (r *RepositoryImpl) GetAmenityStats(ctx context.Context) (types.AmenityStats, error) {
	query := `
        SELECT COUNT(*), COUNT(DISTINCT category) FILTER (WHERE category <> '')
        FROM amenities
    `
	var stats types.AmenityStats
	err := r.pgpool.QueryRow(ctx, query).Scan(&stats.Total, &stats.Categories)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to get amenity stats", slog.Any("error", err))
		return types.AmenityStats{}, fmt.Errorf("failed to get amenity stats: %w", err)
	}
	return stats, nil
}
