package talent

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
	CreateTalent(ctx context.Context, talent types.Talent) error
	GetTalent(ctx context.Context, talentID uuid.UUID) (types.Talent, error)
	ListTalent(ctx context.Context, category string) ([]*types.Talent, error)
	UpdateTalent(ctx context.Context, talent types.Talent) error
	DeleteTalent(ctx context.Context, talentID uuid.UUID) error
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

func (r *RepositoryImpl) CreateTalent(ctx context.Context, talent types.Talent) error {
	query := `
        INSERT INTO talent (id, name, category, bio, image_url, website, social, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	_, err := r.pgpool.Exec(ctx, query,
		talent.ID, talent.Name, talent.Category, talent.Bio,
		talent.ImageURL, talent.Website, talent.Social,
		talent.CreatedAt, talent.UpdatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert talent", slog.Any("error", err))
		return fmt.Errorf("failed to insert talent: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) GetTalent(ctx context.Context, talentID uuid.UUID) (types.Talent, error) {
	query := `
        SELECT id, name, category, bio, image_url, website, social, created_at, updated_at
        FROM talent
        WHERE id = $1
    `
	var talent types.Talent
	err := r.pgpool.QueryRow(ctx, query, talentID).Scan(
		&talent.ID, &talent.Name, &talent.Category, &talent.Bio,
		&talent.ImageURL, &talent.Website, &talent.Social,
		&talent.CreatedAt, &talent.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return types.Talent{}, fmt.Errorf("talent %s: %w", talentID, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to get talent", slog.Any("error", err))
		return types.Talent{}, fmt.Errorf("failed to get talent: %w", err)
	}
	return talent, nil
}

func (r *RepositoryImpl) ListTalent(ctx context.Context, category string) ([]*types.Talent, error) {
	query := `
        SELECT id, name, category, bio, image_url, website, social, created_at, updated_at
        FROM talent
        WHERE ($1 = '' OR category = $1)
        ORDER BY name
    `
	rows, err := r.pgpool.Query(ctx, query, category)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list talent", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list talent: %w", err)
	}
	defer rows.Close()

	var roster []*types.Talent
	for rows.Next() {
		var talent types.Talent
		if err := rows.Scan(
			&talent.ID, &talent.Name, &talent.Category, &talent.Bio,
			&talent.ImageURL, &talent.Website, &talent.Social,
			&talent.CreatedAt, &talent.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan talent: %w", err)
		}
		roster = append(roster, &talent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating talent rows: %w", err)
	}
	return roster, nil
}

func (r *RepositoryImpl) UpdateTalent(ctx context.Context, talent types.Talent) error {
	query := `
        UPDATE talent
        SET name = $2, category = $3, bio = $4, image_url = $5, website = $6, social = $7, updated_at = $8
        WHERE id = $1
    `
	tag, err := r.pgpool.Exec(ctx, query,
		talent.ID, talent.Name, talent.Category, talent.Bio,
		talent.ImageURL, talent.Website, talent.Social, time.Now(),
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update talent", slog.Any("error", err))
		return fmt.Errorf("failed to update talent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("talent %s: %w", talent.ID, types.ErrNotFound)
	}
	return nil
}

func (r *RepositoryImpl) DeleteTalent(ctx context.Context, talentID uuid.UUID) error {
	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM trip_talent WHERE talent_id = $1`, talentID); err != nil {
		return fmt.Errorf("failed to clear trip assignments: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM talent WHERE id = $1`, talentID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete talent", slog.Any("error", err))
		return fmt.Errorf("failed to delete talent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("talent %s: %w", talentID, types.ErrNotFound)
	}
	return tx.Commit(ctx)
}
