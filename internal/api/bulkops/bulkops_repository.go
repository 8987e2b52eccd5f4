package bulkops

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
	ImportReferenceData(ctx context.Context, req types.BulkImportRequest) (types.BulkImportResult, error)
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

// ImportReferenceData loads the whole batch inside one transaction,
// sequentially, wrapping each row in a savepoint. A failed row rolls back
// only its savepoint and is reported in the result; the surviving rows
// commit together at the end.
func (r *RepositoryImpl) ImportReferenceData(ctx context.Context, req types.BulkImportRequest) (types.BulkImportResult, error) {
	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return types.BulkImportResult{}, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var result types.BulkImportResult
	now := time.Now()

	for i, loc := range req.Locations {
		id := uuid.New()
		err := r.importRow(ctx, tx, `
            INSERT INTO locations (id, name, country, region, description, image_url, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        `, id, loc.Name, loc.Country, loc.Region, loc.Description, loc.ImageURL, now, now)
		result.Items = append(result.Items, itemResult("location", i, id, err))
	}
	for i, tal := range req.Talent {
		id := uuid.New()
		err := r.importRow(ctx, tx, `
            INSERT INTO talent (id, name, category, bio, image_url, website, social, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        `, id, tal.Name, tal.Category, tal.Bio, tal.ImageURL, tal.Website, tal.Social, now, now)
		result.Items = append(result.Items, itemResult("talent", i, id, err))
	}
	for i, am := range req.Amenities {
		id := uuid.New()
		err := r.importRow(ctx, tx, `
            INSERT INTO amenities (id, name, category, description, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6)
        `, id, am.Name, am.Category, am.Description, now, now)
		result.Items = append(result.Items, itemResult("amenity", i, id, err))
	}

	for _, item := range result.Items {
		result.Total++
		if item.Success {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return types.BulkImportResult{}, fmt.Errorf("failed to commit batch: %w", err)
	}
	return result, nil
}

// importRow runs one insert under a savepoint so its failure cannot poison
// the batch transaction.
func (r *RepositoryImpl) importRow(ctx context.Context, tx pgx.Tx, sql string, args ...any) error {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to open savepoint: %w", err)
	}
	if _, err := sp.Exec(ctx, sql, args...); err != nil {
		_ = sp.Rollback(ctx)
		return err
	}
	return sp.Commit(ctx)
}

func itemResult(entity string, index int, id uuid.UUID, err error) types.BulkItemResult {
	if err != nil {
		return types.BulkItemResult{Entity: entity, Index: index, Success: false, Error: err.Error()}
	}
	return types.BulkItemResult{Entity: entity, Index: index, ID: &id, Success: true}
}
