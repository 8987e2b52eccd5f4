package tripwizard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlasvoyages/trip-console/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository persists wizard drafts and commits finished wizard state into
// the trips tables.
type Repository interface {
	SaveDraft(ctx context.Context, draft types.WizardDraft) error
	GetDraft(ctx context.Context, draftID, userID uuid.UUID) (types.WizardDraft, error)
	ListDrafts(ctx context.Context, userID uuid.UUID) ([]*types.WizardDraft, error)
	DeleteDraft(ctx context.Context, draftID, userID uuid.UUID) error
	CommitTrip(ctx context.Context, state types.WizardState) (types.Trip, error)
	GetTripWithDays(ctx context.Context, tripID uuid.UUID) (types.Trip, []types.DayEntry, error)
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

// SaveDraft upserts a wizard snapshot as JSONB keyed by the session ID.
func (r *RepositoryImpl) SaveDraft(ctx context.Context, draft types.WizardDraft) error {
	payload, err := json.Marshal(draft.State)
	if err != nil {
		return fmt.Errorf("failed to marshal draft state: %w", err)
	}

	query := `
        INSERT INTO trip_drafts (id, user_id, state, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (id) DO UPDATE SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at
    `
	_, err = r.pgpool.Exec(ctx, query,
		draft.ID, draft.UserID, payload, draft.CreatedAt, draft.UpdatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to save draft", slog.Any("error", err))
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) GetDraft(ctx context.Context, draftID, userID uuid.UUID) (types.WizardDraft, error) {
	query := `
        SELECT id, user_id, state, created_at, updated_at
        FROM trip_drafts
        WHERE id = $1 AND user_id = $2
    `
	var draft types.WizardDraft
	var payload []byte
	err := r.pgpool.QueryRow(ctx, query, draftID, userID).Scan(
		&draft.ID, &draft.UserID, &payload, &draft.CreatedAt, &draft.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return types.WizardDraft{}, fmt.Errorf("draft not found: %w", err)
		}
		r.logger.ErrorContext(ctx, "Failed to get draft", slog.Any("error", err))
		return types.WizardDraft{}, fmt.Errorf("failed to get draft: %w", err)
	}
	if err := json.Unmarshal(payload, &draft.State); err != nil {
		return types.WizardDraft{}, fmt.Errorf("failed to unmarshal draft state: %w", err)
	}
	return draft, nil
}

func (r *RepositoryImpl) ListDrafts(ctx context.Context, userID uuid.UUID) ([]*types.WizardDraft, error) {
	query := `
        SELECT id, user_id, state, created_at, updated_at
        FROM trip_drafts
        WHERE user_id = $1
        ORDER BY updated_at DESC
    `
	rows, err := r.pgpool.Query(ctx, query, userID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list drafts", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var drafts []*types.WizardDraft
	for rows.Next() {
		var draft types.WizardDraft
		var payload []byte
		if err := rows.Scan(&draft.ID, &draft.UserID, &payload, &draft.CreatedAt, &draft.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		if err := json.Unmarshal(payload, &draft.State); err != nil {
			return nil, fmt.Errorf("failed to unmarshal draft state: %w", err)
		}
		drafts = append(drafts, &draft)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating draft rows: %w", err)
	}
	return drafts, nil
}

func (r *RepositoryImpl) DeleteDraft(ctx context.Context, draftID, userID uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM trip_drafts WHERE id = $1 AND user_id = $2`, draftID, userID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete draft", slog.Any("error", err))
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("draft not found")
	}
	return nil
}

// CommitTrip writes the wizard state as a real trip. The trip row, its day
// entries, and its talent assignments are replaced in one transaction so a
// half-saved trip can never be observed.
func (r *RepositoryImpl) CommitTrip(ctx context.Context, state types.WizardState) (types.Trip, error) {
	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return types.Trip{}, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	tripID := uuid.New()
	if state.TripID != nil {
		tripID = *state.TripID
	}

	query := `
        INSERT INTO trips (
            id, name, trip_type, status, start_date, end_date,
            ship_id, resort_id, description, hero_image_url, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        ON CONFLICT (id) DO UPDATE SET
            name = EXCLUDED.name, status = EXCLUDED.status,
            start_date = EXCLUDED.start_date, end_date = EXCLUDED.end_date,
            ship_id = EXCLUDED.ship_id, resort_id = EXCLUDED.resort_id,
            description = EXCLUDED.description, hero_image_url = EXCLUDED.hero_image_url,
            updated_at = EXCLUDED.updated_at
    `
	_, err = tx.Exec(ctx, query,
		tripID, state.Name, state.TripType, types.TripStatusDraft,
		state.Dates.Start.Time(), state.Dates.End.Time(),
		state.ShipID, state.ResortID, state.Description, state.HeroImageURL, now, now,
	)
	if err != nil {
		return types.Trip{}, fmt.Errorf("failed to upsert trip: %w", err)
	}

	if _, err = tx.Exec(ctx, `DELETE FROM day_entries WHERE trip_id = $1`, tripID); err != nil {
		return types.Trip{}, fmt.Errorf("failed to clear day entries: %w", err)
	}
	for _, entry := range state.Entries {
		_, err = tx.Exec(ctx, `
            INSERT INTO day_entries (
                id, trip_id, entry_date, day_number, description, image_url,
                port_name, arrival_time, departure_time, location_id, created_at, updated_at
            ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        `,
			entry.ID, tripID, entry.Date.Time(), entry.DayNumber, entry.Description, entry.ImageURL,
			entry.PortName, entry.ArrivalTime, entry.DepartureTime, entry.LocationID, now, now,
		)
		if err != nil {
			return types.Trip{}, fmt.Errorf("failed to insert day entry for %s: %w", entry.Date, err)
		}
	}

	if _, err = tx.Exec(ctx, `DELETE FROM trip_talent WHERE trip_id = $1`, tripID); err != nil {
		return types.Trip{}, fmt.Errorf("failed to clear talent assignments: %w", err)
	}
	for _, talentID := range state.TalentIDs {
		if _, err = tx.Exec(ctx,
			`INSERT INTO trip_talent (trip_id, talent_id) VALUES ($1, $2)`,
			tripID, talentID,
		); err != nil {
			return types.Trip{}, fmt.Errorf("failed to assign talent %s: %w", talentID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return types.Trip{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return types.Trip{
		ID:           tripID,
		Name:         state.Name,
		TripType:     state.TripType,
		Status:       types.TripStatusDraft,
		StartDate:    state.Dates.Start,
		EndDate:      state.Dates.End,
		ShipID:       state.ShipID,
		ResortID:     state.ResortID,
		Description:  state.Description,
		HeroImageURL: state.HeroImageURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// GetTripWithDays loads an existing trip into edit mode.
func (r *RepositoryImpl) GetTripWithDays(ctx context.Context, tripID uuid.UUID) (types.Trip, []types.DayEntry, error) {
	query := `
        SELECT id, name, trip_type, status, start_date, end_date,
               ship_id, resort_id, description, hero_image_url, created_at, updated_at
        FROM trips
        WHERE id = $1
    `
	var trip types.Trip
	var startDate, endDate time.Time
	err := r.pgpool.QueryRow(ctx, query, tripID).Scan(
		&trip.ID, &trip.Name, &trip.TripType, &trip.Status, &startDate, &endDate,
		&trip.ShipID, &trip.ResortID, &trip.Description, &trip.HeroImageURL, &trip.CreatedAt, &trip.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return types.Trip{}, nil, fmt.Errorf("trip not found: %w", err)
		}
		r.logger.ErrorContext(ctx, "Failed to get trip", slog.Any("error", err))
		return types.Trip{}, nil, fmt.Errorf("failed to get trip: %w", err)
	}
	trip.StartDate = types.DateOf(startDate)
	trip.EndDate = types.DateOf(endDate)

	rows, err := r.pgpool.Query(ctx, `
        SELECT id, trip_id, entry_date, day_number, description, image_url,
               port_name, arrival_time, departure_time, location_id, created_at, updated_at
        FROM day_entries
        WHERE trip_id = $1
        ORDER BY entry_date
    `, tripID)
	if err != nil {
		return types.Trip{}, nil, fmt.Errorf("failed to get day entries: %w", err)
	}
	defer rows.Close()

	var entries []types.DayEntry
	for rows.Next() {
		var entry types.DayEntry
		var entryDate time.Time
		if err := rows.Scan(
			&entry.ID, &entry.TripID, &entryDate, &entry.DayNumber, &entry.Description, &entry.ImageURL,
			&entry.PortName, &entry.ArrivalTime, &entry.DepartureTime, &entry.LocationID, &entry.CreatedAt, &entry.UpdatedAt,
		); err != nil {
			return types.Trip{}, nil, fmt.Errorf("failed to scan day entry: %w", err)
		}
		entry.Date = types.DateOf(entryDate)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return types.Trip{}, nil, fmt.Errorf("error iterating day entry rows: %w", err)
	}
	return trip, entries, nil
}
