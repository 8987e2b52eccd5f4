package trips

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/atlasvoyages/trip-console/app/observability/metrics"
	"github.com/atlasvoyages/trip-console/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	CreateTrip(ctx context.Context, trip types.Trip) error
	GetTrip(ctx context.Context, tripID uuid.UUID) (types.Trip, error)
	ListTrips(ctx context.Context, filter types.TripFilter) ([]*types.Trip, error)
	UpdateTrip(ctx context.Context, trip types.Trip) error
	DeleteTrip(ctx context.Context, tripID uuid.UUID) error
	GetTripStats(ctx context.Context) (types.TripStats, error)
	ListTripDays(ctx context.Context, tripID uuid.UUID) ([]types.DayEntry, error)
	ReplaceTripDays(ctx context.Context, tripID uuid.UUID, dates types.DateRange, entries []types.DayEntry) error
	SetTripTalent(ctx context.Context, tripID uuid.UUID, assignments []types.TripTalent) error
	ListTripTalent(ctx context.Context, tripID uuid.UUID) ([]*types.Talent, error)
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

func (r *RepositoryImpl) CreateTrip(ctx context.Context, trip types.Trip) error {
	query := `
        INSERT INTO trips (
            id, name, trip_type, status, start_date, end_date,
            ship_id, resort_id, description, hero_image_url, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `
	_, err := r.pgpool.Exec(ctx, query,
		trip.ID, trip.Name, trip.TripType, trip.Status,
		trip.StartDate.Time(), trip.EndDate.Time(),
		trip.ShipID, trip.ResortID, trip.Description, trip.HeroImageURL,
		trip.CreatedAt, trip.UpdatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert trip", slog.Any("error", err))
		return fmt.Errorf("failed to insert trip: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) GetTrip(ctx context.Context, tripID uuid.UUID) (types.Trip, error) {
	query := `
        SELECT id, name, trip_type, status, start_date, end_date,
               ship_id, resort_id, description, hero_image_url, created_at, updated_at
        FROM trips
        WHERE id = $1
    `
	trip, err := scanTrip(r.pgpool.QueryRow(ctx, query, tripID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return types.Trip{}, fmt.Errorf("trip %s: %w", tripID, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to get trip", slog.Any("error", err))
		return types.Trip{}, fmt.Errorf("failed to get trip: %w", err)
	}
	return trip, nil
}

// trackQuery records latency and error counts for a named query.
func trackQuery(ctx context.Context, name string, start time.Time, err error) {
	attrs := metric.WithAttributes(attribute.String("query", name))
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}

func (r *RepositoryImpl) ListTrips(ctx context.Context, filter types.TripFilter) (_ []*types.Trip, err error) {
	start := time.Now()
	defer func() { trackQuery(ctx, "trips.list", start, err) }()

	query := `
        SELECT id, name, trip_type, status, start_date, end_date,
               ship_id, resort_id, description, hero_image_url, created_at, updated_at
        FROM trips
        WHERE ($1::text IS NULL OR trip_type = $1)
          AND ($2::text IS NULL OR status = $2)
          AND ($3::int IS NULL OR EXTRACT(YEAR FROM start_date) = $3)
        ORDER BY start_date DESC
    `
	rows, err := r.pgpool.Query(ctx, query, filter.TripType, filter.Status, filter.Year)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list trips", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []*types.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, &trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trip rows: %w", err)
	}
	return trips, nil
}

func (r *RepositoryImpl) UpdateTrip(ctx context.Context, trip types.Trip) error {
	query := `
        UPDATE trips
        SET name = $2, status = $3, ship_id = $4, resort_id = $5,
            description = $6, hero_image_url = $7, updated_at = $8
        WHERE id = $1
    `
	tag, err := r.pgpool.Exec(ctx, query,
		trip.ID, trip.Name, trip.Status, trip.ShipID, trip.ResortID,
		trip.Description, trip.HeroImageURL, trip.UpdatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update trip", slog.Any("error", err))
		return fmt.Errorf("failed to update trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trip %s: %w", trip.ID, types.ErrNotFound)
	}
	return nil
}

func (r *RepositoryImpl) DeleteTrip(ctx context.Context, tripID uuid.UUID) error {
	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM day_entries WHERE trip_id = $1`, tripID); err != nil {
		return fmt.Errorf("failed to delete day entries: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM trip_talent WHERE trip_id = $1`, tripID); err != nil {
		return fmt.Errorf("failed to delete talent assignments: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM trips WHERE id = $1`, tripID)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trip %s: %w", tripID, types.ErrNotFound)
	}
	return tx.Commit(ctx)
}

func (r *RepositoryImpl) GetTripStats(ctx context.Context) (types.TripStats, error) {
	query := `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE trip_type = 'cruise'),
               COUNT(*) FILTER (WHERE trip_type = 'resort'),
               COUNT(*) FILTER (WHERE status = 'draft'),
               COUNT(*) FILTER (WHERE status = 'published'),
               COUNT(*) FILTER (WHERE status = 'archived')
        FROM trips
    `
	var stats types.TripStats
	err := r.pgpool.QueryRow(ctx, query).Scan(
		&stats.Total, &stats.Cruises, &stats.Resorts,
		&stats.Draft, &stats.Published, &stats.Archived,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to get trip stats", slog.Any("error", err))
		return types.TripStats{}, fmt.Errorf("failed to get trip stats: %w", err)
	}
	return stats, nil
}

func (r *RepositoryImpl) ListTripDays(ctx context.Context, tripID uuid.UUID) ([]types.DayEntry, error) {
	query := `
        SELECT id, trip_id, entry_date, day_number, description, image_url,
               port_name, arrival_time, departure_time, location_id, created_at, updated_at
        FROM day_entries
        WHERE trip_id = $1
        ORDER BY entry_date
    `
	rows, err := r.pgpool.Query(ctx, query, tripID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list day entries", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list day entries: %w", err)
	}
	defer rows.Close()

	var entries []types.DayEntry
	for rows.Next() {
		var entry types.DayEntry
		var entryDate time.Time
		if err := rows.Scan(
			&entry.ID, &entry.TripID, &entryDate, &entry.DayNumber, &entry.Description, &entry.ImageURL,
			&entry.PortName, &entry.ArrivalTime, &entry.DepartureTime, &entry.LocationID,
			&entry.CreatedAt, &entry.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan day entry: %w", err)
		}
		entry.Date = types.DateOf(entryDate)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating day entry rows: %w", err)
	}
	return entries, nil
}

// ReplaceTripDays swaps the trip's date range and its full day-entry set in
// one transaction. Callers resolve the new entry set through the diff engine
// before reaching the database.
func (r *RepositoryImpl) ReplaceTripDays(ctx context.Context, tripID uuid.UUID, dates types.DateRange, entries []types.DayEntry) (err error) {
	start := time.Now()
	defer func() { trackQuery(ctx, "trips.replace_days", start, err) }()

	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	tag, err := tx.Exec(ctx,
		`UPDATE trips SET start_date = $2, end_date = $3, updated_at = $4 WHERE id = $1`,
		tripID, dates.Start.Time(), dates.End.Time(), now,
	)
	if err != nil {
		return fmt.Errorf("failed to update trip dates: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trip %s: %w", tripID, types.ErrNotFound)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM day_entries WHERE trip_id = $1`, tripID); err != nil {
		return fmt.Errorf("failed to clear day entries: %w", err)
	}
	for _, entry := range entries {
		_, err := tx.Exec(ctx, `
            INSERT INTO day_entries (
                id, trip_id, entry_date, day_number, description, image_url,
                port_name, arrival_time, departure_time, location_id, created_at, updated_at
            ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        `,
			entry.ID, tripID, entry.Date.Time(), entry.DayNumber, entry.Description, entry.ImageURL,
			entry.PortName, entry.ArrivalTime, entry.DepartureTime, entry.LocationID, now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert day entry for %s: %w", entry.Date, err)
		}
	}
	return tx.Commit(ctx)
}

func (r *RepositoryImpl) SetTripTalent(ctx context.Context, tripID uuid.UUID, assignments []types.TripTalent) error {
	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM trip_talent WHERE trip_id = $1`, tripID); err != nil {
		return fmt.Errorf("failed to clear talent assignments: %w", err)
	}
	for _, a := range assignments {
		if _, err := tx.Exec(ctx,
			`INSERT INTO trip_talent (trip_id, talent_id, role, notes) VALUES ($1, $2, $3, $4)`,
			tripID, a.TalentID, a.Role, a.Notes,
		); err != nil {
			return fmt.Errorf("failed to assign talent %s: %w", a.TalentID, err)
		}
	}
	return tx.Commit(ctx)
}

func (r *RepositoryImpl) ListTripTalent(ctx context.Context, tripID uuid.UUID) ([]*types.Talent, error) {
	query := `
        SELECT t.id, t.name, t.category, t.bio, t.image_url, t.website, t.social, t.created_at, t.updated_at
        FROM talent t
        JOIN trip_talent tt ON tt.talent_id = t.id
        WHERE tt.trip_id = $1
        ORDER BY t.name
    `
	rows, err := r.pgpool.Query(ctx, query, tripID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list trip talent", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list trip talent: %w", err)
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

func scanTrip(row pgx.Row) (types.Trip, error) {
	var trip types.Trip
	var startDate, endDate time.Time
	err := row.Scan(
		&trip.ID, &trip.Name, &trip.TripType, &trip.Status, &startDate, &endDate,
		&trip.ShipID, &trip.ResortID, &trip.Description, &trip.HeroImageURL,
		&trip.CreatedAt, &trip.UpdatedAt,
	)
	if err != nil {
		return types.Trip{}, err
	}
	trip.StartDate = types.DateOf(startDate)
	trip.EndDate = types.DateOf(endDate)
	return trip, nil
}
