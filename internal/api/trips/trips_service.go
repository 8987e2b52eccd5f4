package trips

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/atlasvoyages/trip-console/internal/api/daysync"
	"github.com/atlasvoyages/trip-console/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	CreateTrip(ctx context.Context, req types.CreateTripRequest) (types.Trip, error)
	GetTrip(ctx context.Context, tripID uuid.UUID) (types.TripWithDays, error)
	ListTrips(ctx context.Context, filter types.TripFilter) ([]*types.Trip, error)
	UpdateTrip(ctx context.Context, tripID uuid.UUID, req types.UpdateTripRequest) (types.Trip, error)
	DeleteTrip(ctx context.Context, tripID uuid.UUID) error
	GetTripStats(ctx context.Context) (types.TripStats, error)
	ChangeTripDates(ctx context.Context, tripID uuid.UUID, newRange types.DateRange, confirm daysync.ConfirmFunc) (types.TripWithDays, error)
	SetTripTalent(ctx context.Context, tripID uuid.UUID, assignments []types.TripTalent) error
	GetTripTalent(ctx context.Context, tripID uuid.UUID) ([]*types.Talent, error)
}

type ServiceImpl struct {
	logger     *slog.Logger
	repository Repository
}

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		repository: repo,
	}
}

func (s *ServiceImpl) CreateTrip(ctx context.Context, req types.CreateTripRequest) (types.Trip, error) {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "CreateTrip", trace.WithAttributes(
		attribute.String("trip.name", req.Name),
		attribute.String("trip.type", string(req.TripType)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "CreateTrip"))

	dates := types.DateRange{Start: req.StartDate, End: req.EndDate}
	if err := dates.Validate(); err != nil {
		span.SetStatus(codes.Error, "Invalid date range")
		return types.Trip{}, fmt.Errorf("%w: %v", daysync.ErrInvalidRange, err)
	}

	now := time.Now()
	trip := types.Trip{
		ID:           uuid.New(),
		Name:         req.Name,
		TripType:     req.TripType,
		Status:       types.TripStatusDraft,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		ShipID:       req.ShipID,
		ResortID:     req.ResortID,
		Description:  req.Description,
		HeroImageURL: req.HeroImageURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repository.CreateTrip(ctx, trip); err != nil {
		l.ErrorContext(ctx, "Failed to create trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create trip")
		return types.Trip{}, err
	}

	// A freshly created trip gets one empty entry per main-range day.
	entries := make([]types.DayEntry, 0, dates.Days())
	for i := 0; i < dates.Days(); i++ {
		entries = append(entries, types.DayEntry{
			ID:        uuid.New(),
			TripID:    trip.ID,
			Date:      dates.Start.AddDays(i),
			DayNumber: i + 1,
		})
	}
	if err := s.repository.ReplaceTripDays(ctx, trip.ID, dates, entries); err != nil {
		l.ErrorContext(ctx, "Failed to seed day entries", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to seed day entries")
		return types.Trip{}, err
	}

	l.InfoContext(ctx, "Trip created", slog.String("tripID", trip.ID.String()))
	span.SetAttributes(attribute.String("trip.id", trip.ID.String()))
	span.SetStatus(codes.Ok, "Trip created")
	return trip, nil
}

func (s *ServiceImpl) GetTrip(ctx context.Context, tripID uuid.UUID) (types.TripWithDays, error) {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "GetTrip", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	trip, err := s.repository.GetTrip(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get trip")
		return types.TripWithDays{}, err
	}
	entries, err := s.repository.ListTripDays(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get day entries")
		return types.TripWithDays{}, err
	}

	days := make([]*types.DayEntry, len(entries))
	for i := range entries {
		days[i] = &entries[i]
	}
	span.SetStatus(codes.Ok, "Trip fetched")
	return types.TripWithDays{Trip: trip, Days: days}, nil
}

func (s *ServiceImpl) ListTrips(ctx context.Context, filter types.TripFilter) ([]*types.Trip, error) {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "ListTrips")
	defer span.End()

	trips, err := s.repository.ListTrips(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list trips")
		return nil, err
	}
	span.SetAttributes(attribute.Int("trips.count", len(trips)))
	span.SetStatus(codes.Ok, "Trips listed")
	return trips, nil
}

func (s *ServiceImpl) UpdateTrip(ctx context.Context, tripID uuid.UUID, req types.UpdateTripRequest) (types.Trip, error) {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "UpdateTrip", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "UpdateTrip"), slog.String("tripID", tripID.String()))

	trip, err := s.repository.GetTrip(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip not found")
		return types.Trip{}, err
	}

	if req.Name != nil {
		trip.Name = *req.Name
	}
	if req.Status != nil {
		trip.Status = *req.Status
	}
	if req.ShipID != nil {
		trip.ShipID = req.ShipID
	}
	if req.ResortID != nil {
		trip.ResortID = req.ResortID
	}
	if req.Description != nil {
		trip.Description = *req.Description
	}
	if req.HeroImageURL != nil {
		trip.HeroImageURL = *req.HeroImageURL
	}
	trip.UpdatedAt = time.Now()

	if err := s.repository.UpdateTrip(ctx, trip); err != nil {
		l.ErrorContext(ctx, "Failed to update trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update trip")
		return types.Trip{}, err
	}

	l.InfoContext(ctx, "Trip updated")
	span.SetStatus(codes.Ok, "Trip updated")
	return trip, nil
}

func (s *ServiceImpl) DeleteTrip(ctx context.Context, tripID uuid.UUID) error {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "DeleteTrip", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "DeleteTrip"), slog.String("tripID", tripID.String()))

	if err := s.repository.DeleteTrip(ctx, tripID); err != nil {
		l.ErrorContext(ctx, "Failed to delete trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete trip")
		return err
	}

	l.InfoContext(ctx, "Trip deleted")
	span.SetStatus(codes.Ok, "Trip deleted")
	return nil
}

func (s *ServiceImpl) GetTripStats(ctx context.Context) (types.TripStats, error) {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "GetTripStats")
	defer span.End()

	stats, err := s.repository.GetTripStats(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get trip stats")
		return types.TripStats{}, err
	}
	span.SetStatus(codes.Ok, "Stats fetched")
	return stats, nil
}

// ChangeTripDates re-synchronizes a saved trip's day entries to a new date
// range through the diff engine, then persists dates and entries atomically.
// The database is only touched after the confirmation has resolved.
func (s *ServiceImpl) ChangeTripDates(ctx context.Context, tripID uuid.UUID, newRange types.DateRange, confirm daysync.ConfirmFunc) (types.TripWithDays, error) {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "ChangeTripDates", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
		attribute.String("range.start", newRange.Start.String()),
		attribute.String("range.end", newRange.End.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "ChangeTripDates"), slog.String("tripID", tripID.String()))

	trip, err := s.repository.GetTrip(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip not found")
		return types.TripWithDays{}, err
	}
	entries, err := s.repository.ListTripDays(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load day entries")
		return types.TripWithDays{}, err
	}

	updated, err := daysync.ApplyDateChange(ctx, trip.DateRange(), newRange, entries, confirm)
	if err != nil {
		l.WarnContext(ctx, "Date change not applied", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Date change not applied")
		return types.TripWithDays{}, err
	}

	if err := s.repository.ReplaceTripDays(ctx, tripID, newRange, updated); err != nil {
		l.ErrorContext(ctx, "Failed to persist date change", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to persist date change")
		return types.TripWithDays{}, err
	}

	trip.StartDate = newRange.Start
	trip.EndDate = newRange.End
	days := make([]*types.DayEntry, len(updated))
	for i := range updated {
		days[i] = &updated[i]
	}

	l.InfoContext(ctx, "Trip dates changed",
		slog.String("start", newRange.Start.String()),
		slog.String("end", newRange.End.String()),
		slog.Int("entries", len(updated)))
	span.SetStatus(codes.Ok, "Dates changed")
	return types.TripWithDays{Trip: trip, Days: days}, nil
}

func (s *ServiceImpl) SetTripTalent(ctx context.Context, tripID uuid.UUID, assignments []types.TripTalent) error {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "SetTripTalent", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
		attribute.Int("talent.count", len(assignments)),
	))
	defer span.End()

	if _, err := s.repository.GetTrip(ctx, tripID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip not found")
		return err
	}
	if err := s.repository.SetTripTalent(ctx, tripID, assignments); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to set trip talent")
		return err
	}
	span.SetStatus(codes.Ok, "Talent assigned")
	return nil
}

func (s *ServiceImpl) GetTripTalent(ctx context.Context, tripID uuid.UUID) ([]*types.Talent, error) {
	ctx, span := otel.Tracer("TripsService").Start(ctx, "GetTripTalent", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	roster, err := s.repository.ListTripTalent(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get trip talent")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Talent fetched")
	return roster, nil
}
