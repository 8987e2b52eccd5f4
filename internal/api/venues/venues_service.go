package venues

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/atlasvoyages/trip-console/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	CreateVenue(ctx context.Context, req types.CreateVenueRequest) (types.Venue, error)
	GetVenue(ctx context.Context, venueID uuid.UUID) (types.Venue, error)
	ListVenues(ctx context.Context, venueTypeID *uuid.UUID) ([]*types.Venue, error)
	UpdateVenue(ctx context.Context, venueID uuid.UUID, req types.UpdateVenueRequest) (types.Venue, error)
	DeleteVenue(ctx context.Context, venueID uuid.UUID) error
	ListVenueTypes(ctx context.Context) ([]*types.VenueType, error)
}

const (
	venueTypesCacheKey = "venue_types"
	venueTypesTTL      = 15 * time.Minute
)

// ServiceImpl serves venue CRUD and keeps the small, rarely changing
// venue-type list behind a read-through cache.
type ServiceImpl struct {
	logger     *slog.Logger
	repository Repository
	cache      *cache.Cache
}

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		repository: repo,
		cache:      cache.New(venueTypesTTL, 30*time.Minute),
	}
}

func (s *ServiceImpl) CreateVenue(ctx context.Context, req types.CreateVenueRequest) (types.Venue, error) {
	ctx, span := otel.Tracer("VenuesService").Start(ctx, "CreateVenue", trace.WithAttributes(
		attribute.String("venue.name", req.Name),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "CreateVenue"))

	now := time.Now()
	venue := types.Venue{
		ID:          uuid.New(),
		Name:        req.Name,
		VenueTypeID: req.VenueTypeID,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repository.CreateVenue(ctx, venue); err != nil {
		l.ErrorContext(ctx, "Failed to create venue", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create venue")
		return types.Venue{}, err
	}

	l.InfoContext(ctx, "Venue created", slog.String("venueID", venue.ID.String()))
	span.SetStatus(codes.Ok, "Venue created")
	return venue, nil
}

func (s *ServiceImpl) GetVenue(ctx context.Context, venueID uuid.UUID) (types.Venue, error) {
	ctx, span := otel.Tracer("VenuesService").Start(ctx, "GetVenue", trace.WithAttributes(
		attribute.String("venue.id", venueID.String()),
	))
	defer span.End()

	venue, err := s.repository.GetVenue(ctx, venueID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get venue")
		return types.Venue{}, err
	}
	span.SetStatus(codes.Ok, "Venue fetched")
	return venue, nil
}

func (s *ServiceImpl) ListVenues(ctx context.Context, venueTypeID *uuid.UUID) ([]*types.Venue, error) {
	ctx, span := otel.Tracer("VenuesService").Start(ctx, "ListVenues")
	defer span.End()

	venues, err := s.repository.ListVenues(ctx, venueTypeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list venues")
		return nil, err
	}
	span.SetAttributes(attribute.Int("venues.count", len(venues)))
	span.SetStatus(codes.Ok, "Venues listed")
	return venues, nil
}

func (s *ServiceImpl) UpdateVenue(ctx context.Context, venueID uuid.UUID, req types.UpdateVenueRequest) (types.Venue, error) {
	ctx, span := otel.Tracer("VenuesService").Start(ctx, "UpdateVenue", trace.WithAttributes(
		attribute.String("venue.id", venueID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "UpdateVenue"), slog.String("venueID", venueID.String()))

	venue, err := s.repository.GetVenue(ctx, venueID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Venue not found")
		return types.Venue{}, err
	}

	if req.Name != nil {
		venue.Name = *req.Name
	}
	if req.VenueTypeID != nil {
		venue.VenueTypeID = *req.VenueTypeID
	}
	if req.Description != nil {
		venue.Description = *req.Description
	}
	if req.ImageURL != nil {
		venue.ImageURL = *req.ImageURL
	}
	venue.UpdatedAt = time.Now()

	if err := s.repository.UpdateVenue(ctx, venue); err != nil {
		l.ErrorContext(ctx, "Failed to update venue", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update venue")
		return types.Venue{}, err
	}

	span.SetStatus(codes.Ok, "Venue updated")
	return venue, nil
}

func (s *ServiceImpl) DeleteVenue(ctx context.Context, venueID uuid.UUID) error {
	ctx, span := otel.Tracer("VenuesService").Start(ctx, "DeleteVenue", trace.WithAttributes(
		attribute.String("venue.id", venueID.String()),
	))
	defer span.End()

	if err := s.repository.DeleteVenue(ctx, venueID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete venue")
		return err
	}
	span.SetStatus(codes.Ok, "Venue deleted")
	return nil
}

// ListVenueTypes serves from the cache when warm, hitting the database only
// on a miss or after the TTL lapses.
func (s *ServiceImpl) ListVenueTypes(ctx context.Context) ([]*types.VenueType, error) {
	ctx, span := otel.Tracer("VenuesService").Start(ctx, "ListVenueTypes")
	defer span.End()

	if cached, found := s.cache.Get(venueTypesCacheKey); found {
		if venueTypes, ok := cached.([]*types.VenueType); ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			span.SetStatus(codes.Ok, "Venue types from cache")
			return venueTypes, nil
		}
	}

	venueTypes, err := s.repository.ListVenueTypes(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list venue types")
		return nil, err
	}
	s.cache.Set(venueTypesCacheKey, venueTypes, cache.DefaultExpiration)

	span.SetAttributes(attribute.Bool("cache.hit", false), attribute.Int("venue_types.count", len(venueTypes)))
	span.SetStatus(codes.Ok, "Venue types listed")
	return venueTypes, nil
}
