package locations

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/atlasvoyages/trip-console/internal/api"
	"github.com/atlasvoyages/trip-console/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	CreateLocationHandler(w http.ResponseWriter, r *http.Request)
	GetLocationHandler(w http.ResponseWriter, r *http.Request)
	ListLocationsHandler(w http.ResponseWriter, r *http.Request)
	UpdateLocationHandler(w http.ResponseWriter, r *http.Request)
	DeleteLocationHandler(w http.ResponseWriter, r *http.Request)
	GetLocationStatsHandler(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	logger     *slog.Logger
	repository Repository
}

func NewHandler(repo Repository, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:     logger,
		repository: repo,
	}
}

func (h *HandlerImpl) CreateLocationHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("LocationsHandler").Start(r.Context(), "CreateLocation")
	defer span.End()
	l := h.logger.With(slog.String("handler", "CreateLocationHandler"))

	var req types.CreateLocationRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	location := types.Location{
		ID:          uuid.New(),
		Name:        req.Name,
		Country:     req.Country,
		Region:      req.Region,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.repository.CreateLocation(ctx, location); err != nil {
		l.ErrorContext(ctx, "Failed to create location", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create location")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create location")
		return
	}

	span.SetAttributes(attribute.String("location.id", location.ID.String()))
	span.SetStatus(codes.Ok, "Location created")
	api.WriteJSONResponse(w, r, http.StatusCreated, location)
}

func (h *HandlerImpl) GetLocationHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("LocationsHandler").Start(r.Context(), "GetLocation")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetLocationHandler"))

	locationID, ok := locationIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid location ID")
		return
	}

	location, err := h.repository.GetLocation(ctx, locationID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Location not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Location not found")
			return
		}
		l.ErrorContext(ctx, "Failed to get location", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to get location")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get location")
		return
	}

	span.SetStatus(codes.Ok, "Location fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, location)
}

func (h *HandlerImpl) ListLocationsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("LocationsHandler").Start(r.Context(), "ListLocations")
	defer span.End()
	l := h.logger.With(slog.String("handler", "ListLocationsHandler"))

	locations, err := h.repository.ListLocations(ctx, r.URL.Query().Get("country"))
	if err != nil {
		l.ErrorContext(ctx, "Failed to list locations", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list locations")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list locations")
		return
	}

	span.SetAttributes(attribute.Int("locations.count", len(locations)))
	span.SetStatus(codes.Ok, "Locations listed")
	api.WriteJSONResponse(w, r, http.StatusOK, locations)
}

func (h *HandlerImpl) UpdateLocationHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("LocationsHandler").Start(r.Context(), "UpdateLocation")
	defer span.End()
	l := h.logger.With(slog.String("handler", "UpdateLocationHandler"))

	locationID, ok := locationIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid location ID")
		return
	}

	var req types.UpdateLocationRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	location, err := h.repository.GetLocation(ctx, locationID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Location not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Location not found")
			return
		}
		span.SetStatus(codes.Error, "Failed to get location")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update location")
		return
	}

	if req.Name != nil {
		location.Name = *req.Name
	}
	if req.Country != nil {
		location.Country = *req.Country
	}
	if req.Region != nil {
		location.Region = *req.Region
	}
	if req.Description != nil {
		location.Description = *req.Description
	}
	if req.ImageURL != nil {
		location.ImageURL = *req.ImageURL
	}
	location.UpdatedAt = time.Now()

	if err := h.repository.UpdateLocation(ctx, location); err != nil {
		l.ErrorContext(ctx, "Failed to update location", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update location")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update location")
		return
	}

	span.SetStatus(codes.Ok, "Location updated")
	api.WriteJSONResponse(w, r, http.StatusOK, location)
}

func (h *HandlerImpl) DeleteLocationHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("LocationsHandler").Start(r.Context(), "DeleteLocation")
	defer span.End()
	l := h.logger.With(slog.String("handler", "DeleteLocationHandler"))

	locationID, ok := locationIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid location ID")
		return
	}

	if err := h.repository.DeleteLocation(ctx, locationID); err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Location not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Location not found")
			return
		}
		l.ErrorContext(ctx, "Failed to delete location", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to delete location")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete location")
		return
	}

	span.SetStatus(codes.Ok, "Location deleted")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

func (h *HandlerImpl) GetLocationStatsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("LocationsHandler").Start(r.Context(), "GetLocationStats")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetLocationStatsHandler"))

	stats, err := h.repository.GetLocationStats(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to get location stats", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get stats")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get location stats")
		return
	}

	span.SetStatus(codes.Ok, "Stats fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, stats)
}

func locationIDParam(w http.ResponseWriter, r *http.Request, l *slog.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "locationID")
	id, err := uuid.Parse(idStr)
	if err != nil {
		l.ErrorContext(r.Context(), "Invalid location ID format", slog.String("locationID_str", idStr), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid location ID format")
		return uuid.Nil, false
	}
	return id, true
}
