package venues

import (
	"errors"
	"log/slog"
	"net/http"

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
	CreateVenueHandler(w http.ResponseWriter, r *http.Request)
	GetVenueHandler(w http.ResponseWriter, r *http.Request)
	ListVenuesHandler(w http.ResponseWriter, r *http.Request)
	UpdateVenueHandler(w http.ResponseWriter, r *http.Request)
	DeleteVenueHandler(w http.ResponseWriter, r *http.Request)
	ListVenueTypesHandler(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	logger  *slog.Logger
	service Service
}

func NewHandler(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:  logger,
		service: service,
	}
}

func (h *HandlerImpl) CreateVenueHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("VenuesHandler").Start(r.Context(), "CreateVenue")
	defer span.End()
	l := h.logger.With(slog.String("handler", "CreateVenueHandler"))

	var req types.CreateVenueRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	venue, err := h.service.CreateVenue(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create venue", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create venue")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create venue")
		return
	}

	span.SetAttributes(attribute.String("venue.id", venue.ID.String()))
	span.SetStatus(codes.Ok, "Venue created")
	api.WriteJSONResponse(w, r, http.StatusCreated, venue)
}

func (h *HandlerImpl) GetVenueHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("VenuesHandler").Start(r.Context(), "GetVenue")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetVenueHandler"))

	venueID, ok := venueIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid venue ID")
		return
	}

	venue, err := h.service.GetVenue(ctx, venueID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Venue not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Venue not found")
			return
		}
		l.ErrorContext(ctx, "Failed to get venue", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to get venue")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get venue")
		return
	}

	span.SetStatus(codes.Ok, "Venue fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, venue)
}

func (h *HandlerImpl) ListVenuesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("VenuesHandler").Start(r.Context(), "ListVenues")
	defer span.End()
	l := h.logger.With(slog.String("handler", "ListVenuesHandler"))

	var venueTypeID *uuid.UUID
	if v := r.URL.Query().Get("venue_type_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid venue_type_id filter")
			return
		}
		venueTypeID = &id
	}

	venues, err := h.service.ListVenues(ctx, venueTypeID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list venues", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list venues")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list venues")
		return
	}

	span.SetAttributes(attribute.Int("venues.count", len(venues)))
	span.SetStatus(codes.Ok, "Venues listed")
	api.WriteJSONResponse(w, r, http.StatusOK, venues)
}

func (h *HandlerImpl) UpdateVenueHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("VenuesHandler").Start(r.Context(), "UpdateVenue")
	defer span.End()
	l := h.logger.With(slog.String("handler", "UpdateVenueHandler"))

	venueID, ok := venueIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid venue ID")
		return
	}

	var req types.UpdateVenueRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	venue, err := h.service.UpdateVenue(ctx, venueID, req)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Venue not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Venue not found")
			return
		}
		l.ErrorContext(ctx, "Failed to update venue", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to update venue")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update venue")
		return
	}

	span.SetStatus(codes.Ok, "Venue updated")
	api.WriteJSONResponse(w, r, http.StatusOK, venue)
}

func (h *HandlerImpl) DeleteVenueHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("VenuesHandler").Start(r.Context(), "DeleteVenue")
	defer span.End()
	l := h.logger.With(slog.String("handler", "DeleteVenueHandler"))

	venueID, ok := venueIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid venue ID")
		return
	}

	if err := h.service.DeleteVenue(ctx, venueID); err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Venue not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Venue not found")
			return
		}
		l.ErrorContext(ctx, "Failed to delete venue", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to delete venue")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete venue")
		return
	}

	span.SetStatus(codes.Ok, "Venue deleted")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

func (h *HandlerImpl) ListVenueTypesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("VenuesHandler").Start(r.Context(), "ListVenueTypes")
	defer span.End()
	l := h.logger.With(slog.String("handler", "ListVenueTypesHandler"))

	venueTypes, err := h.service.ListVenueTypes(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list venue types", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list venue types")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list venue types")
		return
	}

	span.SetStatus(codes.Ok, "Venue types listed")
	api.WriteJSONResponse(w, r, http.StatusOK, venueTypes)
}

func venueIDParam(w http.ResponseWriter, r *http.Request, l *slog.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "venueID")
	id, err := uuid.Parse(idStr)
	if err != nil {
		l.ErrorContext(r.Context(), "Invalid venue ID format", slog.String("venueID_str", idStr), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid venue ID format")
		return uuid.Nil, false
	}
	return id, true
}
