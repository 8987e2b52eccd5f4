package amenities

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
	CreateAmenityHandler(w http.ResponseWriter, r *http.Request)
	GetAmenityHandler(w http.ResponseWriter, r *http.Request)
	ListAmenitiesHandler(w http.ResponseWriter, r *http.Request)
	UpdateAmenityHandler(w http.ResponseWriter, r *http.Request)
	DeleteAmenityHandler(w http.ResponseWriter, r *http.Request)
	GetAmenityStatsHandler(w http.ResponseWriter, r *http.Request)
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

func (h *HandlerImpl) CreateAmenityHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AmenitiesHandler").Start(r.Context(), "CreateAmenity")
	defer span.End()
	l := h.logger.With(slog.String("handler", "CreateAmenityHandler"))

	var req types.CreateAmenityRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	amenity := types.Amenity{
		ID:          uuid.New(),
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.repository.CreateAmenity(ctx, amenity); err != nil {
		l.ErrorContext(ctx, "Failed to create amenity", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create amenity")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create amenity")
		return
	}

	span.SetAttributes(attribute.String("amenity.id", amenity.ID.String()))
	span.SetStatus(codes.Ok, "Amenity created")
	api.WriteJSONResponse(w, r, http.StatusCreated, amenity)
}

func (h *HandlerImpl) GetAmenityHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AmenitiesHandler").Start(r.Context(), "GetAmenity")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetAmenityHandler"))

	amenityID, ok := amenityIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid amenity ID")
		return
	}

	amenity, err := h.repository.GetAmenity(ctx, amenityID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Amenity not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Amenity not found")
			return
		}
		l.ErrorContext(ctx, "Failed to get amenity", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to get amenity")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get amenity")
		return
	}

	span.SetStatus(codes.Ok, "Amenity fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, amenity)
}

func (h *HandlerImpl) ListAmenitiesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AmenitiesHandler").Start(r.Context(), "ListAmenities")
	defer span.End()
	l := h.logger.With(slog.String("handler", "ListAmenitiesHandler"))

	amenities, err := h.repository.ListAmenities(ctx, r.URL.Query().Get("category"))
	if err != nil {
		l.ErrorContext(ctx, "Failed to list amenities", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list amenities")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list amenities")
		return
	}

	span.SetAttributes(attribute.Int("amenities.count", len(amenities)))
	span.SetStatus(codes.Ok, "Amenities listed")
	api.WriteJSONResponse(w, r, http.StatusOK, amenities)
}

func (h *HandlerImpl) UpdateAmenityHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AmenitiesHandler").Start(r.Context(), "UpdateAmenity")
	defer span.End()
	l := h.logger.With(slog.String("handler", "UpdateAmenityHandler"))

	amenityID, ok := amenityIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid amenity ID")
		return
	}

	var req types.UpdateAmenityRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	amenity, err := h.repository.GetAmenity(ctx, amenityID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Amenity not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Amenity not found")
			return
		}
		span.SetStatus(codes.Error, "Failed to get amenity")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update amenity")
		return
	}

	if req.Name != nil {
		amenity.Name = *req.Name
	}
	if req.Category != nil {
		amenity.Category = *req.Category
	}
	if req.Description != nil {
		amenity.Description = *req.Description
	}
	amenity.UpdatedAt = time.Now()

	if err := h.repository.UpdateAmenity(ctx, amenity); err != nil {
		l.ErrorContext(ctx, "Failed to update amenity", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update amenity")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update amenity")
		return
	}

	span.SetStatus(codes.Ok, "Amenity updated")
	api.WriteJSONResponse(w, r, http.StatusOK, amenity)
}

func (h *HandlerImpl) DeleteAmenityHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AmenitiesHandler").Start(r.Context(), "DeleteAmenity")
	defer span.End()
	l := h.logger.With(slog.String("handler", "DeleteAmenityHandler"))

	amenityID, ok := amenityIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid amenity ID")
		return
	}

	if err := h.repository.DeleteAmenity(ctx, amenityID); err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Amenity not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Amenity not found")
			return
		}
		l.ErrorContext(ctx, "Failed to delete amenity", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to delete amenity")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete amenity")
		return
	}

	span.SetStatus(codes.Ok, "Amenity deleted")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

func (h *HandlerImpl) GetAmenityStatsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AmenitiesHandler").Start(r.Context(), "GetAmenityStats")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetAmenityStatsHandler"))

	stats, err := h.repository.GetAmenityStats(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to get amenity stats", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get stats")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get amenity stats")
		return
	}

	span.SetStatus(codes.Ok, "Stats fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, stats)
}

func amenityIDParam(w http.ResponseWriter, r *http.Request, l *slog.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "amenityID")
	id, err := uuid.Parse(idStr)
	if err != nil {
		l.ErrorContext(r.Context(), "Invalid amenity ID format", slog.String("amenityID_str", idStr), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid amenity ID format")
		return uuid.Nil, false
	}
	return id, true
}
