package resorts

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
	CreateResortHandler(w http.ResponseWriter, r *http.Request)
	GetResortHandler(w http.ResponseWriter, r *http.Request)
	ListResortsHandler(w http.ResponseWriter, r *http.Request)
	UpdateResortHandler(w http.ResponseWriter, r *http.Request)
	DeleteResortHandler(w http.ResponseWriter, r *http.Request)
	ListResortAmenitiesHandler(w http.ResponseWriter, r *http.Request)
	SetResortAmenitiesHandler(w http.ResponseWriter, r *http.Request)
	ListResortVenuesHandler(w http.ResponseWriter, r *http.Request)
	SetResortVenuesHandler(w http.ResponseWriter, r *http.Request)
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

type linkRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

func (h *HandlerImpl) CreateResortHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ResortsHandler").Start(r.Context(), "CreateResort")
	defer span.End()
	l := h.logger.With(slog.String("handler", "CreateResortHandler"))

	var req types.CreateResortRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	resort := types.Resort{
		ID:          uuid.New(),
		Name:        req.Name,
		LocationID:  req.LocationID,
		RoomCount:   req.RoomCount,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.repository.CreateResort(ctx, resort); err != nil {
		l.ErrorContext(ctx, "Failed to create resort", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create resort")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create resort")
		return
	}

	span.SetAttributes(attribute.String("resort.id", resort.ID.String()))
	span.SetStatus(codes.Ok, "Resort created")
	api.WriteJSONResponse(w, r, http.StatusCreated, resort)
}

func (h *HandlerImpl) GetResortHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ResortsHandler").Start(r.Context(), "GetResort")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetResortHandler"))

	resortID, ok := resortIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid resort ID")
		return
	}

	resort, err := h.repository.GetResort(ctx, resortID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Resort not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Resort not found")
			return
		}
		l.ErrorContext(ctx, "Failed to get resort", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to get resort")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get resort")
		return
	}

	span.SetStatus(codes.Ok, "Resort fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, resort)
}

func (h *HandlerImpl) ListResortsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ResortsHandler").Start(r.Context(), "ListResorts")
	defer span.End()
	l := h.logger.With(slog.String("handler", "ListResortsHandler"))

	resorts, err := h.repository.ListResorts(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list resorts", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list resorts")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list resorts")
		return
	}

	span.SetAttributes(attribute.Int("resorts.count", len(resorts)))
	span.SetStatus(codes.Ok, "Resorts listed")
	api.WriteJSONResponse(w, r, http.StatusOK, resorts)
}

func (h *HandlerImpl) UpdateResortHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ResortsHandler").Start(r.Context(), "UpdateResort")
	defer span.End()
	l := h.logger.With(slog.String("handler", "UpdateResortHandler"))

	resortID, ok := resortIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid resort ID")
		return
	}

	var req types.UpdateResortRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resort, err := h.repository.GetResort(ctx, resortID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Resort not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Resort not found")
			return
		}
		span.SetStatus(codes.Error, "Failed to get resort")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update resort")
		return
	}

	if req.Name != nil {
		resort.Name = *req.Name
	}
	if req.LocationID != nil {
		resort.LocationID = req.LocationID
	}
	if req.RoomCount != nil {
		resort.RoomCount = *req.RoomCount
	}
	if req.Description != nil {
		resort.Description = *req.Description
	}
	if req.ImageURL != nil {
		resort.ImageURL = *req.ImageURL
	}
	resort.UpdatedAt = time.Now()

	if err := h.repository.UpdateResort(ctx, resort); err != nil {
		l.ErrorContext(ctx, "Failed to update resort", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update resort")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update resort")
		return
	}

	span.SetStatus(codes.Ok, "Resort updated")
	api.WriteJSONResponse(w, r, http.StatusOK, resort)
}

func (h *HandlerImpl) DeleteResortHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ResortsHandler").Start(r.Context(), "DeleteResort")
	defer span.End()
	l := h.logger.With(slog.String("handler", "DeleteResortHandler"))

	resortID, ok := resortIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid resort ID")
		return
	}

	if err := h.repository.DeleteResort(ctx, resortID); err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Resort not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Resort not found")
			return
		}
		l.ErrorContext(ctx, "Failed to delete resort", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to delete resort")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete resort")
		return
	}

	span.SetStatus(codes.Ok, "Resort deleted")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

func (h *HandlerImpl) ListResortAmenitiesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ResortsHandler").Start(r.Context(), "ListResortAmenities")
	defer span.End()
	l := h.logger.With(slog.String("handler", "ListResortAmenitiesHandler"))

	resortID, ok := resortIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid resort ID")
		return
	}

	amenities, err := h.repository.ListResortAmenities(ctx, resortID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list resort amenities", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list resort amenities")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list resort amenities")
		return
	}

	span.SetStatus(codes.Ok, "Amenities listed")
	api.WriteJSONResponse(w, r, http.StatusOK, amenities)
}

func (h *HandlerImpl) SetResortAmenitiesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ResortsHandler").Start(r.Context(), "SetResortAmenities")
	defer span.End()
	l := h.logger.With(slog.String("handler", "SetResortAmenitiesHandler"))

	resortID, ok := resortIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid resort ID")
		return
	}

	var req linkRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.repository.GetResort(ctx, resortID); err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Resort not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Resort not found")
			return
		}
		span.SetStatus(codes.Error, "Failed to get resort")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to set resort amenities")
		return
	}

	if err := h.repository.SetResortAmenities(ctx, resortID, req.IDs); err != nil {
		l.ErrorContext(ctx, "Failed to set resort amenities", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to set resort amenities")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to set resort amenities")
		return
	}

	span.SetAttributes(attribute.Int("amenities.count", len(req.IDs)))
	span.SetStatus(codes.Ok, "Amenities set")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

func (h *HandlerImpl) ListResortVenuesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ResortsHandler").Start(r.Context(), "ListResortVenues")
	defer span.End()
	l := h.logger.With(slog.String("handler", "ListResortVenuesHandler"))

	resortID, ok := resortIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid resort ID")
		return
	}

	venues, err := h.repository.ListResortVenues(ctx, resortID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list resort venues", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list resort venues")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list resort venues")
		return
	}

	span.SetStatus(codes.Ok, "Venues listed")
	api.WriteJSONResponse(w, r, http.StatusOK, venues)
}

func (h *HandlerImpl) SetResortVenuesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ResortsHandler").Start(r.Context(), "SetResortVenues")
	defer span.End()
	l := h.logger.With(slog.String("handler", "SetResortVenuesHandler"))

	resortID, ok := resortIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid resort ID")
		return
	}

	var req linkRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.repository.GetResort(ctx, resortID); err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Resort not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Resort not found")
			return
		}
		span.SetStatus(codes.Error, "Failed to get resort")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to set resort venues")
		return
	}

	if err := h.repository.SetResortVenues(ctx, resortID, req.IDs); err != nil {
		l.ErrorContext(ctx, "Failed to set resort venues", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to set resort venues")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to set resort venues")
		return
	}

	span.SetAttributes(attribute.Int("venues.count", len(req.IDs)))
	span.SetStatus(codes.Ok, "Venues set")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

func resortIDParam(w http.ResponseWriter, r *http.Request, l *slog.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "resortID")
	id, err := uuid.Parse(idStr)
	if err != nil {
		l.ErrorContext(r.Context(), "Invalid resort ID format", slog.String("resortID_str", idStr), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid resort ID format")
		return uuid.Nil, false
	}
	return id, true
}
