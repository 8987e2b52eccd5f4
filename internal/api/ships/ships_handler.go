package ships

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
	CreateShipHandler(w http.ResponseWriter, r *http.Request)
	GetShipHandler(w http.ResponseWriter, r *http.Request)
	ListShipsHandler(w http.ResponseWriter, r *http.Request)
	UpdateShipHandler(w http.ResponseWriter, r *http.Request)
	DeleteShipHandler(w http.ResponseWriter, r *http.Request)
	ListShipAmenitiesHandler(w http.ResponseWriter, r *http.Request)
	SetShipAmenitiesHandler(w http.ResponseWriter, r *http.Request)
	ListShipVenuesHandler(w http.ResponseWriter, r *http.Request)
	SetShipVenuesHandler(w http.ResponseWriter, r *http.Request)
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

// linkRequest is the body for the relationship PUT endpoints.
type linkRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

func (h *HandlerImpl) CreateShipHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ShipsHandler").Start(r.Context(), "CreateShip")
	defer span.End()
	l := h.logger.With(slog.String("handler", "CreateShipHandler"))

	var req types.CreateShipRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	ship := types.Ship{
		ID:         uuid.New(),
		Name:       req.Name,
		CruiseLine: req.CruiseLine,
		Capacity:   req.Capacity,
		Decks:      req.Decks,
		ImageURL:   req.ImageURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := h.repository.CreateShip(ctx, ship); err != nil {
		l.ErrorContext(ctx, "Failed to create ship", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create ship")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create ship")
		return
	}

	span.SetAttributes(attribute.String("ship.id", ship.ID.String()))
	span.SetStatus(codes.Ok, "Ship created")
	api.WriteJSONResponse(w, r, http.StatusCreated, ship)
}

func (h *HandlerImpl) GetShipHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ShipsHandler").Start(r.Context(), "GetShip")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetShipHandler"))

	shipID, ok := shipIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid ship ID")
		return
	}

	ship, err := h.repository.GetShip(ctx, shipID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Ship not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Ship not found")
			return
		}
		l.ErrorContext(ctx, "Failed to get ship", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to get ship")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get ship")
		return
	}

	span.SetStatus(codes.Ok, "Ship fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, ship)
}

func (h *HandlerImpl) ListShipsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ShipsHandler").Start(r.Context(), "ListShips")
	defer span.End()
	l := h.logger.With(slog.String("handler", "ListShipsHandler"))

	ships, err := h.repository.ListShips(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list ships", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list ships")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list ships")
		return
	}

	span.SetAttributes(attribute.Int("ships.count", len(ships)))
	span.SetStatus(codes.Ok, "Ships listed")
	api.WriteJSONResponse(w, r, http.StatusOK, ships)
}

func (h *HandlerImpl) UpdateShipHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ShipsHandler").Start(r.Context(), "UpdateShip")
	defer span.End()
	l := h.logger.With(slog.String("handler", "UpdateShipHandler"))

	shipID, ok := shipIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid ship ID")
		return
	}

	var req types.UpdateShipRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ship, err := h.repository.GetShip(ctx, shipID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Ship not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Ship not found")
			return
		}
		span.SetStatus(codes.Error, "Failed to get ship")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update ship")
		return
	}

	if req.Name != nil {
		ship.Name = *req.Name
	}
	if req.CruiseLine != nil {
		ship.CruiseLine = *req.CruiseLine
	}
	if req.Capacity != nil {
		ship.Capacity = *req.Capacity
	}
	if req.Decks != nil {
		ship.Decks = *req.Decks
	}
	if req.ImageURL != nil {
		ship.ImageURL = *req.ImageURL
	}
	ship.UpdatedAt = time.Now()

	if err := h.repository.UpdateShip(ctx, ship); err != nil {
		l.ErrorContext(ctx, "Failed to update ship", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update ship")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update ship")
		return
	}

	span.SetStatus(codes.Ok, "Ship updated")
	api.WriteJSONResponse(w, r, http.StatusOK, ship)
}

func (h *HandlerImpl) DeleteShipHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ShipsHandler").Start(r.Context(), "DeleteShip")
	defer span.End()
	l := h.logger.With(slog.String("handler", "DeleteShipHandler"))

	shipID, ok := shipIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid ship ID")
		return
	}

	if err := h.repository.DeleteShip(ctx, shipID); err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Ship not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Ship not found")
			return
		}
		l.ErrorContext(ctx, "Failed to delete ship", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to delete ship")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete ship")
		return
	}

	span.SetStatus(codes.Ok, "Ship deleted")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

func (h *HandlerImpl) ListShipAmenitiesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ShipsHandler").Start(r.Context(), "ListShipAmenities")
	defer span.End()
	l := h.logger.With(slog.String("handler", "ListShipAmenitiesHandler"))

	shipID, ok := shipIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid ship ID")
		return
	}

	amenities, err := h.repository.ListShipAmenities(ctx, shipID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list ship amenities", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list ship amenities")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list ship amenities")
		return
	}

	span.SetStatus(codes.Ok, "Amenities listed")
	api.WriteJSONResponse(w, r, http.StatusOK, amenities)
}

func (h *HandlerImpl) SetShipAmenitiesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ShipsHandler").Start(r.Context(), "SetShipAmenities")
	defer span.End()
	l := h.logger.With(slog.String("handler", "SetShipAmenitiesHandler"))

	shipID, ok := shipIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid ship ID")
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

	if _, err := h.repository.GetShip(ctx, shipID); err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Ship not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Ship not found")
			return
		}
		span.SetStatus(codes.Error, "Failed to get ship")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to set ship amenities")
		return
	}

	if err := h.repository.SetShipAmenities(ctx, shipID, req.IDs); err != nil {
		l.ErrorContext(ctx, "Failed to set ship amenities", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to set ship amenities")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to set ship amenities")
		return
	}

	span.SetAttributes(attribute.Int("amenities.count", len(req.IDs)))
	span.SetStatus(codes.Ok, "Amenities set")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

func (h *HandlerImpl) ListShipVenuesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ShipsHandler").Start(r.Context(), "ListShipVenues")
	defer span.End()
	l := h.logger.With(slog.String("handler", "ListShipVenuesHandler"))

	shipID, ok := shipIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid ship ID")
		return
	}

	venues, err := h.repository.ListShipVenues(ctx, shipID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list ship venues", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list ship venues")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list ship venues")
		return
	}

	span.SetStatus(codes.Ok, "Venues listed")
	api.WriteJSONResponse(w, r, http.StatusOK, venues)
}

func (h *HandlerImpl) SetShipVenuesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ShipsHandler").Start(r.Context(), "SetShipVenues")
	defer span.End()
	l := h.logger.With(slog.String("handler", "SetShipVenuesHandler"))

	shipID, ok := shipIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid ship ID")
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

	if _, err := h.repository.GetShip(ctx, shipID); err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Ship not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Ship not found")
			return
		}
		span.SetStatus(codes.Error, "Failed to get ship")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to set ship venues")
		return
	}

	if err := h.repository.SetShipVenues(ctx, shipID, req.IDs); err != nil {
		l.ErrorContext(ctx, "Failed to set ship venues", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to set ship venues")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to set ship venues")
		return
	}

	span.SetAttributes(attribute.Int("venues.count", len(req.IDs)))
	span.SetStatus(codes.Ok, "Venues set")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

func shipIDParam(w http.ResponseWriter, r *http.Request, l *slog.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "shipID")
	id, err := uuid.Parse(idStr)
	if err != nil {
		l.ErrorContext(r.Context(), "Invalid ship ID format", slog.String("shipID_str", idStr), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid ship ID format")
		return uuid.Nil, false
	}
	return id, true
}
