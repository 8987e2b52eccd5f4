package trips

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/atlasvoyages/trip-console/internal/api"
	"github.com/atlasvoyages/trip-console/internal/api/daysync"
	"github.com/atlasvoyages/trip-console/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	CreateTripHandler(w http.ResponseWriter, r *http.Request)
	GetTripHandler(w http.ResponseWriter, r *http.Request)
	ListTripsHandler(w http.ResponseWriter, r *http.Request)
	UpdateTripHandler(w http.ResponseWriter, r *http.Request)
	DeleteTripHandler(w http.ResponseWriter, r *http.Request)
	GetTripStatsHandler(w http.ResponseWriter, r *http.Request)
	ChangeTripDatesHandler(w http.ResponseWriter, r *http.Request)
	SetTripTalentHandler(w http.ResponseWriter, r *http.Request)
	GetTripTalentHandler(w http.ResponseWriter, r *http.Request)
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

func (h *HandlerImpl) CreateTripHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripsHandler").Start(r.Context(), "CreateTrip")
	defer span.End()
	l := h.logger.With(slog.String("handler", "CreateTripHandler"))

	var req types.CreateTripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	trip, err := h.service.CreateTrip(ctx, req)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, daysync.ErrInvalidRange) {
			span.SetStatus(codes.Error, "Invalid range")
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to create trip", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to create trip")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create trip")
		return
	}

	span.SetAttributes(attribute.String("trip.id", trip.ID.String()))
	span.SetStatus(codes.Ok, "Trip created")
	api.WriteJSONResponse(w, r, http.StatusCreated, trip)
}

func (h *HandlerImpl) GetTripHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripsHandler").Start(r.Context(), "GetTrip")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetTripHandler"))

	tripID, ok := tripIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid trip ID")
		return
	}

	trip, err := h.service.GetTrip(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Trip not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
			return
		}
		l.ErrorContext(ctx, "Failed to get trip", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to get trip")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get trip")
		return
	}

	span.SetStatus(codes.Ok, "Trip fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, trip)
}

func (h *HandlerImpl) ListTripsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripsHandler").Start(r.Context(), "ListTrips")
	defer span.End()
	l := h.logger.With(slog.String("handler", "ListTripsHandler"))

	var filter types.TripFilter
	q := r.URL.Query()
	if v := q.Get("trip_type"); v != "" {
		tt := types.TripType(v)
		if tt != types.TripTypeCruise && tt != types.TripTypeResort {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip_type filter")
			return
		}
		filter.TripType = &tt
	}
	if v := q.Get("status"); v != "" {
		st := types.TripStatus(v)
		filter.Status = &st
	}
	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid year filter")
			return
		}
		filter.Year = &year
	}

	trips, err := h.service.ListTrips(ctx, filter)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list trips", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list trips")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list trips")
		return
	}

	span.SetAttributes(attribute.Int("trips.count", len(trips)))
	span.SetStatus(codes.Ok, "Trips listed")
	api.WriteJSONResponse(w, r, http.StatusOK, trips)
}

func (h *HandlerImpl) UpdateTripHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripsHandler").Start(r.Context(), "UpdateTrip")
	defer span.End()
	l := h.logger.With(slog.String("handler", "UpdateTripHandler"))

	tripID, ok := tripIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid trip ID")
		return
	}

	var req types.UpdateTripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	trip, err := h.service.UpdateTrip(ctx, tripID, req)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Trip not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
			return
		}
		l.ErrorContext(ctx, "Failed to update trip", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to update trip")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update trip")
		return
	}

	span.SetStatus(codes.Ok, "Trip updated")
	api.WriteJSONResponse(w, r, http.StatusOK, trip)
}

func (h *HandlerImpl) DeleteTripHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripsHandler").Start(r.Context(), "DeleteTrip")
	defer span.End()
	l := h.logger.With(slog.String("handler", "DeleteTripHandler"))

	tripID, ok := tripIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid trip ID")
		return
	}

	if err := h.service.DeleteTrip(ctx, tripID); err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Trip not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
			return
		}
		l.ErrorContext(ctx, "Failed to delete trip", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to delete trip")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete trip")
		return
	}

	span.SetStatus(codes.Ok, "Trip deleted")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

func (h *HandlerImpl) GetTripStatsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripsHandler").Start(r.Context(), "GetTripStats")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetTripStatsHandler"))

	stats, err := h.service.GetTripStats(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to get trip stats", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get stats")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get trip stats")
		return
	}

	span.SetStatus(codes.Ok, "Stats fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, stats)
}

// ChangeTripDatesHandler mirrors the wizard's confirm flow for saved trips:
// 409 with the doomed entries on the first attempt, applied when the client
// repeats with confirm=true.
func (h *HandlerImpl) ChangeTripDatesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripsHandler").Start(r.Context(), "ChangeTripDates")
	defer span.End()
	l := h.logger.With(slog.String("handler", "ChangeTripDatesHandler"))

	tripID, ok := tripIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid trip ID")
		return
	}

	var req types.UpdateWizardDatesRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var doomed []types.DayEntry
	confirm := func(ctx context.Context, entriesToDelete []types.DayEntry) (bool, error) {
		doomed = entriesToDelete
		return req.Confirm, nil
	}

	trip, err := h.service.ChangeTripDates(ctx, tripID,
		types.DateRange{Start: req.StartDate, End: req.EndDate}, confirm)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, daysync.ErrCancelled):
			span.SetStatus(codes.Error, "Confirmation required")
			api.WriteJSONResponse(w, r, http.StatusConflict, types.DateChangeConflict{
				Message:         "Changing the dates will delete day entries with content. Repeat the request with confirm=true to proceed.",
				EntriesToDelete: doomed,
			})
		case errors.Is(err, daysync.ErrInvalidRange):
			span.SetStatus(codes.Error, "Invalid range")
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, types.ErrNotFound):
			span.SetStatus(codes.Error, "Trip not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
		default:
			l.ErrorContext(ctx, "Failed to change trip dates", slog.Any("error", err))
			span.SetStatus(codes.Error, "Failed to change dates")
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to change trip dates")
		}
		return
	}

	span.SetStatus(codes.Ok, "Dates changed")
	api.WriteJSONResponse(w, r, http.StatusOK, trip)
}

func (h *HandlerImpl) SetTripTalentHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripsHandler").Start(r.Context(), "SetTripTalent")
	defer span.End()
	l := h.logger.With(slog.String("handler", "SetTripTalentHandler"))

	tripID, ok := tripIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid trip ID")
		return
	}

	var assignments []types.TripTalent
	if err := api.DecodeJSONBody(w, r, &assignments); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.SetTripTalent(ctx, tripID, assignments); err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Trip not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
			return
		}
		l.ErrorContext(ctx, "Failed to set trip talent", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to set trip talent")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to set trip talent")
		return
	}

	span.SetStatus(codes.Ok, "Talent assigned")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

func (h *HandlerImpl) GetTripTalentHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripsHandler").Start(r.Context(), "GetTripTalent")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetTripTalentHandler"))

	tripID, ok := tripIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid trip ID")
		return
	}

	roster, err := h.service.GetTripTalent(ctx, tripID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to get trip talent", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get trip talent")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get trip talent")
		return
	}

	span.SetStatus(codes.Ok, "Talent fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, roster)
}

func tripIDParam(w http.ResponseWriter, r *http.Request, l *slog.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "tripID")
	id, err := uuid.Parse(idStr)
	if err != nil {
		l.ErrorContext(r.Context(), "Invalid trip ID format", slog.String("tripID_str", idStr), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip ID format")
		return uuid.Nil, false
	}
	return id, true
}
