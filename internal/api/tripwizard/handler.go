package tripwizard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/atlasvoyages/trip-console/internal/api"
	"github.com/atlasvoyages/trip-console/internal/api/auth"
	"github.com/atlasvoyages/trip-console/internal/api/daysync"
	"github.com/atlasvoyages/trip-console/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	StartSessionHandler(w http.ResponseWriter, r *http.Request)
	GetSessionHandler(w http.ResponseWriter, r *http.Request)
	UpdateDatesHandler(w http.ResponseWriter, r *http.Request)
	AddDayHandler(w http.ResponseWriter, r *http.Request)
	UpdateDayHandler(w http.ResponseWriter, r *http.Request)
	UpdateMetaHandler(w http.ResponseWriter, r *http.Request)
	SaveDraftHandler(w http.ResponseWriter, r *http.Request)
	ListDraftsHandler(w http.ResponseWriter, r *http.Request)
	ResumeDraftHandler(w http.ResponseWriter, r *http.Request)
	CommitHandler(w http.ResponseWriter, r *http.Request)
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

func (h *HandlerImpl) StartSessionHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripWizardHandler").Start(r.Context(), "StartSession")
	defer span.End()
	l := h.logger.With(slog.String("handler", "StartSessionHandler"))

	userID, ok := requireUserID(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Unauthorized")
		return
	}
	span.SetAttributes(attribute.String("user.id", userID.String()))

	var req types.StartWizardRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	state, err := h.service.StartSession(ctx, userID, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to start wizard session", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to start session")
		switch {
		case errors.Is(err, daysync.ErrInvalidRange):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		case isNotFound(err):
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
		default:
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to start wizard session")
		}
		return
	}

	span.SetAttributes(attribute.String("wizard.session_id", state.SessionID.String()))
	span.SetStatus(codes.Ok, "Session started")
	api.WriteJSONResponse(w, r, http.StatusCreated, state)
}

func (h *HandlerImpl) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripWizardHandler").Start(r.Context(), "GetSession")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetSessionHandler"))

	sessionID, ok := sessionIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid session ID")
		return
	}

	state, err := h.service.GetSession(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Session not found")
		api.ErrorResponse(w, r, http.StatusNotFound, "Wizard session not found")
		return
	}
	span.SetStatus(codes.Ok, "Session fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, state)
}

// UpdateDatesHandler drives the confirmation-gated date change over HTTP.
// The first request with orphaned content answers 409 with the entries that
// would be deleted; the client repeats the request with confirm set to true
// to accept the deletion.
func (h *HandlerImpl) UpdateDatesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripWizardHandler").Start(r.Context(), "UpdateDates")
	defer span.End()
	l := h.logger.With(slog.String("handler", "UpdateDatesHandler"))

	sessionID, ok := sessionIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid session ID")
		return
	}
	span.SetAttributes(attribute.String("wizard.session_id", sessionID.String()))

	var req types.UpdateWizardDatesRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	newRange := types.DateRange{Start: req.StartDate, End: req.EndDate}

	// The confirmation capability is this request itself: the confirm flag
	// already carries the editor's answer, and the doomed entries are kept
	// for the conflict payload when the answer is no.
	var doomed []types.DayEntry
	confirm := func(ctx context.Context, entriesToDelete []types.DayEntry) (bool, error) {
		doomed = entriesToDelete
		return req.Confirm, nil
	}

	state, err := h.service.UpdateDates(ctx, sessionID, newRange, confirm)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, daysync.ErrCancelled):
			l.InfoContext(ctx, "Date change needs confirmation", slog.Int("entriesToDelete", len(doomed)))
			span.SetStatus(codes.Error, "Confirmation required")
			api.WriteJSONResponse(w, r, http.StatusConflict, types.DateChangeConflict{
				Message:         "Changing the dates will delete day entries with content. Repeat the request with confirm=true to proceed.",
				EntriesToDelete: doomed,
			})
		case errors.Is(err, ErrSyncInProgress):
			span.SetStatus(codes.Error, "Sync in progress")
			api.ErrorResponse(w, r, http.StatusConflict, err.Error())
		case errors.Is(err, daysync.ErrInvalidRange):
			span.SetStatus(codes.Error, "Invalid range")
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrSessionNotFound):
			span.SetStatus(codes.Error, "Session not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Wizard session not found")
		default:
			l.ErrorContext(ctx, "Failed to update dates", slog.Any("error", err))
			span.SetStatus(codes.Error, "Failed to update dates")
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update trip dates")
		}
		return
	}

	span.SetStatus(codes.Ok, "Dates updated")
	api.WriteJSONResponse(w, r, http.StatusOK, state)
}

func (h *HandlerImpl) AddDayHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripWizardHandler").Start(r.Context(), "AddDay")
	defer span.End()
	l := h.logger.With(slog.String("handler", "AddDayHandler"))

	sessionID, ok := sessionIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid session ID")
		return
	}

	var req types.AddDayRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.service.AddDay(ctx, sessionID, req)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, ErrDuplicateDate):
			span.SetStatus(codes.Error, "Duplicate date")
			api.ErrorResponse(w, r, http.StatusConflict, err.Error())
		case errors.Is(err, ErrInvalidDayPosition):
			span.SetStatus(codes.Error, "Invalid position")
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrSessionNotFound):
			span.SetStatus(codes.Error, "Session not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Wizard session not found")
		default:
			l.ErrorContext(ctx, "Failed to add day", slog.Any("error", err))
			span.SetStatus(codes.Error, "Failed to add day")
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to add day")
		}
		return
	}

	span.SetStatus(codes.Ok, "Day added")
	api.WriteJSONResponse(w, r, http.StatusCreated, entry)
}

func (h *HandlerImpl) UpdateDayHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripWizardHandler").Start(r.Context(), "UpdateDay")
	defer span.End()
	l := h.logger.With(slog.String("handler", "UpdateDayHandler"))

	sessionID, ok := sessionIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid session ID")
		return
	}

	dateStr := chi.URLParam(r, "date")
	date, err := types.ParseCalendarDate(dateStr)
	if err != nil {
		l.ErrorContext(ctx, "Invalid date format", slog.String("date_str", dateStr), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid date")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	var req types.UpdateDayRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.service.UpdateDay(ctx, sessionID, date, req)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, ErrDayNotFound):
			span.SetStatus(codes.Error, "Day not found")
			api.ErrorResponse(w, r, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrSessionNotFound):
			span.SetStatus(codes.Error, "Session not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Wizard session not found")
		default:
			l.ErrorContext(ctx, "Failed to update day", slog.Any("error", err))
			span.SetStatus(codes.Error, "Failed to update day")
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update day")
		}
		return
	}

	span.SetStatus(codes.Ok, "Day updated")
	api.WriteJSONResponse(w, r, http.StatusOK, entry)
}

func (h *HandlerImpl) UpdateMetaHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripWizardHandler").Start(r.Context(), "UpdateMeta")
	defer span.End()
	l := h.logger.With(slog.String("handler", "UpdateMetaHandler"))

	sessionID, ok := sessionIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid session ID")
		return
	}

	var req types.UpdateWizardMetaRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	state, err := h.service.UpdateMeta(ctx, sessionID, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Session not found")
		api.ErrorResponse(w, r, http.StatusNotFound, "Wizard session not found")
		return
	}

	span.SetStatus(codes.Ok, "Meta updated")
	api.WriteJSONResponse(w, r, http.StatusOK, state)
}

func (h *HandlerImpl) SaveDraftHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripWizardHandler").Start(r.Context(), "SaveDraft")
	defer span.End()
	l := h.logger.With(slog.String("handler", "SaveDraftHandler"))

	userID, ok := requireUserID(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Unauthorized")
		return
	}
	sessionID, ok := sessionIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid session ID")
		return
	}

	draft, err := h.service.SaveDraft(ctx, sessionID, userID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrSessionNotFound) {
			span.SetStatus(codes.Error, "Session not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Wizard session not found")
			return
		}
		l.ErrorContext(ctx, "Failed to save draft", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to save draft")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to save draft")
		return
	}

	span.SetStatus(codes.Ok, "Draft saved")
	api.WriteJSONResponse(w, r, http.StatusCreated, draft)
}

func (h *HandlerImpl) ListDraftsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripWizardHandler").Start(r.Context(), "ListDrafts")
	defer span.End()
	l := h.logger.With(slog.String("handler", "ListDraftsHandler"))

	userID, ok := requireUserID(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Unauthorized")
		return
	}

	drafts, err := h.service.ListDrafts(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list drafts", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list drafts")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list drafts")
		return
	}

	span.SetStatus(codes.Ok, "Drafts listed")
	api.WriteJSONResponse(w, r, http.StatusOK, drafts)
}

func (h *HandlerImpl) ResumeDraftHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripWizardHandler").Start(r.Context(), "ResumeDraft")
	defer span.End()
	l := h.logger.With(slog.String("handler", "ResumeDraftHandler"))

	userID, ok := requireUserID(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Unauthorized")
		return
	}

	draftIDStr := chi.URLParam(r, "draftID")
	draftID, err := uuid.Parse(draftIDStr)
	if err != nil {
		l.ErrorContext(ctx, "Invalid draft ID format", slog.String("draftID_str", draftIDStr), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid draft ID")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid draft ID format")
		return
	}

	state, err := h.service.ResumeDraft(ctx, draftID, userID)
	if err != nil {
		span.RecordError(err)
		if isNotFound(err) {
			span.SetStatus(codes.Error, "Draft not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Draft not found")
			return
		}
		l.ErrorContext(ctx, "Failed to resume draft", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to resume draft")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to resume draft")
		return
	}

	span.SetStatus(codes.Ok, "Draft resumed")
	api.WriteJSONResponse(w, r, http.StatusCreated, state)
}

func (h *HandlerImpl) CommitHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripWizardHandler").Start(r.Context(), "Commit")
	defer span.End()
	l := h.logger.With(slog.String("handler", "CommitHandler"))

	sessionID, ok := sessionIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid session ID")
		return
	}

	trip, err := h.service.Commit(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrSessionNotFound) {
			span.SetStatus(codes.Error, "Session not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Wizard session not found")
			return
		}
		l.ErrorContext(ctx, "Failed to commit trip", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to commit trip")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to commit trip")
		return
	}

	span.SetAttributes(attribute.String("trip.id", trip.ID.String()))
	span.SetStatus(codes.Ok, "Trip committed")
	api.WriteJSONResponse(w, r, http.StatusCreated, trip)
}

func requireUserID(w http.ResponseWriter, r *http.Request, l *slog.Logger) (uuid.UUID, bool) {
	userIDStr, ok := auth.GetUserIDFromContext(r.Context())
	if !ok || userIDStr == "" {
		l.ErrorContext(r.Context(), "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		l.ErrorContext(r.Context(), "Invalid user ID format", slog.String("userID_str", userIDStr), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return uuid.Nil, false
	}
	return userID, true
}

func sessionIDParam(w http.ResponseWriter, r *http.Request, l *slog.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "sessionID")
	id, err := uuid.Parse(idStr)
	if err != nil {
		l.ErrorContext(r.Context(), "Invalid session ID format", slog.String("sessionID_str", idStr), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid session ID format")
		return uuid.Nil, false
	}
	return id, true
}

func isNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "not found")
}
