package talent

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
	CreateTalentHandler(w http.ResponseWriter, r *http.Request)
	GetTalentHandler(w http.ResponseWriter, r *http.Request)
	ListTalentHandler(w http.ResponseWriter, r *http.Request)
	UpdateTalentHandler(w http.ResponseWriter, r *http.Request)
	DeleteTalentHandler(w http.ResponseWriter, r *http.Request)
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

func (h *HandlerImpl) CreateTalentHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TalentHandler").Start(r.Context(), "CreateTalent")
	defer span.End()
	l := h.logger.With(slog.String("handler", "CreateTalentHandler"))

	var req types.CreateTalentRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	talent := types.Talent{
		ID:        uuid.New(),
		Name:      req.Name,
		Category:  req.Category,
		Bio:       req.Bio,
		ImageURL:  req.ImageURL,
		Website:   req.Website,
		Social:    req.Social,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.repository.CreateTalent(ctx, talent); err != nil {
		l.ErrorContext(ctx, "Failed to create talent", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create talent")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create talent")
		return
	}

	span.SetAttributes(attribute.String("talent.id", talent.ID.String()))
	span.SetStatus(codes.Ok, "Talent created")
	api.WriteJSONResponse(w, r, http.StatusCreated, talent)
}

func (h *HandlerImpl) GetTalentHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TalentHandler").Start(r.Context(), "GetTalent")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetTalentHandler"))

	talentID, ok := talentIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid talent ID")
		return
	}

	talent, err := h.repository.GetTalent(ctx, talentID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Talent not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Talent not found")
			return
		}
		l.ErrorContext(ctx, "Failed to get talent", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to get talent")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get talent")
		return
	}

	span.SetStatus(codes.Ok, "Talent fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, talent)
}

func (h *HandlerImpl) ListTalentHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TalentHandler").Start(r.Context(), "ListTalent")
	defer span.End()
	l := h.logger.With(slog.String("handler", "ListTalentHandler"))

	roster, err := h.repository.ListTalent(ctx, r.URL.Query().Get("category"))
	if err != nil {
		l.ErrorContext(ctx, "Failed to list talent", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list talent")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list talent")
		return
	}

	span.SetAttributes(attribute.Int("talent.count", len(roster)))
	span.SetStatus(codes.Ok, "Talent listed")
	api.WriteJSONResponse(w, r, http.StatusOK, roster)
}

func (h *HandlerImpl) UpdateTalentHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TalentHandler").Start(r.Context(), "UpdateTalent")
	defer span.End()
	l := h.logger.With(slog.String("handler", "UpdateTalentHandler"))

	talentID, ok := talentIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid talent ID")
		return
	}

	var req types.UpdateTalentRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	talent, err := h.repository.GetTalent(ctx, talentID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Talent not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Talent not found")
			return
		}
		span.SetStatus(codes.Error, "Failed to get talent")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update talent")
		return
	}

	if req.Name != nil {
		talent.Name = *req.Name
	}
	if req.Category != nil {
		talent.Category = *req.Category
	}
	if req.Bio != nil {
		talent.Bio = *req.Bio
	}
	if req.ImageURL != nil {
		talent.ImageURL = *req.ImageURL
	}
	if req.Website != nil {
		talent.Website = *req.Website
	}
	if req.Social != nil {
		talent.Social = *req.Social
	}
	talent.UpdatedAt = time.Now()

	if err := h.repository.UpdateTalent(ctx, talent); err != nil {
		l.ErrorContext(ctx, "Failed to update talent", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update talent")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update talent")
		return
	}

	span.SetStatus(codes.Ok, "Talent updated")
	api.WriteJSONResponse(w, r, http.StatusOK, talent)
}

func (h *HandlerImpl) DeleteTalentHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TalentHandler").Start(r.Context(), "DeleteTalent")
	defer span.End()
	l := h.logger.With(slog.String("handler", "DeleteTalentHandler"))

	talentID, ok := talentIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid talent ID")
		return
	}

	if err := h.repository.DeleteTalent(ctx, talentID); err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "Talent not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "Talent not found")
			return
		}
		l.ErrorContext(ctx, "Failed to delete talent", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to delete talent")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete talent")
		return
	}

	span.SetStatus(codes.Ok, "Talent deleted")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

func talentIDParam(w http.ResponseWriter, r *http.Request, l *slog.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "talentID")
	id, err := uuid.Parse(idStr)
	if err != nil {
		l.ErrorContext(r.Context(), "Invalid talent ID format", slog.String("talentID_str", idStr), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid talent ID format")
		return uuid.Nil, false
	}
	return id, true
}
