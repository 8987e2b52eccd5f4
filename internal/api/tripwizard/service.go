package tripwizard

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

	"github.com/atlasvoyages/trip-console/app/observability/metrics"
	"github.com/atlasvoyages/trip-console/internal/api/daysync"
	"github.com/atlasvoyages/trip-console/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	StartSession(ctx context.Context, userID uuid.UUID, req types.StartWizardRequest) (types.WizardState, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (types.WizardState, error)
	UpdateDates(ctx context.Context, sessionID uuid.UUID, newRange types.DateRange, confirm daysync.ConfirmFunc) (types.WizardState, error)
	AddDay(ctx context.Context, sessionID uuid.UUID, req types.AddDayRequest) (types.DayEntry, error)
	UpdateDay(ctx context.Context, sessionID uuid.UUID, date types.CalendarDate, req types.UpdateDayRequest) (types.DayEntry, error)
	UpdateMeta(ctx context.Context, sessionID uuid.UUID, req types.UpdateWizardMetaRequest) (types.WizardState, error)
	SaveDraft(ctx context.Context, sessionID, userID uuid.UUID) (types.WizardDraft, error)
	ResumeDraft(ctx context.Context, draftID, userID uuid.UUID) (types.WizardState, error)
	ListDrafts(ctx context.Context, userID uuid.UUID) ([]*types.WizardDraft, error)
	Commit(ctx context.Context, sessionID uuid.UUID) (types.Trip, error)
}

type ServiceImpl struct {
	logger     *slog.Logger
	sessions   *SessionStore
	repository Repository
}

func NewServiceImpl(repo Repository, sessions *SessionStore, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		sessions:   sessions,
		repository: repo,
	}
}

// StartSession opens a new wizard session, either blank from a name, type
// and date range, or loaded from an existing trip for editing.
func (s *ServiceImpl) StartSession(ctx context.Context, userID uuid.UUID, req types.StartWizardRequest) (types.WizardState, error) {
	ctx, span := otel.Tracer("TripWizardService").Start(ctx, "StartSession", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "StartSession"), slog.String("userID", userID.String()))

	var state types.WizardState
	if req.TripID != nil {
		trip, entries, err := s.repository.GetTripWithDays(ctx, *req.TripID)
		if err != nil {
			l.ErrorContext(ctx, "Failed to load trip for editing", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Trip not found")
			return types.WizardState{}, fmt.Errorf("failed to load trip: %w", err)
		}
		state = types.WizardState{
			TripID:       &trip.ID,
			Name:         trip.Name,
			TripType:     trip.TripType,
			Dates:        trip.DateRange(),
			Entries:      entries,
			ShipID:       trip.ShipID,
			ResortID:     trip.ResortID,
			Description:  trip.Description,
			HeroImageURL: trip.HeroImageURL,
		}
	} else {
		newRange := types.DateRange{Start: req.StartDate, End: req.EndDate}
		if err := newRange.Validate(); err != nil {
			span.SetStatus(codes.Error, "Invalid date range")
			return types.WizardState{}, fmt.Errorf("%w: %v", daysync.ErrInvalidRange, err)
		}
		state = types.WizardState{
			Name:     req.Name,
			TripType: req.TripType,
			Dates:    newRange,
		}
	}

	state.SessionID = uuid.New()
	wizard := New(state)
	s.sessions.Put(state.SessionID, wizard)

	l.InfoContext(ctx, "Wizard session started",
		slog.String("sessionID", state.SessionID.String()),
		slog.Bool("editMode", req.TripID != nil))
	span.SetAttributes(attribute.String("wizard.session_id", state.SessionID.String()))
	span.SetStatus(codes.Ok, "Session started")
	return wizard.Snapshot(), nil
}

func (s *ServiceImpl) GetSession(ctx context.Context, sessionID uuid.UUID) (types.WizardState, error) {
	_, span := otel.Tracer("TripWizardService").Start(ctx, "GetSession", trace.WithAttributes(
		attribute.String("wizard.session_id", sessionID.String()),
	))
	defer span.End()

	wizard, ok := s.sessions.Get(sessionID)
	if !ok {
		span.SetStatus(codes.Error, "Session not found")
		return types.WizardState{}, ErrSessionNotFound
	}
	span.SetStatus(codes.Ok, "Session fetched")
	return wizard.Snapshot(), nil
}

// UpdateDates runs the confirmation-gated date-range sync on the session.
func (s *ServiceImpl) UpdateDates(ctx context.Context, sessionID uuid.UUID, newRange types.DateRange, confirm daysync.ConfirmFunc) (types.WizardState, error) {
	ctx, span := otel.Tracer("TripWizardService").Start(ctx, "UpdateDates", trace.WithAttributes(
		attribute.String("wizard.session_id", sessionID.String()),
		attribute.String("range.start", newRange.Start.String()),
		attribute.String("range.end", newRange.End.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "UpdateDates"), slog.String("sessionID", sessionID.String()))

	wizard, ok := s.sessions.Get(sessionID)
	if !ok {
		span.SetStatus(codes.Error, "Session not found")
		return types.WizardState{}, ErrSessionNotFound
	}

	start := time.Now()
	err := wizard.UpdateTripDates(ctx, newRange, confirm)
	metrics.Get().DateSyncDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		metrics.Get().DateSyncRejectedTotal.Add(ctx, 1)
		l.WarnContext(ctx, "Date change not applied", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Date change not applied")
		return types.WizardState{}, err
	}
	metrics.Get().DateSyncAppliedTotal.Add(ctx, 1)

	l.InfoContext(ctx, "Trip dates updated",
		slog.String("start", newRange.Start.String()),
		slog.String("end", newRange.End.String()))
	span.SetStatus(codes.Ok, "Dates updated")
	return wizard.Snapshot(), nil
}

func (s *ServiceImpl) AddDay(ctx context.Context, sessionID uuid.UUID, req types.AddDayRequest) (types.DayEntry, error) {
	_, span := otel.Tracer("TripWizardService").Start(ctx, "AddDay", trace.WithAttributes(
		attribute.String("wizard.session_id", sessionID.String()),
		attribute.String("day.date", req.Date.String()),
		attribute.String("day.position", string(req.Position)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "AddDay"), slog.String("sessionID", sessionID.String()))

	wizard, ok := s.sessions.Get(sessionID)
	if !ok {
		span.SetStatus(codes.Error, "Session not found")
		return types.DayEntry{}, ErrSessionNotFound
	}

	entry, err := wizard.AddDay(req.Date, req.Position)
	if err != nil {
		l.WarnContext(ctx, "Failed to add day", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to add day")
		return types.DayEntry{}, err
	}

	l.InfoContext(ctx, "Day added", slog.String("date", entry.Date.String()), slog.Int("dayNumber", entry.DayNumber))
	span.SetStatus(codes.Ok, "Day added")
	return entry, nil
}

func (s *ServiceImpl) UpdateDay(ctx context.Context, sessionID uuid.UUID, date types.CalendarDate, req types.UpdateDayRequest) (types.DayEntry, error) {
	_, span := otel.Tracer("TripWizardService").Start(ctx, "UpdateDay", trace.WithAttributes(
		attribute.String("wizard.session_id", sessionID.String()),
		attribute.String("day.date", date.String()),
	))
	defer span.End()

	wizard, ok := s.sessions.Get(sessionID)
	if !ok {
		span.SetStatus(codes.Error, "Session not found")
		return types.DayEntry{}, ErrSessionNotFound
	}

	entry, err := wizard.UpdateDay(date, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update day")
		return types.DayEntry{}, err
	}
	span.SetStatus(codes.Ok, "Day updated")
	return entry, nil
}

func (s *ServiceImpl) UpdateMeta(ctx context.Context, sessionID uuid.UUID, req types.UpdateWizardMetaRequest) (types.WizardState, error) {
	_, span := otel.Tracer("TripWizardService").Start(ctx, "UpdateMeta", trace.WithAttributes(
		attribute.String("wizard.session_id", sessionID.String()),
	))
	defer span.End()

	wizard, ok := s.sessions.Get(sessionID)
	if !ok {
		span.SetStatus(codes.Error, "Session not found")
		return types.WizardState{}, ErrSessionNotFound
	}
	span.SetStatus(codes.Ok, "Meta updated")
	return wizard.UpdateMeta(req), nil
}

// SaveDraft snapshots the session into the drafts table so it can be
// resumed after the in-memory session expires.
func (s *ServiceImpl) SaveDraft(ctx context.Context, sessionID, userID uuid.UUID) (types.WizardDraft, error) {
	ctx, span := otel.Tracer("TripWizardService").Start(ctx, "SaveDraft", trace.WithAttributes(
		attribute.String("wizard.session_id", sessionID.String()),
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "SaveDraft"), slog.String("sessionID", sessionID.String()))

	wizard, ok := s.sessions.Get(sessionID)
	if !ok {
		span.SetStatus(codes.Error, "Session not found")
		return types.WizardDraft{}, ErrSessionNotFound
	}

	now := time.Now()
	draft := types.WizardDraft{
		ID:        sessionID,
		UserID:    userID,
		State:     wizard.Snapshot(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repository.SaveDraft(ctx, draft); err != nil {
		l.ErrorContext(ctx, "Failed to save draft", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save draft")
		return types.WizardDraft{}, fmt.Errorf("failed to save draft: %w", err)
	}

	l.InfoContext(ctx, "Draft saved")
	span.SetStatus(codes.Ok, "Draft saved")
	return draft, nil
}

// ResumeDraft rehydrates a persisted draft into a fresh live session.
func (s *ServiceImpl) ResumeDraft(ctx context.Context, draftID, userID uuid.UUID) (types.WizardState, error) {
	ctx, span := otel.Tracer("TripWizardService").Start(ctx, "ResumeDraft", trace.WithAttributes(
		attribute.String("draft.id", draftID.String()),
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	draft, err := s.repository.GetDraft(ctx, draftID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Draft not found")
		return types.WizardState{}, fmt.Errorf("failed to resume draft: %w", err)
	}

	state := draft.State
	state.SessionID = uuid.New()
	wizard := New(state)
	s.sessions.Put(state.SessionID, wizard)

	span.SetStatus(codes.Ok, "Draft resumed")
	return wizard.Snapshot(), nil
}

func (s *ServiceImpl) ListDrafts(ctx context.Context, userID uuid.UUID) ([]*types.WizardDraft, error) {
	ctx, span := otel.Tracer("TripWizardService").Start(ctx, "ListDrafts", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	drafts, err := s.repository.ListDrafts(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list drafts")
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	span.SetStatus(codes.Ok, "Drafts listed")
	return drafts, nil
}

// Commit persists the wizard state as a trip and closes the session. A
// failed save leaves both the session and its state fully intact.
func (s *ServiceImpl) Commit(ctx context.Context, sessionID uuid.UUID) (types.Trip, error) {
	ctx, span := otel.Tracer("TripWizardService").Start(ctx, "Commit", trace.WithAttributes(
		attribute.String("wizard.session_id", sessionID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Commit"), slog.String("sessionID", sessionID.String()))

	wizard, ok := s.sessions.Get(sessionID)
	if !ok {
		span.SetStatus(codes.Error, "Session not found")
		return types.Trip{}, ErrSessionNotFound
	}

	trip, err := s.repository.CommitTrip(ctx, wizard.Snapshot())
	if err != nil {
		l.ErrorContext(ctx, "Failed to commit trip", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to commit trip")
		return types.Trip{}, fmt.Errorf("failed to commit trip: %w", err)
	}

	s.sessions.Delete(sessionID)
	metrics.Get().TripCommitsTotal.Add(ctx, 1)
	l.InfoContext(ctx, "Trip committed", slog.String("tripID", trip.ID.String()))
	span.SetAttributes(attribute.String("trip.id", trip.ID.String()))
	span.SetStatus(codes.Ok, "Trip committed")
	return trip, nil
}
