package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/atlasvoyages/trip-console/internal/api"
	"github.com/atlasvoyages/trip-console/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	RegisterHandler(w http.ResponseWriter, r *http.Request)
	LoginHandler(w http.ResponseWriter, r *http.Request)
	RefreshHandler(w http.ResponseWriter, r *http.Request)
	LogoutHandler(w http.ResponseWriter, r *http.Request)
	ChangePasswordHandler(w http.ResponseWriter, r *http.Request)
	MeHandler(w http.ResponseWriter, r *http.Request)
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

// RegisterHandler creates a console user. Only admins reach this route.
func (h *HandlerImpl) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Register")
	defer span.End()
	l := h.logger.With(slog.String("handler", "RegisterHandler"))

	var req RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" || req.Password == "" || req.Username == "" {
		span.SetStatus(codes.Error, "Missing fields")
		api.ErrorResponse(w, r, http.StatusBadRequest, "username, email and password are required")
		return
	}

	user, err := h.service.Register(ctx, req)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrConflict) {
			span.SetStatus(codes.Error, "Email already registered")
			api.ErrorResponse(w, r, http.StatusConflict, "Email already registered")
			return
		}
		l.ErrorContext(ctx, "Failed to register user", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to register user")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to register user")
		return
	}

	span.SetAttributes(attribute.String("user.id", user.ID.String()))
	span.SetStatus(codes.Ok, "User registered")
	api.WriteJSONResponse(w, r, http.StatusCreated, user)
}

func (h *HandlerImpl) LoginHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Login")
	defer span.End()
	l := h.logger.With(slog.String("handler", "LoginHandler"))

	var req LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrUnauthenticated) {
			span.SetStatus(codes.Error, "Invalid credentials")
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
		span.SetStatus(codes.Error, "Login failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Login failed")
		return
	}

	span.SetStatus(codes.Ok, "Logged in")
	api.WriteJSONResponse(w, r, http.StatusOK, tokens)
}

func (h *HandlerImpl) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Refresh")
	defer span.End()
	l := h.logger.With(slog.String("handler", "RefreshHandler"))

	var req RefreshTokenRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.service.Refresh(ctx, req.RefreshToken)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrUnauthenticated) {
			span.SetStatus(codes.Error, "Invalid refresh token")
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid or expired refresh token")
			return
		}
		l.ErrorContext(ctx, "Refresh failed", slog.Any("error", err))
		span.SetStatus(codes.Error, "Refresh failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Refresh failed")
		return
	}

	span.SetStatus(codes.Ok, "Session refreshed")
	api.WriteJSONResponse(w, r, http.StatusOK, tokens)
}

func (h *HandlerImpl) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Logout")
	defer span.End()
	l := h.logger.With(slog.String("handler", "LogoutHandler"))

	var req LogoutRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Logout(ctx, req.RefreshToken); err != nil {
		l.ErrorContext(ctx, "Logout failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Logout failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Logout failed")
		return
	}

	span.SetStatus(codes.Ok, "Logged out")
	api.WriteJSONResponse(w, r, http.StatusOK, Response{Success: true, Message: "Logged out"})
}

func (h *HandlerImpl) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "ChangePassword")
	defer span.End()
	l := h.logger.With(slog.String("handler", "ChangePasswordHandler"))

	userID, ok := currentUserID(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Unauthorized")
		return
	}

	var req ChangePasswordRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.NewPassword == "" {
		span.SetStatus(codes.Error, "Missing new password")
		api.ErrorResponse(w, r, http.StatusBadRequest, "new_password is required")
		return
	}

	if err := h.service.ChangePassword(ctx, userID, req.OldPassword, req.NewPassword); err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrUnauthenticated) {
			span.SetStatus(codes.Error, "Invalid old password")
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid old password")
			return
		}
		l.ErrorContext(ctx, "Failed to change password", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to change password")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to change password")
		return
	}

	span.SetStatus(codes.Ok, "Password changed")
	api.WriteJSONResponse(w, r, http.StatusOK, Response{Success: true, Message: "Password changed"})
}

// MeHandler answers with the authenticated user's profile.
func (h *HandlerImpl) MeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Me")
	defer span.End()
	l := h.logger.With(slog.String("handler", "MeHandler"))

	userID, ok := currentUserID(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Unauthorized")
		return
	}

	user, err := h.service.GetUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Error, "User not found")
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
			return
		}
		l.ErrorContext(ctx, "Failed to load user", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to load user")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to load user")
		return
	}

	span.SetStatus(codes.Ok, "User fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, user)
}

func currentUserID(w http.ResponseWriter, r *http.Request, l *slog.Logger) (uuid.UUID, bool) {
	userIDStr, ok := GetUserIDFromContext(r.Context())
	if !ok || userIDStr == "" {
		l.ErrorContext(r.Context(), "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		l.ErrorContext(r.Context(), "Invalid user ID format", slog.String("userID_str", userIDStr), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}
