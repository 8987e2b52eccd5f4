package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/atlasvoyages/trip-console/config"
	"github.com/atlasvoyages/trip-console/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (User, error)
	Login(ctx context.Context, email, password string) (TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
	GetUser(ctx context.Context, userID uuid.UUID) (User, error)
}

type ServiceImpl struct {
	logger     *slog.Logger
	repository Repository
	jwtCfg     config.JWTConfig
}

func NewService(repo Repository, jwtCfg config.JWTConfig, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		repository: repo,
		jwtCfg:     jwtCfg,
	}
}

func (s *ServiceImpl) Register(ctx context.Context, req RegisterRequest) (User, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Register", trace.WithAttributes(
		attribute.String("user.email", req.Email),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "Register"))

	role := req.Role
	if role == "" {
		role = RoleContentEditor
	}
	if !ValidRole(role) {
		return User{}, fmt.Errorf("unknown role %q", req.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to hash password")
		return User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repository.CreateUser(ctx, user); err != nil {
		l.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create user")
		return User{}, err
	}

	l.InfoContext(ctx, "User registered", slog.String("userID", user.ID.String()), slog.String("role", role))
	span.SetStatus(codes.Ok, "User registered")
	return user, nil
}

func (s *ServiceImpl) Login(ctx context.Context, email, password string) (TokenResponse, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login")
	defer span.End()
	l := s.logger.With(slog.String("method", "Login"))

	user, err := s.repository.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			// Same failure as a bad password, so lookups cannot probe for emails.
			return TokenResponse{}, ErrUnauthenticated
		}
		l.ErrorContext(ctx, "Failed to load user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load user")
		return TokenResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		l.WarnContext(ctx, "Invalid credentials", slog.String("email", email))
		span.SetStatus(codes.Error, "Invalid credentials")
		return TokenResponse{}, ErrUnauthenticated
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to issue tokens")
		return TokenResponse{}, err
	}

	span.SetAttributes(attribute.String("user.id", user.ID.String()))
	span.SetStatus(codes.Ok, "Logged in")
	return tokens, nil
}

// Refresh rotates the refresh token: the presented token is revoked and a
// new pair is issued.
func (s *ServiceImpl) Refresh(ctx context.Context, refreshToken string) (TokenResponse, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Refresh")
	defer span.End()
	l := s.logger.With(slog.String("method", "Refresh"))

	rt, err := s.repository.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return TokenResponse{}, ErrUnauthenticated
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load refresh token")
		return TokenResponse{}, err
	}
	if rt.RevokedAt != nil || time.Now().After(rt.ExpiresAt) {
		l.WarnContext(ctx, "Refresh token expired or revoked", slog.String("userID", rt.UserID.String()))
		span.SetStatus(codes.Error, "Refresh token expired or revoked")
		return TokenResponse{}, ErrUnauthenticated
	}

	user, err := s.repository.GetUserByID(ctx, rt.UserID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load user")
		return TokenResponse{}, err
	}

	if err := s.repository.RevokeRefreshToken(ctx, refreshToken); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to revoke old token")
		return TokenResponse{}, err
	}
	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to issue tokens")
		return TokenResponse{}, err
	}

	span.SetStatus(codes.Ok, "Session refreshed")
	return tokens, nil
}

func (s *ServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Logout")
	defer span.End()

	if err := s.repository.RevokeRefreshToken(ctx, refreshToken); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to revoke token")
		return err
	}
	span.SetStatus(codes.Ok, "Logged out")
	return nil
}

// ChangePassword verifies the old password, stores a new hash and revokes
// every live refresh token for the user.
func (s *ServiceImpl) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "ChangePassword", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "ChangePassword"))

	user, err := s.repository.GetUserByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load user")
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		span.SetStatus(codes.Error, "Invalid old password")
		return ErrUnauthenticated
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to hash password")
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	if err := s.repository.UpdatePassword(ctx, userID, string(newHash)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update password")
		return err
	}
	if err := s.repository.RevokeAllUserRefreshTokens(ctx, userID); err != nil {
		l.ErrorContext(ctx, "Failed to revoke refresh tokens after password change", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to revoke tokens")
		return err
	}

	l.InfoContext(ctx, "Password changed", slog.String("userID", userID.String()))
	span.SetStatus(codes.Ok, "Password changed")
	return nil
}

func (s *ServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (User, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "GetUser")
	defer span.End()

	user, err := s.repository.GetUserByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load user")
		return User{}, err
	}
	span.SetStatus(codes.Ok, "User fetched")
	return user, nil
}

func (s *ServiceImpl) issueTokens(ctx context.Context, user User) (TokenResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken := uuid.NewString()
	expiresAt := time.Now().Add(s.jwtCfg.RefreshTTL)
	if err := s.repository.StoreRefreshToken(ctx, user.ID, refreshToken, expiresAt); err != nil {
		return TokenResponse{}, err
	}
	return TokenResponse{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *ServiceImpl) generateAccessToken(user User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.jwtCfg.Issuer,
			Audience:  jwt.ClaimStrings{s.jwtCfg.Audience},
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtCfg.AccessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtCfg.SecretKey))
}
