package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlasvoyages/trip-console/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	CreateUser(ctx context.Context, user User) error
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, newHash string) error
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, token string) (RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, token string) error
	RevokeAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewRepository(pgxpool *pgxpool.Pool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *RepositoryImpl) CreateUser(ctx context.Context, user User) error {
	query := `
        INSERT INTO users (id, username, email, role, password_hash, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := r.pgpool.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.Role, user.PasswordHash,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("email %s: %w", user.Email, ErrConflict)
		}
		r.logger.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) GetUserByEmail(ctx context.Context, email string) (User, error) {
	query := `
        SELECT id, username, email, role, password_hash, created_at, updated_at
        FROM users
        WHERE email = $1
    `
	var user User
	err := r.pgpool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Username, &user.Email, &user.Role, &user.PasswordHash,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, fmt.Errorf("user %s: %w", email, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to get user by email", slog.Any("error", err))
		return User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *RepositoryImpl) GetUserByID(ctx context.Context, userID uuid.UUID) (User, error) {
	query := `
        SELECT id, username, email, role, password_hash, created_at, updated_at
        FROM users
        WHERE id = $1
    `
	var user User
	err := r.pgpool.QueryRow(ctx, query, userID).Scan(
		&user.ID, &user.Username, &user.Email, &user.Role, &user.PasswordHash,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, fmt.Errorf("user %s: %w", userID, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to get user by ID", slog.Any("error", err))
		return User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *RepositoryImpl) UpdatePassword(ctx context.Context, userID uuid.UUID, newHash string) error {
	tag, err := r.pgpool.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		newHash, time.Now(), userID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update password", slog.Any("error", err))
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, types.ErrNotFound)
	}
	return nil
}

func (r *RepositoryImpl) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	_, err := r.pgpool.Exec(ctx,
		`INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES ($1, $2, $3)`,
		userID, token, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) GetRefreshToken(ctx context.Context, token string) (RefreshToken, error) {
	query := `
        SELECT user_id, token, expires_at, revoked_at
        FROM refresh_tokens
        WHERE token = $1
    `
	var rt RefreshToken
	err := r.pgpool.QueryRow(ctx, query, token).Scan(
		&rt.UserID, &rt.Token, &rt.ExpiresAt, &rt.RevokedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RefreshToken{}, fmt.Errorf("refresh token: %w", types.ErrNotFound)
		}
		return RefreshToken{}, fmt.Errorf("failed to get refresh token: %w", err)
	}
	return rt, nil
}

func (r *RepositoryImpl) RevokeRefreshToken(ctx context.Context, token string) error {
	tag, err := r.pgpool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked_at = $1 WHERE token = $2 AND revoked_at IS NULL`,
		time.Now(), token)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Refresh token already revoked or unknown")
	}
	return nil
}

func (r *RepositoryImpl) RevokeAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pgpool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked_at = $1 WHERE user_id = $2 AND revoked_at IS NULL`,
		time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to revoke user refresh tokens: %w", err)
	}
	return nil
}
