package auth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/atlasvoyages/trip-console/config"
	"github.com/atlasvoyages/trip-console/internal/types"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateUser(ctx context.Context, user User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockRepository) GetUserByID(ctx context.Context, userID uuid.UUID) (User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, newHash string) error {
	return m.Called(ctx, userID, newHash).Error(0)
}

func (m *MockRepository) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	return m.Called(ctx, userID, token, expiresAt).Error(0)
}

func (m *MockRepository) GetRefreshToken(ctx context.Context, token string) (RefreshToken, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(RefreshToken), args.Error(1)
}

func (m *MockRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockRepository) RevokeAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		SecretKey:  "test-secret",
		Issuer:     "trip-console",
		Audience:   "trip-console-admin",
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

func newTestAuthService(repo Repository) *ServiceImpl {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return NewService(repo, testJWTConfig(), logger)
}

func savedUser(t *testing.T, password, role string) User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return User{
		ID:           uuid.New(),
		Username:     "editor",
		Email:        "editor@example.com",
		Role:         role,
		PasswordHash: string(hash),
	}
}

func TestLogin_IssuesTokenPair(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestAuthService(repo)
	user := savedUser(t, "s3cret-pass", RoleContentEditor)

	repo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil)
	repo.On("StoreRefreshToken", mock.Anything, user.ID, mock.Anything, mock.Anything).Return(nil)

	tokens, err := svc.Login(context.Background(), user.Email, "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokens.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, RoleContentEditor, claims.Role)
	assert.Equal(t, "trip-console", claims.Issuer)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestAuthService(repo)
	user := savedUser(t, "s3cret-pass", RoleContentEditor)

	repo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil)

	_, err := svc.Login(context.Background(), user.Email, "wrong-pass")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	repo.AssertNotCalled(t, "StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_UnknownEmailLooksLikeBadPassword(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestAuthService(repo)

	repo.On("GetUserByEmail", mock.Anything, "nobody@example.com").
		Return(User{}, fmt.Errorf("user nobody@example.com: %w", types.ErrNotFound))

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRefresh_RotatesToken(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestAuthService(repo)
	user := savedUser(t, "s3cret-pass", RoleAdmin)

	oldToken := uuid.NewString()
	repo.On("GetRefreshToken", mock.Anything, oldToken).Return(RefreshToken{
		UserID:    user.ID,
		Token:     oldToken,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	repo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("RevokeRefreshToken", mock.Anything, oldToken).Return(nil)
	repo.On("StoreRefreshToken", mock.Anything, user.ID, mock.Anything, mock.Anything).Return(nil)

	tokens, err := svc.Refresh(context.Background(), oldToken)
	require.NoError(t, err)
	assert.NotEqual(t, oldToken, tokens.RefreshToken)
	repo.AssertCalled(t, "RevokeRefreshToken", mock.Anything, oldToken)
}

func TestRefresh_RevokedTokenRejected(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestAuthService(repo)

	revokedAt := time.Now().Add(-time.Minute)
	token := uuid.NewString()
	repo.On("GetRefreshToken", mock.Anything, token).Return(RefreshToken{
		UserID:    uuid.New(),
		Token:     token,
		ExpiresAt: time.Now().Add(time.Hour),
		RevokedAt: &revokedAt,
	}, nil)

	_, err := svc.Refresh(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	repo.AssertNotCalled(t, "StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_HashesPasswordAndDefaultsRole(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestAuthService(repo)

	var created User
	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u User) bool {
		created = u
		return true
	})).Return(nil)

	user, err := svc.Register(context.Background(), RegisterRequest{
		Username: "newbie",
		Email:    "newbie@example.com",
		Password: "plain-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, RoleContentEditor, user.Role)
	assert.NotEqual(t, "plain-pass", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("plain-pass")))
}

func TestRegister_RejectsUnknownRole(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "newbie",
		Email:    "newbie@example.com",
		Password: "plain-pass",
		Role:     "superuser",
	})
	assert.Error(t, err)
	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestChangePassword_RevokesAllTokens(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestAuthService(repo)
	user := savedUser(t, "old-pass", RoleContentEditor)

	repo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("UpdatePassword", mock.Anything, user.ID, mock.Anything).Return(nil)
	repo.On("RevokeAllUserRefreshTokens", mock.Anything, user.ID).Return(nil)

	err := svc.ChangePassword(context.Background(), user.ID, "old-pass", "new-pass")
	require.NoError(t, err)
	repo.AssertCalled(t, "RevokeAllUserRefreshTokens", mock.Anything, user.ID)
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestAuthService(repo)
	user := savedUser(t, "old-pass", RoleContentEditor)

	repo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil)

	err := svc.ChangePassword(context.Background(), user.ID, "guess", "new-pass")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}
