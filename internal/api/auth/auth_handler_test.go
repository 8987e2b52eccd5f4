package auth

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMiddlewareLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func signTestToken(t *testing.T, mutate func(*Claims)) string {
	t.Helper()
	cfg := testJWTConfig()
	now := time.Now()
	claims := Claims{
		UserID: uuid.NewString(),
		Email:  "editor@example.com",
		Role:   RoleContentEditor,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessTTL)),
		},
	}
	if mutate != nil {
		mutate(&claims)
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.SecretKey))
	require.NoError(t, err)
	return signed
}

func protectedProbe(t *testing.T, middlewares ...func(http.Handler) http.Handler) http.Handler {
	t.Helper()
	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserIDFromContext(r.Context())
		require.True(t, ok)
		w.Header().Set("X-User-ID", userID)
		w.WriteHeader(http.StatusOK)
	})
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

func TestAuthenticate_ValidToken(t *testing.T) {
	handler := protectedProbe(t, Authenticate(testMiddlewareLogger(), testJWTConfig()))

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, nil))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-User-ID"))
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	handler := protectedProbe(t, Authenticate(testMiddlewareLogger(), testJWTConfig()))

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	handler := protectedProbe(t, Authenticate(testMiddlewareLogger(), testJWTConfig()))

	token := signTestToken(t, func(c *Claims) {
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	})
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_WrongIssuer(t *testing.T) {
	handler := protectedProbe(t, Authenticate(testMiddlewareLogger(), testJWTConfig()))

	token := signTestToken(t, func(c *Claims) {
		c.Issuer = "someone-else"
	})
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole_AllowsMatchingRole(t *testing.T) {
	handler := protectedProbe(t,
		Authenticate(testMiddlewareLogger(), testJWTConfig()),
		RequireRole(testMiddlewareLogger(), RoleContentEditor, RoleAdmin),
	)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, nil))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_ForbidsOtherRole(t *testing.T) {
	handler := protectedProbe(t,
		Authenticate(testMiddlewareLogger(), testJWTConfig()),
		RequireRole(testMiddlewareLogger(), RoleAdmin),
	)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, nil))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
