package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/taskboard-api/internal/auth"
)

// stubTokenService lets tests control verification outcomes.
type stubTokenService struct {
	claims *auth.TokenClaims
	err    error
}

func (s *stubTokenService) CreateToken(_ int64, _ string) (string, error) {
	return "stub-token", nil
}

func (s *stubTokenService) VerifyToken(_ string) (*auth.TokenClaims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func protectedProbe(t *testing.T) (http.Handler, *bool, *int64) {
	t.Helper()
	var called bool
	var gotUserID int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		userID, ok := auth.GetUserIDFromContext(r.Context())
		require.True(t, ok)
		gotUserID = userID
		w.WriteHeader(http.StatusOK)
	})
	return handler, &called, &gotUserID
}

func TestRequireAuthMissingHeader(t *testing.T) {
	mw := auth.NewMiddleware(&stubTokenService{})
	handler, called, _ := protectedProbe(t)

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	rec := httptest.NewRecorder()

	mw.RequireAuth(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called, "protected handler must not run")
}

func TestRequireAuthBadScheme(t *testing.T) {
	mw := auth.NewMiddleware(&stubTokenService{})
	handler, called, _ := protectedProbe(t)

	for _, header := range []string{"Basic abc123", "Bearer", "Bearertoken", "token abc"} {
		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()

		mw.RequireAuth(handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		assert.False(t, *called, "header %q", header)
	}
}

func TestRequireAuthMasksExpiryAndForgery(t *testing.T) {
	handler, called, _ := protectedProbe(t)

	expiredRec := httptest.NewRecorder()
	expiredReq := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	expiredReq.Header.Set("Authorization", "Bearer some-token")
	auth.NewMiddleware(&stubTokenService{err: auth.ErrExpiredToken}).
		RequireAuth(handler).ServeHTTP(expiredRec, expiredReq)

	forgedRec := httptest.NewRecorder()
	forgedReq := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	forgedReq.Header.Set("Authorization", "Bearer some-token")
	auth.NewMiddleware(&stubTokenService{err: auth.ErrInvalidToken}).
		RequireAuth(handler).ServeHTTP(forgedRec, forgedReq)

	// Expired and forged tokens get the identical response
	assert.Equal(t, http.StatusUnauthorized, expiredRec.Code)
	assert.Equal(t, http.StatusUnauthorized, forgedRec.Code)
	assert.Equal(t, expiredRec.Body.String(), forgedRec.Body.String())
	assert.False(t, *called)
}

func TestRequireAuthSuccessInjectsIdentity(t *testing.T) {
	mw := auth.NewMiddleware(&stubTokenService{claims: &auth.TokenClaims{
		UserID:    42,
		Email:     "alice@example.com",
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}})
	handler, called, gotUserID := protectedProbe(t)

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()

	mw.RequireAuth(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
	assert.Equal(t, int64(42), *gotUserID)
}

func TestRequireAuthEndToEndWithJWT(t *testing.T) {
	tokens, err := auth.NewJWTService(testSecret, time.Hour)
	require.NoError(t, err)
	mw := auth.NewMiddleware(tokens)
	handler, called, gotUserID := protectedProbe(t)

	token, err := tokens.CreateToken(7, "bob@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	mw.RequireAuth(handler).ServeHTTP(rec, req)

	require.True(t, *called)
	assert.Equal(t, int64(7), *gotUserID)
}
