package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrolease/agrolease-backend/internal/entity"
	"github.com/agrolease/agrolease-backend/internal/usecase"
)

const testSecret = "test-secret"

func signToken(t *testing.T, sub, role string, expiresIn time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(expiresIn).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestJWTAuthStoresActor(t *testing.T) {
	var got usecase.Actor
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = ActorFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user-1", "owner", time.Hour))
	rec := httptest.NewRecorder()

	JWTAuth(testSecret)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, ok)
	assert.Equal(t, "user-1", got.ID)
	assert.Equal(t, entity.RoleOwner, got.Role)
}

func TestJWTAuthRejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer token", "Basic abc"},
		{"garbage token", "Bearer not.a.token"},
		{"expired token", ""},
		{"wrong secret", ""},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for rejected requests")
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := tt.header
			switch tt.name {
			case "expired token":
				header = "Bearer " + signToken(t, "user-1", "owner", -time.Hour)
			case "wrong secret":
				claims := jwt.MapClaims{"sub": "user-1", "exp": time.Now().Add(time.Hour).Unix()}
				token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
				require.NoError(t, err)
				header = "Bearer " + token
			}

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()

			JWTAuth(testSecret)(next).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	handler := func() http.Handler {
		return RequireRole(entity.RoleOwner, entity.RoleAdmin)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}))
	}()

	serve := func(role string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "user-1", role, time.Hour))
		rec := httptest.NewRecorder()
		JWTAuth(testSecret)(handler).ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, serve("owner").Code)
	assert.Equal(t, http.StatusNoContent, serve("admin").Code)
	assert.Equal(t, http.StatusForbidden, serve("leaser").Code)
}
