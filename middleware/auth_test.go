package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-manager/models"
)

var secret = []byte("middleware-secret")

func signToken(t *testing.T, key []byte, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func protected(roles ...models.UserRole) http.Handler {
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CallerFromContext(r.Context()); !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	return Authenticate(secret)(Authorize(roles...)(final))
}

func TestAuthenticateAndAuthorize(t *testing.T) {
	valid := jwt.MapClaims{"user_id": 7, "role": "admin", "exp": time.Now().Add(time.Hour).Unix()}
	manager := jwt.MapClaims{"user_id": 8, "role": "manager", "exp": time.Now().Add(time.Hour).Unix()}
	expired := jwt.MapClaims{"user_id": 7, "role": "admin", "exp": time.Now().Add(-time.Hour).Unix()}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
		{"wrong key", "Bearer " + signToken(t, []byte("other"), valid), http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, secret, expired), http.StatusUnauthorized},
		{"wrong role", "Bearer " + signToken(t, secret, manager), http.StatusForbidden},
		{"admin", "Bearer " + signToken(t, secret, valid), http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			protected(models.RoleAdmin).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestCallerFromClaims(t *testing.T) {
	tests := []struct {
		name    string
		claims  jwt.MapClaims
		want    Caller
		wantErr bool
	}{
		{"manager", jwt.MapClaims{"user_id": float64(12), "role": "manager"}, Caller{UserID: 12, Role: models.RoleManager}, false},
		{"admin", jwt.MapClaims{"user_id": float64(1), "role": "admin"}, Caller{UserID: 1, Role: models.RoleAdmin}, false},
		{"fractional id", jwt.MapClaims{"user_id": 1.5, "role": "admin"}, Caller{}, true},
		{"string id", jwt.MapClaims{"user_id": "12", "role": "admin"}, Caller{}, true},
		{"zero id", jwt.MapClaims{"user_id": float64(0), "role": "admin"}, Caller{}, true},
		{"unknown role", jwt.MapClaims{"user_id": float64(3), "role": "organizer"}, Caller{}, true},
		{"missing role", jwt.MapClaims{"user_id": float64(3)}, Caller{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := callerFromClaims(tt.claims)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthenticateRejectsUnknownRole(t *testing.T) {
	token := signToken(t, secret, jwt.MapClaims{"user_id": 4, "role": "organizer", "exp": time.Now().Add(time.Hour).Unix()})
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protected(models.RoleAdmin).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCallerRoundTrip(t *testing.T) {
	ctx := WithCaller(httptest.NewRequest(http.MethodGet, "/", nil).Context(), Caller{UserID: 9, Role: models.RoleManager})
	got, ok := CallerFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, Caller{UserID: 9, Role: models.RoleManager}, got)

	_, ok = CallerFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}

func TestRateLimit(t *testing.T) {
	handler := RateLimit(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodPost, "/", nil)
	other.RemoteAddr = "10.0.0.2:5000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}
