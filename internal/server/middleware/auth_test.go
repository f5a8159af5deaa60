package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClaims struct{ userID uuid.UUID }

func (c *testClaims) GetUserID() uuid.UUID { return c.userID }

type testTokenValidator map[string]uuid.UUID

func (v testTokenValidator) ValidateToken(token string) (UserIDGetter, error) {
	id, ok := v[token]
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return &testClaims{userID: id}, nil
}

func echoUser(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetUserID(r)
		require.NoError(t, err)
		_, _ = w.Write([]byte(id.String()))
	})
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	validator := testTokenValidator{"good-token": userID, "nil-user": uuid.Nil}
	handler := AuthMiddleware(validator)(echoUser(t))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid", "Bearer good-token", http.StatusOK},
		{"case-insensitive scheme", "bearer good-token", http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good-token", http.StatusUnauthorized},
		{"no token", "Bearer", http.StatusUnauthorized},
		{"extra parts", "Bearer good-token extra", http.StatusUnauthorized},
		{"unknown token", "Bearer bad-token", http.StatusUnauthorized},
		{"nil user", "Bearer nil-user", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, userID.String(), w.Body.String())
				return
			}
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "Unauthorized", body["error"])
		})
	}
}

func TestGetUserID_Missing(t *testing.T) {
	_, err := GetUserID(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Error(t, err)
}

func TestWithUserID(t *testing.T) {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), id))

	got, err := GetUserID(req)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestOptionalAuth(t *testing.T) {
	userID := uuid.New()
	validator := testTokenValidator{"good-token": userID}
	handler := OptionalAuth(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetUserID(r)
		if err != nil {
			_, _ = w.Write([]byte("anonymous"))
			return
		}
		_, _ = w.Write([]byte(id.String()))
	}))

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"valid token", "Bearer good-token", userID.String()},
		{"no header", "", "anonymous"},
		{"bad token", "Bearer nope", "anonymous"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}
