package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/types"
)

// newTestAuthHandler builds an AuthHandler over the in-memory DBClient
// from user_service_test.go, so no database is needed.
func newTestAuthHandler(_ *testing.T) (*AuthHandler, *fakeDBClient) {
	fake := newFakeDBClient()
	userSvc := NewUserService(fake, testPasswordConfig())
	jwtSvc := NewJWTService(&config.JWTConfig{
		Secret:          testJWTSecret,
		ExpirationHours: 24,
	})
	return NewAuthHandler(userSvc, jwtSvc), fake
}

// callAuth invokes one handler method with a JSON body and returns the
// recorder. rawBody, when set, is sent verbatim instead of body.
func callAuth(call func(http.ResponseWriter, *http.Request), method, path string, body any, rawBody string) *httptest.ResponseRecorder {
	payload := []byte(rawBody)
	if rawBody == "" {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	call(w, req)
	return w
}

func registerTestUser(t *testing.T, handler *AuthHandler, email, password string) types.LoginResponse {
	t.Helper()

	w := callAuth(handler.Register, http.MethodPost, "/auth/register", map[string]string{
		"name": "Test User", "email": email, "password": password,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, "registration failed: %s", w.Body.String())

	var resp types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.User)
	return resp
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("issues a token for a new account", func(t *testing.T) {
		handler, _ := newTestAuthHandler(t)
		resp := registerTestUser(t, handler, "new@example.com", "password123")

		assert.Equal(t, "new@example.com", resp.User.Email)
		assert.True(t, resp.User.PasswordSet)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		handler, _ := newTestAuthHandler(t)
		registerTestUser(t, handler, "dup@example.com", "password123")

		w := callAuth(handler.Register, http.MethodPost, "/auth/register", map[string]string{
			"name": "Second", "email": "dup@example.com", "password": "password456",
		}, "")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "email already registered")
	})
}

func TestAuthHandler_Register_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    map[string]string
		raw     string
		wantMsg string
	}{
		{name: "unparseable body", raw: "invalid json", wantMsg: "Invalid request body"},
		{name: "missing name", body: map[string]string{"email": "test@example.com", "password": "password123"}, wantMsg: "validation error"},
		{name: "empty name", body: map[string]string{"name": "", "email": "test@example.com", "password": "password123"}, wantMsg: "validation error"},
		{name: "invalid email", body: map[string]string{"name": "Test User", "email": "invalid-email", "password": "password123"}, wantMsg: "validation error"},
		{name: "missing email", body: map[string]string{"name": "Test User", "password": "password123"}, wantMsg: "validation error"},
		{name: "password too short", body: map[string]string{"name": "Test User", "email": "test@example.com", "password": "short"}, wantMsg: "validation error"},
		{name: "missing password", body: map[string]string{"name": "Test User", "email": "test@example.com"}, wantMsg: "validation error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := newTestAuthHandler(t)
			w := callAuth(handler.Register, http.MethodPost, "/auth/register", tt.body, tt.raw)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantMsg)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("valid credentials return the account and a token", func(t *testing.T) {
		handler, _ := newTestAuthHandler(t)
		registered := registerTestUser(t, handler, "login@example.com", "password123")

		w := callAuth(handler.Login, http.MethodPost, "/auth/login", map[string]string{
			"email": "login@example.com", "password": "password123",
		}, "")

		require.Equal(t, http.StatusOK, w.Code)
		var resp types.LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, registered.User.ID, resp.User.ID)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("wrong password is a 401", func(t *testing.T) {
		handler, _ := newTestAuthHandler(t)
		registerTestUser(t, handler, "wrongpw@example.com", "password123")

		w := callAuth(handler.Login, http.MethodPost, "/auth/login", map[string]string{
			"email": "wrongpw@example.com", "password": "not-the-password",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid email or password")
	})
}

func TestAuthHandler_Login_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    map[string]string
		raw     string
		wantMsg string
	}{
		{name: "unparseable body", raw: "invalid json", wantMsg: "Invalid request body"},
		{name: "missing email", body: map[string]string{"password": "password123"}, wantMsg: "validation error"},
		{name: "invalid email format", body: map[string]string{"email": "invalid-email", "password": "password123"}, wantMsg: "validation error"},
		{name: "missing password", body: map[string]string{"email": "test@example.com"}, wantMsg: "validation error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := newTestAuthHandler(t)
			w := callAuth(handler.Login, http.MethodPost, "/auth/login", tt.body, tt.raw)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantMsg)
		})
	}
}

func TestAuthHandler_UpdatePassword(t *testing.T) {
	update := func(handler *AuthHandler, userID uuid.UUID, body map[string]string, raw string) *httptest.ResponseRecorder {
		payload := []byte(raw)
		if raw == "" {
			payload, _ = json.Marshal(body)
		}
		req := httptest.NewRequest(http.MethodPut, "/users/me/password", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		handler.UpdatePasswordWithUserID(w, req, userID)
		return w
	}

	t.Run("correct current password succeeds", func(t *testing.T) {
		handler, _ := newTestAuthHandler(t)
		registered := registerTestUser(t, handler, "update@example.com", "oldpassword1")

		w := update(handler, registered.User.ID, map[string]string{
			"current_password": "oldpassword1", "new_password": "newpassword123",
		}, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Password updated successfully")
	})

	t.Run("wrong current password is a 401", func(t *testing.T) {
		handler, _ := newTestAuthHandler(t)
		registered := registerTestUser(t, handler, "mismatch@example.com", "oldpassword1")

		w := update(handler, registered.User.ID, map[string]string{
			"current_password": "not-the-password", "new_password": "newpassword123",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "current password is incorrect")
	})

	t.Run("bad requests", func(t *testing.T) {
		tests := []struct {
			name    string
			body    map[string]string
			raw     string
			wantMsg string
		}{
			{name: "unparseable body", raw: "invalid json", wantMsg: "Invalid request body"},
			{name: "missing current password", body: map[string]string{"new_password": "newpassword123"}, wantMsg: "validation error"},
			{name: "missing new password", body: map[string]string{"current_password": "oldpassword"}, wantMsg: "validation error"},
			{name: "new password too short", body: map[string]string{"current_password": "oldpassword", "new_password": "short"}, wantMsg: "validation error"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				handler, _ := newTestAuthHandler(t)
				registered := registerTestUser(t, handler, "validate@example.com", "password123")

				w := update(handler, registered.User.ID, tt.body, tt.raw)
				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Contains(t, w.Body.String(), tt.wantMsg)
			})
		}
	})
}
