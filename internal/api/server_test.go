package api

import (
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vecindario/vecindario-server/internal/auth"
	"github.com/vecindario/vecindario-server/internal/service"
	"github.com/vecindario/vecindario-server/internal/store"
	"github.com/vecindario/vecindario-server/internal/store/sqlite"
)

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// testServer wraps the API server for handler tests.
type testServer struct {
	*Server
	api humatest.TestAPI
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	directory, err := store.New(filepath.Join(tmpDir, "directory"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = directory.Close() })

	registry, err := sqlite.Open(filepath.Join(tmpDir, "registry.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = registry.Close() })

	tokenService, err := auth.NewTokenService(strings.Repeat("cd", 32), 15*time.Minute)
	require.NoError(t, err)

	identityService := service.NewIdentityService(directory, registry, logger)
	authService := service.NewAuthService(identityService, tokenService, logger)
	t.Cleanup(authService.Close)

	services := &Services{
		Auth:       authService,
		Identity:   identityService,
		Person:     service.NewPersonService(directory, logger),
		Amenity:    service.NewAmenityService(directory, logger),
		Booking:    service.NewBookingService(directory, identityService, logger),
		Registry:   service.NewRegistryService(registry, logger),
		Membership: service.NewMembershipService(registry, logger),
	}

	s := NewServer(directory, registry, services, logger)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
	}
}

// registerAndLogin creates a person and returns a Bearer header value.
func (ts *testServer) registerAndLogin(t *testing.T, email string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"first_name": "Test",
		"last_name":  "Person",
		"email":      email,
		"password":   "TestPassword123",
	})
	require.Equal(t, http.StatusOK, resp.Code, "register failed: %s", resp.Body.String())

	resp = ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    email,
		"password": "TestPassword123",
	})
	require.Equal(t, http.StatusOK, resp.Code, "login failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	require.NotEmpty(t, envelope.Data.AccessToken)

	return "Authorization: Bearer " + envelope.Data.AccessToken
}

func TestHealthEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	req, err := http.NewRequest(http.MethodGet, "/health", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	ts.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "healthy")
}

func TestRegisterAndMe(t *testing.T) {
	ts := setupTestServer(t)
	authHeader := ts.registerAndLogin(t, "me@example.com")

	resp := ts.api.Get("/api/v1/auth/me", authHeader)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[PersonResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "me@example.com", envelope.Data.Email)
}

func TestMe_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/auth/me")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerAndLogin(t, "dup@example.com")

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"first_name": "Other",
		"last_name":  "Person",
		"email":      "dup@example.com",
		"password":   "TestPassword123",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerAndLogin(t, "locked@example.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "locked@example.com",
		"password": "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
