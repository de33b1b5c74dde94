package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"murmur/internal/config"
	"murmur/internal/repository"
	"murmur/internal/service"
	"murmur/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer builds a Server over a fresh in-memory store. The
// Prometheus middleware is left nil so repeated test setups do not
// re-register collectors.
func newTestServer() *Server {
	mem := store.NewMemory(repository.Collections()...)
	userRepo := repository.NewUserRepository(mem)
	thoughtRepo := repository.NewThoughtRepository(mem)

	return &Server{
		config:          &config.Config{Env: "test", StoreBackend: config.BackendMemory, Port: "0", RateLimitRPM: 1000},
		store:           mem,
		userRepo:        userRepo,
		thoughtRepo:     thoughtRepo,
		userService:     service.NewUserService(userRepo, thoughtRepo),
		thoughtService:  service.NewThoughtService(thoughtRepo, userRepo),
		reactionService: service.NewReactionService(thoughtRepo),
		friendService:   service.NewFriendService(userRepo),
		repairService:   service.NewRepairService(userRepo, thoughtRepo),
	}
}

func newTestApp(s *Server) *fiber.App {
	app := fiber.New()
	s.SetupRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer()
	app := newTestApp(s)

	resp, _ := doJSON(t, app, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw := doJSON(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]any](t, raw)
	assert.Equal(t, "healthy", body["status"])
}
