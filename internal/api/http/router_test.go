package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/marknotes/notes-service/internal/api/http/handlers"
	"github.com/marknotes/notes-service/internal/auth"
	"github.com/marknotes/notes-service/internal/config"
	"github.com/marknotes/notes-service/internal/events"
	"github.com/marknotes/notes-service/internal/observability"
	"github.com/marknotes/notes-service/internal/service"
	"github.com/marknotes/notes-service/internal/store"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		ResetTokenTTLMinutes:  10,
		BcryptCost:            4,
		AdminEmail:            "admin@example.com",
		AdminPassword:         "admin123",
		AdminFullName:         "Administrator",
	}

	st := store.NewStore()
	revoker := auth.NewMemoryRevoker()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL())
	dispatcher := events.NewInMemoryDispatcher()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	adminService, err := service.NewAdminService(cfg, service.AdminDependencies{
		UserRepo:     st.Users(),
		NoteRepo:     st.Notes(),
		TokenManager: tokens,
		Revoker:      revoker,
		Dispatcher:   dispatcher,
	})
	require.NoError(t, err)

	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:          st.Users(),
		PasswordResetRepo: st.PasswordResets(),
		TokenManager:      tokens,
		Revoker:           revoker,
		Dispatcher:        dispatcher,
		Logger:            logger,
	})
	noteService := service.NewNoteService(st.Notes(), dispatcher, cfg.BcryptCost)

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("test-service", "test", nil, nil, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Notes:          handlers.NewNotesHandler(noteService),
		Profile:        handlers.NewProfileHandler(authService),
		Admin:          handlers.NewAdminHandler(adminService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, revoker, st.Users(), adminService.Identity()),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
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
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

func errorCode(t *testing.T, body map[string]any) string {
	t.Helper()

	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok, "expected error envelope, got %v", body)
	code, _ := errObj["code"].(string)
	return code
}

func adminToken(t *testing.T, app *fiber.App) string {
	t.Helper()

	resp, body := doJSON(t, app, fiber.MethodPost, "/admin/login", "", map[string]string{
		"email":    "admin@example.com",
		"password": "admin123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	return data["auth"].(map[string]any)["token"].(string)
}

func TestHealthLive(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, fiber.MethodGet, "/health/live", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alive", body["status"])
}

func TestUnknownRouteErrorShape(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, fiber.MethodGet, "/nope", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))
}

func TestSignupApproveLoginFlow(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, fiber.MethodPost, "/auth/signup", "", map[string]string{
		"email":     "new@example.com",
		"password":  "secret123",
		"full_name": "New User",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	userID := body["data"].(map[string]any)["user"].(map[string]any)["id"].(string)
	require.NotEmpty(t, userID)

	// The approval gate blocks login until an admin acts.
	resp, body = doJSON(t, app, fiber.MethodPost, "/auth/login", "", map[string]string{
		"email":    "new@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "PENDING_APPROVAL", errorCode(t, body))

	admin := adminToken(t, app)
	resp, _ = doJSON(t, app, fiber.MethodPost, "/admin/users/"+userID+"/approve", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, fiber.MethodPost, "/auth/login", "", map[string]string{
		"email":    "new@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := body["data"].(map[string]any)["auth"].(map[string]any)["token"].(string)
	assert.NotEmpty(t, token)
}

func TestLoginUnknownEmail(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, fiber.MethodPost, "/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "whatever",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))
}

func userToken(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	resp, body := doJSON(t, app, fiber.MethodPost, "/auth/signup", "", map[string]string{
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	userID := body["data"].(map[string]any)["user"].(map[string]any)["id"].(string)

	admin := adminToken(t, app)
	resp, _ = doJSON(t, app, fiber.MethodPost, "/admin/users/"+userID+"/approve", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, fiber.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return body["data"].(map[string]any)["auth"].(map[string]any)["token"].(string)
}

func TestNoteLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)
	token := userToken(t, app, "owner@example.com")

	resp, body := doJSON(t, app, fiber.MethodPost, "/notes", token, map[string]string{
		"title":     "Groceries",
		"note_type": "normal",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	note := body["data"].(map[string]any)["note"].(map[string]any)
	noteID := note["id"].(string)
	assert.Equal(t, float64(1), note["version"])

	resp, body = doJSON(t, app, fiber.MethodPatch, "/notes/"+noteID, token, map[string]string{
		"content": "milk, eggs",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := body["data"].(map[string]any)["note"].(map[string]any)
	assert.Equal(t, "milk, eggs", updated["content"])
	assert.Equal(t, float64(2), updated["version"])

	// A stale version is rejected with CONFLICT.
	resp, body = doJSON(t, app, fiber.MethodPatch, "/notes/"+noteID, token, map[string]any{
		"content": "lost update",
		"version": 1,
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", errorCode(t, body))

	resp, body = doJSON(t, app, fiber.MethodGet, "/notes", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	notes := body["data"].(map[string]any)["notes"].([]any)
	require.Len(t, notes, 1)

	resp, _ = doJSON(t, app, fiber.MethodDelete, "/notes/"+noteID, token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Deleting again is still a success.
	resp, _ = doJSON(t, app, fiber.MethodDelete, "/notes/"+noteID, token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestNotesRequireAuthentication(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, fiber.MethodGet, "/notes", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, body))
}

func TestNotesAreOwnerScopedOverHTTP(t *testing.T) {
	app := newTestApp(t)
	ownerTok := userToken(t, app, "owner@example.com")
	otherTok := userToken(t, app, "other@example.com")

	resp, body := doJSON(t, app, fiber.MethodPost, "/notes", ownerTok, map[string]string{
		"title": "mine",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	noteID := body["data"].(map[string]any)["note"].(map[string]any)["id"].(string)

	resp, body = doJSON(t, app, fiber.MethodGet, "/notes/"+noteID, otherTok, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))
}

func TestUserTokenRejectedOnAdminRoutes(t *testing.T) {
	app := newTestApp(t)
	token := userToken(t, app, "owner@example.com")

	resp, body := doJSON(t, app, fiber.MethodGet, "/admin/users", token, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, body))
}

func TestLogoutRevokesSessionOverHTTP(t *testing.T) {
	app := newTestApp(t)
	token := userToken(t, app, "owner@example.com")

	resp, _ := doJSON(t, app, fiber.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body := doJSON(t, app, fiber.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, body))
}

func TestProfileMismatchForbidden(t *testing.T) {
	app := newTestApp(t)
	token := userToken(t, app, "owner@example.com")

	resp, body := doJSON(t, app, fiber.MethodGet, "/profile/someone-else", token, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, body))
}

func TestAdminRosterOverHTTP(t *testing.T) {
	app := newTestApp(t)
	admin := adminToken(t, app)

	resp, body := doJSON(t, app, fiber.MethodGet, "/admin/users", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	users := body["data"].(map[string]any)["users"].([]any)
	assert.Empty(t, users)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/admin/users", admin, map[string]string{
		"email":     "direct@example.com",
		"full_name": "Direct User",
		"password":  "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = doJSON(t, app, fiber.MethodGet, "/admin/users", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	users = body["data"].(map[string]any)["users"].([]any)
	require.Len(t, users, 1)
	assert.Equal(t, "approved", users[0].(map[string]any)["status"])
}

func TestValidationFailedOnEmptyBody(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, fiber.MethodPost, "/auth/signup", "", map[string]string{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, body))
}
