package slots

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"cogsaver/core/savefile"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) (*fiber.App, *Service) {
	t.Helper()

	svc, _, _ := newTestService(t)
	app := fiber.New()
	handler := NewHandler(svc)
	handler.RegisterRoutes(app)
	return app, svc
}

func TestHandleQuicksave(t *testing.T) {
	t.Run("CreatesSlot", func(t *testing.T) {
		app, _ := setupTestApp(t)

		req := httptest.NewRequest("POST", "/slots/quicksave", nil)
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "quicksaved", body["status"])
		assert.NotEmpty(t, body["path"])
	})

	t.Run("NoGameSelected", func(t *testing.T) {
		app := fiber.New()
		handler := NewHandler(NewService(savefile.Config{}, nil, nil, zap.NewNop()))
		handler.RegisterRoutes(app)

		req := httptest.NewRequest("POST", "/slots/quicksave", nil)
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})
}

func TestHandleQuickload(t *testing.T) {
	t.Run("EmptySlot", func(t *testing.T) {
		app, _ := setupTestApp(t)

		req := httptest.NewRequest("POST", "/slots/quickload", nil)
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("AfterQuicksave", func(t *testing.T) {
		app, _ := setupTestApp(t)
		resp, err := app.Test(httptest.NewRequest("POST", "/slots/quicksave", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		resp, err = app.Test(httptest.NewRequest("POST", "/slots/quickload", nil))

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestHandleCreate(t *testing.T) {
	t.Run("WithLabel", func(t *testing.T) {
		app, _ := setupTestApp(t)

		req := httptest.NewRequest("POST", "/saves", strings.NewReader(`{"label":"before boss"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

		var save Save
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&save))
		assert.Equal(t, "before boss.cogsav", save.FileName)
	})

	t.Run("WithoutBodySuggestsName", func(t *testing.T) {
		app, _ := setupTestApp(t)

		req := httptest.NewRequest("POST", "/saves", nil)
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

		var save Save
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&save))
		assert.Contains(t, save.FileName, "Talia")
	})
}

func TestHandleList(t *testing.T) {
	app, _ := setupTestApp(t)
	req := httptest.NewRequest("POST", "/saves", strings.NewReader(`{"label":"one"}`))
	req.Header.Set("Content-Type", "application/json")
	_, err := app.Test(req)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/saves", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var saves []Save
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&saves))
	require.Len(t, saves, 1)
	assert.Equal(t, "one.cogsav", saves[0].FileName)
}

func TestHandleRestore(t *testing.T) {
	t.Run("UnknownReference", func(t *testing.T) {
		app, _ := setupTestApp(t)

		resp, err := app.Test(httptest.NewRequest("POST", "/saves/never-was/restore", nil))

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("KnownSave", func(t *testing.T) {
		app, _ := setupTestApp(t)
		req := httptest.NewRequest("POST", "/saves", strings.NewReader(`{"label":"checkpoint"}`))
		req.Header.Set("Content-Type", "application/json")
		_, err := app.Test(req)
		require.NoError(t, err)

		resp, err := app.Test(httptest.NewRequest("POST", "/saves/checkpoint/restore", nil))

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "restored", body["status"])
	})
}

func TestHandleDelete(t *testing.T) {
	app, _ := setupTestApp(t)
	req := httptest.NewRequest("POST", "/saves", strings.NewReader(`{"label":"doomed"}`))
	req.Header.Set("Content-Type", "application/json")
	_, err := app.Test(req)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/saves/doomed", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/saves", nil))
	require.NoError(t, err)
	var saves []Save
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&saves))
	assert.Empty(t, saves)
}
