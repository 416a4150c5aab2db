package statefield

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

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	svc, _, _ := newTestService(t)
	app := fiber.New()
	NewHandler(svc).RegisterRoutes(app)
	return app
}

func TestHandleShow(t *testing.T) {
	t.Run("ReturnsViewWithFields", func(t *testing.T) {
		app := setupTestApp(t)

		resp, err := app.Test(httptest.NewRequest("GET", "/state", nil))

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var view View
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
		assert.Equal(t, "Talia", view.Character)
		assert.NotEmpty(t, view.Fields)
	})

	t.Run("NoGameSelected", func(t *testing.T) {
		app := fiber.New()
		NewHandler(NewService(savefile.Config{}, nil, zap.NewNop())).RegisterRoutes(app)

		resp, err := app.Test(httptest.NewRequest("GET", "/state", nil))

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})
}

func TestHandleGetField(t *testing.T) {
	t.Run("FindsField", func(t *testing.T) {
		app := setupTestApp(t)

		resp, err := app.Test(httptest.NewRequest("GET", "/state/field?path=stats.name", nil))

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var field Field
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&field))
		assert.Equal(t, "Talia", field.Value)
	})

	t.Run("MissingPathParameter", func(t *testing.T) {
		app := setupTestApp(t)

		resp, err := app.Test(httptest.NewRequest("GET", "/state/field", nil))

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("UnknownPath", func(t *testing.T) {
		app := setupTestApp(t)

		resp, err := app.Test(httptest.NewRequest("GET", "/state/field?path=stats.nope", nil))

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestHandleSetField(t *testing.T) {
	t.Run("RoundTrips", func(t *testing.T) {
		app := setupTestApp(t)

		req := httptest.NewRequest("PUT", "/state/field", strings.NewReader(`{"path":"stats.health","value":"12"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		resp, err = app.Test(httptest.NewRequest("GET", "/state/field?path=stats.health", nil))
		require.NoError(t, err)

		var field Field
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&field))
		assert.Equal(t, "number", field.Type)
		assert.Equal(t, "12", field.Value)
	})

	t.Run("UnknownPathWithoutCreate", func(t *testing.T) {
		app := setupTestApp(t)

		req := httptest.NewRequest("PUT", "/state/field", strings.NewReader(`{"path":"stats.luck","value":"7"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("CreateFlagAddsField", func(t *testing.T) {
		app := setupTestApp(t)

		req := httptest.NewRequest("PUT", "/state/field", strings.NewReader(`{"path":"stats.luck","value":"7","create":true}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestHandleUnsetField(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/state/field?path=stats.brave", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/state/field?path=stats.brave", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
