package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/resource-store/internal/config"
	httpdelivery "github.com/resource-store/internal/delivery/http"
	"github.com/resource-store/internal/delivery/http/handler"
	"github.com/resource-store/internal/repository/sqlstore"
	"github.com/resource-store/internal/repository/sqlstore/testhelpers"
	"github.com/resource-store/internal/usecase"
)

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Error map[string]interface{} `json:"error"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	logger := zap.NewNop()
	tdb := testhelpers.SetupTestDB(t)
	repo := sqlstore.NewResourceRepository(tdb.DB)

	resourceUC := usecase.NewResourceUseCase(repo, nil, logger, 0)
	ingestionUC := usecase.NewIngestionUseCase(resourceUC, nil, logger, 0)

	cfg := &config.Config{Metrics: config.MetricsConfig{Enabled: true}}
	server := httpdelivery.NewServer(
		cfg,
		logger,
		handler.NewResourceHandler(resourceUC, logger),
		handler.NewIngestHandler(ingestionUC, nil, logger),
		handler.NewHealthHandler(logger, map[string]handler.HealthChecker{"database": tdb.DB}),
	)
	return server.App()
}

func do(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, envelope) {
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

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp.StatusCode, env
}

type resourceBody struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	DistanceMeters *int    `json:"distance_meters"`
	DistanceText   string  `json:"distance_text"`
}

type listBody struct {
	Resources []resourceBody `json:"resources"`
	Total     int            `json:"total"`
}

func TestResourceRoutes(t *testing.T) {
	app := newTestApp(t)

	status, env := do(t, app, "POST", "/api/v1/resources", map[string]interface{}{
		"name":        "Glide Memorial",
		"type":        "Food Bank",
		"description": "Daily meals",
		"latitude":    37.7853,
		"longitude":   -122.4115,
	})
	require.Equal(t, fiber.StatusCreated, status)

	var created resourceBody
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "food_bank", created.Type)

	t.Run("get", func(t *testing.T) {
		status, env := do(t, app, "GET", "/api/v1/resources/"+created.ID, nil)
		require.Equal(t, 200, status)

		var got resourceBody
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "Glide Memorial", got.Name)
	})

	t.Run("get missing", func(t *testing.T) {
		status, env := do(t, app, "GET", "/api/v1/resources/nope", nil)
		assert.Equal(t, 404, status)
		assert.Equal(t, "RESOURCE_NOT_FOUND", env.Error["code"])
	})

	t.Run("create invalid", func(t *testing.T) {
		status, env := do(t, app, "POST", "/api/v1/resources", map[string]interface{}{
			"name":      "Nowhere",
			"latitude":  100,
			"longitude": 0,
		})
		assert.Equal(t, 400, status)
		assert.Equal(t, "INVALID_REQUEST", env.Error["code"])
	})

	t.Run("search", func(t *testing.T) {
		status, env := do(t, app, "GET", "/api/v1/resources/search?q=MEALS", nil)
		require.Equal(t, 200, status)

		var list listBody
		require.NoError(t, json.Unmarshal(env.Data, &list))
		assert.Equal(t, 1, list.Total)
	})

	t.Run("nearby", func(t *testing.T) {
		status, env := do(t, app, "POST", "/api/v1/resources/nearby", map[string]interface{}{
			"lat":      37.7749,
			"lon":      -122.4194,
			"radius_m": 2000,
		})
		require.Equal(t, 200, status)

		var list listBody
		require.NoError(t, json.Unmarshal(env.Data, &list))
		require.Len(t, list.Resources, 1)
		require.NotNil(t, list.Resources[0].DistanceMeters)
		assert.True(t, strings.HasSuffix(list.Resources[0].DistanceText, "km"))
	})

	t.Run("nearby negative radius", func(t *testing.T) {
		status, _ := do(t, app, "POST", "/api/v1/resources/nearby", map[string]interface{}{
			"lat":      37.7749,
			"lon":      -122.4194,
			"radius_m": -5,
		})
		assert.Equal(t, 400, status)
	})

	t.Run("patch", func(t *testing.T) {
		status, env := do(t, app, "PATCH", "/api/v1/resources/"+created.ID, map[string]interface{}{
			"name": "Glide Church",
		})
		require.Equal(t, 200, status)

		var got resourceBody
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "Glide Church", got.Name)
		assert.Equal(t, "food_bank", got.Type)
	})

	t.Run("count and types", func(t *testing.T) {
		status, env := do(t, app, "GET", "/api/v1/resources/count", nil)
		require.Equal(t, 200, status)
		assert.JSONEq(t, `{"count":1}`, string(env.Data))

		status, _ = do(t, app, "GET", "/api/v1/resource-types", nil)
		assert.Equal(t, 200, status)
	})

	t.Run("delete", func(t *testing.T) {
		status, _ := do(t, app, "DELETE", "/api/v1/resources/"+created.ID, nil)
		assert.Equal(t, fiber.StatusNoContent, status)

		status, env := do(t, app, "GET", "/api/v1/resources/"+created.ID+"/exists", nil)
		require.Equal(t, 200, status)
		assert.JSONEq(t, `{"id":"`+created.ID+`","exists":false}`, string(env.Data))
	})
}

func TestBatchRoutes(t *testing.T) {
	app := newTestApp(t)

	status, _ := do(t, app, "PUT", "/api/v1/resources/batch", map[string]interface{}{
		"resources": []map[string]interface{}{
			{"id": "a", "name": "Alpha", "latitude": 1, "longitude": 1},
			{"id": "b", "name": "Beta", "latitude": 2, "longitude": 2},
			{"id": "c", "name": "Gamma", "latitude": 3, "longitude": 3},
		},
	})
	require.Equal(t, 200, status)

	status, _ = do(t, app, "POST", "/api/v1/resources/delete", map[string]interface{}{
		"ids": []string{"a", "missing"},
	})
	require.Equal(t, fiber.StatusNoContent, status)

	status, env := do(t, app, "GET", "/api/v1/resources", nil)
	require.Equal(t, 200, status)
	var list listBody
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Resources, 2)
	assert.Equal(t, "Beta", list.Resources[0].Name)

	status, _ = do(t, app, "DELETE", "/api/v1/resources", nil)
	require.Equal(t, fiber.StatusNoContent, status)

	status, env = do(t, app, "GET", "/api/v1/resources", nil)
	require.Equal(t, 200, status)
	assert.JSONEq(t, `{"resources":[],"total":0}`, string(env.Data))
}

func TestIngestRoutes(t *testing.T) {
	app := newTestApp(t)

	places := []map[string]interface{}{
		{
			"id":          "ChIJ1",
			"displayName": map[string]interface{}{"text": "Main Library"},
			"location":    map[string]interface{}{"latitude": 37.779, "longitude": -122.4156},
			"types":       []string{"library"},
		},
		{
			"id":          "ChIJ2",
			"displayName": map[string]interface{}{"text": "No Location"},
		},
	}

	t.Run("inline", func(t *testing.T) {
		status, env := do(t, app, "POST", "/api/v1/ingest/places", map[string]interface{}{"places": places})
		require.Equal(t, 200, status)
		assert.JSONEq(t,
			`{"received":2,"saved":1,"skipped":[{"index":1,"place_id":"ChIJ2","reason":"missing location"}]}`,
			string(env.Data))

		status, _ = do(t, app, "GET", "/api/v1/resources/ChIJ1", nil)
		assert.Equal(t, 200, status)
	})

	t.Run("async without queue", func(t *testing.T) {
		status, env := do(t, app, "POST", "/api/v1/ingest/places", map[string]interface{}{
			"places": places,
			"async":  true,
		})
		assert.Equal(t, fiber.StatusServiceUnavailable, status)
		assert.Equal(t, "QUEUE_UNAVAILABLE", env.Error["code"])
	})

	t.Run("sync without provider", func(t *testing.T) {
		status, env := do(t, app, "POST", "/api/v1/ingest/sync", map[string]interface{}{
			"lat": 37.77,
			"lon": -122.42,
		})
		assert.Equal(t, fiber.StatusServiceUnavailable, status)
		assert.Equal(t, "PLACES_NOT_CONFIGURED", env.Error["code"])
	})
}

func TestOperationalRoutes(t *testing.T) {
	app := newTestApp(t)

	status, _ := do(t, app, "GET", "/api/v1/health", nil)
	assert.Equal(t, 200, status)

	req := httptest.NewRequest("GET", "/metrics", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "resource_store_http_requests_total")

	status, env := do(t, app, "GET", "/api/v1/unknown", nil)
	assert.Equal(t, 404, status)
	assert.Equal(t, "NOT_FOUND", env.Error["code"])
}
