package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/resource-store/internal/domain"
	"github.com/resource-store/internal/usecase"
)

type mockStreamRepository struct {
	mock.Mock
}

func (m *mockStreamRepository) ClaimPending(ctx context.Context, stream, group, consumer string, minIdle time.Duration, count int64) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, minIdle, count)
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *mockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, count int64) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, count)
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *mockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	return m.Called(ctx, stream, group, messageID).Error(0)
}

func (m *mockStreamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs ...string) error {
	return m.Called(ctx, stream, group, messageIDs).Error(0)
}

func (m *mockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	return m.Called(ctx, stream, group).Error(0)
}

func (m *mockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	return m.Called(ctx, stream, data).Error(0)
}

type stubPlaces struct{}

func (stubPlaces) SearchNearby(context.Context, domain.NearbySearch) ([]domain.PlaceSearchResult, error) {
	return nil, nil
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) (int, []byte) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func TestIngestHandler_Async(t *testing.T) {
	stream := &mockStreamRepository{}
	ingestionUC := usecase.NewIngestionUseCase(nil, stubPlaces{}, zap.NewNop(), 0)
	h := NewIngestHandler(ingestionUC, stream, zap.NewNop())

	app := fiber.New()
	app.Post("/ingest/places", h.IngestPlaces)
	app.Post("/ingest/sync", h.Sync)

	t.Run("places batch is queued", func(t *testing.T) {
		stream.On("PublishToStream", mock.Anything, domain.StreamPlacesIngest,
			mock.MatchedBy(func(e domain.PlacesIngestEvent) bool {
				return len(e.Places) == 1 && e.Places[0].ID == "ChIJ1" && e.Sync == nil && e.Source == "api"
			})).Return(nil).Once()

		status, body := postJSON(t, app, "/ingest/places", map[string]interface{}{
			"async": true,
			"places": []map[string]interface{}{
				{"id": "ChIJ1", "displayName": map[string]string{"text": "Library"}},
			},
		})
		require.Equal(t, fiber.StatusAccepted, status)

		var resp struct {
			Data struct {
				RequestID string `json:"request_id"`
				Queued    bool   `json:"queued"`
				Received  int    `json:"received"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(body, &resp))
		assert.True(t, resp.Data.Queued)
		assert.NotEmpty(t, resp.Data.RequestID)
		assert.Equal(t, 1, resp.Data.Received)
	})

	t.Run("sync request is queued", func(t *testing.T) {
		stream.On("PublishToStream", mock.Anything, domain.StreamPlacesIngest,
			mock.MatchedBy(func(e domain.PlacesIngestEvent) bool {
				return e.Sync != nil && e.Sync.Lat == 37.77 && e.Sync.RadiusMeters == 1500
			})).Return(nil).Once()

		status, _ := postJSON(t, app, "/ingest/sync", map[string]interface{}{
			"async":    true,
			"lat":      37.77,
			"lon":      -122.42,
			"radius_m": 1500,
		})
		assert.Equal(t, fiber.StatusAccepted, status)
	})

	t.Run("publish failure", func(t *testing.T) {
		stream.On("PublishToStream", mock.Anything, domain.StreamPlacesIngest, mock.Anything).
			Return(errors.New("redis down")).Once()

		status, body := postJSON(t, app, "/ingest/sync", map[string]interface{}{
			"async": true,
			"lat":   1,
			"lon":   1,
		})
		assert.Equal(t, fiber.StatusServiceUnavailable, status)
		assert.Contains(t, string(body), "QUEUE_UNAVAILABLE")
	})

	t.Run("invalid body", func(t *testing.T) {
		status, body := postJSON(t, app, "/ingest/sync", map[string]interface{}{
			"lat": 91,
			"lon": 1,
		})
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Contains(t, string(body), "INVALID_REQUEST")
	})

	stream.AssertExpectations(t)
}
