package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/resource-store/internal/config"
	"github.com/resource-store/internal/domain"
	"github.com/resource-store/internal/domain/repository"
	"github.com/resource-store/internal/metrics"
	apperrors "github.com/resource-store/internal/pkg/errors"
)

const (
	searchNearbyPath = "/v1/places:searchNearby"

	// Only the fields the ingestion mapping reads are billed and returned
	fieldMask = "places.id,places.displayName,places.formattedAddress,places.location," +
		"places.types,places.rating,places.userRatingCount,places.photos"

	// Лимит провайдера на maxResultCount
	maxResultCount = 20
)

type client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxResults int
	logger     *zap.Logger
}

// NewPlacesClient создает новый клиент для Places API
func NewPlacesClient(cfg *config.PlacesConfig, logger *zap.Logger) repository.PlacesRepository {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 || maxResults > maxResultCount {
		maxResults = maxResultCount
	}

	return &client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		maxResults: maxResults,
		logger:     logger,
	}
}

type searchNearbyRequest struct {
	IncludedTypes       []string            `json:"includedTypes,omitempty"`
	MaxResultCount      int                 `json:"maxResultCount"`
	RankPreference      string              `json:"rankPreference"`
	LocationRestriction locationRestriction `json:"locationRestriction"`
}

type locationRestriction struct {
	Circle circle `json:"circle"`
}

type circle struct {
	Center domain.PlaceLocation `json:"center"`
	Radius float64              `json:"radius"`
}

// SearchNearby возвращает места провайдера в радиусе от точки
func (c *client) SearchNearby(ctx context.Context, search domain.NearbySearch) ([]domain.PlaceSearchResult, error) {
	start := time.Now()
	places, err := c.searchNearby(ctx, search)
	metrics.PlacesRequestsTotal.WithLabelValues(metrics.Outcome(err)).Inc()
	metrics.PlacesDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	return places, err
}

func (c *client) searchNearby(ctx context.Context, search domain.NearbySearch) ([]domain.PlaceSearchResult, error) {
	if !search.Center.Valid() {
		return nil, apperrors.ErrInvalidCoordinates
	}
	// провайдер принимает радиус в (0, 50000]
	if search.RadiusMeters <= 0 || search.RadiusMeters > 50000 {
		return nil, apperrors.ErrInvalidRadius.WithDetails(map[string]interface{}{
			"radius_m": search.RadiusMeters,
		})
	}

	maxResults := search.MaxResults
	if maxResults <= 0 || maxResults > c.maxResults {
		maxResults = c.maxResults
	}

	body, err := json.Marshal(searchNearbyRequest{
		IncludedTypes:  domain.PlacesTypesFor(search.Types),
		MaxResultCount: maxResults,
		RankPreference: "DISTANCE",
		LocationRestriction: locationRestriction{
			Circle: circle{
				Center: domain.PlaceLocation{Latitude: search.Center.Lat, Longitude: search.Center.Lon},
				Radius: search.RadiusMeters,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + searchNearbyPath

	c.logger.Debug("Calling Places searchNearby",
		zap.Float64("lat", search.Center.Lat),
		zap.Float64("lon", search.Center.Lon),
		zap.Float64("radius_m", search.RadiusMeters),
		zap.Int("max_results", maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Error("Failed to execute request", zap.Error(err))
		return nil, apperrors.ErrPlacesUnavailable.Wrap(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		c.logger.Warn("Places API rate limit exceeded")
		return nil, apperrors.ErrPlacesRateLimited
	case resp.StatusCode != http.StatusOK:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("Places API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(respBody)))
		return nil, apperrors.ErrPlacesUnavailable.Wrap(
			fmt.Errorf("places API error: status %d, body: %s", resp.StatusCode, string(respBody)),
		)
	}

	var searchResp domain.PlacesSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return nil, apperrors.ErrPlacesUnavailable.Wrap(fmt.Errorf("failed to decode response: %w", err))
	}

	c.logger.Debug("Places searchNearby call successful",
		zap.Int("places", len(searchResp.Places)))

	return searchResp.Places, nil
}
