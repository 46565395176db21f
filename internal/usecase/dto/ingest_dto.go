package dto

import (
	"github.com/resource-store/internal/domain"
)

// IngestPlacesRequest - пакет мест провайдера на импорт
type IngestPlacesRequest struct {
	Places []domain.PlaceSearchResult `json:"places" validate:"required,min=1,max=1000"`
	// Async queues the batch on the ingest stream instead of saving inline
	Async bool `json:"async,omitempty"`
}

// SyncRequest - выборка мест у провайдера и импорт
type SyncRequest struct {
	Lat          float64  `json:"lat" validate:"min=-90,max=90"`
	Lon          float64  `json:"lon" validate:"min=-180,max=180"`
	RadiusMeters float64  `json:"radius_m" validate:"omitempty,gt=0,max=50000"`
	Types        []string `json:"types,omitempty" validate:"omitempty,max=8,dive,max=64"`
	MaxResults   int      `json:"max_results,omitempty" validate:"omitempty,min=1,max=20"`
	Async        bool     `json:"async,omitempty"`
}

// ToDomain converts to the stream payload shape.
func (r SyncRequest) ToDomain() domain.SyncRequest {
	return domain.SyncRequest{
		Lat:          r.Lat,
		Lon:          r.Lon,
		RadiusMeters: r.RadiusMeters,
		Types:        r.Types,
		MaxResults:   r.MaxResults,
	}
}

// IngestResponse - результат импорта или постановки в очередь
type IngestResponse struct {
	RequestID string                `json:"request_id,omitempty"`
	Queued    bool                  `json:"queued,omitempty"`
	Received  int                   `json:"received"`
	Saved     int                   `json:"saved"`
	Skipped   []domain.SkippedPlace `json:"skipped,omitempty"`
}
