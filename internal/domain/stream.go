package domain

import "github.com/google/uuid"

// Stream names
const (
	StreamPlacesIngest = "stream:places:ingest"
	StreamPlacesDone   = "stream:places:done"
)

// PlacesIngestEvent - входящее событие на импорт мест.
// Either Places carries an already fetched batch, or Sync asks the worker to
// fetch one from the provider first.
type PlacesIngestEvent struct {
	RequestID uuid.UUID           `json:"request_id"`
	Source    string              `json:"source,omitempty"`
	Places    []PlaceSearchResult `json:"places,omitempty"`
	Sync      *SyncRequest        `json:"sync,omitempty"`
}

// SyncRequest asks for a provider fetch around a point.
type SyncRequest struct {
	Lat          float64  `json:"lat"`
	Lon          float64  `json:"lon"`
	RadiusMeters float64  `json:"radius_m"`
	Types        []string `json:"types,omitempty"`
	MaxResults   int      `json:"max_results,omitempty"`
}

// PlacesDoneEvent - результат импорта
type PlacesDoneEvent struct {
	RequestID uuid.UUID      `json:"request_id"`
	Received  int            `json:"received"`
	Saved     int            `json:"saved"`
	Skipped   []SkippedPlace `json:"skipped,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// SkippedPlace records why one external place was left out of a batch.
type SkippedPlace struct {
	Index   int    `json:"index"`
	PlaceID string `json:"place_id,omitempty"`
	Reason  string `json:"reason"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
