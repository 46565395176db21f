package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/resource-store/internal/domain"
	"github.com/resource-store/internal/domain/repository"
	"github.com/resource-store/internal/metrics"
	"github.com/resource-store/internal/pkg/errors"
)

// IngestResult - итог импорта пакета мест
type IngestResult struct {
	Received int                   `json:"received"`
	Saved    int                   `json:"saved"`
	Skipped  []domain.SkippedPlace `json:"skipped,omitempty"`
}

// IngestionUseCase maps provider places onto resources and upserts them by
// external id. Mapping is best effort per record; the write is one batch.
type IngestionUseCase struct {
	writer        repository.ResourceWriter
	placesRepo    repository.PlacesRepository
	logger        *zap.Logger
	defaultRadius float64
}

// NewIngestionUseCase - создание нового IngestionUseCase. placesRepo may be
// nil when no provider key is configured; SyncNearby then fails with
// ErrPlacesNotConfigured.
func NewIngestionUseCase(
	writer repository.ResourceWriter,
	placesRepo repository.PlacesRepository,
	logger *zap.Logger,
	defaultRadius float64,
) *IngestionUseCase {
	if defaultRadius <= 0 {
		defaultRadius = 5000
	}
	return &IngestionUseCase{
		writer:        writer,
		placesRepo:    placesRepo,
		logger:        logger,
		defaultRadius: defaultRadius,
	}
}

// PlacesConfigured reports whether SyncNearby can reach a provider.
func (uc *IngestionUseCase) PlacesConfigured() bool {
	return uc.placesRepo != nil
}

// MapPlace converts one provider record. The external id becomes both the
// resource id and its PlaceID so repeated ingestion overwrites in place.
func MapPlace(p domain.PlaceSearchResult) (*domain.Resource, error) {
	id := strings.TrimSpace(p.ID)
	name := strings.TrimSpace(p.DisplayName.Text)

	switch {
	case id == "":
		return nil, errors.ErrIngestionMapping.WithMessage("missing external id")
	case p.Location == nil:
		return nil, errors.ErrIngestionMapping.WithMessage("missing location")
	case name == "":
		return nil, errors.ErrIngestionMapping.WithMessage("missing display name")
	}

	center := domain.Point{Lat: p.Location.Latitude, Lon: p.Location.Longitude}
	if !center.Valid() {
		return nil, errors.ErrIngestionMapping.WithMessage("coordinates out of range")
	}

	r := &domain.Resource{
		ID:          id,
		Name:        name,
		Type:        domain.ResourceTypeFromPlacesTypes(p.Types),
		Latitude:    center.Lat,
		Longitude:   center.Lon,
		Address:     strings.TrimSpace(p.FormattedAddress),
		PlaceID:     &id,
		Rating:      p.Rating,
		RatingCount: p.UserRatingCount,
	}
	if len(p.Types) > 0 {
		r.Tags = append([]string(nil), p.Types...)
	}
	return r, nil
}

// Ingest maps the batch, drops unmappable records and saves the rest in one
// transaction.
func (uc *IngestionUseCase) Ingest(ctx context.Context, places []domain.PlaceSearchResult) (*IngestResult, error) {
	result := &IngestResult{Received: len(places)}

	resources := make([]*domain.Resource, 0, len(places))
	for i, p := range places {
		r, err := MapPlace(p)
		if err != nil {
			uc.logger.Warn("Skipping unmappable place",
				zap.Int("index", i),
				zap.String("place_id", p.ID),
				zap.Error(err))
			result.Skipped = append(result.Skipped, domain.SkippedPlace{
				Index:   i,
				PlaceID: p.ID,
				Reason:  mappingReason(err),
			})
			continue
		}
		resources = append(resources, r)
	}

	metrics.IngestedPlacesTotal.WithLabelValues("skipped").Add(float64(len(result.Skipped)))

	if len(resources) == 0 {
		return result, nil
	}

	if err := uc.writer.SaveAll(ctx, resources); err != nil {
		uc.logger.Error("Failed to save ingested resources",
			zap.Int("count", len(resources)),
			zap.Error(err))
		return nil, err
	}

	result.Saved = len(resources)
	metrics.IngestedPlacesTotal.WithLabelValues("saved").Add(float64(result.Saved))

	uc.logger.Info("Places ingested",
		zap.Int("received", result.Received),
		zap.Int("saved", result.Saved),
		zap.Int("skipped", len(result.Skipped)))

	return result, nil
}

// SyncNearby fetches places around a point and ingests them. A context
// cancelled after the fetch discards the batch without writing.
func (uc *IngestionUseCase) SyncNearby(ctx context.Context, req domain.SyncRequest) (*IngestResult, error) {
	if uc.placesRepo == nil {
		return nil, errors.ErrPlacesNotConfigured
	}

	search := domain.NearbySearch{
		Center:       domain.Point{Lat: req.Lat, Lon: req.Lon},
		RadiusMeters: req.RadiusMeters,
		MaxResults:   req.MaxResults,
	}
	if search.RadiusMeters <= 0 {
		search.RadiusMeters = uc.defaultRadius
	}
	for _, t := range req.Types {
		search.Types = append(search.Types, domain.NormalizeResourceType(t))
	}

	places, err := uc.placesRepo.SearchNearby(ctx, search)
	if err != nil {
		uc.logger.Error("Failed to fetch nearby places",
			zap.Float64("lat", req.Lat),
			zap.Float64("lon", req.Lon),
			zap.Error(err))
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		uc.logger.Warn("Sync cancelled before commit, batch discarded",
			zap.Int("places", len(places)))
		return nil, err
	}

	return uc.Ingest(ctx, places)
}

func mappingReason(err error) string {
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
