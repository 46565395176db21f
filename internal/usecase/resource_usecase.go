package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/resource-store/internal/domain"
	"github.com/resource-store/internal/domain/repository"
	"github.com/resource-store/internal/metrics"
	"github.com/resource-store/internal/pkg/errors"
	"github.com/resource-store/internal/pkg/utils"
	"github.com/resource-store/internal/usecase/dto"
)

// ResourceUseCase - use case для CRUD и поиска ресурсов.
// It is the write gate used by every caller, so cached search results are
// invalidated on each successful write.
type ResourceUseCase struct {
	repo      repository.ResourceRepository
	cacheRepo repository.CacheRepository
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewResourceUseCase - создание нового ResourceUseCase. cacheRepo may be nil.
func NewResourceUseCase(
	repo repository.ResourceRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *ResourceUseCase {
	return &ResourceUseCase{
		repo:      repo,
		cacheRepo: cacheRepo,
		logger:    logger,
		cacheTTL:  cacheTTL,
	}
}

var _ repository.ResourceWriter = (*ResourceUseCase)(nil)

func (uc *ResourceUseCase) GetAll(ctx context.Context) ([]*domain.Resource, error) {
	return uc.Search(ctx, "")
}

// Get returns ErrResourceNotFound when the id is unknown.
func (uc *ResourceUseCase) Get(ctx context.Context, id string) (*domain.Resource, error) {
	r, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, errors.ErrResourceNotFound.WithDetails(map[string]interface{}{"id": id})
	}
	return r, nil
}

func (uc *ResourceUseCase) Exists(ctx context.Context, id string) (bool, error) {
	return uc.repo.Exists(ctx, id)
}

func (uc *ResourceUseCase) Count(ctx context.Context) (int, error) {
	return uc.repo.Count(ctx)
}

// Search - текстовый поиск, пустой запрос возвращает все ресурсы
func (uc *ResourceUseCase) Search(ctx context.Context, query string) ([]*domain.Resource, error) {
	return uc.cached(ctx, "search:"+query, func() ([]*domain.Resource, error) {
		if query == "" {
			return uc.repo.GetAll(ctx)
		}
		return uc.repo.Search(ctx, query)
	})
}

// SearchNearby - поиск в радиусе. Results keep the store order (by name) and
// carry the distance to the center.
func (uc *ResourceUseCase) SearchNearby(ctx context.Context, req dto.NearbyRequest) ([]*domain.Resource, error) {
	if !utils.ValidateCoordinates(req.Lat, req.Lon) {
		return nil, errors.ErrInvalidCoordinates
	}
	if !utils.ValidateRadius(req.RadiusMeters) {
		return nil, errors.ErrInvalidRadius.WithDetails(map[string]interface{}{"radius_m": req.RadiusMeters})
	}

	query := domain.RegionQuery{
		Query:        req.Query,
		Center:       domain.Point{Lat: req.Lat, Lon: req.Lon},
		RadiusMeters: req.RadiusMeters,
	}
	if strings.TrimSpace(req.Type) != "" {
		query.Type = domain.NormalizeResourceType(req.Type)
	}

	key := fmt.Sprintf("nearby:%.6f:%.6f:%.1f:%s:%t:%s",
		req.Lat, req.Lon, req.RadiusMeters, query.Type, req.Exact, req.Query)

	found, err := uc.cached(ctx, key, func() ([]*domain.Resource, error) {
		return uc.repo.SearchByRegion(ctx, query)
	})
	if err != nil {
		uc.logger.Error("Failed to search resources by region", zap.Error(err))
		return nil, err
	}

	results := make([]*domain.Resource, 0, len(found))
	for _, r := range found {
		meters := utils.DistanceMeters(req.Lat, req.Lon, r.Latitude, r.Longitude)
		if req.Exact && float64(meters) > req.RadiusMeters {
			continue
		}
		r.DistanceMeters = &meters
		r.DistanceText = utils.FormatDistance(meters)
		results = append(results, r)
	}

	return results, nil
}

func (uc *ResourceUseCase) Save(ctx context.Context, r *domain.Resource) error {
	err := uc.repo.Save(ctx, r)
	uc.afterWrite(ctx, "save", err)
	return err
}

func (uc *ResourceUseCase) SaveAll(ctx context.Context, resources []*domain.Resource) error {
	err := uc.repo.SaveAll(ctx, resources)
	uc.afterWrite(ctx, "save_all", err)
	return err
}

func (uc *ResourceUseCase) Update(
	ctx context.Context,
	id string,
	mutate func(*domain.Resource) error,
) (*domain.Resource, error) {
	r, err := uc.repo.Update(ctx, id, mutate)
	uc.afterWrite(ctx, "update", err)
	return r, err
}

func (uc *ResourceUseCase) Delete(ctx context.Context, id string) error {
	err := uc.repo.Delete(ctx, id)
	uc.afterWrite(ctx, "delete", err)
	return err
}

func (uc *ResourceUseCase) DeleteByIDs(ctx context.Context, ids []string) error {
	err := uc.repo.DeleteByIDs(ctx, ids)
	uc.afterWrite(ctx, "delete_by_ids", err)
	return err
}

func (uc *ResourceUseCase) DeleteAll(ctx context.Context) error {
	err := uc.repo.DeleteAll(ctx)
	uc.afterWrite(ctx, "delete_all", err)
	if err == nil {
		uc.logger.Info("All resources deleted")
	}
	return err
}

// ResourceTypes - справочник типов ресурсов и категорий
func (uc *ResourceUseCase) ResourceTypes() dto.ResourceTypesResponse {
	types := make([]dto.ResourceTypeInfo, 0, len(domain.AllResourceTypes))
	for _, t := range domain.AllResourceTypes {
		types = append(types, dto.ResourceTypeInfo{
			Type:        t,
			DisplayName: t.DisplayName(),
			PlacesTypes: t.PlacesTypes(),
		})
	}
	return dto.ResourceTypesResponse{
		Types:      types,
		Categories: domain.Categories(),
	}
}

func (uc *ResourceUseCase) afterWrite(ctx context.Context, op string, err error) {
	metrics.StoreWritesTotal.WithLabelValues(op, metrics.Outcome(err)).Inc()
	if err != nil || uc.cacheRepo == nil {
		return
	}
	if _, err := uc.cacheRepo.BumpVersion(ctx); err != nil {
		// старые ключи истекут по TTL
		uc.logger.Warn("Failed to invalidate search cache", zap.String("op", op), zap.Error(err))
	}
}

// cached wraps a read with the versioned search cache. Cache failures only
// degrade to a direct read.
func (uc *ResourceUseCase) cached(
	ctx context.Context,
	suffix string,
	load func() ([]*domain.Resource, error),
) ([]*domain.Resource, error) {
	if uc.cacheRepo == nil || uc.cacheTTL <= 0 {
		return load()
	}

	version, err := uc.cacheRepo.Version(ctx)
	if err != nil {
		uc.logger.Warn("Failed to read cache version", zap.Error(err))
		return load()
	}
	cacheKey := fmt.Sprintf("resources:v%d:%s", version, suffix)

	if data, err := uc.cacheRepo.Get(ctx, cacheKey); err == nil && data != nil {
		var resources []*domain.Resource
		if err := json.Unmarshal(data, &resources); err == nil {
			metrics.CacheHitsTotal.Inc()
			uc.logger.Debug("Search cache hit", zap.String("key", cacheKey))
			return resources, nil
		}
		uc.logger.Warn("Failed to unmarshal cached resources", zap.String("key", cacheKey))
	}
	metrics.CacheMissesTotal.Inc()

	resources, err := load()
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(resources)
	if err != nil {
		uc.logger.Warn("Failed to marshal resources for cache", zap.Error(err))
		return resources, nil
	}
	if err := uc.cacheRepo.Set(ctx, cacheKey, data, uc.cacheTTL); err != nil {
		uc.logger.Warn("Failed to cache resources", zap.String("key", cacheKey), zap.Error(err))
	}

	return resources, nil
}
