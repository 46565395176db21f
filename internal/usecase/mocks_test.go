package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/resource-store/internal/domain"
)

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Version(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCacheRepository) BumpVersion(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockPlacesRepository is a mock of PlacesRepository
type MockPlacesRepository struct {
	mock.Mock
}

func (m *MockPlacesRepository) SearchNearby(ctx context.Context, req domain.NearbySearch) ([]domain.PlaceSearchResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PlaceSearchResult), args.Error(1)
}

// MockResourceWriter is a mock of ResourceWriter
type MockResourceWriter struct {
	mock.Mock
}

func (m *MockResourceWriter) Save(ctx context.Context, r *domain.Resource) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockResourceWriter) SaveAll(ctx context.Context, resources []*domain.Resource) error {
	args := m.Called(ctx, resources)
	return args.Error(0)
}

func (m *MockResourceWriter) Update(
	ctx context.Context,
	id string,
	mutate func(*domain.Resource) error,
) (*domain.Resource, error) {
	args := m.Called(ctx, id, mutate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resource), args.Error(1)
}

func (m *MockResourceWriter) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockResourceWriter) DeleteByIDs(ctx context.Context, ids []string) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MockResourceWriter) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func ptrFloat64(v float64) *float64 { return &v }

func ptrInt(v int) *int { return &v }
