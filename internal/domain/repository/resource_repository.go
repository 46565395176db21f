package repository

import (
	"context"

	"github.com/resource-store/internal/domain"
)

// ResourceReader - операции чтения ресурсов
type ResourceReader interface {
	// GetAll возвращает все ресурсы, отсортированные по имени
	GetAll(ctx context.Context) ([]*domain.Resource, error)

	// Get возвращает ресурс по ID или nil, если его нет
	Get(ctx context.Context, id string) (*domain.Resource, error)

	Exists(ctx context.Context, id string) (bool, error)

	Count(ctx context.Context) (int, error)

	// Search выполняет регистронезависимый поиск по name и description.
	// Пустой запрос эквивалентен GetAll.
	Search(ctx context.Context, query string) ([]*domain.Resource, error)

	// SearchByRegion ищет ресурсы внутри bounding box вокруг центра
	SearchByRegion(ctx context.Context, q domain.RegionQuery) ([]*domain.Resource, error)
}

// ResourceWriter is the single mutation gate. Every call is one transaction.
type ResourceWriter interface {
	Save(ctx context.Context, r *domain.Resource) error
	SaveAll(ctx context.Context, resources []*domain.Resource) error

	// Update applies mutate to the stored record inside one transaction.
	Update(ctx context.Context, id string, mutate func(*domain.Resource) error) (*domain.Resource, error)

	Delete(ctx context.Context, id string) error
	DeleteByIDs(ctx context.Context, ids []string) error
	DeleteAll(ctx context.Context) error
}

// ResourceRepository определяет методы для работы с хранилищем ресурсов
type ResourceRepository interface {
	ResourceReader
	ResourceWriter
}
