package repository

import (
	"context"

	"github.com/resource-store/internal/domain"
)

// PlacesRepository определяет методы для работы с внешним поиском мест
type PlacesRepository interface {
	// SearchNearby возвращает места в радиусе от точки
	SearchNearby(ctx context.Context, req domain.NearbySearch) ([]domain.PlaceSearchResult, error)
}
