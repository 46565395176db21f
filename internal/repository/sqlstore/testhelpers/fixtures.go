package testhelpers

import (
	"github.com/resource-store/internal/domain"
)

// NewResource builds a valid resource for fixtures.
func NewResource(id, name string, lat, lon float64) *domain.Resource {
	return &domain.Resource{
		ID:        id,
		Name:      name,
		Type:      domain.ResourceTypeOther,
		Latitude:  lat,
		Longitude: lon,
	}
}

// SanFrancisco is a small fixture set around Civic Center.
func SanFrancisco() []*domain.Resource {
	phone := "+1 415-555-0100"
	return []*domain.Resource{
		{
			ID:          "sf-glide",
			Name:        "Glide Memorial",
			Description: "Daily free meals",
			Type:        domain.ResourceTypeFoodBank,
			Latitude:    37.7853,
			Longitude:   -122.4115,
			Phone:       &phone,
		},
		{
			ID:          "sf-library",
			Name:        "SF Main Library",
			Description: "Computers and restrooms",
			Type:        domain.ResourceTypeLibrary,
			Latitude:    37.7790,
			Longitude:   -122.4156,
		},
		{
			ID:          "sf-msc",
			Name:        "MSC South Shelter",
			Description: "Emergency beds",
			Type:        domain.ResourceTypeShelter,
			Latitude:    37.7766,
			Longitude:   -122.4018,
		},
		{
			ID:          "oakland-clinic",
			Name:        "Oakland Health Center",
			Description: "Walk-in clinic",
			Type:        domain.ResourceTypeHealth,
			Latitude:    37.8044,
			Longitude:   -122.2712,
		},
	}
}
