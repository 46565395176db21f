package domain

import (
	"math"

	apperrors "github.com/resource-store/internal/pkg/errors"
)

// MetersPerDegreeLatitude approximates one degree of latitude everywhere.
const MetersPerDegreeLatitude = 111000.0

type Point struct {
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}

// BoundingBox is a lat/lon rectangle. When UnboundedLon is set the
// longitude range is ignored (search radius degenerates near the poles).
type BoundingBox struct {
	MinLat       float64 `json:"min_lat" db:"min_lat"`
	MinLon       float64 `json:"min_lon" db:"min_lon"`
	MaxLat       float64 `json:"max_lat" db:"max_lat"`
	MaxLon       float64 `json:"max_lon" db:"max_lon"`
	UnboundedLon bool    `json:"unbounded_lon,omitempty" db:"-"`
}

// NewBoundingBox builds the rectangle circumscribing a circle of
// radiusMeters around center:
//
//	dLat = r / 111000
//	dLon = r / (111000 * cos(lat))
//
// The box is a superset of the circle; corners beyond the radius pass.
// dLon grows without bound toward the poles. Once it is non-finite or spans
// the whole globe the longitude constraint is dropped instead.
// There is no antimeridian wrap: boxes crossing +/-180 are not split.
func NewBoundingBox(center Point, radiusMeters float64) BoundingBox {
	latDelta := radiusMeters / MetersPerDegreeLatitude
	lonDelta := radiusMeters / (MetersPerDegreeLatitude * math.Cos(center.Lat*math.Pi/180))

	box := BoundingBox{
		MinLat: center.Lat - latDelta,
		MaxLat: center.Lat + latDelta,
		MinLon: center.Lon - lonDelta,
		MaxLon: center.Lon + lonDelta,
	}

	if math.IsNaN(lonDelta) || math.IsInf(lonDelta, 0) || math.Abs(lonDelta) >= 180 {
		box.UnboundedLon = true
		box.MinLon = -180
		box.MaxLon = 180
	}

	return box
}

// Contains reports whether p lies inside the box, edges included.
func (b BoundingBox) Contains(p Point) bool {
	if p.Lat < b.MinLat || p.Lat > b.MaxLat {
		return false
	}
	if b.UnboundedLon {
		return true
	}
	return p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// RegionQuery - параметры поиска ресурсов в радиусе
type RegionQuery struct {
	// Query is a case-insensitive substring over name or description; empty
	// means no text filter.
	Query string
	// Type filters by exact normalized type; empty means any.
	Type         ResourceType
	Center       Point
	RadiusMeters float64
}

// Validate rejects a negative or non-finite radius and an out-of-range center.
func (q RegionQuery) Validate() error {
	details := make(map[string]interface{})
	if q.RadiusMeters < 0 || math.IsNaN(q.RadiusMeters) || math.IsInf(q.RadiusMeters, 0) {
		details["radius_m"] = "finite,min=0"
	}
	if !q.Center.Valid() {
		details["center"] = "lat in [-90,90], lon in [-180,180]"
	}
	if len(details) == 0 {
		return nil
	}
	return apperrors.ErrValidation.WithDetails(details)
}

// Valid reports whether p is a finite WGS-84 coordinate.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}
