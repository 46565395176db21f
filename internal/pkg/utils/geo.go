package utils

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371.0

// HaversineDistance вычисляет расстояние между двумя точками в километрах
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLon := (lon2 - lon1) * math.Pi / 180.0

	lat1Rad := lat1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// DistanceMeters is HaversineDistance in whole meters.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) int {
	return int(HaversineDistance(lat1, lon1, lat2, lon2) * 1000)
}

// FormatDistance renders meters for display: "850m" below one kilometer,
// "1.2km" above.
func FormatDistance(meters int) string {
	if meters < 1000 {
		return fmt.Sprintf("%dm", meters)
	}
	return fmt.Sprintf("%.1fkm", float64(meters)/1000.0)
}

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ValidateRadius accepts any finite, non-negative radius in meters.
// Zero is valid and matches only the exact center point.
func ValidateRadius(radiusMeters float64) bool {
	return radiusMeters >= 0 && !math.IsInf(radiusMeters, 0) && !math.IsNaN(radiusMeters)
}
