package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/resource-store/internal/pkg/errors"
)

func TestNewBoundingBox(t *testing.T) {
	t.Run("equator", func(t *testing.T) {
		box := NewBoundingBox(Point{Lat: 0, Lon: 0}, 111000)
		assert.InDelta(t, -1.0, box.MinLat, 1e-9)
		assert.InDelta(t, 1.0, box.MaxLat, 1e-9)
		assert.InDelta(t, -1.0, box.MinLon, 1e-9)
		assert.InDelta(t, 1.0, box.MaxLon, 1e-9)
		assert.False(t, box.UnboundedLon)
	})

	t.Run("longitude delta widens with latitude", func(t *testing.T) {
		box := NewBoundingBox(Point{Lat: 60, Lon: 10}, 111000)
		// cos(60deg) = 0.5
		assert.InDelta(t, 8.0, box.MinLon, 1e-6)
		assert.InDelta(t, 12.0, box.MaxLon, 1e-6)
		assert.InDelta(t, 59.0, box.MinLat, 1e-9)
	})

	t.Run("zero radius is a point", func(t *testing.T) {
		box := NewBoundingBox(Point{Lat: 0, Lon: 0}, 0)
		assert.True(t, box.Contains(Point{Lat: 0, Lon: 0}))
		assert.False(t, box.Contains(Point{Lat: 0.000001, Lon: 0}))
		assert.False(t, box.Contains(Point{Lat: 0, Lon: -0.000001}))
	})

	t.Run("pole degenerates to full longitude range", func(t *testing.T) {
		box := NewBoundingBox(Point{Lat: 90, Lon: 0}, 1000)
		assert.True(t, box.UnboundedLon)
		assert.True(t, box.Contains(Point{Lat: 89.995, Lon: 179}))
		assert.True(t, box.Contains(Point{Lat: 89.995, Lon: -179}))
		assert.False(t, box.Contains(Point{Lat: 89.9, Lon: 0}))
	})
}

func TestBoundingBox_ContainsReferenceScenario(t *testing.T) {
	center := Point{Lat: 37.7749, Lon: -122.4194}
	box := NewBoundingBox(center, 5000)

	assert.True(t, box.Contains(center))
	assert.False(t, box.Contains(Point{Lat: 38.7749, Lon: -122.4194}))
	assert.True(t, box.Contains(Point{Lat: 37.7749 + 0.044, Lon: -122.4194}))
}

func TestBoundingBox_CornerOutsideCircleStillPasses(t *testing.T) {
	box := NewBoundingBox(Point{Lat: 0, Lon: 0}, 1000)
	corner := Point{Lat: box.MaxLat, Lon: box.MaxLon}
	// roughly 1414 m away, yet inside the box
	assert.True(t, box.Contains(corner))
}

func TestRegionQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		query   RegionQuery
		wantErr bool
	}{
		{name: "valid", query: RegionQuery{Center: Point{Lat: 10, Lon: 10}, RadiusMeters: 100}},
		{name: "zero radius", query: RegionQuery{Center: Point{Lat: 10, Lon: 10}}},
		{name: "negative radius", query: RegionQuery{Center: Point{Lat: 10, Lon: 10}, RadiusMeters: -1}, wantErr: true},
		{name: "NaN radius", query: RegionQuery{RadiusMeters: math.NaN()}, wantErr: true},
		{name: "infinite radius", query: RegionQuery{RadiusMeters: math.Inf(1)}, wantErr: true},
		{name: "center out of range", query: RegionQuery{Center: Point{Lat: 95, Lon: 0}, RadiusMeters: 1}, wantErr: true},
		{name: "NaN center", query: RegionQuery{Center: Point{Lat: math.NaN(), Lon: 0}, RadiusMeters: 1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
