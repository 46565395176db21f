package domain

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/resource-store/internal/pkg/errors"
)

func strPtr(s string) *string { return &s }

func TestResource_Validate(t *testing.T) {
	tests := []struct {
		name      string
		resource  Resource
		wantField string
	}{
		{
			name:     "valid",
			resource: Resource{Name: "Hope Shelter", Latitude: 37.77, Longitude: -122.41},
		},
		{
			name:     "boundary coordinates",
			resource: Resource{Name: "Pole", Latitude: -90, Longitude: 180},
		},
		{
			name:      "missing name",
			resource:  Resource{Latitude: 1, Longitude: 1},
			wantField: "name",
		},
		{
			name:      "latitude out of range",
			resource:  Resource{Name: "x", Latitude: 91, Longitude: 0},
			wantField: "latitude",
		},
		{
			name:      "longitude out of range",
			resource:  Resource{Name: "x", Latitude: 0, Longitude: -181},
			wantField: "longitude",
		},
		{
			name:      "NaN latitude",
			resource:  Resource{Name: "x", Latitude: math.NaN(), Longitude: 0},
			wantField: "latitude",
		},
		{
			name:      "infinite longitude",
			resource:  Resource{Name: "x", Latitude: 0, Longitude: math.Inf(-1)},
			wantField: "longitude",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.resource.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)

			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Contains(t, appErr.Details, tt.wantField)
		})
	}
}

func TestResource_Normalize(t *testing.T) {
	r := Resource{
		ID:      "  abc ",
		Name:    "  St. Anthony's  ",
		Type:    "Food Bank",
		Phone:   strPtr("   "),
		Email:   strPtr(" help@example.org "),
		Website: nil,
	}

	r.Normalize()

	assert.Equal(t, "abc", r.ID)
	assert.Equal(t, "St. Anthony's", r.Name)
	assert.Equal(t, ResourceTypeFoodBank, r.Type)
	assert.Nil(t, r.Phone)
	require.NotNil(t, r.Email)
	assert.Equal(t, "help@example.org", *r.Email)
	assert.Nil(t, r.Website)
}

func TestResource_NormalizeThenValidateRejectsBlankName(t *testing.T) {
	r := Resource{Name: "   ", Latitude: 1, Longitude: 1}
	r.Normalize()
	assert.ErrorIs(t, r.Validate(), apperrors.ErrValidation)
}

func TestResource_StampTimes(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)

	t.Run("new record gets now for both", func(t *testing.T) {
		r := Resource{}
		r.StampTimes(time.Time{}, now)
		assert.True(t, r.CreatedAt.Equal(now.Truncate(time.Microsecond)))
		assert.True(t, r.UpdatedAt.Equal(r.CreatedAt))
	})

	t.Run("stored creation time wins", func(t *testing.T) {
		stored := now.Add(-48 * time.Hour)
		r := Resource{CreatedAt: now.Add(-time.Hour)}
		r.StampTimes(stored, now)
		assert.True(t, r.CreatedAt.Equal(stored.Truncate(time.Microsecond)))
		assert.True(t, r.UpdatedAt.Equal(now.Truncate(time.Microsecond)))
	})

	t.Run("caller creation time in the past is kept", func(t *testing.T) {
		past := now.Add(-time.Hour)
		r := Resource{CreatedAt: past}
		r.StampTimes(time.Time{}, now)
		assert.True(t, r.CreatedAt.Equal(past.Truncate(time.Microsecond)))
	})

	t.Run("caller creation time in the future is replaced", func(t *testing.T) {
		r := Resource{CreatedAt: now.Add(time.Hour)}
		r.StampTimes(time.Time{}, now)
		assert.True(t, r.CreatedAt.Equal(now.Truncate(time.Microsecond)))
		assert.False(t, r.UpdatedAt.Before(r.CreatedAt))
	})
}

func TestResource_CloneIsDeep(t *testing.T) {
	rating := 4.5
	r := &Resource{Name: "a", Phone: strPtr("1"), Rating: &rating, Tags: []string{"x"}}
	cp := r.Clone()

	*cp.Phone = "2"
	*cp.Rating = 1
	cp.Tags[0] = "y"

	assert.Equal(t, "1", *r.Phone)
	assert.Equal(t, 4.5, *r.Rating)
	assert.Equal(t, "x", r.Tags[0])
	assert.Nil(t, (*Resource)(nil).Clone())
}

func TestResource_Coordinate(t *testing.T) {
	r := Resource{Latitude: 1.5, Longitude: -2.5}
	assert.Equal(t, Point{Lat: 1.5, Lon: -2.5}, r.Coordinate())
}
