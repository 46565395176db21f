package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/resource-store/internal/domain"
	apperrors "github.com/resource-store/internal/pkg/errors"
	"github.com/resource-store/internal/usecase"
)

func place(id, name string, lat, lon float64, types ...string) domain.PlaceSearchResult {
	return domain.PlaceSearchResult{
		ID:               id,
		DisplayName:      domain.PlaceDisplayName{Text: name, LanguageCode: "en"},
		FormattedAddress: "1 Market St, San Francisco, CA",
		Location:         &domain.PlaceLocation{Latitude: lat, Longitude: lon},
		Types:            types,
	}
}

func TestMapPlace(t *testing.T) {
	t.Run("maps provider fields", func(t *testing.T) {
		p := place("ChIJabc", "  Glide  ", 37.7853, -122.4115, "food", "point_of_interest")
		p.Rating = ptrFloat64(4.5)
		p.UserRatingCount = ptrInt(120)

		r, err := usecase.MapPlace(p)
		require.NoError(t, err)

		assert.Equal(t, "ChIJabc", r.ID)
		require.NotNil(t, r.PlaceID)
		assert.Equal(t, "ChIJabc", *r.PlaceID)
		assert.Equal(t, "Glide", r.Name)
		assert.Equal(t, domain.ResourceTypeFoodBank, r.Type)
		assert.Equal(t, "1 Market St, San Francisco, CA", r.Address)
		assert.Equal(t, 4.5, *r.Rating)
		assert.Equal(t, 120, *r.RatingCount)
		assert.Equal(t, []string{"food", "point_of_interest"}, r.Tags)
	})

	t.Run("unknown tags map to other", func(t *testing.T) {
		r, err := usecase.MapPlace(place("x", "Somewhere", 1, 1, "car_wash"))
		require.NoError(t, err)
		assert.Equal(t, domain.ResourceTypeOther, r.Type)
	})

	noLocation := place("x", "Somewhere", 0, 0)
	noLocation.Location = nil

	tests := []struct {
		name   string
		input  domain.PlaceSearchResult
		reason string
	}{
		{"missing id", place(" ", "Somewhere", 1, 1), "missing external id"},
		{"missing location", noLocation, "missing location"},
		{"missing name", place("x", "", 1, 1), "missing display name"},
		{"out of range", place("x", "Somewhere", 95, 1), "coordinates out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := usecase.MapPlace(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrIngestionMapping))

			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.reason, appErr.Message)
		})
	}
}

func TestIngestionUseCase_IngestUpsertsByExternalID(t *testing.T) {
	ctx := context.Background()
	resources := usecase.NewResourceUseCase(newStore(t), nil, zap.NewNop(), 0)
	uc := usecase.NewIngestionUseCase(resources, nil, zap.NewNop(), 0)

	result, err := uc.Ingest(ctx, []domain.PlaceSearchResult{
		place("ext-1", "Old Name", 37.78, -122.41, "library"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Saved)

	result, err = uc.Ingest(ctx, []domain.PlaceSearchResult{
		place("ext-1", "New Name", 37.78, -122.41, "library"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Saved)

	count, err := resources.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	r, err := resources.Get(ctx, "ext-1")
	require.NoError(t, err)
	assert.Equal(t, "New Name", r.Name)
	assert.Equal(t, domain.ResourceTypeLibrary, r.Type)
}

func TestIngestionUseCase_IngestSkipsUnmappable(t *testing.T) {
	ctx := context.Background()
	resources := usecase.NewResourceUseCase(newStore(t), nil, zap.NewNop(), 0)
	uc := usecase.NewIngestionUseCase(resources, nil, zap.NewNop(), 0)

	broken := place("ext-2", "No Location", 0, 0)
	broken.Location = nil

	result, err := uc.Ingest(ctx, []domain.PlaceSearchResult{
		place("ext-1", "Shelter One", 37.78, -122.41, "lodging"),
		broken,
		place("", "No ID", 37.78, -122.41),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Received)
	assert.Equal(t, 1, result.Saved)
	require.Len(t, result.Skipped, 2)
	assert.Equal(t, domain.SkippedPlace{Index: 1, PlaceID: "ext-2", Reason: "missing location"}, result.Skipped[0])
	assert.Equal(t, 2, result.Skipped[1].Index)
	assert.Equal(t, "missing external id", result.Skipped[1].Reason)

	count, err := resources.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIngestionUseCase_IngestSaveFailure(t *testing.T) {
	ctx := context.Background()
	writer := &MockResourceWriter{}
	uc := usecase.NewIngestionUseCase(writer, nil, zap.NewNop(), 0)

	writer.On("SaveAll", mock.Anything, mock.AnythingOfType("[]*domain.Resource")).
		Return(apperrors.ErrStorageWrite)

	result, err := uc.Ingest(ctx, []domain.PlaceSearchResult{place("ext-1", "A", 1, 1)})
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, apperrors.ErrStorageWrite))
}

func TestIngestionUseCase_IngestAllSkippedDoesNotWrite(t *testing.T) {
	writer := &MockResourceWriter{}
	uc := usecase.NewIngestionUseCase(writer, nil, zap.NewNop(), 0)

	result, err := uc.Ingest(context.Background(), []domain.PlaceSearchResult{place("", "A", 1, 1)})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Saved)
	writer.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
}

func TestIngestionUseCase_SyncNearby(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		uc := usecase.NewIngestionUseCase(&MockResourceWriter{}, nil, zap.NewNop(), 0)
		_, err := uc.SyncNearby(context.Background(), domain.SyncRequest{Lat: 1, Lon: 1})
		assert.True(t, errors.Is(err, apperrors.ErrPlacesNotConfigured))
	})

	t.Run("fetches with defaults and ingests", func(t *testing.T) {
		ctx := context.Background()
		places := &MockPlacesRepository{}
		resources := usecase.NewResourceUseCase(newStore(t), nil, zap.NewNop(), 0)
		uc := usecase.NewIngestionUseCase(resources, places, zap.NewNop(), 3000)

		places.On("SearchNearby", mock.Anything, mock.MatchedBy(func(req domain.NearbySearch) bool {
			return req.RadiusMeters == 3000 &&
				req.Center == domain.Point{Lat: 37.77, Lon: -122.42} &&
				len(req.Types) == 1 && req.Types[0] == domain.ResourceTypeFoodBank
		})).Return([]domain.PlaceSearchResult{
			place("ext-1", "Pantry", 37.771, -122.421, "food_bank"),
		}, nil)

		result, err := uc.SyncNearby(ctx, domain.SyncRequest{
			Lat:   37.77,
			Lon:   -122.42,
			Types: []string{"Food Bank"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Saved)
		places.AssertExpectations(t)

		r, err := resources.Get(ctx, "ext-1")
		require.NoError(t, err)
		assert.Equal(t, domain.ResourceTypeFoodBank, r.Type)
	})

	t.Run("provider failure", func(t *testing.T) {
		places := &MockPlacesRepository{}
		writer := &MockResourceWriter{}
		uc := usecase.NewIngestionUseCase(writer, places, zap.NewNop(), 0)

		places.On("SearchNearby", mock.Anything, mock.Anything).Return(nil, apperrors.ErrPlacesRateLimited)

		_, err := uc.SyncNearby(context.Background(), domain.SyncRequest{Lat: 1, Lon: 1})
		assert.True(t, errors.Is(err, apperrors.ErrPlacesRateLimited))
		writer.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
	})

	t.Run("cancelled after fetch discards batch", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		places := &MockPlacesRepository{}
		writer := &MockResourceWriter{}
		uc := usecase.NewIngestionUseCase(writer, places, zap.NewNop(), 0)

		places.On("SearchNearby", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { cancel() }).
			Return([]domain.PlaceSearchResult{place("ext-1", "A", 1, 1)}, nil)

		result, err := uc.SyncNearby(ctx, domain.SyncRequest{Lat: 1, Lon: 1})
		assert.Nil(t, result)
		assert.ErrorIs(t, err, context.Canceled)
		writer.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
	})
}
