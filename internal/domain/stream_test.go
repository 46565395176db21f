package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlacesIngestEvent_DecodesProviderShape(t *testing.T) {
	raw := `{
		"request_id": "6f1c1c0e-8f5e-4a53-9d1c-1b1f2f0e7a11",
		"source": "google",
		"places": [{
			"id": "ChIJ-abc",
			"displayName": {"text": "Glide Memorial", "languageCode": "en"},
			"formattedAddress": "330 Ellis St, San Francisco",
			"location": {"latitude": 37.7853, "longitude": -122.4115},
			"types": ["food_bank", "point_of_interest"],
			"rating": 4.6,
			"userRatingCount": 812
		}]
	}`

	var event PlacesIngestEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &event))

	assert.Equal(t, uuid.MustParse("6f1c1c0e-8f5e-4a53-9d1c-1b1f2f0e7a11"), event.RequestID)
	require.Len(t, event.Places, 1)
	place := event.Places[0]
	assert.Equal(t, "ChIJ-abc", place.ID)
	assert.Equal(t, "Glide Memorial", place.DisplayName.Text)
	require.NotNil(t, place.Location)
	assert.Equal(t, 37.7853, place.Location.Latitude)
	require.NotNil(t, place.UserRatingCount)
	assert.Equal(t, 812, *place.UserRatingCount)
	assert.Equal(t, "food_bank", place.PrimaryType())
	assert.Nil(t, event.Sync)
}

func TestPlaceSearchResult_PrimaryTypeDefault(t *testing.T) {
	assert.Equal(t, "point_of_interest", PlaceSearchResult{}.PrimaryType())
}
