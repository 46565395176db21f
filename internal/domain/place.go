package domain

// PlaceSearchResult is one candidate from the external place-search
// provider, in the provider's wire shape.
type PlaceSearchResult struct {
	ID               string           `json:"id"`
	DisplayName      PlaceDisplayName `json:"displayName"`
	FormattedAddress string           `json:"formattedAddress"`
	Location         *PlaceLocation   `json:"location,omitempty"`
	Types            []string         `json:"types"`
	Rating           *float64         `json:"rating,omitempty"`
	UserRatingCount  *int             `json:"userRatingCount,omitempty"`
	Photos           []PlacePhoto     `json:"photos,omitempty"`
}

type PlaceDisplayName struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode,omitempty"`
}

type PlaceLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type PlacePhoto struct {
	Name     string `json:"name"`
	WidthPx  int    `json:"widthPx"`
	HeightPx int    `json:"heightPx"`
}

// PrimaryType is the first provider tag, "point_of_interest" when untagged.
func (p PlaceSearchResult) PrimaryType() string {
	if len(p.Types) == 0 {
		return "point_of_interest"
	}
	return p.Types[0]
}

// PlacesSearchResponse - ответ провайдера на nearby-поиск
type PlacesSearchResponse struct {
	Places []PlaceSearchResult `json:"places"`
}

// NearbySearch describes a provider query around a point.
type NearbySearch struct {
	Center       Point
	RadiusMeters float64
	Types        []ResourceType
	MaxResults   int
}
