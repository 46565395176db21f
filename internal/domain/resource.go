package domain

import (
	"math"
	"strings"
	"time"

	apperrors "github.com/resource-store/internal/pkg/errors"
	"github.com/resource-store/internal/pkg/validator"
)

// Resource представляет точку социальной помощи (приют, продуктовый банк, клиника)
type Resource struct {
	ID          string       `json:"id"`
	Name        string       `json:"name" validate:"required"`
	Description string       `json:"description"`
	Type        ResourceType `json:"type"`
	Latitude    float64      `json:"latitude" validate:"min=-90,max=90"`
	Longitude   float64      `json:"longitude" validate:"min=-180,max=180"`
	Address     string       `json:"address,omitempty"`

	// Контакты
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	Website *string `json:"website,omitempty"`

	Availability *string `json:"availability,omitempty"`

	// Provenance when ingested from a place-search provider
	PlaceID     *string  `json:"place_id,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	RatingCount *int     `json:"rating_count,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	// Derived relative to a reference point, never persisted
	DistanceMeters *int   `json:"distance_meters,omitempty"`
	DistanceText   string `json:"distance_text,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Coordinate returns the resource location.
func (r *Resource) Coordinate() Point {
	return Point{Lat: r.Latitude, Lon: r.Longitude}
}

// Clone returns a deep copy.
func (r *Resource) Clone() *Resource {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Phone = cloneString(r.Phone)
	cp.Email = cloneString(r.Email)
	cp.Website = cloneString(r.Website)
	cp.Availability = cloneString(r.Availability)
	cp.PlaceID = cloneString(r.PlaceID)
	if r.Rating != nil {
		v := *r.Rating
		cp.Rating = &v
	}
	if r.RatingCount != nil {
		v := *r.RatingCount
		cp.RatingCount = &v
	}
	if r.DistanceMeters != nil {
		v := *r.DistanceMeters
		cp.DistanceMeters = &v
	}
	if r.Tags != nil {
		cp.Tags = append([]string(nil), r.Tags...)
	}
	return &cp
}

// Normalize trims the name and resolves the type onto the canonical set.
// Empty optional contact fields collapse to nil.
func (r *Resource) Normalize() {
	r.ID = strings.TrimSpace(r.ID)
	r.Name = strings.TrimSpace(r.Name)
	r.Type = r.Type.Normalize()
	r.Phone = nilIfBlank(r.Phone)
	r.Email = nilIfBlank(r.Email)
	r.Website = nilIfBlank(r.Website)
	r.Availability = nilIfBlank(r.Availability)
	r.PlaceID = nilIfBlank(r.PlaceID)
}

// Validate checks the write-boundary rules: a non-empty name and finite,
// in-range coordinates. Coordinates are rejected, never clamped.
func (r *Resource) Validate() error {
	details := validator.FieldErrors(validator.Validate(r))
	if details == nil {
		details = make(map[string]interface{})
	}

	if math.IsNaN(r.Latitude) || math.IsInf(r.Latitude, 0) {
		details["latitude"] = "finite"
	}
	if math.IsNaN(r.Longitude) || math.IsInf(r.Longitude, 0) {
		details["longitude"] = "finite"
	}

	if len(details) == 0 {
		return nil
	}
	if r.ID != "" {
		details["id"] = r.ID
	}
	return apperrors.ErrValidation.WithDetails(details)
}

// StampTimes sets the audit fields for a write committed at now. createdAt
// is the stored creation time for an existing record, zero for a new one.
func (r *Resource) StampTimes(createdAt, now time.Time) {
	now = now.UTC().Truncate(time.Microsecond)
	switch {
	case !createdAt.IsZero():
		r.CreatedAt = createdAt.UTC().Truncate(time.Microsecond)
	case r.CreatedAt.IsZero() || r.CreatedAt.After(now):
		r.CreatedAt = now
	default:
		r.CreatedAt = r.CreatedAt.UTC().Truncate(time.Microsecond)
	}
	r.UpdatedAt = now
	if r.UpdatedAt.Before(r.CreatedAt) {
		// stored creation time from a clock running ahead
		r.UpdatedAt = r.CreatedAt
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func nilIfBlank(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
