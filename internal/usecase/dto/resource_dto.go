package dto

import (
	"strings"

	"github.com/resource-store/internal/domain"
)

// ResourceInput - тело запроса на создание или замену ресурса
type ResourceInput struct {
	ID           string  `json:"id,omitempty" validate:"max=256"`
	Name         string  `json:"name" validate:"required,max=256"`
	Description  string  `json:"description" validate:"max=4096"`
	Type         string  `json:"type" validate:"max=64"`
	Latitude     float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude    float64 `json:"longitude" validate:"min=-180,max=180"`
	Address      string  `json:"address" validate:"max=512"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,max=64"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	Website      *string `json:"website,omitempty" validate:"omitempty,url"`
	Availability *string `json:"availability,omitempty" validate:"omitempty,max=512"`
}

// ToDomain converts the input; type normalization happens in the store.
func (in ResourceInput) ToDomain() *domain.Resource {
	return &domain.Resource{
		ID:           strings.TrimSpace(in.ID),
		Name:         in.Name,
		Description:  in.Description,
		Type:         domain.ResourceType(in.Type),
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		Address:      in.Address,
		Phone:        in.Phone,
		Email:        in.Email,
		Website:      in.Website,
		Availability: in.Availability,
	}
}

// SaveAllRequest - пакетное сохранение, одна транзакция
type SaveAllRequest struct {
	Resources []ResourceInput `json:"resources" validate:"required,min=1,max=1000,dive"`
}

// UpdateResourceRequest - частичное обновление, nil поля не меняются
type UpdateResourceRequest struct {
	Name         *string  `json:"name,omitempty" validate:"omitempty,max=256"`
	Description  *string  `json:"description,omitempty" validate:"omitempty,max=4096"`
	Type         *string  `json:"type,omitempty" validate:"omitempty,max=64"`
	Latitude     *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude    *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	Address      *string  `json:"address,omitempty" validate:"omitempty,max=512"`
	Phone        *string  `json:"phone,omitempty" validate:"omitempty,max=64"`
	Email        *string  `json:"email,omitempty" validate:"omitempty,email"`
	Website      *string  `json:"website,omitempty" validate:"omitempty,url"`
	Availability *string  `json:"availability,omitempty" validate:"omitempty,max=512"`
}

// Apply copies the set fields onto r. An empty string clears an optional
// contact field.
func (u UpdateResourceRequest) Apply(r *domain.Resource) error {
	if u.Name != nil {
		r.Name = *u.Name
	}
	if u.Description != nil {
		r.Description = *u.Description
	}
	if u.Type != nil {
		r.Type = domain.ResourceType(*u.Type)
	}
	if u.Latitude != nil {
		r.Latitude = *u.Latitude
	}
	if u.Longitude != nil {
		r.Longitude = *u.Longitude
	}
	if u.Address != nil {
		r.Address = *u.Address
	}
	if u.Phone != nil {
		r.Phone = u.Phone
	}
	if u.Email != nil {
		r.Email = u.Email
	}
	if u.Website != nil {
		r.Website = u.Website
	}
	if u.Availability != nil {
		r.Availability = u.Availability
	}
	return nil
}

// NearbyRequest - поиск ресурсов в радиусе
type NearbyRequest struct {
	Query        string  `json:"query,omitempty" validate:"max=256"`
	Lat          float64 `json:"lat" validate:"min=-90,max=90"`
	Lon          float64 `json:"lon" validate:"min=-180,max=180"`
	Type         string  `json:"type,omitempty" validate:"max=64"`
	RadiusMeters float64 `json:"radius_m" validate:"min=0"`
	// Exact drops box corners farther than the radius (haversine)
	Exact bool `json:"exact,omitempty"`
}

// DeleteByIDsRequest - удаление набора ресурсов
type DeleteByIDsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,max=1000,dive,required"`
}

// ResourceListResponse - список ресурсов
type ResourceListResponse struct {
	Resources []*domain.Resource `json:"resources"`
	Total     int                `json:"total"`
}

// NewResourceListResponse never renders a null list.
func NewResourceListResponse(resources []*domain.Resource) ResourceListResponse {
	if resources == nil {
		resources = []*domain.Resource{}
	}
	return ResourceListResponse{Resources: resources, Total: len(resources)}
}

type CountResponse struct {
	Count int `json:"count"`
}

type ExistsResponse struct {
	ID     string `json:"id"`
	Exists bool   `json:"exists"`
}

// ResourceTypeInfo - описание типа ресурса
type ResourceTypeInfo struct {
	Type        domain.ResourceType `json:"type"`
	DisplayName string              `json:"display_name"`
	PlacesTypes []string            `json:"places_types"`
}

// ResourceTypesResponse - справочник типов и категорий
type ResourceTypesResponse struct {
	Types      []ResourceTypeInfo        `json:"types"`
	Categories []domain.ResourceCategory `json:"categories"`
}
