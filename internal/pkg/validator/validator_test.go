package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resource-store/internal/pkg/validator"
)

type sample struct {
	Name string  `json:"name" validate:"required"`
	Lat  float64 `json:"lat" validate:"min=-90,max=90"`
}

func TestValidate_FieldErrorsUseJSONNames(t *testing.T) {
	err := validator.Validate(&sample{Name: "", Lat: 120})
	require.Error(t, err)

	details := validator.FieldErrors(err)
	assert.Equal(t, "required", details["name"])
	assert.Equal(t, "max=90", details["lat"])
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, validator.Validate(&sample{Name: "ok", Lat: -90}))
	assert.Nil(t, validator.FieldErrors(nil))
}
