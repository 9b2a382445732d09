package model

import (
	"errors"

	"github.com/asadolabs/asador/internal/errs"
	"github.com/gofrs/uuid/v5"
)

// Food preference name length bounds.
const (
	PreferenceNameMinLength = 1
	PreferenceNameMaxLength = 256
)

// FoodPreference is a named target temperature owned by a user
// (e.g. "rare beef" -> 52.00). Names are unique per owner.
type FoodPreference struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Temperature *float64
}

// NewFoodPreference validates and creates a preference.
func NewFoodPreference(ownerID uuid.UUID, name string, temperature *float64) (*FoodPreference, error) {
	if err := validatePreference(name, temperature); err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	return &FoodPreference{ID: id, OwnerID: ownerID, Name: name, Temperature: temperature}, nil
}

// Update changes name and temperature together after validating both.
func (p *FoodPreference) Update(name string, temperature *float64) error {
	if err := validatePreference(name, temperature); err != nil {
		return err
	}
	p.Name = name
	p.Temperature = temperature
	return nil
}

// validatePreference collects all violations before reporting.
func validatePreference(name string, temperature *float64) error {
	var list []errs.FieldError
	if len(name) < PreferenceNameMinLength {
		list = append(list, errs.FieldError{Field: "name", Cause: errs.CauseTooShort})
	} else if len(name) > PreferenceNameMaxLength {
		list = append(list, errs.FieldError{Field: "name", Cause: errs.CauseTooLong})
	}
	if tempErr := ValidateTemperature(temperature); tempErr != nil {
		var ve *errs.ValidationError
		if errors.As(tempErr, &ve) {
			list = append(list, ve.Errors...)
		}
	}
	if len(list) > 0 {
		return errs.Validation(list...)
	}
	return nil
}
