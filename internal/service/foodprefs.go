package service

import (
	"context"

	"github.com/asadolabs/asador/internal/errs"
	"github.com/asadolabs/asador/internal/model"
	"github.com/asadolabs/asador/internal/repository"
	"github.com/gofrs/uuid/v5"
)

// FoodPreferenceService manages per-user named target temperatures.
type FoodPreferenceService interface {
	// CreatePreference adds a preference; names are unique per owner.
	CreatePreference(ctx context.Context, p model.Principal, ownerID uuid.UUID, name string, temperature *float64) (*model.FoodPreference, error)
	// GetPreference loads one preference by name.
	GetPreference(ctx context.Context, p model.Principal, ownerID uuid.UUID, name string) (*model.FoodPreference, error)
	// ListPreferences returns all of the owner's preferences.
	ListPreferences(ctx context.Context, p model.Principal, ownerID uuid.UUID) ([]model.FoodPreference, error)
	// UpdatePreference renames and/or retargets a preference.
	UpdatePreference(ctx context.Context, p model.Principal, ownerID uuid.UUID, name, newName string, temperature *float64) error
	// DeletePreference removes a preference.
	DeletePreference(ctx context.Context, p model.Principal, ownerID uuid.UUID, name string) error
}

type FoodPreferenceServiceImpl struct {
	users repository.UserRepository
	prefs repository.FoodPreferenceRepository
	perms PermissionProvider
}

// NewFoodPreferenceService constructs FoodPreferenceService.
func NewFoodPreferenceService(users repository.UserRepository, prefs repository.FoodPreferenceRepository, perms PermissionProvider) *FoodPreferenceServiceImpl {
	return &FoodPreferenceServiceImpl{users: users, prefs: prefs, perms: perms}
}

// CreatePreference validates, checks the per-owner name uniqueness, persists.
func (s *FoodPreferenceServiceImpl) CreatePreference(ctx context.Context, p model.Principal, ownerID uuid.UUID, name string, temperature *float64) (*model.FoodPreference, error) {
	if !s.perms.CanWriteUser(p, ownerID) {
		return nil, errs.ErrForbidden
	}
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}
	pref, err := model.NewFoodPreference(ownerID, name, temperature)
	if err != nil {
		return nil, err
	}
	taken, err := s.prefs.ExistsByOwnerAndName(ctx, ownerID, name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errs.UniqueViolation("the preference name is already in use", "name", "userId")
	}
	if err := s.prefs.Create(ctx, pref); err != nil {
		return nil, err
	}
	return pref, nil
}

// GetPreference requires self-access or admin.
func (s *FoodPreferenceServiceImpl) GetPreference(ctx context.Context, p model.Principal, ownerID uuid.UUID, name string) (*model.FoodPreference, error) {
	if !s.perms.CanReadUser(p, ownerID) {
		return nil, errs.ErrForbidden
	}
	return s.prefs.GetByOwnerAndName(ctx, ownerID, name)
}

// ListPreferences requires self-access or admin.
func (s *FoodPreferenceServiceImpl) ListPreferences(ctx context.Context, p model.Principal, ownerID uuid.UUID) ([]model.FoodPreference, error) {
	if !s.perms.CanReadUser(p, ownerID) {
		return nil, errs.ErrForbidden
	}
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.prefs.ListByOwner(ctx, ownerID)
}

// UpdatePreference renames only when the new name is free for the owner.
func (s *FoodPreferenceServiceImpl) UpdatePreference(ctx context.Context, p model.Principal, ownerID uuid.UUID, name, newName string, temperature *float64) error {
	if !s.perms.CanWriteUser(p, ownerID) {
		return errs.ErrForbidden
	}
	pref, err := s.prefs.GetByOwnerAndName(ctx, ownerID, name)
	if err != nil {
		return err
	}
	if newName != name {
		taken, err := s.prefs.ExistsByOwnerAndName(ctx, ownerID, newName)
		if err != nil {
			return err
		}
		if taken {
			return errs.UniqueViolation("the preference name is already in use", "name", "userId")
		}
	}
	if err := pref.Update(newName, temperature); err != nil {
		return err
	}
	return s.prefs.Save(ctx, pref)
}

// DeletePreference removes the row; NotFound propagates.
func (s *FoodPreferenceServiceImpl) DeletePreference(ctx context.Context, p model.Principal, ownerID uuid.UUID, name string) error {
	if !s.perms.CanWriteUser(p, ownerID) {
		return errs.ErrForbidden
	}
	return s.prefs.Delete(ctx, ownerID, name)
}
