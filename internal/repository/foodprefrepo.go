package repository

import (
	"context"

	"github.com/asadolabs/asador/internal/model"
	"github.com/gofrs/uuid/v5"
)

// FoodPreferenceRepository provides access to per-user food preferences.
type FoodPreferenceRepository interface {
	// Create inserts a new preference.
	Create(ctx context.Context, p *model.FoodPreference) error
	// Save persists name and temperature changes.
	Save(ctx context.Context, p *model.FoodPreference) error
	// GetByOwnerAndName loads a preference by its (owner, name) key.
	GetByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*model.FoodPreference, error)
	// ExistsByOwnerAndName reports whether the owner already has a preference with the name.
	ExistsByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (bool, error)
	// ListByOwner returns the owner's preferences ordered by name.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.FoodPreference, error)
	// Delete removes a preference by its (owner, name) key.
	Delete(ctx context.Context, ownerID uuid.UUID, name string) error
}
