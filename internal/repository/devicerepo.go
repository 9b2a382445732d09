// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/asadolabs/asador/internal/model"
)

// DeviceRepository provides access to devices. Device ids are externally
// assigned, so Create never generates one.
type DeviceRepository interface {
	// Create inserts a new device row.
	Create(ctx context.Context, d *model.Device) error
	// GetByID loads a device by its id.
	GetByID(ctx context.Context, id int64) (*model.Device, error)
	// List returns all devices ordered by id.
	List(ctx context.Context) ([]model.Device, error)
	// Exists reports whether a device with the id is already created.
	Exists(ctx context.Context, id int64) (bool, error)
	// Save persists mutable device fields (state, temperatures).
	Save(ctx context.Context, d *model.Device) error
}
