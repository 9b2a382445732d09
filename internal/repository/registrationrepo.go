package repository

import (
	"context"

	"github.com/asadolabs/asador/internal/model"
	"github.com/gofrs/uuid/v5"
)

// DeviceRegistrationRepository provides access to device registrations.
// "Active" lookups only consider rows with active=true; inactive rows are
// historical and never resurface.
type DeviceRegistrationRepository interface {
	// Create inserts a new registration row.
	Create(ctx context.Context, r *model.DeviceRegistration) error
	// Save persists mutable registration fields (nickname, active).
	Save(ctx context.Context, r *model.DeviceRegistration) error
	// FindActiveByDevice loads the single active registration of a device.
	FindActiveByDevice(ctx context.Context, deviceID int64) (*model.DeviceRegistration, error)
	// FindActiveByDeviceAndOwner loads the active registration bound to (device, owner).
	FindActiveByDeviceAndOwner(ctx context.Context, deviceID int64, ownerID uuid.UUID) (*model.DeviceRegistration, error)
	// ExistsActiveByDevice reports whether the device is actively registered to anyone.
	ExistsActiveByDevice(ctx context.Context, deviceID int64) (bool, error)
	// ExistsActiveByDeviceAndOwner reports whether (device, owner) holds the active registration.
	ExistsActiveByDeviceAndOwner(ctx context.Context, deviceID int64, ownerID uuid.UUID) (bool, error)
	// ExistsActiveByOwnerAndNickname reports whether the owner already uses the
	// nickname on any active registration.
	ExistsActiveByOwnerAndNickname(ctx context.Context, ownerID uuid.UUID, nickname string) (bool, error)
	// ExistsActiveByDeviceAndOwnerUsername reports whether the device's active
	// registration belongs to the user with the given username.
	ExistsActiveByDeviceAndOwnerUsername(ctx context.Context, deviceID int64, username string) (bool, error)
	// ListActiveByOwner returns the owner's active registrations ordered by creation time.
	ListActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.DeviceRegistration, error)
}
