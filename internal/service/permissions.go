// Package service contains application services for devices, pairing,
// authentication, sessions, and food preferences.
package service

import (
	"context"

	"github.com/asadolabs/asador/internal/model"
	"github.com/asadolabs/asador/internal/repository"
	"github.com/gofrs/uuid/v5"
)

// PermissionProvider evaluates authorization decisions at the start of each
// service operation. The caller identity is always an explicit argument.
type PermissionProvider interface {
	// IsAdmin reports whether the principal is an administrator.
	IsAdmin(p model.Principal) bool
	// CanReadUser reports whether the principal may read the user's data (self or admin).
	CanReadUser(p model.Principal, userID uuid.UUID) bool
	// CanWriteUser reports whether the principal may act on the user's behalf (self or admin).
	CanWriteUser(p model.Principal, userID uuid.UUID) bool
	// IsRegisteredOwnerOrAdmin reports whether the principal is an admin or the
	// username bound to the device's active registration.
	IsRegisteredOwnerOrAdmin(ctx context.Context, p model.Principal, deviceID int64) (bool, error)
	// IsOwnDevice reports whether the principal is a device token issued for the given device.
	IsOwnDevice(p model.Principal, deviceID int64) bool
}

// PermissionProviderImpl answers permission checks against the registration table.
type PermissionProviderImpl struct {
	registrations repository.DeviceRegistrationRepository
}

// NewPermissionProvider constructs a PermissionProvider.
func NewPermissionProvider(registrations repository.DeviceRegistrationRepository) *PermissionProviderImpl {
	return &PermissionProviderImpl{registrations: registrations}
}

// IsAdmin reports whether the principal carries the admin role.
func (pp *PermissionProviderImpl) IsAdmin(p model.Principal) bool { return p.IsAdmin() }

// CanReadUser allows self-access and admins.
func (pp *PermissionProviderImpl) CanReadUser(p model.Principal, userID uuid.UUID) bool {
	return p.IsAdmin() || p.UserID == userID
}

// CanWriteUser allows self-access and admins.
func (pp *PermissionProviderImpl) CanWriteUser(p model.Principal, userID uuid.UUID) bool {
	return p.IsAdmin() || p.UserID == userID
}

// IsRegisteredOwnerOrAdmin checks the active registration's owner username
// against the principal.
func (pp *PermissionProviderImpl) IsRegisteredOwnerOrAdmin(ctx context.Context, p model.Principal, deviceID int64) (bool, error) {
	if p.IsAdmin() {
		return true, nil
	}
	if p.Username == "" {
		return false, nil
	}
	return pp.registrations.ExistsActiveByDeviceAndOwnerUsername(ctx, deviceID, p.Username)
}

// IsOwnDevice requires a device-scoped token minted for this exact device.
func (pp *PermissionProviderImpl) IsOwnDevice(p model.Principal, deviceID int64) bool {
	return p.HasRole(model.RoleDevice) && p.DeviceID != nil && *p.DeviceID == deviceID
}
