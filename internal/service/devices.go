package service

import (
	"context"
	"errors"

	"github.com/asadolabs/asador/internal/errs"
	"github.com/asadolabs/asador/internal/model"
	"github.com/asadolabs/asador/internal/repository"
	"github.com/gofrs/uuid/v5"
)

// RegisteredDevice pairs a device with its active registration, if any.
type RegisteredDevice struct {
	Device       model.Device
	Registration *model.DeviceRegistration // nil when the device is unregistered
}

// DeviceService defines the device registry and state machine operations.
// Every operation takes the authenticated caller explicitly.
type DeviceService interface {
	// CreateDevice provisions a device with an externally assigned id. Admin only.
	CreateDevice(ctx context.Context, p model.Principal, deviceID int64) (*model.Device, error)
	// ListDevices returns all devices with registration data. Admin only.
	ListDevices(ctx context.Context, p model.Principal) ([]RegisteredDevice, error)
	// GetDevice returns one device with registration data.
	GetDevice(ctx context.Context, p model.Principal, deviceID int64) (*RegisteredDevice, error)
	// ListUserDevices returns the devices actively registered to the owner.
	ListUserDevices(ctx context.Context, p model.Principal, ownerID uuid.UUID) ([]RegisteredDevice, error)
	// RegisterDevice binds a device to an owner. Idempotent for the same owner;
	// fails with a unique violation when another owner holds the device.
	RegisterDevice(ctx context.Context, p model.Principal, ownerID uuid.UUID, deviceID int64) error
	// UnregisterDevice releases the device's active registration. Idempotent.
	UnregisterDevice(ctx context.Context, p model.Principal, deviceID int64) error
	// SetNickname names the device within the owner's registrations.
	SetNickname(ctx context.Context, p model.Principal, ownerID uuid.UUID, deviceID int64, nickname *string) error
	// DeleteNickname clears the nickname.
	DeleteNickname(ctx context.Context, p model.Principal, ownerID uuid.UUID, deviceID int64) error
	// StartCooking moves the device to the active state.
	StartCooking(ctx context.Context, p model.Principal, deviceID int64) error
	// StopCooking moves the device to the idle state.
	StopCooking(ctx context.Context, p model.Principal, deviceID int64) error
	// UpdateTemperature records a measurement reported by the device itself.
	UpdateTemperature(ctx context.Context, p model.Principal, deviceID int64, temperature *float64) error
	// SetTargetTemperature sets the temperature the cook is aiming for.
	SetTargetTemperature(ctx context.Context, p model.Principal, deviceID int64, temperature *float64) error
	// ClearTargetTemperature removes the target temperature.
	ClearTargetTemperature(ctx context.Context, p model.Principal, deviceID int64) error
}

type DeviceServiceImpl struct {
	users         repository.UserRepository
	devices       repository.DeviceRepository
	registrations repository.DeviceRegistrationRepository
	perms         PermissionProvider
}

// NewDeviceService constructs DeviceService with required dependencies.
func NewDeviceService(
	users repository.UserRepository,
	devices repository.DeviceRepository,
	registrations repository.DeviceRegistrationRepository,
	perms PermissionProvider,
) *DeviceServiceImpl {
	return &DeviceServiceImpl{users: users, devices: devices, registrations: registrations, perms: perms}
}

// CreateDevice fails with a unique violation when the id is taken; the new
// device starts idle with no temperature data.
func (s *DeviceServiceImpl) CreateDevice(ctx context.Context, p model.Principal, deviceID int64) (*model.Device, error) {
	if !s.perms.IsAdmin(p) {
		return nil, errs.ErrForbidden
	}
	exists, err := s.devices.Exists(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.UniqueViolation("the device id is already created", "deviceId")
	}

	device := model.NewDevice(deviceID)
	if err := s.devices.Create(ctx, device); err != nil {
		return nil, err
	}
	return device, nil
}

// ListDevices returns every device, each with its active registration if present.
func (s *DeviceServiceImpl) ListDevices(ctx context.Context, p model.Principal) ([]RegisteredDevice, error) {
	if !s.perms.IsAdmin(p) {
		return nil, errs.ErrForbidden
	}
	devices, err := s.devices.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RegisteredDevice, 0, len(devices))
	for i := range devices {
		wrapped, err := s.withRegistration(ctx, devices[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *wrapped)
	}
	return out, nil
}

// GetDevice returns the device and its active registration data.
func (s *DeviceServiceImpl) GetDevice(ctx context.Context, p model.Principal, deviceID int64) (*RegisteredDevice, error) {
	allowed, err := s.perms.IsRegisteredOwnerOrAdmin(ctx, p, deviceID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, errs.ErrForbidden
	}
	device, err := s.devices.GetByID(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	return s.withRegistration(ctx, *device)
}

// ListUserDevices returns the owner's actively registered devices.
func (s *DeviceServiceImpl) ListUserDevices(ctx context.Context, p model.Principal, ownerID uuid.UUID) ([]RegisteredDevice, error) {
	if !s.perms.CanReadUser(p, ownerID) {
		return nil, errs.ErrForbidden
	}
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}
	regs, err := s.registrations.ListActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]RegisteredDevice, 0, len(regs))
	for i := range regs {
		device, err := s.devices.GetByID(ctx, regs[i].DeviceID)
		if err != nil {
			return nil, err
		}
		reg := regs[i]
		out = append(out, RegisteredDevice{Device: *device, Registration: &reg})
	}
	return out, nil
}

// RegisterDevice is idempotent when the same owner already holds the active
// registration, and conflicts when a different owner does.
func (s *DeviceServiceImpl) RegisterDevice(ctx context.Context, p model.Principal, ownerID uuid.UUID, deviceID int64) error {
	if !s.perms.CanWriteUser(p, ownerID) {
		return errs.ErrForbidden
	}
	if _, err := s.devices.GetByID(ctx, deviceID); err != nil {
		return err
	}
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return err
	}

	// Same owner already holds the device: succeed without a new row.
	held, err := s.registrations.ExistsActiveByDeviceAndOwner(ctx, deviceID, ownerID)
	if err != nil {
		return err
	}
	if held {
		return nil
	}

	taken, err := s.registrations.ExistsActiveByDevice(ctx, deviceID)
	if err != nil {
		return err
	}
	if taken {
		return errs.UniqueViolation("the device is already registered", "deviceId")
	}

	reg, err := model.NewDeviceRegistration(deviceID, ownerID)
	if err != nil {
		return err
	}
	return s.registrations.Create(ctx, reg)
}

// UnregisterDevice inactivates the active registration; absence is a no-op.
func (s *DeviceServiceImpl) UnregisterDevice(ctx context.Context, p model.Principal, deviceID int64) error {
	allowed, err := s.perms.IsRegisteredOwnerOrAdmin(ctx, p, deviceID)
	if err != nil {
		return err
	}
	if !allowed {
		return errs.ErrForbidden
	}
	if _, err := s.devices.GetByID(ctx, deviceID); err != nil {
		return err
	}

	reg, err := s.registrations.FindActiveByDevice(ctx, deviceID)
	if errors.Is(err, errs.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	reg.Inactivate()
	return s.registrations.Save(ctx, reg)
}

// SetNickname rejects a nickname already used by another of the owner's
// active registrations; re-setting the current nickname is a no-op value.
func (s *DeviceServiceImpl) SetNickname(ctx context.Context, p model.Principal, ownerID uuid.UUID, deviceID int64, nickname *string) error {
	return s.withOwnRegistration(ctx, p, ownerID, deviceID, func(reg *model.DeviceRegistration) error {
		if nickname != nil && (reg.Nickname == nil || *reg.Nickname != *nickname) {
			inUse, err := s.registrations.ExistsActiveByOwnerAndNickname(ctx, ownerID, *nickname)
			if err != nil {
				return err
			}
			if inUse {
				return errs.UniqueViolation("the nickname for the device is already in use", "nickname", "userId")
			}
		}
		return reg.SetNickname(nickname)
	})
}

// DeleteNickname clears the nickname. Always succeeds for an owned registration.
func (s *DeviceServiceImpl) DeleteNickname(ctx context.Context, p model.Principal, ownerID uuid.UUID, deviceID int64) error {
	return s.withOwnRegistration(ctx, p, ownerID, deviceID, func(reg *model.DeviceRegistration) error {
		reg.RemoveNickname()
		return nil
	})
}

// StartCooking requires an active registration, like every device mutation.
func (s *DeviceServiceImpl) StartCooking(ctx context.Context, p model.Principal, deviceID int64) error {
	allowed, err := s.perms.IsRegisteredOwnerOrAdmin(ctx, p, deviceID)
	if err != nil {
		return err
	}
	if !allowed {
		return errs.ErrForbidden
	}
	return s.withRegisteredDevice(ctx, deviceID, func(d *model.Device) error {
		d.StartCooking()
		return nil
	})
}

// StopCooking requires an active registration, like every device mutation.
func (s *DeviceServiceImpl) StopCooking(ctx context.Context, p model.Principal, deviceID int64) error {
	allowed, err := s.perms.IsRegisteredOwnerOrAdmin(ctx, p, deviceID)
	if err != nil {
		return err
	}
	if !allowed {
		return errs.ErrForbidden
	}
	return s.withRegisteredDevice(ctx, deviceID, func(d *model.Device) error {
		d.StopCooking()
		return nil
	})
}

// UpdateTemperature accepts reports from the device's own paired token only.
// Reporting works in any cooking state; only the registration is checked.
func (s *DeviceServiceImpl) UpdateTemperature(ctx context.Context, p model.Principal, deviceID int64, temperature *float64) error {
	if !s.perms.IsOwnDevice(p, deviceID) {
		return errs.ErrForbidden
	}
	return s.withRegisteredDevice(ctx, deviceID, func(d *model.Device) error {
		return d.SetTemperature(temperature)
	})
}

// SetTargetTemperature is independent of the cooking state.
func (s *DeviceServiceImpl) SetTargetTemperature(ctx context.Context, p model.Principal, deviceID int64, temperature *float64) error {
	allowed, err := s.perms.IsRegisteredOwnerOrAdmin(ctx, p, deviceID)
	if err != nil {
		return err
	}
	if !allowed {
		return errs.ErrForbidden
	}
	return s.withRegisteredDevice(ctx, deviceID, func(d *model.Device) error {
		return d.SetTargetTemperature(temperature)
	})
}

// ClearTargetTemperature always succeeds for a registered device.
func (s *DeviceServiceImpl) ClearTargetTemperature(ctx context.Context, p model.Principal, deviceID int64) error {
	allowed, err := s.perms.IsRegisteredOwnerOrAdmin(ctx, p, deviceID)
	if err != nil {
		return err
	}
	if !allowed {
		return errs.ErrForbidden
	}
	return s.withRegisteredDevice(ctx, deviceID, func(d *model.Device) error {
		d.ClearTargetTemperature()
		return nil
	})
}

// withRegistration wraps a device with its active registration if present.
func (s *DeviceServiceImpl) withRegistration(ctx context.Context, device model.Device) (*RegisteredDevice, error) {
	reg, err := s.registrations.FindActiveByDevice(ctx, device.ID)
	if errors.Is(err, errs.ErrNotFound) {
		return &RegisteredDevice{Device: device}, nil
	}
	if err != nil {
		return nil, err
	}
	return &RegisteredDevice{Device: device, Registration: reg}, nil
}

// withRegisteredDevice loads the device, enforces the registration guard, and
// persists the device after a successful mutation. No partial writes.
func (s *DeviceServiceImpl) withRegisteredDevice(ctx context.Context, deviceID int64, mutate func(*model.Device) error) error {
	device, err := s.devices.GetByID(ctx, deviceID)
	if err != nil {
		return err
	}
	registered, err := s.registrations.ExistsActiveByDevice(ctx, deviceID)
	if err != nil {
		return err
	}
	if !registered {
		return errs.IllegalState("Device", "device must be registered to operate over it")
	}
	if err := mutate(device); err != nil {
		return err
	}
	return s.devices.Save(ctx, device)
}

// withOwnRegistration loads the (device, owner) active registration, applies
// the mutation, and persists it.
func (s *DeviceServiceImpl) withOwnRegistration(ctx context.Context, p model.Principal, ownerID uuid.UUID, deviceID int64, mutate func(*model.DeviceRegistration) error) error {
	allowed, err := s.perms.IsRegisteredOwnerOrAdmin(ctx, p, deviceID)
	if err != nil {
		return err
	}
	if !allowed {
		return errs.ErrForbidden
	}
	if _, err := s.devices.GetByID(ctx, deviceID); err != nil {
		return err
	}
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return err
	}
	reg, err := s.registrations.FindActiveByDeviceAndOwner(ctx, deviceID, ownerID)
	if err != nil {
		return err
	}
	if err := mutate(reg); err != nil {
		return err
	}
	return s.registrations.Save(ctx, reg)
}
