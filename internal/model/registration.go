package model

import (
	"time"

	"github.com/asadolabs/asador/internal/errs"
	"github.com/gofrs/uuid/v5"
)

// Nickname length bounds.
const (
	NicknameMinLength = 1
	NicknameMaxLength = 256
)

// DeviceRegistration binds a device to an owner. At most one registration per
// device is active at any time; inactive rows are kept as history.
type DeviceRegistration struct {
	ID        uuid.UUID
	DeviceID  int64
	OwnerID   uuid.UUID
	Nickname  *string // nil until the owner names the device
	CreatedAt time.Time
	Active    bool
}

// NewDeviceRegistration creates an active registration with no nickname.
func NewDeviceRegistration(deviceID int64, ownerID uuid.UUID) (*DeviceRegistration, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	return &DeviceRegistration{
		ID:        id,
		DeviceID:  deviceID,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
		Active:    true,
	}, nil
}

// SetNickname changes the nickname. A nil nickname clears it; a non-nil one
// must be within length bounds.
func (r *DeviceRegistration) SetNickname(nickname *string) error {
	if err := ValidateNickname(nickname); err != nil {
		return err
	}
	r.Nickname = nickname
	return nil
}

// RemoveNickname clears the nickname. Always succeeds.
func (r *DeviceRegistration) RemoveNickname() { r.Nickname = nil }

// Inactivate releases the device for re-registration. One-way per row.
func (r *DeviceRegistration) Inactivate() { r.Active = false }

// ValidateNickname checks nickname length bounds. nil is allowed (no nickname).
func ValidateNickname(nickname *string) error {
	if nickname == nil {
		return nil
	}
	if len(*nickname) < NicknameMinLength {
		return errs.Validation(errs.FieldError{Field: "nickname", Cause: errs.CauseTooShort})
	}
	if len(*nickname) > NicknameMaxLength {
		return errs.Validation(errs.FieldError{Field: "nickname", Cause: errs.CauseTooLong})
	}
	return nil
}
