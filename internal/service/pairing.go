package service

import (
	"context"

	"github.com/asadolabs/asador/internal/errs"
	"github.com/asadolabs/asador/internal/model"
	"github.com/asadolabs/asador/internal/repository"
	"github.com/asadolabs/asador/internal/token"
	"github.com/gofrs/uuid/v5"
)

// PairingService issues device-scoped tokens so a physical thermometer can
// authenticate future requests as itself.
type PairingService interface {
	// Pair issues a device token for the owner's registered device.
	// Fails with IllegalState when the device has no active registration.
	Pair(ctx context.Context, p model.Principal, ownerID uuid.UUID, deviceID int64) (model.Tokens, error)
	// PairAsSystem is the admin-initiated variant: it skips the registration
	// check and is intended for provisioning flows.
	PairAsSystem(ctx context.Context, p model.Principal, ownerID uuid.UUID, deviceID int64) (model.Tokens, error)
}

type PairingServiceImpl struct {
	users         repository.UserRepository
	devices       repository.DeviceRepository
	registrations repository.DeviceRegistrationRepository
	signer        token.Signer
	issuer        sessionIssuer
	perms         PermissionProvider
}

// NewPairingService constructs PairingService with required dependencies.
func NewPairingService(
	users repository.UserRepository,
	devices repository.DeviceRepository,
	registrations repository.DeviceRegistrationRepository,
	sessions repository.SessionRepository,
	signer token.Signer,
	perms PermissionProvider,
) *PairingServiceImpl {
	return &PairingServiceImpl{
		users:         users,
		devices:       devices,
		registrations: registrations,
		signer:        signer,
		issuer:        sessionIssuer{sessions: sessions},
		perms:         perms,
	}
}

// Pair verifies ownership and active registration, then mints a device token
// whose session id is guaranteed unique for the owner.
func (s *PairingServiceImpl) Pair(ctx context.Context, p model.Principal, ownerID uuid.UUID, deviceID int64) (model.Tokens, error) {
	allowed, err := s.perms.IsRegisteredOwnerOrAdmin(ctx, p, deviceID)
	if err != nil {
		return model.Tokens{}, err
	}
	if !allowed {
		return model.Tokens{}, errs.ErrForbidden
	}

	user, device, err := s.lookup(ctx, ownerID, deviceID)
	if err != nil {
		return model.Tokens{}, err
	}

	registered, err := s.registrations.ExistsActiveByDevice(ctx, deviceID)
	if err != nil {
		return model.Tokens{}, err
	}
	if !registered {
		return model.Tokens{}, errs.IllegalState("Device", "device must be registered to operate over it")
	}

	return s.mint(ctx, user, device.ID)
}

// PairAsSystem mints a device token without the registration gate. Admin only.
func (s *PairingServiceImpl) PairAsSystem(ctx context.Context, p model.Principal, ownerID uuid.UUID, deviceID int64) (model.Tokens, error) {
	if !s.perms.IsAdmin(p) {
		return model.Tokens{}, errs.ErrForbidden
	}
	user, device, err := s.lookup(ctx, ownerID, deviceID)
	if err != nil {
		return model.Tokens{}, err
	}
	return s.mint(ctx, user, device.ID)
}

func (s *PairingServiceImpl) lookup(ctx context.Context, ownerID uuid.UUID, deviceID int64) (*model.User, *model.Device, error) {
	user, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}
	device, err := s.devices.GetByID(ctx, deviceID)
	if err != nil {
		return nil, nil, err
	}
	return user, device, nil
}

func (s *PairingServiceImpl) mint(ctx context.Context, user *model.User, deviceID int64) (model.Tokens, error) {
	issued, err := s.issuer.issue(ctx, user.ID, func() (token.Issued, error) {
		return s.signer.GenerateDeviceToken(user, deviceID)
	})
	if err != nil {
		return model.Tokens{}, err
	}
	return model.Tokens{AccessToken: issued.Raw, ExpiresAt: issued.ExpiresAt}, nil
}
