package service

import (
	"context"
	"errors"

	"github.com/asadolabs/asador/internal/errs"
	"github.com/asadolabs/asador/internal/model"
	"github.com/asadolabs/asador/internal/repository"
	"github.com/gofrs/uuid/v5"
)

// SessionService manages issued-token session records.
type SessionService interface {
	// ListSessions returns the owner's sessions.
	ListSessions(ctx context.Context, p model.Principal, ownerID uuid.UUID) ([]model.Session, error)
	// ValidSession reports whether (owner, jti) identifies a non-blacklisted
	// session. Used by the authentication layer on every request.
	ValidSession(ctx context.Context, ownerID, jti uuid.UUID) (bool, error)
	// InvalidateSession blacklists the session. One-way; the token stops
	// authenticating immediately.
	InvalidateSession(ctx context.Context, p model.Principal, ownerID, jti uuid.UUID) error
}

type SessionServiceImpl struct {
	sessions repository.SessionRepository
	perms    PermissionProvider
}

// NewSessionService constructs SessionService with required dependencies.
func NewSessionService(sessions repository.SessionRepository, perms PermissionProvider) *SessionServiceImpl {
	return &SessionServiceImpl{sessions: sessions, perms: perms}
}

// ListSessions requires self-access or admin.
func (s *SessionServiceImpl) ListSessions(ctx context.Context, p model.Principal, ownerID uuid.UUID) ([]model.Session, error) {
	if !s.perms.CanReadUser(p, ownerID) {
		return nil, errs.ErrForbidden
	}
	return s.sessions.ListByOwner(ctx, ownerID)
}

// ValidSession treats a missing session as invalid rather than an error.
func (s *SessionServiceImpl) ValidSession(ctx context.Context, ownerID, jti uuid.UUID) (bool, error) {
	session, err := s.sessions.GetByOwnerAndJTI(ctx, ownerID, jti)
	if errors.Is(err, errs.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return session.Valid(), nil
}

// InvalidateSession blacklists and persists. NotFound propagates.
func (s *SessionServiceImpl) InvalidateSession(ctx context.Context, p model.Principal, ownerID, jti uuid.UUID) error {
	if !s.perms.CanWriteUser(p, ownerID) {
		return errs.ErrForbidden
	}
	session, err := s.sessions.GetByOwnerAndJTI(ctx, ownerID, jti)
	if err != nil {
		return err
	}
	session.Blacklist()
	return s.sessions.Save(ctx, session)
}
