package repository

import (
	"context"

	"github.com/asadolabs/asador/internal/model"
	"github.com/gofrs/uuid/v5"
)

// SessionRepository provides access to issued-token session records.
// Sessions are never physically deleted; invalidation is the blacklist flag.
type SessionRepository interface {
	// Create inserts a new session row.
	Create(ctx context.Context, s *model.Session) error
	// Save persists the blacklist flag.
	Save(ctx context.Context, s *model.Session) error
	// GetByOwnerAndJTI loads a session by its (owner, jti) key.
	GetByOwnerAndJTI(ctx context.Context, ownerID, jti uuid.UUID) (*model.Session, error)
	// ExistsByOwnerAndJTI reports whether a session already uses (owner, jti).
	ExistsByOwnerAndJTI(ctx context.Context, ownerID, jti uuid.UUID) (bool, error)
	// ListByOwner returns the owner's sessions ordered by creation time.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Session, error)
}
