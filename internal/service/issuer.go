package service

import (
	"context"
	"time"

	"github.com/asadolabs/asador/internal/errs"
	"github.com/asadolabs/asador/internal/model"
	"github.com/asadolabs/asador/internal/repository"
	"github.com/asadolabs/asador/internal/token"
	"github.com/gofrs/uuid/v5"
)

// maxSessionTries bounds the jti-collision retry loop.
const maxSessionTries = 10

// sessionIssuer persists a Session for a freshly minted token, retrying the
// signer while the candidate jti is already taken for the owner.
type sessionIssuer struct {
	sessions repository.SessionRepository
}

// issue calls generate up to maxSessionTries times until the candidate jti is
// unused for the owner, then persists exactly one session and returns the
// issued token. Exhaustion persists nothing and is an operator-visible error.
func (i sessionIssuer) issue(ctx context.Context, ownerID uuid.UUID, generate func() (token.Issued, error)) (token.Issued, error) {
	for tries := 0; tries < maxSessionTries; tries++ {
		issued, err := generate()
		if err != nil {
			return token.Issued{}, err
		}
		exists, err := i.sessions.ExistsByOwnerAndJTI(ctx, ownerID, issued.JTI)
		if err != nil {
			return token.Issued{}, err
		}
		if exists {
			continue
		}

		id, err := uuid.NewV4()
		if err != nil {
			return token.Issued{}, err
		}
		s := &model.Session{
			ID:        id,
			OwnerID:   ownerID,
			JTI:       issued.JTI,
			CreatedAt: time.Now().UTC(),
		}
		if err := i.sessions.Create(ctx, s); err != nil {
			return token.Issued{}, err
		}
		return issued, nil
	}
	return token.Issued{}, &errs.PairingExhaustedError{Tries: maxSessionTries}
}
