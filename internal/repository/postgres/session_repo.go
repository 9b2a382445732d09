package postgres

import (
	"context"
	"errors"

	"github.com/asadolabs/asador/internal/errs"
	"github.com/asadolabs/asador/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// SessionRepo implements SessionRepository using PostgreSQL.
type SessionRepo struct{ db *DB }

// NewSessionRepo constructs a session repository.
func NewSessionRepo(db *DB) *SessionRepo { return &SessionRepo{db: db} }

// Create inserts a new session row. The (user_id, jti) unique constraint is
// the hard backstop behind the issuer's existence check.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	const q = `
INSERT INTO sessions (id, user_id, jti, created_at, blacklisted)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Pool.Exec(ctx, q, s.ID, s.OwnerID, s.JTI, s.CreatedAt, s.Blacklisted)
	if isUniqueViolation(err) {
		return errs.UniqueViolation("the session id is already in use", "jti", "userId")
	}
	return err
}

// Save persists the blacklist flag.
func (r *SessionRepo) Save(ctx context.Context, s *model.Session) error {
	const q = `UPDATE sessions SET blacklisted=$2 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, s.ID, s.Blacklisted)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// GetByOwnerAndJTI selects a session by its (owner, jti) key.
func (r *SessionRepo) GetByOwnerAndJTI(ctx context.Context, ownerID, jti uuid.UUID) (*model.Session, error) {
	const q = `
SELECT id, user_id, jti, created_at, blacklisted
FROM sessions WHERE user_id=$1 AND jti=$2`
	row := r.db.Pool.QueryRow(ctx, q, ownerID, jti)
	var s model.Session
	if err := row.Scan(&s.ID, &s.OwnerID, &s.JTI, &s.CreatedAt, &s.Blacklisted); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ExistsByOwnerAndJTI reports whether a session already uses (owner, jti).
func (r *SessionRepo) ExistsByOwnerAndJTI(ctx context.Context, ownerID, jti uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM sessions WHERE user_id=$1 AND jti=$2)`
	var exists bool
	if err := r.db.Pool.QueryRow(ctx, q, ownerID, jti).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListByOwner returns the owner's sessions ordered by creation time.
func (r *SessionRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Session, error) {
	const q = `
SELECT id, user_id, jti, created_at, blacklisted
FROM sessions WHERE user_id=$1
ORDER BY created_at ASC`
	rows, err := r.db.Pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Session
	for rows.Next() {
		var s model.Session
		if err = rows.Scan(&s.ID, &s.OwnerID, &s.JTI, &s.CreatedAt, &s.Blacklisted); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
