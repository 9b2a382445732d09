package postgres

import (
	"context"
	"errors"

	"github.com/asadolabs/asador/internal/errs"
	"github.com/asadolabs/asador/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user row.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `
INSERT INTO users (id, username, pwd_hash, salt_auth, roles)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Pool.Exec(ctx, q, u.ID, u.Username, u.PwdHash, u.SaltAuth, rolesToStrings(u.Roles))
	if isUniqueViolation(err) {
		return errs.UniqueViolation("the username is already taken", "username")
	}
	return err
}

// GetByID selects a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const q = `
SELECT id, username, pwd_hash, salt_auth, roles, created_at
FROM users WHERE id=$1`
	return r.scanOne(r.db.Pool.QueryRow(ctx, q, id))
}

// GetByUsername selects a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = `
SELECT id, username, pwd_hash, salt_auth, roles, created_at
FROM users WHERE username=$1`
	return r.scanOne(r.db.Pool.QueryRow(ctx, q, username))
}

func (r *UserRepo) scanOne(row pgx.Row) (*model.User, error) {
	var u model.User
	var roles []string
	if err := row.Scan(&u.ID, &u.Username, &u.PwdHash, &u.SaltAuth, &roles, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	u.Roles = stringsToRoles(roles)
	return &u, nil
}

func rolesToStrings(roles []model.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

func stringsToRoles(ss []string) []model.Role {
	out := make([]model.Role, len(ss))
	for i, s := range ss {
		out[i] = model.Role(s)
	}
	return out
}
