// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Role is an authority granted to an authenticated caller.
type Role string

// Roles a token bearer can carry.
const (
	// RoleUser marks a normal user account.
	RoleUser Role = "ROLE_USER"
	// RoleAdmin marks an administrator account.
	RoleAdmin Role = "ROLE_ADMIN"
	// RoleDevice marks a bearer allowed to operate as a device (paired thermometer).
	RoleDevice Role = "ROLE_DEVICE"
)

// User represents an account stored on the server. Credentials are hashed with per-user salts.
type User struct {
	ID        uuid.UUID // PK
	Username  string    // unique
	PwdHash   []byte    // Argon2id(password, SaltAuth)
	SaltAuth  []byte    // per-user auth salt
	Roles     []Role
	CreatedAt time.Time
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Session is the record of an issued token, keyed by (owner, jti) so the
// token can later be invalidated. Device pairing tokens share this table.
type Session struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	JTI         uuid.UUID // unique per owner
	CreatedAt   time.Time
	Blacklisted bool
}

// Blacklist permanently invalidates the session. One-way transition.
func (s *Session) Blacklist() { s.Blacklisted = true }

// Valid reports whether the session may still authenticate requests.
func (s *Session) Valid() bool { return !s.Blacklisted }

// Tokens collects an issued access token with its expiry.
type Tokens struct {
	AccessToken string
	ExpiresAt   time.Time // for diagnostics
}

// Principal is the authenticated caller, passed explicitly to service
// operations instead of being read from ambient state.
type Principal struct {
	UserID   uuid.UUID
	Username string
	Roles    []Role
	DeviceID *int64 // set when the bearer token was issued to a device
}

// HasRole reports whether the principal carries the given role.
func (p Principal) HasRole(role Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the principal is an administrator.
func (p Principal) IsAdmin() bool { return p.HasRole(RoleAdmin) }
