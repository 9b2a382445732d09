// Package token creates and parses signed access tokens for users and devices.
package token

import (
	"errors"
	"time"

	"github.com/asadolabs/asador/internal/errs"
	"github.com/asadolabs/asador/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
)

// Issued is a raw signed token together with the session id embedded in it.
type Issued struct {
	Raw       string
	JTI       uuid.UUID
	ExpiresAt time.Time
}

// Signer mints tokens. The signer is free to pick the jti; callers are
// responsible for session-table uniqueness.
type Signer interface {
	// GenerateUserToken creates a token authenticating the user itself.
	GenerateUserToken(u *model.User) (Issued, error)
	// GenerateDeviceToken creates a token letting the device authenticate
	// requests as itself on behalf of its owner. Used for pairing.
	GenerateDeviceToken(u *model.User, deviceID int64) (Issued, error)
}

// Claims is the JWT payload carried by both user and device tokens.
type Claims struct {
	jwt.RegisteredClaims
	Username string   `json:"username,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	DeviceID *int64   `json:"deviceId,omitempty"`
}

// JWTSigner implements Signer with HS256-signed JWTs.
type JWTSigner struct {
	key       []byte
	userTTL   time.Duration
	deviceTTL time.Duration
}

// NewJWTSigner constructs a signer with separate TTLs for user logins and
// device pairing tokens (device tokens are long-lived).
func NewJWTSigner(key []byte, userTTL, deviceTTL time.Duration) *JWTSigner {
	return &JWTSigner{key: key, userTTL: userTTL, deviceTTL: deviceTTL}
}

// GenerateUserToken creates a signed HS256 JWT for the given user.
func (s *JWTSigner) GenerateUserToken(u *model.User) (Issued, error) {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, string(r))
	}
	return s.sign(u, roles, nil, s.userTTL)
}

// GenerateDeviceToken creates a signed HS256 JWT scoped to a single device.
func (s *JWTSigner) GenerateDeviceToken(u *model.User, deviceID int64) (Issued, error) {
	return s.sign(u, []string{string(model.RoleDevice)}, &deviceID, s.deviceTTL)
}

func (s *JWTSigner) sign(u *model.User, roles []string, deviceID *int64, ttl time.Duration) (Issued, error) {
	jti, err := uuid.NewV4()
	if err != nil {
		return Issued{}, err
	}
	now := time.Now()
	exp := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			ID:        jti.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Username: u.Username,
		Roles:    roles,
		DeviceID: deviceID,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.key)
	if err != nil {
		return Issued{}, err
	}
	return Issued{Raw: signed, JTI: jti, ExpiresAt: exp}, nil
}

// Parse validates a raw token and returns its claims.
// Invalid, expired, or foreign-key tokens map to ErrUnauthorized.
func (s *JWTSigner) Parse(raw string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.key, nil
	})
	if err != nil {
		return nil, errs.ErrUnauthorized
	}
	return &claims, nil
}
