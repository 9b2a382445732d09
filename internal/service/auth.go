package service

import (
	"context"

	pkgcrypto "github.com/asadolabs/asador/internal/crypto"
	"github.com/asadolabs/asador/internal/errs"
	"github.com/asadolabs/asador/internal/limiter"
	"github.com/asadolabs/asador/internal/model"
	"github.com/asadolabs/asador/internal/repository"
	"github.com/asadolabs/asador/internal/token"
	"github.com/gofrs/uuid/v5"
)

// Username and password bounds enforced at registration.
const (
	usernameMinLength = 4
	usernameMaxLength = 64
	passwordMinLength = 8
	passwordMaxLength = 128
)

// AuthService defines account registration and login.
type AuthService interface {
	// Register creates a new user with secure password hashing.
	Register(ctx context.Context, username, password string) (userID uuid.UUID, err error)
	// LoginWithIP applies rate-limiting, authenticates the user, and issues a
	// token whose session id is unique for the user.
	LoginWithIP(ctx context.Context, username, password, ip string) (model.Tokens, model.User, error)
}

type AuthServiceImpl struct {
	users  repository.UserRepository
	signer token.Signer
	issuer sessionIssuer
	lim    limiter.Limiter
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository, signer token.Signer, lim limiter.Limiter) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, signer: signer, issuer: sessionIssuer{sessions: sessions}, lim: lim}
}

// Register creates a new user record with a per-user salt and the user role.
// All credential violations are reported together.
func (s *AuthServiceImpl) Register(ctx context.Context, username, password string) (uuid.UUID, error) {
	if err := validateCredentials(username, password); err != nil {
		return uuid.Nil, err
	}
	uid, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, err
	}
	salt, err := pkgcrypto.NewSalt()
	if err != nil {
		return uuid.Nil, err
	}

	u := &model.User{
		ID:       uid,
		Username: username,
		PwdHash:  pkgcrypto.HashPassword([]byte(password), salt),
		SaltAuth: salt,
		Roles:    []model.Role{model.RoleUser},
	}
	if err := s.users.Create(ctx, u); err != nil {
		return uuid.Nil, err
	}
	return uid, nil
}

// LoginWithIP authenticates with rate limiting by (username, ip).
func (s *AuthServiceImpl) LoginWithIP(ctx context.Context, username, password, ip string) (model.Tokens, model.User, error) {
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, username, ipHash)
	if err != nil {
		return model.Tokens{}, model.User{}, err
	}
	if !allowed {
		return model.Tokens{}, model.User{}, errs.ErrRateLimited
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil || !pkgcrypto.VerifyPassword([]byte(password), u.SaltAuth, u.PwdHash) {
		// Record failure; if the threshold was reached, report rate-limited.
		if blocked, _, ferr := s.lim.Failure(ctx, username, ipHash); ferr == nil && blocked {
			return model.Tokens{}, model.User{}, errs.ErrRateLimited
		}
		// Hide whether the user exists.
		return model.Tokens{}, model.User{}, errs.ErrUnauthorized
	}

	// Success: reset counters (best-effort).
	_ = s.lim.Success(ctx, username, ipHash)

	issued, err := s.issuer.issue(ctx, u.ID, func() (token.Issued, error) {
		return s.signer.GenerateUserToken(u)
	})
	if err != nil {
		return model.Tokens{}, model.User{}, err
	}
	return model.Tokens{AccessToken: issued.Raw, ExpiresAt: issued.ExpiresAt}, *u, nil
}

func validateCredentials(username, password string) error {
	var list []errs.FieldError
	switch {
	case username == "":
		list = append(list, errs.FieldError{Field: "username", Cause: errs.CauseMissing})
	case len(username) < usernameMinLength:
		list = append(list, errs.FieldError{Field: "username", Cause: errs.CauseTooShort})
	case len(username) > usernameMaxLength:
		list = append(list, errs.FieldError{Field: "username", Cause: errs.CauseTooLong})
	}
	switch {
	case password == "":
		list = append(list, errs.FieldError{Field: "password", Cause: errs.CauseMissing})
	case len(password) < passwordMinLength:
		list = append(list, errs.FieldError{Field: "password", Cause: errs.CauseTooShort})
	case len(password) > passwordMaxLength:
		list = append(list, errs.FieldError{Field: "password", Cause: errs.CauseTooLong})
	}
	if len(list) > 0 {
		return errs.Validation(list...)
	}
	return nil
}
