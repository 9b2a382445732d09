package service

import (
	"context"
	"errors"
	"testing"

	"github.com/asadolabs/asador/internal/errs"
	"github.com/asadolabs/asador/internal/model"
	"github.com/gofrs/uuid/v5"
)

func TestPair(t *testing.T) {
	e := newEnv()
	owner := e.addUser(t, "owner")
	e.addDevice(t, 42)
	e.register(t, 42, owner.ID)
	svc := e.pairingService()

	tokens, err := svc.Pair(context.Background(), principalFor(owner), owner.ID, 42)
	if err != nil {
		t.Fatalf("Pair: %v", err)
	}
	if tokens.AccessToken == "" {
		t.Fatalf("Pair returned empty token")
	}
	if len(e.sessions.rows) != 1 {
		t.Fatalf("sessions = %d, want 1", len(e.sessions.rows))
	}
	if e.sessions.rows[0].OwnerID != owner.ID {
		t.Fatalf("session owner = %s, want %s", e.sessions.rows[0].OwnerID, owner.ID)
	}
}

func TestPairUnregisteredDevice(t *testing.T) {
	e := newEnv()
	admin := e.addUser(t, "admin", model.RoleUser, model.RoleAdmin)
	e.addDevice(t, 42)
	svc := e.pairingService()

	_, err := svc.Pair(context.Background(), principalFor(admin), admin.ID, 42)
	var ise *errs.IllegalStateError
	if !errors.As(err, &ise) {
		t.Fatalf("Pair unregistered error = %v, want illegal state", err)
	}
	if len(e.sessions.rows) != 0 {
		t.Fatalf("sessions = %d, want 0", len(e.sessions.rows))
	}
}

func TestPairForbiddenForStranger(t *testing.T) {
	e := newEnv()
	owner := e.addUser(t, "owner")
	stranger := e.addUser(t, "stranger")
	e.addDevice(t, 42)
	e.register(t, 42, owner.ID)
	svc := e.pairingService()

	if _, err := svc.Pair(context.Background(), principalFor(stranger), owner.ID, 42); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("Pair as stranger error = %v, want forbidden", err)
	}
}

func TestPairRetriesOnJTICollision(t *testing.T) {
	e := newEnv()
	owner := e.addUser(t, "owner")
	e.addDevice(t, 42)
	e.register(t, 42, owner.ID)

	// Two existing sessions occupy the first two candidate jtis; the signer is
	// scripted to collide twice before producing a fresh jti.
	taken1 := uuid.Must(uuid.NewV4())
	taken2 := uuid.Must(uuid.NewV4())
	for _, jti := range []uuid.UUID{taken1, taken2} {
		s := &model.Session{ID: uuid.Must(uuid.NewV4()), OwnerID: owner.ID, JTI: jti}
		if err := e.sessions.Create(context.Background(), s); err != nil {
			t.Fatalf("seed session: %v", err)
		}
	}
	fresh := uuid.Must(uuid.NewV4())
	e.signer.jtis = []uuid.UUID{taken1, taken2, fresh}
	svc := e.pairingService()

	tokens, err := svc.Pair(context.Background(), principalFor(owner), owner.ID, 42)
	if err != nil {
		t.Fatalf("Pair with collisions: %v", err)
	}
	if tokens.AccessToken != "token-3" {
		t.Fatalf("access token = %s, want the third minted token", tokens.AccessToken)
	}
	if e.signer.calls != 3 {
		t.Fatalf("signer calls = %d, want 3", e.signer.calls)
	}
	if len(e.sessions.rows) != 3 {
		t.Fatalf("sessions = %d, want 2 seeded + 1 new", len(e.sessions.rows))
	}
	last := e.sessions.rows[2]
	if last.JTI != fresh {
		t.Fatalf("new session jti = %s, want %s", last.JTI, fresh)
	}
}

func TestPairExhaustsAfterMaxTries(t *testing.T) {
	e := newEnv()
	owner := e.addUser(t, "owner")
	e.addDevice(t, 42)
	e.register(t, 42, owner.ID)

	stuck := uuid.Must(uuid.NewV4())
	s := &model.Session{ID: uuid.Must(uuid.NewV4()), OwnerID: owner.ID, JTI: stuck}
	if err := e.sessions.Create(context.Background(), s); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	e.signer.fixed = stuck
	svc := e.pairingService()

	_, err := svc.Pair(context.Background(), principalFor(owner), owner.ID, 42)
	var pe *errs.PairingExhaustedError
	if !errors.As(err, &pe) {
		t.Fatalf("Pair error = %v, want pairing exhausted", err)
	}
	if pe.Tries != maxSessionTries {
		t.Fatalf("tries = %d, want %d", pe.Tries, maxSessionTries)
	}
	if e.signer.calls != maxSessionTries {
		t.Fatalf("signer calls = %d, want exactly %d", e.signer.calls, maxSessionTries)
	}
	if len(e.sessions.rows) != 1 {
		t.Fatalf("sessions = %d, want only the seeded one", len(e.sessions.rows))
	}
}

func TestPairAsSystem(t *testing.T) {
	e := newEnv()
	admin := e.addUser(t, "admin", model.RoleUser, model.RoleAdmin)
	owner := e.addUser(t, "owner")
	e.addDevice(t, 42)
	svc := e.pairingService()

	// No registration required for the system variant.
	tokens, err := svc.PairAsSystem(context.Background(), principalFor(admin), owner.ID, 42)
	if err != nil {
		t.Fatalf("PairAsSystem: %v", err)
	}
	if tokens.AccessToken == "" {
		t.Fatalf("PairAsSystem returned empty token")
	}
	if len(e.sessions.rows) != 1 || e.sessions.rows[0].OwnerID != owner.ID {
		t.Fatalf("session should be persisted for the target owner")
	}
}

func TestPairAsSystemRequiresAdmin(t *testing.T) {
	e := newEnv()
	owner := e.addUser(t, "owner")
	e.addDevice(t, 42)
	e.register(t, 42, owner.ID)
	svc := e.pairingService()

	if _, err := svc.PairAsSystem(context.Background(), principalFor(owner), owner.ID, 42); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("PairAsSystem as owner error = %v, want forbidden", err)
	}
}

func TestPairUnknownOwner(t *testing.T) {
	e := newEnv()
	admin := e.addUser(t, "admin", model.RoleUser, model.RoleAdmin)
	e.addDevice(t, 42)
	e.register(t, 42, admin.ID)
	svc := e.pairingService()

	if _, err := svc.Pair(context.Background(), principalFor(admin), uuid.Must(uuid.NewV4()), 42); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("Pair unknown owner error = %v, want not found", err)
	}
}
