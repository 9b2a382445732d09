package model

import (
	"strings"
	"testing"

	"github.com/asadolabs/asador/internal/errs"
	"github.com/gofrs/uuid/v5"
)

func sptr(s string) *string { return &s }

func TestDeviceRegistration_New(t *testing.T) {
	t.Parallel()
	owner := uuid.Must(uuid.NewV4())
	r, err := NewDeviceRegistration(42, owner)
	if err != nil {
		t.Fatalf("NewDeviceRegistration: %v", err)
	}
	if !r.Active {
		t.Fatalf("want new registration active")
	}
	if r.Nickname != nil {
		t.Fatalf("want no nickname on creation, got %q", *r.Nickname)
	}
	if r.DeviceID != 42 || r.OwnerID != owner {
		t.Fatalf("bad binding: %+v", r)
	}
	if r.CreatedAt.IsZero() {
		t.Fatalf("want created_at stamped")
	}
}

func TestDeviceRegistration_SetNickname(t *testing.T) {
	t.Parallel()
	r, _ := NewDeviceRegistration(1, uuid.Must(uuid.NewV4()))

	wantValidationCause(t, r.SetNickname(sptr("")), errs.CauseTooShort)
	wantValidationCause(t, r.SetNickname(sptr(strings.Repeat("x", NicknameMaxLength+1))), errs.CauseTooLong)
	if r.Nickname != nil {
		t.Fatalf("failed validation must not set nickname")
	}

	if err := r.SetNickname(sptr("grill probe")); err != nil {
		t.Fatalf("SetNickname: %v", err)
	}
	if r.Nickname == nil || *r.Nickname != "grill probe" {
		t.Fatalf("want nickname set, got %v", r.Nickname)
	}

	// nil clears
	if err := r.SetNickname(nil); err != nil {
		t.Fatalf("SetNickname(nil): %v", err)
	}
	if r.Nickname != nil {
		t.Fatalf("want nickname cleared")
	}
}

func TestDeviceRegistration_Inactivate(t *testing.T) {
	t.Parallel()
	r, _ := NewDeviceRegistration(1, uuid.Must(uuid.NewV4()))
	r.Inactivate()
	if r.Active {
		t.Fatalf("want inactive after Inactivate")
	}
}

func TestSession_Blacklist_OneWay(t *testing.T) {
	t.Parallel()
	s := &Session{ID: uuid.Must(uuid.NewV4()), OwnerID: uuid.Must(uuid.NewV4()), JTI: uuid.Must(uuid.NewV4())}
	if !s.Valid() {
		t.Fatalf("want fresh session valid")
	}
	s.Blacklist()
	if s.Valid() {
		t.Fatalf("want blacklisted session invalid")
	}
}

func TestFoodPreference_Validation(t *testing.T) {
	t.Parallel()
	owner := uuid.Must(uuid.NewV4())

	if _, err := NewFoodPreference(owner, "", nil); err == nil {
		t.Fatalf("want validation error on empty name and missing temperature")
	} else {
		wantValidationCause(t, err, errs.CauseTooShort)
		wantValidationCause(t, err, errs.CauseMissing)
	}

	p, err := NewFoodPreference(owner, "rare beef", fptr(52))
	if err != nil {
		t.Fatalf("NewFoodPreference: %v", err)
	}
	if err := p.Update("chicken", fptr(74)); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p.Name != "chicken" || *p.Temperature != 74 {
		t.Fatalf("bad update: %+v", p)
	}
	wantValidationCause(t, p.Update("chicken", fptr(5000)), errs.CauseTooHigh)
	if *p.Temperature != 74 {
		t.Fatalf("failed update must not mutate")
	}
}
