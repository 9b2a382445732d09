package token

import (
	"errors"
	"testing"
	"time"

	"github.com/asadolabs/asador/internal/errs"
	"github.com/asadolabs/asador/internal/model"
	"github.com/gofrs/uuid/v5"
)

func testUser() *model.User {
	return &model.User{
		ID:       uuid.Must(uuid.NewV4()),
		Username: "alice",
		Roles:    []model.Role{model.RoleUser},
	}
}

func TestJWTSigner_UserToken_RoundTrip(t *testing.T) {
	t.Parallel()
	s := NewJWTSigner([]byte("secret"), time.Minute, time.Hour)
	u := testUser()

	issued, err := s.GenerateUserToken(u)
	if err != nil {
		t.Fatalf("GenerateUserToken: %v", err)
	}
	if issued.Raw == "" || issued.JTI == uuid.Nil {
		t.Fatalf("bad issued token: %+v", issued)
	}

	claims, err := s.Parse(issued.Raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != u.ID.String() || claims.ID != issued.JTI.String() {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.Username != "alice" || len(claims.Roles) != 1 || claims.Roles[0] != string(model.RoleUser) {
		t.Fatalf("bad identity claims: %+v", claims)
	}
	if claims.DeviceID != nil {
		t.Fatalf("user token must not carry a device id")
	}
}

func TestJWTSigner_DeviceToken_Claims(t *testing.T) {
	t.Parallel()
	s := NewJWTSigner([]byte("secret"), time.Minute, time.Hour)
	u := testUser()

	issued, err := s.GenerateDeviceToken(u, 42)
	if err != nil {
		t.Fatalf("GenerateDeviceToken: %v", err)
	}
	claims, err := s.Parse(issued.Raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.DeviceID == nil || *claims.DeviceID != 42 {
		t.Fatalf("want deviceId 42, got %v", claims.DeviceID)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != string(model.RoleDevice) {
		t.Fatalf("device token must carry only the device role: %+v", claims.Roles)
	}
}

func TestJWTSigner_FreshJTIPerCall(t *testing.T) {
	t.Parallel()
	s := NewJWTSigner([]byte("secret"), time.Minute, time.Hour)
	u := testUser()

	a, _ := s.GenerateUserToken(u)
	b, _ := s.GenerateUserToken(u)
	if a.JTI == b.JTI {
		t.Fatalf("consecutive tokens must carry distinct jtis")
	}
}

func TestJWTSigner_Parse_Rejections(t *testing.T) {
	t.Parallel()
	s := NewJWTSigner([]byte("secret"), time.Minute, time.Hour)
	other := NewJWTSigner([]byte("other-key"), time.Minute, time.Hour)
	expired := NewJWTSigner([]byte("secret"), -time.Minute, time.Hour)
	u := testUser()

	if _, err := s.Parse("not-a-token"); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized on garbage, got %v", err)
	}

	foreign, _ := other.GenerateUserToken(u)
	if _, err := s.Parse(foreign.Raw); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized on wrong key, got %v", err)
	}

	old, _ := expired.GenerateUserToken(u)
	if _, err := s.Parse(old.Raw); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized on expired token, got %v", err)
	}
}
