package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/asadolabs/asador/internal/errs"
	"github.com/asadolabs/asador/internal/model"
	"github.com/asadolabs/asador/internal/token"
	"github.com/gofrs/uuid/v5"
)

// In-memory repository fakes shared by the service tests.

type fakeUsers struct {
	byID map[uuid.UUID]*model.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[uuid.UUID]*model.User{}} }

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	for _, existing := range f.byID {
		if existing.Username == u.Username {
			return errs.UniqueViolation("the username is already in use", "username")
		}
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errs.ErrNotFound
}

type fakeDevices struct {
	byID  map[int64]*model.Device
	saves int
}

func newFakeDevices() *fakeDevices { return &fakeDevices{byID: map[int64]*model.Device{}} }

func (f *fakeDevices) Create(_ context.Context, d *model.Device) error {
	if _, ok := f.byID[d.ID]; ok {
		return errs.UniqueViolation("the device id is already created", "deviceId")
	}
	cp := *d
	f.byID[d.ID] = &cp
	return nil
}

func (f *fakeDevices) GetByID(_ context.Context, id int64) (*model.Device, error) {
	d, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDevices) List(_ context.Context) ([]model.Device, error) {
	out := make([]model.Device, 0, len(f.byID))
	for _, d := range f.byID {
		out = append(out, *d)
	}
	return out, nil
}

func (f *fakeDevices) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.byID[id]
	return ok, nil
}

func (f *fakeDevices) Save(_ context.Context, d *model.Device) error {
	if _, ok := f.byID[d.ID]; !ok {
		return errs.ErrNotFound
	}
	cp := *d
	f.byID[d.ID] = &cp
	f.saves++
	return nil
}

type fakeRegistrations struct {
	rows  []*model.DeviceRegistration
	users *fakeUsers
}

func (f *fakeRegistrations) Create(_ context.Context, r *model.DeviceRegistration) error {
	for _, row := range f.rows {
		if row.Active && row.DeviceID == r.DeviceID {
			return errs.UniqueViolation("the device is already registered", "deviceId")
		}
	}
	cp := *r
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeRegistrations) Save(_ context.Context, r *model.DeviceRegistration) error {
	for i, row := range f.rows {
		if row.ID == r.ID {
			cp := *r
			f.rows[i] = &cp
			return nil
		}
	}
	return errs.ErrNotFound
}

func (f *fakeRegistrations) FindActiveByDevice(_ context.Context, deviceID int64) (*model.DeviceRegistration, error) {
	for _, row := range f.rows {
		if row.Active && row.DeviceID == deviceID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeRegistrations) FindActiveByDeviceAndOwner(_ context.Context, deviceID int64, ownerID uuid.UUID) (*model.DeviceRegistration, error) {
	for _, row := range f.rows {
		if row.Active && row.DeviceID == deviceID && row.OwnerID == ownerID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeRegistrations) ExistsActiveByDevice(ctx context.Context, deviceID int64) (bool, error) {
	_, err := f.FindActiveByDevice(ctx, deviceID)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (f *fakeRegistrations) ExistsActiveByDeviceAndOwner(ctx context.Context, deviceID int64, ownerID uuid.UUID) (bool, error) {
	_, err := f.FindActiveByDeviceAndOwner(ctx, deviceID, ownerID)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (f *fakeRegistrations) ExistsActiveByOwnerAndNickname(_ context.Context, ownerID uuid.UUID, nickname string) (bool, error) {
	for _, row := range f.rows {
		if row.Active && row.OwnerID == ownerID && row.Nickname != nil && *row.Nickname == nickname {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRegistrations) ExistsActiveByDeviceAndOwnerUsername(_ context.Context, deviceID int64, username string) (bool, error) {
	for _, row := range f.rows {
		if row.Active && row.DeviceID == deviceID {
			owner, ok := f.users.byID[row.OwnerID]
			return ok && owner.Username == username, nil
		}
	}
	return false, nil
}

func (f *fakeRegistrations) ListActiveByOwner(_ context.Context, ownerID uuid.UUID) ([]model.DeviceRegistration, error) {
	var out []model.DeviceRegistration
	for _, row := range f.rows {
		if row.Active && row.OwnerID == ownerID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *fakeRegistrations) activeCount(deviceID int64) int {
	n := 0
	for _, row := range f.rows {
		if row.Active && row.DeviceID == deviceID {
			n++
		}
	}
	return n
}

type fakeSessions struct {
	rows []*model.Session
}

func (f *fakeSessions) Create(_ context.Context, s *model.Session) error {
	for _, row := range f.rows {
		if row.OwnerID == s.OwnerID && row.JTI == s.JTI {
			return errs.UniqueViolation("the session already exists", "jti", "userId")
		}
	}
	cp := *s
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeSessions) Save(_ context.Context, s *model.Session) error {
	for i, row := range f.rows {
		if row.ID == s.ID {
			cp := *s
			f.rows[i] = &cp
			return nil
		}
	}
	return errs.ErrNotFound
}

func (f *fakeSessions) GetByOwnerAndJTI(_ context.Context, ownerID, jti uuid.UUID) (*model.Session, error) {
	for _, row := range f.rows {
		if row.OwnerID == ownerID && row.JTI == jti {
			cp := *row
			return &cp, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeSessions) ExistsByOwnerAndJTI(ctx context.Context, ownerID, jti uuid.UUID) (bool, error) {
	_, err := f.GetByOwnerAndJTI(ctx, ownerID, jti)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (f *fakeSessions) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]model.Session, error) {
	var out []model.Session
	for _, row := range f.rows {
		if row.OwnerID == ownerID {
			out = append(out, *row)
		}
	}
	return out, nil
}

type fakePrefs struct {
	rows []*model.FoodPreference
}

func (f *fakePrefs) Create(_ context.Context, p *model.FoodPreference) error {
	for _, row := range f.rows {
		if row.OwnerID == p.OwnerID && row.Name == p.Name {
			return errs.UniqueViolation("the preference name is already in use", "name", "userId")
		}
	}
	cp := *p
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakePrefs) Save(_ context.Context, p *model.FoodPreference) error {
	for i, row := range f.rows {
		if row.ID == p.ID {
			cp := *p
			f.rows[i] = &cp
			return nil
		}
	}
	return errs.ErrNotFound
}

func (f *fakePrefs) GetByOwnerAndName(_ context.Context, ownerID uuid.UUID, name string) (*model.FoodPreference, error) {
	for _, row := range f.rows {
		if row.OwnerID == ownerID && row.Name == name {
			cp := *row
			return &cp, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakePrefs) ExistsByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (bool, error) {
	_, err := f.GetByOwnerAndName(ctx, ownerID, name)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (f *fakePrefs) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]model.FoodPreference, error) {
	var out []model.FoodPreference
	for _, row := range f.rows {
		if row.OwnerID == ownerID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *fakePrefs) Delete(_ context.Context, ownerID uuid.UUID, name string) error {
	for i, row := range f.rows {
		if row.OwnerID == ownerID && row.Name == name {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return errs.ErrNotFound
}

// fakeSigner mints tokens with scripted jtis. When the script runs out it
// falls back to random jtis; when fixed is set every call returns that jti.
type fakeSigner struct {
	jtis  []uuid.UUID
	fixed uuid.UUID
	calls int
}

func (f *fakeSigner) next() (token.Issued, error) {
	f.calls++
	jti := f.fixed
	if jti == uuid.Nil {
		if len(f.jtis) > 0 {
			jti = f.jtis[0]
			f.jtis = f.jtis[1:]
		} else {
			jti = uuid.Must(uuid.NewV4())
		}
	}
	return token.Issued{
		Raw:       fmt.Sprintf("token-%d", f.calls),
		JTI:       jti,
		ExpiresAt: time.Now().Add(time.Hour).UTC(),
	}, nil
}

func (f *fakeSigner) GenerateUserToken(_ *model.User) (token.Issued, error) { return f.next() }

func (f *fakeSigner) GenerateDeviceToken(_ *model.User, _ int64) (token.Issued, error) {
	return f.next()
}

type fakeLimiter struct {
	blocked        bool
	blockOnFailure bool
	failures       int
	successes      int
}

func (f *fakeLimiter) Allow(_ context.Context, _ string, _ []byte) (bool, time.Duration, error) {
	return !f.blocked, 0, nil
}

func (f *fakeLimiter) Success(_ context.Context, _ string, _ []byte) error {
	f.successes++
	return nil
}

func (f *fakeLimiter) Failure(_ context.Context, _ string, _ []byte) (bool, time.Duration, error) {
	f.failures++
	return f.blockOnFailure, 0, nil
}

// env wires the fakes together the way main wires the real implementations.
type env struct {
	users    *fakeUsers
	devices  *fakeDevices
	regs     *fakeRegistrations
	sessions *fakeSessions
	prefs    *fakePrefs
	signer   *fakeSigner
	perms    *PermissionProviderImpl
}

func newEnv() *env {
	users := newFakeUsers()
	regs := &fakeRegistrations{users: users}
	return &env{
		users:    users,
		devices:  newFakeDevices(),
		regs:     regs,
		sessions: &fakeSessions{},
		prefs:    &fakePrefs{},
		signer:   &fakeSigner{},
		perms:    NewPermissionProvider(regs),
	}
}

func (e *env) deviceService() *DeviceServiceImpl {
	return NewDeviceService(e.users, e.devices, e.regs, e.perms)
}

func (e *env) pairingService() *PairingServiceImpl {
	return NewPairingService(e.users, e.devices, e.regs, e.sessions, e.signer, e.perms)
}

func (e *env) addUser(t *testing.T, username string, roles ...model.Role) *model.User {
	t.Helper()
	if len(roles) == 0 {
		roles = []model.Role{model.RoleUser}
	}
	u := &model.User{ID: uuid.Must(uuid.NewV4()), Username: username, Roles: roles}
	if err := e.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func (e *env) addDevice(t *testing.T, id int64) *model.Device {
	t.Helper()
	d := model.NewDevice(id)
	if err := e.devices.Create(context.Background(), d); err != nil {
		t.Fatalf("create device %d: %v", id, err)
	}
	return d
}

func (e *env) register(t *testing.T, deviceID int64, ownerID uuid.UUID) *model.DeviceRegistration {
	t.Helper()
	reg, err := model.NewDeviceRegistration(deviceID, ownerID)
	if err != nil {
		t.Fatalf("new registration: %v", err)
	}
	if err := e.regs.Create(context.Background(), reg); err != nil {
		t.Fatalf("create registration: %v", err)
	}
	return reg
}

func principalFor(u *model.User) model.Principal {
	return model.Principal{UserID: u.ID, Username: u.Username, Roles: u.Roles}
}

func devicePrincipal(deviceID int64) model.Principal {
	return model.Principal{Roles: []model.Role{model.RoleDevice}, DeviceID: &deviceID}
}

func fptr(v float64) *float64 { return &v }

func sptr(v string) *string { return &v }
