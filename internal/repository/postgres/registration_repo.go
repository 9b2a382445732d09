package postgres

import (
	"context"
	"errors"

	"github.com/asadolabs/asador/internal/errs"
	"github.com/asadolabs/asador/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// RegistrationRepo implements DeviceRegistrationRepository using PostgreSQL.
// Partial unique indexes back the active-registration and nickname invariants,
// so the existence checks in the service layer have a database-level backstop.
type RegistrationRepo struct{ db *DB }

// NewRegistrationRepo constructs a registration repository.
func NewRegistrationRepo(db *DB) *RegistrationRepo { return &RegistrationRepo{db: db} }

const registrationColumns = `id, device_id, user_id, nickname, created_at, active`

// Create inserts a new registration row.
func (r *RegistrationRepo) Create(ctx context.Context, reg *model.DeviceRegistration) error {
	const q = `
INSERT INTO device_registrations (id, device_id, user_id, nickname, created_at, active)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Pool.Exec(ctx, q, reg.ID, reg.DeviceID, reg.OwnerID, reg.Nickname, reg.CreatedAt, reg.Active)
	if isUniqueViolation(err) {
		return errs.UniqueViolation("the device is already registered", "deviceId")
	}
	return err
}

// Save persists nickname and active flag changes.
func (r *RegistrationRepo) Save(ctx context.Context, reg *model.DeviceRegistration) error {
	const q = `UPDATE device_registrations SET nickname=$2, active=$3 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, reg.ID, reg.Nickname, reg.Active)
	if isUniqueViolation(err) {
		return errs.UniqueViolation("the nickname for the device is already in use", "nickname", "userId")
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *RegistrationRepo) scanOne(row pgx.Row) (*model.DeviceRegistration, error) {
	var reg model.DeviceRegistration
	if err := row.Scan(&reg.ID, &reg.DeviceID, &reg.OwnerID, &reg.Nickname, &reg.CreatedAt, &reg.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &reg, nil
}

// FindActiveByDevice loads the single active registration of a device.
func (r *RegistrationRepo) FindActiveByDevice(ctx context.Context, deviceID int64) (*model.DeviceRegistration, error) {
	const q = `
SELECT ` + registrationColumns + `
FROM device_registrations WHERE device_id=$1 AND active=true`
	return r.scanOne(r.db.Pool.QueryRow(ctx, q, deviceID))
}

// FindActiveByDeviceAndOwner loads the active registration bound to (device, owner).
func (r *RegistrationRepo) FindActiveByDeviceAndOwner(ctx context.Context, deviceID int64, ownerID uuid.UUID) (*model.DeviceRegistration, error) {
	const q = `
SELECT ` + registrationColumns + `
FROM device_registrations WHERE device_id=$1 AND user_id=$2 AND active=true`
	return r.scanOne(r.db.Pool.QueryRow(ctx, q, deviceID, ownerID))
}

// ExistsActiveByDevice reports whether the device is actively registered.
func (r *RegistrationRepo) ExistsActiveByDevice(ctx context.Context, deviceID int64) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM device_registrations WHERE device_id=$1 AND active=true)`
	var exists bool
	if err := r.db.Pool.QueryRow(ctx, q, deviceID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ExistsActiveByDeviceAndOwner reports whether (device, owner) holds the active registration.
func (r *RegistrationRepo) ExistsActiveByDeviceAndOwner(ctx context.Context, deviceID int64, ownerID uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM device_registrations WHERE device_id=$1 AND user_id=$2 AND active=true)`
	var exists bool
	if err := r.db.Pool.QueryRow(ctx, q, deviceID, ownerID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ExistsActiveByOwnerAndNickname reports whether the owner already uses the nickname.
func (r *RegistrationRepo) ExistsActiveByOwnerAndNickname(ctx context.Context, ownerID uuid.UUID, nickname string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM device_registrations WHERE user_id=$1 AND nickname=$2 AND active=true)`
	var exists bool
	if err := r.db.Pool.QueryRow(ctx, q, ownerID, nickname).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ExistsActiveByDeviceAndOwnerUsername reports whether the device's active
// registration belongs to the named user. Used by permission checks, where
// the caller identity is a username from the token.
func (r *RegistrationRepo) ExistsActiveByDeviceAndOwnerUsername(ctx context.Context, deviceID int64, username string) (bool, error) {
	const q = `
SELECT EXISTS(
  SELECT 1
  FROM device_registrations dr
  JOIN users u ON u.id = dr.user_id
  WHERE dr.device_id=$1 AND u.username=$2 AND dr.active=true)`
	var exists bool
	if err := r.db.Pool.QueryRow(ctx, q, deviceID, username).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListActiveByOwner returns the owner's active registrations ordered by creation time.
func (r *RegistrationRepo) ListActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.DeviceRegistration, error) {
	const q = `
SELECT ` + registrationColumns + `
FROM device_registrations WHERE user_id=$1 AND active=true
ORDER BY created_at ASC`
	rows, err := r.db.Pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DeviceRegistration
	for rows.Next() {
		var reg model.DeviceRegistration
		if err = rows.Scan(&reg.ID, &reg.DeviceID, &reg.OwnerID, &reg.Nickname, &reg.CreatedAt, &reg.Active); err != nil {
			return nil, err
		}
		out = append(out, reg)
	}
	return out, rows.Err()
}
