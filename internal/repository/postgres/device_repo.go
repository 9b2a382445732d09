package postgres

import (
	"context"
	"errors"

	"github.com/asadolabs/asador/internal/errs"
	"github.com/asadolabs/asador/internal/model"
	"github.com/jackc/pgx/v5"
)

// DeviceRepo implements DeviceRepository using PostgreSQL.
type DeviceRepo struct{ db *DB }

// NewDeviceRepo constructs a device repository.
func NewDeviceRepo(db *DB) *DeviceRepo { return &DeviceRepo{db: db} }

// Create inserts a new device row. The id is externally assigned.
func (r *DeviceRepo) Create(ctx context.Context, d *model.Device) error {
	const q = `
INSERT INTO devices (id, temperature, last_temperature_update, target_temperature, state)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Pool.Exec(ctx, q, d.ID, d.Temperature, d.LastTemperatureUpdate, d.TargetTemperature, d.State)
	if isUniqueViolation(err) {
		return errs.UniqueViolation("the device id is already created", "deviceId")
	}
	return err
}

// GetByID selects a device by id.
func (r *DeviceRepo) GetByID(ctx context.Context, id int64) (*model.Device, error) {
	const q = `
SELECT id, temperature, last_temperature_update, target_temperature, state
FROM devices WHERE id=$1`
	row := r.db.Pool.QueryRow(ctx, q, id)
	var d model.Device
	if err := row.Scan(&d.ID, &d.Temperature, &d.LastTemperatureUpdate, &d.TargetTemperature, &d.State); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// List returns all devices ordered by id.
func (r *DeviceRepo) List(ctx context.Context) ([]model.Device, error) {
	const q = `
SELECT id, temperature, last_temperature_update, target_temperature, state
FROM devices ORDER BY id ASC`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Device
	for rows.Next() {
		var d model.Device
		if err = rows.Scan(&d.ID, &d.Temperature, &d.LastTemperatureUpdate, &d.TargetTemperature, &d.State); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Exists reports whether a device with the id is already created.
func (r *DeviceRepo) Exists(ctx context.Context, id int64) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM devices WHERE id=$1)`
	var exists bool
	if err := r.db.Pool.QueryRow(ctx, q, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Save persists mutable device fields.
func (r *DeviceRepo) Save(ctx context.Context, d *model.Device) error {
	const q = `
UPDATE devices
SET temperature=$2, last_temperature_update=$3, target_temperature=$4, state=$5
WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, d.ID, d.Temperature, d.LastTemperatureUpdate, d.TargetTemperature, d.State)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
