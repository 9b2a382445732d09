package postgres

import (
	"context"
	"errors"

	"github.com/asadolabs/asador/internal/errs"
	"github.com/asadolabs/asador/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// FoodPrefRepo implements FoodPreferenceRepository using PostgreSQL.
type FoodPrefRepo struct{ db *DB }

// NewFoodPrefRepo constructs a food preference repository.
func NewFoodPrefRepo(db *DB) *FoodPrefRepo { return &FoodPrefRepo{db: db} }

// Create inserts a new preference row.
func (r *FoodPrefRepo) Create(ctx context.Context, p *model.FoodPreference) error {
	const q = `
INSERT INTO food_preferences (id, user_id, name, temperature)
VALUES ($1, $2, $3, $4)`
	_, err := r.db.Pool.Exec(ctx, q, p.ID, p.OwnerID, p.Name, p.Temperature)
	if isUniqueViolation(err) {
		return errs.UniqueViolation("the preference name is already in use", "name", "userId")
	}
	return err
}

// Save persists name and temperature changes.
func (r *FoodPrefRepo) Save(ctx context.Context, p *model.FoodPreference) error {
	const q = `UPDATE food_preferences SET name=$2, temperature=$3 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, p.ID, p.Name, p.Temperature)
	if isUniqueViolation(err) {
		return errs.UniqueViolation("the preference name is already in use", "name", "userId")
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// GetByOwnerAndName selects a preference by its (owner, name) key.
func (r *FoodPrefRepo) GetByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*model.FoodPreference, error) {
	const q = `
SELECT id, user_id, name, temperature
FROM food_preferences WHERE user_id=$1 AND name=$2`
	row := r.db.Pool.QueryRow(ctx, q, ownerID, name)
	var p model.FoodPreference
	if err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Temperature); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ExistsByOwnerAndName reports whether the owner already has a preference with the name.
func (r *FoodPrefRepo) ExistsByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM food_preferences WHERE user_id=$1 AND name=$2)`
	var exists bool
	if err := r.db.Pool.QueryRow(ctx, q, ownerID, name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListByOwner returns the owner's preferences ordered by name.
func (r *FoodPrefRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.FoodPreference, error) {
	const q = `
SELECT id, user_id, name, temperature
FROM food_preferences WHERE user_id=$1
ORDER BY name ASC`
	rows, err := r.db.Pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.FoodPreference
	for rows.Next() {
		var p model.FoodPreference
		if err = rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Temperature); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete removes a preference by its (owner, name) key.
func (r *FoodPrefRepo) Delete(ctx context.Context, ownerID uuid.UUID, name string) error {
	const q = `DELETE FROM food_preferences WHERE user_id=$1 AND name=$2`
	tag, err := r.db.Pool.Exec(ctx, q, ownerID, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
