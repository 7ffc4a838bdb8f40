package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pet-appointments/internal/domain/vets"
)

type VetsRepo struct {
	db *sql.DB
}

func NewVetsRepo(db *sql.DB) *VetsRepo {
	return &VetsRepo{db: db}
}

func (r *VetsRepo) List(ctx context.Context) ([]vets.Veterinarian, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, name, email,
			specialty, clinic_name,
			active, created_at
		FROM veterinarians
		ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]vets.Veterinarian, 0)
	for rows.Next() {
		var v vets.Veterinarian
		var specialty, clinicName sql.NullString

		if err := rows.Scan(
			&v.ID,
			&v.Name,
			&v.Email,
			&specialty,
			&clinicName,
			&v.Active,
			&v.CreatedAt,
		); err != nil {
			return nil, err
		}

		v.Specialty = specialty.String
		v.ClinicName = clinicName.String

		out = append(out, v)
	}

	return out, rows.Err()
}

func (r *VetsRepo) GetByID(ctx context.Context, id string) (vets.Veterinarian, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return vets.Veterinarian{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, name, email,
			specialty, clinic_name,
			active, created_at
		FROM veterinarians
		WHERE id = $1
	`, id)

	var v vets.Veterinarian
	var specialty, clinicName sql.NullString

	if err := row.Scan(
		&v.ID,
		&v.Name,
		&v.Email,
		&specialty,
		&clinicName,
		&v.Active,
		&v.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return vets.Veterinarian{}, ErrNotFound
		}
		return vets.Veterinarian{}, err
	}

	v.Specialty = specialty.String
	v.ClinicName = clinicName.String

	return v, nil
}
