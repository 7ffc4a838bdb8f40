package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"pet-appointments/internal/domain/appointments"
	"pet-appointments/internal/ports/policy"

	"github.com/google/uuid"
)

type AppointmentsRepo struct {
	db     *sql.DB
	policy policy.InitialStatusResolver
}

func NewAppointmentsRepo(db *sql.DB, pol policy.InitialStatusResolver) *AppointmentsRepo {
	return &AppointmentsRepo{db: db, policy: pol}
}

func (r *AppointmentsRepo) Create(ctx context.Context, n appointments.NewAppointment) (appointments.Appointment, error) {
	initial := appointments.StatusPending
	if r.policy != nil {
		s, err := r.policy.InitialStatus(ctx, n.OwnerID)
		if err == nil && appointments.Status(s).IsValid() {
			initial = appointments.Status(s)
		}
	}

	a := appointments.Appointment{
		ID:                       uuid.NewString(),
		PetID:                    n.PetID,
		OwnerID:                  n.OwnerID,
		VetID:                    n.VetID,
		Type:                     n.Type,
		Reason:                   n.Reason,
		ScheduledAt:              n.ScheduledAt,
		EstimatedDurationMinutes: n.EstimatedDurationMinutes,
		Status:                   initial,
		Notes:                    n.Notes,
		CreatedAt:                time.Now(),
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appointments (
			id, pet_id, owner_id, vet_id,
			type, reason,
			scheduled_at, estimated_duration_minutes,
			status, cancellation_reason,
			notes, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		a.ID,
		a.PetID,
		a.OwnerID,
		nullIfEmpty(a.VetID),
		string(a.Type),
		a.Reason,
		a.ScheduledAt,
		a.EstimatedDurationMinutes,
		string(a.Status),
		nullIfEmpty(a.CancellationReason),
		a.Notes,
		a.CreatedAt,
	)
	if err != nil {
		return appointments.Appointment{}, err
	}
	return a, nil
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return appointments.Appointment{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, pet_id, owner_id, vet_id,
			type, reason,
			scheduled_at, estimated_duration_minutes,
			status, cancellation_reason,
			notes, created_at
		FROM appointments
		WHERE id = $1
	`, id)

	a, err := scanAppointment(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return appointments.Appointment{}, ErrNotFound
		}
		return appointments.Appointment{}, err
	}
	return a, nil
}

func (r *AppointmentsRepo) ListByOwner(ctx context.Context, ownerID string, filter appointments.ListFilter) ([]appointments.Appointment, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, nil
	}

	sb := strings.Builder{}
	sb.WriteString(`
		SELECT
			id, pet_id, owner_id, vet_id,
			type, reason,
			scheduled_at, estimated_duration_minutes,
			status, cancellation_reason,
			notes, created_at
		FROM appointments
		WHERE owner_id = $1
	`)

	args := []any{ownerID}
	argN := 2

	if filter.Status != nil {
		sb.WriteString(fmt.Sprintf(" AND status = $%d", argN))
		args = append(args, string(*filter.Status))
		argN++
	}
	if filter.Type != nil {
		sb.WriteString(fmt.Sprintf(" AND type = $%d", argN))
		args = append(args, string(*filter.Type))
		argN++
	}
	if filter.PetID != "" {
		sb.WriteString(fmt.Sprintf(" AND pet_id = $%d", argN))
		args = append(args, filter.PetID)
		argN++
	}

	// Orden estable para un input fijo; no es un contrato cronológico.
	sb.WriteString(" ORDER BY created_at ASC, id ASC")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]appointments.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	return out, rows.Err()
}

func (r *AppointmentsRepo) Transition(ctx context.Context, id string, to appointments.Status, cancellationReason string) (appointments.Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return appointments.Appointment{}, ErrNotFound
	}

	var reason any
	if to == appointments.StatusCancelled {
		reason = strings.TrimSpace(cancellationReason)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE appointments
		SET status = $2, cancellation_reason = $3
		WHERE id = $1
	`, id, string(to), reason)
	if err != nil {
		return appointments.Appointment{}, err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return appointments.Appointment{}, ErrNotFound
	}

	return r.GetByID(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (appointments.Appointment, error) {
	var a appointments.Appointment
	var vetID, cancellationReason sql.NullString
	var typ, status string

	if err := row.Scan(
		&a.ID,
		&a.PetID,
		&a.OwnerID,
		&vetID,
		&typ,
		&a.Reason,
		&a.ScheduledAt,
		&a.EstimatedDurationMinutes,
		&status,
		&cancellationReason,
		&a.Notes,
		&a.CreatedAt,
	); err != nil {
		return appointments.Appointment{}, err
	}

	a.VetID = vetID.String
	a.CancellationReason = cancellationReason.String
	a.Type = appointments.AppointmentType(typ)
	a.Status = appointments.Status(status)

	return a, nil
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
