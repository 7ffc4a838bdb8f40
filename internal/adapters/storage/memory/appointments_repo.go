package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-appointments/internal/domain/appointments"
	"pet-appointments/internal/ports/policy"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("not found")
)

type appointmentRepo struct {
	mu   sync.RWMutex
	byID map[string]appointments.Appointment

	policy policy.InitialStatusResolver
	now    func() time.Time
}

// NewAppointmentRepo crea el store in-memory de citas.
// El status inicial lo decide la política externa; si policy es nil,
// se usa pending.
func NewAppointmentRepo(pol policy.InitialStatusResolver) appointments.Repository {
	return &appointmentRepo{
		byID:   make(map[string]appointments.Appointment),
		policy: pol,
		now:    time.Now,
	}
}

func (r *appointmentRepo) Create(ctx context.Context, n appointments.NewAppointment) (appointments.Appointment, error) {
	if strings.TrimSpace(n.PetID) == "" || strings.TrimSpace(n.OwnerID) == "" {
		return appointments.Appointment{}, errors.New("pet id and owner id required")
	}

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
		CreatedAt:                r.now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[a.ID] = a
	return a, nil
}

func (r *appointmentRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return appointments.Appointment{}, ErrNotFound
	}
	return a, nil
}

func (r *appointmentRepo) ListByOwner(ctx context.Context, ownerID string, filter appointments.ListFilter) ([]appointments.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]appointments.Appointment, 0)
	for _, a := range r.byID {
		if a.OwnerID != ownerID {
			continue
		}
		if !filter.Matches(a) {
			continue
		}
		out = append(out, a)
	}

	// Orden estable para un input fijo (created_at asc, ID como desempate).
	// El contrato no garantiza orden cronológico por scheduled_at.
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *appointmentRepo) Transition(ctx context.Context, id string, to appointments.Status, cancellationReason string) (appointments.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return appointments.Appointment{}, ErrNotFound
	}

	a.Status = to
	if to == appointments.StatusCancelled {
		a.CancellationReason = strings.TrimSpace(cancellationReason)
	} else {
		a.CancellationReason = ""
	}

	r.byID[id] = a
	return a, nil
}
