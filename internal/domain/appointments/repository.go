package appointments

import "context"

// Repository es el store externo de citas.
// Create asigna ID, status inicial y CreatedAt (política del store, no nuestra).
// Transition corresponde al PATCH del backend: aplica el nuevo status y
// devuelve el registro resultante.
type Repository interface {
	Create(ctx context.Context, n NewAppointment) (Appointment, error)
	GetByID(ctx context.Context, id string) (Appointment, error)
	ListByOwner(ctx context.Context, ownerID string, filter ListFilter) ([]Appointment, error)
	Transition(ctx context.Context, id string, to Status, cancellationReason string) (Appointment, error)
}

// ListFilter es una conjunción de filtros exactos sobre citas del dueño.
// Campo nil/vacío = sin restricción sobre ese campo.
type ListFilter struct {
	Status *Status
	Type   *AppointmentType
	PetID  string
}

// Matches aplica el filtro contra una cita.
func (f ListFilter) Matches(a Appointment) bool {
	if f.Status != nil && a.Status != *f.Status {
		return false
	}
	if f.Type != nil && a.Type != *f.Type {
		return false
	}
	if f.PetID != "" && a.PetID != f.PetID {
		return false
	}
	return true
}
