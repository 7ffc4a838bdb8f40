package appointments

import "time"

// Appointment representa una cita agendada entre una mascota y un veterinario.
// Pet, dueño y veterinario viven en otros servicios; acá solo guardamos sus IDs.
type Appointment struct {
	ID string

	PetID   string
	OwnerID string
	VetID   string // puede venir vacío hasta que el backend asigne veterinario

	Type   AppointmentType
	Reason string

	ScheduledAt              time.Time
	EstimatedDurationMinutes int

	Status             Status
	CancellationReason string // solo con Status = cancelled

	Notes string

	CreatedAt time.Time
}

// NewAppointment es el payload normalizado que el store recibe al crear.
// El store asigna ID, status inicial y CreatedAt (política externa).
type NewAppointment struct {
	PetID   string
	OwnerID string
	VetID   string

	Type   AppointmentType
	Reason string

	ScheduledAt              time.Time
	EstimatedDurationMinutes int

	Notes string
}
