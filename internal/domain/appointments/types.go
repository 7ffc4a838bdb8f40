package appointments

// AppointmentType define los tipos de cita soportados.
// @Enum checkup, vaccination, emergency, surgery, consultation, dental, grooming
type AppointmentType string

const (
	TypeCheckup      AppointmentType = "checkup"
	TypeVaccination  AppointmentType = "vaccination"
	TypeEmergency    AppointmentType = "emergency"
	TypeSurgery      AppointmentType = "surgery"
	TypeConsultation AppointmentType = "consultation"
	TypeDental       AppointmentType = "dental"
	TypeGrooming     AppointmentType = "grooming"
)

// Status define el ciclo de vida de una cita.
// @Enum pending, confirmed, completed, cancelled
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// IsTerminal indica si el status no admite más transiciones.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsValid indica si el status pertenece al ciclo de vida conocido.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// Role define el rol del actor que opera sobre citas.
// @Enum owner, veterinarian
type Role string

const (
	RoleOwner        Role = "owner"
	RoleVeterinarian Role = "veterinarian"
)

// Actor es la parte autenticada que ejecuta una operación.
type Actor struct {
	ID   string
	Role Role
}
