package appointments

import (
	"errors"
	"fmt"
)

// ErrUnknownType indica un tipo fuera del catálogo.
// Es un error de programación/configuración, no un error de usuario.
var ErrUnknownType = errors.New("unknown appointment type")

// typeDurations es el catálogo estático tipo de cita -> duración estimada.
var typeDurations = map[AppointmentType]int{
	TypeCheckup:      30,
	TypeVaccination:  15,
	TypeEmergency:    60,
	TypeSurgery:      45,
	TypeConsultation: 30,
	TypeDental:       45,
	TypeGrooming:     60,
}

// DurationFor devuelve la duración estimada en minutos para un tipo de cita.
func DurationFor(t AppointmentType) (int, error) {
	d, ok := typeDurations[t]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	return d, nil
}

// KnownType indica si el tipo pertenece al catálogo.
func KnownType(t AppointmentType) bool {
	_, ok := typeDurations[t]
	return ok
}
