package appointments

import (
	"strings"
	"time"
)

// Códigos de error de validación, etiquetados por campo.
const (
	CodeMissingPet           = "MissingPet"
	CodeMissingVeterinarian  = "MissingVeterinarian"
	CodeMissingOrInvalidType = "MissingOrInvalidType"
	CodeMissingReason        = "MissingReason"
	CodeMissingDateTime      = "MissingDateTime"
	CodeDateNotInFuture      = "DateNotInFuture"
)

// BookingRequest es la solicitud cruda de reserva tal como llega del caller.
// Date y Time vienen por separado y se combinan en ScheduledAt al normalizar.
type BookingRequest struct {
	PetID  string
	VetID  string
	Type   AppointmentType
	Reason string
	Date   string // YYYY-MM-DD
	Time   string // HH:MM
	Notes  string
}

// FieldError es una violación de validación asociada a un campo.
type FieldError struct {
	Field string `json:"field"`
	Code  string `json:"code"`
}

// ValidationErrors agrupa todas las violaciones de una solicitud.
// Se evalúan todas las reglas; no se corta en la primera.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+":"+fe.Code)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Validate aplica las reglas de reserva contra "now" y, si todo pasa,
// devuelve el payload normalizado con ScheduledAt combinado y la
// duración estimada tomada del catálogo.
func Validate(req BookingRequest, ownerID string, now time.Time) (NewAppointment, ValidationErrors) {
	var errs ValidationErrors

	if strings.TrimSpace(req.PetID) == "" {
		errs = append(errs, FieldError{Field: "pet_id", Code: CodeMissingPet})
	}
	if strings.TrimSpace(req.VetID) == "" {
		errs = append(errs, FieldError{Field: "vet_id", Code: CodeMissingVeterinarian})
	}
	if !KnownType(req.Type) {
		errs = append(errs, FieldError{Field: "type", Code: CodeMissingOrInvalidType})
	}
	if strings.TrimSpace(req.Reason) == "" {
		errs = append(errs, FieldError{Field: "reason", Code: CodeMissingReason})
	}

	scheduledAt, dtErr := mergeDateTime(req.Date, req.Time, now.Location())
	if dtErr != "" {
		errs = append(errs, FieldError{Field: "date_time", Code: dtErr})
	} else if !scheduledAt.After(now) {
		errs = append(errs, FieldError{Field: "date_time", Code: CodeDateNotInFuture})
	}

	if len(errs) > 0 {
		return NewAppointment{}, errs
	}

	// Con type validado, el catálogo no puede fallar acá.
	duration, _ := DurationFor(req.Type)

	return NewAppointment{
		PetID:                    strings.TrimSpace(req.PetID),
		OwnerID:                  strings.TrimSpace(ownerID),
		VetID:                    strings.TrimSpace(req.VetID),
		Type:                     req.Type,
		Reason:                   strings.TrimSpace(req.Reason),
		ScheduledAt:              scheduledAt,
		EstimatedDurationMinutes: duration,
		Notes:                    strings.TrimSpace(req.Notes),
	}, nil
}

// mergeDateTime combina date (YYYY-MM-DD) y time (HH:MM) en un solo instante.
// Devuelve el código de error de validación si falta alguno o no parsean.
func mergeDateTime(date, clock string, loc *time.Location) (time.Time, string) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)

	if date == "" || clock == "" {
		return time.Time{}, CodeMissingDateTime
	}

	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	if err != nil {
		return time.Time{}, CodeMissingDateTime
	}
	return t, ""
}
