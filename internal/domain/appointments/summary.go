package appointments

import "time"

// Summary es el resumen legible de agenda de una cita: fecha, hora,
// hora de fin calculada y duración. Se usa al reservar y al ver detalle.
type Summary struct {
	DateLabel       string `json:"date_label"`
	TimeLabel       string `json:"time_label"`
	EndTimeLabel    string `json:"end_time_label"`
	DurationMinutes int    `json:"duration_minutes"`
}

// Summarize deriva el resumen de agenda desde la cita almacenada.
// Función pura: mismo input, mismo output; no muta la cita.
func Summarize(a Appointment) Summary {
	end := a.ScheduledAt.Add(time.Duration(a.EstimatedDurationMinutes) * time.Minute)

	return Summary{
		DateLabel:       a.ScheduledAt.Format("02 Jan 2006"),
		TimeLabel:       a.ScheduledAt.Format("15:04"),
		EndTimeLabel:    end.Format("15:04"),
		DurationMinutes: a.EstimatedDurationMinutes,
	}
}
