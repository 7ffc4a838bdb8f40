package appointments

import "pet-appointments/internal/domain/vets"

// ListResult es una unión etiquetada: según el rol del actor, la misma
// operación de listado devuelve la vista del dueño O el directorio de
// veterinarios. Nunca ambas.
//
// Un veterinario no recibe su agenda personal por esta superficie (la
// gestiona en otro lado); recibe el directorio de colegas. Es un caso
// especial documentado, no un bug.
type ListResult struct {
	Owner     *OwnerAppointmentView
	Directory *VeterinarianDirectoryView
}

// OwnerAppointmentView es la vista de un dueño: sus citas filtradas más
// los contadores derivados de esa misma secuencia.
type OwnerAppointmentView struct {
	Appointments []Appointment
	Counts       Counts
}

// VeterinarianDirectoryView es la vista de un veterinario: sus colegas.
type VeterinarianDirectoryView struct {
	Veterinarians []vets.Veterinarian
}

// Counts son proyecciones puras sobre una secuencia de citas.
// Se recomputan siempre; no se almacenan.
type Counts struct {
	Total     int
	Pending   int
	Confirmed int
	Completed int
	Cancelled int
	ByType    map[AppointmentType]int
}

// CountsFor deriva los contadores de una secuencia de citas.
func CountsFor(items []Appointment) Counts {
	c := Counts{
		Total:  len(items),
		ByType: make(map[AppointmentType]int),
	}
	for _, a := range items {
		switch a.Status {
		case StatusPending:
			c.Pending++
		case StatusConfirmed:
			c.Confirmed++
		case StatusCompleted:
			c.Completed++
		case StatusCancelled:
			c.Cancelled++
		}
		c.ByType[a.Type]++
	}
	return c
}
