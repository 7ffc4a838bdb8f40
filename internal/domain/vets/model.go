package vets

import "time"

// Veterinarian es el resumen público de un veterinario de la plataforma.
// Su ciclo de vida completo vive en el servicio de usuarios; acá es solo lectura.
type Veterinarian struct {
	ID         string
	Name       string
	Email      string
	Specialty  string
	ClinicName string

	Active bool

	CreatedAt time.Time
}
