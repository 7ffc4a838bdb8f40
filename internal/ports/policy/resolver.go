package policy

import "context"

// InitialStatusResolver decide el status inicial de una cita recién creada.
// La política es externa al subsistema (pending vs confirmed directo).
type InitialStatusResolver interface {
	InitialStatus(ctx context.Context, ownerID string) (string, error)
}
