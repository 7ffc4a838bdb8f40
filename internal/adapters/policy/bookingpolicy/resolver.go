package bookingpolicy

import (
	"context"
	"errors"
	"os"
	"strings"
)

// Resolver decide el status inicial de una cita nueva.
// Si INITIAL_APPOINTMENT_STATUS está seteado (env), responde eso sin
// llamar a upstream (modo dev / fallback). Si no, consulta al servicio
// de políticas de la plataforma.
type Resolver struct {
	client   *Client
	override string
}

func NewResolver(client *Client) *Resolver {
	return &Resolver{
		client:   client,
		override: strings.ToLower(strings.TrimSpace(os.Getenv("INITIAL_APPOINTMENT_STATUS"))),
	}
}

// InitialStatus responde el status inicial para una cita del dueño dado.
// Default "pending" si no hay override ni upstream configurado.
func (r *Resolver) InitialStatus(ctx context.Context, ownerID string) (string, error) {
	if r != nil && r.override != "" {
		return r.override, nil
	}

	if r == nil || r.client == nil || !r.client.IsConfigured() {
		return "pending", nil
	}

	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return "", errors.New("ownerID required")
	}

	resp, err := r.client.GetBookingPolicy(ctx, ownerID)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.InitialStatus) == "" {
		return "pending", nil
	}
	return strings.ToLower(strings.TrimSpace(resp.InitialStatus)), nil
}
