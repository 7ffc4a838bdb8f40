package petcareapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pet-appointments/internal/domain/appointments"
	"pet-appointments/internal/domain/vets"
	"pet-appointments/internal/platform/httpclient"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrNotConfigured = errors.New("petcare api client not configured")
)

// Client habla con la API de la plataforma, que es el store real de citas
// y la fuente del directorio de veterinarios.
//
// La API asigna ID, status inicial y created_at de cada cita; este cliente
// no decide ninguna de esas políticas.
type Client struct {
	http *httpclient.Client
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func New(cfg Config) (*Client, error) {
	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Client{http: hc}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != ""
}

// appointmentDTO es el formato wire de la API de la plataforma.
type appointmentDTO struct {
	ID                       string    `json:"id"`
	PetID                    string    `json:"pet_id"`
	OwnerID                  string    `json:"owner_id"`
	VetID                    string    `json:"vet_id"`
	Type                     string    `json:"type"`
	Reason                   string    `json:"reason"`
	ScheduledAt              time.Time `json:"scheduled_at"`
	EstimatedDurationMinutes int       `json:"estimated_duration_minutes"`
	Status                   string    `json:"status"`
	CancellationReason       string    `json:"cancellation_reason"`
	Notes                    string    `json:"notes"`
	CreatedAt                time.Time `json:"created_at"`
}

type createAppointmentDTO struct {
	PetID                    string    `json:"pet_id"`
	OwnerID                  string    `json:"owner_id"`
	VetID                    string    `json:"vet_id,omitempty"`
	Type                     string    `json:"type"`
	Reason                   string    `json:"reason"`
	ScheduledAt              time.Time `json:"scheduled_at"`
	EstimatedDurationMinutes int       `json:"estimated_duration_minutes"`
	Notes                    string    `json:"notes,omitempty"`
}

type transitionDTO struct {
	Status             string `json:"status"`
	CancellationReason string `json:"cancellation_reason,omitempty"`
}

// veterinarianDTO es el formato wire del directorio.
type veterinarianDTO struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Specialty  string    `json:"specialty"`
	ClinicName string    `json:"clinic_name"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

// AppointmentsRepo implementa appointments.Repository contra la API remota.
type AppointmentsRepo struct {
	c *Client
}

func NewAppointmentsRepo(c *Client) *AppointmentsRepo {
	return &AppointmentsRepo{c: c}
}

func (r *AppointmentsRepo) Create(ctx context.Context, n appointments.NewAppointment) (appointments.Appointment, error) {
	if !r.c.IsConfigured() {
		return appointments.Appointment{}, ErrNotConfigured
	}

	in := createAppointmentDTO{
		PetID:                    n.PetID,
		OwnerID:                  n.OwnerID,
		VetID:                    n.VetID,
		Type:                     string(n.Type),
		Reason:                   n.Reason,
		ScheduledAt:              n.ScheduledAt,
		EstimatedDurationMinutes: n.EstimatedDurationMinutes,
		Notes:                    n.Notes,
	}

	var out appointmentDTO
	if err := r.c.http.DoJSON(ctx, http.MethodPost, "/appointments", nil, in, &out); err != nil {
		var he *httpclient.HTTPError
		if errors.As(err, &he) {
			// El backend rechazó la reserva: devolvemos su motivo tal cual.
			return appointments.Appointment{}, fmt.Errorf("%w: %s", appointments.ErrBookingRejected, he.Body)
		}
		return appointments.Appointment{}, err
	}

	return toAppointment(out), nil
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	if !r.c.IsConfigured() {
		return appointments.Appointment{}, ErrNotConfigured
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return appointments.Appointment{}, ErrNotFound
	}

	var out appointmentDTO
	err := r.c.http.DoJSON(ctx, http.MethodGet, "/appointments/"+url.PathEscape(id), nil, nil, &out)
	if err != nil {
		return appointments.Appointment{}, mapHTTPError(err)
	}
	return toAppointment(out), nil
}

func (r *AppointmentsRepo) ListByOwner(ctx context.Context, ownerID string, filter appointments.ListFilter) ([]appointments.Appointment, error) {
	if !r.c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, nil
	}

	q := url.Values{}
	q.Set("owner_id", ownerID)
	if filter.Status != nil {
		q.Set("status", string(*filter.Status))
	}
	if filter.Type != nil {
		q.Set("type", string(*filter.Type))
	}
	if filter.PetID != "" {
		q.Set("pet_id", filter.PetID)
	}

	var out []appointmentDTO
	err := r.c.http.DoJSON(ctx, http.MethodGet, "/appointments?"+q.Encode(), nil, nil, &out)
	if err != nil {
		return nil, mapHTTPError(err)
	}

	items := make([]appointments.Appointment, 0, len(out))
	for _, dto := range out {
		items = append(items, toAppointment(dto))
	}
	return items, nil
}

func (r *AppointmentsRepo) Transition(ctx context.Context, id string, to appointments.Status, cancellationReason string) (appointments.Appointment, error) {
	if !r.c.IsConfigured() {
		return appointments.Appointment{}, ErrNotConfigured
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return appointments.Appointment{}, ErrNotFound
	}

	in := transitionDTO{
		Status:             string(to),
		CancellationReason: strings.TrimSpace(cancellationReason),
	}

	var out appointmentDTO
	err := r.c.http.DoJSON(ctx, http.MethodPatch, "/appointments/"+url.PathEscape(id), nil, in, &out)
	if err != nil {
		return appointments.Appointment{}, mapHTTPError(err)
	}
	return toAppointment(out), nil
}

// VetsRepo implementa vets.Repository contra la API remota.
type VetsRepo struct {
	c *Client
}

func NewVetsRepo(c *Client) *VetsRepo {
	return &VetsRepo{c: c}
}

func (r *VetsRepo) List(ctx context.Context) ([]vets.Veterinarian, error) {
	if !r.c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	var out []veterinarianDTO
	err := r.c.http.DoJSON(ctx, http.MethodGet, "/veterinarians", nil, nil, &out)
	if err != nil {
		return nil, mapHTTPError(err)
	}

	items := make([]vets.Veterinarian, 0, len(out))
	for _, dto := range out {
		items = append(items, toVeterinarian(dto))
	}
	return items, nil
}

func (r *VetsRepo) GetByID(ctx context.Context, id string) (vets.Veterinarian, error) {
	if !r.c.IsConfigured() {
		return vets.Veterinarian{}, ErrNotConfigured
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return vets.Veterinarian{}, ErrNotFound
	}

	var out veterinarianDTO
	err := r.c.http.DoJSON(ctx, http.MethodGet, "/veterinarians/"+url.PathEscape(id), nil, nil, &out)
	if err != nil {
		return vets.Veterinarian{}, mapHTTPError(err)
	}
	return toVeterinarian(out), nil
}

func mapHTTPError(err error) error {
	var he *httpclient.HTTPError
	if errors.As(err, &he) && he.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return err
}

func toAppointment(dto appointmentDTO) appointments.Appointment {
	return appointments.Appointment{
		ID:                       dto.ID,
		PetID:                    dto.PetID,
		OwnerID:                  dto.OwnerID,
		VetID:                    dto.VetID,
		Type:                     appointments.AppointmentType(dto.Type),
		Reason:                   dto.Reason,
		ScheduledAt:              dto.ScheduledAt,
		EstimatedDurationMinutes: dto.EstimatedDurationMinutes,
		Status:                   appointments.Status(dto.Status),
		CancellationReason:       dto.CancellationReason,
		Notes:                    dto.Notes,
		CreatedAt:                dto.CreatedAt,
	}
}

func toVeterinarian(dto veterinarianDTO) vets.Veterinarian {
	return vets.Veterinarian{
		ID:         dto.ID,
		Name:       dto.Name,
		Email:      dto.Email,
		Specialty:  dto.Specialty,
		ClinicName: dto.ClinicName,
		Active:     dto.Active,
		CreatedAt:  dto.CreatedAt,
	}
}
