package appointments

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"pet-appointments/internal/domain/vets"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	// ErrBookingRejected envuelve el rechazo del backend al crear una cita.
	ErrBookingRejected = errors.New("booking rejected")
)

type Service struct {
	repo      Repository
	directory *vets.Service
	now       func() time.Time

	// Una sola transición en vuelo por cita: la segunda llamada espera
	// y re-lee el último status antes de juzgar legalidad.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(repo Repository, directory *vets.Service) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		now:       time.Now,
		locks:     make(map[string]*sync.Mutex),
	}
}

// Book valida la solicitud y la entrega al store, que asigna ID y status
// inicial. En caso de violaciones devuelve ValidationErrors con todas.
func (s *Service) Book(ctx context.Context, ownerID string, req BookingRequest) (Appointment, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Appointment{}, ErrInvalidInput
	}

	n, verrs := Validate(req, ownerID, s.now())
	if len(verrs) > 0 {
		return Appointment{}, verrs
	}

	a, err := s.repo.Create(ctx, n)
	if err != nil {
		return Appointment{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Appointment{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// List devuelve la vista según el rol del actor:
// - owner: sus citas filtradas + contadores derivados.
// - veterinarian: el directorio de colegas, aun si mandó filtros.
func (s *Service) List(ctx context.Context, actor Actor, filter ListFilter) (ListResult, error) {
	if strings.TrimSpace(actor.ID) == "" {
		return ListResult{}, ErrInvalidInput
	}

	if actor.Role == RoleVeterinarian {
		peers, err := s.directory.List(ctx)
		if err != nil {
			return ListResult{}, err
		}
		return ListResult{
			Directory: &VeterinarianDirectoryView{Veterinarians: peers},
		}, nil
	}

	items, err := s.repo.ListByOwner(ctx, actor.ID, filter)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{
		Owner: &OwnerAppointmentView{
			Appointments: items,
			Counts:       CountsFor(items),
		},
	}, nil
}

// Confirm aplica pending -> confirmed.
func (s *Service) Confirm(ctx context.Context, id string) (Appointment, error) {
	return s.transition(ctx, id, StatusConfirmed, "")
}

// Complete aplica confirmed -> completed.
func (s *Service) Complete(ctx context.Context, id string) (Appointment, error) {
	return s.transition(ctx, id, StatusCompleted, "")
}

// Cancel aplica pending/confirmed -> cancelled con motivo obligatorio.
// Reintentar un cancel con el mismo motivo sobre una cita ya cancelada
// es un éxito no-op (tolera retry tras timeout del write).
func (s *Service) Cancel(ctx context.Context, id, reason string) (Appointment, error) {
	return s.transition(ctx, id, StatusCancelled, reason)
}

func (s *Service) transition(ctx context.Context, id string, to Status, reason string) (Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Appointment{}, ErrInvalidInput
	}

	unlock := s.lockID(id)
	defer unlock()

	// Siempre contra el último estado conocido: quien llegó segundo opera
	// sobre estado viejo y acá se re-valida.
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}

	reason = strings.TrimSpace(reason)

	switch to {
	case StatusConfirmed:
		err = CanConfirm(current.Status)
	case StatusCompleted:
		err = CanComplete(current.Status)
	case StatusCancelled:
		if current.Status == StatusCancelled && reason != "" && current.CancellationReason == reason {
			return current, nil
		}
		err = CanCancel(current.Status, reason)
	default:
		err = ErrInvalidTransition
	}
	if err != nil {
		return Appointment{}, err
	}

	// Si el write falla, no tocamos nada local: el caller puede reintentar
	// la misma transición.
	updated, err := s.repo.Transition(ctx, id, to, reason)
	if err != nil {
		return Appointment{}, err
	}
	return updated, nil
}

func (s *Service) lockID(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}
