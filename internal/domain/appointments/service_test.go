package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"pet-appointments/internal/domain/vets"
)

// -------------------------
// Test repos (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	mu   sync.Mutex
	byID map[string]Appointment
	seq  int

	initialStatus Status
	// si está seteado, Transition falla sin tocar nada (simula write caído)
	transitionErr error
}

func newTestRepo() *testRepo {
	return &testRepo{
		byID:          map[string]Appointment{},
		initialStatus: StatusPending,
	}
}

func (r *testRepo) Create(ctx context.Context, n NewAppointment) (Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	a := Appointment{
		ID:                       fmt.Sprintf("appt-%d", r.seq),
		PetID:                    n.PetID,
		OwnerID:                  n.OwnerID,
		VetID:                    n.VetID,
		Type:                     n.Type,
		Reason:                   n.Reason,
		ScheduledAt:              n.ScheduledAt,
		EstimatedDurationMinutes: n.EstimatedDurationMinutes,
		Status:                   r.initialStatus,
		Notes:                    n.Notes,
		CreatedAt:                time.Date(2025, 12, 22, 9, 0, 0, 0, time.UTC).Add(time.Duration(r.seq) * time.Minute),
	}
	r.byID[a.ID] = a
	return a, nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return Appointment{}, errRepoNotFound
	}
	return a, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerID string, filter ListFilter) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Appointment, 0)
	for _, a := range r.byID {
		if a.OwnerID != ownerID {
			continue
		}
		if !filter.Matches(a) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *testRepo) Transition(ctx context.Context, id string, to Status, cancellationReason string) (Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.transitionErr != nil {
		return Appointment{}, r.transitionErr
	}

	a, ok := r.byID[id]
	if !ok {
		return Appointment{}, errRepoNotFound
	}

	a.Status = to
	if to == StatusCancelled {
		a.CancellationReason = strings.TrimSpace(cancellationReason)
	} else {
		a.CancellationReason = ""
	}
	r.byID[id] = a
	return a, nil
}

type testVetRepo struct {
	items []vets.Veterinarian
}

func (r *testVetRepo) List(ctx context.Context) ([]vets.Veterinarian, error) {
	return r.items, nil
}

func (r *testVetRepo) GetByID(ctx context.Context, id string) (vets.Veterinarian, error) {
	for _, v := range r.items {
		if v.ID == id {
			return v, nil
		}
	}
	return vets.Veterinarian{}, errRepoNotFound
}

func newTestService(repo *testRepo, peers ...vets.Veterinarian) *Service {
	svc := NewService(repo, vets.NewService(&testVetRepo{items: peers}))
	svc.now = func() time.Time { return testNow }
	return svc
}

func mustBook(t *testing.T, svc *Service, req BookingRequest) Appointment {
	t.Helper()
	a, err := svc.Book(context.Background(), "owner-1", req)
	if err != nil {
		t.Fatalf("Book error: %v", err)
	}
	return a
}

// -------------------------
// Booking
// -------------------------

func TestService_Book_AssignsStoreStatusAndDuration(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	a := mustBook(t, svc, validRequest())

	if a.ID == "" {
		t.Fatalf("expected store-assigned id")
	}
	if a.Status != StatusPending {
		t.Fatalf("expected store-assigned pending, got %s", a.Status)
	}
	if a.EstimatedDurationMinutes != 30 {
		t.Fatalf("expected duration 30 for checkup, got %d", a.EstimatedDurationMinutes)
	}
}

func TestService_Book_StorePolicyMayConfirmDirectly(t *testing.T) {
	// El status inicial es política del store, no nuestra.
	repo := newTestRepo()
	repo.initialStatus = StatusConfirmed
	svc := newTestService(repo)

	a := mustBook(t, svc, validRequest())
	if a.Status != StatusConfirmed {
		t.Fatalf("expected confirmed per store policy, got %s", a.Status)
	}
}

func TestService_Book_ValidationErrorsPropagate(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	_, err := svc.Book(context.Background(), "owner-1", BookingRequest{})
	var verrs ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("invalid request must not reach the store")
	}
}

// -------------------------
// Lifecycle
// -------------------------

func TestService_Confirm_OnlyFromPending(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	a := mustBook(t, svc, validRequest())

	confirmed, err := svc.Confirm(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Confirm error: %v", err)
	}
	if confirmed.Status != StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", confirmed.Status)
	}

	// confirmed -> confirmed no es legal
	if _, err := svc.Confirm(context.Background(), a.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestService_Complete_RequiresConfirmed(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	a := mustBook(t, svc, validRequest())

	// pending -> completed: ilegal
	if _, err := svc.Complete(context.Background(), a.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition from pending, got %v", err)
	}

	if _, err := svc.Confirm(context.Background(), a.ID); err != nil {
		t.Fatalf("Confirm error: %v", err)
	}

	completed, err := svc.Complete(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if completed.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", completed.Status)
	}
}

func TestService_Cancel_SetsReason(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	a := mustBook(t, svc, validRequest())
	if _, err := svc.Confirm(context.Background(), a.ID); err != nil {
		t.Fatalf("Confirm error: %v", err)
	}

	cancelled, err := svc.Cancel(context.Background(), a.ID, "schedule conflict")
	if err != nil {
		t.Fatalf("Cancel error: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	if cancelled.CancellationReason != "schedule conflict" {
		t.Fatalf("expected reason recorded, got %q", cancelled.CancellationReason)
	}
}

func TestService_Cancel_EmptyReasonAlwaysFails(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	// pending
	a := mustBook(t, svc, validRequest())
	if _, err := svc.Cancel(context.Background(), a.ID, "   "); !errors.Is(err, ErrMissingCancellationReason) {
		t.Fatalf("expected ErrMissingCancellationReason from pending, got %v", err)
	}

	// confirmed
	if _, err := svc.Confirm(context.Background(), a.ID); err != nil {
		t.Fatalf("Confirm error: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), a.ID, ""); !errors.Is(err, ErrMissingCancellationReason) {
		t.Fatalf("expected ErrMissingCancellationReason from confirmed, got %v", err)
	}

	// terminal (completed): sigue ganando el motivo vacío
	if _, err := svc.Complete(context.Background(), a.ID); err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), a.ID, ""); !errors.Is(err, ErrMissingCancellationReason) {
		t.Fatalf("expected ErrMissingCancellationReason from completed, got %v", err)
	}
}

func TestService_TerminalStates_RejectAnyTransition(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	a := mustBook(t, svc, validRequest())
	if _, err := svc.Confirm(context.Background(), a.ID); err != nil {
		t.Fatalf("Confirm error: %v", err)
	}
	if _, err := svc.Complete(context.Background(), a.ID); err != nil {
		t.Fatalf("Complete error: %v", err)
	}

	if _, err := svc.Confirm(context.Background(), a.ID); !errors.Is(err, ErrAlreadyFinalized) {
		t.Fatalf("expected ErrAlreadyFinalized on confirm, got %v", err)
	}
	if _, err := svc.Complete(context.Background(), a.ID); !errors.Is(err, ErrAlreadyFinalized) {
		t.Fatalf("expected ErrAlreadyFinalized on complete, got %v", err)
	}
	if _, err := svc.Cancel(context.Background(), a.ID, "late"); !errors.Is(err, ErrAlreadyFinalized) {
		t.Fatalf("expected ErrAlreadyFinalized on cancel, got %v", err)
	}

	stored, _ := repo.GetByID(context.Background(), a.ID)
	if stored.Status != StatusCompleted {
		t.Fatalf("stored status must not change, got %s", stored.Status)
	}
}

func TestService_Cancel_IdempotentRetry_SameReason(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	a := mustBook(t, svc, validRequest())
	if _, err := svc.Cancel(context.Background(), a.ID, "owner request"); err != nil {
		t.Fatalf("Cancel error: %v", err)
	}

	// retry tras timeout: mismo motivo => éxito no-op
	again, err := svc.Cancel(context.Background(), a.ID, "owner request")
	if err != nil {
		t.Fatalf("idempotent retry must succeed, got %v", err)
	}
	if again.Status != StatusCancelled || again.CancellationReason != "owner request" {
		t.Fatalf("retry changed the record: %+v", again)
	}

	// distinto motivo no es un retry: es una transición desde terminal
	if _, err := svc.Cancel(context.Background(), a.ID, "another reason"); !errors.Is(err, ErrAlreadyFinalized) {
		t.Fatalf("expected ErrAlreadyFinalized for different reason, got %v", err)
	}
}

func TestService_FailedWrite_LeavesStatusUnchanged_AndRetryable(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	a := mustBook(t, svc, validRequest())

	repo.transitionErr = errors.New("upstream timeout")
	if _, err := svc.Cancel(context.Background(), a.ID, "owner request"); err == nil {
		t.Fatalf("expected error from failed write")
	}

	stored, _ := repo.GetByID(context.Background(), a.ID)
	if stored.Status != StatusPending {
		t.Fatalf("failed write must not commit, got %s", stored.Status)
	}

	// mismo cancel reintenta y ahora sí aplica
	repo.transitionErr = nil
	cancelled, err := svc.Cancel(context.Background(), a.ID, "owner request")
	if err != nil {
		t.Fatalf("retry after failed write: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Fatalf("expected cancelled after retry, got %s", cancelled.Status)
	}
}

func TestService_ConcurrentTransitions_AtMostOneWins(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	a := mustBook(t, svc, validRequest())
	if _, err := svc.Confirm(context.Background(), a.ID); err != nil {
		t.Fatalf("Confirm error: %v", err)
	}

	// cancel y complete compiten sobre la misma cita confirmada:
	// gane quien gane, el perdedor debe ver el estado terminal nuevo.
	var wg sync.WaitGroup
	var cancelErr, completeErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, cancelErr = svc.Cancel(context.Background(), a.ID, "x")
	}()
	go func() {
		defer wg.Done()
		_, completeErr = svc.Complete(context.Background(), a.ID)
	}()
	wg.Wait()

	if (cancelErr == nil) == (completeErr == nil) {
		t.Fatalf("exactly one transition must win: cancel=%v complete=%v", cancelErr, completeErr)
	}

	loserErr := cancelErr
	if cancelErr == nil {
		loserErr = completeErr
	}
	if !errors.Is(loserErr, ErrAlreadyFinalized) {
		t.Fatalf("loser must see ErrAlreadyFinalized, got %v", loserErr)
	}

	stored, _ := repo.GetByID(context.Background(), a.ID)
	if !stored.Status.IsTerminal() {
		t.Fatalf("expected terminal status, got %s", stored.Status)
	}
}

// -------------------------
// List (vista por rol)
// -------------------------

func TestService_List_OwnerFiltersAndCounts(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo)

	first := mustBook(t, svc, validRequest())

	second := validRequest()
	second.PetID = "pet-2"
	second.Type = TypeGrooming
	b := mustBook(t, svc, second)
	if _, err := svc.Confirm(context.Background(), b.ID); err != nil {
		t.Fatalf("Confirm error: %v", err)
	}

	// citas de otro dueño no aparecen
	if _, err := svc.Book(context.Background(), "owner-2", validRequest()); err != nil {
		t.Fatalf("Book owner-2 error: %v", err)
	}

	actor := Actor{ID: "owner-1", Role: RoleOwner}

	res, err := svc.List(context.Background(), actor, ListFilter{})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if res.Owner == nil || res.Directory != nil {
		t.Fatalf("owner actor must get owner view")
	}
	if len(res.Owner.Appointments) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(res.Owner.Appointments))
	}
	if res.Owner.Counts.Pending != 1 || res.Owner.Counts.Confirmed != 1 {
		t.Fatalf("counts wrong: %+v", res.Owner.Counts)
	}
	if res.Owner.Counts.ByType[TypeCheckup] != 1 || res.Owner.Counts.ByType[TypeGrooming] != 1 {
		t.Fatalf("by-type counts wrong: %+v", res.Owner.Counts.ByType)
	}

	// filtro conjuntivo: status + pet
	st := StatusPending
	res, err = svc.List(context.Background(), actor, ListFilter{Status: &st, PetID: "pet-1"})
	if err != nil {
		t.Fatalf("List filtered error: %v", err)
	}
	if len(res.Owner.Appointments) != 1 || res.Owner.Appointments[0].ID != first.ID {
		t.Fatalf("filter must leave only the pending pet-1 appointment")
	}

	// contadores se recomputan sobre la secuencia filtrada
	if res.Owner.Counts.Total != 1 || res.Owner.Counts.Confirmed != 0 {
		t.Fatalf("counts must derive from the filtered sequence: %+v", res.Owner.Counts)
	}
}

func TestService_List_VeterinarianGetsPeerDirectory(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo,
		vets.Veterinarian{ID: "vet-1", Name: "Dra. Ríos", Active: true},
		vets.Veterinarian{ID: "vet-2", Name: "Dr. Soto", Active: true},
		vets.Veterinarian{ID: "vet-3", Name: "Dr. Inactivo", Active: false},
	)

	// aunque el vet tenga citas asignadas y mande filtros, recibe directorio
	mustBook(t, svc, validRequest())

	st := StatusPending
	res, err := svc.List(context.Background(), Actor{ID: "vet-1", Role: RoleVeterinarian}, ListFilter{Status: &st})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if res.Directory == nil || res.Owner != nil {
		t.Fatalf("veterinarian actor must get directory view, got %+v", res)
	}
	if len(res.Directory.Veterinarians) != 2 {
		t.Fatalf("expected 2 active peers, got %d", len(res.Directory.Veterinarians))
	}
}
