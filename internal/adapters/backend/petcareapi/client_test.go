package petcareapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pet-appointments/internal/domain/appointments"
)

func newFakeAPI(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	c, err := New(Config{BaseURL: ts.URL, Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("New client: %v", err)
	}
	return c
}

func TestAppointmentsRepo_Create_MapsBackendRecord(t *testing.T) {
	scheduled := time.Date(2025, 12, 23, 10, 0, 0, 0, time.UTC)

	c := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/appointments" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}

		var in map[string]any
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["type"] != "checkup" || in["estimated_duration_minutes"] != float64(30) {
			t.Fatalf("payload wrong: %v", in)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":                         "appt-1",
			"pet_id":                     in["pet_id"],
			"owner_id":                   in["owner_id"],
			"vet_id":                     in["vet_id"],
			"type":                       in["type"],
			"reason":                     in["reason"],
			"scheduled_at":               scheduled.Format(time.RFC3339),
			"estimated_duration_minutes": 30,
			"status":                     "confirmed", // el backend decide el status inicial
			"created_at":                 time.Now().UTC().Format(time.RFC3339),
		})
	})

	repo := NewAppointmentsRepo(c)
	a, err := repo.Create(context.Background(), appointments.NewAppointment{
		PetID:                    "pet-1",
		OwnerID:                  "owner-1",
		VetID:                    "vet-1",
		Type:                     appointments.TypeCheckup,
		Reason:                   "annual review",
		ScheduledAt:              scheduled,
		EstimatedDurationMinutes: 30,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if a.ID != "appt-1" || a.Status != appointments.StatusConfirmed {
		t.Fatalf("mapped record wrong: %+v", a)
	}
	if !a.ScheduledAt.Equal(scheduled) {
		t.Fatalf("ScheduledAt = %v, want %v", a.ScheduledAt, scheduled)
	}
}

func TestAppointmentsRepo_Create_RejectionSurfacesBackendReason(t *testing.T) {
	c := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "vet not available at that time", http.StatusUnprocessableEntity)
	})

	repo := NewAppointmentsRepo(c)
	_, err := repo.Create(context.Background(), appointments.NewAppointment{
		PetID:   "pet-1",
		OwnerID: "owner-1",
	})
	if !errors.Is(err, appointments.ErrBookingRejected) {
		t.Fatalf("expected ErrBookingRejected, got %v", err)
	}
}

func TestAppointmentsRepo_GetByID_NotFound(t *testing.T) {
	c := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	repo := NewAppointmentsRepo(c)
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAppointmentsRepo_Transition_SendsPatch(t *testing.T) {
	c := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/appointments/appt-1" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}

		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["status"] != "cancelled" || in["cancellation_reason"] != "schedule conflict" {
			t.Fatalf("patch payload wrong: %v", in)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":                  "appt-1",
			"status":              "cancelled",
			"cancellation_reason": "schedule conflict",
		})
	})

	repo := NewAppointmentsRepo(c)
	a, err := repo.Transition(context.Background(), "appt-1", appointments.StatusCancelled, "schedule conflict")
	if err != nil {
		t.Fatalf("Transition error: %v", err)
	}
	if a.Status != appointments.StatusCancelled || a.CancellationReason != "schedule conflict" {
		t.Fatalf("mapped transition wrong: %+v", a)
	}
}

func TestVetsRepo_List(t *testing.T) {
	c := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/veterinarians" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": "vet-1", "name": "Dra. Ríos", "active": true},
			{"id": "vet-2", "name": "Dr. Soto", "active": false},
		})
	})

	repo := NewVetsRepo(c)
	items, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(items) != 2 || items[0].ID != "vet-1" || items[1].Active {
		t.Fatalf("mapped directory wrong: %+v", items)
	}
}
