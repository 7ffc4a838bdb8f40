package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-appointments/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Post("/", bookAppointmentHandler(svc))
		ar.Get("/", listAppointmentsHandler(svc))

		ar.Get("/{appointmentID}", getAppointmentHandler(svc))

		// Transiciones de ciclo de vida (nunca se borra una cita)
		ar.Post("/{appointmentID}/confirm", confirmAppointmentHandler(svc))
		ar.Post("/{appointmentID}/complete", completeAppointmentHandler(svc))
		ar.Post("/{appointmentID}/cancel", cancelAppointmentHandler(svc))
	})
}

// bookAppointmentRequest es el cuerpo para reservar una cita.
// date y time van por separado; el servicio los combina.
type bookAppointmentRequest struct {
	PetID  string          `json:"pet_id"`
	VetID  string          `json:"vet_id"`
	Type   AppointmentType `json:"type" enums:"checkup,vaccination,emergency,surgery,consultation,dental,grooming"`
	Reason string          `json:"reason"`
	Date   string          `json:"date"` // YYYY-MM-DD
	Time   string          `json:"time"` // HH:MM
	Notes  string          `json:"notes"`
}

type cancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

// appointmentResponse representa una cita devuelta por la API,
// con su resumen de agenda derivado.
type appointmentResponse struct {
	ID                       string          `json:"id"`
	PetID                    string          `json:"pet_id"`
	OwnerID                  string          `json:"owner_id"`
	VetID                    string          `json:"vet_id,omitempty"`
	Type                     AppointmentType `json:"type"`
	Reason                   string          `json:"reason"`
	ScheduledAt              time.Time       `json:"scheduled_at"`
	EstimatedDurationMinutes int             `json:"estimated_duration_minutes"`
	Status                   Status          `json:"status"`
	CancellationReason       string          `json:"cancellation_reason,omitempty"`
	Notes                    string          `json:"notes,omitempty"`
	CreatedAt                time.Time       `json:"created_at"`
	Schedule                 Summary         `json:"schedule"`
}

type ownerListResponse struct {
	Appointments []appointmentResponse `json:"appointments"`
	Counts       countsResponse        `json:"counts"`
}

type countsResponse struct {
	Total     int                     `json:"total"`
	Pending   int                     `json:"pending"`
	Confirmed int                     `json:"confirmed"`
	Completed int                     `json:"completed"`
	Cancelled int                     `json:"cancelled"`
	ByType    map[AppointmentType]int `json:"by_type"`
}

type directoryListResponse struct {
	Veterinarians []vetSummaryResponse `json:"veterinarians"`
}

type vetSummaryResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Specialty  string `json:"specialty,omitempty"`
	ClinicName string `json:"clinic_name,omitempty"`
}

// bookAppointmentHandler godoc
// @Summary Reservar una cita
// @Description Crea una solicitud de cita para una mascota. Valida campos requeridos y que date+time sea estrictamente futuro; si algo falla devuelve todas las violaciones juntas, etiquetadas por campo. El status inicial lo asigna el backend. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags appointments
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body bookAppointmentRequest true "Solicitud; date en YYYY-MM-DD, time en HH:MM"
// @Success 201 {object} appointmentResponse
// @Failure 400 {object} map[string]any "invalid json / errores de validación por campo"
// @Failure 401 {string} string "unauthorized"
// @Failure 502 {string} string "booking rejected"
// @Router /appointments [post]
func bookAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req bookAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.Book(r.Context(), claims.UserID, BookingRequest{
			PetID:  req.PetID,
			VetID:  req.VetID,
			Type:   req.Type,
			Reason: req.Reason,
			Date:   req.Date,
			Time:   req.Time,
			Notes:  req.Notes,
		})
		if err != nil {
			var verrs ValidationErrors
			if errors.As(err, &verrs) {
				writeJSON(w, http.StatusBadRequest, map[string]any{"errors": verrs})
				return
			}
			if errors.Is(err, ErrBookingRejected) {
				http.Error(w, err.Error(), http.StatusBadGateway)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(a))
	}
}

// listAppointmentsHandler godoc
// @Summary Listar citas (vista según rol)
// @Description Para un dueño: sus citas con filtros exactos por status, type y pet_id, más contadores derivados. Para un veterinario: el directorio de colegas, incluso si manda filtros (su agenda se gestiona en otra superficie). Autenticación: `X-Debug-User-ID` + `X-Debug-User-Role` (dev) o Bearer (prod).
// @Tags appointments
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param X-Debug-User-Role header string false "Solo en modo dev: owner o veterinarian"
// @Param Authorization header string false "Bearer token en producción"
// @Param status query string false "Filtro exacto de status (pending, confirmed, completed, cancelled)"
// @Param type query string false "Filtro exacto de tipo de cita"
// @Param pet_id query string false "Filtro exacto por mascota"
// @Success 200 {object} ownerListResponse "Vista de dueño (o directoryListResponse para veterinario)"
// @Failure 400 {string} string "filtro inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /appointments [get]
func listAppointmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		filter, err := parseListFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		result, err := svc.List(r.Context(), Actor{
			ID:   claims.UserID,
			Role: roleFromClaims(claims.Role),
		}, filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		// Unión etiquetada: una sola rama viene poblada.
		if result.Directory != nil {
			out := directoryListResponse{
				Veterinarians: make([]vetSummaryResponse, 0, len(result.Directory.Veterinarians)),
			}
			for _, v := range result.Directory.Veterinarians {
				out.Veterinarians = append(out.Veterinarians, vetSummaryResponse{
					ID:         v.ID,
					Name:       v.Name,
					Email:      v.Email,
					Specialty:  v.Specialty,
					ClinicName: v.ClinicName,
				})
			}
			writeJSON(w, http.StatusOK, out)
			return
		}

		items := make([]appointmentResponse, 0, len(result.Owner.Appointments))
		for _, a := range result.Owner.Appointments {
			items = append(items, toAppointmentResponse(a))
		}
		writeJSON(w, http.StatusOK, ownerListResponse{
			Appointments: items,
			Counts:       toCountsResponse(result.Owner.Counts),
		})
	}
}

// getAppointmentHandler godoc
// @Summary Detalle de una cita
// @Description Devuelve la cita con su resumen de agenda (fecha, hora, hora de fin calculada, duración). Solo el dueño o el veterinario asignado pueden verla.
// @Tags appointments
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param Authorization header string false "Bearer token en producción"
// @Param appointmentID path string true "ID de la cita"
// @Success 200 {object} appointmentResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "appointment not found"
// @Router /appointments/{appointmentID} [get]
func getAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "appointmentID"))
		if err != nil {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}

		if a.OwnerID != claims.UserID && a.VetID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

// confirmAppointmentHandler godoc
// @Summary Confirmar una cita
// @Description Transición pending -> confirmed. Solo el veterinario asignado. El backend sigue siendo la fuente de verdad de autorización; este chequeo es un pre-check del cliente.
// @Tags appointments
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param X-Debug-User-Role header string false "Solo en modo dev: owner o veterinarian"
// @Param Authorization header string false "Bearer token en producción"
// @Param appointmentID path string true "ID de la cita"
// @Success 200 {object} appointmentResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "appointment not found"
// @Failure 409 {string} string "invalid transition / already finalized"
// @Router /appointments/{appointmentID}/confirm [post]
func confirmAppointmentHandler(svc *Service) http.HandlerFunc {
	return transitionHandler(svc, func(r *http.Request, svc *Service, id string) (Appointment, error) {
		return svc.Confirm(r.Context(), id)
	}, true)
}

// completeAppointmentHandler godoc
// @Summary Completar una cita
// @Description Transición confirmed -> completed. Desde pending falla con invalid transition. Solo el veterinario asignado.
// @Tags appointments
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param X-Debug-User-Role header string false "Solo en modo dev: owner o veterinarian"
// @Param Authorization header string false "Bearer token en producción"
// @Param appointmentID path string true "ID de la cita"
// @Success 200 {object} appointmentResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "appointment not found"
// @Failure 409 {string} string "invalid transition / already finalized"
// @Router /appointments/{appointmentID}/complete [post]
func completeAppointmentHandler(svc *Service) http.HandlerFunc {
	return transitionHandler(svc, func(r *http.Request, svc *Service, id string) (Appointment, error) {
		return svc.Complete(r.Context(), id)
	}, true)
}

// cancelAppointmentHandler godoc
// @Summary Cancelar una cita
// @Description Transición pending/confirmed -> cancelled con motivo obligatorio. Cancelar no borra: es una transición de status. Reintentar con el mismo motivo sobre una cita ya cancelada responde 200 (retry idempotente). Dueño o veterinario asignado.
// @Tags appointments
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param Authorization header string false "Bearer token en producción"
// @Param appointmentID path string true "ID de la cita"
// @Param payload body cancelAppointmentRequest true "Motivo de cancelación (no vacío)"
// @Success 200 {object} appointmentResponse
// @Failure 400 {string} string "invalid json / cancellation reason required"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "appointment not found"
// @Failure 409 {string} string "already finalized"
// @Router /appointments/{appointmentID}/cancel [post]
func cancelAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id := chi.URLParam(r, "appointmentID")
		a, err := svc.GetByID(r.Context(), id)
		if err != nil {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}
		if a.OwnerID != claims.UserID && a.VetID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req cancelAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		updated, err := svc.Cancel(r.Context(), id, req.Reason)
		if err != nil {
			writeTransitionError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(updated))
	}
}

// transitionHandler factoriza confirm/complete: mismas reglas de acceso
// (veterinario asignado), solo cambia la transición aplicada.
func transitionHandler(
	svc *Service,
	apply func(r *http.Request, svc *Service, id string) (Appointment, error),
	vetOnly bool,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id := chi.URLParam(r, "appointmentID")
		a, err := svc.GetByID(r.Context(), id)
		if err != nil {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}

		if vetOnly {
			if roleFromClaims(claims.Role) != RoleVeterinarian || a.VetID != claims.UserID {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
		}

		updated, err := apply(r, svc, id)
		if err != nil {
			writeTransitionError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(updated))
	}
}

func writeTransitionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingCancellationReason):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrAlreadyFinalized), errors.Is(err, ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		// MVP: "not found" del repo como 404, el resto 502 (el write vive en el backend)
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}
		http.Error(w, "upstream error", http.StatusBadGateway)
	}
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	var filter ListFilter

	if v := strings.TrimSpace(r.URL.Query().Get("status")); v != "" {
		st := Status(v)
		if !st.IsValid() {
			return ListFilter{}, errors.New("status must be pending, confirmed, completed or cancelled")
		}
		filter.Status = &st
	}

	if v := strings.TrimSpace(r.URL.Query().Get("type")); v != "" {
		t := AppointmentType(v)
		if !KnownType(t) {
			return ListFilter{}, errors.New("type is not in the appointment catalog")
		}
		filter.Type = &t
	}

	filter.PetID = strings.TrimSpace(r.URL.Query().Get("pet_id"))

	return filter, nil
}

func roleFromClaims(role string) Role {
	if strings.EqualFold(strings.TrimSpace(role), string(RoleVeterinarian)) {
		return RoleVeterinarian
	}
	return RoleOwner
}

func toAppointmentResponse(a Appointment) appointmentResponse {
	return appointmentResponse{
		ID:                       a.ID,
		PetID:                    a.PetID,
		OwnerID:                  a.OwnerID,
		VetID:                    a.VetID,
		Type:                     a.Type,
		Reason:                   a.Reason,
		ScheduledAt:              a.ScheduledAt,
		EstimatedDurationMinutes: a.EstimatedDurationMinutes,
		Status:                   a.Status,
		CancellationReason:       a.CancellationReason,
		Notes:                    a.Notes,
		CreatedAt:                a.CreatedAt,
		Schedule:                 Summarize(a),
	}
}

func toCountsResponse(c Counts) countsResponse {
	return countsResponse{
		Total:     c.Total,
		Pending:   c.Pending,
		Confirmed: c.Confirmed,
		Completed: c.Completed,
		Cancelled: c.Cancelled,
		ByType:    c.ByType,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
