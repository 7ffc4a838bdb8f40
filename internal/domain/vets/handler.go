package vets

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"pet-appointments/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/veterinarians", listVeterinariansHandler(svc))
}

// veterinarianResponse representa un veterinario del directorio.
type veterinarianResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Specialty  string    `json:"specialty,omitempty"`
	ClinicName string    `json:"clinic_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// listVeterinariansHandler godoc
// @Summary Directorio de veterinarios
// @Description Lista los veterinarios activos de la plataforma. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags veterinarians
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} veterinarianResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /veterinarians [get]
func listVeterinariansHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]veterinarianResponse, 0, len(items))
		for _, v := range items {
			out = append(out, veterinarianResponse{
				ID:         v.ID,
				Name:       v.Name,
				Email:      v.Email,
				Specialty:  v.Specialty,
				ClinicName: v.ClinicName,
				CreatedAt:  v.CreatedAt,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
