package router

import (
	"database/sql"
	"net/http"
	"os"

	"pet-appointments/internal/adapters/backend/petcareapi"
	"pet-appointments/internal/adapters/policy/bookingpolicy"
	mem "pet-appointments/internal/adapters/storage/memory"
	pg "pet-appointments/internal/adapters/storage/postgres"
	"pet-appointments/internal/domain/appointments"
	"pet-appointments/internal/domain/vets"
	"pet-appointments/internal/middleware"
	"pet-appointments/internal/platform/logger"
	"pet-appointments/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, mira env (ver abajo).
	DB *sql.DB

	// Opcional: repos explícitos (tests). Ganan sobre DB/env.
	AppointmentsRepo appointments.Repository
	VetsRepo         vets.Repository

	// Opcional: logger; si es nil se crea desde env.
	Log logger.Logger
}

// NewRouter arma el router con el store según lo disponible:
// - PETCARE_API_URL => la API de la plataforma es el store (modo normal).
// - DB_DSN / Options.DB => Postgres propio.
// - nada => in-memory (dev/tests).
func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.NewFromEnv()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Swagger UI (los docs los genera swag init)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	apptRepo := opts.AppointmentsRepo
	vetRepo := opts.VetsRepo

	// Política de status inicial (override por env o servicio externo)
	pol := bookingpolicy.NewResolver(nil)

	switch {
	case apptRepo != nil:
		// repos inyectados: nada que decidir
	case os.Getenv("PETCARE_API_URL") != "":
		api, err := petcareapi.New(petcareapi.Config{BaseURL: os.Getenv("PETCARE_API_URL")})
		if err == nil {
			apptRepo = petcareapi.NewAppointmentsRepo(api)
			vetRepo = petcareapi.NewVetsRepo(api)
			log.Info("using petcare api store", map[string]any{"base_url": os.Getenv("PETCARE_API_URL")})
		}
	case opts.DB != nil:
		apptRepo = pg.NewAppointmentsRepo(opts.DB, pol)
		vetRepo = pg.NewVetsRepo(opts.DB)
		log.Info("using postgres store", nil)
	case os.Getenv("DB_DSN") != "":
		if db, err := pg.Open(os.Getenv("DB_DSN")); err == nil {
			apptRepo = pg.NewAppointmentsRepo(db, pol)
			vetRepo = pg.NewVetsRepo(db)
			log.Info("using postgres store", nil)
		} else {
			log.Warn("postgres unavailable, falling back to memory", map[string]any{"error": err.Error()})
		}
	}

	if apptRepo == nil {
		apptRepo = mem.NewAppointmentRepo(pol)
		log.Info("using in-memory store", nil)
	}
	if vetRepo == nil {
		vetRepo = mem.NewVetRepo()
	}

	// Services por módulo
	vetsSvc := vets.NewService(vetRepo)
	apptSvc := appointments.NewService(apptRepo, vetsSvc)

	// Rutas por módulo
	appointments.RegisterRoutes(r, apptSvc)
	vets.RegisterRoutes(r, vetsSvc)

	return r
}
