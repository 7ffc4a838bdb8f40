package main

import (
	"net/http"
	"os"
	"time"

	"pet-appointments/internal/adapters/auth/accounts"
	"pet-appointments/internal/platform/logger"
	"pet-appointments/internal/ports/auth"
	"pet-appointments/internal/router"
)

func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	// Verifier real solo si el servicio de cuentas está configurado;
	// si no, modo dev con headers X-Debug-*.
	var verifier auth.AuthVerifier
	if base := os.Getenv("ACCOUNTS_API_URL"); base != "" {
		client, err := accounts.NewClient(accounts.Config{
			BaseURL: base,
			APIKey:  os.Getenv("ACCOUNTS_API_KEY"),
		})
		if err != nil {
			log.Error("invalid accounts config", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		verifier = accounts.NewVerifier(client)
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Log:          log,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
