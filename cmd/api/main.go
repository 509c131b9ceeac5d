// Command api runs the tender-backend HTTP server.
package main

import (
	"context"
	"log"

	"tender-backend/internal/bootstrap"
	"tender-backend/internal/shared/config"
	"tender-backend/internal/shared/server"
	"tender-backend/internal/shared/storage/db"
	"tender-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}

	if app.DB != nil {
		if err := db.RunMigrations(context.Background(), app.DB); err != nil {
			log.Fatalf("migrations error: %v", err)
		}
	}

	addr := server.Addr(cfg.Port)
	telemetry.Info("api server listening", map[string]any{"addr": addr})

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
