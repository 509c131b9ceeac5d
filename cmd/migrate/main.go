// Command migrate applies the embedded schema migrations and exits.
//
//	go run ./cmd/migrate
package main

import (
	"context"
	"os"

	"tender-backend/internal/shared/config"
	"tender-backend/internal/shared/storage/db"
	"tender-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		telemetry.Error("connect database", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool); err != nil {
		telemetry.Error("run migrations", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
