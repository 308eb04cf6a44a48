package main

// Run database migrations for the configured SQL document store:
//   DOC_STORE=postgres go run ./cmd/migrate
//   DOC_STORE=sqlite go run ./cmd/migrate

import (
	"context"
	"database/sql"
	"log"
	"os"

	"docspeech-backend/internal/shared/config"
	"docspeech-backend/internal/shared/storage/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("config error: %v", err)
		os.Exit(1)
	}
	ctx := context.Background()

	var (
		sqlDB   *sql.DB
		dialect db.Dialect
	)
	switch cfg.DocStore {
	case config.StorePostgres:
		dialect = db.Postgres
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	case config.StoreSQLite:
		dialect = db.SQLite
		sqlDB, err = db.ConnectSQLite(ctx, cfg.SQLitePath)
	default:
		log.Printf("DOC_STORE=%s has no SQL migrations", cfg.DocStore)
		os.Exit(1)
	}
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB, dialect); err != nil {
		log.Printf("failed to run migrations: %v", err)
		os.Exit(1)
	}
	log.Printf("migrations applied (%s)", dialect)
}
