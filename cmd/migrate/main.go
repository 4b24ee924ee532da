// Command migrate brings a Postgres database up to date with db/*.sql.
// Redis and memory stores need no schema.
//
//	go run ./cmd/migrate            # uses DB_URL, reads ./db
//	MIGRATIONS_DIR=path go run ./cmd/migrate
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"lg/vital-balance-go-api/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		return fmt.Errorf("DB_URL is not set")
	}
	dir := os.Getenv("MIGRATIONS_DIR")
	if dir == "" {
		dir = "db"
	}

	migrations, err := store.LoadMigrations(dir)
	if err != nil {
		return err
	}

	ctx := context.Background()
	pg, err := store.NewPostgres(ctx, dbURL)
	if err != nil {
		return err
	}
	defer pg.Close()

	applied, err := pg.Migrate(ctx, migrations)
	for _, name := range applied {
		fmt.Printf("  applied: %s\n", name)
	}
	if err != nil {
		return err
	}

	if len(applied) == 0 {
		fmt.Println("Database is up to date.")
	} else {
		fmt.Printf("%d of %d migration(s) applied.\n", len(applied), len(migrations))
	}
	return nil
}
