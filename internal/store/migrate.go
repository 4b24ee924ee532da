package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Migration is one schema file from db/. Files are named
// YYYY-MM-DD-NNN-description.sql and applied in name order.
type Migration struct {
	Name        string
	Description string
	SQL         string
}

var migrationName = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-\d{3}-(.+)\.sql$`)

// LoadMigrations reads every *.sql file in dir, sorted by name. Files that do
// not follow the naming scheme are rejected so ordering stays unambiguous.
func LoadMigrations(dir string) ([]Migration, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no migration files in %s", dir)
	}
	sort.Strings(paths)

	migrations := make([]Migration, 0, len(paths))
	for _, path := range paths {
		name := filepath.Base(path)
		m := migrationName.FindStringSubmatch(name)
		if m == nil {
			return nil, fmt.Errorf("migration %s: name must be YYYY-MM-DD-NNN-description.sql", name)
		}
		body, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		migrations = append(migrations, Migration{
			Name:        name,
			Description: strings.ReplaceAll(m[1], "-", " "),
			SQL:         string(body),
		})
	}
	return migrations, nil
}

// Pending drops the migrations whose names are in applied.
func Pending(migrations []Migration, applied map[string]bool) []Migration {
	var out []Migration
	for _, m := range migrations {
		if !applied[m.Name] {
			out = append(out, m)
		}
	}
	return out
}

// Migrate applies every pending migration, each in its own transaction
// together with its row in the migrations table, and returns the names it
// applied. It stops at the first failure.
func (p *Postgres) Migrate(ctx context.Context, migrations []Migration) ([]string, error) {
	applied, err := p.appliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	var ran []string
	for _, m := range Pending(migrations, applied) {
		err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, m.SQL); err != nil {
				return err
			}
			_, err := tx.Exec(ctx,
				"INSERT INTO migrations (migration, description) VALUES (@name, @description)",
				pgx.NamedArgs{"name": m.Name, "description": m.Description})
			return err
		})
		if err != nil {
			return ran, fmt.Errorf("apply %s: %w", m.Name, err)
		}
		ran = append(ran, m.Name)
	}
	return ran, nil
}

// appliedMigrations reads the migrations table, which the first migration
// creates; before that it does not exist and nothing counts as applied.
func (p *Postgres) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	var exists bool
	if err := p.pool.QueryRow(ctx, "SELECT to_regclass('migrations') IS NOT NULL").Scan(&exists); err != nil {
		return nil, fmt.Errorf("check migrations table: %w", err)
	}
	applied := make(map[string]bool)
	if !exists {
		return applied, nil
	}

	rows, err := p.pool.Query(ctx, "SELECT migration FROM migrations")
	if err != nil {
		return nil, fmt.Errorf("load applied migrations: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("load applied migrations: %w", err)
	}
	for _, name := range names {
		applied[name] = true
	}
	return applied, nil
}
