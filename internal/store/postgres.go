package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lg/vital-balance-go-api/internal/nutrition"
)

// Postgres stores everything in the tables created by db/*.sql.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a connection pool. We use a pool (not a single conn)
// because Neon closes idle connections after ~5 minutes.
func NewPostgres(ctx context.Context, dbURL string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse DB URL: %w", err)
	}
	// Use simple query protocol to avoid "cached plan must not change result type"
	// errors from Neon's server-side prepared statement cache after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

/* ─── Query helpers ──────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
// A missing row surfaces as pgx.ErrNoRows.
func queryOne[T any](ctx context.Context, pool *pgxpool.Pool, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](ctx context.Context, pool *pgxpool.Pool, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
	}
	return results, err
}

/* ─── Records ────────────────────────────────────────────────────────── */

// recordRow maps to intake_records.
type recordRow struct {
	ID         string    `db:"id"`
	Date       time.Time `db:"date"`
	Ingredient string    `db:"ingredient"`
	Weight     float64   `db:"weight"`
	Calories   float64   `db:"calories"`
	Protein    float64   `db:"protein"`
	Fats       float64   `db:"fats"`
	Carbs      float64   `db:"carbs"`
}

func (r recordRow) record() nutrition.Record {
	return nutrition.Record{
		ID:         r.ID,
		Date:       nutrition.DateOf(r.Date),
		Ingredient: r.Ingredient,
		Weight:     nutrition.Amount(r.Weight),
		Calories:   nutrition.Amount(r.Calories),
		Protein:    nutrition.Amount(r.Protein),
		Fats:       nutrition.Amount(r.Fats),
		Carbs:      nutrition.Amount(r.Carbs),
	}
}

func (p *Postgres) Load(ctx context.Context, userID int) ([]nutrition.Record, error) {
	rows, err := queryMany[recordRow](ctx, p.pool,
		`SELECT id, date, ingredient, weight, calories, protein, fats, carbs
		 FROM intake_records
		 WHERE user_id = @userID
		 ORDER BY date, created_at`,
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	records := make([]nutrition.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.record())
	}
	return records, nil
}

func (p *Postgres) Save(ctx context.Context, userID int, r nutrition.Record) (string, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	_, err := p.pool.Exec(ctx,
		`INSERT INTO intake_records (id, user_id, date, ingredient, weight, calories, protein, fats, carbs)
		 VALUES (@id, @userID, @date, @ingredient, @weight, @calories, @protein, @fats, @carbs)`,
		pgx.NamedArgs{
			"id": r.ID, "userID": userID, "date": r.Date.String(),
			"ingredient": r.Ingredient, "weight": float64(r.Weight),
			"calories": float64(r.Calories), "protein": float64(r.Protein),
			"fats": float64(r.Fats), "carbs": float64(r.Carbs),
		})
	if err != nil {
		return "", fmt.Errorf("insert record: %w", err)
	}
	return r.ID, nil
}

func (p *Postgres) Delete(ctx context.Context, userID int, id string) error {
	result, err := p.pool.Exec(ctx,
		"DELETE FROM intake_records WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

/* ─── Profiles ───────────────────────────────────────────────────────── */

// profileRow maps to profiles. One row per user.
type profileRow struct {
	Gender        string  `db:"gender"`
	Age           int     `db:"age"`
	HeightCM      float64 `db:"height_cm"`
	WeightKG      float64 `db:"weight_kg"`
	ActivityLevel string  `db:"activity_level"`
}

func (p *Postgres) Profile(ctx context.Context, userID int) (nutrition.Profile, error) {
	row, err := queryOne[profileRow](ctx, p.pool,
		`SELECT gender, age, height_cm, weight_kg, activity_level
		 FROM profiles WHERE user_id = @userID`,
		pgx.NamedArgs{"userID": userID})
	if errors.Is(err, pgx.ErrNoRows) {
		return nutrition.DefaultProfile(), nil
	}
	if err != nil {
		return nutrition.Profile{}, fmt.Errorf("load profile: %w", err)
	}
	return nutrition.Profile{
		Gender:        nutrition.Gender(row.Gender),
		Age:           row.Age,
		HeightCM:      row.HeightCM,
		WeightKG:      row.WeightKG,
		ActivityLevel: nutrition.ActivityLevel(row.ActivityLevel),
	}, nil
}

func (p *Postgres) SaveProfile(ctx context.Context, userID int, prof nutrition.Profile) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO profiles (user_id, gender, age, height_cm, weight_kg, activity_level)
		 VALUES (@userID, @gender, @age, @heightCM, @weightKG, @activityLevel)
		 ON CONFLICT (user_id) DO UPDATE SET
			gender = EXCLUDED.gender,
			age = EXCLUDED.age,
			height_cm = EXCLUDED.height_cm,
			weight_kg = EXCLUDED.weight_kg,
			activity_level = EXCLUDED.activity_level,
			updated_at = now()`,
		pgx.NamedArgs{
			"userID": userID, "gender": string(prof.Gender), "age": prof.Age,
			"heightCM": prof.HeightCM, "weightKG": prof.WeightKG,
			"activityLevel": string(prof.ActivityLevel),
		})
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

/* ─── Users ──────────────────────────────────────────────────────────── */

func (p *Postgres) UserByUsername(ctx context.Context, username string) (User, error) {
	u, err := queryOne[User](ctx, p.pool,
		"SELECT id, username, email, auth_token, password FROM users WHERE username = @username",
		pgx.NamedArgs{"username": username})
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (p *Postgres) UserIDByToken(ctx context.Context, token string) (int, error) {
	var userID int
	err := p.pool.QueryRow(ctx, "SELECT id FROM users WHERE auth_token = $1", token).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return userID, err
}

func (p *Postgres) CreateUser(ctx context.Context, u User) (int, error) {
	var userID int
	err := p.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password, auth_token)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (username) DO NOTHING
		 RETURNING id`,
		u.Username, u.Email, u.Password, u.AuthToken,
	).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrUsernameTaken
	}
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	return userID, nil
}
