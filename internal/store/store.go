// Package store persists intake records, profiles and users. The nutrition
// engine never touches a store; the HTTP layer loads plain records and
// profiles from one and hands them to the engine.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"lg/vital-balance-go-api/internal/nutrition"
)

// ErrNotFound is returned when a record, user or token does not exist.
var ErrNotFound = errors.New("not found")

// ErrUsernameTaken is returned by CreateUser for a duplicate username.
var ErrUsernameTaken = errors.New("username already exists")

// User is an account. Password holds the bcrypt hash; AuthToken is the opaque
// bearer token handed out at login.
type User struct {
	ID        int    `json:"id"        db:"id"`
	Username  string `json:"username"  db:"username"`
	Email     string `json:"email"     db:"email"`
	AuthToken string `json:"-"         db:"auth_token"`
	Password  string `json:"-"         db:"password"`
}

// RecordStore loads, saves and deletes a user's intake records.
type RecordStore interface {
	// Load returns all of the user's records ordered by date, then by
	// insertion.
	Load(ctx context.Context, userID int) ([]nutrition.Record, error)
	// Save persists a new record and returns its assigned id.
	Save(ctx context.Context, userID int, r nutrition.Record) (string, error)
	// Delete removes a record; ErrNotFound if the user has no such record.
	Delete(ctx context.Context, userID int, id string) error
}

// ProfileStore holds one profile per user.
type ProfileStore interface {
	// Profile returns the saved profile, or nutrition.DefaultProfile when the
	// user never saved one.
	Profile(ctx context.Context, userID int) (nutrition.Profile, error)
	SaveProfile(ctx context.Context, userID int, p nutrition.Profile) error
}

// UserStore backs login and bearer-token auth.
type UserStore interface {
	UserByUsername(ctx context.Context, username string) (User, error)
	UserIDByToken(ctx context.Context, token string) (int, error)
	CreateUser(ctx context.Context, u User) (int, error)
}

// Store is a complete backend.
type Store interface {
	RecordStore
	ProfileStore
	UserStore
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Backend       string // postgres, redis or memory
	DBURL         string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open connects the backend named by cfg.Backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", "postgres":
		return NewPostgres(ctx, cfg.DBURL)
	case "redis":
		return NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case "memory":
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

// sortByDate orders records by date, keeping insertion order within a day.
func sortByDate(records []nutrition.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Time.Before(records[j].Date.Time)
	})
}
