package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"

	"lg/vital-balance-go-api/internal/nutrition"
)

// exerciseStore runs the behaviour every backend must share. Each call
// creates a fresh user so it can run against a shared database.
func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()
	name := "user-" + uuid.New().String()
	token := uuid.New().String()

	userID, err := s.CreateUser(ctx, User{Username: name, Email: name + "@example.com", Password: "hash", AuthToken: token})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	t.Run("duplicate username", func(t *testing.T) {
		_, err := s.CreateUser(ctx, User{Username: name, AuthToken: uuid.New().String()})
		if !errors.Is(err, ErrUsernameTaken) {
			t.Errorf("expected ErrUsernameTaken, got %v", err)
		}
	})

	t.Run("user lookups", func(t *testing.T) {
		u, err := s.UserByUsername(ctx, name)
		if err != nil {
			t.Fatalf("UserByUsername: %v", err)
		}
		if u.ID != userID || u.Password != "hash" || u.AuthToken != token {
			t.Errorf("user = %+v", u)
		}
		id, err := s.UserIDByToken(ctx, token)
		if err != nil || id != userID {
			t.Errorf("UserIDByToken = %d, %v; want %d", id, err, userID)
		}
		if _, err := s.UserByUsername(ctx, "nobody-"+uuid.New().String()); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for unknown user, got %v", err)
		}
		if _, err := s.UserIDByToken(ctx, "bogus"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for unknown token, got %v", err)
		}
	})

	t.Run("profile defaults and round-trip", func(t *testing.T) {
		p, err := s.Profile(ctx, userID)
		if err != nil {
			t.Fatalf("Profile: %v", err)
		}
		if p != nutrition.DefaultProfile() {
			t.Errorf("unsaved profile = %+v, want default", p)
		}
		want := nutrition.Profile{Gender: nutrition.Female, Age: 41, HeightCM: 162.5, WeightKG: 58.2, ActivityLevel: nutrition.VeryActive}
		if err := s.SaveProfile(ctx, userID, want); err != nil {
			t.Fatalf("SaveProfile: %v", err)
		}
		got, err := s.Profile(ctx, userID)
		if err != nil || got != want {
			t.Errorf("Profile after save = %+v, %v; want %+v", got, err, want)
		}
	})

	t.Run("records round-trip", func(t *testing.T) {
		later := nutrition.Record{Date: nutrition.NewDate(2026, time.October, 15), Ingredient: "Salmon", Weight: 180, Calories: 367, Protein: 39.6, Fats: 22.3, Carbs: 0}
		earlier := nutrition.Record{Date: nutrition.NewDate(2026, time.October, 14), Ingredient: "Oats", Calories: 150}
		sameDay := nutrition.Record{Date: nutrition.NewDate(2026, time.October, 15), Ingredient: "Rice", Calories: 200}

		var ids []string
		for _, r := range []nutrition.Record{later, earlier, sameDay} {
			id, err := s.Save(ctx, userID, r)
			if err != nil {
				t.Fatalf("Save: %v", err)
			}
			if id == "" {
				t.Fatal("Save returned empty id")
			}
			ids = append(ids, id)
		}

		got, err := s.Load(ctx, userID)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("Load returned %d records, want 3", len(got))
		}
		// date ascending, insertion order within a day
		if got[0].Ingredient != "Oats" || got[1].Ingredient != "Salmon" || got[2].Ingredient != "Rice" {
			t.Errorf("unexpected order: %s, %s, %s", got[0].Ingredient, got[1].Ingredient, got[2].Ingredient)
		}
		want := later
		want.ID = ids[0]
		if got[1] != want {
			t.Errorf("round-trip = %+v\nwant        %+v", got[1], want)
		}

		if err := s.Delete(ctx, userID, ids[1]); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if err := s.Delete(ctx, userID, ids[1]); !errors.Is(err, ErrNotFound) {
			t.Errorf("second Delete = %v, want ErrNotFound", err)
		}
		got, _ = s.Load(ctx, userID)
		if len(got) != 2 {
			t.Errorf("after delete got %d records, want 2", len(got))
		}
	})

	t.Run("records are per user", func(t *testing.T) {
		other := "user-" + uuid.New().String()
		otherID, err := s.CreateUser(ctx, User{Username: other, AuthToken: uuid.New().String()})
		if err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
		got, err := s.Load(ctx, otherID)
		if err != nil || len(got) != 0 {
			t.Errorf("other user sees %d records, %v", len(got), err)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

// TestPostgresStore migrates the database named by TEST_DB_URL and runs the
// shared contract against it. Migrating twice must be a no-op.
func TestPostgresStore(t *testing.T) {
	url := os.Getenv("TEST_DB_URL")
	if url == "" {
		t.Skip("TEST_DB_URL not set")
	}
	s, err := NewPostgres(context.Background(), url)
	if err != nil {
		t.Fatalf("NewPostgres: %v", err)
	}
	defer s.Close()

	migrations, err := LoadMigrations(filepath.Join("..", "..", "db"))
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}
	if _, err := s.Migrate(context.Background(), migrations); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	again, err := s.Migrate(context.Background(), migrations)
	if err != nil || len(again) != 0 {
		t.Fatalf("second Migrate applied %v, %v", again, err)
	}

	exerciseStore(t, s)
}

// TestRedisStore runs against the server at TEST_REDIS_ADDR, using
// TEST_REDIS_DB (default 15) so it stays clear of real data.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	db := 15
	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		db, _ = strconv.Atoi(v)
	}
	s, err := NewRedis(context.Background(), addr, "", db)
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)

	t.Run("delete keeps id list and hash in step", func(t *testing.T) {
		ctx := context.Background()
		userID, err := s.CreateUser(ctx, User{Username: "user-" + uuid.New().String(), AuthToken: uuid.New().String()})
		if err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
		keep, _ := s.Save(ctx, userID, nutrition.Record{Date: nutrition.NewDate(2026, time.October, 15), Ingredient: "Tea", Calories: 2})
		drop, _ := s.Save(ctx, userID, nutrition.Record{Date: nutrition.NewDate(2026, time.October, 15), Ingredient: "Cake", Calories: 350})

		if err := s.Delete(ctx, userID, drop); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		ids, err := s.client.LRange(ctx, recordIDsKey(userID), 0, -1).Result()
		if err != nil {
			t.Fatalf("LRange: %v", err)
		}
		n, err := s.client.HLen(ctx, recordsKey(userID)).Result()
		if err != nil {
			t.Fatalf("HLen: %v", err)
		}
		if len(ids) != 1 || ids[0] != keep || n != 1 {
			t.Errorf("ids = %v, hash len = %d; want [%s] and 1", ids, n, keep)
		}
	})
}

func TestOpen_UnknownBackend(t *testing.T) {
	if _, err := Open(context.Background(), Config{Backend: "cassandra"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestOpen_Memory(t *testing.T) {
	s, err := Open(context.Background(), Config{Backend: "memory"})
	if err != nil {
		t.Fatalf("Open(memory): %v", err)
	}
	if _, ok := s.(*Memory); !ok {
		t.Errorf("Open(memory) returned %T", s)
	}
}
