package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"lg/vital-balance-go-api/internal/nutrition"
)

// Redis keeps records as JSON values in a per-user hash, with a list holding
// insertion order. This is the key-value persistence strategy: every record
// round-trips through its JSON shape.
type Redis struct {
	client *redis.Client
}

const (
	usersKey   = "vb:users"    // username -> redisUser JSON
	tokensKey  = "vb:tokens"   // auth token -> user id
	userSeqKey = "vb:user-seq" // last assigned user id
)

func recordsKey(userID int) string   { return fmt.Sprintf("vb:user:%d:records", userID) }
func recordIDsKey(userID int) string { return fmt.Sprintf("vb:user:%d:record-ids", userID) }
func profileKey(userID int) string   { return fmt.Sprintf("vb:user:%d:profile", userID) }

// redisUser is the stored form of User; unlike User it serializes the
// password hash and token.
type redisUser struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	AuthToken string `json:"auth_token"`
	Password  string `json:"password"`
}

// NewRedis connects and pings the server.
func NewRedis(ctx context.Context, addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

/* ─── Records ────────────────────────────────────────────────────────── */

func (r *Redis) Load(ctx context.Context, userID int) ([]nutrition.Record, error) {
	ids, err := r.client.LRange(ctx, recordIDsKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load record ids: %w", err)
	}
	if len(ids) == 0 {
		return []nutrition.Record{}, nil
	}
	values, err := r.client.HMGet(ctx, recordsKey(userID), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	records := make([]nutrition.Record, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			// id list and hash drifted apart; the hash is authoritative
			continue
		}
		var rec nutrition.Record
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			return nil, fmt.Errorf("decode record %s: %w", ids[i], err)
		}
		records = append(records, rec)
	}
	sortByDate(records)
	return records, nil
}

func (r *Redis) Save(ctx context.Context, userID int, rec nutrition.Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, recordsKey(userID), rec.ID, b)
		pipe.RPush(ctx, recordIDsKey(userID), rec.ID)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("save record: %w", err)
	}
	return rec.ID, nil
}

func (r *Redis) Delete(ctx context.Context, userID int, id string) error {
	var removed *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.HDel(ctx, recordsKey(userID), id)
		pipe.LRem(ctx, recordIDsKey(userID), 0, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if removed.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

/* ─── Profiles ───────────────────────────────────────────────────────── */

func (r *Redis) Profile(ctx context.Context, userID int) (nutrition.Profile, error) {
	s, err := r.client.Get(ctx, profileKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nutrition.DefaultProfile(), nil
	}
	if err != nil {
		return nutrition.Profile{}, fmt.Errorf("load profile: %w", err)
	}
	var p nutrition.Profile
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return nutrition.Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return p, nil
}

func (r *Redis) SaveProfile(ctx context.Context, userID int, p nutrition.Profile) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := r.client.Set(ctx, profileKey(userID), b, 0).Err(); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

/* ─── Users ──────────────────────────────────────────────────────────── */

func (r *Redis) UserByUsername(ctx context.Context, username string) (User, error) {
	s, err := r.client.HGet(ctx, usersKey, username).Result()
	if errors.Is(err, redis.Nil) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("load user: %w", err)
	}
	var u redisUser
	if err := json.Unmarshal([]byte(s), &u); err != nil {
		return User{}, fmt.Errorf("decode user: %w", err)
	}
	return User(u), nil
}

func (r *Redis) UserIDByToken(ctx context.Context, token string) (int, error) {
	s, err := r.client.HGet(ctx, tokensKey, token).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("load token: %w", err)
	}
	return strconv.Atoi(s)
}

func (r *Redis) CreateUser(ctx context.Context, u User) (int, error) {
	id, err := r.client.Incr(ctx, userSeqKey).Result()
	if err != nil {
		return 0, fmt.Errorf("next user id: %w", err)
	}
	u.ID = int(id)
	b, err := json.Marshal(redisUser(u))
	if err != nil {
		return 0, fmt.Errorf("encode user: %w", err)
	}
	created, err := r.client.HSetNX(ctx, usersKey, u.Username, b).Result()
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	if !created {
		return 0, ErrUsernameTaken
	}
	if err := r.client.HSet(ctx, tokensKey, u.AuthToken, u.ID).Err(); err != nil {
		return 0, fmt.Errorf("store token: %w", err)
	}
	return u.ID, nil
}
