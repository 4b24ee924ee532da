package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"lg/vital-balance-go-api/internal/nutrition"
)

// Memory is an in-process Store. Data is lost on restart; it backs tests and
// STORE=memory local runs.
type Memory struct {
	mu         sync.RWMutex
	records    map[int][]nutrition.Record
	profiles   map[int]nutrition.Profile
	users      map[string]User
	tokens     map[string]int
	nextUserID int
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		records:  make(map[int][]nutrition.Record),
		profiles: make(map[int]nutrition.Profile),
		users:    make(map[string]User),
		tokens:   make(map[string]int),
	}
}

func (m *Memory) Load(ctx context.Context, userID int) ([]nutrition.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]nutrition.Record, len(m.records[userID]))
	copy(out, m.records[userID])
	sortByDate(out)
	return out, nil
}

func (m *Memory) Save(ctx context.Context, userID int, r nutrition.Record) (string, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[userID] = append(m.records[userID], r)
	return r.ID, nil
}

func (m *Memory) Delete(ctx context.Context, userID int, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	recs := m.records[userID]
	for i, r := range recs {
		if r.ID == id {
			m.records[userID] = append(recs[:i:i], recs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) Profile(ctx context.Context, userID int) (nutrition.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.profiles[userID]; ok {
		return p, nil
	}
	return nutrition.DefaultProfile(), nil
}

func (m *Memory) SaveProfile(ctx context.Context, userID int, p nutrition.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[userID] = p
	return nil
}

func (m *Memory) UserByUsername(ctx context.Context, username string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[username]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (m *Memory) UserIDByToken(ctx context.Context, token string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.tokens[token]
	if !ok {
		return 0, ErrNotFound
	}
	return id, nil
}

func (m *Memory) CreateUser(ctx context.Context, u User) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[u.Username]; exists {
		return 0, ErrUsernameTaken
	}
	m.nextUserID++
	u.ID = m.nextUserID
	m.users[u.Username] = u
	m.tokens[u.AuthToken] = u.ID
	return u.ID, nil
}

func (m *Memory) Close() error { return nil }
