package repo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository keeps everything in process memory. It backs the server
// when no database is configured, and the tests.
type MemoryRepository struct {
	mu     sync.Mutex
	users  map[string]memUser
	calcs  map[int]Calculation
	nextID int
	now    func() time.Time
}

type memUser struct {
	id       int
	email    string
	password string
}

func NewMemory() *MemoryRepository {
	return &MemoryRepository{
		users: make(map[string]memUser),
		calcs: make(map[int]Calculation),
		now:   time.Now,
	}
}

func (m *MemoryRepository) id() int {
	m.nextID++
	return m.nextID
}

func (m *MemoryRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[login]; ok {
		return 0, fmt.Errorf("user %q already exists", login)
	}
	u := memUser{id: m.id(), email: email, password: password}
	m.users[login] = u
	return u.id, nil
}

func (m *MemoryRepository) GetBylogin(ctx context.Context, login string) (int, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[login]
	if !ok {
		return 0, "", nil
	}
	return u.id, u.password, nil
}

func (m *MemoryRepository) SaveCalculation(ctx context.Context, c *Calculation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.id()
	c.CreatedAt = m.now()
	stored := *c
	stored.Volume = finiteOrNil(c.Volume)
	stored.SurfaceArea = finiteOrNil(c.SurfaceArea)
	m.calcs[c.ID] = stored
	return nil
}

func (m *MemoryRepository) ListCalculations(ctx context.Context, userID, limit int) ([]Calculation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Calculation{}
	for _, c := range m.calcs {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryRepository) GetCalculation(ctx context.Context, userID, id int) (Calculation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.calcs[id]
	if !ok || c.UserID != userID {
		return Calculation{}, ErrNotFound
	}
	return c, nil
}

func (m *MemoryRepository) DeleteCalculation(ctx context.Context, userID, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.calcs[id]
	if !ok || c.UserID != userID {
		return ErrNotFound
	}
	delete(m.calcs, id)
	return nil
}

func finiteOrNil(x *float64) *float64 {
	n := nullable(x)
	if !n.Valid {
		return nil
	}
	return &n.Float64
}
