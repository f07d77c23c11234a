package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/veiling/veiling-be/internal/auth"
	"github.com/veiling/veiling-be/internal/models"
	"github.com/veiling/veiling-be/internal/storage"
)

// memUsers is an in-memory storage.UserStore.
type memUsers struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]models.User
	// inserts counts successful Insert calls.
	inserts int
}

func newMemUsers() *memUsers {
	return &memUsers{rows: map[int64]models.User{}}
}

func (m *memUsers) FindAll(context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.rows))
	for _, u := range m.rows {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memUsers) FindByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) Insert(_ context.Context, u models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rows {
		if strings.EqualFold(existing.Email, u.Email) {
			return models.User{}, storage.ErrConstraintViolation
		}
	}
	m.nextID++
	u.ID = m.nextID
	m.rows[u.ID] = u
	m.inserts++
	return u, nil
}

func (m *memUsers) Update(_ context.Context, u models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.rows[u.ID]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	// The discriminator and registration time are fixed after insert.
	u.RegisteredAt = existing.RegisteredAt
	if existing.Role() != u.Role() {
		u.Profile = existing.Profile
	}
	m.rows[u.ID] = u
	return u, nil
}

func (m *memUsers) Delete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return false, nil
	}
	delete(m.rows, id)
	return true, nil
}

// vanishingUsers reads from memUsers but loses every row before a write, as
// when a concurrent delete lands between lookup and update.
type vanishingUsers struct {
	*memUsers
}

func (vanishingUsers) Update(context.Context, models.User) (models.User, error) {
	return models.User{}, storage.ErrNotFound
}

// memProducts is an in-memory storage.ProductStore.
type memProducts struct {
	mu     sync.Mutex
	nextID int64
	rows   []models.Product
}

func (m *memProducts) Insert(_ context.Context, p models.Product) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	m.rows = append(m.rows, p)
	return p, nil
}

func (m *memProducts) ListBySeller(_ context.Context, sellerID int64) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Product, 0)
	for _, p := range m.rows {
		if p.SellerID == sellerID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// plainHasher is a fast PasswordHasher for tests. It counts comparisons.
type plainHasher struct {
	mu       sync.Mutex
	compares int
}

func (h *plainHasher) Hash(password string) (string, error) {
	return "plain:" + password, nil
}

func (h *plainHasher) Compare(hash, password string) error {
	h.mu.Lock()
	h.compares++
	h.mu.Unlock()
	if strings.TrimPrefix(hash, "plain:") != password || !strings.HasPrefix(hash, "plain:") {
		return auth.ErrPasswordMismatch
	}
	return nil
}
