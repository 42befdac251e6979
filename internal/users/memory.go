package users

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskhub/taskhub/backend/go-services/internal/models"
)

// MemoryRepository is an in-memory Repository used for unit tests and for
// running the service without MongoDB. The mutex gives CreateIfAbsent the same
// atomicity the Mongo unique index provides.
type MemoryRepository struct {
	mu    sync.RWMutex
	bySub map[string]*models.User
	byID  map[string]*models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		bySub: make(map[string]*models.User),
		byID:  make(map[string]*models.User),
	}
}

func (m *MemoryRepository) GetBySubject(ctx context.Context, subjectID string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.bySub[subjectID]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *MemoryRepository) CreateIfAbsent(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.bySub[u.SubjectID]; ok {
		cp := *existing
		return &cp, nil
	}
	now := time.Now().UTC()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	cp := *u
	m.bySub[cp.SubjectID] = &cp
	m.byID[cp.ID] = &cp
	ret := cp
	return &ret, nil
}

func (m *MemoryRepository) UpdateRole(ctx context.Context, id, role string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	u.Role = role
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	return &cp, nil
}

// Len returns the number of stored records.
func (m *MemoryRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bySub)
}
