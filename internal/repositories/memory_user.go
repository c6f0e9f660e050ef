package repositories

import (
	"context"
	"sync"
	"time"

	"event-booking-portal/internal/models"
)

// MemoryUserRepository is an in-process credential store for local runs and
// tests. Users are lost on restart.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[int]*models.User
	byEmail map[string]int
	nextID  int
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[int]*models.User),
		byEmail: make(map[string]int),
		nextID:  1,
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, req *models.UserCreateRequest) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[req.Email]; exists {
		return nil, models.ErrDuplicateEmail
	}

	user := &models.User{
		ID:           r.nextID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: req.PasswordHash,
		CreatedAt:    time.Now().UTC(),
	}
	r.nextID++
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user.ID

	u := *user
	return &u, nil
}

func (r *MemoryUserRepository) getByID(id int) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return r.getByID(id)
}

func (r *MemoryUserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *MemoryUserRepository) UpdatePasswordHash(_ context.Context, id int, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return models.ErrUserNotFound
	}
	user.PasswordHash = hash
	return nil
}

func (r *MemoryUserRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}
