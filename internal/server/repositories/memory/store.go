// Package memory keeps users and vessels in process memory. It backs the
// "memory" database DSN used for local development and API tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/shipagency/internal/common"
	"github.com/dmitrijs2005/shipagency/internal/models"
	"github.com/google/uuid"
)

// Store is safe for concurrent use. Records are copied in and out.
type Store struct {
	mu      sync.RWMutex
	users   map[string]models.User
	byEmail map[string]string
	vessels map[string]*models.Vessel
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:   make(map[string]models.User),
		byEmail: make(map[string]string),
		vessels: make(map[string]*models.Vessel),
		now:     time.Now,
	}
}

// UserRepository and VesselRepository are views on one Store.
type UserRepository struct{ s *Store }
type VesselRepository struct{ s *Store }

func (s *Store) Users() *UserRepository     { return &UserRepository{s: s} }
func (s *Store) Vessels() *VesselRepository { return &VesselRepository{s: s} }

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(user.Email))
	if _, ok := r.s.byEmail[email]; ok {
		return nil, common.ErrConflict
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if _, ok := r.s.users[user.ID]; ok {
		return nil, common.ErrConflict
	}
	user.Email = email
	user.CreatedAt = r.s.now().UTC()

	r.s.users[user.ID] = *user
	r.s.byEmail[email] = user.ID
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := r.s.users[id]
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *UserRepository) DeleteAllExceptRole(ctx context.Context, keep models.Role) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, u := range r.s.users {
		if u.Role != keep {
			delete(r.s.users, id)
			delete(r.s.byEmail, u.Email)
			n++
		}
	}
	return n, nil
}

func (r *UserRepository) ExistsWithRole(ctx context.Context, role models.Role) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Role == role {
			return true, nil
		}
	}
	return false, nil
}

func (r *VesselRepository) List(ctx context.Context) ([]*models.Vessel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Vessel, 0, len(r.s.vessels))
	for _, v := range r.s.vessels {
		out = append(out, v.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *VesselRepository) Get(ctx context.Context, id string) (*models.Vessel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.vessels[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return v.Clone(), nil
}

// GetForUpdate is Get; Manager.WithTx already serialises transactions.
func (r *VesselRepository) GetForUpdate(ctx context.Context, id string) (*models.Vessel, error) {
	return r.Get(ctx, id)
}

func (r *VesselRepository) Create(ctx context.Context, v *models.Vessel) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.vessels[v.ID]; ok {
		return common.ErrConflict
	}
	r.s.vessels[v.ID] = v.Clone()
	return nil
}

func (r *VesselRepository) Update(ctx context.Context, v *models.Vessel) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	old, ok := r.s.vessels[v.ID]
	if !ok {
		return common.ErrorNotFound
	}
	c := v.Clone()
	c.CreatedBy = old.CreatedBy
	c.CreatedAt = old.CreatedAt
	r.s.vessels[v.ID] = c
	return nil
}

func (r *VesselRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.vessels[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.vessels, id)
	return nil
}
