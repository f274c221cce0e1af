package memory

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/Skotchmaster/bookshop/internal/models"
	"github.com/Skotchmaster/bookshop/internal/repo"
)

type Users struct {
	mu      sync.RWMutex
	seq     atomic.Int64
	byID    map[int64]models.User
	byEmail map[string]int64
}

func NewUsers() *Users {
	return &Users{
		byID:    make(map[int64]models.User),
		byEmail: make(map[string]int64),
	}
}

func (s *Users) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[u.Email]; ok {
		return repo.ErrAlreadyExists
	}
	u.ID = s.seq.Add(1)
	s.byID[u.ID] = *u
	s.byEmail[u.Email] = u.ID
	return nil
}

func (s *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, repo.ErrNotFound
	}
	u := s.byID[id]
	return &u, nil
}

func (s *Users) Get(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &u, nil
}

func (s *Users) List(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0, len(s.byID))
	for _, u := range s.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
