package memory

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/Skotchmaster/bookshop/internal/models"
	"github.com/Skotchmaster/bookshop/internal/repo"
)

type Reviews struct {
	mu     sync.RWMutex
	seq    atomic.Int64
	byID   map[int64]models.Review
	byBook map[int64][]int64
}

func NewReviews() *Reviews {
	return &Reviews{
		byID:   make(map[int64]models.Review),
		byBook: make(map[int64][]int64),
	}
}

func (s *Reviews) Create(_ context.Context, r *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = s.seq.Add(1)
	s.byID[r.ID] = *r
	s.byBook[r.BookID] = append(s.byBook[r.BookID], r.ID)
	return nil
}

func (s *Reviews) Get(_ context.Context, id int64) (*models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &r, nil
}

func (s *Reviews) ListByBook(_ context.Context, bookID int64) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byBook[bookID]
	out := make([]models.Review, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.byID[id])
	}
	return out, nil
}

func (s *Reviews) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byID[id]
	if !ok {
		return repo.ErrNotFound
	}
	delete(s.byID, id)
	s.byBook[r.BookID] = slices.DeleteFunc(s.byBook[r.BookID], func(v int64) bool { return v == id })
	return nil
}
