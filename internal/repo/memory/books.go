package memory

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/Skotchmaster/bookshop/internal/models"
	"github.com/Skotchmaster/bookshop/internal/repo"
)

type Books struct {
	mu    sync.RWMutex
	seq   atomic.Int64
	items map[int64]models.Book
}

func NewBooks() *Books {
	return &Books{items: make(map[int64]models.Book)}
}

func (s *Books) Create(_ context.Context, b *models.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b.ID = s.seq.Add(1)
	s.items[b.ID] = *b
	return nil
}

func (s *Books) Get(_ context.Context, id int64) (*models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.items[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &b, nil
}

func (s *Books) List(_ context.Context) ([]models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Book, 0, len(s.items))
	for _, b := range s.items {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
