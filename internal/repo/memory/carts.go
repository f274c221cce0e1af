package memory

import (
	"context"
	"sync"

	"github.com/Skotchmaster/bookshop/internal/models"
	"github.com/Skotchmaster/bookshop/internal/repo"
)

type Carts struct {
	mu    sync.RWMutex
	carts map[int64][]models.CartItem
}

func NewCarts() *Carts {
	return &Carts{carts: make(map[int64][]models.CartItem)}
}

func (s *Carts) List(_ context.Context, userID int64) ([]models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items, ok := s.carts[userID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out, nil
}

func (s *Carts) Add(_ context.Context, userID, bookID int64) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	if i := indexOf(items, bookID); i >= 0 {
		items[i].Quantity++
		item := items[i]
		return &item, nil
	}

	item := models.CartItem{UserID: userID, BookID: bookID, Quantity: 1}
	s.carts[userID] = append(items, item)
	return &item, nil
}

func (s *Carts) Increase(_ context.Context, userID, bookID int64) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, i, err := s.find(userID, bookID)
	if err != nil {
		return nil, err
	}
	items[i].Quantity++
	item := items[i]
	return &item, nil
}

func (s *Carts) Decrease(_ context.Context, userID, bookID int64) (*models.CartItem, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, i, err := s.find(userID, bookID)
	if err != nil {
		return nil, false, err
	}
	if items[i].Quantity > 1 {
		items[i].Quantity--
		item := items[i]
		return &item, false, nil
	}

	item := items[i]
	s.carts[userID] = append(items[:i], items[i+1:]...)
	return &item, true, nil
}

func (s *Carts) Remove(_ context.Context, userID, bookID int64) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, i, err := s.find(userID, bookID)
	if err != nil {
		return nil, err
	}
	item := items[i]
	s.carts[userID] = append(items[:i], items[i+1:]...)
	return &item, nil
}

// find must be called with s.mu held.
func (s *Carts) find(userID, bookID int64) ([]models.CartItem, int, error) {
	items, ok := s.carts[userID]
	if !ok {
		return nil, -1, repo.ErrNotFound
	}
	i := indexOf(items, bookID)
	if i < 0 {
		return nil, -1, repo.ErrNotFound
	}
	return items, i, nil
}

func indexOf(items []models.CartItem, bookID int64) int {
	for i := range items {
		if items[i].BookID == bookID {
			return i
		}
	}
	return -1
}
