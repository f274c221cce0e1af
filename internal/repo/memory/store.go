// Package memory keeps every collection in process memory, each behind its
// own lock. Nothing survives a restart.
package memory

import "github.com/Skotchmaster/bookshop/internal/repo"

func NewStore() repo.Store {
	return repo.Store{
		Users:   NewUsers(),
		Books:   NewBooks(),
		Reviews: NewReviews(),
		Carts:   NewCarts(),
	}
}
