// Package repo declares the keyed collections the services work against.
// Implementations live in repo/memory and repo/gormrepo.
package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/bookshop/internal/models"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

// Users is the credential store.
type Users interface {
	// Create assigns u.ID; ErrAlreadyExists when the email is taken.
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type Books interface {
	Create(ctx context.Context, b *models.Book) error
	Get(ctx context.Context, id int64) (*models.Book, error)
	List(ctx context.Context) ([]models.Book, error)
}

type Reviews interface {
	Create(ctx context.Context, r *models.Review) error
	Get(ctx context.Context, id int64) (*models.Review, error)
	ListByBook(ctx context.Context, bookID int64) ([]models.Review, error)
	Delete(ctx context.Context, id int64) error
}

// Carts holds one cart per user. A cart exists from the first Add on,
// even after all of its items are gone.
type Carts interface {
	List(ctx context.Context, userID int64) ([]models.CartItem, error)
	// Add inserts the book with quantity 1 or bumps an existing line by one.
	Add(ctx context.Context, userID, bookID int64) (*models.CartItem, error)
	Increase(ctx context.Context, userID, bookID int64) (*models.CartItem, error)
	// Decrease drops the line when its quantity is 1 and reports removed=true.
	Decrease(ctx context.Context, userID, bookID int64) (item *models.CartItem, removed bool, err error)
	Remove(ctx context.Context, userID, bookID int64) (*models.CartItem, error)
}

type Store struct {
	Users   Users
	Books   Books
	Reviews Reviews
	Carts   Carts
}
