package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/bookshop/internal/events"
	"github.com/Skotchmaster/bookshop/internal/models"
	"github.com/Skotchmaster/bookshop/internal/repo"
)

// CartService applies cart changes on behalf of the authenticated user.
type CartService struct {
	Users  repo.Users
	Books  repo.Books
	Carts  repo.Carts
	Events events.Publisher
}

func (s *CartService) GetCart(ctx context.Context, userID, ownerID int64) ([]models.CartItem, error) {
	if err := s.authorize(ctx, userID, ownerID); err != nil {
		return nil, err
	}
	items, err := s.Carts.List(ctx, userID)
	if err != nil {
		return nil, cartErr(err, "cart not found")
	}
	return items, nil
}

func (s *CartService) AddToCart(ctx context.Context, userID, ownerID, bookID int64) (*models.CartItem, error) {
	if err := s.authorize(ctx, userID, ownerID); err != nil {
		return nil, err
	}
	if _, err := s.Books.Get(ctx, bookID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("book not found: %w", ErrNotFound)
		}
		return nil, err
	}

	item, err := s.Carts.Add(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.Events, events.TopicCarts, events.Event{
		Type: events.CartItemAdded, UserID: userID, BookID: bookID, Quantity: item.Quantity,
	})
	return item, nil
}

func (s *CartService) RemoveFromCart(ctx context.Context, userID, bookID int64) (*models.CartItem, error) {
	if err := s.ready(ctx, userID); err != nil {
		return nil, err
	}
	item, err := s.Carts.Remove(ctx, userID, bookID)
	if err != nil {
		return nil, cartErr(err, "book not found in cart")
	}
	publish(ctx, s.Events, events.TopicCarts, events.Event{
		Type: events.CartItemRemoved, UserID: userID, BookID: bookID,
	})
	return item, nil
}

func (s *CartService) IncreaseQuantity(ctx context.Context, userID, bookID int64) (*models.CartItem, error) {
	if err := s.ready(ctx, userID); err != nil {
		return nil, err
	}
	item, err := s.Carts.Increase(ctx, userID, bookID)
	if err != nil {
		return nil, cartErr(err, "book not found in cart")
	}
	publish(ctx, s.Events, events.TopicCarts, events.Event{
		Type: events.CartItemChanged, UserID: userID, BookID: bookID, Quantity: item.Quantity,
	})
	return item, nil
}

// DecreaseQuantity takes one copy off; the line goes away when it was the last.
func (s *CartService) DecreaseQuantity(ctx context.Context, userID, bookID int64) (*models.CartItem, error) {
	if err := s.ready(ctx, userID); err != nil {
		return nil, err
	}
	item, removed, err := s.Carts.Decrease(ctx, userID, bookID)
	if err != nil {
		return nil, cartErr(err, "book not found in cart")
	}

	ev := events.Event{Type: events.CartItemChanged, UserID: userID, BookID: bookID, Quantity: item.Quantity}
	if removed {
		ev = events.Event{Type: events.CartItemRemoved, UserID: userID, BookID: bookID}
	}
	publish(ctx, s.Events, events.TopicCarts, ev)
	return item, nil
}

// authorize rejects access to someone else's cart, then checks the caller exists.
func (s *CartService) authorize(ctx context.Context, userID, ownerID int64) error {
	if ownerID != userID {
		return fmt.Errorf("cart belongs to another user: %w", ErrForbidden)
	}
	return s.knownUser(ctx, userID)
}

// ready checks the caller exists and already has a cart.
func (s *CartService) ready(ctx context.Context, userID int64) error {
	if err := s.knownUser(ctx, userID); err != nil {
		return err
	}
	if _, err := s.Carts.List(ctx, userID); err != nil {
		return cartErr(err, "cart not found")
	}
	return nil
}

func (s *CartService) knownUser(ctx context.Context, userID int64) error {
	if _, err := s.Users.Get(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("unknown user: %w", ErrValidation)
		}
		return err
	}
	return nil
}

func cartErr(err error, msg string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("%s: %w", msg, ErrNotFound)
	}
	return err
}
