// Package events publishes domain events after successful writes.
package events

import (
	"context"
	"time"
)

const (
	TopicUsers   = "user_events"
	TopicReviews = "review_events"
	TopicCarts   = "cart_events"
)

const (
	UserRegistered  = "user_registered"
	ReviewSubmitted = "review_submitted"
	ReviewRemoved   = "review_removed"
	CartItemAdded   = "cart_item_added"
	CartItemRemoved = "cart_item_removed"
	CartItemChanged = "cart_item_quantity_changed"
)

const publishTimeout = 5 * time.Second

// Event is the JSON envelope written to every topic.
type Event struct {
	Type     string    `json:"type"`
	UserID   int64     `json:"user_id"`
	BookID   int64     `json:"book_id,omitempty"`
	ReviewID int64     `json:"review_id,omitempty"`
	Quantity int       `json:"quantity,omitempty"`
	At       time.Time `json:"at"`
}

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
	Close() error
}

// Noop drops every event. Used when no brokers are configured.
type Noop struct{}

func (Noop) PublishEvent(context.Context, string, string, any) error { return nil }
func (Noop) Close() error                                            { return nil }
