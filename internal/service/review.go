package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/bookshop/internal/events"
	"github.com/Skotchmaster/bookshop/internal/logging"
	"github.com/Skotchmaster/bookshop/internal/models"
	"github.com/Skotchmaster/bookshop/internal/repo"
	"github.com/Skotchmaster/bookshop/internal/transport"
)

type ReviewService struct {
	Books   repo.Books
	Reviews repo.Reviews
	Events  events.Publisher
}

func (s *ReviewService) ListByBook(ctx context.Context, bookID int64) ([]models.Review, error) {
	reviews, err := s.Reviews.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}

// Submit stores a review owned by userID. The owner always comes from the
// caller's token, never from the body.
func (s *ReviewService) Submit(ctx context.Context, userID, bookID int64, req transport.SubmitReviewRequest) (*models.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrValidation)
	}
	if _, err := s.Books.Get(ctx, bookID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("book not found: %w", ErrNotFound)
		}
		return nil, err
	}

	review := &models.Review{Rating: req.Rating, Text: req.Text, BookID: bookID, UserID: userID}
	if err := s.Reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.TopicReviews, events.Event{
		Type: events.ReviewSubmitted, UserID: userID, BookID: bookID, ReviewID: review.ID,
	})
	return review, nil
}

// Remove deletes a review. Only its author may do so.
func (s *ReviewService) Remove(ctx context.Context, userID, reviewID int64) (*models.Review, error) {
	l := logging.FromContext(ctx).With("svc", "review.remove")

	review, err := s.Reviews.Get(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("review not found: %w", ErrNotFound)
		}
		return nil, err
	}
	if review.UserID != userID {
		l.Warn("remove_review_denied", "status", 403, "review_id", reviewID, "user_id", userID)
		return nil, fmt.Errorf("you are not authorized to delete this review: %w", ErrForbidden)
	}

	if err := s.Reviews.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("review not found: %w", ErrNotFound)
		}
		return nil, err
	}

	publish(ctx, s.Events, events.TopicReviews, events.Event{
		Type: events.ReviewRemoved, UserID: userID, BookID: review.BookID, ReviewID: reviewID,
	})
	return review, nil
}
