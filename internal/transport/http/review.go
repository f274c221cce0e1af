package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookshop/internal/logging"
	"github.com/Skotchmaster/bookshop/internal/middleware/auth"
	"github.com/Skotchmaster/bookshop/internal/service"
	"github.com/Skotchmaster/bookshop/internal/transport"
)

type ReviewHTTP struct {
	Svc *service.ReviewService
}

func (h *ReviewHTTP) GetReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.reviews")

	bookID, err := pathID(c, "book_id")
	if err != nil {
		return err
	}
	reviews, err := h.Svc.ListByBook(ctx, bookID)
	if err != nil {
		return fail(l, "get_reviews_error", err)
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHTTP) SubmitReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "submit.review")

	userID, ok := auth.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	bookID, err := pathID(c, "book_id")
	if err != nil {
		return err
	}

	var req transport.SubmitReviewRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "submit_review_error", err)
	}
	if err := req.Validate(); err != nil {
		return badRequest(l, "submit_review_error", err)
	}

	review, err := h.Svc.Submit(ctx, userID, bookID, req)
	if err != nil {
		return fail(l, "submit_review_error", err)
	}

	l.Info("review submitted", "review_id", review.ID, "user_id", userID)
	return c.JSON(http.StatusOK, review)
}

func (h *ReviewHTTP) RemoveReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "remove.review")

	userID, ok := auth.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	reviewID, err := pathID(c, "review_id")
	if err != nil {
		return err
	}

	review, err := h.Svc.Remove(ctx, userID, reviewID)
	if err != nil {
		return fail(l, "remove_review_error", err)
	}

	l.Info("review removed", "review_id", reviewID, "user_id", userID)
	return c.JSON(http.StatusOK, review)
}
