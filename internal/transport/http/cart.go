package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookshop/internal/logging"
	"github.com/Skotchmaster/bookshop/internal/middleware/auth"
	"github.com/Skotchmaster/bookshop/internal/models"
	"github.com/Skotchmaster/bookshop/internal/service"
	"github.com/Skotchmaster/bookshop/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.cart")

	userID, ok := auth.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	ownerID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}

	items, err := h.Svc.GetCart(ctx, userID, ownerID)
	if err != nil {
		return fail(l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add.cart")

	userID, ok := auth.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	ownerID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "add_to_cart_error", err)
	}
	if err := req.Validate(); err != nil {
		return badRequest(l, "add_to_cart_error", err)
	}

	item, err := h.Svc.AddToCart(ctx, userID, ownerID, req.BookID)
	if err != nil {
		return fail(l, "add_to_cart_error", err)
	}

	l.Info("item added to cart", "book_id", req.BookID, "quantity", item.Quantity)
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	return h.itemOp(c, "remove.from.cart", h.Svc.RemoveFromCart)
}

func (h *CartHTTP) IncreaseQuantity(c echo.Context) error {
	return h.itemOp(c, "increase.quantity", h.Svc.IncreaseQuantity)
}

func (h *CartHTTP) DecreaseQuantity(c echo.Context) error {
	return h.itemOp(c, "decrease.quantity", h.Svc.DecreaseQuantity)
}

type itemFunc func(ctx context.Context, userID, bookID int64) (*models.CartItem, error)

// itemOp runs a change on one line of the caller's own cart, addressed by book_id.
func (h *CartHTTP) itemOp(c echo.Context, name string, op itemFunc) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", name)

	userID, ok := auth.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	bookID, err := pathID(c, "book_id")
	if err != nil {
		return err
	}

	item, err := op(ctx, userID, bookID)
	if err != nil {
		return fail(l, strings.ReplaceAll(name, ".", "_")+"_error", err)
	}
	return c.JSON(http.StatusOK, item)
}
