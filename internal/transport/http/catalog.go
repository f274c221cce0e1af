package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookshop/internal/logging"
	"github.com/Skotchmaster/bookshop/internal/service"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetBooks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.books")

	books, err := h.Svc.ListBooks(ctx)
	if err != nil {
		return fail(l, "get_books_error", err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *CatalogHTTP) GetBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.book")

	id, err := pathID(c, "book_id")
	if err != nil {
		return err
	}
	book, err := h.Svc.GetBook(ctx, id)
	if err != nil {
		return fail(l, "get_book_error", err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *CatalogHTTP) SearchBooks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search.books")

	books, err := h.Svc.SearchBooks(ctx, c.QueryParam("q"))
	if err != nil {
		return fail(l, "search_books_error", err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *CatalogHTTP) GetUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.users")

	users, err := h.Svc.ListUsers(ctx)
	if err != nil {
		return fail(l, "get_users_error", err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *CatalogHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.user")

	id, err := pathID(c, "user_id")
	if err != nil {
		return err
	}
	user, err := h.Svc.GetUser(ctx, id)
	if err != nil {
		return fail(l, "get_user_error", err)
	}
	return c.JSON(http.StatusOK, user)
}
