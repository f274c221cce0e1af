package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookshop/internal/middleware/auth"
)

type Deps struct {
	Auth    *AuthHTTP
	Catalog *CatalogHTTP
	Review  *ReviewHTTP
	Cart    *CartHTTP
	Guard   *auth.Guard
	// Ready backs /health/ready; nil means always ready.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
			}
		}
		return c.NoContent(http.StatusOK)
	})

	e.POST("/token", d.Auth.Login)
	e.POST("/refresh", d.Auth.Refresh)
	e.POST("/register", d.Auth.Register)

	e.GET("/getBooks", d.Catalog.GetBooks)
	e.GET("/getBook/:book_id", d.Catalog.GetBook)
	e.GET("/searchBooks", d.Catalog.SearchBooks)
	e.GET("/getUsers", d.Catalog.GetUsers)
	e.GET("/getUser/:user_id", d.Catalog.GetUser)
	e.GET("/getReviews/:book_id", d.Review.GetReviews)

	e.POST("/submitReview/:book_id", d.Review.SubmitReview, d.Guard.RequireAuth)
	e.POST("/removeReview/:review_id", d.Review.RemoveReview, d.Guard.RequireAuth)

	cart := e.Group("/cart", d.Guard.RequireAuth)

	cart.GET("/:user_id", d.Cart.GetCart)
	cart.POST("/:user_id/add", d.Cart.AddToCart)
	cart.DELETE("/:book_id/remove", d.Cart.RemoveFromCart)
	cart.PUT("/:book_id/increase", d.Cart.IncreaseQuantity)
	cart.PUT("/:book_id/decrease", d.Cart.DecreaseQuantity)
}
