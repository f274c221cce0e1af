package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookshop/internal/logging"
	"github.com/Skotchmaster/bookshop/internal/service"
	"github.com/Skotchmaster/bookshop/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "register_error", err)
	}
	if err := req.Validate(); err != nil {
		return badRequest(l, "register_error", err)
	}

	if _, err := h.Svc.Register(ctx, req); err != nil {
		return fail(l, "register_error", err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "User registered successfully"})
}

// Login takes the credentials as a form (OAuth2 password flow) or as JSON.
func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "login_error", err)
	}
	if err := req.Validate(); err != nil {
		return badRequest(l, "login_error", err)
	}

	pair, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(l, "login_error", err)
	}

	l.Info("user logged in")
	return c.JSON(http.StatusOK, transport.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "refresh_error", err)
	}
	if err := req.Validate(); err != nil {
		return badRequest(l, "refresh_error", err)
	}

	res, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return fail(l, "refresh_error", err)
	}
	return c.JSON(http.StatusOK, transport.TokenResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	})
}
