// Package auth guards protected routes with a bearer access token.
package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookshop/internal/logging"
)

const unauthorizedMsg = "could not validate credentials"

type Verifier interface {
	VerifyAccess(token string) (int64, error)
}

type Guard struct {
	Tokens Verifier
}

func NewGuard(v Verifier) *Guard {
	return &Guard{Tokens: v}
}

// RequireAuth rejects the request with 401 unless it carries a valid access
// token, and stores the token subject under CtxUserID.
func (g *Guard) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context()).With("middleware", "auth")

		token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			l.Warn("auth_rejected", "status", 401, "reason", "missing bearer token")
			return unauthorized(c)
		}

		userID, err := g.Tokens.VerifyAccess(token)
		if err != nil {
			l.Warn("auth_rejected", "status", 401, "reason", "invalid token", "error", err)
			return unauthorized(c)
		}

		c.Set(CtxUserID, userID)
		return next(c)
	}
}

func unauthorized(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, unauthorizedMsg)
}
