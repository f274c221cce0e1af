package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
)

const CtxUserID = "user_id"

// UserID returns the subject the guard verified for this request.
func UserID(c echo.Context) (int64, bool) {
	id, ok := c.Get(CtxUserID).(int64)
	return id, ok && id > 0
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
