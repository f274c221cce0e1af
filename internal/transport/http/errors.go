package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookshop/internal/service"
)

var statusBySentinel = []struct {
	err    error
	status int
}{
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrConflict, http.StatusBadRequest},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrInvalidRefreshToken, http.StatusForbidden},
}

// fail logs err under event and turns it into the matching HTTP error.
// The client sees the wrapped message without the sentinel suffix.
func fail(l *slog.Logger, event string, err error) error {
	for _, s := range statusBySentinel {
		if !errors.Is(err, s.err) {
			continue
		}
		l.Warn(event, "status", s.status, "error", err)
		return echo.NewHTTPError(s.status, message(err, s.err))
	}
	l.Error(event, "status", http.StatusInternalServerError, "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}

func message(err, sentinel error) string {
	switch sentinel {
	case service.ErrInvalidCredentials:
		return "incorrect email or password"
	case service.ErrInvalidRefreshToken:
		return "invalid refresh token"
	}
	msg := strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
	if msg == "" || msg == sentinel.Error() {
		return http.StatusText(statusOf(sentinel))
	}
	return msg
}

func statusOf(sentinel error) int {
	for _, s := range statusBySentinel {
		if s.err == sentinel {
			return s.status
		}
	}
	return http.StatusInternalServerError
}

func badRequest(l *slog.Logger, event string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
