package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/quickcart/internal/middleware/auth"
	"github.com/Skotchmaster/quickcart/internal/service"
	"github.com/Skotchmaster/quickcart/internal/transport"
	jwthelp "github.com/Skotchmaster/quickcart/pkg/jwt"
	"github.com/Skotchmaster/quickcart/pkg/logging"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	CookieSecure bool
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 401, "reason", "invalid credentials")
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized. Invalid credentials")
		}
		l.Error("login_failed", "status", 500, "reason", "cannot create session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	c.SetCookie(jwthelp.CreateCookie(authmw.CookieName, res.Token, "/", res.ExpiresAt, h.CookieSecure))

	l.Info("login_success", "user_id", res.UserID)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Logged in successfully"})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	id, ok := authmw.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	if err := h.Svc.Logout(ctx, id); err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			l.Warn("logout_failed", "status", 401, "reason", "session not found")
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}
		l.Error("logout_failed", "status", 500, "reason", "cannot revoke session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	c.SetCookie(jwthelp.DeleteCookie(authmw.CookieName, "/", h.CookieSecure))

	l.Info("logout_success")
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Logged out successfully"})
}
