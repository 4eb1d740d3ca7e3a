package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/quickcart/internal/service"
	jwthelp "github.com/Skotchmaster/quickcart/pkg/jwt"
	"github.com/Skotchmaster/quickcart/pkg/logging"
	loggingmw "github.com/Skotchmaster/quickcart/pkg/middleware/logging"
)

const (
	CookieName = "session"

	ctxUserID    = loggingmw.UserIDKey
	ctxSessionID = "session_id"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (service.Identity, error)
}

type SessionMiddleware struct {
	Auth         Authenticator
	CookieSecure bool
}

// RequireLogin lets the request through only with a live session taken from the
// session cookie or an Authorization: Bearer header. The cookie is tried first;
// when it is rejected it is cleared and the bearer token, if any, is tried.
func (m *SessionMiddleware) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "require_login")

		cookieToken, bearerToken := tokensFromRequest(c)
		if cookieToken == "" && bearerToken == "" {
			l.Info("auth_missing", "status", http.StatusUnauthorized)
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}

		var (
			id  service.Identity
			err error
		)
		if cookieToken != "" {
			id, err = m.Auth.Authenticate(ctx, cookieToken)
			if err != nil {
				c.SetCookie(jwthelp.DeleteCookie(CookieName, "/", m.CookieSecure))
			}
		}
		// A stale cookie must not hide a valid bearer token.
		if bearerToken != "" && (cookieToken == "" || errors.Is(err, service.ErrUnauthorized)) {
			id, err = m.Auth.Authenticate(ctx, bearerToken)
		}
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				l.Info("auth_rejected", "status", http.StatusUnauthorized, "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}
			l.Error("auth_failed", "status", http.StatusInternalServerError, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}

		c.Set(ctxUserID, id.UserID)
		c.Set(ctxSessionID, id.SessionID)
		c.SetRequest(c.Request().WithContext(logging.IntoContext(ctx, logging.FromContext(ctx).With("user_id", id.UserID))))
		return next(c)
	}
}

// tokensFromRequest returns the session cookie value and the Authorization
// bearer token; either may be empty.
func tokensFromRequest(c echo.Context) (cookie, bearer string) {
	if ck, err := c.Cookie(CookieName); err == nil {
		cookie = ck.Value
	}
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		bearer = strings.TrimSpace(token)
	}
	return cookie, bearer
}

// IdentityFrom returns the identity RequireLogin stored on the context.
func IdentityFrom(c echo.Context) (service.Identity, bool) {
	uid, ok := c.Get(ctxUserID).(uint)
	if !ok || uid == 0 {
		return service.Identity{}, false
	}
	sid, _ := c.Get(ctxSessionID).(string)
	return service.Identity{UserID: uid, SessionID: sid}, true
}
