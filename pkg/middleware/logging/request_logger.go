package loggingmw

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/quickcart/pkg/logging"
)

// UserIDKey is the echo context key under which the auth middleware stores the
// authenticated user id. RequestLogger reads it once the handler chain returns.
const UserIDKey = "user_id"

// RequestLogger attaches a request-scoped logger to the request context and
// emits one http_request event per request. Handler errors are rendered here so
// the logged status is the one the client saw.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := c.Request()
			rid := r.Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = c.Response().Header().Get(echo.HeaderXRequestID)
			}

			l := base.With("method", r.Method, "route", c.Path(), "remote_ip", c.RealIP())
			if rid != "" {
				l = l.With("request_id", rid)
				c.Response().Header().Set(echo.HeaderXRequestID, rid)
			}
			c.SetRequest(r.WithContext(logging.IntoContext(r.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			attrs := []any{
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes", c.Response().Size,
			}
			if uid, ok := c.Get(UserIDKey).(uint); ok && uid != 0 {
				attrs = append(attrs, "user_id", uid)
			}

			switch {
			case status >= 500:
				l.Error("http_request", append(attrs, "error", errText(err))...)
			case status >= 400:
				l.Warn("http_request", append(attrs, "reason", errText(err))...)
			default:
				l.Info("http_request", attrs...)
			}
			return nil
		}
	}
}

// errText prefers the client-facing message of an echo.HTTPError.
func errText(err error) string {
	var he *echo.HTTPError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &he):
		return fmt.Sprint(he.Message)
	default:
		return err.Error()
	}
}
