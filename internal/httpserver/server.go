package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/quickcart/pkg/metrics"
	loggingmw "github.com/Skotchmaster/quickcart/pkg/middleware/logging"
)

// NewEcho builds the echo instance with the shared middleware chain.
func NewEcho(logger *slog.Logger, m *metrics.ServerMetrics, corsOrigins []string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())
	e.Use(loggingmw.RequestLogger(logger))
	if m != nil {
		e.Use(m.Middleware())
	}
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     corsOrigins,
		AllowCredentials: len(corsOrigins) != 1 || corsOrigins[0] != "*",
	}))
	return e
}
