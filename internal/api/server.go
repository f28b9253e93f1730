package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/seplanfuncionariocg/feira-central-seplan/internal/config"
)

// NewServer wires the middleware stack and routes. The server answers
// immediately; h reports loading until the background load finishes.
func NewServer(cfg config.Config, h *Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = GoJSONSerializer{}

	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))
	if cfg.Server.RateLimit > 0 {
		store := middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.Server.RateLimit))
		e.Use(middleware.RateLimiter(store))
	}

	h.RegisterRoutes(e)
	return e
}
