package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/contact-harvester/internal/auth"
	"github.com/octobees/contact-harvester/internal/config"
	"github.com/octobees/contact-harvester/internal/handler"
	middlewarepkg "github.com/octobees/contact-harvester/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth    *handler.AuthHandler
	Control *handler.ControlHandler
	Data    *handler.DataHandler
}

// Register wires all HTTP routes for the dashboard API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.POST("/auth/login", handlers.Auth.Login)

	e.GET("/api/status", handlers.Data.Status)
	e.GET("/api/data", handlers.Data.Data)
	e.GET("/api/logs", handlers.Data.Logs)
	e.GET("/download/csv", handlers.Data.Download)

	secured := e.Group("", middlewarepkg.JWT(jwtManager), middlewarepkg.RequireRole("admin"))
	control := secured.Group("/scraper", middlewarepkg.ControlRateLimiter(cfg.RateLimitControl))
	control.POST("/start", handlers.Control.Start)
	control.POST("/stop", handlers.Control.Stop)
	control.POST("/restart", handlers.Control.Restart)
	secured.POST("/clear", handlers.Data.Clear)
}
