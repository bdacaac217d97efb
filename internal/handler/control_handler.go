package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/contact-harvester/internal/config"
	"github.com/octobees/contact-harvester/internal/lifecycle"
)

// Supervisor abstracts the worker lifecycle manager for testability.
type Supervisor interface {
	Start() (bool, error)
	Stop() bool
	Restart()
	Status() lifecycle.Status
}

// ControlHandler starts, stops and restarts the scrape worker.
type ControlHandler struct {
	supervisor Supervisor
	cfg        *config.Config
}

// NewControlHandler constructs a ControlHandler.
func NewControlHandler(supervisor Supervisor, cfg *config.Config) *ControlHandler {
	return &ControlHandler{supervisor: supervisor, cfg: cfg}
}

// Start handles POST /scraper/start requests.
func (h *ControlHandler) Start(c echo.Context) error {
	if err := h.cfg.ValidateForScrape(); err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}

	started, err := h.supervisor.Start()
	if err != nil {
		return Error(c, http.StatusInternalServerError, "unable to start scraper")
	}
	if !started {
		return Error(c, http.StatusConflict, "scraper is already running")
	}
	return Success(c, http.StatusOK, "scraper started", nil)
}

// Stop handles POST /scraper/stop requests.
func (h *ControlHandler) Stop(c echo.Context) error {
	if !h.supervisor.Stop() {
		return Error(c, http.StatusConflict, "scraper is not running")
	}
	return Success(c, http.StatusOK, "scraper stopped", nil)
}

// Restart handles POST /scraper/restart requests.
func (h *ControlHandler) Restart(c echo.Context) error {
	if err := h.cfg.ValidateForScrape(); err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}
	h.supervisor.Restart()
	return Success(c, http.StatusOK, "scraper restarted", nil)
}
