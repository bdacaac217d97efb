package handler

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/octobees/contact-harvester/internal/config"
	"github.com/octobees/contact-harvester/internal/logs"
	"github.com/octobees/contact-harvester/internal/persist"
)

const defaultLogLines = 100

// DataHandler serves the persisted scrape results and the run log.
type DataHandler struct {
	cfg        *config.Config
	supervisor Supervisor
}

// NewDataHandler constructs a DataHandler.
func NewDataHandler(cfg *config.Config, supervisor Supervisor) *DataHandler {
	return &DataHandler{cfg: cfg, supervisor: supervisor}
}

// Status handles GET /api/status requests.
func (h *DataHandler) Status(c echo.Context) error {
	records, err := persist.Load(h.cfg.OutputPath())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "unable to read results")
	}
	return Success(c, http.StatusOK, "", map[string]any{
		"running": h.supervisor.Status().Running,
		"count":   len(records),
	})
}

// Data handles GET /api/data requests, returning records in persisted order.
func (h *DataHandler) Data(c echo.Context) error {
	records, err := persist.Load(h.cfg.OutputPath())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "unable to read results")
	}
	return Success(c, http.StatusOK, "", map[string]any{
		"data":  records,
		"count": len(records),
	})
}

// Logs handles GET /api/logs requests.
func (h *DataHandler) Logs(c echo.Context) error {
	n := defaultLogLines
	if raw := c.QueryParam("lines"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return Error(c, http.StatusBadRequest, "invalid lines parameter")
		}
		n = parsed
	}

	lines, err := logs.Tail(h.cfg.LogPath(), n)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "unable to read logs")
	}
	return Success(c, http.StatusOK, "", map[string]any{"logs": lines})
}

// Clear handles POST /clear requests, deleting the persisted output file.
func (h *DataHandler) Clear(c echo.Context) error {
	err := os.Remove(h.cfg.OutputPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Error(c, http.StatusInternalServerError, "unable to clear data")
	}
	return Success(c, http.StatusOK, "data cleared", nil)
}

// Download handles GET /download/csv requests, streaming the raw output file.
func (h *DataHandler) Download(c echo.Context) error {
	path := h.cfg.OutputPath()
	if _, err := os.Stat(path); err != nil {
		return Error(c, http.StatusNotFound, "no data to download")
	}
	return c.Attachment(path, h.cfg.OutputFilename)
}
