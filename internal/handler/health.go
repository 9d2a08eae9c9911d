// Package handler provides HTTP handlers for the API.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CounterInterface reports how many puzzles are live.
type CounterInterface interface {
	Count() int
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	puzzles CounterInterface
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(puzzles CounterInterface) *HealthHandler {
	return &HealthHandler{puzzles: puzzles}
}

// Check returns the health status of the server.
func (h *HealthHandler) Check(c echo.Context) error {
	resp := map[string]interface{}{
		"status": "ok",
	}
	if h.puzzles != nil {
		resp["puzzles"] = h.puzzles.Count()
	}
	return c.JSON(http.StatusOK, resp)
}
