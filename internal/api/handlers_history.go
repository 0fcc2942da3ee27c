// handlers_history.go - Upload history handlers
package api

import (
	"net/http"

	"github.com/csv-dashboard/backend/internal/history"
	"github.com/labstack/echo/v4"
)

// HistoryHandlerImpl implements the HistoryHandler interface
type HistoryHandlerImpl struct {
	store *history.Store
}

// NewHistoryHandler creates a new history handler instance
func NewHistoryHandler(store *history.Store) HistoryHandler {
	return &HistoryHandlerImpl{store: store}
}

// HandleGetHistory returns every logged upload record in insertion order
func (h *HistoryHandlerImpl) HandleGetHistory(c echo.Context) error {
	records, err := h.store.ReadAll()
	if err != nil {
		return NewInternalError("failed to read upload history", err)
	}
	return c.JSON(http.StatusOK, records)
}
