// handlers_session.go - Session lifecycle handlers
package api

import (
	"net/http"

	"github.com/csv-dashboard/backend/internal/session"
	"github.com/labstack/echo/v4"
)

// SessionHandlerImpl implements the SessionHandler interface
type SessionHandlerImpl struct {
	sessions *session.Manager
}

// NewSessionHandler creates a new session handler instance
func NewSessionHandler(sessions *session.Manager) SessionHandler {
	return &SessionHandlerImpl{sessions: sessions}
}

// HandleCreateSession starts a new dashboard session with zeroed counters
func (h *SessionHandlerImpl) HandleCreateSession(c echo.Context) error {
	s := h.sessions.Create()
	return c.JSON(http.StatusCreated, s)
}

// HandleGetSession returns the session state including analysis counters
func (h *SessionHandlerImpl) HandleGetSession(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	s, ok := h.sessions.Get(id)
	if !ok {
		return NewNotFoundError("session", id)
	}
	return c.JSON(http.StatusOK, s)
}

// HandleSessionKeepAlive touches the session so cleanup keeps it alive
func (h *SessionHandlerImpl) HandleSessionKeepAlive(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	if !h.sessions.Touch(id) {
		return NewNotFoundError("session", id)
	}
	return c.NoContent(http.StatusNoContent)
}
