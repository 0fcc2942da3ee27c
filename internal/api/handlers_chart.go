// handlers_chart.go - Chart specification handlers
package api

import (
	"errors"
	"net/http"

	"github.com/csv-dashboard/backend/internal/chart"
	"github.com/csv-dashboard/backend/internal/session"
	"github.com/labstack/echo/v4"
)

// ChartHandlerImpl implements the ChartHandler interface
type ChartHandlerImpl struct {
	sessions *session.Manager
}

// NewChartHandler creates a new chart handler instance
func NewChartHandler(sessions *session.Manager) ChartHandler {
	return &ChartHandlerImpl{sessions: sessions}
}

type buildChartRequest struct {
	Kind string `json:"kind"`
	X    string `json:"x"`
	Y    string `json:"y"`
}

func (r *buildChartRequest) validate() error {
	if r.Kind == "" {
		return NewValidationError("kind")
	}
	if r.X == "" {
		return NewValidationError("x")
	}
	if r.Y == "" {
		return NewValidationError("y")
	}
	return nil
}

// HandleBuildChart validates the axis selection against the loaded dataset
// and returns the declarative chart spec
func (h *ChartHandlerImpl) HandleBuildChart(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	var req buildChartRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if err := req.validate(); err != nil {
		return err
	}

	ds, ok := h.sessions.Dataset(id)
	if !ok {
		return NewNotFoundError("dataset for session", id)
	}

	spec, err := chart.BuildSpec(req.Kind, req.X, req.Y, ds)
	if err != nil {
		var selErr *chart.InvalidSelectionError
		if errors.As(err, &selErr) {
			return NewInvalidSelectionError(selErr)
		}
		return NewInternalError("failed to build chart spec", err)
	}

	return c.JSON(http.StatusOK, spec)
}
