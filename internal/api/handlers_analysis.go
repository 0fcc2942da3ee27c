// handlers_analysis.go - Derived dataset views: summary, preview, columns
package api

import (
	"net/http"
	"strconv"

	"github.com/csv-dashboard/backend/internal/models"
	"github.com/csv-dashboard/backend/internal/session"
	"github.com/csv-dashboard/backend/internal/stats"
	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// DefaultPreviewRows mirrors the head() preview of the original dashboard.
const DefaultPreviewRows = 5

// AnalysisHandlerImpl implements the AnalysisHandler interface
type AnalysisHandlerImpl struct {
	sessions *session.Manager
	rowLimit int
}

// NewAnalysisHandler creates a new analysis handler instance. rowLimit caps
// the preview page size; <=0 means uncapped.
func NewAnalysisHandler(sessions *session.Manager, rowLimit int) AnalysisHandler {
	return &AnalysisHandlerImpl{sessions: sessions, rowLimit: rowLimit}
}

func (h *AnalysisHandlerImpl) dataset(c echo.Context) (*models.Dataset, error) {
	id := c.Param("sessionId")
	if id == "" {
		return nil, NewValidationError("sessionId")
	}
	ds, ok := h.sessions.Dataset(id)
	if !ok {
		return nil, NewNotFoundError("dataset for session", id)
	}
	return ds, nil
}

// HandleGetSummary recomputes and returns the statistical summary of the
// session's dataset
func (h *AnalysisHandlerImpl) HandleGetSummary(c echo.Context) error {
	ds, err := h.dataset(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats.Summarize(ds))
}

// previewResponse is the tabular preview handed to the renderer. Missing
// cells are null, numeric cells are numbers, everything else is a string.
type previewResponse struct {
	Columns []string            `json:"columns"`
	Types   []models.ColumnType `json:"types"`
	Rows    [][]interface{}     `json:"rows"`
	Total   int                 `json:"total"`
}

// HandleGetPreview returns the first N rows of the dataset. With
// ?format=msgpack the payload is an application/msgpack blob for cheap bulk
// transfer.
func (h *AnalysisHandlerImpl) HandleGetPreview(c echo.Context) error {
	ds, err := h.dataset(c)
	if err != nil {
		return err
	}

	limit := DefaultPreviewRows
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return NewValidationError("limit")
		}
		limit = n
	}
	if h.rowLimit > 0 && limit > h.rowLimit {
		limit = h.rowLimit
	}
	if limit > ds.RowCount {
		limit = ds.RowCount
	}

	types := make([]models.ColumnType, len(ds.Columns))
	for i := range ds.Columns {
		types[i] = ds.Columns[i].Type
	}

	rows := make([][]interface{}, limit)
	for i := 0; i < limit; i++ {
		rows[i] = ds.Row(i)
	}

	resp := previewResponse{
		Columns: ds.ColumnNames(),
		Types:   types,
		Rows:    rows,
		Total:   ds.RowCount,
	}

	if c.QueryParam("format") == "msgpack" {
		data, err := msgpack.Marshal(resp)
		if err != nil {
			return NewInternalError("failed to encode msgpack", err)
		}
		return c.Blob(http.StatusOK, "application/msgpack", data)
	}

	return c.JSON(http.StatusOK, resp)
}

// columnInfo describes one column for the axis pickers
type columnInfo struct {
	Name string            `json:"name"`
	Type models.ColumnType `json:"type"`
}

// HandleGetColumns returns the dataset's column names and inferred types
func (h *AnalysisHandlerImpl) HandleGetColumns(c echo.Context) error {
	ds, err := h.dataset(c)
	if err != nil {
		return err
	}

	cols := make([]columnInfo, len(ds.Columns))
	for i := range ds.Columns {
		cols[i] = columnInfo{Name: ds.Columns[i].Name, Type: ds.Columns[i].Type}
	}
	return c.JSON(http.StatusOK, cols)
}
