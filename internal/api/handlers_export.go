// handlers_export.go - CSV download handlers: processed data and example dataset
package api

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/csv-dashboard/backend/internal/dataset"
	"github.com/csv-dashboard/backend/internal/session"
	"github.com/labstack/echo/v4"
)

// ExportHandlerImpl implements the ExportHandler interface
type ExportHandlerImpl struct {
	sessions *session.Manager
	dataDir  string
}

// NewExportHandler creates a new export handler instance
func NewExportHandler(sessions *session.Manager, dataDir string) ExportHandler {
	return &ExportHandlerImpl{sessions: sessions, dataDir: dataDir}
}

// HandleExportDataset serializes the session's dataset back to CSV and
// offers it as a timestamped download
func (h *ExportHandlerImpl) HandleExportDataset(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	ds, ok := h.sessions.Dataset(id)
	if !ok {
		return NewNotFoundError("dataset for session", id)
	}

	var buf bytes.Buffer
	if err := dataset.WriteCSV(ds, &buf); err != nil {
		return NewInternalError("failed to serialize dataset", err)
	}

	name := dataset.ExportFilename(time.Now())
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, name))
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

// HandleExampleDataset synthesizes the 100-row sample dataset, drops a copy
// in the data directory, and offers it as example.csv
func (h *ExportHandlerImpl) HandleExampleDataset(c echo.Context) error {
	data := dataset.ExampleCSV()

	// Best effort local copy; the download does not depend on it.
	if h.dataDir != "" {
		path := filepath.Join(h.dataDir, "example.csv")
		if err := os.WriteFile(path, data, 0644); err != nil {
			fmt.Printf("[Export] failed to write %s: %v\n", path, err)
		}
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="example.csv"`)
	return c.Blob(http.StatusOK, "text/csv", data)
}
