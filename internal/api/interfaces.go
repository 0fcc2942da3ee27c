// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/labstack/echo/v4"
)

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// SessionHandler handles session lifecycle operations
type SessionHandler interface {
	HandleCreateSession(c echo.Context) error
	HandleGetSession(c echo.Context) error
	HandleSessionKeepAlive(c echo.Context) error
}

// UploadHandler handles CSV upload operations
type UploadHandler interface {
	HandleUploadFile(c echo.Context) error
	HandleUploadJSON(c echo.Context) error
	HandleGetRecentFiles(c echo.Context) error
	HandleGetFile(c echo.Context) error
	HandleDeleteFile(c echo.Context) error
}

// AnalysisHandler serves the derived views of the loaded dataset
type AnalysisHandler interface {
	HandleGetSummary(c echo.Context) error
	HandleGetPreview(c echo.Context) error
	HandleGetColumns(c echo.Context) error
}

// ChartHandler builds chart specifications
type ChartHandler interface {
	HandleBuildChart(c echo.Context) error
}

// ExportHandler serves CSV downloads
type ExportHandler interface {
	HandleExportDataset(c echo.Context) error
	HandleExampleDataset(c echo.Context) error
}

// HistoryHandler serves the upload history log
type HistoryHandler interface {
	HandleGetHistory(c echo.Context) error
}
