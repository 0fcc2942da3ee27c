// routes.go - Route registration helpers
package api

import (
	"github.com/csv-dashboard/backend/internal/history"
	"github.com/csv-dashboard/backend/internal/session"
	"github.com/csv-dashboard/backend/internal/storage"
	"github.com/labstack/echo/v4"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store           storage.Store
	Sessions        *session.Manager
	History         *history.Store
	DataDir         string
	Version         string
	PreviewRowLimit int
}

// Handlers holds all handler instances
type Handlers struct {
	Health   HealthHandler
	Session  SessionHandler
	Upload   UploadHandler
	Analysis AnalysisHandler
	Chart    ChartHandler
	Export   ExportHandler
	History  HistoryHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(deps.Version),
		Session:  NewSessionHandler(deps.Sessions),
		Upload:   NewUploadHandler(deps),
		Analysis: NewAnalysisHandler(deps.Sessions, deps.PreviewRowLimit),
		Chart:    NewChartHandler(deps.Sessions),
		Export:   NewExportHandler(deps.Sessions, deps.DataDir),
		History:  NewHistoryHandler(deps.History),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	apiGroup := e.Group("/api")

	// Health check
	apiGroup.GET("/health", handlers.Health.HandleHealth)

	// Session lifecycle
	sessionGroup := apiGroup.Group("/sessions")
	sessionGroup.POST("", handlers.Session.HandleCreateSession)
	sessionGroup.GET("/:sessionId", handlers.Session.HandleGetSession)
	sessionGroup.POST("/:sessionId/keepalive", handlers.Session.HandleSessionKeepAlive)

	// Upload pipeline
	sessionGroup.POST("/:sessionId/upload", handlers.Upload.HandleUploadFile)
	sessionGroup.POST("/:sessionId/upload/json", handlers.Upload.HandleUploadJSON)

	// Derived views
	sessionGroup.GET("/:sessionId/summary", handlers.Analysis.HandleGetSummary)
	sessionGroup.GET("/:sessionId/preview", handlers.Analysis.HandleGetPreview)
	sessionGroup.GET("/:sessionId/columns", handlers.Analysis.HandleGetColumns)
	sessionGroup.POST("/:sessionId/chart", handlers.Chart.HandleBuildChart)
	sessionGroup.GET("/:sessionId/export", handlers.Export.HandleExportDataset)

	// File management
	apiGroup.GET("/files/recent", handlers.Upload.HandleGetRecentFiles)
	apiGroup.GET("/files/:id", handlers.Upload.HandleGetFile)
	apiGroup.DELETE("/files/:id", handlers.Upload.HandleDeleteFile)

	// Example dataset and upload history
	apiGroup.GET("/example", handlers.Export.HandleExampleDataset)
	apiGroup.GET("/history", handlers.History.HandleGetHistory)
}

// SetupMiddleware configures the custom error handler
func SetupMiddleware(e *echo.Echo) {
	e.HTTPErrorHandler = ErrorHandler
}
