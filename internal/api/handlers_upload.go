// handlers_upload.go - CSV upload operation handlers
package api

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/csv-dashboard/backend/internal/dataset"
	"github.com/csv-dashboard/backend/internal/models"
	"github.com/csv-dashboard/backend/internal/session"
	"github.com/labstack/echo/v4"
)

// UploadHandlerImpl implements the UploadHandler interface
type UploadHandlerImpl struct {
	deps *Dependencies
}

// NewUploadHandler creates a new upload handler instance
func NewUploadHandler(deps *Dependencies) UploadHandler {
	return &UploadHandlerImpl{deps: deps}
}

// uploadResponse is the response body for a completed upload event
type uploadResponse struct {
	File    *models.FileInfo    `json:"file"`
	Rows    int                 `json:"rows"`
	Columns int                 `json:"columns"`
	Cached  bool                `json:"cached"`
	Stats   models.SessionStats `json:"stats"`
}

// runUploadPipeline executes the full upload pipeline for one event: persist
// the raw file, load the dataset (memoized), bump the session counters, and
// append the history record. A parse failure aborts before any counter or
// history update. A history failure is logged and does not fail the upload;
// history is an audit side-channel, not core flow.
func runUploadPipeline(deps *Dependencies, sessionID, filename string, data []byte) (*uploadResponse, error) {
	info, err := deps.Store.SaveBytes(filename, data)
	if err != nil {
		return nil, NewInternalError("failed to save file", err)
	}

	res, err := deps.Sessions.LoadDataset(sessionID, filename, data)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, NewNotFoundError("session", sessionID)
		}
		var parseErr *dataset.ParseError
		if errors.As(err, &parseErr) {
			return nil, NewParseError(parseErr)
		}
		return nil, NewInternalError("failed to load dataset", err)
	}
	info.Status = "analyzed"

	if err := deps.History.Append(res.Record); err != nil {
		fmt.Printf("[History] append failed for %s: %v\n", filename, err)
	}

	return &uploadResponse{
		File:    info,
		Rows:    res.Dataset.RowCount,
		Columns: len(res.Dataset.Columns),
		Cached:  res.Cached,
		Stats:   res.Stats,
	}, nil
}

// HandleUploadFile accepts a CSV file as multipart/form-data and runs the
// upload pipeline for the session
func (h *UploadHandlerImpl) HandleUploadFile(c echo.Context) error {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		return NewValidationError("sessionId")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("no file provided", err)
	}

	src, err := file.Open()
	if err != nil {
		return NewInternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return NewInternalError("failed to read uploaded file", err)
	}

	resp, err := runUploadPipeline(h.deps, sessionID, file.Filename, data)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, resp)
}

// HandleUploadJSON accepts a CSV file as base64 JSON and runs the upload
// pipeline for the session
func (h *UploadHandlerImpl) HandleUploadJSON(c echo.Context) error {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		return NewValidationError("sessionId")
	}

	var req uploadJSONRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	if err := req.validate(); err != nil {
		return err
	}

	decoded, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return NewBadRequestError("invalid base64 data", err)
	}

	resp, err := runUploadPipeline(h.deps, sessionID, req.Name, decoded)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, resp)
}

// HandleGetRecentFiles returns a list of recently uploaded files
func (h *UploadHandlerImpl) HandleGetRecentFiles(c echo.Context) error {
	files, err := h.deps.Store.List(20)
	if err != nil {
		return NewInternalError("failed to list files", err)
	}
	return c.JSON(http.StatusOK, files)
}

// HandleGetFile returns metadata for a specific file
func (h *UploadHandlerImpl) HandleGetFile(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	info, err := h.deps.Store.Get(id)
	if err != nil {
		return NewNotFoundError("file", id)
	}

	return c.JSON(http.StatusOK, info)
}

// HandleDeleteFile deletes a stored upload
func (h *UploadHandlerImpl) HandleDeleteFile(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	if err := h.deps.Store.Delete(id); err != nil {
		return NewNotFoundError("file", id)
	}

	return c.NoContent(http.StatusNoContent)
}

// Request types

type uploadJSONRequest struct {
	Name string `json:"name"`
	Data string `json:"data"` // Base64-encoded CSV content
}

func (r *uploadJSONRequest) validate() error {
	if r.Name == "" {
		return NewValidationError("name")
	}
	if r.Data == "" {
		return NewValidationError("data")
	}
	return nil
}
