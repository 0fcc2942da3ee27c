package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/csv-dashboard/backend/internal/history"
	"github.com/csv-dashboard/backend/internal/session"
	"github.com/csv-dashboard/backend/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "Date,Sales,Region\n2023-01-01,100,North\n2023-01-02,120,South\n2023-01-03,90,East\n"

// newTestDeps wires the handler dependencies the way main does, with mock
// storage and a real history store on a temp dir.
func newTestDeps(t *testing.T) (*Dependencies, string) {
	t.Helper()
	historyPath := filepath.Join(t.TempDir(), "analysis_history.json")
	deps := &Dependencies{
		Store:           testutil.NewMockStorage(),
		Sessions:        session.NewManager(),
		History:         history.NewStore(historyPath),
		DataDir:         t.TempDir(),
		Version:         "test",
		PreviewRowLimit: 100,
	}
	return deps, historyPath
}

func newSession(t *testing.T, deps *Dependencies) string {
	t.Helper()
	return deps.Sessions.Create().ID
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func uploadContext(t *testing.T, deps *Dependencies, sessionID, filename, content string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	body, contentType := multipartBody(t, filename, content)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+sessionID+"/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("sessionId")
	c.SetParamValues(sessionID)
	return c, rec
}

func TestHandleUploadFile_Success(t *testing.T) {
	deps, _ := newTestDeps(t)
	handler := NewUploadHandler(deps)
	id := newSession(t, deps)

	c, rec := uploadContext(t, deps, id, "sales.csv", sampleCSV)
	require.NoError(t, handler.HandleUploadFile(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Rows)
	assert.Equal(t, 3, resp.Columns)
	assert.False(t, resp.Cached)
	assert.Equal(t, 1, resp.Stats.AnalysisCount)
	assert.Equal(t, "analyzed", resp.File.Status)
}

func TestHandleUploadFile_TwoUploadsCountAndHistory(t *testing.T) {
	deps, _ := newTestDeps(t)
	handler := NewUploadHandler(deps)
	id := newSession(t, deps)

	c1, _ := uploadContext(t, deps, id, "first.csv", sampleCSV)
	require.NoError(t, handler.HandleUploadFile(c1))

	c2, rec2 := uploadContext(t, deps, id, "second.csv", "a,b\n1,2\n")
	require.NoError(t, handler.HandleUploadFile(c2))

	var resp uploadResponse
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Stats.AnalysisCount)

	records, err := deps.History.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "first.csv", records[0].Filename)
	assert.Equal(t, "second.csv", records[1].Filename)
	assert.Equal(t, 3, records[0].Rows)
	assert.Equal(t, 1, records[1].Rows)
}

func TestHandleUploadFile_CachedUploadStillCounts(t *testing.T) {
	deps, _ := newTestDeps(t)
	handler := NewUploadHandler(deps)
	id := newSession(t, deps)

	c1, _ := uploadContext(t, deps, id, "sales.csv", sampleCSV)
	require.NoError(t, handler.HandleUploadFile(c1))

	c2, rec2 := uploadContext(t, deps, id, "sales.csv", sampleCSV)
	require.NoError(t, handler.HandleUploadFile(c2))

	var resp uploadResponse
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &resp))
	assert.True(t, resp.Cached)
	assert.Equal(t, 2, resp.Stats.AnalysisCount)

	records, err := deps.History.ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 2, "every upload event is recorded, cached or not")
}

func TestHandleUploadFile_ParseErrorHasNoSideEffects(t *testing.T) {
	deps, historyPath := newTestDeps(t)
	handler := NewUploadHandler(deps)
	id := newSession(t, deps)

	c, _ := uploadContext(t, deps, id, "bad.csv", "a,b\n\"unterminated\n")
	err := handler.HandleUploadFile(c)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "PARSE_ERROR", apiErr.Code)

	// No counter bump, no dataset, no history record
	view, ok := deps.Sessions.Get(id)
	require.True(t, ok)
	assert.Equal(t, 0, view.Stats.AnalysisCount)
	assert.False(t, view.Loaded)
	assert.NoFileExists(t, historyPath)
}

func TestHandleUploadFile_UnknownSession(t *testing.T) {
	deps, _ := newTestDeps(t)
	handler := NewUploadHandler(deps)

	c, _ := uploadContext(t, deps, "nonexistent", "sales.csv", sampleCSV)
	err := handler.HandleUploadFile(c)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestHandleUploadFile_NoFile(t *testing.T) {
	deps, _ := newTestDeps(t)
	handler := NewUploadHandler(deps)
	id := newSession(t, deps)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/upload", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("sessionId")
	c.SetParamValues(id)

	err := handler.HandleUploadFile(c)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestHandleUploadJSON_Success(t *testing.T) {
	deps, _ := newTestDeps(t)
	handler := NewUploadHandler(deps)
	id := newSession(t, deps)

	payload := map[string]string{
		"name": "sales.csv",
		"data": base64.StdEncoding.EncodeToString([]byte(sampleCSV)),
	}
	body, _ := json.Marshal(payload)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/upload/json", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("sessionId")
	c.SetParamValues(id)

	require.NoError(t, handler.HandleUploadJSON(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Rows)
}

func TestHandleUploadJSON_Validation(t *testing.T) {
	deps, _ := newTestDeps(t)
	handler := NewUploadHandler(deps)
	id := newSession(t, deps)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"data":"YQox"}`},
		{"missing data", `{"name":"a.csv"}`},
		{"bad base64", `{"name":"a.csv","data":"%%%"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/upload/json", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetParamNames("sessionId")
			c.SetParamValues(id)

			err := handler.HandleUploadJSON(c)
			require.Error(t, err)
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		})
	}
}

func TestHandleDeleteFile(t *testing.T) {
	deps, _ := newTestDeps(t)
	handler := NewUploadHandler(deps)

	info, err := deps.Store.SaveBytes("a.csv", []byte(sampleCSV))
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/files/"+info.ID, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(info.ID)

	require.NoError(t, handler.HandleDeleteFile(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err = deps.Store.Get(info.ID)
	assert.Error(t, err)
}
