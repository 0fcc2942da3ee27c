package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/csv-dashboard/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

// loadedSession creates a session with sampleCSV already analyzed.
func loadedSession(t *testing.T, deps *Dependencies) string {
	t.Helper()
	id := newSession(t, deps)
	_, err := deps.Sessions.LoadDataset(id, "sales.csv", []byte(sampleCSV))
	require.NoError(t, err)
	return id
}

func getContext(e *echo.Echo, target, sessionID string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("sessionId")
	c.SetParamValues(sessionID)
	return c, rec
}

func TestHandleGetSummary(t *testing.T) {
	deps, _ := newTestDeps(t)
	handler := NewAnalysisHandler(deps.Sessions, deps.PreviewRowLimit)
	id := loadedSession(t, deps)

	c, rec := getContext(echo.New(), "/api/sessions/"+id+"/summary", id)
	require.NoError(t, handler.HandleGetSummary(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var report models.SummaryReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 3, report.RowCount)
	assert.Equal(t, 3, report.ColumnCount)
	assert.Equal(t, 0, report.MissingCount)
	assert.Equal(t, []string{"Sales"}, report.NumericColumns)

	sales := report.DescriptiveStats["Sales"]
	require.NotNil(t, sales)
	assert.Equal(t, 3, sales.Count)
	require.NotNil(t, sales.Mean)
	assert.InDelta(t, 103.333, *sales.Mean, 0.001)
	require.NotNil(t, sales.Min)
	assert.Equal(t, 90.0, *sales.Min)
	require.NotNil(t, sales.Max)
	assert.Equal(t, 120.0, *sales.Max)
}

func TestHandleGetSummary_NoDataset(t *testing.T) {
	deps, _ := newTestDeps(t)
	handler := NewAnalysisHandler(deps.Sessions, deps.PreviewRowLimit)
	id := newSession(t, deps)

	c, _ := getContext(echo.New(), "/api/sessions/"+id+"/summary", id)
	err := handler.HandleGetSummary(c)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestHandleGetPreview_DefaultLimit(t *testing.T) {
	deps, _ := newTestDeps(t)
	handler := NewAnalysisHandler(deps.Sessions, deps.PreviewRowLimit)
	id := newSession(t, deps)

	// 10 rows, default preview shows 5
	csv := "n\n0\n1\n2\n3\n4\n5\n6\n7\n8\n9\n"
	_, err := deps.Sessions.LoadDataset(id, "n.csv", []byte(csv))
	require.NoError(t, err)

	c, rec := getContext(echo.New(), "/api/sessions/"+id+"/preview", id)
	require.NoError(t, handler.HandleGetPreview(c))

	var resp previewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"n"}, resp.Columns)
	assert.Len(t, resp.Rows, DefaultPreviewRows)
	assert.Equal(t, 10, resp.Total)
}

func TestHandleGetPreview_LimitParam(t *testing.T) {
	deps, _ := newTestDeps(t)
	handler := NewAnalysisHandler(deps.Sessions, deps.PreviewRowLimit)
	id := loadedSession(t, deps)

	t.Run("explicit limit", func(t *testing.T) {
		c, rec := getContext(echo.New(), "/api/sessions/"+id+"/preview?limit=2", id)
		require.NoError(t, handler.HandleGetPreview(c))

		var resp previewResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Rows, 2)
	})

	t.Run("limit beyond row count is clamped", func(t *testing.T) {
		c, rec := getContext(echo.New(), "/api/sessions/"+id+"/preview?limit=50", id)
		require.NoError(t, handler.HandleGetPreview(c))

		var resp previewResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Rows, 3)
	})

	t.Run("invalid limit rejected", func(t *testing.T) {
		for _, raw := range []string{"abc", "-1"} {
			c, _ := getContext(echo.New(), "/api/sessions/"+id+"/preview?limit="+raw, id)
			err := handler.HandleGetPreview(c)
			require.Error(t, err)
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		}
	})
}

func TestHandleGetPreview_MsgpackFormat(t *testing.T) {
	deps, _ := newTestDeps(t)
	handler := NewAnalysisHandler(deps.Sessions, deps.PreviewRowLimit)
	id := loadedSession(t, deps)

	c, rec := getContext(echo.New(), "/api/sessions/"+id+"/preview?format=msgpack", id)
	require.NoError(t, handler.HandleGetPreview(c))

	assert.Equal(t, "application/msgpack", rec.Header().Get(echo.HeaderContentType))

	var resp previewResponse
	require.NoError(t, msgpack.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Date", "Sales", "Region"}, resp.Columns)
	assert.Equal(t, 3, resp.Total)
}

func TestHandleGetColumns(t *testing.T) {
	deps, _ := newTestDeps(t)
	handler := NewAnalysisHandler(deps.Sessions, deps.PreviewRowLimit)
	id := loadedSession(t, deps)

	c, rec := getContext(echo.New(), "/api/sessions/"+id+"/columns", id)
	require.NoError(t, handler.HandleGetColumns(c))

	var cols []columnInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cols))
	require.Len(t, cols, 3)
	assert.Equal(t, columnInfo{Name: "Date", Type: models.ColumnCategorical}, cols[0])
	assert.Equal(t, columnInfo{Name: "Sales", Type: models.ColumnNumeric}, cols[1])
	assert.Equal(t, columnInfo{Name: "Region", Type: models.ColumnCategorical}, cols[2])
}
