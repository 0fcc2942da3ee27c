package chart

import (
	"testing"

	"github.com/csv-dashboard/backend/internal/dataset"
	"github.com/csv-dashboard/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDataset(t *testing.T) *models.Dataset {
	t.Helper()
	ds, err := dataset.Parse("sales.csv",
		[]byte("Date,Sales,Customers,Region\n2023-01-01,100,50,North\n2023-01-02,120,60,South\n"))
	require.NoError(t, err)
	return ds
}

func TestBuildSpec_Titles(t *testing.T) {
	ds := testDataset(t)

	tests := []struct {
		kind      string
		wantKind  models.ChartKind
		wantTitle string
	}{
		{"Scatter Plot", models.ChartScatter, "Sales vs Date"},
		{"scatter", models.ChartScatter, "Sales vs Date"},
		{"Line Chart", models.ChartLine, "Sales over Date"},
		{"line", models.ChartLine, "Sales over Date"},
		{"Bar Chart", models.ChartBar, "Sales by Date"},
		{"Box Plot", models.ChartBox, "Distribution of Sales by Date"},
		{"box", models.ChartBox, "Distribution of Sales by Date"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			spec, err := BuildSpec(tt.kind, "Date", "Sales", ds)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, spec.Kind)
			assert.Equal(t, "Date", spec.XColumn)
			assert.Equal(t, "Sales", spec.YColumn)
			assert.Equal(t, tt.wantTitle, spec.Title)
		})
	}
}

func TestBuildSpec_NumericX(t *testing.T) {
	ds := testDataset(t)
	spec, err := BuildSpec("scatter", "Customers", "Sales", ds)
	require.NoError(t, err)
	assert.Equal(t, "Sales vs Customers", spec.Title)
}

func TestBuildSpec_CategoricalYRejectedForEveryKind(t *testing.T) {
	ds := testDataset(t)

	for _, kind := range []string{"Scatter Plot", "Line Chart", "Bar Chart", "Box Plot"} {
		t.Run(kind, func(t *testing.T) {
			_, err := BuildSpec(kind, "Date", "Region", ds)
			require.Error(t, err)
			var selErr *InvalidSelectionError
			assert.ErrorAs(t, err, &selErr)
		})
	}
}

func TestBuildSpec_InvalidSelections(t *testing.T) {
	ds := testDataset(t)

	tests := []struct {
		name    string
		kind    string
		x, y    string
	}{
		{"unknown kind", "pie", "Date", "Sales"},
		{"unknown x column", "scatter", "Nope", "Sales"},
		{"unknown y column", "scatter", "Date", "Nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildSpec(tt.kind, tt.x, tt.y, ds)
			require.Error(t, err)
			var selErr *InvalidSelectionError
			assert.ErrorAs(t, err, &selErr)
		})
	}
}
