// Package chart builds declarative chart specifications from user-selected
// axes. No rendering happens here; the browser renders from the spec plus the
// preview rows.
package chart

import (
	"fmt"
	"strings"

	"github.com/csv-dashboard/backend/internal/models"
)

// InvalidSelectionError reports a chart selection the dataset cannot satisfy:
// an unknown chart kind, a missing column, or a non-numeric Y axis.
type InvalidSelectionError struct {
	Reason string
}

func (e *InvalidSelectionError) Error() string {
	return "invalid selection: " + e.Reason
}

// ParseKind maps a chart kind string to its canonical value. Both the
// canonical ids ("scatter") and the dashboard radio labels ("Scatter Plot")
// are accepted, case-insensitively.
func ParseKind(s string) (models.ChartKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scatter", "scatter plot":
		return models.ChartScatter, nil
	case "line", "line chart":
		return models.ChartLine, nil
	case "bar", "bar chart":
		return models.ChartBar, nil
	case "box", "box plot":
		return models.ChartBox, nil
	default:
		return "", &InvalidSelectionError{Reason: fmt.Sprintf("unknown chart kind %q", s)}
	}
}

// BuildSpec validates the axis selection against the dataset and returns the
// chart spec with its derived title. The Y axis must be a numeric column; the
// X axis may be any column.
func BuildSpec(kind, xColumn, yColumn string, ds *models.Dataset) (*models.ChartSpec, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}

	if ds.Column(xColumn) == nil {
		return nil, &InvalidSelectionError{Reason: fmt.Sprintf("column %q not in dataset", xColumn)}
	}
	yCol := ds.Column(yColumn)
	if yCol == nil {
		return nil, &InvalidSelectionError{Reason: fmt.Sprintf("column %q not in dataset", yColumn)}
	}
	if yCol.Type != models.ColumnNumeric {
		return nil, &InvalidSelectionError{Reason: fmt.Sprintf("y-axis column %q is not numeric", yColumn)}
	}

	return &models.ChartSpec{
		Kind:    k,
		XColumn: xColumn,
		YColumn: yColumn,
		Title:   title(k, xColumn, yColumn),
	}, nil
}

func title(kind models.ChartKind, x, y string) string {
	switch kind {
	case models.ChartScatter:
		return fmt.Sprintf("%s vs %s", y, x)
	case models.ChartLine:
		return fmt.Sprintf("%s over %s", y, x)
	case models.ChartBar:
		return fmt.Sprintf("%s by %s", y, x)
	case models.ChartBox:
		return fmt.Sprintf("Distribution of %s by %s", y, x)
	default:
		return ""
	}
}
