package models

// ColumnStats holds describe()-style aggregates for one numeric column.
// Aggregates are pointers so that "not available" (zero non-missing values,
// or undefined sample std with a single value) serializes as absent rather
// than NaN.
type ColumnStats struct {
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean,omitempty"`
	Std    *float64 `json:"std,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Q25    *float64 `json:"q25,omitempty"`
	Median *float64 `json:"median,omitempty"`
	Q75    *float64 `json:"q75,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// CorrelationMatrix is the pairwise Pearson matrix over numeric columns.
// Values[i][j] is nil when the correlation is undefined (zero variance or
// fewer than two pairwise-complete rows).
type CorrelationMatrix struct {
	Columns []string     `json:"columns"`
	Values  [][]*float64 `json:"values"`
}

// SummaryReport is the derived statistical view of a Dataset. It is
// recomputed on demand and never persisted.
type SummaryReport struct {
	RowCount         int                     `json:"rowCount"`
	ColumnCount      int                     `json:"columnCount"`
	MissingCount     int                     `json:"missingCount"`
	NumericColumns   []string                `json:"numericColumns"`
	DescriptiveStats map[string]*ColumnStats `json:"descriptiveStats"`
	Correlation      *CorrelationMatrix      `json:"correlation"`
}
