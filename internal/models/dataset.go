package models

// ColumnType is the inferred semantic type of a dataset column.
type ColumnType string

const (
	// ColumnNumeric means every non-missing cell parses as a float.
	ColumnNumeric ColumnType = "numeric"
	// ColumnCategorical is everything else (text, mixed, all-missing).
	ColumnCategorical ColumnType = "categorical"
)

// Column holds one parsed CSV column.
// Cells keeps the raw text, Missing marks empty/null-marker cells, and for
// numeric columns Floats holds the parsed value wherever Missing is false.
type Column struct {
	Name    string     `json:"name"`
	Type    ColumnType `json:"type"`
	Cells   []string   `json:"-"`
	Missing []bool     `json:"-"`
	Floats  []float64  `json:"-"`
}

// MissingCount returns the number of missing cells in the column.
func (c *Column) MissingCount() int {
	n := 0
	for _, m := range c.Missing {
		if m {
			n++
		}
	}
	return n
}

// Values returns the non-missing parsed floats of a numeric column.
func (c *Column) Values() []float64 {
	if c.Type != ColumnNumeric {
		return nil
	}
	vals := make([]float64, 0, len(c.Floats))
	for i, v := range c.Floats {
		if !c.Missing[i] {
			vals = append(vals, v)
		}
	}
	return vals
}

// Dataset is the in-memory tabular structure parsed from one uploaded CSV.
// It is created once per unique source identity within a session and is
// read-only to everything downstream.
type Dataset struct {
	SourceName  string
	Fingerprint string
	Columns     []Column
	RowCount    int
}

// Column returns the column with the given name, or nil.
func (d *Dataset) Column(name string) *Column {
	for i := range d.Columns {
		if d.Columns[i].Name == name {
			return &d.Columns[i]
		}
	}
	return nil
}

// ColumnNames returns all column names in CSV order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i := range d.Columns {
		names[i] = d.Columns[i].Name
	}
	return names
}

// NumericColumns returns the names of numeric columns in CSV order.
func (d *Dataset) NumericColumns() []string {
	var names []string
	for i := range d.Columns {
		if d.Columns[i].Type == ColumnNumeric {
			names = append(names, d.Columns[i].Name)
		}
	}
	return names
}

// MissingTotal is the count of missing cells across the whole dataset.
func (d *Dataset) MissingTotal() int {
	total := 0
	for i := range d.Columns {
		total += d.Columns[i].MissingCount()
	}
	return total
}

// Row returns row i as typed cells: float64 for non-missing numeric cells,
// string for categorical cells, nil for missing ones. This is the shape the
// preview endpoint hands to renderers.
func (d *Dataset) Row(i int) []interface{} {
	row := make([]interface{}, len(d.Columns))
	for j := range d.Columns {
		col := &d.Columns[j]
		if col.Missing[i] {
			continue
		}
		if col.Type == ColumnNumeric {
			row[j] = col.Floats[i]
		} else {
			row[j] = col.Cells[i]
		}
	}
	return row
}
