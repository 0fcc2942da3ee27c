// Package dataset turns uploaded CSV bytes into the in-memory Dataset the
// rest of the dashboard reads, and serializes it back out again.
package dataset

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"github.com/csv-dashboard/backend/internal/models"
)

// ParseError reports malformed CSV content. Line is 1-based and 0 when the
// failure is not tied to a specific line.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("parse error: %s", e.Reason)
}

// missingMarkers are the cell values treated as missing. Matches the common
// null markers emitted by spreadsheet and dataframe tools.
var missingMarkers = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"null": true,
	"NaN":  true,
	"nan":  true,
}

// IsMissing reports whether a raw cell counts as a missing value.
func IsMissing(cell string) bool {
	return missingMarkers[cell]
}

// Fingerprint derives the source identity for a named byte stream. Same name
// with different content is a different identity, so a re-upload with changed
// content never hits the memoization cache.
func Fingerprint(name string, data []byte) string {
	sum := sha256.Sum256(data)
	return name + ":" + hex.EncodeToString(sum[:])
}

// Parse reads CSV bytes into a Dataset. The first record is the header; every
// data row must have the same field count. A column is numeric when it has at
// least one non-missing cell and every non-missing cell parses as a float;
// everything else (including all-missing columns) is categorical.
func Parse(name string, data []byte) (*models.Dataset, error) {
	// Strip a UTF-8 BOM, Excel exports often carry one.
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	r := csv.NewReader(bytes.NewReader(data))
	records, err := r.ReadAll()
	if err != nil {
		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) {
			return nil, &ParseError{Line: csvErr.Line, Reason: csvErr.Err.Error()}
		}
		return nil, &ParseError{Reason: err.Error()}
	}
	if len(records) == 0 {
		return nil, &ParseError{Line: 1, Reason: "missing header row"}
	}

	header := records[0]
	rows := records[1:]
	rowCount := len(rows)

	columns := make([]models.Column, len(header))
	for j, colName := range header {
		col := models.Column{
			Name:    colName,
			Type:    models.ColumnCategorical,
			Cells:   make([]string, rowCount),
			Missing: make([]bool, rowCount),
		}

		for i, row := range rows {
			col.Cells[i] = row[j]
			col.Missing[i] = IsMissing(row[j])
		}

		floats := make([]float64, rowCount)
		numeric := false
		for i := range col.Cells {
			if col.Missing[i] {
				continue
			}
			v, err := strconv.ParseFloat(col.Cells[i], 64)
			if err != nil {
				numeric = false
				break
			}
			floats[i] = v
			numeric = true
		}

		if numeric {
			col.Type = models.ColumnNumeric
			col.Floats = floats
		}
		columns[j] = col
	}

	return &models.Dataset{
		SourceName:  name,
		Fingerprint: Fingerprint(name, data),
		Columns:     columns,
		RowCount:    rowCount,
	}, nil
}
