package dataset

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/csv-dashboard/backend/internal/models"
)

// WriteCSV serializes the dataset back to comma-delimited text with a header
// row and no index column. Cells are written from the raw parsed text, so an
// export/load round trip preserves every non-missing cell exactly.
func WriteCSV(ds *models.Dataset, w io.Writer) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(ds.Columns))
	for j := range ds.Columns {
		header[j] = ds.Columns[j].Name
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(ds.Columns))
	for i := 0; i < ds.RowCount; i++ {
		for j := range ds.Columns {
			if ds.Columns[j].Missing[i] {
				row[j] = ""
			} else {
				row[j] = ds.Columns[j].Cells[i]
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportFilename builds the download name for an exported dataset.
func ExportFilename(now time.Time) string {
	return "processed_data_" + now.Format("20060102_150405") + ".csv"
}
