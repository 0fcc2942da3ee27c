package models

// TimestampLayout is the display format used for upload records and session
// counters ("YYYY-MM-DD HH:MM").
const TimestampLayout = "2006-01-02 15:04"

// UploadRecord is one logged entry describing a single successful upload.
// The JSON keys are the on-disk history file contract and must not change.
type UploadRecord struct {
	Filename  string `json:"filename"`
	Timestamp string `json:"timestamp"`
	Rows      int    `json:"rows"`
	Columns   int    `json:"columns"`
}
