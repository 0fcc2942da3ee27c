package models

// SessionStats are the process-local per-session counters shown in the
// dashboard sidebar. LastAnalysis is formatted with TimestampLayout and is
// empty until the first successful load.
type SessionStats struct {
	AnalysisCount int    `json:"analysisCount"`
	LastAnalysis  string `json:"lastAnalysis,omitempty"`
}

// AnalysisSession is the public view of one dashboard session.
type AnalysisSession struct {
	ID       string       `json:"id"`
	Stats    SessionStats `json:"stats"`
	Loaded   bool         `json:"loaded"`
	Filename string       `json:"filename,omitempty"`
	Rows     int          `json:"rows,omitempty"`
	Columns  int          `json:"columns,omitempty"`
}
