package models

// ChartKind identifies one of the supported chart types.
type ChartKind string

const (
	ChartScatter ChartKind = "scatter"
	ChartLine    ChartKind = "line"
	ChartBar     ChartKind = "bar"
	ChartBox     ChartKind = "box"
)

// ChartSpec is a declarative description of a chart to render. It carries no
// pixels and no data, only the axes and a derived title; the browser-side
// renderer pairs it with the preview rows.
type ChartSpec struct {
	Kind    ChartKind `json:"kind"`
	XColumn string    `json:"xColumn"`
	YColumn string    `json:"yColumn"`
	Title   string    `json:"title"`
}
