// Package chart turns a loaded dataset into a declarative chart configuration.
//
// Nothing here draws anything. Renderers in internal/render consume Options
// and redraw whenever they are handed a new value.
package chart

import (
	"github.com/jgoulah/energyview/pkg/models"
)

// AxisType is the scale kind of an axis
type AxisType string

const (
	AxisDatetime AxisType = "datetime"
	AxisLinear   AxisType = "linear"
)

// Axis describes one chart axis
type Axis struct {
	Title        string   `json:"title"`
	Type         AxisType `json:"type"`
	Categories   []string `json:"categories,omitempty"`
	TickInterval int      `json:"tickInterval,omitempty"`
	LabelFormat  string   `json:"labelFormat,omitempty"`
}

// Point is a plotted value plus the auxiliary fields the tooltip reads back
type Point struct {
	Y                  models.Value `json:"y"`
	AverageHumidity    models.Value `json:"averageHumidity"`
	AverageTemperature models.Value `json:"averageTemperature"`
	Anomaly            models.Value `json:"anomaly"`
}

// Series is a named list of points
type Series struct {
	Type string  `json:"type"`
	Name string  `json:"name"`
	Data []Point `json:"data"`
}

// Options is the full chart configuration handed to a renderer
type Options struct {
	Title  string   `json:"title"`
	XAxis  Axis     `json:"xAxis"`
	YAxis  Axis     `json:"yAxis"`
	Series []Series `json:"series"`

	// Tooltips holds the tooltip text for each point of the first series
	Tooltips []string `json:"tooltips"`
}

// Categories returns the x-axis categories
func (o Options) Categories() []string {
	return o.XAxis.Categories
}

// Points returns the points of the first series
func (o Options) Points() []Point {
	if len(o.Series) == 0 {
		return nil
	}
	return o.Series[0].Data
}

// Tooltip returns the tooltip for point i, or false when i is out of range
func (o Options) Tooltip(i int) (string, bool) {
	if i < 0 || i >= len(o.Tooltips) {
		return "", false
	}
	return o.Tooltips[i], true
}
