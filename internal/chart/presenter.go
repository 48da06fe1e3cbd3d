package chart

import (
	"github.com/jgoulah/energyview/pkg/models"
)

// Settings are the fixed presentation choices of the consumption chart
type Settings struct {
	Title        string
	XAxisTitle   string
	YAxisTitle   string
	SeriesName   string
	TickInterval int
	LabelFormat  string
}

// DefaultSettings returns the stock chart labels
func DefaultSettings() Settings {
	return Settings{
		Title:        "My chart",
		XAxisTitle:   "Date",
		YAxisTitle:   "(KWhs)",
		SeriesName:   "Consumption",
		TickInterval: 50,
		LabelFormat:  "%m/%d/%Y, %r",
	}
}

// Presenter derives Options from a dataset
type Presenter struct {
	settings Settings
}

// NewPresenter fills any zero field of s from DefaultSettings
func NewPresenter(s Settings) *Presenter {
	def := DefaultSettings()
	if s.Title == "" {
		s.Title = def.Title
	}
	if s.XAxisTitle == "" {
		s.XAxisTitle = def.XAxisTitle
	}
	if s.YAxisTitle == "" {
		s.YAxisTitle = def.YAxisTitle
	}
	if s.SeriesName == "" {
		s.SeriesName = def.SeriesName
	}
	if s.TickInterval <= 0 {
		s.TickInterval = def.TickInterval
	}
	if s.LabelFormat == "" {
		s.LabelFormat = def.LabelFormat
	}
	return &Presenter{settings: s}
}

// Settings returns the effective settings
func (p *Presenter) Settings() Settings {
	return p.settings
}

// Options builds the chart configuration for ds. It is recomputed on every
// call; an unset or empty dataset yields empty categories and series data.
func (p *Presenter) Options(ds models.Dataset) Options {
	categories := make([]string, 0, len(ds))
	points := make([]Point, 0, len(ds))
	tooltips := make([]string, 0, len(ds))

	for _, r := range ds {
		pt := NewPoint(r)
		categories = append(categories, string(r.Date))
		points = append(points, pt)
		tooltips = append(tooltips, Tooltip(string(r.Date), pt))
	}

	return Options{
		Title: p.settings.Title,
		XAxis: Axis{
			Title:        p.settings.XAxisTitle,
			Type:         AxisDatetime,
			Categories:   categories,
			TickInterval: p.settings.TickInterval,
			LabelFormat:  p.settings.LabelFormat,
		},
		YAxis: Axis{
			Title: p.settings.YAxisTitle,
			Type:  AxisLinear,
		},
		Series: []Series{{
			Type: "line",
			Name: p.settings.SeriesName,
			Data: points,
		}},
		Tooltips: tooltips,
	}
}

// NewPoint projects a record onto a series point
func NewPoint(r models.Record) Point {
	return Point{
		Y:                  r.Consumption,
		AverageHumidity:    r.AverageHumidity,
		AverageTemperature: r.AverageTemperature,
		Anomaly:            r.Anomaly,
	}
}
