package render

import (
	"fmt"
	"io"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/jgoulah/energyview/internal/chart"
)

// Format is a static image encoding
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// Image renders a static time-series picture of the chart. Points whose
// category does not parse as a timestamp, or whose value is not a number,
// are left out of the picture.
type Image struct {
	Format Format
	Width  int // pixels, default 900
	Height int // pixels, default 500
}

// Render encodes the chart for o as PNG or SVG
func (im *Image) Render(w io.Writer, o chart.Options) error {
	provider := gochart.PNG
	if im.Format == FormatSVG {
		provider = gochart.SVG
	}

	c := im.Chart(o)
	if err := c.Render(provider, w); err != nil {
		return fmt.Errorf("rendering %s chart: %w", im.format(), err)
	}
	return nil
}

// ContentType returns the MIME type of the rendered image
func (im *Image) ContentType() string {
	if im.Format == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (im *Image) format() Format {
	if im.Format == "" {
		return FormatPNG
	}
	return im.Format
}

// Chart builds the go-chart definition for o
func (im *Image) Chart(o chart.Options) gochart.Chart {
	xs, ys := plottable(o)

	name := ""
	if len(o.Series) > 0 {
		name = o.Series[0].Name
	}

	style := gochart.Style{StrokeColor: drawing.ColorBlue, StrokeWidth: 2}
	var yRange *gochart.ContinuousRange

	switch {
	case len(xs) == 0:
		// empty frame: a flat line drawn in the background colour keeps both
		// ranges non-zero
		start := time.Unix(0, 0).UTC()
		xs = []time.Time{start, start.Add(24 * time.Hour)}
		ys = []float64{0, 0}
		style = gochart.Style{StrokeColor: drawing.ColorWhite, StrokeWidth: 1}
		yRange = &gochart.ContinuousRange{Min: 0, Max: 1}
	case sameTime(xs):
		xs = []time.Time{xs[0], xs[0].Add(time.Second)}
		ys = []float64{ys[0], ys[0]}
	}
	if yRange == nil {
		if lo, hi := bounds(ys); lo == hi {
			yRange = &gochart.ContinuousRange{Min: lo - 1, Max: hi + 1}
		}
	}

	yAxis := gochart.YAxis{Name: o.YAxis.Title}
	if yRange != nil {
		yAxis.Range = yRange
	}

	layout := o.XAxis.LabelFormat
	if layout == "" {
		layout = chart.DefaultSettings().LabelFormat
	}

	return gochart.Chart{
		Title:  o.Title,
		Width:  orDefault(im.Width, 900),
		Height: orDefault(im.Height, 500),
		Background: gochart.Style{
			Padding: gochart.Box{Top: 48, Left: 16, Right: 24, Bottom: 16},
		},
		XAxis: gochart.XAxis{
			Name:           o.XAxis.Title,
			ValueFormatter: timeFormatter(layout),
		},
		YAxis: yAxis,
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    name,
				Style:   style,
				XValues: xs,
				YValues: ys,
			},
		},
	}
}

func plottable(o chart.Options) ([]time.Time, []float64) {
	points := o.Points()
	var xs []time.Time
	var ys []float64
	for i, cat := range o.Categories() {
		if i >= len(points) || !points[i].Y.Valid {
			continue
		}
		t, ok := chart.ParseTime(cat)
		if !ok {
			continue
		}
		xs = append(xs, t)
		ys = append(ys, points[i].Y.Float)
	}
	return xs, ys
}

func timeFormatter(layout string) gochart.ValueFormatter {
	return func(v interface{}) string {
		f, ok := v.(float64)
		if !ok {
			return ""
		}
		return chart.FormatTime(layout, time.Unix(0, int64(f)))
	}
}

func sameTime(xs []time.Time) bool {
	for _, t := range xs[1:] {
		if !t.Equal(xs[0]) {
			return false
		}
	}
	return true
}

func bounds(ys []float64) (float64, float64) {
	lo, hi := ys[0], ys[0]
	for _, y := range ys[1:] {
		if y < lo {
			lo = y
		}
		if y > hi {
			hi = y
		}
	}
	return lo, hi
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
