package render

import (
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/jgoulah/energyview/internal/chart"
)

// labelFormatter shows category timestamps in the viewer's locale
const labelFormatter = `function (value) { return new Date(value).toLocaleString(); }`

// HTML renders an interactive echarts page
type HTML struct {
	Width      int    // pixels, default 900
	Height     int    // pixels, default 500
	AssetsHost string // where echarts.min.js is served from, empty for the go-echarts CDN
}

// Render writes a complete HTML page for o
func (h *HTML) Render(w io.Writer, o chart.Options) error {
	if err := h.Line(o).Render(w); err != nil {
		return fmt.Errorf("rendering html chart: %w", err)
	}
	return nil
}

// Line builds the go-echarts line chart for o
func (h *HTML) Line(o chart.Options) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:  o.Title,
			ChartID:    ChartID,
			Width:      pixels(h.Width, 900),
			Height:     pixels(h.Height, 500),
			AssetsHost: h.AssetsHost,
		}),
		charts.WithTitleOpts(opts.Title{Title: o.Title}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "item",
			Formatter: opts.FuncOpts(tooltipFormatter(o.Tooltips)),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: o.XAxis.Title,
			Type: "category",
			AxisLabel: &opts.AxisLabel{
				Show:      opts.Bool(true),
				Interval:  labelInterval(o.XAxis.TickInterval),
				Formatter: opts.FuncOpts(labelFormatter),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: o.YAxis.Title,
			Type: "value",
		}),
	)

	// the x axis data must be set after the axis options, which replace it
	line.SetXAxis(categoryData(o.Categories()))
	for _, s := range o.Series {
		line.AddSeries(s.Name, lineData(s.Data))
	}
	return line
}

// categoryData HTML-escapes the categories; go-echarts writes the options
// into the page unescaped. Dates contain nothing that escaping changes.
func categoryData(categories []string) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = html.EscapeString(c)
	}
	return out
}

func lineData(points []chart.Point) []opts.LineData {
	items := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		if !p.Y.Valid || math.IsNaN(p.Y.Float) || math.IsInf(p.Y.Float, 0) {
			// echarts treats "-" as a gap
			items = append(items, opts.LineData{Value: "-"})
			continue
		}
		items = append(items, opts.LineData{Value: p.Y.Float})
	}
	return items
}

// tooltipFormatter embeds the precomputed tooltips and picks one by index.
// go-echarts JSON-encodes function bodies before unwrapping them, so the
// generated code sticks to single-quoted strings and no backslashes.
func tooltipFormatter(tips []string) string {
	var b strings.Builder
	b.WriteString("function (params) { var tips = [")
	for i, t := range tips {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('\'')
		b.WriteString(jsText(t))
		b.WriteByte('\'')
	}
	b.WriteString("]; return tips[params.dataIndex] || ''; }")
	return b.String()
}

// jsText makes s safe inside a single-quoted string in a script block.
// Every "<" is followed by a string concatenation so no closing tag can
// appear in the page source.
var jsTextReplacer = strings.NewReplacer(
	`\`, "&#92;",
	`'`, "&#39;",
	"<", "<'+'",
	"\n", " ",
	"\r", " ",
)

func jsText(s string) string {
	return jsTextReplacer.Replace(s)
}

// labelInterval converts a tick interval in categories to the number of
// labels echarts skips between two shown labels
func labelInterval(tick int) string {
	if tick <= 1 {
		return "0"
	}
	return strconv.Itoa(tick - 1)
}

func pixels(v, def int) string {
	if v <= 0 {
		v = def
	}
	return strconv.Itoa(v) + "px"
}
