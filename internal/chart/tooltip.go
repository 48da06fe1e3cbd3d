package chart

import (
	"html"
	"strconv"
	"strings"
	"time"

	strftime "github.com/ncruces/go-strftime"
)

// utcLayout matches the output of JavaScript's Date.prototype.toUTCString
const utcLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// zoned layouts carry their own offset; a bare date is midnight UTC
var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
}

// localLayouts have a time of day but no zone and are read as local time
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseTime reads a category label as a timestamp. Integer labels are taken
// as milliseconds since the epoch. A date-time without a zone is local time
// while a bare date is UTC, as in JavaScript's Date.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), true
	}
	return time.Time{}, false
}

// UTCString formats a category label like Date.toUTCString. An empty label
// stays empty and an unparseable one becomes "Invalid Date".
func UTCString(s string) string {
	if s == "" {
		return ""
	}
	t, ok := ParseTime(s)
	if !ok {
		return "Invalid Date"
	}
	return t.UTC().Format(utcLayout)
}

// FormatLabel renders a category label for display with the strftime layout
// in the local time zone.
func FormatLabel(layout, s string) string {
	t, ok := ParseTime(s)
	if !ok {
		return "Invalid Date"
	}
	return FormatTime(layout, t)
}

// FormatTime renders t in the local time zone with a strftime layout
func FormatTime(layout string, t time.Time) string {
	return strftime.Format(layout, t.Local())
}

// Tooltip renders the hover text for one point. The anomaly line is only
// present when the point's anomaly is truthy. Field text is HTML-escaped.
func Tooltip(x string, p Point) string {
	var b strings.Builder
	b.WriteString(`<span style="color: blue;">`)
	b.WriteString(UTCString(x))
	b.WriteString(`</span><br/>`)
	b.WriteString(`<span>Consumption: ` + p.Y.NumberString() + `</span><br/>`)
	b.WriteString(`<span>Average Humidity: ` + html.EscapeString(p.AverageHumidity.String()) + `</span><br/>`)
	b.WriteString(`<span>Average Temperature: ` + html.EscapeString(p.AverageTemperature.String()) + `</span><br/>`)
	if p.Anomaly.Truthy() {
		b.WriteString(`<span>Anomaly: ` + html.EscapeString(p.Anomaly.String()) + `</span><br/>`)
	}
	return b.String()
}
