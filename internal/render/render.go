// Package render draws chart.Options with third-party charting engines.
package render

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jgoulah/energyview/internal/chart"
)

// Renderer draws a chart from options. Calling Render again with new
// options produces the updated chart.
type Renderer interface {
	Render(w io.Writer, o chart.Options) error
}

// ChartID is the DOM id of the interactive chart container
const ChartID = "energy"

// ForFile picks a renderer from the output file extension
func ForFile(path string, width, height int) (Renderer, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return &HTML{Width: width, Height: height}, nil
	case ".png":
		return &Image{Format: FormatPNG, Width: width, Height: height}, nil
	case ".svg":
		return &Image{Format: FormatSVG, Width: width, Height: height}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (use .html, .png or .svg)", path)
	}
}
