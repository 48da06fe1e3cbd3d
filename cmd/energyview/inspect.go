package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jgoulah/energyview/internal/browser"
	"github.com/jgoulah/energyview/internal/render"
)

var (
	inspectVisible    bool
	inspectIndexes    []int
	inspectScreenshot string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect chart tooltips in a headless browser",
	Long: `Renders the chart page, opens it in Chrome and asks the live echarts instance for the
tooltip of each point. Optionally saves a screenshot of the chart.`,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectVisible, "visible", false, "Show browser window")
	inspectCmd.Flags().IntSliceVar(&inspectIndexes, "index", nil, "Point indexes to inspect (default all)")
	inspectCmd.Flags().StringVar(&inspectScreenshot, "screenshot", "", "Save a PNG screenshot of the chart to this file")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	c, err := loadComponent(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer c.Unmount()

	page, err := os.CreateTemp("", "energyview-*.html")
	if err != nil {
		return fmt.Errorf("creating temp page: %w", err)
	}
	defer os.Remove(page.Name())

	width, height := cfg.GetChartSize()
	if err := (&render.HTML{Width: width, Height: height}).Render(page, c.Options()); err != nil {
		page.Close()
		return err
	}
	if err := page.Close(); err != nil {
		return fmt.Errorf("writing temp page: %w", err)
	}

	abs, err := filepath.Abs(page.Name())
	if err != nil {
		return fmt.Errorf("resolving temp page: %w", err)
	}
	url := "file://" + abs

	in := &browser.Inspector{
		Visible: inspectVisible || cfg.Browser.Visible,
		Timeout: 2 * time.Minute,
		Log:     log,
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	fmt.Println("Capturing tooltips...")
	captures, err := in.CaptureTooltips(ctx, url, inspectIndexes)
	if err != nil {
		return fmt.Errorf("capturing tooltips: %w", err)
	}

	for _, capture := range captures {
		fmt.Printf("\n[%d]\n", capture.Index)
		fmt.Println(tooltipText(capture.Tooltip))
	}
	fmt.Printf("\n✓ Captured %d tooltips\n", len(captures))

	if inspectScreenshot != "" {
		buf, err := in.Screenshot(ctx, url)
		if err != nil {
			return err
		}
		if err := os.WriteFile(inspectScreenshot, buf, 0644); err != nil {
			return fmt.Errorf("writing screenshot: %w", err)
		}
		fmt.Printf("✓ Saved screenshot to %s (%s)\n", inspectScreenshot, humanize.Bytes(uint64(len(buf))))
	}

	return nil
}

var tooltipMarkup = strings.NewReplacer(
	`<span style="color: blue;">`, "",
	"<span>", "",
	"</span>", "",
	"<br/>", "\n",
)

// tooltipText strips the tooltip markup for terminal output
func tooltipText(html string) string {
	return strings.TrimSpace(tooltipMarkup.Replace(html))
}
