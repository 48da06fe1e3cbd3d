package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jgoulah/energyview/internal/render"
)

var renderOut string

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the chart to a file",
	Long: `Loads the dataset once and writes the chart to a file. The format follows the
extension: .html for the interactive echarts page, .png or .svg for a static image.
An empty chart is still written when the dataset could not be loaded.`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "chart.html", "Output file (.html, .png or .svg)")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	width, height := cfg.GetChartSize()
	r, err := render.ForFile(renderOut, width, height)
	if err != nil {
		return err
	}

	c, err := loadComponent(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer c.Unmount()

	var buf bytes.Buffer
	if err := r.Render(&buf, c.Options()); err != nil {
		return err
	}

	if dir := filepath.Dir(renderOut); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(renderOut, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", renderOut, err)
	}

	fmt.Printf("✓ Wrote %s (%s)\n", renderOut, humanize.Bytes(uint64(buf.Len())))
	return nil
}
