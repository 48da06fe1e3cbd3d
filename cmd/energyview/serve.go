package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jgoulah/energyview/internal/chart"
	"github.com/jgoulah/energyview/internal/render"
	"github.com/jgoulah/energyview/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive chart over HTTP",
	Long: `Mounts the chart component, which loads the dataset once in the background, and
serves the chart page, a static PNG and the JSON API until interrupted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port (default from config, else 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	component := newComponent(cfg, log)
	component.OnChange(func(o chart.Options) {
		log.Info("chart updated", zap.Int("points", len(o.Categories())))
	})
	width, height := cfg.GetChartSize()
	srv := server.New(component,
		&render.HTML{Width: width, Height: height},
		&render.Image{Format: render.FormatPNG, Width: width, Height: height},
		log,
	)

	addr := fmt.Sprintf(":%d", cfg.GetPort())
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		component.Mount(ctx)
		<-ctx.Done()
		component.Unmount()
		return nil
	})
	g.Go(func() error {
		fmt.Printf("Serving chart on http://localhost%s (dataset from %s)\n", addr, cfg.GetEndpoint())
		return srv.ListenAndServe(ctx, addr)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Println("✓ Server stopped")
	return nil
}
