package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jgoulah/energyview/internal/chart"
	"github.com/jgoulah/energyview/internal/config"
	"github.com/jgoulah/energyview/internal/dashboard"
	"github.com/jgoulah/energyview/internal/loader"
	"github.com/jgoulah/energyview/internal/logging"
)

var (
	cfgFile  string
	endpoint string
	debug    bool
)

var rootCmd = &cobra.Command{
	Use:   "energyview",
	Short: "Chart daily energy consumption with anomaly tooltips",
	Long: `energyview loads daily energy records from an HTTP endpoint and turns them into a
consumption line chart whose tooltips show humidity, temperature and anomaly flags.
The chart can be served, rendered to a file, inspected in headless Chrome or its
anomalies published to MQTT or Kafka.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "dataset URL (default is "+config.DefaultEndpoint+")")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// loadConfig loads the configuration file and applies flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return nil, err
	}
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	return cfg, nil
}

// newLogger builds the logger for the --debug setting
func newLogger() (*zap.Logger, error) {
	log, err := logging.New(debug)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return log, nil
}

// chartSettings maps the chart section of cfg onto presenter settings
func chartSettings(cfg *config.Config) chart.Settings {
	return chart.Settings{
		Title:        cfg.Chart.Title,
		XAxisTitle:   cfg.Chart.XAxisTitle,
		YAxisTitle:   cfg.Chart.YAxisTitle,
		SeriesName:   cfg.Chart.SeriesName,
		TickInterval: cfg.GetTickInterval(),
		LabelFormat:  cfg.GetLabelFormat(),
	}
}

// newComponent builds an unmounted component for the configured endpoint
func newComponent(cfg *config.Config, log *zap.Logger) *dashboard.Component {
	client := loader.New(cfg.GetEndpoint(), loader.WithTimeout(cfg.GetFetchTimeout()))
	return dashboard.New(client, chart.NewPresenter(chartSettings(cfg)), log)
}

// loadComponent mounts a component and waits for its one load to finish.
// A failed fetch has already been logged; the component stays Loading.
func loadComponent(ctx context.Context, cfg *config.Config, log *zap.Logger) (*dashboard.Component, error) {
	fmt.Printf("Fetching dataset from %s...\n", cfg.GetEndpoint())

	c := newComponent(cfg, log)
	c.Mount(ctx)
	if err := c.Wait(ctx); err != nil {
		c.Unmount()
		return nil, fmt.Errorf("waiting for dataset: %w", err)
	}

	if c.State() == dashboard.Loaded {
		fmt.Printf("✓ Loaded %d records\n", len(c.Dataset()))
	} else {
		fmt.Println("⚠ Dataset not loaded, chart will be empty")
	}
	return c, nil
}
