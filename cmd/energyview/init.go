package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jgoulah/energyview/internal/chart"
	"github.com/jgoulah/energyview/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Long:  `Creates the config file (./config.yaml unless --config is given) filled with the default chart, server and publisher settings.`,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path := getConfigPath()
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.Save(path, defaultConfig()); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("✓ Wrote %s\n", path)
	return nil
}

// defaultConfig spells out every default so the file documents itself
func defaultConfig() *config.Config {
	empty := &config.Config{}
	def := chart.DefaultSettings()
	width, height := empty.GetChartSize()

	return &config.Config{
		Endpoint:     empty.GetEndpoint(),
		FetchTimeout: empty.GetFetchTimeout(),
		Chart: config.ChartConfig{
			Title:        def.Title,
			XAxisTitle:   def.XAxisTitle,
			YAxisTitle:   def.YAxisTitle,
			SeriesName:   def.SeriesName,
			TickInterval: empty.GetTickInterval(),
			LabelFormat:  empty.GetLabelFormat(),
			Width:        width,
			Height:       height,
		},
		Server: config.ServerConfig{Port: empty.GetPort()},
		MQTT: config.MQTTConfig{
			Broker:      "localhost:1883",
			TopicPrefix: empty.GetTopicPrefix(),
		},
		Kafka: config.KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topic:   empty.GetKafkaTopic(),
		},
	}
}
