package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/energyview/internal/config"
	"github.com/jgoulah/energyview/internal/dashboard"
	"github.com/jgoulah/energyview/internal/publisher"
)

var (
	publishSink   string
	publishDryRun bool
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish anomaly records to MQTT or Kafka",
	Long: `Loads the dataset once and publishes one JSON message for each record flagged as an
anomaly. The MQTT sink uses <topic_prefix>/anomaly; the Kafka sink keys messages by date.`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishSink, "sink", "", "Sink to publish to: mqtt or kafka (default: whichever is enabled in config)")
	publishCmd.Flags().BoolVar(&publishDryRun, "dry-run", false, "Print the payloads without publishing")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

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

	if c.State() != dashboard.Loaded {
		return fmt.Errorf("no dataset loaded from %s", cfg.GetEndpoint())
	}

	payloads := publisher.Anomalies(c.Dataset(), c.Options())
	if len(payloads) == 0 {
		fmt.Println("No anomalies to publish")
		return nil
	}
	fmt.Printf("Found %d anomalies\n", len(payloads))

	if publishDryRun {
		for _, p := range payloads {
			body, err := p.Encode()
			if err != nil {
				return err
			}
			fmt.Println(string(body))
		}
		return nil
	}

	if err := publisher.RouteMQTTLogs(log); err != nil {
		return err
	}

	sink, err := openSink(cfg, publishSink)
	if err != nil {
		return err
	}
	defer sink.Close()

	n, err := publisher.PublishAll(cmd.Context(), sink, payloads)
	if err != nil {
		fmt.Printf("⚠ Published %d of %d anomalies\n", n, len(payloads))
		return err
	}

	fmt.Printf("✓ Published %d anomalies to %s\n", n, sink.Name())
	return nil
}

// openSink resolves the sink from the flag, falling back to the one enabled in config
func openSink(cfg *config.Config, name string) (publisher.Sink, error) {
	if name == "" {
		switch {
		case cfg.MQTT.Enabled:
			name = "mqtt"
		case cfg.Kafka.Enabled:
			name = "kafka"
		default:
			return nil, fmt.Errorf("no sink selected: pass --sink or enable mqtt or kafka in config")
		}
	}

	switch name {
	case "mqtt":
		sink, err := publisher.NewMQTT(cfg)
		if err != nil {
			return nil, fmt.Errorf("creating mqtt sink: %w", err)
		}
		fmt.Printf("Publishing to MQTT topic %s\n", sink.Topic())
		return sink, nil
	case "kafka":
		sink, err := publisher.NewKafka(cfg)
		if err != nil {
			return nil, fmt.Errorf("creating kafka sink: %w", err)
		}
		fmt.Printf("Publishing to Kafka topic %s\n", sink.Topic())
		return sink, nil
	default:
		return nil, fmt.Errorf("unknown sink: %s (available: mqtt, kafka)", name)
	}
}
