package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultEndpoint is where the energy dataset is served during development
	DefaultEndpoint = "http://localhost:3000/energy"
	// DefaultTickInterval labels roughly every 50th category
	DefaultTickInterval = 50
	// DefaultLabelFormat is the strftime layout used for static axis labels
	DefaultLabelFormat = "%m/%d/%Y, %r"
)

// Config holds the application configuration
type Config struct {
	Endpoint     string        `yaml:"endpoint,omitempty"`
	FetchTimeout time.Duration `yaml:"fetch_timeout,omitempty"` // Fallback: 30s
	Chart        ChartConfig   `yaml:"chart,omitempty"`
	Server       ServerConfig  `yaml:"server,omitempty"`
	MQTT         MQTTConfig    `yaml:"mqtt,omitempty"`
	Kafka        KafkaConfig   `yaml:"kafka,omitempty"`
	Browser      BrowserConfig `yaml:"browser,omitempty"`
}

// ChartConfig holds the presentation settings of the consumption chart
type ChartConfig struct {
	Title        string `yaml:"title,omitempty"`
	XAxisTitle   string `yaml:"x_axis_title,omitempty"`
	YAxisTitle   string `yaml:"y_axis_title,omitempty"`
	SeriesName   string `yaml:"series_name,omitempty"`
	TickInterval int    `yaml:"tick_interval,omitempty"`
	LabelFormat  string `yaml:"label_format,omitempty"` // strftime layout, e.g. "%m/%d/%Y, %r"
	Width        int    `yaml:"width,omitempty"`        // pixels
	Height       int    `yaml:"height,omitempty"`       // pixels
}

// ServerConfig holds the HTTP server configuration
type ServerConfig struct {
	Port int `yaml:"port,omitempty"`
}

// MQTTConfig holds the MQTT broker used to publish anomalies
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // e.g., "localhost:1883"
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"` // default "energyview"
	ClientID    string `yaml:"client_id,omitempty"`
}

// KafkaConfig holds the Kafka cluster used to publish anomalies
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic,omitempty"` // default "energy.anomalies"
}

// BrowserConfig holds headless browser settings for inspect
type BrowserConfig struct {
	Visible bool `yaml:"visible,omitempty"`
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// GetEndpoint returns the dataset endpoint, falling back to the local dev server
func (c *Config) GetEndpoint() string {
	if c.Endpoint == "" {
		return DefaultEndpoint
	}
	return c.Endpoint
}

// GetFetchTimeout returns the HTTP timeout for the dataset fetch
func (c *Config) GetFetchTimeout() time.Duration {
	if c.FetchTimeout <= 0 {
		return 30 * time.Second
	}
	return c.FetchTimeout
}

// GetTickInterval returns the category tick interval with a default of 50
func (c *Config) GetTickInterval() int {
	if c.Chart.TickInterval <= 0 {
		return DefaultTickInterval
	}
	return c.Chart.TickInterval
}

// GetLabelFormat returns the strftime layout for static axis labels
func (c *Config) GetLabelFormat() string {
	if c.Chart.LabelFormat == "" {
		return DefaultLabelFormat
	}
	return c.Chart.LabelFormat
}

// GetChartSize returns the chart width and height in pixels
func (c *Config) GetChartSize() (int, int) {
	w, h := c.Chart.Width, c.Chart.Height
	if w <= 0 {
		w = 900
	}
	if h <= 0 {
		h = 500
	}
	return w, h
}

// GetPort returns the HTTP port, default 8080
func (c *Config) GetPort() int {
	if c.Server.Port <= 0 {
		return 8080
	}
	return c.Server.Port
}

// GetTopicPrefix returns the MQTT topic prefix
func (c *Config) GetTopicPrefix() string {
	if c.MQTT.TopicPrefix == "" {
		return "energyview"
	}
	return c.MQTT.TopicPrefix
}

// GetKafkaTopic returns the Kafka topic for anomaly events
func (c *Config) GetKafkaTopic() string {
	if c.Kafka.Topic == "" {
		return "energy.anomalies"
	}
	return c.Kafka.Topic
}
