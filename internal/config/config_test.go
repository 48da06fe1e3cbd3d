package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultEndpoint, cfg.GetEndpoint())
	assert.Equal(t, 30*time.Second, cfg.GetFetchTimeout())
	assert.Equal(t, 50, cfg.GetTickInterval())
	assert.Equal(t, DefaultLabelFormat, cfg.GetLabelFormat())
	assert.Equal(t, 8080, cfg.GetPort())
	assert.Equal(t, "energyview", cfg.GetTopicPrefix())
	assert.Equal(t, "energy.anomalies", cfg.GetKafkaTopic())

	w, h := cfg.GetChartSize()
	assert.Equal(t, 900, w)
	assert.Equal(t, 500, h)
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
endpoint: http://energy.local/energy
fetch_timeout: 5s
chart:
  title: Household
  tick_interval: 24
server:
  port: 9090
mqtt:
  enabled: true
  broker: broker.local:1883
kafka:
  enabled: true
  brokers: [k1:9092, k2:9092]
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://energy.local/energy", cfg.GetEndpoint())
	assert.Equal(t, 5*time.Second, cfg.GetFetchTimeout())
	assert.Equal(t, "Household", cfg.Chart.Title)
	assert.Equal(t, 24, cfg.GetTickInterval())
	assert.Equal(t, 9090, cfg.GetPort())
	assert.True(t, cfg.MQTT.Enabled)
	assert.Equal(t, "broker.local:1883", cfg.MQTT.Broker)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chart: [unterminated"), 0600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	in := &Config{Endpoint: "http://x/energy", Chart: ChartConfig{TickInterval: 10}}

	require.NoError(t, Save(path, in))
	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in.Endpoint, out.Endpoint)
	assert.Equal(t, 10, out.GetTickInterval())
}
