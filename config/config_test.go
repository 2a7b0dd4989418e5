package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
api:
  addr: ":8080"
solver:
  max_nodes: 500
  eta_c: 0.9
mqtt:
  enabled: true
  broker: tcp://localhost:1883
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.API.Addr)
	assert.Equal(t, 500, cfg.Solver.MaxNodes)
	assert.Equal(t, 0.9, cfg.Solver.EtaC)
	assert.True(t, cfg.MQTT.Enabled)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTT.Broker)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "config.yaml", "api: {}\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7050", cfg.API.Addr)
	assert.Equal(t, 0.95, cfg.Solver.EtaC)
	assert.Equal(t, 0.95, cfg.Solver.EtaD)
	assert.Equal(t, 1e6, cfg.Solver.BigM)
	assert.Equal(t, ":9090", cfg.Metrics.PrometheusAddr)
	assert.Positive(t, cfg.Solver.MaxNodes)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("EVOPT_API__ADDR", ":9999")
	path := writeConfig(t, "config.yaml", "api:\n  addr: \":8080\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.API.Addr)
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{"solver": {"big_m": 100000}}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1e5, cfg.Solver.BigM)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := writeConfig(t, "config.toml", "addr = ':8080'\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")
}

func TestLoadInvalidSolverConfig(t *testing.T) {
	path := writeConfig(t, "config.yaml", "solver:\n  eta_c: 1.5\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "efficiencies")
}

func TestLoadEnabledMQTTRequiresBroker(t *testing.T) {
	path := writeConfig(t, "config.yaml", "mqtt:\n  enabled: true\n")

	_, err := Load(path)
	require.Error(t, err)
}
