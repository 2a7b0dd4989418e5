package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/andig/evopt/core/metrics"
	"github.com/andig/evopt/core/optimizer"
	"github.com/andig/evopt/infra/mqtt"
	"github.com/andig/evopt/infra/solver"
)

// Config is the full service configuration.
type Config struct {
	API     APIConfig      `json:"api"`
	Solver  SolverConfig   `json:"solver"`
	Metrics metrics.Config `json:"metrics"`
	MQTT    mqtt.Config    `json:"mqtt"`
}

// APIConfig configures the HTTP listener.
type APIConfig struct {
	Addr string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":7050"
	}
}

// SolverConfig bundles the branch and bound tuning with the model defaults
// applied to requests that do not override them.
type SolverConfig struct {
	Tol      float64 `json:"tol"`
	IntTol   float64 `json:"int_tol"`
	MaxNodes int     `json:"max_nodes"`
	EtaC     float64 `json:"eta_c"`
	EtaD     float64 `json:"eta_d"`
	BigM     float64 `json:"big_m"`
}

// BranchConfig maps the tuning section onto the solver configuration.
func (c SolverConfig) BranchConfig() solver.Config {
	return solver.Config{Tol: c.Tol, IntTol: c.IntTol, MaxNodes: c.MaxNodes}
}

// SetDefaults applies the optimizer and solver defaults.
func (c *SolverConfig) SetDefaults() {
	sc := c.BranchConfig()
	sc.SetDefaults()
	c.Tol, c.IntTol, c.MaxNodes = sc.Tol, sc.IntTol, sc.MaxNodes
	oc := optimizer.Config{EtaC: c.EtaC, EtaD: c.EtaD, BigM: c.BigM}
	oc.SetDefaults()
	c.EtaC, c.EtaD, c.BigM = oc.EtaC, oc.EtaD, oc.BigM
}

// Validate checks the efficiency and scaling parameters.
func (c SolverConfig) Validate() error {
	if c.EtaC <= 0 || c.EtaC > 1 || c.EtaD <= 0 || c.EtaD > 1 {
		return fmt.Errorf("efficiencies must be in (0,1]")
	}
	if c.BigM <= 0 {
		return fmt.Errorf("big_m must be positive")
	}
	return nil
}

// Load reads the configuration file (YAML or JSON by extension) and applies
// EVOPT_ environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("EVOPT_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "evopt_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.API.SetDefaults()
	cfg.Solver.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.MQTT.SetDefaults()
	if err := cfg.Solver.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.MQTT.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
