// Package config loads runtime settings from YAML with environment-variable
// fallbacks.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Physics PhysicsConfig `yaml:"physics"`
	Game    GameConfig    `yaml:"game"`
	Server  ServerConfig  `yaml:"server"`
}

type PhysicsConfig struct {
	TickRate         float64 `yaml:"tick_rate"`
	Gravity          float64 `yaml:"gravity"`
	TerminalVelocity float64 `yaml:"terminal_velocity"`
}

type GameConfig struct {
	StartLevel string `yaml:"start_level"`
	Debug      bool   `yaml:"debug"`
}

type ServerConfig struct {
	MetricsAddr string `yaml:"metrics_addr"`
	// Ticks stops the headless runner after this many ticks; 0 runs until
	// cancelled.
	Ticks int `yaml:"ticks"`
}

// Resolved returns the physics settings, resolved config -> env -> default.
func (p PhysicsConfig) Resolved() PhysicsConfig {
	return PhysicsConfig{
		TickRate:         floatWithEnvFallback(p.TickRate, "PONDER_TICK_RATE", 60),
		Gravity:          floatWithEnvFallback(p.Gravity, "PONDER_GRAVITY", 900),
		TerminalVelocity: floatWithEnvFallback(p.TerminalVelocity, "PONDER_TERMINAL_VELOCITY", 600),
	}
}

// GetStartLevel returns the level loaded at startup.
func (g *GameConfig) GetStartLevel() string {
	if g.StartLevel != "" {
		return g.StartLevel
	}
	if v := os.Getenv("PONDER_START_LEVEL"); v != "" {
		return v
	}
	return "start.json"
}

// GetMetricsAddr returns the listen address of the Prometheus endpoint.
func (s *ServerConfig) GetMetricsAddr() string {
	if s.MetricsAddr != "" {
		return s.MetricsAddr
	}
	if v := os.Getenv("PONDER_METRICS_ADDR"); v != "" {
		return v
	}
	return ":2112"
}

func floatWithEnvFallback(configValue float64, envVar string, defaultValue float64) float64 {
	if configValue != 0 {
		return configValue
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		if v, err := strconv.ParseFloat(envVal, 64); err == nil && v != 0 {
			return v
		}
	}
	return defaultValue
}

// Load reads a YAML config file. An empty path falls back to PONDER_CONFIG;
// with neither set it returns an empty Config so every getter uses its
// default.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("PONDER_CONFIG")
		if path == "" {
			return &Config{}, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Physics.TickRate < 0 || cfg.Physics.TerminalVelocity < 0 {
		return nil, fmt.Errorf("config: %s: tick_rate and terminal_velocity must not be negative", path)
	}
	return &cfg, nil
}
