// Package config loads the optional YAML tuning file. All scan inputs come
// from the command line; the config file only carries knobs that rarely
// change between runs.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds tuning loaded from the config file.
type Config struct {
	LogLevel string `yaml:"log_level"`
	// RenderIntervalMs is the status-line refresh cadence in milliseconds.
	RenderIntervalMs int `yaml:"render_interval_ms"`
	// LogIntervalS is the progress log-line cadence in seconds.
	LogIntervalS int `yaml:"log_interval_s"`
	// MaxDepth bounds filesystem traversal depth.
	MaxDepth int `yaml:"max_depth"`
	// MetadataPrefix marks filesystem-reserved entries to skip.
	MetadataPrefix string `yaml:"metadata_prefix"`
	// JournalPath enables the SQLite scan journal when non-empty.
	JournalPath string `yaml:"journal_path"`
}

// applyDefaults fills zero/empty fields with sensible defaults.
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.RenderIntervalMs == 0 {
		c.RenderIntervalMs = 200
	}
	if c.LogIntervalS == 0 {
		c.LogIntervalS = 1
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = 255
	}
	if c.MetadataPrefix == "" {
		c.MetadataPrefix = "$"
	}
}

// Load reads and parses the YAML config file at path. A missing file yields
// a default Config so the tool runs without one.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		var cfg Config
		cfg.applyDefaults()
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open config %q: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}
