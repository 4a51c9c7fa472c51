// Package config loads and merges herbfmt's project configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LintConfig toggles and parameterizes the lint engine's rule set.
type LintConfig struct {
	Disabled []string       `yaml:"disabled"`
	Rules    map[string]string `yaml:"rules"` // name -> expr-lang boolean expression
}

// Config is the contents of a .herbfmt.yml project file, merged with any CLI
// flag overrides.
type Config struct {
	IndentWidth   int        `yaml:"indent_width"`
	MaxLineLength int        `yaml:"max_line_length"`
	Include       []string   `yaml:"include"`
	Exclude       []string   `yaml:"exclude"`
	Lint          LintConfig `yaml:"lint"`
}

// Default returns the configuration used when no .herbfmt.yml is present.
func Default() *Config {
	return &Config{
		IndentWidth:   2,
		MaxLineLength: 80,
		Include:       []string{"**/*.html.erb"},
	}
}

// Load reads and parses the YAML file at path. A missing file is not an
// error: Default() is returned instead, the way a project without a config
// file still formats with sane defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.IndentWidth <= 0 {
		cfg.IndentWidth = 2
	}
	if cfg.MaxLineLength <= 0 {
		cfg.MaxLineLength = 80
	}
	return cfg, nil
}

// Overrides carries CLI flag values that take precedence over the loaded
// file when set (zero values are treated as "not provided").
type Overrides struct {
	IndentWidth   int
	MaxLineLength int
}

// Merge applies o on top of c, returning the effective configuration. c is
// not mutated.
func (c *Config) Merge(o Overrides) *Config {
	merged := *c
	if o.IndentWidth > 0 {
		merged.IndentWidth = o.IndentWidth
	}
	if o.MaxLineLength > 0 {
		merged.MaxLineLength = o.MaxLineLength
	}
	return &merged
}
