// Package config resolves the Compass server configuration from defaults, an
// optional YAML config file, and environment variables, in that order of
// increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

// Config holds the resolved server configuration.
type Config struct {
	// DataDir is the application data directory holding the workspace
	// registry and the server config file. Defaults to ~/.compass.
	DataDir string `env:"COMPASS_DATA_DIR" yaml:"data_dir"`

	// LogDir is where session log files are written. Defaults to
	// <data-dir>/logs.
	LogDir string `env:"COMPASS_LOG_DIR" yaml:"log_dir"`

	// ToolFilter is an optional list of glob patterns selecting which MCP
	// tools the server registers (e.g. "goal_*"). Empty registers all tools.
	ToolFilter []string `env:"COMPASS_TOOL_FILTER" envSeparator:"," yaml:"tool_filter"`
}

// Default returns the built-in configuration rooted at the user's home
// directory.
func Default() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("config: resolve home directory: %w", err)
	}
	dataDir := filepath.Join(home, ".compass")
	return Config{
		DataDir: dataDir,
		LogDir:  filepath.Join(dataDir, "logs"),
	}, nil
}

// Load resolves the configuration. A missing config file is not an error; an
// unreadable or malformed one is. When path is empty the file is looked up at
// <data-dir>/config.yaml.
func Load(path string) (Config, error) {
	defaults, err := Default()
	if err != nil {
		return Config{}, err
	}
	if path == "" {
		path = filepath.Join(defaults.DataDir, configFileName)
	}
	var cfg Config
	b, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}
	// Unset values fall back to the defaults. LogDir follows the resolved
	// data dir so a custom data dir keeps its logs nearby.
	if cfg.DataDir == "" {
		cfg.DataDir = defaults.DataDir
	}
	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.DataDir, "logs")
	}
	return cfg, nil
}

// ToolMatcher compiles the tool filter into a match function. An empty filter
// matches every tool name.
func (c Config) ToolMatcher() (func(string) bool, error) {
	if len(c.ToolFilter) == 0 {
		return func(string) bool { return true }, nil
	}
	globs := make([]glob.Glob, 0, len(c.ToolFilter))
	for _, pattern := range c.ToolFilter {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("config: tool filter pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return func(name string) bool {
		for _, g := range globs {
			if g.Match(name) {
				return true
			}
		}
		return false
	}, nil
}
