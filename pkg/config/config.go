// Package config loads vestige configuration from TOML, YAML, or JSON files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultFileName is the config file searched for in the working directory
// and its parents.
const DefaultFileName = ".vestige.toml"

// Config holds all configuration options for vestige.
type Config struct {
	// Analysis settings for the dependency engine.
	Analysis AnalysisConfig `koanf:"analysis" json:"analysis" toml:"analysis"`

	// DeadCode tunes entry-point and confidence classification.
	DeadCode DeadCodeConfig `koanf:"deadcode" json:"deadcode" toml:"deadcode"`

	// Exclude defines file exclusion patterns for the scanner.
	Exclude ExcludeConfig `koanf:"exclude" json:"exclude" toml:"exclude"`

	// Output controls output formatting.
	Output OutputConfig `koanf:"output" json:"output" toml:"output"`
}

// AnalysisConfig controls how the engine runs.
type AnalysisConfig struct {
	// MaxFileSize is the per-file byte ceiling; larger files are skipped
	// with a warning. 0 means no limit.
	MaxFileSize int64 `koanf:"max_file_size" json:"max_file_size" toml:"max_file_size"`

	// Workers bounds the extraction pool. 0 means 2x NumCPU.
	Workers int `koanf:"workers" json:"workers" toml:"workers"`

	// Metrics enables gonum graph metrics in reports.
	Metrics bool `koanf:"metrics" json:"metrics" toml:"metrics"`
}

// DeadCodeConfig tunes dead-code candidate classification.
type DeadCodeConfig struct {
	// EntryPatterns are extra filename regexes treated as entry points,
	// merged with the built-in conventions.
	EntryPatterns []string `koanf:"entry_patterns" json:"entry_patterns" toml:"entry_patterns"`

	// PluginPatterns are filename fragments that suggest registration-style
	// loading and lower candidate confidence.
	PluginPatterns []string `koanf:"plugin_patterns" json:"plugin_patterns" toml:"plugin_patterns"`

	// SkippedDirs are directories conventionally outside static
	// reachability (entry scripts, migrations, fixtures).
	SkippedDirs []string `koanf:"skipped_dirs" json:"skipped_dirs" toml:"skipped_dirs"`

	// MinConfidence filters reported candidates: low, medium, or high.
	MinConfidence string `koanf:"min_confidence" json:"min_confidence" toml:"min_confidence"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns" json:"patterns" toml:"patterns"`
	Dirs      []string `koanf:"dirs" json:"dirs" toml:"dirs"`
	Gitignore bool     `koanf:"gitignore" json:"gitignore" toml:"gitignore"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" json:"format" toml:"format"` // text, json, markdown, toon, yaml
	Color  bool   `koanf:"color" json:"color" toml:"color"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			MaxFileSize: 2 * 1024 * 1024,
			Workers:     0,
			Metrics:     false,
		},
		DeadCode: DeadCodeConfig{
			PluginPatterns: []string{"plugin", "backend", "adapter", "hook", "handler"},
			SkippedDirs:    []string{"scripts", "bin", "migrations", "fixtures", "tools"},
			MinConfidence:  "low",
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*.min.js",
				"*.min.css",
			},
			Dirs: []string{
				"vendor",
				"node_modules",
				".git",
				".vestige",
				"dist",
				"build",
				"target",
				"__pycache__",
			},
			Gitignore: true,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// Load loads configuration from a file, merging over defaults and validating
// the result against the embedded schema.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	if err := ValidateRaw(k.Raw()); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault searches for DefaultFileName from the working directory
// upward and loads it, falling back to defaults when absent or unreadable.
func LoadOrDefault() *Config {
	dir, err := os.Getwd()
	if err != nil {
		return DefaultConfig()
	}
	for {
		path := filepath.Join(dir, DefaultFileName)
		if _, err := os.Stat(path); err == nil {
			if cfg, err := Load(path); err == nil {
				return cfg
			}
			return DefaultConfig()
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return DefaultConfig()
		}
		dir = parent
	}
}
