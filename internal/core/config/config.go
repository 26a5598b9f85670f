// Package config handles configuration loading and validation for docsync.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/colonyops/docsync/internal/core/approx"
	"github.com/colonyops/docsync/internal/core/styles"
	"github.com/colonyops/docsync/internal/render"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Sync    SyncConfig    `yaml:"sync"`
	Render  RenderConfig  `yaml:"render"`
	Preview PreviewConfig `yaml:"preview"`
	Log     LogConfig     `yaml:"log"`
}

// SyncConfig tunes the position mapper and the sync coordinator.
type SyncConfig struct {
	Debounce       time.Duration `yaml:"debounce"`
	ContextLines   int           `yaml:"context_lines"`
	SearchRadius   int           `yaml:"search_radius"`
	TargetRadius   int           `yaml:"target_radius"`
	CommentPattern string        `yaml:"comment_pattern"` // regexp matched at line start; empty uses built-in markers
}

// RenderConfig selects and configures renderers.
type RenderConfig struct {
	Width     int            `yaml:"width"`
	Style     string         `yaml:"style"` // glamour style name or path to a style file
	Renderers []RendererRule `yaml:"renderers"`
}

// RendererRule maps a doublestar glob to a renderer kind.
type RendererRule struct {
	Pattern string      `yaml:"pattern"`
	Kind    render.Kind `yaml:"kind"`
}

// PreviewConfig controls which directions the preview syncs.
type PreviewConfig struct {
	FollowCursor bool   `yaml:"follow_cursor"`
	SyncOnClick  bool   `yaml:"sync_on_click"`
	Theme        string `yaml:"theme"`
}

// LogConfig configures the log file. Flags and environment variables take
// precedence.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	opts := approx.DefaultOptions()
	return &Config{
		Sync: SyncConfig{
			Debounce:     350 * time.Millisecond,
			ContextLines: opts.ContextLines,
			SearchRadius: opts.SearchRadius,
			TargetRadius: opts.TargetRadius,
		},
		Render: RenderConfig{
			Width: 80,
			Style: "notty",
			Renderers: []RendererRule{
				{Pattern: "**/*.md", Kind: render.KindMarkdown},
				{Pattern: "**/*.{html,htm}", Kind: render.KindHTML},
			},
		},
		Preview: PreviewConfig{
			FollowCursor: true,
			SyncOnClick:  true,
			Theme:        styles.DefaultTheme,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the given path.
// If configPath is empty or doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Sync.Debounce == 0 {
		c.Sync.Debounce = defaults.Sync.Debounce
	}
	if c.Sync.SearchRadius == 0 {
		c.Sync.SearchRadius = defaults.Sync.SearchRadius
	}
	if c.Sync.TargetRadius == 0 {
		c.Sync.TargetRadius = defaults.Sync.TargetRadius
	}
	if c.Render.Width == 0 {
		c.Render.Width = defaults.Render.Width
	}
	if c.Render.Style == "" {
		c.Render.Style = defaults.Render.Style
	}
	if c.Preview.Theme == "" {
		c.Preview.Theme = defaults.Preview.Theme
	}
}

// Validate performs structural checks that need no I/O.
func (c *Config) Validate() error {
	if c.Sync.Debounce < 0 {
		return fmt.Errorf("sync.debounce must not be negative, got %s", c.Sync.Debounce)
	}
	if c.Sync.ContextLines < 0 {
		return fmt.Errorf("sync.context_lines must not be negative, got %d", c.Sync.ContextLines)
	}
	if c.Sync.SearchRadius < 0 {
		return fmt.Errorf("sync.search_radius must be positive, got %d", c.Sync.SearchRadius)
	}
	if c.Sync.TargetRadius < 0 {
		return fmt.Errorf("sync.target_radius must be positive, got %d", c.Sync.TargetRadius)
	}
	if c.Render.Width < 0 {
		return fmt.Errorf("render.width must be positive, got %d", c.Render.Width)
	}

	for i, rule := range c.Render.Renderers {
		if rule.Pattern == "" {
			return fmt.Errorf("render.renderers[%d]: pattern is required", i)
		}
		if !rule.Kind.IsValid() {
			return fmt.Errorf("render.renderers[%d]: invalid kind %q", i, rule.Kind)
		}
	}

	return nil
}

// MapperOptions converts the sync settings into position mapper options.
func (c *Config) MapperOptions() (approx.Options, error) {
	opts := approx.Options{
		ContextLines: c.Sync.ContextLines,
		SearchRadius: c.Sync.SearchRadius,
		TargetRadius: c.Sync.TargetRadius,
	}
	if c.Sync.CommentPattern != "" {
		re, err := regexp.Compile(c.Sync.CommentPattern)
		if err != nil {
			return approx.Options{}, fmt.Errorf("sync.comment_pattern: %w", err)
		}
		opts.CommentPattern = re
	}
	return opts, nil
}

// RenderRules converts the renderer table for the render registry.
func (c *Config) RenderRules() []render.Rule {
	rules := make([]render.Rule, 0, len(c.Render.Renderers))
	for _, r := range c.Render.Renderers {
		rules = append(rules, render.Rule{Pattern: r.Pattern, Kind: r.Kind})
	}
	return rules
}

// RenderOptions returns the layout options for renderers.
func (c *Config) RenderOptions() render.Options {
	return render.Options{Width: c.Render.Width, Style: c.Render.Style}
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
