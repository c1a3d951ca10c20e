// internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/slidesmith/deckforge/internal/units"
)

// Config holds the full engine configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Convert ConvertConfig `mapstructure:"convert" yaml:"convert"`
}

// LoggerConfig controls the zap bootstrap.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"` // "console" or "json"
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`

	// File sink with rotation; empty disables it.
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"` // days
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// BrowserConfig controls the rendering sessions.
type BrowserConfig struct {
	Headless bool     `mapstructure:"headless" yaml:"headless"`
	ExecPath string   `mapstructure:"exec_path" yaml:"exec_path"`
	Args     []string `mapstructure:"args" yaml:"args"`

	// NavigationTimeout bounds loading a document into a tab.
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	// SettleTimeout bounds the wait for layout to finish settling. When it
	// elapses the run fails with a layout-unavailable error rather than
	// hanging on a document that never stabilizes.
	SettleTimeout time.Duration `mapstructure:"settle_timeout" yaml:"settle_timeout"`
	// SettleQuiet is the quiet period that must pass with no layout change
	// before the page counts as settled.
	SettleQuiet time.Duration `mapstructure:"settle_quiet" yaml:"settle_quiet"`
}

// ConvertConfig controls a conversion run.
type ConvertConfig struct {
	// Canvas dimensions in inches; converted to EMU via CanvasEMU.
	CanvasWidthIn  float64 `mapstructure:"canvas_width_in" yaml:"canvas_width_in"`
	CanvasHeightIn float64 `mapstructure:"canvas_height_in" yaml:"canvas_height_in"`

	// MaxTextRunLen truncates each emitted text run to this many runes.
	// 0 means unlimited. This is deliberately a per-call configuration
	// value, not a package constant, so the engine stays side-effect free.
	MaxTextRunLen int `mapstructure:"max_text_run_len" yaml:"max_text_run_len"`

	// Concurrency caps how many documents ConvertDocs renders at once.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// CanvasEMU returns the requested target canvas in EMU.
func (c ConvertConfig) CanvasEMU() (w, h int64) {
	return units.InchesToEMU(c.CanvasWidthIn), units.InchesToEMU(c.CanvasHeightIn)
}

// Default returns the configuration used when no file overrides anything:
// a 10 x 7.5 inch canvas (the classic 4:3 slide) and a headless browser.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults set above always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load reads configuration from an optional YAML file plus DECKFORGE_*
// environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DECKFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "deckforge")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.navigation_timeout", 30*time.Second)
	v.SetDefault("browser.settle_timeout", 15*time.Second)
	v.SetDefault("browser.settle_quiet", 250*time.Millisecond)

	v.SetDefault("convert.canvas_width_in", 10.0)
	v.SetDefault("convert.canvas_height_in", 7.5)
	v.SetDefault("convert.max_text_run_len", 0)
	v.SetDefault("convert.concurrency", 4)
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Convert.CanvasWidthIn <= 0 || c.Convert.CanvasHeightIn <= 0 {
		return fmt.Errorf("convert: canvas dimensions must be positive, got %.2f x %.2f in",
			c.Convert.CanvasWidthIn, c.Convert.CanvasHeightIn)
	}
	if c.Convert.MaxTextRunLen < 0 {
		return fmt.Errorf("convert: max_text_run_len must be >= 0")
	}
	if c.Convert.Concurrency < 1 {
		return fmt.Errorf("convert: concurrency must be >= 1")
	}
	if c.Browser.SettleTimeout <= 0 || c.Browser.NavigationTimeout <= 0 {
		return fmt.Errorf("browser: timeouts must be positive")
	}
	return nil
}
