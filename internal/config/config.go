// Package config carries the settings shared by the pdfformkit utilities.
// Values come from defaults, PDF_FORMKIT_* environment variables and
// command-line flags, in rising priority.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// DefaultPageCeiling rejects documents with more pages outright.
	DefaultPageCeiling = 100
	// DefaultMaxConvertPages caps pages converted per invocation.
	DefaultMaxConvertPages = 50
	// DefaultRenderDPI is the rasterization resolution.
	DefaultRenderDPI = 96.0
	// DefaultJPEGQuality is the JPEG encoder quality.
	DefaultJPEGQuality = 85

	DefaultLogLevel  = "info"
	DefaultOutputDir = "output"

	envPrefix = "PDF_FORMKIT"
)

// Config holds all tunables for the CLI utilities.
type Config struct {
	LogLevel        string
	PageCeiling     int
	MaxConvertPages int
	RenderDPI       float64
	JPEGQuality     int
	OutputDir       string
}

// Default returns a configuration with the shipped defaults.
func Default() *Config {
	return &Config{
		LogLevel:        DefaultLogLevel,
		PageCeiling:     DefaultPageCeiling,
		MaxConvertPages: DefaultMaxConvertPages,
		RenderDPI:       DefaultRenderDPI,
		JPEGQuality:     DefaultJPEGQuality,
		OutputDir:       DefaultOutputDir,
	}
}

// Load defines the shared flags, parses the command line (including any
// flags the caller registered beforehand) and returns the effective
// configuration.
func Load() (*Config, error) {
	cfg := Default()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()

	pflag.Parse()

	populateConfigFromViper(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("pageceiling", cfg.PageCeiling)
	viper.SetDefault("maxpages", cfg.MaxConvertPages)
	viper.SetDefault("dpi", cfg.RenderDPI)
	viper.SetDefault("quality", cfg.JPEGQuality)
	viper.SetDefault("outputdir", cfg.OutputDir)
}

func defineCommandLineFlags(cfg *Config) {
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int("pageceiling", cfg.PageCeiling, "Reject documents with more pages than this")
	pflag.Int("maxpages", cfg.MaxConvertPages, "Maximum pages converted per invocation")
	pflag.Float64("dpi", cfg.RenderDPI, "Rasterization resolution in DPI")
	pflag.Int("quality", cfg.JPEGQuality, "JPEG quality (1-100)")
}

func bindFlagsToViper() {
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("pageceiling", pflag.Lookup("pageceiling"))
	_ = viper.BindPFlag("maxpages", pflag.Lookup("maxpages"))
	_ = viper.BindPFlag("dpi", pflag.Lookup("dpi"))
	_ = viper.BindPFlag("quality", pflag.Lookup("quality"))
}

func populateConfigFromViper(cfg *Config) {
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.PageCeiling = viper.GetInt("pageceiling")
	cfg.MaxConvertPages = viper.GetInt("maxpages")
	cfg.RenderDPI = viper.GetFloat64("dpi")
	cfg.JPEGQuality = viper.GetInt("quality")
	cfg.OutputDir = viper.GetString("outputdir")
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.PageCeiling < 1 {
		return errors.New("page ceiling must be positive")
	}
	if c.MaxConvertPages < 1 {
		return errors.New("maximum convert pages must be positive")
	}
	if c.MaxConvertPages > c.PageCeiling {
		return errors.New("maximum convert pages cannot exceed the page ceiling")
	}
	if c.RenderDPI <= 0 {
		return errors.New("render DPI must be positive")
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return errors.New("JPEG quality must be between 1 and 100")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	return nil
}

// NewLogger builds the stderr logger every utility injects into its
// components. Stdout stays reserved for the machine-readable result.
func (c *Config) NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}
