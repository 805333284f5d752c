// Package config loads application configuration from config.yaml and
// RESOURCEMAP_* environment variables, and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	InputDir    string         `yaml:"input_dir" mapstructure:"input_dir"`
	OutputDir   string         `yaml:"output_dir" mapstructure:"output_dir"`
	SourcesFile string         `yaml:"sources_file" mapstructure:"sources_file"`
	CatalogPath string         `yaml:"catalog_path" mapstructure:"catalog_path"`
	Database    DatabaseConfig `yaml:"database" mapstructure:"database"`
	Server      ServerConfig   `yaml:"server" mapstructure:"server"`
	Log         LogConfig      `yaml:"log" mapstructure:"log"`
}

// DatabaseConfig configures the optional PostGIS export target.
type DatabaseConfig struct {
	URL string `yaml:"url" mapstructure:"url"`
}

// ServerConfig configures the asset preview server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("RESOURCEMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("input_dir", "input")
	v.SetDefault("output_dir", "docs/resource_map/assets")
	v.SetDefault("sources_file", "sources.yaml")
	v.SetDefault("catalog_path", "resource_map.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
