package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for a clump invocation.
// Values are populated from .clump.yaml, CLUMP_* env vars, and CLI flags.
type Config struct {
	DBPath              string  `mapstructure:"db"`
	HubThreshold        int     `mapstructure:"hub_threshold"`
	TopN                int     `mapstructure:"top_n"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	MinClusterSize      int     `mapstructure:"min_cluster_size"`
	JSON                bool    `mapstructure:"json"`
	Verbose             bool    `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("db", "")
	viper.SetDefault("hub_threshold", 15)
	viper.SetDefault("top_n", 10)
	viper.SetDefault("similarity_threshold", 0.8)
	viper.SetDefault("min_cluster_size", 2)
	viper.SetDefault("json", false)
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the analyses cannot use.
func (c Config) Validate() error {
	if c.TopN < 0 {
		return fmt.Errorf("top_n must be >= 0, got %d", c.TopN)
	}
	if c.HubThreshold < 0 {
		return fmt.Errorf("hub_threshold must be >= 0, got %d", c.HubThreshold)
	}
	if c.SimilarityThreshold < -1 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity_threshold must be within [-1, 1], got %g", c.SimilarityThreshold)
	}
	if c.MinClusterSize < 1 {
		return fmt.Errorf("min_cluster_size must be >= 1, got %d", c.MinClusterSize)
	}
	return nil
}
