// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Supabase struct {
		URL string `mapstructure:"url" yaml:"url"`
		Key string `mapstructure:"key" yaml:"-"` // Never serialize the service key
	} `mapstructure:"supabase" yaml:"supabase"`

	Embedding struct {
		Model          string `mapstructure:"model" yaml:"model"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		APIKey         string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"embedding" yaml:"embedding"`

	Search struct {
		Limit         int     `mapstructure:"limit" yaml:"limit"`
		MinSimilarity float64 `mapstructure:"min_similarity" yaml:"min_similarity"`
	} `mapstructure:"search" yaml:"search"`

	Categorization struct {
		VoteThreshold     float64 `mapstructure:"vote_threshold" yaml:"vote_threshold"`
		RuleConfidence    float64 `mapstructure:"rule_confidence" yaml:"rule_confidence"`
		DefaultConfidence float64 `mapstructure:"default_confidence" yaml:"default_confidence"`
		DefaultCategory   string  `mapstructure:"default_category" yaml:"default_category"`
	} `mapstructure:"categorization" yaml:"categorization"`

	Rules struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"rules" yaml:"rules"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.txintel")
	v.AddConfigPath(".txintel")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("TXINTEL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// 5. Secrets are always taken from their conventional env names
	if err := v.BindEnv("embedding.api_key", "GEMINI_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind GEMINI_API_KEY environment variable: %v\n", err)
	}
	if err := v.BindEnv("supabase.url", "SUPABASE_URL"); err != nil {
		fmt.Printf("Warning: failed to bind SUPABASE_URL environment variable: %v\n", err)
	}
	if err := v.BindEnv("supabase.key", "SUPABASE_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind SUPABASE_KEY environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Embedding defaults
	v.SetDefault("embedding.model", "embedding-001")
	v.SetDefault("embedding.timeout_seconds", 30)

	// Vector search defaults
	v.SetDefault("search.limit", 10)
	v.SetDefault("search.min_similarity", 0.70)

	// Categorization defaults
	v.SetDefault("categorization.vote_threshold", 0.5)
	v.SetDefault("categorization.rule_confidence", 0.7)
	v.SetDefault("categorization.default_confidence", 0.1)
	v.SetDefault("categorization.default_category", "Other")

	// Rules defaults
	v.SetDefault("rules.file", "rules.yaml")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Embedding.TimeoutSeconds < 1 || config.Embedding.TimeoutSeconds > 300 {
		return fmt.Errorf("embedding.timeout_seconds must be between 1 and 300, got: %d", config.Embedding.TimeoutSeconds)
	}

	if config.Search.Limit < 1 || config.Search.Limit > 100 {
		return fmt.Errorf("search.limit must be between 1 and 100, got: %d", config.Search.Limit)
	}

	if config.Search.MinSimilarity < 0.0 || config.Search.MinSimilarity > 1.0 {
		return fmt.Errorf("search.min_similarity must be between 0.0 and 1.0, got: %f", config.Search.MinSimilarity)
	}

	if config.Categorization.VoteThreshold < 0.0 {
		return fmt.Errorf("categorization.vote_threshold must not be negative, got: %f", config.Categorization.VoteThreshold)
	}

	for name, value := range map[string]float64{
		"categorization.rule_confidence":    config.Categorization.RuleConfidence,
		"categorization.default_confidence": config.Categorization.DefaultConfidence,
	} {
		if value < 0.0 || value > 1.0 {
			return fmt.Errorf("%s must be between 0.0 and 1.0, got: %f", name, value)
		}
	}

	if config.Categorization.DefaultCategory == "" {
		return fmt.Errorf("categorization.default_category must not be empty")
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
