package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Gemini   Gemini   `mapstructure:"gemini"`
	Pipeline Pipeline `mapstructure:"pipeline"`
	Site     Site     `mapstructure:"site"`
}

// Gemini holds text-generation service configuration.
type Gemini struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// Pipeline holds daily-run configuration.
type Pipeline struct {
	MaxItemsPerDay int    `mapstructure:"max_items_per_day"`
	SkipSummary    bool   `mapstructure:"skip_summary"`
	DataDir        string `mapstructure:"data_dir"`
	ConfigDir      string `mapstructure:"config_dir"`
}

// Site holds static-site output configuration.
type Site struct {
	OutputDir   string `mapstructure:"output_dir"`
	RecentDates int    `mapstructure:"recent_dates"` // Dates shown on the home page
}

var globalConfig *Config

// Load loads the configuration from the environment, an optional .env file,
// and an optional YAML config file.
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(".shinkeireview")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.Pipeline.MaxItemsPerDay <= 0 {
		return nil, fmt.Errorf("pipeline.max_items_per_day must be positive, got %d", config.Pipeline.MaxItemsPerDay)
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary.
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// Reset clears the cached global configuration. Used by tests.
func Reset() {
	globalConfig = nil
	viper.Reset()
}

func setDefaults() {
	viper.SetDefault("gemini.model", "gemini-flash-lite-latest")
	viper.SetDefault("pipeline.max_items_per_day", 10)
	viper.SetDefault("pipeline.skip_summary", false)
	viper.SetDefault("pipeline.data_dir", "data")
	viper.SetDefault("pipeline.config_dir", "config")
	viper.SetDefault("site.output_dir", "site")
	viper.SetDefault("site.recent_dates", 7)
}

func bindEnvironmentVariables() {
	viper.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	viper.BindEnv("gemini.model", "GEMINI_MODEL")
	viper.BindEnv("pipeline.max_items_per_day", "MAX_ITEMS_PER_DAY")
	viper.BindEnv("pipeline.skip_summary", "SKIP_SUMMARY")
	viper.BindEnv("pipeline.data_dir", "DATA_DIR")
	viper.BindEnv("pipeline.config_dir", "CONFIG_DIR")
	viper.BindEnv("site.output_dir", "SITE_DIR")
}
