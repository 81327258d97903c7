package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported storage backends for the store indices.
const (
	StorageJSON  = "json"
	StorageBBolt = "bbolt"
	StorageNone  = "none"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName            string        `mapstructure:"app_name"`
	Env                string        `mapstructure:"app_env"`
	LogLevel           string        `mapstructure:"log_level"`
	RetailersFile      string        `mapstructure:"retailers_file"`
	PublishersFile     string        `mapstructure:"publishers_file"`
	OutputFile         string        `mapstructure:"output_file"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`
	BrowserTimeoutSecs int64         `mapstructure:"browser_timeout_seconds"`
	BrowserTimeout     time.Duration `mapstructure:"-"`
	RunIntervalSeconds int64         `mapstructure:"run_interval"`
	RunInterval        time.Duration `mapstructure:"-"`

	StorageType string `mapstructure:"storage_type"`
	DataDir     string `mapstructure:"data_dir"`
	BBoltPath   string `mapstructure:"bbolt_path"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	return FromViper(v)
}

// SetDefaults registers every known key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "flyerboard")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("retailers_file", "./configs/retailers.yaml")
	v.SetDefault("publishers_file", "")
	v.SetDefault("output_file", "./index.html")
	v.SetDefault("http_timeout_seconds", 5)
	v.SetDefault("browser_timeout_seconds", 30)
	v.SetDefault("run_interval", int64((6*time.Hour)/time.Second))
	v.SetDefault("storage_type", StorageJSON)
	v.SetDefault("data_dir", "./data")
	v.SetDefault("bbolt_path", "./data/flyers.db")
}

// FromViper decodes and validates a populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.RetailersFile) == "" {
		return nil, fmt.Errorf("retailers_file must not be empty")
	}
	if strings.TrimSpace(cfg.OutputFile) == "" {
		return nil, fmt.Errorf("output_file must not be empty")
	}

	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if cfg.BrowserTimeoutSecs <= 0 {
		return nil, fmt.Errorf("invalid browser_timeout_seconds (must be positive seconds)")
	}
	cfg.BrowserTimeout = time.Duration(cfg.BrowserTimeoutSecs) * time.Second

	if cfg.RunIntervalSeconds <= 0 {
		return nil, fmt.Errorf("invalid run_interval (must be positive seconds)")
	}
	cfg.RunInterval = time.Duration(cfg.RunIntervalSeconds) * time.Second

	cfg.StorageType = strings.ToLower(strings.TrimSpace(cfg.StorageType))
	switch cfg.StorageType {
	case StorageJSON, StorageBBolt, StorageNone:
	default:
		return nil, fmt.Errorf("unsupported storage_type %q", cfg.StorageType)
	}

	return &cfg, nil
}
