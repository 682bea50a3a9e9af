package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Data      DataConfig      `yaml:"data"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Export    ExportConfig    `yaml:"export"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port            string   `yaml:"port"`
	RateLimit       int      `yaml:"rate_limit"` // requests per window and client IP, 0 disables
	RateWindow      Duration `yaml:"rate_window"`
	CORSOrigin      string   `yaml:"cors_origin"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// DataConfig configures the delivery dataset source
type DataConfig struct {
	Path      string `yaml:"path"`
	Sheet     string `yaml:"sheet"`     // XLSX sheet, first sheet when empty
	Delimiter string `yaml:"delimiter"` // CSV delimiter, single character
	Watch     bool   `yaml:"watch"`     // reload when the file changes
}

// AnalyticsConfig holds the thresholds used to derive fields and KPIs
type AnalyticsConfig struct {
	OnTimeMinutes      float64 `yaml:"on_time_minutes"`
	FastMaxMinutes     float64 `yaml:"fast_max_minutes"`
	MediumMaxMinutes   float64 `yaml:"medium_max_minutes"`
	PickupDelayMinutes float64 `yaml:"pickup_delay_minutes"`
	DefaultDistanceKm  float64 `yaml:"default_distance_km"`
	DeliveryTimeBins   int     `yaml:"delivery_time_bins"`
	RatingBins         int     `yaml:"rating_bins"`
	GeohashPrecision   int     `yaml:"geohash_precision"`
}

// ExportConfig configures file exports
type ExportConfig struct {
	Dir      string `yaml:"dir"`
	Format   string `yaml:"format"`   // csv, xlsx
	Schedule string `yaml:"schedule"` // cron spec, empty disables scheduled exports
}

// DatabaseConfig configures the SQLite history database
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig configures bearer tokens for protected endpoints
type AuthConfig struct {
	JWTSecret string   `yaml:"jwt_secret"` // empty disables authentication
	TokenTTL  Duration `yaml:"token_ttl"`
	Issuer    string   `yaml:"issuer"`
}

// LoggingConfig configures zap
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file or override is given
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            ":8080",
			RateLimit:       120,
			RateWindow:      Duration(time.Minute),
			CORSOrigin:      "*",
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Data: DataConfig{
			Path:      "Last mile Delivery Data.csv",
			Delimiter: ",",
		},
		Analytics: AnalyticsConfig{
			OnTimeMinutes:      60,
			FastMaxMinutes:     60,
			MediumMaxMinutes:   120,
			PickupDelayMinutes: 15,
			DefaultDistanceKm:  5.0,
			DeliveryTimeBins:   30,
			RatingBins:         20,
			GeohashPrecision:   5,
		},
		Export: ExportConfig{
			Dir:    "./exports",
			Format: "csv",
		},
		Database: DatabaseConfig{
			Path: "./data/lastmile.db",
		},
		Auth: AuthConfig{
			TokenTTL: Duration(24 * time.Hour),
			Issuer:   "lastmile-backend",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load 加载配置: defaults, then the YAML file (optional), then .env and environment overrides
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// a missing config file keeps the defaults
		default:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	// .env is optional
	_ = godotenv.Load()

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variables on top of the file configuration
func (c *Config) applyEnvOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if dataPath := os.Getenv("DATA_PATH"); dataPath != "" {
		c.Data.Path = dataPath
	}
	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		c.Database.Path = dbPath
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.Auth.JWTSecret = secret
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if dir := os.Getenv("EXPORT_DIR"); dir != "" {
		c.Export.Dir = dir
	}
	if watch := os.Getenv("DATA_WATCH"); watch != "" {
		if v, err := strconv.ParseBool(watch); err == nil {
			c.Data.Watch = v
		}
	}
}

// Validate checks values that would otherwise fail deep inside a request
func (c *Config) Validate() error {
	if c.Data.Path == "" {
		return fmt.Errorf("data.path must not be empty")
	}
	if len([]rune(c.Data.Delimiter)) != 1 {
		return fmt.Errorf("data.delimiter must be a single character, got %q", c.Data.Delimiter)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.RateWindow.Std() <= 0 {
		return fmt.Errorf("server.rate_window must be positive when server.rate_limit is set")
	}
	if c.Analytics.FastMaxMinutes <= 0 || c.Analytics.MediumMaxMinutes <= c.Analytics.FastMaxMinutes {
		return fmt.Errorf("analytics thresholds must satisfy 0 < fast_max_minutes < medium_max_minutes")
	}
	if c.Analytics.DeliveryTimeBins < 1 || c.Analytics.RatingBins < 1 {
		return fmt.Errorf("histogram bin counts must be positive")
	}
	switch c.Export.Format {
	case "csv", "xlsx":
	default:
		return fmt.Errorf("export.format must be csv or xlsx, got %q", c.Export.Format)
	}
	return nil
}

// DelimiterRune returns the CSV delimiter as a rune
func (c *Config) DelimiterRune() rune {
	return []rune(c.Data.Delimiter)[0]
}

// Duration wraps time.Duration so it can be written as "24h" in YAML
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
