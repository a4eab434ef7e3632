package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	AppEnv     string `mapstructure:"APP_ENV"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`
	ServerAddr string `mapstructure:"SERVER_ADDR"`
	PublicURL  string `mapstructure:"PUBLIC_URL"`

	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	TokenTTL  time.Duration `mapstructure:"TOKEN_TTL"`

	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	StorageDriver  string `mapstructure:"STORAGE_DRIVER"`
	MediaRoot      string `mapstructure:"MEDIA_ROOT"`
	MediaURL       string `mapstructure:"MEDIA_URL"`
	SupabaseURL    string `mapstructure:"SUPABASE_URL"`
	SupabaseKey    string `mapstructure:"SUPABASE_KEY"`
	SupabaseBucket string `mapstructure:"SUPABASE_BUCKET"`

	ShortLinkAlphabet  string `mapstructure:"SHORTLINK_ALPHABET"`
	ShortLinkMinLength int    `mapstructure:"SHORTLINK_MIN_LENGTH"`
}

const (
	StorageLocal    = "local"
	StorageSupabase = "supabase"
)

var AppConfig *Config

var defaults = map[string]any{
	"APP_ENV":              "development",
	"LOG_LEVEL":            "info",
	"SERVER_ADDR":          ":8080",
	"PUBLIC_URL":           "http://localhost:8080",
	"DATABASE_URL":         "",
	"DB_MAX_IDLE_CONNS":    10,
	"DB_MAX_OPEN_CONNS":    100,
	"DB_CONN_MAX_LIFETIME": "1h",
	"JWT_SECRET":           "",
	"TOKEN_TTL":            "168h",
	"CORS_ALLOWED_ORIGINS": "http://localhost:3000",
	"STORAGE_DRIVER":       StorageLocal,
	"MEDIA_ROOT":           "media",
	"MEDIA_URL":            "/media",
	"SUPABASE_URL":         "",
	"SUPABASE_KEY":         "",
	"SUPABASE_BUCKET":      "media",
	"SHORTLINK_ALPHABET":   "",
	"SHORTLINK_MIN_LENGTH": 6,
}

// Load reads configuration from an optional .env file in dir and from the
// environment, which takes precedence.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")
	cfg.MediaURL = strings.TrimRight(cfg.MediaURL, "/")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("DATABASE_URL must be set")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	switch c.StorageDriver {
	case StorageLocal:
	case StorageSupabase:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return errors.New("SUPABASE_URL and SUPABASE_KEY are required for the supabase storage driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.ShortLinkMinLength < 0 || c.ShortLinkMinLength > 255 {
		return fmt.Errorf("SHORTLINK_MIN_LENGTH out of range: %d", c.ShortLinkMinLength)
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() {
	cfg, err := Load(".")
	if err != nil {
		log.Fatalf("Unable to load config, %v", err)
	}
	AppConfig = cfg
}
