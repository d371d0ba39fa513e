package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Env         string `mapstructure:"ENV"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32  `mapstructure:"DB_MIN_CONNS"`

	// JWTSecret signs and verifies bearer tokens. The server refuses to
	// start without it.
	JWTSecret string `mapstructure:"JWT_SECRET"`

	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`

	// ShelfLifeDays is the fixed window after collection during which a
	// blood unit is usable. 42 days is the standard whole-blood shelf life.
	ShelfLifeDays int `mapstructure:"SHELF_LIFE_DAYS"`

	// CampEndOffsetDays, when > 0, derives a missing camp end date from the
	// start date plus this many days. When 0 the end date is a required
	// input on camp creation.
	CampEndOffsetDays int `mapstructure:"CAMP_END_OFFSET_DAYS"`

	// RequestTransferEnabled makes accepting a blood request move stock
	// from the lab to the requesting hospital in a single transaction.
	// Off by default: labs reconcile inventory manually.
	RequestTransferEnabled bool `mapstructure:"REQUEST_TRANSFER_ENABLED"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("SHELF_LIFE_DAYS", 42)
	v.SetDefault("CAMP_END_OFFSET_DAYS", 0)
	v.SetDefault("REQUEST_TRANSFER_ENABLED", false)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("SHELF_LIFE_DAYS")
	v.BindEnv("CAMP_END_OFFSET_DAYS")
	v.BindEnv("REQUEST_TRANSFER_ENABLED")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. The signing secret
// is mandatory in every mode: a missing secret is a startup error, never a
// runtime crash.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required; refusing to start without a token signing secret")
	}
	if c.IsProduction() && len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters in production, got %d", len(c.JWTSecret))
	}
	if c.ShelfLifeDays <= 0 {
		return fmt.Errorf("SHELF_LIFE_DAYS must be positive, got %d", c.ShelfLifeDays)
	}
	if c.CampEndOffsetDays < 0 {
		return fmt.Errorf("CAMP_END_OFFSET_DAYS must not be negative, got %d", c.CampEndOffsetDays)
	}
	return nil
}
