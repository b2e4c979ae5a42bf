package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Port                   string        `mapstructure:"PORT" validate:"required,numeric"`
	Env                    string        `mapstructure:"ENV" validate:"oneof=development test production"`
	DatabaseURL            string        `mapstructure:"DATABASE_URL" validate:"required"`
	DBMaxConns             int32         `mapstructure:"DB_MAX_CONNS" validate:"gte=1"`
	DBMinConns             int32         `mapstructure:"DB_MIN_CONNS" validate:"gte=0,ltefield=DBMaxConns"`
	RedisURL               string        `mapstructure:"REDIS_URL"`
	GlobalPropertyCacheTTL time.Duration `mapstructure:"GLOBAL_PROPERTY_CACHE_TTL"`
	DefaultTenant          string        `mapstructure:"DEFAULT_TENANT" validate:"required,alphanum"`
	DefaultLocale          string        `mapstructure:"DEFAULT_LOCALE" validate:"required,bcp47_language_tag"`
	CORSOrigins            []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS           float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst         int           `mapstructure:"RATE_LIMIT_BURST"`
	AuthIssuer             string        `mapstructure:"AUTH_ISSUER"`
	AuthAudience           string        `mapstructure:"AUTH_AUDIENCE"`
	AuthSigningKey         string        `mapstructure:"AUTH_SIGNING_KEY"`
	MigrationsDir          string        `mapstructure:"MIGRATIONS_DIR"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("GLOBAL_PROPERTY_CACHE_TTL", "5m")
	v.SetDefault("DEFAULT_TENANT", "default")
	v.SetDefault("DEFAULT_LOCALE", "en")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("MIGRATIONS_DIR", "./migrations")

	for _, key := range []string{
		"PORT", "ENV", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
		"REDIS_URL", "GLOBAL_PROPERTY_CACHE_TTL", "DEFAULT_TENANT", "DEFAULT_LOCALE",
		"CORS_ORIGINS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
		"AUTH_ISSUER", "AUTH_AUDIENCE", "AUTH_SIGNING_KEY", "MIGRATIONS_DIR",
	} {
		v.BindEnv(key)
	}

	// A missing .env file is fine; the environment wins anyway.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.CORSOrigins) <= 1 {
		if origins := v.GetString("CORS_ORIGINS"); origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: running in DEVELOPMENT mode, every request is treated as an admin user")
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

// Validate checks struct constraints and the cross-field rules that tags
// cannot express. Outside development a signing key is mandatory so that
// bearer tokens are verified.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if !c.IsDev() && c.AuthSigningKey == "" {
		return fmt.Errorf("AUTH_SIGNING_KEY must be set when ENV=%q", c.Env)
	}
	if c.RedisURL != "" && c.GlobalPropertyCacheTTL <= 0 {
		return fmt.Errorf("GLOBAL_PROPERTY_CACHE_TTL must be positive when REDIS_URL is set")
	}
	return nil
}
