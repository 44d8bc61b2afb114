package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string `env:"APP_ENV" env-default:"development"`
	ServerAddr string `env:"SERVER_ADDR" env-default:":8080"`

	// MongoURI left empty runs the service on the in-memory record store.
	MongoURI string `env:"MONGO_URI"`
	MongoDB  string `env:"MONGO_DB"`

	RedisURL        string `env:"REDIS_URL"`
	RedisAddr       string `env:"REDIS_ADDR"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB" env-default:"0"`
	RedisPrefix     string `env:"REDIS_PREFIX" env-default:"capella:"`
	CacheTTLSeconds int    `env:"CACHE_TTL_SECONDS" env-default:"60"`

	AdminAPIKey       string `env:"ADMIN_API_KEY"`
	AdminUser         string `env:"ADMIN_USER" env-default:"admin"`
	AdminPassword     string `env:"ADMIN_PASSWORD"`
	JWTSecret         string `env:"JWT_SECRET"`
	AccessTTLMinutes  int    `env:"ACCESS_TTL_MINUTES" env-default:"15"`
	RefreshTTLMinutes int    `env:"REFRESH_TTL_MINUTES" env-default:"43200"`
	CookieSecure      bool   `env:"COOKIE_SECURE" env-default:"false"`

	FrontendOrigins    []string `env:"FRONTEND_ORIGINS" env-default:"http://localhost:3000"`
	RateLimitAdmin     int      `env:"RATE_LIMIT_ADMIN" env-default:"10"`
	RateLimitWindowSec int      `env:"RATE_LIMIT_WINDOW_SEC" env-default:"60"`
	// TrustProxy honours X-Forwarded-For / X-Real-IP; enable only behind a
	// reverse proxy that overwrites them.
	TrustProxy bool `env:"TRUST_PROXY" env-default:"false"`

	TimezoneName  string `env:"TZ" env-default:"America/Bogota"`
	SiteURL       string `env:"SITE_URL" env-default:"http://localhost:8080"`
	PermalinkBase string `env:"PERMALINK_BASE" env-default:"portafolio"`
	APINamespace  string `env:"API_NAMESPACE" env-default:"informatico/v1"`

	Timezone *time.Location
}

// Load reads the configuration from the environment, plus the file at path
// when one exists (.env, yaml, json or toml).
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" && fileExists(path) {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	loc, err := time.LoadLocation(cfg.TimezoneName)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.TimezoneName, err)
	}
	cfg.Timezone = loc

	if cfg.MongoURI != "" && cfg.MongoDB == "" {
		cfg.MongoDB = mongoDBFromURI(cfg.MongoURI)
	}
	if cfg.MongoURI != "" && cfg.MongoDB == "" {
		cfg.MongoDB = "capella"
	}
	cfg.APINamespace = strings.Trim(cfg.APINamespace, "/")
	if cfg.APINamespace == "" {
		return nil, errors.New("API_NAMESPACE must not be empty")
	}
	return &cfg, nil
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.AccessTTLMinutes) * time.Minute
}

func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTTLMinutes) * time.Minute
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSec) * time.Second
}

func mongoDBFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	db := strings.Trim(u.Path, "/")
	if idx := strings.Index(db, "/"); idx >= 0 {
		db = db[:idx]
	}
	return db
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
