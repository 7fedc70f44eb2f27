package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds all application configuration
type Config struct {
	Port        string `env:"PORT,default=8080"`
	AppEnv      string `env:"APP_ENV,default=local"`
	BaseURL     string `env:"BASE_URL,default=http://localhost:8080"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	DatabaseURL string `env:"DATABASE_URL,default=file:metrikenos.sqlite"`

	Store   StoreConfig   `env:",prefix=STORE_"`
	Metrics MetricsConfig `env:",prefix=METRICS_"`
	Refresh RefreshConfig `env:",prefix=REFRESH_"`
	Click   ClickConfig   `env:",prefix=CLICK_"`
}

// StoreConfig selects and configures the persistence backend
type StoreConfig struct {
	Driver         string `env:"DRIVER,default=json"` // json or sql
	DataDir        string `env:"DATA_DIR,default=data"`
	DegradeOnError bool   `env:"DEGRADE_ON_ERROR,default=true"` // serve empty lists when the store fails
}

// MetricsConfig configures the external metrics-scraping backend
type MetricsConfig struct {
	Mode            string        `env:"MODE,default=http"` // http or simulate
	BaseURL         string        `env:"BASE_URL,default=http://127.0.0.1:8000"`
	PublicationPath string        `env:"PUBLICATION_PATH,default=/metricas/publicacion"`
	ProfilePath     string        `env:"PROFILE_PATH,default=/metricas/perfil"`
	Timeout         time.Duration `env:"TIMEOUT,default=30s"`
	RatePerSecond   float64       `env:"RATE_PER_SECOND,default=2"`
	Burst           int           `env:"BURST,default=1"`

	// Optional OAuth2 client credentials for the backend
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	TokenURL     string `env:"TOKEN_URL"`
}

// RefreshConfig tunes batch metric refreshes
type RefreshConfig struct {
	Concurrency int `env:"CONCURRENCY,default=1"`
}

// ClickConfig configures the follower download links
type ClickConfig struct {
	DownloadURL   string `env:"DOWNLOAD_URL,default=https://takenos.go.link/f4VPN"`
	SigningSecret string `env:"SIGNING_SECRET"` // share links are disabled while empty
}

// Load reads .env (if present) and then the process environment
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	return &cfg, nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// UsesSQL reports whether the SQL store is selected
func (c *Config) UsesSQL() bool {
	return c.Store.Driver == "sql"
}
