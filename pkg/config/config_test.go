package config

import (
	"context"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.Store.Driver != "json" || cfg.UsesSQL() {
		t.Errorf("expected json store by default, got %s", cfg.Store.Driver)
	}
	if !cfg.Store.DegradeOnError {
		t.Error("expected degrade-on-error to default to true")
	}
	if cfg.Refresh.Concurrency != 1 {
		t.Errorf("expected sequential refresh by default, got %d", cfg.Refresh.Concurrency)
	}
	if cfg.Click.SigningSecret != "" {
		t.Error("expected no signing secret by default")
	}
	if cfg.Metrics.Timeout != 30*time.Second {
		t.Errorf("unexpected metrics timeout %v", cfg.Metrics.Timeout)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", "sql")
	t.Setenv("METRICS_MODE", "simulate")
	t.Setenv("REFRESH_CONCURRENCY", "4")
	t.Setenv("CLICK_DOWNLOAD_URL", "https://example.com/app")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("port: got %s", cfg.Port)
	}
	if !cfg.UsesSQL() {
		t.Error("expected sql store")
	}
	if cfg.Metrics.Mode != "simulate" {
		t.Errorf("metrics mode: got %s", cfg.Metrics.Mode)
	}
	if cfg.Refresh.Concurrency != 4 {
		t.Errorf("concurrency: got %d", cfg.Refresh.Concurrency)
	}
	if cfg.Click.DownloadURL != "https://example.com/app" {
		t.Errorf("download url: got %s", cfg.Click.DownloadURL)
	}
}
