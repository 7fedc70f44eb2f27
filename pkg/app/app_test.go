package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/metrikenos/pkg/adapters/metricsapi"
	"github.com/wadjakorntonsri/metrikenos/pkg/adapters/repository/jsonfile"
	"github.com/wadjakorntonsri/metrikenos/pkg/adapters/repository/sqldb"
	"github.com/wadjakorntonsri/metrikenos/pkg/config"
)

func testConfig(t *testing.T) *config.Config {
	cfg := &config.Config{DatabaseURL: "file:" + t.Name() + "?mode=memory&cache=shared"}
	cfg.Store.Driver = "json"
	cfg.Store.DataDir = t.TempDir()
	cfg.Metrics.Mode = "simulate"
	cfg.Refresh.Concurrency = 1
	return cfg
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig(t)
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		t.Fatalf("json store: %v", err)
	}
	if _, ok := store.(*jsonfile.JSONRepository); !ok {
		t.Errorf("expected JSON store, got %T", store)
	}
	store.Close()

	cfg.Store.Driver = "sql"
	store, err = OpenStore(ctx, cfg)
	if err != nil {
		t.Fatalf("sql store: %v", err)
	}
	if _, ok := store.(*sqldb.SQLRepository); !ok {
		t.Errorf("expected SQL store, got %T", store)
	}
	store.Close()

	cfg.Store.Driver = "mongo"
	if _, err := OpenStore(ctx, cfg); err == nil {
		t.Error("expected unknown driver to fail")
	}
}

func TestNewFetcher(t *testing.T) {
	cfg := testConfig(t)
	log := zerolog.Nop()

	f, err := NewFetcher(context.Background(), cfg, log)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := f.(*metricsapi.Simulator); !ok {
		t.Errorf("expected simulator, got %T", f)
	}

	cfg.Metrics.Mode = "http"
	f, _ = NewFetcher(context.Background(), cfg, log)
	if _, ok := f.(*metricsapi.Client); !ok {
		t.Errorf("expected HTTP client, got %T", f)
	}

	cfg.Metrics.Mode = "carrier-pigeon"
	if _, err := NewFetcher(context.Background(), cfg, log); err == nil {
		t.Error("expected unknown mode to fail")
	}
}

func TestHandlerServesHealth(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), zerolog.Nop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer a.Close()

	rr := httptest.NewRecorder()
	a.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rr.Code)
	}
}
