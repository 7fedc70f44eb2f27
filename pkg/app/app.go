// Package app wires configuration, storage, the metrics backend and the
// services together for the server, the CLI and the serverless entrypoint.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/metrikenos/pkg/adapters/handler"
	"github.com/wadjakorntonsri/metrikenos/pkg/adapters/metricsapi"
	"github.com/wadjakorntonsri/metrikenos/pkg/adapters/repository/jsonfile"
	"github.com/wadjakorntonsri/metrikenos/pkg/adapters/repository/sqldb"
	"github.com/wadjakorntonsri/metrikenos/pkg/config"
	"github.com/wadjakorntonsri/metrikenos/pkg/core/services"
	"github.com/wadjakorntonsri/metrikenos/pkg/ports"
)

type App struct {
	Config *config.Config
	Log    zerolog.Logger
	Store  ports.Store

	Influencers  *services.InfluencerService
	Campaigns    *services.CampaignService
	Publications *services.PublicationService
	Stats        *services.StatsService
}

// OpenStore returns the flat-file store or the SQL store depending on STORE_DRIVER
func OpenStore(ctx context.Context, cfg *config.Config) (ports.Store, error) {
	switch cfg.Store.Driver {
	case "json", "":
		repo, err := jsonfile.NewJSONRepository(cfg.Store.DataDir)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case "sql":
		repo, err := sqldb.NewSQLRepository(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// NewFetcher returns the metrics backend selected by METRICS_MODE
func NewFetcher(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.MetricsFetcher, error) {
	switch cfg.Metrics.Mode {
	case "http", "":
		return metricsapi.NewClient(ctx, cfg.Metrics, log), nil
	case "simulate":
		log.Warn().Msg("metrics backend simulated, engagement numbers are random")
		return metricsapi.NewSimulator(0), nil
	default:
		return nil, fmt.Errorf("unknown metrics mode %q", cfg.Metrics.Mode)
	}
}

func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	fetcher, err := NewFetcher(ctx, cfg, log)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &App{
		Config:       cfg,
		Log:          log,
		Store:        store,
		Influencers:  services.NewInfluencerService(store, fetcher, log),
		Campaigns:    services.NewCampaignService(store, log),
		Publications: services.NewPublicationService(store, fetcher, cfg.Refresh.Concurrency, log),
		Stats:        services.NewStatsService(store),
	}, nil
}

// Handler builds the HTTP router over the app's services
func (a *App) Handler() http.Handler {
	return handler.NewRouter(a.Config, a.Log, handler.Services{
		Influencers:  a.Influencers,
		Campaigns:    a.Campaigns,
		Publications: a.Publications,
		Stats:        a.Stats,
	})
}

func (a *App) Close() error {
	return a.Store.Close()
}
