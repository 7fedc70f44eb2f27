package handler

import (
	"context"
	"net/http"

	"github.com/wadjakorntonsri/metrikenos/pkg/app"
	"github.com/wadjakorntonsri/metrikenos/pkg/config"
	"github.com/wadjakorntonsri/metrikenos/pkg/logging"
)

var mux http.Handler

func init() {
	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}
	log := logging.New(cfg.AppEnv, cfg.LogLevel)

	// The serverless filesystem is ephemeral; use STORE_DRIVER=sql with a remote DATABASE_URL
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		panic(err)
	}
	mux = a.Handler()
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
