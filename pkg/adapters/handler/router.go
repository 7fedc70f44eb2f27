package handler

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/metrikenos/pkg/config"
	"github.com/wadjakorntonsri/metrikenos/pkg/ports"
)

// Services bundles what the router dispatches to
type Services struct {
	Influencers  ports.InfluencerService
	Campaigns    ports.CampaignService
	Publications ports.PublicationService
	Stats        ports.StatsService
}

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, log zerolog.Logger, svc Services) http.Handler {
	degrade := cfg.Store.DegradeOnError
	ih := NewInfluencerHandler(svc.Influencers, degrade, log)
	ch := NewCampaignHandler(svc.Campaigns, svc.Stats, degrade, log)
	ph := NewPublicationHandler(svc.Publications, degrade, log)
	signer := NewLinkSigner(cfg.Click.SigningSecret)
	if !signer.Enabled() {
		log.Warn().Msg("CLICK_SIGNING_SECRET not set, signed share links are disabled")
	}
	clicks := NewClickHandler(svc.Influencers, signer, cfg.Click.DownloadURL, cfg.BaseURL, log)

	mw := NewMiddleware(log)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		res := map[string]string{
			"message": "ok",
		}
		_ = json.NewEncoder(w).Encode(&res)
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	// Influencer directory
	mux.HandleFunc("GET /api/influencers", ih.List)
	mux.HandleFunc("POST /api/influencers", ih.Create)
	mux.HandleFunc("GET /api/influencers/{id}", ih.Get)
	mux.HandleFunc("PATCH /api/influencers/{id}", ih.Update)
	mux.HandleFunc("POST /api/influencers/{id}/refresh", ih.Refresh)
	mux.HandleFunc("GET /api/influencers/{id}/links/{network}", clicks.ShareLink)

	// Campaigns
	mux.HandleFunc("GET /api/campaigns", ch.List)
	mux.HandleFunc("POST /api/campaigns", ch.Create)
	mux.HandleFunc("GET /api/campaigns/{id}", ch.Get)
	mux.HandleFunc("PATCH /api/campaigns/{id}", ch.Update)
	mux.HandleFunc("GET /api/campaigns/{id}/influencers", ch.Influencers)
	mux.HandleFunc("POST /api/campaigns/{id}/influencers", ch.AddInfluencers)
	mux.HandleFunc("GET /api/campaigns/{id}/report", ch.Report)
	mux.HandleFunc("GET /api/campaigns/{id}/influencers/{influencerId}/stats", ch.InfluencerStats)
	mux.HandleFunc("GET /api/campaigns/{id}/influencers/{influencerId}/publications", ph.ByCampaignAndInfluencer)
	mux.HandleFunc("POST /api/campaigns/{id}/influencers/{influencerId}/publications/import", ph.Import)
	mux.HandleFunc("POST /api/campaigns/{id}/influencers/{influencerId}/publications/refresh", ph.RefreshBatch)

	// Publications
	mux.HandleFunc("GET /api/publications", ph.List)
	mux.HandleFunc("POST /api/publications", ph.Create)
	mux.HandleFunc("PATCH /api/publications/{id}", ph.Update)
	mux.HandleFunc("POST /api/publications/{id}/refresh", ph.Refresh)

	mux.HandleFunc("GET /api/dashboard", ch.Dashboard)

	// Click tracking
	mux.HandleFunc("POST /api/metrics/click/{influencerId}/{network}", clicks.Record)
	mux.HandleFunc("GET /followers-links/{influencer}/{network}", clicks.FollowerLink)
	mux.HandleFunc("GET /l/{token}", clicks.SignedRedirect)

	return mw.Logging(mw.Recover(mux))
}
