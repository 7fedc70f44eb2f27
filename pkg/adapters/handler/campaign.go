package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/metrikenos/pkg/core/domain"
	"github.com/wadjakorntonsri/metrikenos/pkg/ports"
)

type CampaignHandler struct {
	service ports.CampaignService
	stats   ports.StatsService
	degrade bool
	log     zerolog.Logger
}

func NewCampaignHandler(service ports.CampaignService, stats ports.StatsService, degrade bool, log zerolog.Logger) *CampaignHandler {
	return &CampaignHandler{service: service, stats: stats, degrade: degrade, log: log}
}

type addInfluencersRequest struct {
	InfluencerIDs []string `json:"influencerIds"`
}

func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.service.ListCampaigns(r.Context())
	listOrDegrade(w, h.log, h.degrade, campaigns, err)
}

func (h *CampaignHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetCampaign(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.Campaign
	if err := decodeJSON(r, &req); err != nil {
		fail(w, h.log, err)
		return
	}

	c, err := h.service.CreateCampaign(r.Context(), req)
	if err != nil {
		fail(w, h.log, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "campaign", c)
}

func (h *CampaignHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.CampaignPatch
	if err := decodeJSON(r, &patch); err != nil {
		fail(w, h.log, err)
		return
	}

	c, err := h.service.UpdateCampaign(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		fail(w, h.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, "campaign", c)
}

// Influencers lists the resolved members of a campaign
func (h *CampaignHandler) Influencers(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.Influencers(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *CampaignHandler) AddInfluencers(w http.ResponseWriter, r *http.Request) {
	var req addInfluencersRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, h.log, err)
		return
	}

	c, err := h.service.AddInfluencers(r.Context(), r.PathValue("id"), req.InfluencerIDs)
	if err != nil {
		fail(w, h.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, "campaign", c)
}

func (h *CampaignHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.stats.CampaignReport(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *CampaignHandler) InfluencerStats(w http.ResponseWriter, r *http.Request) {
	totals, err := h.stats.InfluencerCampaignStats(r.Context(), r.PathValue("influencerId"), r.PathValue("id"))
	if err != nil {
		fail(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (h *CampaignHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.stats.Dashboard(r.Context())
	if err != nil {
		fail(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
