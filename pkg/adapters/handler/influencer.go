package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/metrikenos/pkg/core/domain"
	"github.com/wadjakorntonsri/metrikenos/pkg/ports"
)

type InfluencerHandler struct {
	service ports.InfluencerService
	degrade bool
	log     zerolog.Logger
}

func NewInfluencerHandler(service ports.InfluencerService, degrade bool, log zerolog.Logger) *InfluencerHandler {
	return &InfluencerHandler{service: service, degrade: degrade, log: log}
}

func (h *InfluencerHandler) List(w http.ResponseWriter, r *http.Request) {
	influencers, err := h.service.ListInfluencers(r.Context())
	listOrDegrade(w, h.log, h.degrade, influencers, err)
}

func (h *InfluencerHandler) Get(w http.ResponseWriter, r *http.Request) {
	inf, err := h.service.GetInfluencer(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, inf)
}

// Create accepts an influencer body; ?fetchMetrics=true reads the profiles first
func (h *InfluencerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.Influencer
	if err := decodeJSON(r, &req); err != nil {
		fail(w, h.log, err)
		return
	}

	inf, err := h.service.AddInfluencer(r.Context(), req, fetchFlag(r))
	if err != nil {
		fail(w, h.log, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "influencer", inf)
}

func (h *InfluencerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.InfluencerPatch
	if err := decodeJSON(r, &patch); err != nil {
		fail(w, h.log, err)
		return
	}

	inf, err := h.service.UpdateInfluencer(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		fail(w, h.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, "influencer", inf)
}

func (h *InfluencerHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	inf, err := h.service.RefreshProfile(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, h.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, "influencer", inf)
}
