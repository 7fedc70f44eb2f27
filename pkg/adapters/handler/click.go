package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/metrikenos/pkg/ports"
)

type ClickHandler struct {
	service     ports.InfluencerService
	signer      *LinkSigner
	downloadURL string
	baseURL     string
	log         zerolog.Logger
}

func NewClickHandler(service ports.InfluencerService, signer *LinkSigner, downloadURL, baseURL string, log zerolog.Logger) *ClickHandler {
	return &ClickHandler{
		service:     service,
		signer:      signer,
		downloadURL: downloadURL,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		log:         log,
	}
}

// Record increments the click counter synchronously
func (h *ClickHandler) Record(w http.ResponseWriter, r *http.Request) {
	inf, err := h.service.RecordClick(r.Context(), r.PathValue("influencerId"), r.PathValue("network"))
	if err != nil {
		fail(w, h.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, "influencer", inf)
}

// FollowerLink records the click in the background and sends the follower
// to the download page
func (h *ClickHandler) FollowerLink(w http.ResponseWriter, r *http.Request) {
	h.recordAsync(r.PathValue("influencer"), r.PathValue("network"))
	http.Redirect(w, r, h.downloadURL, http.StatusFound)
}

// ShareLink issues a signed follower link for an influencer and network
func (h *ClickHandler) ShareLink(w http.ResponseWriter, r *http.Request) {
	id, network := r.PathValue("id"), r.PathValue("network")
	if _, err := h.service.GetInfluencer(r.Context(), id); err != nil {
		fail(w, h.log, err)
		return
	}

	token, expires, err := h.signer.Sign(id, network)
	if errors.Is(err, ErrLinksDisabled) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		fail(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"url":       h.baseURL + "/l/" + token,
		"token":     token,
		"expiresAt": expires.UTC(),
	})
}

// SignedRedirect behaves like FollowerLink for a signed token. Invalid
// tokens still redirect but record nothing.
func (h *ClickHandler) SignedRedirect(w http.ResponseWriter, r *http.Request) {
	id, network, err := h.signer.Verify(r.PathValue("token"))
	if err != nil {
		h.log.Warn().Err(err).Msg("rejected share link token")
	} else {
		h.recordAsync(id, network)
	}
	http.Redirect(w, r, h.downloadURL, http.StatusFound)
}

func (h *ClickHandler) recordAsync(id, network string) {
	go func() {
		// The request context is cancelled once the redirect is written
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := h.service.RecordClick(ctx, id, network); err != nil {
			h.log.Warn().Err(err).Str("influencer", id).Str("network", network).Msg("click not recorded")
		}
	}()
}
