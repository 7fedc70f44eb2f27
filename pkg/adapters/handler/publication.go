package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/metrikenos/pkg/core/domain"
	"github.com/wadjakorntonsri/metrikenos/pkg/core/services"
	"github.com/wadjakorntonsri/metrikenos/pkg/ports"
)

const maxImportBytes = 10 << 20

type PublicationHandler struct {
	service ports.PublicationService
	degrade bool
	log     zerolog.Logger
}

func NewPublicationHandler(service ports.PublicationService, degrade bool, log zerolog.Logger) *PublicationHandler {
	return &PublicationHandler{service: service, degrade: degrade, log: log}
}

func (h *PublicationHandler) List(w http.ResponseWriter, r *http.Request) {
	pubs, err := h.service.ListPublications(r.Context())
	listOrDegrade(w, h.log, h.degrade, pubs, err)
}

func (h *PublicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.Publication
	if err := decodeJSON(r, &req); err != nil {
		fail(w, h.log, err)
		return
	}

	pub, err := h.service.AddPublication(r.Context(), req, fetchFlag(r))
	if err != nil {
		fail(w, h.log, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "publication", pub)
}

func (h *PublicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.PublicationPatch
	if err := decodeJSON(r, &patch); err != nil {
		fail(w, h.log, err)
		return
	}

	pub, err := h.service.UpdatePublication(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		fail(w, h.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, "publication", pub)
}

func (h *PublicationHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	pub, err := h.service.RefreshPublication(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, h.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, "publication", pub)
}

// ByCampaignAndInfluencer serves the publications of one influencer in one campaign
func (h *PublicationHandler) ByCampaignAndInfluencer(w http.ResponseWriter, r *http.Request) {
	pubs, err := h.service.ByCampaignAndInfluencer(r.Context(), r.PathValue("id"), r.PathValue("influencerId"))
	listOrDegrade(w, h.log, h.degrade, pubs, err)
}

// RefreshBatch re-fetches every publication of an influencer in a campaign
func (h *PublicationHandler) RefreshBatch(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.RefreshCampaignInfluencer(r.Context(), r.PathValue("id"), r.PathValue("influencerId"))
	if err != nil {
		fail(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Import reads a CSV of publication URLs, either as a multipart "file" field
// or as the raw request body
func (h *PublicationHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing CSV file field \"file\"")
			return
		}
		defer file.Close()
		src = file
	}

	rows, err := services.ParseImportCSV(src)
	if err != nil {
		fail(w, h.log, err)
		return
	}

	result, err := h.service.Import(r.Context(), r.PathValue("id"), r.PathValue("influencerId"), rows, fetchFlag(r))
	if err != nil && result != nil && len(result.Created) > 0 {
		status := statusFor(err)
		h.log.Error().Err(err).Int("created", len(result.Created)).Int("status", status).Msg("import stopped partway")
		writeJSON(w, status, partialImport{Error: errorMessage(status, err), ImportResult: result})
		return
	}
	if err != nil {
		fail(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// partialImport lists the rows stored before an import failed
type partialImport struct {
	Error string `json:"error"`
	*domain.ImportResult
}
