package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/metrikenos/pkg/core/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeSuccess wraps entity as {"success": true, "<key>": entity}
func writeSuccess(w http.ResponseWriter, status int, key string, entity any) {
	writeJSON(w, status, map[string]any{"success": true, key: entity})
}

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrMetricsUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail logs server-side failures and writes the error body
func fail(w http.ResponseWriter, log zerolog.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", status).Msg("request failed")
	}
	writeError(w, status, errorMessage(status, err))
}

// errorMessage hides internal failure details from clients
func errorMessage(status int, err error) string {
	if status == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return domain.Invalid("body", "invalid JSON: "+err.Error())
	}
	return nil
}

// fetchFlag reads the fetchMetrics query flag
func fetchFlag(r *http.Request) bool {
	switch r.URL.Query().Get("fetchMetrics") {
	case "1", "true", "yes":
		return true
	}
	return false
}

// listOrDegrade serves a collection, or an empty list when the store failed
// and degradation is enabled
func listOrDegrade[T any](w http.ResponseWriter, log zerolog.Logger, degrade bool, items []T, err error) {
	if err != nil {
		if !degrade {
			fail(w, log, err)
			return
		}
		log.Warn().Err(err).Msg("store unavailable, serving empty list")
		items = []T{}
	}
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, items)
}
