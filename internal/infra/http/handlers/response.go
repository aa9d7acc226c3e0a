package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/xavierca1/zapvendas/internal/entity"
	"github.com/xavierca1/zapvendas/internal/usecase"
)

type Response struct {
	Success bool   `json:"success"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Response{Success: true, Data: data})
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	writeJSON(w, http.StatusBadRequest, Response{Success: false, Error: message, Code: code})
}

// writeError maps usecase and entity errors onto HTTP status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *usecase.DomainError
	switch {
	case errors.As(err, &domainErr):
		writeBadRequest(w, domainErr.Code, domainErr.Message)
	case errors.Is(err, entity.ErrLeadNotFound), errors.Is(err, entity.ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, Response{Success: false, Error: err.Error(), Code: "NOT_FOUND"})
	default:
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		resp := Response{Success: false, Error: "Internal server error", Message: err.Error()}
		var techErr *usecase.TechnicalError
		if errors.As(err, &techErr) {
			resp.Code = techErr.Code
			resp.Message = techErr.Message
		}
		writeJSON(w, http.StatusInternalServerError, resp)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeBadRequest(w, "INVALID_JSON", "Invalid JSON body")
		return false
	}
	return true
}
