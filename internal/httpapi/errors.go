package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/store"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// writeSearchError maps call-level search failures onto the error envelope.
func writeSearchError(w http.ResponseWriter, r *http.Request, err error) {
	var se *store.StoreError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		WriteError(w, r, http.StatusBadRequest, "invalid_keyword", err.Error())
	case errors.As(err, &se):
		WriteError(w, r, http.StatusInternalServerError, "store_error", se.Error())
	default:
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
