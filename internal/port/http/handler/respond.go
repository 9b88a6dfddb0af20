package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/agrolease/agrolease-backend/internal/usecase"
)

// ErrMediaUpstream marks a failure of the external media store during the
// upload step of a request. It maps to 502 so clients can tell it apart from
// their own bad input.
var ErrMediaUpstream = errors.New("media storage unavailable")

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps usecase sentinels to HTTP statuses. Anything unrecognized
// is a 500 with a generic message; the real error goes to the log only.
func writeError(logger *zap.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrValidation), errors.Is(err, usecase.ErrDuplicateEmail):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
	case errors.Is(err, usecase.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: err.Error()})
	case errors.Is(err, usecase.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Message: err.Error()})
	case errors.Is(err, usecase.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: err.Error()})
	case errors.Is(err, ErrMediaUpstream):
		writeJSON(w, http.StatusBadGateway, errorResponse{Message: err.Error()})
	default:
		logger.Error("Unhandled error in HTTP handler", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Internal server error"})
	}
}
