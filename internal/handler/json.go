package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/pesanmeja/api/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeErrorMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeError maps domain errors onto HTTP statuses: validation failures to
// 400, illegal transitions to 409, unknown ids to 404, everything else to a
// logged 500.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case domain.IsValidationError(err):
		writeErrorMsg(w, http.StatusBadRequest, err.Error())
	case domain.IsInvalidTransition(err):
		writeErrorMsg(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrMenuItemNotFound):
		writeErrorMsg(w, http.StatusNotFound, err.Error())
	default:
		log.Error("internal error", zap.Error(err))
		writeErrorMsg(w, http.StatusInternalServerError, "internal server error")
	}
}
