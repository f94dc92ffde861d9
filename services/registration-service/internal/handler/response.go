package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/member-registry/shared/apperror"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError renders application errors as they are. Anything else has not been
// logged yet, so it is logged here and hidden behind a generic message.
func writeError(w http.ResponseWriter, r *http.Request, logger *zerolog.Logger, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		apperror.Write(w, appErr.Status, appErr.Message)
		return
	}

	logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	apperror.Write(w, http.StatusInternalServerError, "something went wrong")
}
