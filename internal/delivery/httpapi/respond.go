package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
	"github.com/aliskhannn/manzil-bot/internal/repository"
)

var errBadRequest = errors.New("bad request")

type successEnvelope struct {
	Data any `json:"data"`
}

type errorEnvelope struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func ok(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, successEnvelope{Data: data})
}

// writeError maps err onto an error envelope. Unknown errors are logged
// and reported as internal without details.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	status, code, message := http.StatusInternalServerError, "internal_error", "internal server error"

	switch {
	case errors.Is(err, repository.ErrSurahNotFound), errors.Is(err, repository.ErrInvalidNumber):
		status, code, message = http.StatusNotFound, "surah_not_found", "surah not found"
	case errors.Is(err, entities.ErrInvalidCoordinates):
		status, code, message = http.StatusBadRequest, "invalid_coordinates", err.Error()
	case errors.Is(err, errBadRequest):
		status, code, message = http.StatusBadRequest, "bad_request", err.Error()
	default:
		logger.Error("request failed",
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}

	writeJSON(w, status, errorEnvelope{Error: message, Code: code})
}
