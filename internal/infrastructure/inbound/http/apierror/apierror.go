// Package apierror is the only place where an error becomes an HTTP response.
package apierror

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"feed-service/internal/custom_errors"
	ports "feed-service/internal/domain/ports/output"
)

type Response struct {
	Message string                     `json:"message"`
	Errors  []custom_errors.FieldError `json:"errors,omitempty"`
}

// StatusFor maps an error kind to its response status.
func StatusFor(kind custom_errors.Kind) int {
	switch kind {
	case custom_errors.KindValidation:
		return http.StatusUnprocessableEntity
	case custom_errors.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func WriteError(w http.ResponseWriter, log ports.Logger, err error) {
	kind := custom_errors.KindOf(err)
	status := StatusFor(kind)

	resp := Response{Message: custom_errors.PublicMessage(err)}
	if vErr, ok := custom_errors.AsValidationError(err); ok {
		resp.Errors = vErr.Fields
	}

	if status >= http.StatusInternalServerError {
		log.Error("Request failed", slog.String("kind", kind.String()), slog.String("error", err.Error()))
	} else {
		log.Debug("Request rejected", slog.String("kind", kind.String()), slog.String("error", err.Error()))
	}

	WriteJSON(w, log, status, resp)
}

func WriteJSON(w http.ResponseWriter, log ports.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn("Failed to encode response", slog.String("error", err.Error()))
	}
}
