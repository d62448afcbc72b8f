package api

import (
	"encoding/json"
	"net/http"

	kanerr "github.com/amterp/kanpad/internal/errors"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error writes an error response, mapping domain errors to HTTP status codes.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case kanerr.IsNotFound(err):
		status = http.StatusNotFound
	case kanerr.IsAlreadyExists(err):
		status = http.StatusConflict
	case kanerr.IsValidationError(err):
		status = http.StatusBadRequest
	}

	JSON(w, status, map[string]string{"error": err.Error()})
}

// BadRequest writes a 400 error with the given message.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, map[string]string{"error": message})
}
