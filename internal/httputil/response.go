package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/danparkr/nrfcloud-appwrite-webhook/internal/models"
)

// WriteJSON writes a JSON response with the given status code and data.
// It properly checks for encoding errors and logs them.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// WriteError writes the structured failure body used for every
// request-level error: {"success": false, "error": "..."}.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, models.ErrorResponse{Success: false, Error: message})
}
