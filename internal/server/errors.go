// ABOUTME: JSON response helpers and the error envelope for API endpoints
// ABOUTME: Maps domain failures onto HTTP status codes at the boundary

package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// ErrorResponse is the JSON error envelope returned by API endpoints.
type ErrorResponse struct {
	APIPath      string    `json:"apiPath"`
	ErrorCode    int       `json:"errorCode"`
	ErrorMessage string    `json:"errorMessage"`
	ErrorTime    time.Time `json:"errorTime"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("encoding response", "error", err)
	}
}

// writeError writes the error envelope with the given status and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		APIPath:      r.URL.Path,
		ErrorCode:    status,
		ErrorMessage: message,
		ErrorTime:    time.Now().UTC(),
	})
}
