// Package api provides HTTP handlers for the RPS server.
package api

import (
	"encoding/json"
	"net/http"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// errorWithNotice writes a JSON error carrying the user-visible notice.
func errorWithNotice(w http.ResponseWriter, status int, message, notice string) {
	JSON(w, status, map[string]string{"error": message, "notice": notice})
}
