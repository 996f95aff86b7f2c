package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError writes the same {"success": false, "error": ...} body the REST
// handlers use.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": message}) //nolint:errcheck
}
