package httputil

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("Error encoding response", zap.Error(err))
	}
}

// RespondError sends a JSON error response in the {"error": ...} shape
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]string{"error": message})
}

// Result is the {"success": ..., "message": ...} envelope used by the
// dashboard endpoints
type Result struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message,omitempty"`
	Data        interface{} `json:"data,omitempty"`
	RecordCount *int        `json:"recordCount,omitempty"`
}

// RespondResult sends a success envelope
func RespondResult(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, Result{Success: status < http.StatusBadRequest, Message: message})
}
