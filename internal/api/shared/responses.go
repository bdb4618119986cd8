package shared

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the standard response body. Every response carries the
// `success` flag; denials and failures carry a human-readable message, and
// list responses carry a count alongside the data.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Token   string      `json:"token,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
}

// RespondWithJSON writes a JSON response with the given status code and body.
func RespondWithJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithData writes a success envelope with the given message and data.
func RespondWithData(w http.ResponseWriter, status int, message string, data interface{}) {
	RespondWithJSON(w, status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondWithList writes a success envelope carrying a list payload and its
// element count.
func RespondWithList(w http.ResponseWriter, message string, count int, data interface{}) {
	RespondWithJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: message,
		Count:   &count,
		Data:    data,
	})
}

// RespondWithError writes a denial envelope with the given status code and
// message, plus any detail strings. It also sets the TraceID from the
// request context if available.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string, details ...string) {
	traceID := GetTraceID(r.Context())

	slog.Debug("sending error response",
		"status_code", status,
		"message", message,
		"trace_id", traceID,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, status, Envelope{
		Success: false,
		Message: message,
		Errors:  details,
		TraceID: traceID,
	})
}
