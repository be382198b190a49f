package httputil

import (
	"encoding/json"
	"net/http"
)

// Envelope is the body of every API response.
// Success responses carry Data (and Meta for lists); failures carry Error
// and, for validation failures, Details.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// RespondJSON writes a JSON response with the given status code.
// It handles encoding errors safely by marshaling first, preventing
// partial responses if encoding fails after headers are sent.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		// Encoding failed - return 500 instead
		RespondError(w, http.StatusInternalServerError, "Failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// RespondSuccess writes {success: true, data}
func RespondSuccess(w http.ResponseWriter, status int, data interface{}) {
	RespondJSON(w, status, Envelope{Success: true, Data: data})
}

// RespondSuccessWithMeta writes {success: true, data, meta}
func RespondSuccessWithMeta(w http.ResponseWriter, data, meta interface{}) {
	RespondJSON(w, http.StatusOK, Envelope{Success: true, Data: data, Meta: meta})
}

// RespondError writes {success: false, error}
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondErrorWithDetails(w, status, message, nil)
}

// RespondErrorWithDetails writes {success: false, error, details}
func RespondErrorWithDetails(w http.ResponseWriter, status int, message string, details interface{}) {
	payload, err := json.Marshal(Envelope{Error: message, Details: details})
	if err != nil {
		// Fallback to plain text if JSON encoding fails
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}
