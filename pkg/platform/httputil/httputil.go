// Package httputil centralizes the JSON response envelope so every endpoint
// answers with the same shape:
//
//	{"success": true,  "message": ..., "count": ..., "data": ...}
//	{"success": false, "message": ...}
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "aakseva/pkg/domain-errors"
)

// Envelope is the wire format shared by all endpoints.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// WriteJSON writes an arbitrary payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteData writes a success envelope carrying a single record.
func WriteData(w http.ResponseWriter, status int, message string, data any) {
	WriteJSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// WriteList writes a success envelope carrying a collection plus its count.
func WriteList(w http.ResponseWriter, count int, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Count: &count, Data: data})
}

// WriteMessage writes a success envelope with no data payload.
func WriteMessage(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Message: message})
}

// WriteError translates a domain error into the failure envelope. Internal
// errors surface a generic message; the cause belongs in logs, not responses.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.GetCode(err)
	message := dErrors.GetMessage(err)
	if code == dErrors.CodeInternal {
		message = "internal server error"
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), Envelope{Success: false, Message: message})
}
