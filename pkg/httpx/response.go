package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the JSON body shape used by every endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// WriteSuccess writes a success envelope with the given payload.
func WriteSuccess(w http.ResponseWriter, code int, data any) {
	writeEnvelope(w, code, Envelope{Success: true, Data: data})
}

// WriteMessage writes a success envelope carrying only a message.
func WriteMessage(w http.ResponseWriter, code int, message string) {
	writeEnvelope(w, code, Envelope{Success: true, Message: message})
}

// WriteError writes a failure envelope with the given message.
func WriteError(w http.ResponseWriter, code int, message string) {
	writeEnvelope(w, code, Envelope{Success: false, Message: message})
}

func writeEnvelope(w http.ResponseWriter, code int, env Envelope) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(env)
}

// NoCache prevents caching of sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
