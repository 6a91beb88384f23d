package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// respondJSON writes v as a JSON response
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			log.Printf("Failed to encode response: %v", err)
		}
	}
}

// respondError writes a JSON error body. Server errors are logged with
// the underlying cause; the client only sees userMsg.
func respondError(w http.ResponseWriter, status int, userMsg string, err error) {
	if err != nil && status >= 500 {
		log.Printf("%s: %v", userMsg, err)
	}
	respondJSON(w, status, map[string]string{"error": userMsg})
}

// decodeJSON decodes a request body into v, limiting its size
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	return dec.Decode(v)
}
