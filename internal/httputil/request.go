package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// MaxBodyBytes limits request bodies. Image blocks are base64 payloads of up
// to 5M characters, so the AI endpoints need headroom well past a typical
// JSON API limit.
const MaxBodyBytes = 25 << 20

// ParseJSON decodes JSON from the request body into the given destination.
// It limits the request body size to prevent abuse and provides clear error messages.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	// DisallowUnknownFields is intentionally NOT used: clients may send
	// fields from newer SPA versions; validation happens downstream.

	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}
