package middleware

import (
	"encoding/json"
	"net/http"
)

// NewMaxBodySizeHandler limits request bodies to limit bytes.
// A request whose Content-Length already exceeds the limit is answered with
// 413 before the next handler runs; bodies of unknown length are wrapped in
// http.MaxBytesReader so reading past the limit fails inside the handler.
func NewMaxBodySizeHandler(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// writeError writes the API's standard error envelope. Middleware answers
// before any handler runs, so it cannot use the handler package's helpers.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
