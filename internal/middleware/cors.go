// Package middleware provides the HTTP middleware of the Trip Planner API:
// CORS, body limits, request logging, and bearer-session authentication.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// corsMaxAge is how long (seconds) browsers may cache a preflight answer.
const corsMaxAge = 600

// NewCORSHandler returns a middleware that applies CORS headers for allowedOrigins.
// Each entry must be a full origin (scheme + host, no trailing slash).
// Content-Disposition is exposed so the web client can name calendar downloads.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         corsMaxAge,
	})
	return c.Handler
}
