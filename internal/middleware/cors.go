// Package middleware provides reusable HTTP middleware for the trip log server.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler returns a middleware that lets the listed front-end origins
// call the trip log from a browser. Each origin must be scheme + host with no
// trailing slash. Preflight results are cached by the browser for five minutes.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	})
	return c.Handler
}
