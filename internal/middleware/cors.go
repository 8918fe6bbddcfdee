package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler builds the cross-origin policy for the browser UI.
// origins lists the exact origins (scheme://host[:port], no trailing slash)
// allowed to call the API. The method and header lists cover everything the
// drivelog endpoints accept; preflight results may be cached for five
// minutes.
func NewCORSHandler(origins []string) func(http.Handler) http.Handler {
	policy := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	})
	return policy.Handler
}
