package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// Cors lets browser front ends on any origin play; the session token travels
// in the Authorization header, not in cookies.
func Cors() Middleware {
	options := cors.Options{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}
	return cors.New(options).Handler
}
