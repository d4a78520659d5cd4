package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vancomm/gridsweeper/internal/config"
)

type CtxKey int

const (
	CtxSessionClaims CtxKey = iota
)

func bearerToken(r *http.Request) (string, bool) {
	if h := r.Header.Get("Authorization"); h != "" {
		return strings.CutPrefix(h, "Bearer ")
	}
	// browsers cannot set headers on a websocket handshake
	if t := r.URL.Query().Get("token"); t != "" {
		return t, true
	}
	return "", false
}

// Auth puts the claims of a valid session token into the request context.
// Requests without one pass through untouched; handlers decide whether they
// need it.
func Auth(log *slog.Logger, tokens *config.SessionTokens) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				h.ServeHTTP(w, r)
				return
			}
			claims, err := tokens.Parse(token)
			if err != nil {
				log.Debug("rejected session token", slog.Any("error", err))
				h.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), CtxSessionClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionId returns the session the request's token was issued for.
func SessionId(r *http.Request) (string, bool) {
	claims, ok := r.Context().Value(CtxSessionClaims).(*config.SessionClaims)
	if !ok {
		return "", false
	}
	return claims.SessionId, true
}
