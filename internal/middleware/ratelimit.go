package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vancomm/gridsweeper/internal/config"
	"github.com/vancomm/gridsweeper/internal/metrics"
)

func trusted(addr string, proxies []netip.Prefix) bool {
	ip, err := netip.ParseAddr(addr)
	if err != nil {
		return false
	}
	ip = ip.Unmap()
	return slices.ContainsFunc(proxies, func(p netip.Prefix) bool {
		return p.Contains(ip)
	})
}

// clientIP is the peer address, or, when the peer is a trusted proxy, the
// right-most X-Forwarded-For hop that is not one of the proxies.
func clientIP(r *http.Request, proxies []netip.Prefix) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if !trusted(host, proxies) {
		return host
	}
	hops := strings.Split(strings.Join(r.Header.Values("X-Forwarded-For"), ","), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !trusted(hop, proxies) {
			return hop
		}
	}
	return host
}

// RateLimit is a fixed window limiter keyed by client ip and backed by redis
// INCR/EXPIRE. A nil client or a redis error lets the request through.
func RateLimit(log *slog.Logger, client *redis.Client, cfg config.RateLimit) Middleware {
	maxRequests, window := cfg.MaxRequests, cfg.Window
	prefix := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":"
	return func(next http.Handler) http.Handler {
		if client == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), time.Second)
			defer cancel()

			key := prefix + clientIP(r, cfg.TrustedProxies)
			val, err := client.Incr(ctx, key).Result()
			if err != nil {
				log.Warn("rate limiter unavailable", slog.Any("error", err))
				w.Header().Set("X-RateLimit-Error", "redis-error")
				next.ServeHTTP(w, r)
				return
			}
			if val == 1 {
				client.Expire(ctx, key, window)
			}

			if val > int64(maxRequests) {
				metrics.RateLimited.WithLabelValues(r.Method).Inc()
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
