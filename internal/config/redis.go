package config

import (
	"fmt"
	"net/netip"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis returns nil options when REDIS_ADDR is not set.
func NewRedis() (*redis.Options, error) {
	addr, ok := os.LookupEnv("REDIS_ADDR")
	if !ok || addr == "" {
		return nil, nil
	}
	db, err := intOr("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	return &redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}, nil
}

type RateLimit struct {
	MaxRequests int
	Window      time.Duration
	// X-Forwarded-For is only believed when the peer is one of these.
	TrustedProxies []netip.Prefix
}

// parsePrefixes reads a comma separated list of addresses and CIDR ranges.
func parsePrefixes(s string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if strings.Contains(item, "/") {
			prefix, err := netip.ParsePrefix(item)
			if err != nil {
				return nil, err
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(item)
		if err != nil {
			return nil, err
		}
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

func NewRateLimit() (*RateLimit, error) {
	maxRequests, err := intOr("RATE_LIMIT", 120)
	if err != nil {
		return nil, err
	}
	window, err := durationOr("RATE_LIMIT_WINDOW", time.Minute)
	if err != nil {
		return nil, err
	}
	proxies, err := parsePrefixes(os.Getenv("TRUSTED_PROXIES"))
	if err != nil {
		return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}
	return &RateLimit{
		MaxRequests:    maxRequests,
		Window:         window,
		TrustedProxies: proxies,
	}, nil
}
