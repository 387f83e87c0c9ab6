package transport

import (
	"fmt"
	"math"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// This file implements pre-decode admission control using token bucket rate
// limiting, applied at three levels before a request ever reaches a
// Handler: global, per network prefix (/24 for IPv4, /64 for IPv6), and
// per source IP. A request must pass all three to be let through. Token
// buckets allow short bursts while enforcing an average rate over time.

// RateLimiter combines global, prefix, and per-IP rate limiters.
type RateLimiter struct {
	global *TokenBucketRateLimiter
	prefix *TokenBucketRateLimiter
	ip     *TokenBucketRateLimiter
}

// NewRateLimiterFromEnv creates a RateLimiter configured via environment
// variables:
//
//   - DNSCORE_RL_CLEANUP_SECONDS: stale entry cleanup interval (default 60)
//   - DNSCORE_RL_MAX_IP_ENTRIES: max tracked IPs (default 65536)
//   - DNSCORE_RL_MAX_PREFIX_ENTRIES: max tracked prefixes (default 16384)
//   - DNSCORE_RL_GLOBAL_QPS / _GLOBAL_BURST (default 100000 / 100000)
//   - DNSCORE_RL_PREFIX_QPS / _PREFIX_BURST (default 10000 / 20000)
//   - DNSCORE_RL_IP_QPS / _IP_BURST (default 3000 / 6000)
func NewRateLimiterFromEnv() *RateLimiter {
	cleanupSeconds := envFloat("DNSCORE_RL_CLEANUP_SECONDS", 60.0)
	maxIP := envInt("DNSCORE_RL_MAX_IP_ENTRIES", 65_536)
	maxPrefix := envInt("DNSCORE_RL_MAX_PREFIX_ENTRIES", 16_384)

	globalQPS := envFloat("DNSCORE_RL_GLOBAL_QPS", 100_000.0)
	globalBurst := envInt("DNSCORE_RL_GLOBAL_BURST", 100_000)
	prefixQPS := envFloat("DNSCORE_RL_PREFIX_QPS", 10_000.0)
	prefixBurst := envInt("DNSCORE_RL_PREFIX_BURST", 20_000)
	ipQPS := envFloat("DNSCORE_RL_IP_QPS", 3_000)
	ipBurst := envInt("DNSCORE_RL_IP_BURST", 6_000)

	cleanupInterval := time.Duration(math.Max(0.0, cleanupSeconds) * float64(time.Second))
	if cleanupInterval <= 0 {
		cleanupInterval = 60 * time.Second
	}

	return &RateLimiter{
		global: NewTokenBucketRateLimiter(TokenBucketConfig{Rate: globalQPS, Burst: globalBurst, CleanupInterval: cleanupInterval, MaxEntries: 1}),
		prefix: NewTokenBucketRateLimiter(TokenBucketConfig{Rate: prefixQPS, Burst: prefixBurst, CleanupInterval: cleanupInterval, MaxEntries: maxPrefix}),
		ip:     NewTokenBucketRateLimiter(TokenBucketConfig{Rate: ipQPS, Burst: ipBurst, CleanupInterval: cleanupInterval, MaxEntries: maxIP}),
	}
}

// AllowAddr checks if a request from ip should be allowed, consulting
// global, then prefix, then per-IP limits in that order (fail fast).
func (r *RateLimiter) AllowAddr(ip netip.Addr) bool {
	if r == nil {
		return true
	}
	if !r.global.Allow("*") {
		return false
	}
	if !r.prefix.Allow(prefixKeyFromAddr(ip)) {
		return false
	}
	if !r.ip.Allow(ip.String()) {
		return false
	}
	return true
}

// prefixKeyFromAddr returns the prefix key for an address: /24 for IPv4,
// /64 for IPv6.
func prefixKeyFromAddr(ip netip.Addr) string {
	if ip.Is4() {
		prefix, _ := ip.Prefix(24)
		return prefix.String()
	}
	prefix, _ := ip.Prefix(64)
	return prefix.String()
}

// StartupLog returns a human-readable summary of the limiter's configured
// rates, suitable for a one-line log message at listener startup.
func (r *RateLimiter) StartupLog() string {
	if r == nil {
		return "rate-limiting=disabled"
	}
	fmtLimiter := func(name string, l *TokenBucketRateLimiter) string {
		if l.rate <= 0.0 || l.burst <= 0.0 {
			return name + "=disabled"
		}
		return fmt.Sprintf("%s=%gqps/%g", name, l.rate, l.burst)
	}
	return fmt.Sprintf("%s %s %s", fmtLimiter("global", r.global), fmtLimiter("prefix", r.prefix), fmtLimiter("ip", r.ip))
}

// TokenBucketConfig configures a token bucket rate limiter.
type TokenBucketConfig struct {
	Rate            float64
	Burst           int
	CleanupInterval time.Duration
	MaxEntries      int
}

// TokenBucketRateLimiter implements the token bucket algorithm: each
// tracked key has a bucket replenished at Rate tokens/second up to Burst
// capacity, and each request consumes one token.
type TokenBucketRateLimiter struct {
	rate            float64
	burst           float64
	cleanupInterval time.Duration
	maxEntries      int

	mu          sync.Mutex
	lastCleanup time.Time
	lastUpdate  map[string]time.Time
	tokens      map[string]float64
}

// NewTokenBucketRateLimiter creates a rate limiter with the given config.
func NewTokenBucketRateLimiter(cfg TokenBucketConfig) *TokenBucketRateLimiter {
	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 1
	}
	ci := cfg.CleanupInterval
	if ci <= 0 {
		ci = 60 * time.Second
	}
	return &TokenBucketRateLimiter{
		rate:            cfg.Rate,
		burst:           float64(cfg.Burst),
		cleanupInterval: ci,
		maxEntries:      maxEntries,
		lastCleanup:     time.Now(),
		lastUpdate:      map[string]time.Time{},
		tokens:          map[string]float64{},
	}
}

// Allow checks if a request for key should be allowed, consuming a token if so.
func (l *TokenBucketRateLimiter) Allow(key string) bool {
	if l == nil || l.rate <= 0.0 || l.burst <= 0.0 {
		return true
	}

	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastCleanup) > l.cleanupInterval {
		l.cleanupLocked(now)
	}

	last, exists := l.lastUpdate[key]
	if !exists {
		if len(l.lastUpdate) >= l.maxEntries {
			l.cleanupLocked(now)
			if len(l.lastUpdate) >= l.maxEntries {
				return false
			}
		}
		l.lastUpdate[key] = now
		l.tokens[key] = l.burst - 1.0
		return true
	}

	elapsed := now.Sub(last).Seconds()
	l.lastUpdate[key] = now

	tokens := l.tokens[key]
	if elapsed > 0 {
		tokens = math.Min(l.burst, tokens+(elapsed*l.rate))
	}

	if tokens >= 1.0 {
		l.tokens[key] = tokens - 1.0
		return true
	}

	l.tokens[key] = tokens
	return false
}

// cleanupLocked removes entries not accessed within the cleanup interval.
// Must be called with l.mu held.
func (l *TokenBucketRateLimiter) cleanupLocked(now time.Time) {
	staleBefore := now.Add(-l.cleanupInterval)
	for k, last := range l.lastUpdate {
		if !last.After(staleBefore) {
			delete(l.lastUpdate, k)
			delete(l.tokens, k)
		}
	}
	l.lastCleanup = now
}

func envFloat(name string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

func envInt(name string, def int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
