package telegram

import (
	"crypto/hmac"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// SecurityConfig holds webhook security settings
type SecurityConfig struct {
	Secret          string   // Expected X-Telegram-Bot-Api-Secret-Token value
	AllowedIPs      []string // IP or CIDR whitelist (optional)
	RateLimitPerMin int      // Max messages per sender per minute, 0 disables
}

// SecurityValidator validates webhook requests and throttles senders.
type SecurityValidator struct {
	config      SecurityConfig
	rateLimiter *rateLimiter
}

func NewSecurityValidator(config SecurityConfig) *SecurityValidator {
	v := &SecurityValidator{config: config}
	if config.RateLimitPerMin > 0 {
		v.rateLimiter = newRateLimiter(config.RateLimitPerMin)
	}
	return v
}

// ValidateSecretToken compares the header Telegram sends with the configured
// secret. An empty secret disables the check.
func (v *SecurityValidator) ValidateSecretToken(token string) error {
	if v.config.Secret == "" {
		return nil
	}
	if !hmac.Equal([]byte(token), []byte(v.config.Secret)) {
		return fmt.Errorf("invalid secret token")
	}
	return nil
}

// ValidateIPAddress checks if request IP is whitelisted
func (v *SecurityValidator) ValidateIPAddress(r *http.Request) error {
	if len(v.config.AllowedIPs) == 0 {
		return nil
	}

	ip := extractIP(r)
	parsed := net.ParseIP(ip)

	for _, allowed := range v.config.AllowedIPs {
		if ip == allowed {
			return nil
		}
		if strings.Contains(allowed, "/") {
			_, ipNet, err := net.ParseCIDR(allowed)
			if err != nil {
				continue
			}
			if parsed != nil && ipNet.Contains(parsed) {
				return nil
			}
		}
	}

	return fmt.Errorf("IP %s not whitelisted", ip)
}

// CheckRateLimit enforces the per-sender message rate.
func (v *SecurityValidator) CheckRateLimit(senderID int64) error {
	if v.rateLimiter == nil {
		return nil
	}
	return v.rateLimiter.Allow(senderID)
}

// extractIP extracts client IP from request
func extractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip, _, _ := net.SplitHostPort(r.RemoteAddr)
	return ip
}

// rateLimiter keeps one token bucket per sender; idle buckets expire.
type rateLimiter struct {
	limiters *expirable.LRU[int64, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

func newRateLimiter(requestsPerMin int) *rateLimiter {
	burst := requestsPerMin / 10
	if burst < 1 {
		burst = 1
	}
	return &rateLimiter{
		limiters: expirable.NewLRU[int64, *rate.Limiter](
			1000,          // Max 1000 unique senders
			nil,           // No eviction callback
			time.Minute*5, // TTL: 5 minutes
		),
		rate:  rate.Limit(float64(requestsPerMin) / 60.0), // Per second
		burst: burst,
	}
}

func (rl *rateLimiter) Allow(key int64) error {
	limiter, ok := rl.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Add(key, limiter)
	}

	if !limiter.Allow() {
		return fmt.Errorf("rate limit exceeded for %d", key)
	}
	return nil
}
