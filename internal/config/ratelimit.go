package config

import (
	"os"
	"strconv"
	"time"
)

// RateLimitConfig describes the two abuse-guard windows: an IP-scoped
// check applied before authentication and a tighter user-scoped check
// applied once the requester is known.  Both are sliding-window
// counters stored in Redis.
type RateLimitConfig struct {
	Enabled    bool
	IPLimit    int
	IPWindow   time.Duration
	UserLimit  int
	UserWindow time.Duration
	Prefix     string
	Debug      bool
}

func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:    envBool("RATE_LIMIT_ENABLED", true),
		IPLimit:    envInt("RATE_LIMIT_IP_LIMIT", 30),
		IPWindow:   envDur("RATE_LIMIT_IP_WINDOW", time.Minute),
		UserLimit:  envInt("RATE_LIMIT_USER_LIMIT", 10),
		UserWindow: envDur("RATE_LIMIT_USER_WINDOW", time.Minute),
		Prefix:     envStr("RATE_LIMIT_PREFIX", "rl"),
		Debug:      envBool("RATE_LIMIT_DEBUG", false),
	}
	if cfg.IPLimit < 1 {
		cfg.IPLimit = 1
	}
	if cfg.UserLimit < 1 {
		cfg.UserLimit = 1
	}
	if cfg.IPWindow <= 0 {
		cfg.IPWindow = time.Minute
	}
	if cfg.UserWindow <= 0 {
		cfg.UserWindow = time.Minute
	}
	return cfg
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return d
	}
	return b
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
