package middleware

import (
	"sync"
	"time"
)

// Rate limiter ONLY for failed login attempts
type InvalidAuthRateLimiter struct {
	mu       sync.Mutex
	failures map[string]*failureInfo
}

type failureInfo struct {
	count   int
	firstAt time.Time
}

func NewInvalidAuthRateLimiter() *InvalidAuthRateLimiter {
	rl := &InvalidAuthRateLimiter{
		failures: make(map[string]*failureInfo),
	}
	go rl.cleanup()
	return rl
}

// IsBlocked reports whether the IP has exceeded the failure limit.
// Limit: 5 failed attempts per minute.
func (r *InvalidAuthRateLimiter) IsBlocked(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, exists := r.failures[ip]
	if !exists {
		return false
	}

	// Window expired
	if time.Since(info.firstAt) > time.Minute {
		delete(r.failures, ip)
		return false
	}

	return info.count >= 5
}

// RecordFailure counts one failed attempt for the IP.
func (r *InvalidAuthRateLimiter) RecordFailure(ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	info, exists := r.failures[ip]
	if !exists || now.Sub(info.firstAt) > time.Minute {
		r.failures[ip] = &failureInfo{count: 1, firstAt: now}
		return
	}
	info.count++
}

// Reset clears the failure count for the IP after a successful login.
func (r *InvalidAuthRateLimiter) Reset(ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.failures, ip)
}

func (r *InvalidAuthRateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		r.mu.Lock()
		now := time.Now()
		for ip, info := range r.failures {
			if now.Sub(info.firstAt) > time.Minute {
				delete(r.failures, ip)
			}
		}
		r.mu.Unlock()
	}
}
