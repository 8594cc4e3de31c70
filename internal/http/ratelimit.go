package http

import (
	"sync"
	"time"
)

const (
	writeLimit    = 60          // requests per window
	limitWindow   = time.Minute // counting window per client
	staleAfter    = 10 * time.Minute
	sweepInterval = 5 * time.Minute
)

// rateLimiter counts write requests per client IP over a sliding window.
// A background sweep drops clients that have gone quiet.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor

	stopSweep chan struct{}
	stopOnce  sync.Once
}

type visitor struct {
	windowStart time.Time
	count       int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		visitors:  make(map[string]*visitor),
		stopSweep: make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

// allow records one request for the IP and reports whether it stays
// within the write limit.
func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.visitors[clientIP]
	if !ok || now.Sub(v.windowStart) > limitWindow {
		rl.visitors[clientIP] = &visitor{windowStart: now, count: 1}
		return true
	}

	v.count++
	return v.count <= writeLimit
}

func (rl *rateLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.stopSweep:
			return
		}
	}
}

// sweep drops visitors whose window started before the staleness cutoff.
func (rl *rateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-staleAfter)
	for ip, v := range rl.visitors {
		if v.windowStart.Before(cutoff) {
			delete(rl.visitors, ip)
		}
	}
}

// stop ends the background sweep. Safe to call more than once.
func (rl *rateLimiter) stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopSweep)
	})
}
