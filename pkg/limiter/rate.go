package limiter

import (
	"math/rand"
	"sync"
	"time"
)

// RateLimiter enforces a minimum interval between requests to the same
// host. The crawl loop consults it before every fetch after the first,
// so pacing acts as backpressure against the target server.
type RateLimiter interface {
	SetBaseDelay(baseDelay time.Duration)
	SetJitter(jitter time.Duration)
	SetRandomSeed(randomSeed int64)
	MarkLastFetchAsNow(host string)
	ResolveDelay(host string) time.Duration
}

type HostRateLimiter struct {
	mu          sync.RWMutex
	rngMu       sync.Mutex
	baseDelay   time.Duration
	jitter      time.Duration
	lastFetchAt map[string]time.Time
	rng         *rand.Rand
}

func NewHostRateLimiter() *HostRateLimiter {
	return &HostRateLimiter{
		lastFetchAt: make(map[string]time.Time),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *HostRateLimiter) SetBaseDelay(baseDelay time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.baseDelay = baseDelay
}

func (r *HostRateLimiter) SetJitter(jitter time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.jitter = jitter
}

func (r *HostRateLimiter) SetRandomSeed(randomSeed int64) {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()

	r.rng = rand.New(rand.NewSource(randomSeed))
}

// MarkLastFetchAsNow records that a fetch to host just happened.
func (r *HostRateLimiter) MarkLastFetchAsNow(host string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastFetchAt[host] = time.Now()
}

// ResolveDelay returns how long the caller must still wait before the
// next fetch to host. A host that has never been fetched needs no delay.
func (r *HostRateLimiter) ResolveDelay(host string) time.Duration {
	r.mu.RLock()
	last, exists := r.lastFetchAt[host]
	base := r.baseDelay
	jitter := r.jitter
	r.mu.RUnlock()

	if !exists {
		return 0
	}

	finalDelay := base + r.computeJitter(jitter)

	elapsed := time.Since(last)
	if elapsed < finalDelay {
		return finalDelay - elapsed
	}
	return 0
}

// computeJitter returns a pseudo-random duration in [0, max).
func (r *HostRateLimiter) computeJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}

	r.rngMu.Lock()
	defer r.rngMu.Unlock()

	return time.Duration(r.rng.Int63n(int64(max)))
}
