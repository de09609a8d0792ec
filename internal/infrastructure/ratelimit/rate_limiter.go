package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Policy is the sustained rate and burst allowed for one action.
type Policy struct {
	Limit rate.Limit
	Burst int
}

// Per builds a policy allowing n events per interval with a burst of n.
func Per(n int, interval time.Duration) Policy {
	return Policy{Limit: rate.Every(interval / time.Duration(n)), Burst: n}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per key and action.
type RateLimiter struct {
	policies map[string]Policy
	fallback Policy
	visitors map[string]*visitor
	mutex    sync.Mutex
	idleTTL  time.Duration
}

func NewRateLimiter(fallback Policy, policies map[string]Policy) *RateLimiter {
	if policies == nil {
		policies = make(map[string]Policy)
	}
	return &RateLimiter{
		policies: policies,
		fallback: fallback,
		visitors: make(map[string]*visitor),
		idleTTL:  10 * time.Minute,
	}
}

// Allow consumes a token for key performing action. When the bucket is
// empty it reports how long until the next token.
func (rl *RateLimiter) Allow(key, action string) (bool, time.Duration) {
	now := time.Now()
	lim := rl.limiter(key+":"+action, action, now)

	r := lim.ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (rl *RateLimiter) limiter(bucket, action string, now time.Time) *rate.Limiter {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if v, ok := rl.visitors[bucket]; ok {
		v.lastSeen = now
		return v.limiter
	}

	policy, ok := rl.policies[action]
	if !ok {
		policy = rl.fallback
	}
	lim := rate.NewLimiter(policy.Limit, policy.Burst)
	rl.visitors[bucket] = &visitor{limiter: lim, lastSeen: now}
	return lim
}

// Cleanup drops buckets idle for longer than the idle TTL.
func (rl *RateLimiter) Cleanup(now time.Time) int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	removed := 0
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.idleTTL {
			delete(rl.visitors, key)
			removed++
		}
	}
	return removed
}

func (rl *RateLimiter) Size() int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	return len(rl.visitors)
}

// StartCleanupRoutine evicts idle buckets until done is closed.
func (rl *RateLimiter) StartCleanupRoutine(done <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		for {
			select {
			case now := <-ticker.C:
				rl.Cleanup(now)
			case <-done:
				return
			}
		}
	}()
}
