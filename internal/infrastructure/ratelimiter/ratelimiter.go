package ratelimiter

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

const (
	windowKeyPrefix  = "rl:window:"
	defaultSourceKey = "X-RateLimit-Key"
)

type Limiter interface {
	Allow(sourceKey string) bool
	GetSourceKey(r *http.Request) string
	Remaining(sourceKey string) int
	GetMaxBurst() int
}

// RateLimiter counts requests per source in fixed windows. The counter
// for a source expires with the window, so a new window starts clean.
type RateLimiter struct {
	requestsPerWindow int
	window            time.Duration
	cache             GetterSetter
	sourceHeaderKey   string

	// Per-key locks so increments on the same source are atomic.
	locks sync.Map // map[string]*sync.Mutex
}

type Options struct {
	RequestsPerWindow int
	Window            time.Duration
	Cache             GetterSetter
	SourceHeaderKey   string
}

func New(options Options) Limiter {
	if options.Cache == nil {
		options.Cache = NewInMemory()
	}

	if options.RequestsPerWindow <= 0 {
		options.RequestsPerWindow = 60
	}

	if options.Window <= 0 {
		options.Window = time.Minute
	}

	if options.SourceHeaderKey == "" {
		options.SourceHeaderKey = defaultSourceKey
	}

	return &RateLimiter{
		requestsPerWindow: options.RequestsPerWindow,
		window:            options.Window,
		cache:             options.Cache,
		sourceHeaderKey:   options.SourceHeaderKey,
	}
}

func (rl *RateLimiter) getLock(sourceKey string) *sync.Mutex {
	lock, _ := rl.locks.LoadOrStore(sourceKey, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func (rl *RateLimiter) keyFor(sourceKey string) string {
	windowStart := time.Now().Truncate(rl.window).UnixMilli()
	return fmt.Sprintf("%s%s:%d", windowKeyPrefix, sourceKey, windowStart)
}

func (rl *RateLimiter) Allow(sourceKey string) bool {
	lock := rl.getLock(sourceKey)
	lock.Lock()
	defer lock.Unlock()

	key := rl.keyFor(sourceKey)

	count, err := rl.cache.Get(key)
	if err != nil && !errors.Is(err, ErrCacheMiss) {
		// Fail open on cache errors.
		return true
	}

	if count >= rl.requestsPerWindow {
		return false
	}

	_ = rl.cache.SetWithExpiration(key, count+1, rl.window)

	return true
}

func (rl *RateLimiter) Remaining(sourceKey string) int {
	lock := rl.getLock(sourceKey)
	lock.Lock()
	defer lock.Unlock()

	count, err := rl.cache.Get(rl.keyFor(sourceKey))
	if err != nil {
		return rl.requestsPerWindow
	}

	remaining := rl.requestsPerWindow - count
	if remaining < 0 {
		return 0
	}

	return remaining
}

func (rl *RateLimiter) GetMaxBurst() int {
	return rl.requestsPerWindow
}

func (rl *RateLimiter) GetSourceKey(r *http.Request) string {
	if key := r.Header.Get(rl.sourceHeaderKey); key != "" {
		return key
	}

	// Fall back to IP address
	return r.RemoteAddr
}
