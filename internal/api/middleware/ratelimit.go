package middleware

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/carehire/carehire-api/internal/api/shared"
	"github.com/carehire/carehire-api/internal/apperr"
	"github.com/carehire/carehire-api/internal/config"
	"github.com/carehire/carehire-api/internal/platform/logger"
	"github.com/carehire/carehire-api/internal/platform/metrics"
)

// Rate limit classes. Each class keeps its own per-IP buckets.
const (
	ClassGeneral  = "general"
	ClassAuth     = "auth"
	ClassMutation = "mutation"
)

// defaultCleanupInterval is how often idle buckets are swept.
const defaultCleanupInterval = 5 * time.Minute

// visitor is the bucket of one client IP within a class.
type visitor struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// bucketSet holds the visitors of one class.
type bucketSet struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	refill   time.Duration
	visitors map[string]*visitor
}

func (b *bucketSet) get(ip string, now time.Time) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(b.limit, b.burst)}
		b.visitors[ip] = v
	}
	v.lastAccess = now
	return v.limiter
}

func (b *bucketSet) sweep(cutoff time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ip, v := range b.visitors {
		if v.lastAccess.Before(cutoff) {
			delete(b.visitors, ip)
		}
	}
}

func (b *bucketSet) size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.visitors)
}

// RateLimiter enforces per-IP request budgets. Buckets are the only state
// shared between requests.
type RateLimiter struct {
	classes  map[string]*bucketSet
	window   time.Duration
	recorder metrics.Recorder
	faults   *shared.FaultHandler

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a RateLimiter from cfg. Each class allows its budget
// of requests per window, refilled continuously. A background goroutine drops
// idle buckets until Stop is called.
func NewRateLimiter(cfg config.RateLimitConfig, recorder metrics.Recorder, faults *shared.FaultHandler) *RateLimiter {
	if faults == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("fault handler cannot be nil")
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	rl := &RateLimiter{
		classes: map[string]*bucketSet{
			ClassGeneral:  newBucketSet(cfg.General, cfg.Window),
			ClassAuth:     newBucketSet(cfg.Auth, cfg.Window),
			ClassMutation: newBucketSet(cfg.Mutation, cfg.Window),
		},
		window:   max(cfg.Window, time.Second),
		recorder: recorder,
		faults:   faults,
		stopCh:   make(chan struct{}),
	}
	go rl.cleanupLoop(defaultCleanupInterval)
	return rl
}

func newBucketSet(budget int, window time.Duration) *bucketSet {
	if budget < 1 {
		budget = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &bucketSet{
		limit:    rate.Limit(float64(budget) / window.Seconds()),
		burst:    budget,
		refill:   window / time.Duration(budget),
		visitors: make(map[string]*visitor),
	}
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Limit returns middleware applying the budget of class to every request.
func (rl *RateLimiter) Limit(class string) func(http.Handler) http.Handler {
	set := rl.set(class)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.allow(w, r, class, set) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Mutations returns middleware applying the mutation budget to POST, PUT,
// PATCH and DELETE requests only.
func (rl *RateLimiter) Mutations() func(http.Handler) http.Handler {
	set := rl.set(ClassMutation)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isMutation(r.Method) && !rl.allow(w, r, ClassMutation, set) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Visitors returns the number of tracked client IPs for class.
func (rl *RateLimiter) Visitors(class string) int {
	return rl.set(class).size()
}

func (rl *RateLimiter) set(class string) *bucketSet {
	set, ok := rl.classes[class]
	if !ok {
		// ALLOW-PANIC: programming error in route wiring
		panic(fmt.Sprintf("unknown rate limit class %q", class))
	}
	return set
}

func (rl *RateLimiter) allow(w http.ResponseWriter, r *http.Request, class string, set *bucketSet) bool {
	ip := clientIP(r)
	if set.get(ip, time.Now()).Allow() {
		return true
	}

	rl.recorder.RecordRateLimited(class)
	logger.FromContext(r.Context()).WarnContext(r.Context(), "rate limit exceeded",
		"limit_class", class,
		"client_ip", ip)

	w.Header().Set("Retry-After", strconv.Itoa(retryAfter(set.refill)))
	rl.faults.Respond(w, r, apperr.RateLimited())
	return false
}

func (rl *RateLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.sweep(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

// sweep drops buckets idle for longer than two windows; such a bucket has
// refilled completely and is indistinguishable from a new one.
func (rl *RateLimiter) sweep(now time.Time) {
	idle := 2 * rl.window
	if idle < defaultCleanupInterval {
		idle = defaultCleanupInterval
	}
	cutoff := now.Add(-idle)
	for _, set := range rl.classes {
		set.sweep(cutoff)
	}
}

// retryAfter rounds the time to refill one token up to whole seconds.
func retryAfter(refill time.Duration) int {
	secs := int(math.Ceil(refill.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

// clientIP returns the host part of RemoteAddr, which chi's RealIP middleware
// has already rewritten from proxy headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
