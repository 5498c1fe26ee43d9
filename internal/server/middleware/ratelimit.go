// file: internal/server/middleware/ratelimit.go
// version: 2.0.0
// guid: 1331705a-85cb-4158-92f5-5ce203d8a0e7

package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Lookup costs, in remote requests, for the routes that reach the lookup
// service. A cover costs a search plus the image download. A batch is
// charged per ISBN by its handler once the body is parsed.
const (
	IdentifyCost = 1
	CoverCost    = 2
)

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LookupLimiter budgets the remote lookups each client may trigger. Tokens
// are remote requests, so one request can spend several.
type LookupLimiter struct {
	mu      sync.Mutex
	buckets map[string]*clientBucket
	perMin  int
	burst   int
	idleTTL time.Duration
	now     func() time.Time
}

// NewLookupLimiter allows perMin remote lookups a minute per client, with
// up to burst spent at once.
func NewLookupLimiter(perMin, burst int) *LookupLimiter {
	if perMin < 1 {
		perMin = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &LookupLimiter{
		buckets: make(map[string]*clientBucket),
		perMin:  perMin,
		burst:   burst,
		idleTTL: 15 * time.Minute,
		now:     time.Now,
	}
}

func (l *LookupLimiter) bucket(client string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > l.idleTTL {
			delete(l.buckets, key)
		}
	}

	b, ok := l.buckets[client]
	if !ok {
		b = &clientBucket{
			limiter: rate.NewLimiter(rate.Limit(float64(l.perMin)/60.0), l.burst),
		}
		l.buckets[client] = b
	}
	b.lastSeen = now
	return b.limiter
}

// Take spends cost lookups from the caller's budget. When the budget is
// short it writes a 429 with Retry-After, aborts the context and returns
// false. Costs above the burst are clamped to it so a large batch still
// runs once the bucket is full.
func (l *LookupLimiter) Take(c *gin.Context, cost int) bool {
	if cost < 1 {
		cost = 1
	}
	if cost > l.burst {
		cost = l.burst
	}
	client := c.ClientIP()
	if client == "" {
		client = "unknown"
	}

	now := l.now()
	res := l.bucket(client, now).ReserveN(now, cost)
	wait := res.DelayFrom(now)
	if wait == 0 {
		return true
	}
	res.CancelAt(now)

	c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":  "rate limit exceeded",
		"code":   "RATE_LIMITED",
		"status": http.StatusTooManyRequests,
		"cost":   cost,
	})
	return false
}

// Middleware charges a fixed cost per request.
func (l *LookupLimiter) Middleware(cost int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Take(c, cost) {
			return
		}
		c.Next()
	}
}
