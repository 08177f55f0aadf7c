package server

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// maxIdleBuckets triggers pruning of idle chat limiters.
const maxIdleBuckets = 10000

// chatLimiter keeps one token bucket per chat.
type chatLimiter struct {
	now      func() time.Time
	buckets  map[string]*bucket
	interval time.Duration
	capacity int
	mu       sync.Mutex
}

type bucket struct {
	lastSeen time.Time
	limiter  *rate.Limiter
}

// newChatLimiter allows perMinute messages per chat with bursts up to
// perMinute. It returns nil when perMinute is not positive.
func newChatLimiter(perMinute int, now func() time.Time) *chatLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &chatLimiter{
		now:      now,
		buckets:  make(map[string]*bucket),
		interval: time.Minute / time.Duration(perMinute),
		capacity: perMinute,
	}
}

// allow takes a token from chatID's bucket. When the bucket is empty it
// returns false and the wait until the next token.
func (l *chatLimiter) allow(chatID string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[chatID]
	if !ok {
		if len(l.buckets) >= maxIdleBuckets {
			l.prune(now)
		}
		b = &bucket{limiter: rate.NewLimiter(rate.Every(l.interval), l.capacity)}
		l.buckets[chatID] = b
	}
	b.lastSeen = now

	r := b.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// prune drops limiters idle long enough to have refilled completely.
func (l *chatLimiter) prune(now time.Time) {
	full := time.Duration(l.capacity) * l.interval
	for id, b := range l.buckets {
		if now.Sub(b.lastSeen) >= full {
			delete(l.buckets, id)
		}
	}
}

// rateLimitMiddleware rejects a chat's messages beyond its budget.
func rateLimitMiddleware(l *chatLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, wait := l.allow(c.Param("id"))
		if !ok {
			seconds := int(wait.Round(time.Second) / time.Second)
			c.Header("Retry-After", strconv.Itoa(max(seconds, 1)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many messages"})
			return
		}
		c.Next()
	}
}
