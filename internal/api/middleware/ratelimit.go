package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/damu-app/damu-api/internal/api/shared"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// UserRateLimiter applies a token bucket per authenticated user. It must run
// after Authenticate; requests without a user pass through.
type UserRateLimiter struct {
	limit rate.Limit
	burst int
	// idleAfter is how long an unused bucket takes to refill completely; such
	// a bucket is indistinguishable from a new one and is evicted.
	idleAfter time.Duration
	now       func() time.Time

	mu        sync.Mutex
	visitors  map[uuid.UUID]*visitor
	lastSweep time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewUserRateLimiter allows perMinute requests per user per minute, with
// bursts of the same size. perMinute <= 0 disables limiting.
func NewUserRateLimiter(perMinute int) *UserRateLimiter {
	if perMinute <= 0 {
		return &UserRateLimiter{limit: rate.Inf}
	}
	return &UserRateLimiter{
		limit:     rate.Limit(float64(perMinute) / 60),
		burst:     perMinute,
		idleAfter: time.Minute,
		now:       time.Now,
		visitors:  make(map[uuid.UUID]*visitor),
	}
}

func (l *UserRateLimiter) limiter(id uuid.UUID) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idleAfter {
		l.sweep(now)
	}

	v, ok := l.visitors[id]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[id] = v
	}
	v.lastSeen = now
	return v.limiter
}

// sweep drops buckets idle for at least idleAfter. Callers hold mu.
func (l *UserRateLimiter) sweep(now time.Time) {
	for id, v := range l.visitors {
		if now.Sub(v.lastSeen) >= l.idleAfter {
			delete(l.visitors, id)
		}
	}
	l.lastSweep = now
}

// tracked reports how many users currently hold a bucket.
func (l *UserRateLimiter) tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// Limit rejects requests over the user's rate with 429 and a Retry-After header.
func (l *UserRateLimiter) Limit(next http.Handler) http.Handler {
	if l.limit == rate.Inf {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := shared.UserIDFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		res := l.limiter(userID).Reserve()
		if delay := res.Delay(); delay > 0 {
			res.Cancel()
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests, "Too many requests",
				fmt.Errorf("rate limit exceeded, retry in %s", delay.Round(time.Second)))
			return
		}
		next.ServeHTTP(w, r)
	})
}
