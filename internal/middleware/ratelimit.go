package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/BruksfildServices01/hyperlocal-booking/internal/httperr"
)

// RateLimiter keeps one token bucket per client ip. Idle buckets expire.
type RateLimiter struct {
	limiters *cache.Cache
	rps      rate.Limit
	burst    int
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: cache.New(10*time.Minute, 15*time.Minute),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	if v, found := rl.limiters.Get(key); found {
		return v.(*rate.Limiter)
	}

	l := rate.NewLimiter(rl.rps, rl.burst)
	if err := rl.limiters.Add(key, l, cache.DefaultExpiration); err != nil {
		// lost the race to another request from the same ip
		if v, found := rl.limiters.Get(key); found {
			return v.(*rate.Limiter)
		}
	}
	return l
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter(c.ClientIP()).Allow() {
			httperr.TooManyRequests(c)
			return
		}
		c.Next()
	}
}
