package middleware

import (
	"fmt"
	"time"

	"github.com/clientscore/backend/internal/config"
	"github.com/clientscore/backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// newLimiterStore shares counters through Redis when a client is configured
// so every replica enforces the same budget.
func newLimiterStore(client *redis.Client, prefix string) (limiter.Store, error) {
	if client == nil {
		return memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: prefix, CleanUpInterval: limiter.DefaultCleanUpInterval}), nil
	}
	return sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: prefix})
}

func RateLimitMiddleware(cfg *config.Config, client *redis.Client) (gin.HandlerFunc, error) {
	rate := limiter.Rate{
		Period: time.Second,
		Limit:  int64(cfg.RateLimitRPS),
	}

	store, err := newLimiterStore(client, "limiter_global")
	if err != nil {
		return nil, err
	}
	instance := limiter.New(store, rate)

	return mgin.NewMiddleware(instance,
		mgin.WithKeyGetter(func(c *gin.Context) string {
			return fmt.Sprintf("%s:%s", c.ClientIP(), c.Request.URL.Path)
		}),
		mgin.WithLimitReachedHandler(limitReached),
	), nil
}

// ReviewSubmitLimiter caps review submissions per client IP per hour. The IP
// comes from gin's ClientIP, which honors forward headers only from the
// engine's trusted proxies.
func ReviewSubmitLimiter(cfg *config.Config, client *redis.Client) (gin.HandlerFunc, error) {
	rate := limiter.Rate{
		Period: time.Hour,
		Limit:  int64(cfg.ReviewRateLimit),
	}

	store, err := newLimiterStore(client, "limiter_review")
	if err != nil {
		return nil, err
	}
	instance := limiter.New(store, rate)

	return mgin.NewMiddleware(instance,
		mgin.WithKeyGetter(func(c *gin.Context) string {
			return c.ClientIP()
		}),
		mgin.WithLimitReachedHandler(limitReached),
	), nil
}

func limitReached(c *gin.Context) {
	utils.SendError(c, 429, "Too many requests, please try again later")
	c.Abort()
}
