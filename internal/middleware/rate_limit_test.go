package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func limitedRouter(rl *RateLimiter, userID uint) *gin.Engine {
	r := gin.New()
	r.POST("/recipes/:id", func(c *gin.Context) {
		if userID != 0 {
			c.Set(userIDKey, userID)
		}
		c.Next()
	}, rl.PerRecipeRateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func post(r http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, path, nil))
	return rr
}

func TestRateLimiterWithoutRedis(t *testing.T) {
	rl := NewRecipeModificationRateLimiter(nil, time.Hour, 1, logger.Nop())
	r := limitedRouter(rl, 1)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, post(r, "/recipes/1").Code)
	}
}

func TestRateLimiterFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	rl := NewRecipeModificationRateLimiter(client, time.Hour, 1, logger.Nop())
	rr := post(limitedRouter(rl, 1), "/recipes/1")

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "rate limit check failed", rr.Header().Get("X-RateLimit-Error"))
}

func TestRateLimiterWithRedis(t *testing.T) {
	client := testhelpers.SetupRedis(t)

	rl := NewRecipeModificationRateLimiter(client, time.Hour, 2, logger.Nop())
	r := limitedRouter(rl, 7)

	first := post(r, "/recipes/1")
	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusNoContent, post(r, "/recipes/1").Code)
	assert.Equal(t, http.StatusTooManyRequests, post(r, "/recipes/1").Code)

	// Each recipe has its own budget.
	assert.Equal(t, http.StatusNoContent, post(r, "/recipes/2").Code)

	// Anonymous requests are not counted; auth rejects them elsewhere.
	assert.Equal(t, http.StatusNoContent, post(limitedRouter(rl, 0), "/recipes/1").Code)
}
