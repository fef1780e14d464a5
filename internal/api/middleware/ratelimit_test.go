package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func rateLimitedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/work",
		func(c *gin.Context) {
			if sub := c.Query("sub"); sub != "" {
				c.Set("user_id", sub)
			}
		},
		RateLimit(rate.Limit(1), 1),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	return r
}

func hit(r *gin.Engine, target string) int {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w.Code
}

func TestRateLimitKeysBySubject(t *testing.T) {
	r := rateLimitedRouter(t)

	assert.Equal(t, http.StatusOK, hit(r, "/work?sub=user-a"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "/work?sub=user-a"))

	// httptest requests share one RemoteAddr; a second subject behind the
	// same address still gets its own bucket
	assert.Equal(t, http.StatusOK, hit(r, "/work?sub=user-b"))
}

func TestRateLimitFallsBackToClientIP(t *testing.T) {
	r := rateLimitedRouter(t)

	assert.Equal(t, http.StatusOK, hit(r, "/work"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "/work"))
}
