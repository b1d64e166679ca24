package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRemainingCountsDown(t *testing.T) {
	assert.Equal(t, 9, remaining(10, 1))
	assert.Equal(t, 1, remaining(10, 9))
	assert.Equal(t, 0, remaining(10, 10))
}

func TestRemainingNeverNegative(t *testing.T) {
	assert.Equal(t, 0, remaining(10, 11))
	assert.Equal(t, 0, remaining(10, 500))
	assert.Equal(t, 0, remaining(0, 1))
}

func TestToInt(t *testing.T) {
	assert.Equal(t, 7, toInt(int64(7)))
	assert.Equal(t, 7, toInt(7))
	assert.Equal(t, 7, toInt("7"))
	assert.Equal(t, 0, toInt("junk"))
	assert.Equal(t, 0, toInt(nil))
}

func TestRateLimitNilClientPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimit(nil, 5, time.Minute, KeyByIP(), nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestKeyFuncsIncludeClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/users", nil)
	c.Set("real_ip", "192.0.2.1")

	assert.Equal(t, "rl:ip:192.0.2.1", KeyByIP()(c))
	assert.Equal(t, "rl:path:/api/users:ip:192.0.2.1", KeyByIPAndPath()(c))
}
