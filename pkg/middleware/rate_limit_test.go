package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/datacat/asset-service/pkg/metrics"
)

func doRequest(r *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/limited", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware_AllowsUnderLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(10, 2)) // generous rate
	r.GET("/limited", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	before := testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory"))

	w1 := doRequest(r, "10.1.0.1:1000")
	w2 := doRequest(r, "10.1.0.1:1000")

	require.Equal(t, http.StatusOK, w1.Code)
	require.Equal(t, http.StatusOK, w2.Code)

	after := testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory"))
	require.Equal(t, 2.0, after-before)
}

func TestRateLimitMiddleware_BlocksWhenExceeded(t *testing.T) {
	r := gin.New()
	// very low rate to force rejections
	r.Use(RateLimitMiddleware(0.5, 1))
	r.GET("/limited", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// first request -> allowed
	w1 := doRequest(r, "10.2.0.1:1000")
	require.Equal(t, http.StatusOK, w1.Code)

	// immediate second request -> should be rate-limited
	w2 := doRequest(r, "10.2.0.1:1000")
	require.Equal(t, http.StatusTooManyRequests, w2.Code)

	// wait long enough to replenish one token (0.5 rps -> 2s per token)
	time.Sleep(2100 * time.Millisecond)
	w3 := doRequest(r, "10.2.0.1:1000")
	require.Equal(t, http.StatusOK, w3.Code)
}

func TestRateLimitMiddleware_SeparateClientsSeparateBuckets(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(0.5, 1))
	r.GET("/limited", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	w1 := doRequest(r, "10.3.0.1:1000")
	require.Equal(t, http.StatusOK, w1.Code)
	w2 := doRequest(r, "10.3.0.1:1000")
	require.Equal(t, http.StatusTooManyRequests, w2.Code)

	// a second client is unaffected by the first client's bucket
	w3 := doRequest(r, "10.3.0.2:1000")
	require.Equal(t, http.StatusOK, w3.Code)
}
