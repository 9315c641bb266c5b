package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimitWindow(t *testing.T) {
	rl := NewRateLimiter(2, 1)
	r := gin.New()
	r.GET("/ping", rl.RateLimit(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusTooManyRequests, do())
}

// Two in-flight requests must be able to sit inside their handlers at the
// same time; the limiter's lock covers only the window bookkeeping.
func TestRateLimitDoesNotSerializeRequests(t *testing.T) {
	rl := NewRateLimiter(10, 1)
	r := gin.New()

	arrived := make(chan struct{}, 2)
	release := make(chan struct{})
	r.GET("/slow", rl.RateLimit(), func(c *gin.Context) {
		arrived <- struct{}{}
		<-release
		c.Status(http.StatusOK)
	})

	done := make(chan *httptest.ResponseRecorder, 2)
	for i := 0; i < 2; i++ {
		go func() {
			req := httptest.NewRequest(http.MethodGet, "/slow", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			done <- w
		}()
	}

	for i := 0; i < 2; i++ {
		select {
		case <-arrived:
		case <-time.After(2 * time.Second):
			t.Fatal("second request never reached the handler; the limiter is serializing")
		}
	}
	close(release)

	for i := 0; i < 2; i++ {
		w := <-done
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
