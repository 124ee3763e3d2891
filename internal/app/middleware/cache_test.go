package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCacheMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hits := 0
	r := gin.New()
	r.GET("/cached", Cache(CacheConfig{Expiration: time.Minute}), func(c *gin.Context) {
		hits++
		c.JSON(http.StatusOK, gin.H{"hits": hits})
	})

	// 第一次请求穿透到处理器
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cached", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, hits)

	// 第二次请求命中缓存，处理器不再执行
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cached", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, hits)
	assert.Contains(t, w.Body.String(), `"hits":1`)
}

func TestCacheKeyedByQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/keyed", Cache(CacheConfig{Expiration: time.Minute}), func(c *gin.Context) {
		c.String(http.StatusOK, "page=%s", c.Query("page"))
	})

	// 不同查询参数使用不同缓存键
	for _, page := range []string{"1", "2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/keyed?page="+page, nil))
		assert.Equal(t, fmt.Sprintf("page=%s", page), w.Body.String())
	}
}

func TestCacheSkipsNonGET(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hits := 0
	r := gin.New()
	r.POST("/uncached", Cache(CacheConfig{Expiration: time.Minute}), func(c *gin.Context) {
		hits++
		c.JSON(http.StatusOK, gin.H{"hits": hits})
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/uncached", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	// POST请求不走缓存，每次都执行处理器
	assert.Equal(t, 2, hits)
}
